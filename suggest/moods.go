package suggest

import "strings"

// A Mood is a named preset mapping a listening mood onto Discogs genre and
// style names. Presets are static configuration; the sync pipeline never
// touches them.
type Mood struct {
	Slug          string   `json:"slug"`
	Label         string   `json:"label"`
	Emoji         string   `json:"emoji"`
	Genres        []string `json:"-"`
	Styles        []string `json:"-"`
	ExcludeStyles []string `json:"-"`
}

var moods = []Mood{
	{
		Slug:   "melancholy",
		Label:  "Melancholy",
		Emoji:  "🌧",
		Genres: []string{"Blues", "Jazz", "Folk, World, & Country"},
		Styles: []string{"Slowcore", "Soul", "Acoustic", "Ballad"},
	},
	{
		Slug:   "energetic",
		Label:  "Energetic",
		Emoji:  "⚡",
		Genres: []string{"Rock", "Electronic", "Hip-Hop"},
		Styles: []string{"Punk", "Hardcore", "Techno", "Garage Rock"},
	},
	{
		Slug:   "chill",
		Label:  "Chill",
		Emoji:  "🌿",
		Genres: []string{"Jazz", "Electronic", "Folk, World, & Country"},
		Styles: []string{"Ambient", "Downtempo", "Bossa Nova", "Lounge"},
	},
	{
		Slug:   "dark",
		Label:  "Dark",
		Emoji:  "🌑",
		Genres: []string{"Rock", "Electronic", "Metal"},
		Styles: []string{"Gothic Rock", "Post-Punk", "Industrial", "Doom Metal", "Darkwave"},
	},
	{
		Slug:   "happy",
		Label:  "Happy",
		Emoji:  "☀️",
		Genres: []string{"Pop", "Reggae", "Funk / Soul"},
		Styles: []string{"Disco", "Funk", "Pop Rock", "Bubblegum"},
	},
	{
		Slug:  "fast",
		Label: "Fast",
		Emoji: "🔥",
		Styles: []string{
			"Speed Metal", "Thrash Metal", "Power Metal", "Death Metal",
			"Black Metal", "Heavy Metal", "Grindcore", "Metalcore",
			"Neoclassical", "US Power Metal",
		},
		ExcludeStyles: []string{
			"Doom Metal", "Stoner Rock", "Ballad", "Slowcore", "Drone",
			"Ambient", "Funeral Doom", "Lounge", "Acoustic", "Folk Rock",
			"Soundtrack", "Soft Rock", "Singer-Songwriter", "Stage & Screen",
		},
	},
	{
		Slug:   "focus",
		Label:  "Focus",
		Emoji:  "🎯",
		Genres: []string{"Classical", "Electronic", "Jazz"},
		Styles: []string{"Ambient", "Post-Rock", "Instrumental", "Modern Classical"},
	},
	{
		Slug:   "party",
		Label:  "Party",
		Emoji:  "🎉",
		Genres: []string{"Electronic", "Hip-Hop", "Funk / Soul"},
		Styles: []string{"Punk", "House", "Techno", "Disco", "Funk", "Dance"},
	},
}

// Moods returns every mood preset in display order.
func Moods() []Mood {
	out := make([]Mood, len(moods))
	copy(out, moods)
	return out
}

// MoodBySlug finds a preset by its slug, case-insensitively.
func MoodBySlug(slug string) (*Mood, bool) {
	slug = strings.ToLower(slug)
	for i := range moods {
		if moods[i].Slug == slug {
			return &moods[i], true
		}
	}
	return nil, false
}

// Package suggest selects releases from the synced collection: by mood
// preset, by free-text vibe prompt, or at random. All selection is
// collection-scoped and ends in the same fallback contract: a constrained
// match that comes up empty falls back to a random sample, and an empty
// random sample means the collection itself is empty.
package suggest

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/isAdamBailey/black-circles/data"
	"github.com/isAdamBailey/black-circles/db"
	"go.uber.org/zap"
)

// ErrEmptyCollection reports that no release is in the collection at all;
// callers surface it as a user-facing condition, not an internal error.
var ErrEmptyCollection = errors.New("collection is empty")

// ErrUnknownMood reports a mood slug with no preset.
var ErrUnknownMood = errors.New("unknown mood")

// A Classifier scores candidate labels against free text. It matches
// hf.Client; a nil Classifier disables prompt classification.
type Classifier interface {
	Enabled() bool
	Classify(ctx context.Context, text string, candidateLabels []string) map[string]float64
}

// PartitionLabels splits scored labels into known genre and style names;
// it matches hf.PartitionLabels.
type PartitionFunc func(scored map[string]float64, allGenres, allStyles []string) (genres, styles []string)

type Suggester struct {
	db         *db.DB
	classifier Classifier
	partition  PartitionFunc
	log        *zap.Logger
}

func New(database *db.DB, classifier Classifier, partition PartitionFunc, log *zap.Logger) *Suggester {
	if log == nil {
		log = zap.NewNop()
	}
	return &Suggester{
		db:         database,
		classifier: classifier,
		partition:  partition,
		log:        log,
	}
}

// A Projection is the formatted view of a release handed to callers.
type Projection struct {
	DiscogsID  int64    `json:"discogs_id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	CoverImage string   `json:"cover_image"`
	Thumb      string   `json:"thumb"`
	Year       *int     `json:"year"`
	Genres     []string `json:"genres"`
	Styles     []string `json:"styles"`
}

// Format projects a release for presentation.
func Format(release *data.Release) Projection {
	return Projection{
		DiscogsID:  release.DiscogsID,
		Title:      release.Title,
		Artist:     release.Artist,
		CoverImage: release.CoverImage,
		Thumb:      release.Thumb,
		Year:       release.Year,
		Genres:     release.Genres,
		Styles:     release.Styles,
	}
}

// A Suggestion is one primary pick plus the rest of the sampled pool.
type Suggestion struct {
	Primary Projection   `json:"primary"`
	Backups []Projection `json:"backups"`
}

// ByTaxonomy returns a random sample of collection releases matching any of
// the genres or any of the styles, excluding releases with any excluded
// style.
func (s *Suggester) ByTaxonomy(ctx context.Context, genres, styles, excludeStyles []string, limit int) ([]data.Release, error) {
	return s.db.MatchingReleases(ctx, genres, styles, excludeStyles, limit)
}

// ByFreeText returns a random sample of collection releases whose artist or
// title contains any usable term from the prompt. Terms shorter than three
// characters are dropped; with no usable terms the result is empty.
func (s *Suggester) ByFreeText(ctx context.Context, prompt string, limit int) ([]data.Release, error) {
	terms := tokenize(prompt)
	if len(terms) == 0 {
		return nil, nil
	}
	return s.db.ReleasesMatchingTerms(ctx, terms, limit)
}

// Random returns an unconstrained random sample from the collection.
func (s *Suggester) Random(ctx context.Context, limit int) ([]data.Release, error) {
	return s.db.RandomReleases(ctx, limit)
}

// ForMood runs the mood flow: taxonomy match by preset, random fallback.
func (s *Suggester) ForMood(ctx context.Context, slug string, limit int) (*Suggestion, error) {
	mood, ok := MoodBySlug(slug)
	if !ok {
		return nil, ErrUnknownMood
	}

	pool, err := s.ByTaxonomy(ctx, mood.Genres, mood.Styles, mood.ExcludeStyles, limit)
	if err != nil {
		return nil, err
	}
	return s.withRandomFallback(ctx, pool, limit)
}

// ForVibe runs the free-text flow: direct artist/title match first; failing
// that, classify the prompt against every known genre and style name and
// taxonomy-match the labels that score; failing that, a random sample.
func (s *Suggester) ForVibe(ctx context.Context, prompt string, limit int) (*Suggestion, error) {
	pool, err := s.ByFreeText(ctx, prompt, limit)
	if err != nil {
		return nil, err
	}
	if len(pool) > 0 {
		return makeSuggestion(pool), nil
	}

	allGenres, err := s.db.GenreNames(ctx)
	if err != nil {
		return nil, err
	}
	allStyles, err := s.db.StyleNames(ctx)
	if err != nil {
		return nil, err
	}

	if s.classifier != nil && s.classifier.Enabled() && len(allGenres)+len(allStyles) > 0 {
		labels := append(append([]string{}, allGenres...), allStyles...)
		scored := s.classifier.Classify(ctx, prompt, labels)
		genres, styles := s.partition(scored, allGenres, allStyles)
		if len(genres) > 0 || len(styles) > 0 {
			pool, err = s.ByTaxonomy(ctx, genres, styles, nil, limit)
			if err != nil {
				return nil, err
			}
		}
	}

	return s.withRandomFallback(ctx, pool, limit)
}

func (s *Suggester) withRandomFallback(ctx context.Context, pool []data.Release, limit int) (*Suggestion, error) {
	if len(pool) == 0 {
		var err error
		pool, err = s.Random(ctx, limit)
		if err != nil {
			return nil, err
		}
	}
	if len(pool) == 0 {
		return nil, ErrEmptyCollection
	}
	return makeSuggestion(pool), nil
}

func makeSuggestion(pool []data.Release) *Suggestion {
	suggestion := &Suggestion{
		Primary: Format(&pool[0]),
		Backups: make([]Projection, 0, len(pool)-1),
	}
	for i := 1; i < len(pool); i++ {
		suggestion.Backups = append(suggestion.Backups, Format(&pool[i]))
	}
	return suggestion
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// tokenize splits a prompt into deduplicated alphanumeric terms at least
// three characters long.
func tokenize(prompt string) []string {
	cleaned := nonWord.ReplaceAllString(prompt, " ")

	seen := map[string]bool{}
	var terms []string
	for _, term := range strings.Fields(cleaned) {
		if len(term) < 3 {
			continue
		}
		key := strings.ToLower(term)
		if seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, term)
	}
	return terms
}

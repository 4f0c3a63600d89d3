package discogs

// A CollectionPage is one page of a user's collection folder listing.
type CollectionPage struct {
	Pagination Pagination          `json:"pagination"`
	Releases   []CollectionRelease `json:"releases"`
}

type Pagination struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage int `json:"per_page"`
	Items   int `json:"items"`
}

// A CollectionRelease is one owned copy as listed in a collection folder.
// The embedded BasicInformation is the summarized release payload, not full
// release detail.
type CollectionRelease struct {
	InstanceID       int64            `json:"instance_id"`
	FolderID         int64            `json:"folder_id"`
	Rating           int              `json:"rating"`
	DateAdded        string           `json:"date_added"`
	Notes            []FieldNote      `json:"notes"`
	BasicInformation BasicInformation `json:"basic_information"`
}

type FieldNote struct {
	FieldID int64  `json:"field_id"`
	Value   string `json:"value"`
}

type BasicInformation struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Year       int      `json:"year"`
	CoverImage string   `json:"cover_image"`
	Thumb      string   `json:"thumb"`
	Artists    []Artist `json:"artists"`
	Labels     []Label  `json:"labels"`
	Formats    []Format `json:"formats"`
	Genres     []string `json:"genres"`
	Styles     []string `json:"styles"`
}

// An Artist entry carries both the canonical name (possibly with a
// disambiguation suffix like "Bailey (2)") and the ANV, an alternate display
// name without the suffix.
type Artist struct {
	Name string `json:"name"`
	ANV  string `json:"anv"`
}

type Label struct {
	Name  string `json:"name"`
	CatNo string `json:"catno"`
}

type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Text         string   `json:"text"`
	Descriptions []string `json:"descriptions"`
}

// ReleaseDetail is the full release payload from /releases/{id}.
type ReleaseDetail struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Year        int          `json:"year"`
	URI         string       `json:"uri"`
	Notes       string       `json:"notes"`
	LowestPrice *float64     `json:"lowest_price"`
	NumForSale  int          `json:"num_for_sale"`
	Tracklist   []TrackEntry `json:"tracklist"`
	Videos      []Video      `json:"videos"`
	Images      []Image      `json:"images"`
}

type TrackEntry struct {
	Position string `json:"position"`
	Type     string `json:"type_"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

type Video struct {
	URI         string `json:"uri"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Embed       bool   `json:"embed"`
}

type Image struct {
	Type   string `json:"type"`
	URI    string `json:"uri"`
	URI150 string `json:"uri150"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MarketStats is the /marketplace/stats payload. LowestPrice is null when
// nothing is for sale.
type MarketStats struct {
	LowestPrice     *Price `json:"lowest_price"`
	NumForSale      int    `json:"num_for_sale"`
	BlockedFromSale bool   `json:"blocked_from_sale"`
}

type Price struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}

package models

// RawGame is one catalog entry exactly as the external source (or the cached
// store) produced it. Fields may be missing, null, or nested objects instead
// of plain values, so nothing here is trusted until it has gone through the
// normalizer.
type RawGame map[string]any

// GameCanonical is the normalized, internal form of a game entry.
//
// External records are mapped into this structure first; the rule engines
// only ever see this representation.
type GameCanonical struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug,omitempty"`
	Genres          []string `json:"genres"`             // genre names
	GenreSlugs      []string `json:"-"`                  // genre slugs, used by search matching only
	Platforms       []string `json:"platforms"`          // platform names
	Released        string   `json:"released,omitempty"` // YYYY-MM-DD, empty if unknown
	TBA             bool     `json:"tba,omitempty"`
	Rating          float64  `json:"rating"`     // 0-5
	Metacritic      int      `json:"metacritic"` // 0-100
	AgeRating       int      `json:"age_rating"` // derived from ESRB label
	ESRB            string   `json:"esrb_rating,omitempty"`
	PlaytimeHours   int      `json:"playtime_hours"`
	Price           float64  `json:"price"`      // source has no price; always 0
	Difficulty      string   `json:"difficulty"` // source has no difficulty; always "normal"
	Tags            []string `json:"-"`          // all tag names, lower-cased, for rule checks
	TopTags         []string `json:"tags"`       // first 10 tag names, original case, for display
	Multiplayer     bool     `json:"multiplayer"`
	Singleplayer    bool     `json:"singleplayer"`
	Coop            bool     `json:"coop"`
	PvP             bool     `json:"pvp"`
	BackgroundImage string   `json:"background_image,omitempty"`
}

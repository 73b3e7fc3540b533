package models

// PreferenceRequest is the flat preference set used by the batch recommender.
// Every field is optional; an absent field means "no constraint".
type PreferenceRequest struct {
	Genres           []string `json:"genres"`             // preferred genres, e.g. ["RPG","Action"]
	Platforms        []string `json:"platforms"`          // preferred platforms, e.g. ["PC","PS5"]
	MaxPrice         *float64 `json:"max_price"`
	AllowMultiplayer *bool    `json:"allow_multiplayer"`  // true = only multiplayer, false = only single-player
	AgeRatingMax     *int     `json:"age_rating_max"`
	MinPlaytimeHours *int     `json:"min_playtime_hours"`
	Difficulty       string   `json:"difficulty"`         // "easy" | "normal" | "hard"
	ExcludeGenres    []string `json:"exclude_genres"`
	ExcludePlatforms []string `json:"exclude_platforms"`
}

type RecommendationRequest struct {
	UserID      *int64            `json:"user_id"` // optional, traceability only
	Preferences PreferenceRequest `json:"preferences"`
	Limit       int               `json:"limit"`
}

type RecommendationItem struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Genres        []string `json:"genres"`
	Platforms     []string `json:"platforms"`
	Price         float64  `json:"price"`
	AgeRating     int      `json:"age_rating"`
	PlaytimeHours int      `json:"playtime_hours"`
	Difficulty    string   `json:"difficulty"`
	Multiplayer   bool     `json:"multiplayer"`
	Score         float64  `json:"score"`
}

type RecommendationResponse struct {
	Recommendations []RecommendationItem `json:"recommendations"`
	RulesApplied    []string             `json:"rules_applied"`
	Total           int                  `json:"total"`
}

// Constraint groups for the streaming diagnose operation. Same convention:
// nil means the constraint is not stated.

type HardwareConstraints struct {
	Platform     string `json:"platform"` // target platform: PC, PS5, Xbox, Switch, ...
	MinRAMGB     *int   `json:"min_ram_gb"`
	MinStorageGB *int   `json:"min_storage_gb"`
}

type BudgetConstraints struct {
	MaxPrice *float64 `json:"max_price"`
}

type TimeConstraints struct {
	MinPlaytimeHours *int `json:"min_playtime_hours"`
	MaxPlaytimeHours *int `json:"max_playtime_hours"`
}

type ContentConstraints struct {
	AllowViolence        *bool `json:"allow_violence"`
	AgeMax               *int  `json:"age_max"`
	MultiplayerRequired  *bool `json:"multiplayer_required"`
	SingleplayerRequired *bool `json:"singleplayer_required"`
	CoopRequired         *bool `json:"coop_required"`
	PvPRequired          *bool `json:"pvp_required"`
	OfflineRequired      *bool `json:"offline_required"`
}

type PreferenceConstraints struct {
	IncludeGenres []string `json:"include_genres"`
	ExcludeGenres []string `json:"exclude_genres"`
	IncludeTags   []string `json:"include_tags"`
	ExcludeTags   []string `json:"exclude_tags"`
	MinRating     *float64 `json:"min_rating"`     // 0-5
	MinMetacritic *int     `json:"min_metacritic"` // 0-100
}

type DiagnoseRequest struct {
	Hardware    HardwareConstraints   `json:"hardware"`
	Budget      BudgetConstraints     `json:"budget"`
	Time        TimeConstraints       `json:"time"`
	Content     ContentConstraints    `json:"content"`
	Preferences PreferenceConstraints `json:"preferences"`
	Page        int                   `json:"page"`
	PageSize    int                   `json:"page_size"`
	// Limit is an accepted alias for page_size, kept for older clients.
	Limit *int `json:"limit"`
}

type DiagnoseResponse struct {
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Matched  int             `json:"matched"`
	Examined int             `json:"examined"`
	Items    []GameCanonical `json:"items"`
}

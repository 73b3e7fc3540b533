package expert

import (
	"fmt"
	"strings"
	"time"

	"gamescout/internal/catalog"
	"gamescout/pkg/models"
)

// Streamer runs the predicate set over the NDJSON catalog in a single forward
// pass, without materializing it. Pagination is offset-based on the count of
// records that passed every predicate, and the scan stops as soon as the
// requested page is full, so the cost is bounded by where the page ends, not
// by the catalog size.
type Streamer struct {
	store      *catalog.Store
	ndjsonPath string
}

func NewStreamer(store *catalog.Store, ndjsonPath string) *Streamer {
	return &Streamer{store: store, ndjsonPath: ndjsonPath}
}

// SearchQuery is the ad hoc constraint surface of the search operation.
// List fields are expected lower-cased and trimmed by the caller.
type SearchQuery struct {
	Q             string
	Genres        []string // matched against genre names and slugs
	Platforms     []string
	MinRating     *float64
	MaxRating     *float64
	MinMetacritic *int
	MaxMetacritic *int
	ReleasedFrom  string // YYYY-MM-DD
	ReleasedTo    string // YYYY-MM-DD
	OnlyReleased  bool
	Multiplayer   *bool
	Singleplayer  *bool
	Coop          *bool
	PvP           *bool
	AgeMax        *int
	MinPlaytime   *int
	MaxPlaytime   *int
	Tags          []string
	ExcludeTags   []string
	Page          int
	PageSize      int
}

type SearchResult struct {
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Count    int                    `json:"count"`
	Items    []models.GameCanonical `json:"items"`
}

// normalizePage fills in defaults; page_size has no upper bound, so that
// concatenating k pages of size P always equals one request of size k*P.
func normalizePage(page, pageSize, defSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defSize
	}
	return page, pageSize
}

// Search scans the NDJSON catalog against the query. Both directions of the
// play-style flags are enforced here: asking singleplayer=false really means
// "no single-player games".
func (s *Streamer) Search(q SearchQuery) (SearchResult, error) {
	if err := s.store.EnsureNDJSON(s.ndjsonPath); err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	page, pageSize := normalizePage(q.Page, q.PageSize, 20)
	start := (page - 1) * pageSize
	end := start + pageSize

	var from, to *time.Time
	if d, ok := parseDate(q.ReleasedFrom); ok {
		from = &d
	}
	if d, ok := parseDate(q.ReleasedTo); ok {
		to = &d
	}

	res := SearchResult{Page: page, PageSize: pageSize}
	passed := 0

	err := s.store.ForEachNDJSON(s.ndjsonPath, func(raw models.RawGame) bool {
		g := NormalizeAny(raw)

		if q.Q != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(q.Q)) {
			return true
		}
		if len(q.Genres) > 0 && !anyInSet(lowerSet(g.Genres, g.GenreSlugs), q.Genres) {
			return true
		}
		if len(q.Platforms) > 0 && !anyInSet(lowerSet(g.Platforms), q.Platforms) {
			return true
		}
		if q.MinRating != nil && g.Rating < *q.MinRating {
			return true
		}
		if q.MaxRating != nil && g.Rating > *q.MaxRating {
			return true
		}
		if q.MinMetacritic != nil && g.Metacritic < *q.MinMetacritic {
			return true
		}
		if q.MaxMetacritic != nil && g.Metacritic > *q.MaxMetacritic {
			return true
		}
		if q.OnlyReleased && (g.TBA || g.Released == "") {
			return true
		}
		if !withinReleaseWindow(g.Released, from, to) {
			return true
		}
		if q.Multiplayer != nil && g.Multiplayer != *q.Multiplayer {
			return true
		}
		if q.Singleplayer != nil && g.Singleplayer != *q.Singleplayer {
			return true
		}
		if q.Coop != nil && g.Coop != *q.Coop {
			return true
		}
		if q.PvP != nil && g.PvP != *q.PvP {
			return true
		}
		if q.AgeMax != nil && g.AgeRating > *q.AgeMax {
			return true
		}
		if q.MinPlaytime != nil && g.PlaytimeHours < *q.MinPlaytime {
			return true
		}
		if q.MaxPlaytime != nil && g.PlaytimeHours > *q.MaxPlaytime {
			return true
		}
		if len(q.Tags) > 0 && !hasAnyTagExact(g.Tags, q.Tags) {
			return true
		}
		if len(q.ExcludeTags) > 0 && hasAnyTagExact(g.Tags, q.ExcludeTags) {
			return true
		}

		if passed >= start && passed < end {
			res.Items = append(res.Items, g)
			if len(res.Items) >= pageSize {
				return false
			}
		}
		passed++
		return true
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	res.Count = len(res.Items)
	return res, nil
}

// Diagnose scans the NDJSON catalog against the full constraint set. Unlike
// Search, the singleplayer/coop/pvp requirements only enforce the positive
// direction here (required=true means "must have it"; required=false is a
// no-op); the multiplayer requirement enforces both.
func (s *Streamer) Diagnose(req models.DiagnoseRequest) (models.DiagnoseResponse, error) {
	if err := s.store.EnsureNDJSON(s.ndjsonPath); err != nil {
		return models.DiagnoseResponse{}, fmt.Errorf("diagnose: %w", err)
	}

	pageSize := req.PageSize
	if req.Limit != nil {
		pageSize = *req.Limit
	}
	page, pageSize := normalizePage(req.Page, pageSize, 12)
	start := (page - 1) * pageSize
	end := start + pageSize

	resp := models.DiagnoseResponse{Page: page, PageSize: pageSize}
	passed := 0

	err := s.store.ForEachNDJSON(s.ndjsonPath, func(raw models.RawGame) bool {
		resp.Examined++
		g := NormalizeAny(raw)

		if !diagnoseKeep(g, req) {
			return true
		}

		if passed >= start && passed < end {
			resp.Items = append(resp.Items, g)
			if len(resp.Items) >= pageSize {
				return false
			}
		}
		passed++
		return true
	})
	if err != nil {
		return models.DiagnoseResponse{}, fmt.Errorf("diagnose: %w", err)
	}

	resp.Matched = len(resp.Items)
	return resp, nil
}

// diagnoseKeep applies every diagnose predicate to one canonical record.
func diagnoseKeep(g models.GameCanonical, req models.DiagnoseRequest) bool {
	content := req.Content
	prefs := req.Preferences

	// sensitive content is suppressed for minors and for callers that
	// explicitly disallow violence
	if content.AgeMax != nil && *content.AgeMax < 18 && hasSensitiveTags(g.Tags) {
		return false
	}
	if content.AllowViolence != nil && !*content.AllowViolence && hasSensitiveTags(g.Tags) {
		return false
	}
	if content.AgeMax != nil && g.AgeRating > *content.AgeMax {
		return false
	}
	if content.MultiplayerRequired != nil && g.Multiplayer != *content.MultiplayerRequired {
		return false
	}
	if content.SingleplayerRequired != nil && *content.SingleplayerRequired && !g.Singleplayer {
		return false
	}
	if content.CoopRequired != nil && *content.CoopRequired && !g.Coop {
		return false
	}
	if content.PvPRequired != nil && *content.PvPRequired && !g.PvP {
		return false
	}
	if len(prefs.ExcludeGenres) > 0 && anyInFold(g.Genres, prefs.ExcludeGenres) {
		return false
	}
	if len(prefs.IncludeGenres) > 0 && !anyInFold(g.Genres, prefs.IncludeGenres) {
		return false
	}
	if req.Hardware.Platform != "" && !containsFold(g.Platforms, req.Hardware.Platform) {
		return false
	}
	if req.Time.MinPlaytimeHours != nil && g.PlaytimeHours < *req.Time.MinPlaytimeHours {
		return false
	}
	if req.Time.MaxPlaytimeHours != nil && g.PlaytimeHours > *req.Time.MaxPlaytimeHours {
		return false
	}
	if prefs.MinRating != nil && g.Rating < *prefs.MinRating {
		return false
	}
	if prefs.MinMetacritic != nil && g.Metacritic < *prefs.MinMetacritic {
		return false
	}
	if len(prefs.IncludeTags) > 0 && !hasAnyTagExact(g.Tags, prefs.IncludeTags) {
		return false
	}
	if len(prefs.ExcludeTags) > 0 && hasAnyTagExact(g.Tags, prefs.ExcludeTags) {
		return false
	}
	if content.OfflineRequired != nil && *content.OfflineRequired && !playsOffline(g.Tags) {
		return false
	}
	// budget: the source provides no price data, so max_price never eliminates

	return true
}

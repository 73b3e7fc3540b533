package expert

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"gamescout/pkg/models"
)

// Engine is the in-memory rule-based recommender. It holds a small canonical
// catalog which is replaced wholesale on reload: a new slice is fully built
// off to the side and then published under the lock, so concurrent readers
// see either the old or the new catalog, never a half-filled one.
type Engine struct {
	mu      sync.RWMutex
	catalog []models.GameCanonical
}

// NewEngine returns an engine seeded with a minimal curated catalog, so the
// recommender works before the first sync against the external source.
func NewEngine() *Engine {
	return &Engine{catalog: seedCatalog()}
}

func seedCatalog() []models.GameCanonical {
	return []models.GameCanonical{
		{
			ID: 1, Title: "Elden Ring",
			Genres:    []string{"RPG", "Action"},
			Platforms: []string{"PC", "PS5", "Xbox"},
			Price:     59.99, AgeRating: 16, PlaytimeHours: 80,
			Difficulty: "hard", Multiplayer: true,
			Rating: 4.8, Metacritic: 96, Released: "2022-02-25",
		},
		{
			ID: 2, Title: "Stardew Valley",
			Genres:    []string{"Simulation", "RPG"},
			Platforms: []string{"PC", "Switch", "PS5"},
			Price:     14.99, AgeRating: 7, PlaytimeHours: 60,
			Difficulty: "easy", Multiplayer: true,
			Rating: 4.5, Metacritic: 89, Released: "2016-02-26",
		},
		{
			ID: 3, Title: "Hades",
			Genres:    []string{"Action", "Roguelike"},
			Platforms: []string{"PC", "Switch", "PS5"},
			Price:     24.99, AgeRating: 12, PlaytimeHours: 25,
			Difficulty: "normal", Multiplayer: false,
			Rating: 4.6, Metacritic: 93, Released: "2020-09-17",
		},
		{
			ID: 4, Title: "The Witcher 3",
			Genres:    []string{"RPG", "Adventure"},
			Platforms: []string{"PC", "PS5", "Xbox"},
			Price:     39.99, AgeRating: 18, PlaytimeHours: 100,
			Difficulty: "normal", Multiplayer: false,
			Rating: 4.7, Metacritic: 92, Released: "2015-05-19",
		},
	}
}

// ReloadFromCache replaces the catalog with the mapped form of the given raw
// records. Records that cannot be normalized are dropped. A batch that maps
// to zero usable games is treated as a bad sync and leaves the current
// catalog untouched.
func (e *Engine) ReloadFromCache(raw []models.RawGame) {
	mapped := make([]models.GameCanonical, 0, len(raw))
	for _, r := range raw {
		if g, ok := Normalize(r); ok {
			mapped = append(mapped, g)
		}
	}
	if len(mapped) == 0 {
		return
	}
	e.mu.Lock()
	e.catalog = mapped
	e.mu.Unlock()
}

// CatalogSize returns the number of games currently loaded.
func (e *Engine) CatalogSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.catalog)
}

func (e *Engine) snapshot() []models.GameCanonical {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// Recommend filters the catalog through the eliminating rules in a fixed
// order, recording a trace entry per applied rule, then ranks the survivors
// by affinity score. Rules whose constraint is not set are skipped and leave
// no trace entry. Ties keep catalog order (stable sort).
func (e *Engine) Recommend(prefs models.PreferenceRequest, limit int) ([]models.RecommendationItem, []string) {
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	var rulesApplied []string
	candidates := e.snapshot()

	if len(prefs.ExcludeGenres) > 0 {
		before := len(candidates)
		candidates = keep(candidates, func(g models.GameCanonical) bool {
			return !anyInFold(g.Genres, prefs.ExcludeGenres)
		})
		rulesApplied = append(rulesApplied,
			fmt.Sprintf("Excluidos géneros %s (%d->%d)", fmtList(prefs.ExcludeGenres), before, len(candidates)))
	}

	if len(prefs.ExcludePlatforms) > 0 {
		before := len(candidates)
		candidates = keep(candidates, func(g models.GameCanonical) bool {
			return !anyInFold(g.Platforms, prefs.ExcludePlatforms)
		})
		rulesApplied = append(rulesApplied,
			fmt.Sprintf("Excluidas plataformas %s (%d->%d)", fmtList(prefs.ExcludePlatforms), before, len(candidates)))
	}

	if prefs.MaxPrice != nil {
		before := len(candidates)
		candidates = keep(candidates, func(g models.GameCanonical) bool {
			return g.Price <= *prefs.MaxPrice
		})
		rulesApplied = append(rulesApplied,
			fmt.Sprintf("Precio <= %g (%d->%d)", *prefs.MaxPrice, before, len(candidates)))
	}

	if prefs.AgeRatingMax != nil {
		before := len(candidates)
		candidates = keep(candidates, func(g models.GameCanonical) bool {
			return g.AgeRating <= *prefs.AgeRatingMax
		})
		rulesApplied = append(rulesApplied,
			fmt.Sprintf("Edad <= %d (%d->%d)", *prefs.AgeRatingMax, before, len(candidates)))
	}

	if prefs.AllowMultiplayer != nil {
		before := len(candidates)
		want := *prefs.AllowMultiplayer
		candidates = keep(candidates, func(g models.GameCanonical) bool {
			return g.Multiplayer == want
		})
		label := "Solo single-player"
		if want {
			label = "Solo multijugador"
		}
		rulesApplied = append(rulesApplied,
			fmt.Sprintf("%s (%d->%d)", label, before, len(candidates)))
	}

	if prefs.MinPlaytimeHours != nil {
		before := len(candidates)
		candidates = keep(candidates, func(g models.GameCanonical) bool {
			return g.PlaytimeHours >= *prefs.MinPlaytimeHours
		})
		rulesApplied = append(rulesApplied,
			fmt.Sprintf("Horas >= %d (%d->%d)", *prefs.MinPlaytimeHours, before, len(candidates)))
	}

	ranked := make([]scored, 0, len(candidates))
	for _, g := range candidates {
		ranked = append(ranked, scored{game: g, score: Score(g, prefs)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	items := make([]models.RecommendationItem, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, models.RecommendationItem{
			ID:            r.game.ID,
			Title:         r.game.Title,
			Genres:        r.game.Genres,
			Platforms:     r.game.Platforms,
			Price:         r.game.Price,
			AgeRating:     r.game.AgeRating,
			PlaytimeHours: r.game.PlaytimeHours,
			Difficulty:    r.game.Difficulty,
			Multiplayer:   r.game.Multiplayer,
			Score:         r.score,
		})
	}
	return items, rulesApplied
}

type scored struct {
	game  models.GameCanonical
	score float64
}

func keep(in []models.GameCanonical, pred func(models.GameCanonical) bool) []models.GameCanonical {
	out := make([]models.GameCanonical, 0, len(in))
	for _, g := range in {
		if pred(g) {
			out = append(out, g)
		}
	}
	return out
}

// fmtList renders a value list inside a trace entry, e.g. ['RPG', 'Action'].
func fmtList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, "'"+v+"'")
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

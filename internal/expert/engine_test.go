package expert

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamescout/pkg/models"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
func ptrB(v bool) *bool       { return &v }

func TestScoreWorkedExample(t *testing.T) {
	g := models.GameCanonical{
		Genres:        []string{"RPG", "Action"},
		Price:         20,
		PlaytimeHours: 40,
		Difficulty:    "normal",
		Rating:        4.5,
		Metacritic:    90,
	}
	prefs := models.PreferenceRequest{
		Genres:     []string{"RPG"},
		Difficulty: "hard", // no match
	}
	// 3*1 + 0 + 0 + max(0,5-1) + min(5,2) + 4.5 + 4.5 = 18.0
	assert.InDelta(t, 18.0, Score(g, prefs), 1e-9)
}

func TestScoreDeterministic(t *testing.T) {
	g := seedCatalog()[0]
	prefs := models.PreferenceRequest{Genres: []string{"rpg"}, Platforms: []string{"PC"}}
	assert.Equal(t, Score(g, prefs), Score(g, prefs))
}

func TestRecommendExcludeGenresTrace(t *testing.T) {
	e := NewEngine()
	e.ReloadFromCache([]models.RawGame{
		{"id": 1.0, "name": "A", "genres": []any{map[string]any{"name": "RPG"}}},
		{"id": 2.0, "name": "B", "genres": []any{map[string]any{"name": "RPG"}}},
		{"id": 3.0, "name": "C", "genres": []any{map[string]any{"name": "Action"}}},
		{"id": 4.0, "name": "D", "genres": []any{map[string]any{"name": "Puzzle"}}},
	})

	items, rules := e.Recommend(models.PreferenceRequest{
		ExcludeGenres: []string{"RPG"},
	}, 50)

	require.Len(t, rules, 1)
	assert.Equal(t, "Excluidos géneros ['RPG'] (4->2)", rules[0])
	assert.Len(t, items, 2)
}

var traceCounts = regexp.MustCompile(`\((\d+)->(\d+)\)$`)

func TestRecommendTraceConsistency(t *testing.T) {
	e := NewEngine()
	items, rules := e.Recommend(models.PreferenceRequest{
		ExcludeGenres:    []string{"Roguelike"},
		MaxPrice:         ptrF(45),
		AgeRatingMax:     ptrI(17),
		MinPlaytimeHours: ptrI(50),
	}, 50)

	require.NotEmpty(t, rules)

	prevAfter := -1
	for _, rule := range rules {
		m := traceCounts.FindStringSubmatch(rule)
		require.NotNil(t, m, "trace entry %q", rule)
		before, _ := strconv.Atoi(m[1])
		after, _ := strconv.Atoi(m[2])
		assert.LessOrEqual(t, after, before, "rules only eliminate")
		if prevAfter >= 0 {
			assert.Equal(t, prevAfter, before, "chain is continuous")
		}
		prevAfter = after
	}
	// the final survivor count is exactly what gets ranked
	assert.Equal(t, prevAfter, len(items))
}

func TestRecommendSkipsUnsetRules(t *testing.T) {
	e := NewEngine()
	_, rules := e.Recommend(models.PreferenceRequest{}, 5)
	assert.Empty(t, rules)
}

func TestRecommendMonotonicity(t *testing.T) {
	e := NewEngine()
	base, _ := e.Recommend(models.PreferenceRequest{}, 50)

	constrained := []models.PreferenceRequest{
		{ExcludeGenres: []string{"RPG"}},
		{ExcludePlatforms: []string{"Switch"}},
		{MaxPrice: ptrF(30)},
		{AgeRatingMax: ptrI(12)},
		{AllowMultiplayer: ptrB(true)},
		{MinPlaytimeHours: ptrI(70)},
	}
	for _, prefs := range constrained {
		items, _ := e.Recommend(prefs, 50)
		assert.LessOrEqual(t, len(items), len(base))
	}
}

func TestRecommendMultiplayerBothDirections(t *testing.T) {
	e := NewEngine()

	only, rules := e.Recommend(models.PreferenceRequest{AllowMultiplayer: ptrB(true)}, 50)
	require.Len(t, rules, 1)
	assert.Contains(t, rules[0], "Solo multijugador")
	for _, it := range only {
		assert.True(t, it.Multiplayer)
	}

	solo, rules := e.Recommend(models.PreferenceRequest{AllowMultiplayer: ptrB(false)}, 50)
	require.Len(t, rules, 1)
	assert.Contains(t, rules[0], "Solo single-player")
	for _, it := range solo {
		assert.False(t, it.Multiplayer)
	}
}

func TestRecommendRanksByScoreDescending(t *testing.T) {
	e := NewEngine()
	items, _ := e.Recommend(models.PreferenceRequest{Genres: []string{"RPG"}}, 50)
	require.NotEmpty(t, items)
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Score, items[i].Score)
	}
}

func TestRecommendLimit(t *testing.T) {
	e := NewEngine()
	items, _ := e.Recommend(models.PreferenceRequest{}, 2)
	assert.Len(t, items, 2)
}

func TestReloadFromCacheFailSoft(t *testing.T) {
	e := NewEngine()
	require.Equal(t, 4, e.CatalogSize())

	// nothing usable: existing catalog must survive
	e.ReloadFromCache([]models.RawGame{{"name": "no id"}, {}})
	assert.Equal(t, 4, e.CatalogSize())

	// partial batch: unusable records dropped, usable ones kept
	e.ReloadFromCache([]models.RawGame{
		{"id": 10.0, "name": "Kept"},
		{"name": "dropped"},
	})
	assert.Equal(t, 1, e.CatalogSize())
}

func TestRecommendStableTieOrder(t *testing.T) {
	e := NewEngine()
	// identical records score identically; catalog order must hold
	e.ReloadFromCache([]models.RawGame{
		{"id": 1.0, "name": "First"},
		{"id": 2.0, "name": "Second"},
		{"id": 3.0, "name": "Third"},
	})
	items, _ := e.Recommend(models.PreferenceRequest{}, 50)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{items[0].ID, items[1].ID, items[2].ID})
}

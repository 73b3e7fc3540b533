package expert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamescout/internal/catalog"
	"gamescout/pkg/models"
)

type rawOpt func(models.RawGame)

func withTags(names ...string) rawOpt {
	return func(r models.RawGame) {
		tags := make([]any, 0, len(names))
		for _, n := range names {
			tags = append(tags, map[string]any{"name": n})
		}
		r["tags"] = tags
	}
}

func withESRB(label string) rawOpt {
	return func(r models.RawGame) {
		r["esrb_rating"] = map[string]any{"name": label}
	}
}

func withGenre(name, slug string) rawOpt {
	return func(r models.RawGame) {
		r["genres"] = []any{map[string]any{"name": name, "slug": slug}}
	}
}

func raw(id float64, name string, opts ...rawOpt) models.RawGame {
	r := models.RawGame{
		"id":       id,
		"name":     name,
		"rating":   4.0,
		"released": "2021-06-01",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// newStreamer writes the given records as the backing stores in a temp dir
// and returns a streamer over them.
func newStreamer(t *testing.T, records ...models.RawGame) *Streamer {
	t.Helper()
	dir := t.TempDir()
	store := catalog.NewStore(filepath.Join(dir, "catalog.json"))
	require.NoError(t, store.Save(records))
	ndjsonPath := filepath.Join(dir, "catalog.ndjson")
	_, err := store.ToNDJSON(ndjsonPath)
	require.NoError(t, err)
	return NewStreamer(store, ndjsonPath)
}

func itemIDs(items []models.GameCanonical) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func tenGames(t *testing.T) *Streamer {
	records := make([]models.RawGame, 0, 10)
	for i := 1; i <= 10; i++ {
		records = append(records, raw(float64(i), "Game"))
	}
	return newStreamer(t, records...)
}

func TestSearchPaginationConcatenation(t *testing.T) {
	s := tenGames(t)

	var concat []int64
	for page := 1; page <= 2; page++ {
		res, err := s.Search(SearchQuery{Page: page, PageSize: 3})
		require.NoError(t, err)
		concat = append(concat, itemIDs(res.Items)...)
	}

	wide, err := s.Search(SearchQuery{Page: 1, PageSize: 6})
	require.NoError(t, err)
	assert.Equal(t, itemIDs(wide.Items), concat)
}

func TestSearchPageSizeUnbounded(t *testing.T) {
	records := make([]models.RawGame, 0, 60)
	for i := 1; i <= 60; i++ {
		records = append(records, raw(float64(i), "Game"))
	}
	s := newStreamer(t, records...)

	var concat []int64
	for page := 1; page <= 3; page++ {
		res, err := s.Search(SearchQuery{Page: page, PageSize: 20})
		require.NoError(t, err)
		concat = append(concat, itemIDs(res.Items)...)
	}

	wide, err := s.Search(SearchQuery{Page: 1, PageSize: 60})
	require.NoError(t, err)
	assert.Equal(t, 60, wide.PageSize)
	assert.Equal(t, itemIDs(wide.Items), concat)

	resp, err := s.Diagnose(models.DiagnoseRequest{Page: 1, PageSize: 60})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.PageSize)
	assert.Len(t, resp.Items, 60)
}

func TestSearchEarlyExitEquivalence(t *testing.T) {
	s := tenGames(t)

	small, err := s.Search(SearchQuery{Page: 1, PageSize: 2})
	require.NoError(t, err)

	wide, err := s.Search(SearchQuery{Page: 1, PageSize: 50})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(wide.Items), 2)
	assert.Equal(t, itemIDs(wide.Items)[:2], itemIDs(small.Items))
}

func TestSearchTitleSubstring(t *testing.T) {
	s := newStreamer(t,
		raw(1, "Elden Ring"),
		raw(2, "Ring Fit Adventure"),
		raw(3, "Hades"),
	)
	res, err := s.Search(SearchQuery{Q: "ring"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, itemIDs(res.Items))
}

func TestSearchGenreMatchesNameAndSlug(t *testing.T) {
	s := newStreamer(t,
		raw(1, "A", withGenre("RPG", "role-playing-games-rpg")),
		raw(2, "B", withGenre("Action", "action")),
	)

	// by name
	res, err := s.Search(SearchQuery{Genres: []string{"rpg"}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, itemIDs(res.Items))

	// by slug
	res, err = s.Search(SearchQuery{Genres: []string{"role-playing-games-rpg"}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, itemIDs(res.Items))
}

func TestSearchOnlyReleased(t *testing.T) {
	tba := raw(1, "Soon")
	tba["tba"] = true
	noDate := raw(2, "Undated")
	delete(noDate, "released")
	s := newStreamer(t, tba, noDate, raw(3, "Out"))

	res, err := s.Search(SearchQuery{OnlyReleased: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, itemIDs(res.Items))
}

func TestSearchReleaseWindow(t *testing.T) {
	early := raw(1, "Early")
	early["released"] = "2015-03-10"
	late := raw(2, "Late")
	late["released"] = "2023-11-01"
	broken := raw(3, "Broken")
	broken["released"] = "not-a-date"
	s := newStreamer(t, early, late, broken)

	res, err := s.Search(SearchQuery{ReleasedFrom: "2020-01-01"})
	require.NoError(t, err)
	// unparseable dates fail any bound that is set
	assert.Equal(t, []int64{2}, itemIDs(res.Items))

	res, err = s.Search(SearchQuery{ReleasedTo: "2020-01-01"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, itemIDs(res.Items))
}

func TestSearchPlayStyleEnforcesBothDirections(t *testing.T) {
	s := newStreamer(t,
		raw(1, "Co-op Game", withTags("Online Co-Op")),
		raw(2, "Solo Game", withTags("Singleplayer")),
	)

	res, err := s.Search(SearchQuery{Coop: ptrB(false)})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, itemIDs(res.Items))
}

func TestSearchTagFilters(t *testing.T) {
	s := newStreamer(t,
		raw(1, "A", withTags("Roguelike", "Indie")),
		raw(2, "B", withTags("Indie")),
	)

	res, err := s.Search(SearchQuery{Tags: []string{"roguelike"}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, itemIDs(res.Items))

	res, err = s.Search(SearchQuery{ExcludeTags: []string{"roguelike"}})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, itemIDs(res.Items))
}

func TestDiagnoseSensitiveContentExample(t *testing.T) {
	// Mature label maps to age 17 > 15, and "gore" is sensitive under an
	// age ceiling below 18: dropped either way.
	s := newStreamer(t,
		raw(1, "Gory Game", withESRB("Mature"), withTags("Multiplayer", "Gore")),
	)

	resp, err := s.Diagnose(models.DiagnoseRequest{
		Content: models.ContentConstraints{AgeMax: ptrI(15)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Examined)
	assert.Zero(t, resp.Matched)
	assert.Empty(t, resp.Items)
}

func TestDiagnoseViolenceDisallowed(t *testing.T) {
	s := newStreamer(t,
		raw(1, "Violent", withTags("Violence")),
		raw(2, "Calm", withTags("Relaxing")),
	)
	resp, err := s.Diagnose(models.DiagnoseRequest{
		Content: models.ContentConstraints{AllowViolence: ptrB(false)},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, itemIDs(resp.Items))
}

func TestDiagnosePositiveOnlyPlayStyles(t *testing.T) {
	s := newStreamer(t,
		raw(1, "Co-op Game", withTags("Online Co-Op")),
		raw(2, "Versus Game", withTags("Multiplayer")),
	)

	// coop_required=false does not exclude co-op games here
	resp, err := s.Diagnose(models.DiagnoseRequest{
		Content: models.ContentConstraints{CoopRequired: ptrB(false)},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, itemIDs(resp.Items))

	// but multiplayer_required=false does exclude multiplayer games
	resp, err = s.Diagnose(models.DiagnoseRequest{
		Content: models.ContentConstraints{MultiplayerRequired: ptrB(false)},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, itemIDs(resp.Items))
}

func TestDiagnoseEarlyExitStopsExamining(t *testing.T) {
	records := make([]models.RawGame, 0, 5)
	for i := 1; i <= 5; i++ {
		records = append(records, raw(float64(i), "Game"))
	}
	s := newStreamer(t, records...)

	resp, err := s.Diagnose(models.DiagnoseRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Matched)
	// the scan stops once the page is full
	assert.Equal(t, 2, resp.Examined)
}

func TestDiagnoseLimitAliasOverridesPageSize(t *testing.T) {
	s := tenGames(t)
	resp, err := s.Diagnose(models.DiagnoseRequest{Page: 1, PageSize: 8, Limit: ptrI(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.PageSize)
	assert.Len(t, resp.Items, 3)
}

func TestDiagnoseSynthesizesMissingNDJSON(t *testing.T) {
	dir := t.TempDir()
	store := catalog.NewStore(filepath.Join(dir, "catalog.json"))
	require.NoError(t, store.Save([]models.RawGame{raw(1, "Game")}))

	ndjsonPath := filepath.Join(dir, "catalog.ndjson")
	s := NewStreamer(store, ndjsonPath)

	resp, err := s.Diagnose(models.DiagnoseRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Examined)

	// conversion happened on demand
	_, err = os.Stat(ndjsonPath)
	assert.NoError(t, err)
}

func TestSearchUnidentifiedRecordStillScanned(t *testing.T) {
	// records without an id are not excluded up front in the streaming path
	noID := models.RawGame{"name": "Mystery"}
	dir := t.TempDir()
	store := catalog.NewStore(filepath.Join(dir, "catalog.json"))
	require.NoError(t, store.Save([]models.RawGame{noID}))
	ndjsonPath := filepath.Join(dir, "catalog.ndjson")
	_, err := store.ToNDJSON(ndjsonPath)
	require.NoError(t, err)
	s := NewStreamer(store, ndjsonPath)

	res, err := s.Search(SearchQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Mystery", res.Items[0].Title)

	// and it fails a stated constraint naturally
	res, err = s.Search(SearchQuery{MinRating: ptrF(1)})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestDiagnoseMonotonicity(t *testing.T) {
	s := newStreamer(t,
		raw(1, "A", withGenre("RPG", "rpg"), withTags("Singleplayer")),
		raw(2, "B", withGenre("Action", "action"), withTags("Multiplayer")),
		raw(3, "C", withGenre("Puzzle", "puzzle")),
	)

	base, err := s.Diagnose(models.DiagnoseRequest{})
	require.NoError(t, err)

	constrained := []models.DiagnoseRequest{
		{Preferences: models.PreferenceConstraints{ExcludeGenres: []string{"RPG"}}},
		{Preferences: models.PreferenceConstraints{ExcludeTags: []string{"multiplayer"}}},
		{Content: models.ContentConstraints{AgeMax: ptrI(10)}},
	}
	for _, req := range constrained {
		resp, err := s.Diagnose(req)
		require.NoError(t, err)
		assert.LessOrEqual(t, resp.Matched, base.Matched)
	}
}

// guard against the raw fixtures drifting out of valid JSON shape
func TestRawFixturesRoundTrip(t *testing.T) {
	b, err := json.Marshal(raw(1, "Game", withTags("Indie"), withESRB("Teen")))
	require.NoError(t, err)
	var back models.RawGame
	require.NoError(t, json.Unmarshal(b, &back))
	g := NormalizeAny(back)
	assert.Equal(t, int64(1), g.ID)
	assert.Equal(t, 13, g.AgeRating)
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamescout/pkg/models"
)

func testClient(t *testing.T, handler http.HandlerFunc) *RawgClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewRawgClient("test-key")
	require.NoError(t, err)
	client.BaseURL = srv.URL
	return client
}

func pageHandler(t *testing.T, pages map[string]ListResponse) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		resp, ok := pages[r.URL.Query().Get("page")]
		require.True(t, ok, "unexpected page %q", r.URL.Query().Get("page"))
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestNewRawgClientRequiresKey(t *testing.T) {
	_, err := NewRawgClient("")
	assert.Error(t, err)
}

func TestListGamesSendsFilters(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "indie", q.Get("genres"))
		assert.Equal(t, "4", q.Get("platforms"))
		assert.Equal(t, "-rating", q.Get("ordering"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "40", q.Get("page_size"))
		_ = json.NewEncoder(w).Encode(ListResponse{
			Results: []models.RawGame{{"id": float64(1), "name": "A"}},
		})
	})

	list, err := client.ListGames(context.Background(), 2, 40, ListFilters{
		Genres:    "indie",
		Platforms: "4",
		Ordering:  "-rating",
	})
	require.NoError(t, err)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "A", list.Results[0]["name"])
}

func TestListGamesNon200(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "The provided API key is invalid"}`)
	})

	_, err := client.ListGames(context.Background(), 1, 40, ListFilters{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "invalid")
}

func TestFetchAllStopsOnMissingNext(t *testing.T) {
	next := "more"
	client := testClient(t, pageHandler(t, map[string]ListResponse{
		"1": {Next: &next, Results: []models.RawGame{{"id": float64(1)}, {"id": float64(2)}}},
		"2": {Next: nil, Results: []models.RawGame{{"id": float64(3)}}},
	}))

	games, err := client.FetchAll(context.Background(), 10, 2, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, games, 3)
}

func TestFetchAllHonorsPageCap(t *testing.T) {
	next := "more"
	pages := map[string]ListResponse{}
	for i := 1; i <= 5; i++ {
		pages[fmt.Sprint(i)] = ListResponse{Next: &next, Results: []models.RawGame{{"id": float64(i)}}}
	}
	client := testClient(t, pageHandler(t, pages))

	games, err := client.FetchAll(context.Background(), 3, 1, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, games, 3)
}

func TestFetchAllStopsOnEmptyBatch(t *testing.T) {
	next := "more"
	client := testClient(t, pageHandler(t, map[string]ListResponse{
		"1": {Next: &next, Results: []models.RawGame{{"id": float64(1)}}},
		"2": {Next: &next, Results: nil},
	}))

	games, err := client.FetchAll(context.Background(), 10, 1, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

package expert

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gamescout/internal/catalog"
	synchub "gamescout/internal/sync"
	"gamescout/pkg/models"
)

type Handler struct {
	Engine     *Engine
	Streamer   *Streamer
	Store      *catalog.Store
	Hub        *synchub.Hub
	APIKey     string // RAWG key from config; /sync fails without it
	NDJSONPath string
}

func NewHandler(engine *Engine, streamer *Streamer, store *catalog.Store, hub *synchub.Hub, apiKey, ndjsonPath string) *Handler {
	return &Handler{
		Engine:     engine,
		Streamer:   streamer,
		Store:      store,
		Hub:        hub,
		APIKey:     apiKey,
		NDJSONPath: ndjsonPath,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", h.ping)
	rg.POST("/recommend", h.recommend)
	rg.POST("/sync", h.sync)
	rg.GET("/catalog-size", h.catalogSize)
	rg.GET("/download-catalog", h.downloadCatalog)
	rg.POST("/to-ndjson", h.toNDJSON)
	rg.GET("/search", h.search)
	rg.POST("/diagnose", h.diagnose)
}

func (h *Handler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) recommend(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = 5
	}
	if limit < 1 || limit > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1-50"})
		return
	}

	items, rules := h.Engine.Recommend(req.Preferences, limit)
	c.JSON(http.StatusOK, models.RecommendationResponse{
		Recommendations: items,
		RulesApplied:    rules,
		Total:           len(items),
	})
}

// sync downloads the catalog from RAWG, overwrites the cached store and
// reloads the in-memory engine. Connected sync clients get a catalog.sync
// event.
func (h *Handler) sync(c *gin.Context) {
	h.syncWithKey(c, h.APIKey, false)
}

// downloadCatalog is sync with a caller-supplied key, returning the cached
// JSON file itself.
func (h *Handler) downloadCatalog(c *gin.Context) {
	h.syncWithKey(c, c.Query("api_key"), true)
}

func (h *Handler) syncWithKey(c *gin.Context, apiKey string, sendFile bool) {
	client, err := catalog.NewRawgClient(apiKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	maxPages := parseInt(c.Query("max_pages"), 5)
	pageSize := parseInt(c.Query("page_size"), 40)
	filters := catalog.ListFilters{
		Genres:    c.Query("genres"),
		Platforms: c.Query("platforms"),
		Ordering:  c.DefaultQuery("ordering", "-rating"),
	}

	games, err := client.FetchAll(c.Request.Context(), maxPages, pageSize, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.Save(games); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cached, err := h.Store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.Engine.ReloadFromCache(cached)

	if h.Hub != nil {
		h.Hub.BroadcastJSON(synchub.CatalogEvent{
			Type:        synchub.CatalogSyncEventType,
			Downloaded:  len(games),
			CatalogSize: h.Engine.CatalogSize(),
			At:          time.Now().UTC(),
		})
	}

	if sendFile {
		c.FileAttachment(h.Store.FilePath, "catalog_games.json")
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloaded": len(games)})
}

func (h *Handler) catalogSize(c *gin.Context) {
	items, err := h.Store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog_size": len(items)})
}

func (h *Handler) toNDJSON(c *gin.Context) {
	count, err := h.Store.ToNDJSON(h.NDJSONPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"converted": count, "path": h.NDJSONPath})
}

func (h *Handler) search(c *gin.Context) {
	q := SearchQuery{
		Q:             c.Query("q"),
		Genres:        listParam(c, "genres", "genre"),
		Platforms:     listParam(c, "platforms", "platform"),
		MinRating:     floatParam(c, "min_rating"),
		MaxRating:     floatParam(c, "max_rating"),
		MinMetacritic: intParam(c, "min_metacritic"),
		MaxMetacritic: intParam(c, "max_metacritic"),
		ReleasedFrom:  c.Query("released_from"),
		ReleasedTo:    c.Query("released_to"),
		OnlyReleased:  c.Query("only_released") == "true",
		Multiplayer:   boolParam(c, "multiplayer"),
		Singleplayer:  boolParam(c, "singleplayer"),
		Coop:          boolParam(c, "coop"),
		PvP:           boolParam(c, "pvp"),
		AgeMax:        intParam(c, "age_max"),
		MinPlaytime:   intParam(c, "min_playtime"),
		MaxPlaytime:   intParam(c, "max_playtime"),
		Tags:          listParam(c, "tags"),
		ExcludeTags:   listParam(c, "exclude_tags"),
		Page:          parseInt(c.Query("page"), 1),
		PageSize:      parseInt(c.Query("page_size"), 20),
	}

	res, err := h.Streamer.Search(q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) diagnose(c *gin.Context) {
	var req models.DiagnoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	resp, err := h.Streamer.Diagnose(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listParam gathers comma-separated values across the given query keys,
// trimmed and lower-cased. Singular/plural aliases both work.
func listParam(c *gin.Context, keys ...string) []string {
	var out []string
	for _, key := range keys {
		for _, raw := range strings.Split(c.Query(key), ",") {
			v := strings.ToLower(strings.TrimSpace(raw))
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func intParam(c *gin.Context, key string) *int {
	s := c.Query(key)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func floatParam(c *gin.Context, key string) *float64 {
	s := c.Query(key)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func boolParam(c *gin.Context, key string) *bool {
	s := c.Query(key)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

package favorites

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gamescout/internal/auth"
	synchub "gamescout/internal/sync"
	"gamescout/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *synchub.Hub
}

func NewHandler(repo *Repo, hub *synchub.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/favorites", h.list)
	rg.POST("/favorites", h.addOrUpdate)
	rg.PUT("/favorites/:game_id", h.addOrUpdate)
	rg.GET("/favorites/:game_id", h.getOne)
	rg.DELETE("/favorites/:game_id", h.remove)
}

type upsertReq struct {
	GameID int64  `json:"game_id"` // required for POST
	Title  string `json:"title"`
	Status string `json:"status"`
}

func (h *Handler) addOrUpdate(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	gameID := req.GameID
	if gameID == 0 {
		gameID = parseGameID(c.Param("game_id"))
	}
	if gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id required"})
		return
	}

	status := normalizeStatus(req.Status)
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be one of: playing, completed, wish_list, blacklist",
		})
		return
	}

	item := models.FavoriteItem{
		UserID: claims.UserID,
		GameID: gameID,
		Title:  strings.TrimSpace(req.Title),
		Status: status,
	}
	if err := h.Repo.Upsert(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	saved, err := h.Repo.Get(c.Request.Context(), claims.UserID, gameID)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}

	if h.Hub != nil {
		ev := synchub.FavoriteEvent{
			Type:   synchub.FavoriteUpdateEventType,
			UserID: claims.UserID,
			GameID: gameID,
			Status: saved.Status,
			At:     time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, saved)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	if status != "" {
		status = normalizeStatus(status)
		if status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	gameID := parseGameID(c.Param("game_id"))
	if gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id required"})
		return
	}

	it, err := h.Repo.Get(c.Request.Context(), claims.UserID, gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if it == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	gameID := parseGameID(c.Param("game_id"))
	if gameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id required"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := synchub.FavoriteEvent{
			Type:   synchub.FavoriteDeleteEventType,
			UserID: claims.UserID,
			GameID: gameID,
			At:     time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "playing":
		return "playing"
	case "completed":
		return "completed"
	case "wish list", "wish_list", "wishlist":
		return "wish_list"
	case "blacklist", "black_list", "black list":
		return "blacklist"
	default:
		return ""
	}
}

func parseGameID(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

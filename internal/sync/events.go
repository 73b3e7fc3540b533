package sync

import "time"

const (
	CatalogSyncEventType    = "catalog.sync"
	FavoriteUpdateEventType = "favorite.update"
	FavoriteDeleteEventType = "favorite.delete"
)

// CatalogEvent is broadcast to every connected sync client after the cached
// catalog has been replaced from the external source.
type CatalogEvent struct {
	Type        string    `json:"type"`
	Downloaded  int       `json:"downloaded"`
	CatalogSize int       `json:"catalog_size"`
	At          time.Time `json:"at"`
}

// FavoriteEvent notifies clients about a change in a user's saved games.
type FavoriteEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	GameID int64     `json:"game_id"`
	Status string    `json:"status,omitempty"`
	At     time.Time `json:"at"`
}

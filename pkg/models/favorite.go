package models

import "time"

// FavoriteItem is one saved game in a user's personal list.
type FavoriteItem struct {
	UserID    string    `json:"user_id"`
	GameID    int64     `json:"game_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"` // playing, completed, wish_list, blacklist
	UpdatedAt time.Time `json:"updated_at"`
}

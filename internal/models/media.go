package models

import (
	"sort"
	"time"
)

// SpotMediaItem is one uploaded photo. UserID, Username and Avatar are a
// copy of the uploader's profile at upload time and never follow later
// profile edits.
type SpotMediaItem struct {
	ID        string    `json:"id"`
	SpotID    string    `json:"spotId"`
	URI       string    `json:"uri"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `json:"userId,omitempty"`
	Username  string    `json:"username,omitempty"`
	Avatar    *string   `json:"avatar"`
}

// Uploader is the identity snapshot attached to new media.
type Uploader struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

type SpotMediaCount struct {
	Spot  Spot `json:"spot"`
	Count int  `json:"count"`
}

// SortNewestFirst orders items by CreatedAt descending. The sort is stable so
// items of one upload batch keep their relative order.
func SortNewestFirst(items []SpotMediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

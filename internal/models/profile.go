package models

import (
	"slices"
	"time"
)

const DefaultUsername = "Spotr User"

// PhotoEntry is the profile-level record of the latest photo for a spot.
type PhotoEntry struct {
	SpotID    string    `json:"spotId"`
	URI       string    `json:"uri"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserProfile struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Avatar    *string      `json:"avatar"`
	Photos    []PhotoEntry `json:"photos"`
	Favorites []string     `json:"favorites"`
}

// ProfileUpdate is a partial profile. A nil field leaves the stored value
// untouched; a non-nil field replaces it wholesale. Avatar set to an empty
// string clears the avatar.
type ProfileUpdate struct {
	Username  *string      `json:"username,omitempty"`
	Avatar    *string      `json:"avatar,omitempty"`
	Photos    []PhotoEntry `json:"photos,omitempty"`
	Favorites []string     `json:"favorites,omitempty"`
}

type ProfileStats struct {
	TotalPhotos    int `json:"totalPhotos"`
	SpotsVisited   int `json:"spotsVisited"`
	FavoritesCount int `json:"favoritesCount"`
}

// Normalize fills nil collections, orders photos newest first keeping one
// per spot, and drops duplicate favorites keeping the first occurrence.
func (p *UserProfile) Normalize() {
	if p.Username == "" {
		p.Username = DefaultUsername
	}
	p.Photos = latestPhotoPerSpot(p.Photos)
	p.Favorites = UniqueStrings(p.Favorites)
}

// latestPhotoPerSpot sorts a copy of photos by CreatedAt descending and keeps
// the first entry seen for each spot. Entries with equal times keep their order.
func latestPhotoPerSpot(photos []PhotoEntry) []PhotoEntry {
	sorted := slices.Clone(photos)
	slices.SortStableFunc(sorted, func(a, b PhotoEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	out := make([]PhotoEntry, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, photo := range sorted {
		if _, ok := seen[photo.SpotID]; ok {
			continue
		}
		seen[photo.SpotID] = struct{}{}
		out = append(out, photo)
	}
	return out
}

// Apply merges u over p and returns the result; p is not modified.
func (p UserProfile) Apply(u ProfileUpdate) UserProfile {
	out := p.Clone()
	if u.Username != nil {
		out.Username = *u.Username
	}
	if u.Avatar != nil {
		if *u.Avatar == "" {
			out.Avatar = nil
		} else {
			avatar := *u.Avatar
			out.Avatar = &avatar
		}
	}
	if u.Photos != nil {
		out.Photos = append([]PhotoEntry{}, u.Photos...)
	}
	if u.Favorites != nil {
		out.Favorites = append([]string{}, u.Favorites...)
	}
	out.Normalize()
	return out
}

func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Avatar != nil {
		avatar := *p.Avatar
		out.Avatar = &avatar
	}
	out.Photos = append([]PhotoEntry{}, p.Photos...)
	out.Favorites = append([]string{}, p.Favorites...)
	return out
}

func (p UserProfile) HasFavorite(spotID string) bool {
	for _, id := range p.Favorites {
		if id == spotID {
			return true
		}
	}
	return false
}

func (p UserProfile) Stats() ProfileStats {
	visited := make(map[string]struct{}, len(p.Photos))
	for _, photo := range p.Photos {
		visited[photo.SpotID] = struct{}{}
	}
	return ProfileStats{
		TotalPhotos:    len(p.Photos),
		SpotsVisited:   len(visited),
		FavoritesCount: len(p.Favorites),
	}
}

func UniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

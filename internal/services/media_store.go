package services

import (
	"context"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"spotr/internal/catalog"
	"spotr/internal/kvstore"
	"spotr/internal/models"
	"spotr/internal/providers"
)

const (
	MediaKeyPrefix = "spotMedia:"

	DefaultFeedLimit     = 20
	DefaultTopSpotsLimit = 10
)

type MediaStoreInterface interface {
	GetMedia(ctx context.Context, spotID string) []models.SpotMediaItem
	AddMedia(ctx context.Context, spotID string, uris []string, uploader models.Uploader) []models.SpotMediaItem
	GetAllMedia(ctx context.Context) []models.SpotMediaItem
	GetAllSpotsWithMediaCount(ctx context.Context) []models.SpotMediaCount
	LatestMedia(ctx context.Context, limit int) []models.SpotMediaItem
	TopSpots(ctx context.Context, limit int) []models.SpotMediaCount
	GetUserPhotos(ctx context.Context, userID string) []models.SpotMediaItem
	ClearAllMedia(ctx context.Context)
}

// MediaStore keeps one JSON array per spot. The cross-spot queries scan
// every media key on each call and cost O(total stored media); there is no
// secondary index.
type MediaStore struct {
	store   kvstore.StoreInterface
	catalog catalog.CatalogInterface
	logger  providers.Logger
	clock   func() time.Time
}

func NewMediaStore(store kvstore.StoreInterface, catalog catalog.CatalogInterface, logger providers.Logger) MediaStoreInterface {
	return newMediaStore(store, catalog, logger, time.Now)
}

func newMediaStore(store kvstore.StoreInterface, catalog catalog.CatalogInterface, logger providers.Logger, clock func() time.Time) *MediaStore {
	return &MediaStore{
		store:   store,
		catalog: catalog,
		logger:  logger,
		clock:   clock,
	}
}

func MediaKey(spotID string) string {
	return MediaKeyPrefix + spotID
}

func decodeMedia(raw string, found bool) ([]models.SpotMediaItem, error) {
	if !found || raw == "" {
		return []models.SpotMediaItem{}, nil
	}
	var items []models.SpotMediaItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []models.SpotMediaItem{}, err
	}
	if items == nil {
		items = []models.SpotMediaItem{}
	}
	return items, nil
}

func (ms *MediaStore) GetMedia(ctx context.Context, spotID string) []models.SpotMediaItem {
	if spotID == "" {
		return []models.SpotMediaItem{}
	}
	raw, found, err := ms.store.Get(ctx, MediaKey(spotID))
	if err != nil {
		ms.logger.Warnf(providers.TypeStorage, "Failed to load media for spot %s: %s", spotID, err)
		return []models.SpotMediaItem{}
	}
	items, err := decodeMedia(raw, found)
	if err != nil {
		ms.logger.Warnf(providers.TypeStorage, "Corrupt media list for spot %s: %s", spotID, err)
	}
	return items
}

// AddMedia prepends one record per uri to the spot's list and returns the
// new list. With no spot id or no uris it only returns the current list.
func (ms *MediaStore) AddMedia(ctx context.Context, spotID string, uris []string, uploader models.Uploader) []models.SpotMediaItem {
	uris = nonEmpty(uris)
	if spotID == "" || len(uris) == 0 {
		return ms.GetMedia(ctx, spotID)
	}

	now := ms.clock().UTC()
	added := make([]models.SpotMediaItem, 0, len(uris))
	for _, uri := range uris {
		added = append(added, models.SpotMediaItem{
			ID:        "media-" + uuid.NewString(),
			SpotID:    spotID,
			URI:       uri,
			CreatedAt: now,
			UserID:    uploader.UserID,
			Username:  uploader.Username,
			Avatar:    uploader.Avatar,
		})
	}

	var next []models.SpotMediaItem
	_, err := ms.store.Update(ctx, MediaKey(spotID), func(current string, found bool) (string, error) {
		existing, derr := decodeMedia(current, found)
		if derr != nil {
			ms.logger.Warnf(providers.TypeStorage, "Replacing corrupt media list for spot %s: %s", spotID, derr)
		}
		next = make([]models.SpotMediaItem, 0, len(added)+len(existing))
		next = append(next, added...)
		next = append(next, existing...)
		models.SortNewestFirst(next)
		data, err := json.Marshal(next)
		return string(data), err
	})
	if err != nil {
		ms.logger.Warnf(providers.TypeStorage, "Failed to save media for spot %s: %s", spotID, err)
		if next == nil {
			next = append(added, ms.GetMedia(ctx, spotID)...)
			models.SortNewestFirst(next)
		}
	}
	return next
}

// scan reads every media key and returns the lists keyed by spot id.
func (ms *MediaStore) scan(ctx context.Context) map[string][]models.SpotMediaItem {
	out := make(map[string][]models.SpotMediaItem)
	keys, err := ms.store.ListKeys(ctx, MediaKeyPrefix)
	if err != nil {
		ms.logger.Warnf(providers.TypeStorage, "Failed to list media keys: %s", err)
		return out
	}
	if len(keys) == 0 {
		return out
	}
	pairs, err := ms.store.MultiGet(ctx, keys)
	if err != nil {
		ms.logger.Warnf(providers.TypeStorage, "Failed to read some media lists: %s", err)
	}
	for _, pair := range pairs {
		items, derr := decodeMedia(pair.Value, pair.Found)
		if derr != nil {
			ms.logger.Warnf(providers.TypeStorage, "Skipping corrupt media list %s: %s", pair.Key, derr)
			continue
		}
		out[strings.TrimPrefix(pair.Key, MediaKeyPrefix)] = items
	}
	return out
}

// GetAllMedia returns every stored media item, newest first. Full scan.
func (ms *MediaStore) GetAllMedia(ctx context.Context) []models.SpotMediaItem {
	all := []models.SpotMediaItem{}
	for _, items := range ms.scan(ctx) {
		all = append(all, items...)
	}
	// ties keep the per-spot list order, so one upload batch stays together
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].SpotID < all[j].SpotID
	})
	return all
}

// GetAllSpotsWithMediaCount pairs each catalog spot that has media with its
// item count, highest count first. Only the static catalog is consulted:
// media for ids missing from it, including spots added during the session
// with AddSpot, is ignored. Full scan.
func (ms *MediaStore) GetAllSpotsWithMediaCount(ctx context.Context) []models.SpotMediaCount {
	result := []models.SpotMediaCount{}
	for spotID, items := range ms.scan(ctx) {
		if len(items) == 0 {
			continue
		}
		spot, ok := ms.catalog.Find(spotID)
		if !ok {
			continue
		}
		result = append(result, models.SpotMediaCount{Spot: spot, Count: len(items)})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count == result[j].Count {
			return result[i].Spot.ID < result[j].Spot.ID
		}
		return result[i].Count > result[j].Count
	})
	return result
}

func (ms *MediaStore) LatestMedia(ctx context.Context, limit int) []models.SpotMediaItem {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	all := ms.GetAllMedia(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (ms *MediaStore) TopSpots(ctx context.Context, limit int) []models.SpotMediaCount {
	if limit <= 0 {
		limit = DefaultTopSpotsLimit
	}
	top := ms.GetAllSpotsWithMediaCount(ctx)
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

// GetUserPhotos returns the media uploaded by userID across all spots,
// newest first, keeping only the first item for each uri.
func (ms *MediaStore) GetUserPhotos(ctx context.Context, userID string) []models.SpotMediaItem {
	out := []models.SpotMediaItem{}
	if userID == "" {
		return out
	}
	seen := make(map[string]struct{})
	for _, item := range ms.GetAllMedia(ctx) {
		if item.UserID != userID {
			continue
		}
		if _, ok := seen[item.URI]; ok {
			continue
		}
		seen[item.URI] = struct{}{}
		out = append(out, item)
	}
	return out
}

// ClearAllMedia removes every media key.
func (ms *MediaStore) ClearAllMedia(ctx context.Context) {
	keys, err := ms.store.ListKeys(ctx, MediaKeyPrefix)
	if err != nil {
		ms.logger.Warnf(providers.TypeStorage, "Failed to list media keys: %s", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := ms.store.MultiRemove(ctx, keys); err != nil {
		ms.logger.Warnf(providers.TypeStorage, "Failed to clear media: %s", err)
		return
	}
	ms.logger.Infof(providers.TypeStorage, "Cleared media for %d spots", len(keys))
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

package services

import (
	"context"
	"slices"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"spotr/internal/kvstore"
	"spotr/internal/models"
	"spotr/internal/providers"
)

const ProfileKey = "spotr:userProfile"

// FavoritesListener is called with the persisted favorites after every
// successful write that touched them.
type FavoritesListener func(favorites []string)

type ProfileStoreInterface interface {
	GetProfile(ctx context.Context) models.UserProfile
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) models.UserProfile
	ResetProfile(ctx context.Context)
	ToggleFavorite(ctx context.Context, spotID string) []string
	Favorites(ctx context.Context) []string
	IsFavorite(ctx context.Context, spotID string) bool
	AddPhoto(ctx context.Context, spotID, uri string) models.UserProfile
	Stats(ctx context.Context) models.ProfileStats
	Subscribe(fn FavoritesListener) (cancel func())
}

// ProfileStore owns the single profile record. It is the only writer of
// favorites; everything else observes them through Subscribe.
type ProfileStore struct {
	store  kvstore.StoreInterface
	logger providers.Logger
	clock  func() time.Time

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]FavoritesListener
	pubMu     sync.Mutex
}

func NewProfileStore(store kvstore.StoreInterface, logger providers.Logger) ProfileStoreInterface {
	return newProfileStore(store, logger, time.Now)
}

func newProfileStore(store kvstore.StoreInterface, logger providers.Logger, clock func() time.Time) *ProfileStore {
	return &ProfileStore{
		store:  store,
		logger: logger,
		clock:  clock,
		subs:   make(map[int]FavoritesListener),
	}
}

func newDefaultProfile() models.UserProfile {
	return models.UserProfile{
		ID:        "user-" + uuid.NewString(),
		Username:  models.DefaultUsername,
		Avatar:    nil,
		Photos:    []models.PhotoEntry{},
		Favorites: []string{},
	}
}

// decodeProfile returns false for a missing, unparsable or id-less record.
func decodeProfile(raw string, found bool) (models.UserProfile, bool) {
	if !found || raw == "" {
		return models.UserProfile{}, false
	}
	var p models.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID == "" {
		return models.UserProfile{}, false
	}
	p.Normalize()
	return p, true
}

func encodeProfile(p models.UserProfile) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetProfile returns the stored profile, creating and persisting a default
// one when none is readable. The default is returned even if persisting it failed.
func (ps *ProfileStore) GetProfile(ctx context.Context) models.UserProfile {
	raw, found, err := ps.store.Get(ctx, ProfileKey)
	if err != nil {
		ps.logger.Warnf(providers.TypeStorage, "Failed to read profile: %s", err)
	}
	if p, ok := decodeProfile(raw, found); ok {
		return p
	}

	created := newDefaultProfile()
	stored, err := ps.store.Update(ctx, ProfileKey, func(current string, found bool) (string, error) {
		if _, ok := decodeProfile(current, found); ok {
			return "", kvstore.ErrSkipWrite
		}
		return encodeProfile(created)
	})
	if err != nil {
		ps.logger.Warnf(providers.TypeStorage, "Failed to persist default profile: %s", err)
		return created
	}
	if p, ok := decodeProfile(stored, true); ok {
		return p
	}
	return created
}

// mutate applies fn to the current profile under optimistic concurrency.
// On storage failure it logs and returns the result computed from the last
// read, with ok=false.
func (ps *ProfileStore) mutate(ctx context.Context, op string, fn func(p models.UserProfile) models.UserProfile) (models.UserProfile, bool) {
	var result models.UserProfile
	computed := false
	_, err := ps.store.Update(ctx, ProfileKey, func(current string, found bool) (string, error) {
		p, ok := decodeProfile(current, found)
		if !ok {
			p = newDefaultProfile()
		}
		result = fn(p)
		computed = true
		return encodeProfile(result)
	})
	if err != nil {
		ps.logger.Warnf(providers.TypeStorage, "Failed to %s: %s", op, err)
		if !computed {
			result = fn(ps.GetProfile(ctx))
		}
		return result, false
	}
	return result, true
}

// UpdateProfile merges update over the stored profile. Fields present in
// update replace the stored ones wholesale; the id never changes.
func (ps *ProfileStore) UpdateProfile(ctx context.Context, update models.ProfileUpdate) models.UserProfile {
	p, ok := ps.mutate(ctx, "update profile", func(p models.UserProfile) models.UserProfile {
		return p.Apply(update)
	})
	if ok && update.Favorites != nil {
		ps.publish(ctx)
	}
	return p
}

// ResetProfile deletes the profile; the next read creates a new one with a new id.
func (ps *ProfileStore) ResetProfile(ctx context.Context) {
	if err := ps.store.Remove(ctx, ProfileKey); err != nil {
		ps.logger.Warnf(providers.TypeStorage, "Failed to reset profile: %s", err)
		return
	}
	ps.publish(ctx)
}

// ToggleFavorite adds spotID to favorites or removes it when present and
// returns the resulting list. Subscribers are only notified once the new
// list is persisted; on failure the stored list is returned unchanged.
func (ps *ProfileStore) ToggleFavorite(ctx context.Context, spotID string) []string {
	if spotID == "" {
		return ps.Favorites(ctx)
	}
	p, ok := ps.mutate(ctx, "toggle favorite", func(p models.UserProfile) models.UserProfile {
		next := make([]string, 0, len(p.Favorites)+1)
		removed := false
		for _, id := range p.Favorites {
			if id == spotID {
				removed = true
				continue
			}
			next = append(next, id)
		}
		if !removed {
			next = append(next, spotID)
		}
		p.Favorites = next
		return p
	})
	if !ok {
		return ps.Favorites(ctx)
	}
	ps.publish(ctx)
	return append([]string{}, p.Favorites...)
}

func (ps *ProfileStore) Favorites(ctx context.Context) []string {
	return append([]string{}, ps.GetProfile(ctx).Favorites...)
}

func (ps *ProfileStore) IsFavorite(ctx context.Context, spotID string) bool {
	return slices.Contains(ps.Favorites(ctx), spotID)
}

// AddPhoto records uri as the profile's photo for spotID, replacing any
// earlier one for the same spot. Newest first.
func (ps *ProfileStore) AddPhoto(ctx context.Context, spotID, uri string) models.UserProfile {
	if spotID == "" || uri == "" {
		return ps.GetProfile(ctx)
	}
	entry := models.PhotoEntry{SpotID: spotID, URI: uri, CreatedAt: ps.clock().UTC()}
	p, _ := ps.mutate(ctx, "add profile photo", func(p models.UserProfile) models.UserProfile {
		photos := make([]models.PhotoEntry, 0, len(p.Photos)+1)
		photos = append(photos, entry)
		for _, photo := range p.Photos {
			if photo.SpotID != spotID {
				photos = append(photos, photo)
			}
		}
		p.Photos = photos
		return p
	})
	return p
}

func (ps *ProfileStore) Stats(ctx context.Context) models.ProfileStats {
	return ps.GetProfile(ctx).Stats()
}

// Subscribe registers fn for favorites changes. The returned func removes it.
func (ps *ProfileStore) Subscribe(fn FavoritesListener) func() {
	ps.subMu.Lock()
	defer ps.subMu.Unlock()
	id := ps.nextSubID
	ps.nextSubID++
	ps.subs[id] = fn
	return func() {
		ps.subMu.Lock()
		defer ps.subMu.Unlock()
		delete(ps.subs, id)
	}
}

// publish re-reads the persisted favorites and hands them to every
// listener. Publishes are serialised and always carry the stored value, so
// the last notification a listener sees matches storage even when two
// writers finish out of order.
func (ps *ProfileStore) publish(ctx context.Context) {
	ps.pubMu.Lock()
	defer ps.pubMu.Unlock()

	raw, found, err := ps.store.Get(ctx, ProfileKey)
	if err != nil {
		ps.logger.Warnf(providers.TypeStorage, "Failed to read favorites for subscribers: %s", err)
		return
	}
	favorites := []string{}
	if p, ok := decodeProfile(raw, found); ok {
		favorites = p.Favorites
	}

	ps.subMu.Lock()
	listeners := make([]FavoritesListener, 0, len(ps.subs))
	for _, fn := range ps.subs {
		listeners = append(listeners, fn)
	}
	ps.subMu.Unlock()

	for _, fn := range listeners {
		fn(append([]string{}, favorites...))
	}
}

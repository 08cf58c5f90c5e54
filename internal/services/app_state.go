package services

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gookit/validate"

	"spotr/internal/catalog"
	"spotr/internal/kvstore"
	"spotr/internal/models"
	"spotr/internal/providers"
	"spotr/internal/structures"
)

const CityKey = "spotr.userCity"

const (
	defaultSpotThumbnail   = "https://images.unsplash.com/photo-1503736334956-4c8f8e92946d"
	defaultSpotDescription = "New SPOTR spot, submitted for review by the team."
	defaultRiskLevel       = "low"
	defaultBestTime        = "night"
	defaultLat             = 42.6977
	defaultLng             = 23.3219
	fallbackCity           = "Sofia"
	fallbackCommentAuthor  = "Guest driver"
)

var ErrInvalidSpot = errors.New("invalid spot")

// State is an immutable snapshot of the session. Callers must treat every
// slice and map in it as read-only; mutators build a new State instead of
// changing an existing one.
type State struct {
	Spots            []models.Spot                     `json:"spots"`
	Favorites        []string                          `json:"favorites"`
	ActiveTypeFilter string                            `json:"activeTypeFilter"`
	UserCity         string                            `json:"userCity"`
	ShotsBySpot      map[string]int                    `json:"shotsBySpotId"`
	UserShotSpots    []string                          `json:"userShotSpots"`
	CommentsBySpot   map[string][]models.Comment       `json:"commentsBySpotId"`
	RatingsBySpot    map[string]models.RatingAggregate `json:"ratingsBySpotId"`
}

type AppStateInterface interface {
	Load(ctx context.Context) State
	Snapshot() State
	ToggleFavorite(ctx context.Context, spotID string) State
	IsFavorite(spotID string) bool
	AddSpot(payload models.Spot) (State, error)
	SetActiveTypeFilter(filter string) State
	FilteredSpots() []models.Spot
	SetUserCity(ctx context.Context, city string) State
	ToggleShot(spotID string) State
	AddComment(spotID, text string) State
	AddRating(spotID string, value int) State
	GetSpotRating(spotID string) models.SpotRating
	GetShotCount(spotID string) int
	HasUserShotHere(spotID string) bool
	Comments(spotID string) []models.Comment
	SpotSummary(spotID string) models.SpotSummary
	AddUserPhoto(ctx context.Context, spotID, uri string) models.UserProfile
	RecordUpload(ctx context.Context, spotID string, uris []string) (State, []models.SpotMediaItem)
	Close()
}

// AppState is the single owner of session state. Build it once at startup
// and hand the pointer to every consumer. Favorites and city are durable;
// everything else is lost on restart.
type AppState struct {
	mu    sync.RWMutex
	state State

	profiles      ProfileStoreInterface
	media         MediaStoreInterface
	store         kvstore.StoreInterface
	logger        providers.Logger
	clock         func() time.Time
	defaultCity   string
	commentAuthor string
	unsubscribe   func()
}

// NewAppStateProvider builds the session state. Call Load once storage has
// been restored.
func NewAppStateProvider(conf *structures.Config, catalog catalog.CatalogInterface, profiles ProfileStoreInterface, media MediaStoreInterface, store kvstore.StoreInterface, logger providers.Logger) AppStateInterface {
	return NewAppState(conf, catalog, profiles, media, store, logger)
}

func NewAppState(conf *structures.Config, catalog catalog.CatalogInterface, profiles ProfileStoreInterface, media MediaStoreInterface, store kvstore.StoreInterface, logger providers.Logger) *AppState {
	city := conf.Session.DefaultCity
	if city == "" {
		city = fallbackCity
	}
	author := conf.Session.CommentAuthor
	if author == "" {
		author = fallbackCommentAuthor
	}

	a := &AppState{
		state: State{
			Spots:            catalog.All(),
			Favorites:        []string{},
			ActiveTypeFilter: models.FilterAll,
			UserCity:         city,
			ShotsBySpot:      map[string]int{},
			UserShotSpots:    []string{},
			CommentsBySpot:   map[string][]models.Comment{},
			RatingsBySpot:    map[string]models.RatingAggregate{},
		},
		profiles:      profiles,
		media:         media,
		store:         store,
		logger:        logger,
		clock:         time.Now,
		defaultCity:   city,
		commentAuthor: author,
	}
	a.unsubscribe = profiles.Subscribe(a.onFavorites)
	return a
}

// Load reads the durable part of the session: favorites from the profile
// and the selected city from its own key.
func (a *AppState) Load(ctx context.Context) State {
	favorites := a.profiles.Favorites(ctx)
	city := a.loadCity(ctx)

	return a.update(func(s *State) bool {
		s.Favorites = favorites
		if city != "" {
			s.UserCity = city
		}
		return true
	})
}

func (a *AppState) loadCity(ctx context.Context) string {
	raw, found, err := a.store.Get(ctx, CityKey)
	if err != nil {
		a.logger.Warnf(providers.TypeStorage, "Failed to load city: %s", err)
		return ""
	}
	if !found {
		return ""
	}
	var city string
	if err := json.Unmarshal([]byte(raw), &city); err != nil {
		a.logger.Warnf(providers.TypeStorage, "Ignoring unreadable city value: %s", err)
		return ""
	}
	return strings.TrimSpace(city)
}

func (a *AppState) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *AppState) onFavorites(favorites []string) {
	a.update(func(s *State) bool {
		s.Favorites = favorites
		return true
	})
}

// update applies fn to a copy of the current state and installs it when fn
// reports a change. It returns the state in effect afterwards.
func (a *AppState) update(fn func(s *State) bool) State {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := a.state
	if fn(&next) {
		a.state = next
	}
	return a.state
}

func (a *AppState) Snapshot() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// ToggleFavorite goes through the profile store, which persists the change
// and then notifies this state through its subscription.
func (a *AppState) ToggleFavorite(ctx context.Context, spotID string) State {
	a.profiles.ToggleFavorite(ctx, spotID)
	return a.Snapshot()
}

func (a *AppState) IsFavorite(spotID string) bool {
	return slices.Contains(a.Snapshot().Favorites, spotID)
}

// AddSpot fills defaults for a user-submitted spot and puts it at the top of
// the session catalog. The spot is not persisted.
func (a *AppState) AddSpot(payload models.Spot) (State, error) {
	spot := payload
	spot.Name = strings.TrimSpace(spot.Name)
	spot.City = strings.TrimSpace(spot.City)
	if spot.ID == "" {
		spot.ID = "spot-" + uuid.NewString()
	}
	if spot.Thumbnail == "" {
		spot.Thumbnail = defaultSpotThumbnail
	}
	if strings.TrimSpace(spot.ShortDescription) == "" {
		spot.ShortDescription = defaultSpotDescription
	}
	if spot.RiskLevel == "" {
		spot.RiskLevel = defaultRiskLevel
	}
	if spot.BestTime == "" {
		spot.BestTime = defaultBestTime
	}
	if spot.Lat == 0 && spot.Lng == 0 {
		spot.Lat, spot.Lng = defaultLat, defaultLng
	}

	v := validate.Struct(&spot)
	if !v.Validate() {
		return a.Snapshot(), fmt.Errorf("%w: %s", ErrInvalidSpot, v.Errors.One())
	}
	if !spot.ValidCoordinates() {
		return a.Snapshot(), fmt.Errorf("%w: coordinates out of range", ErrInvalidSpot)
	}

	return a.update(func(s *State) bool {
		if spot.City == "" {
			spot.City = s.UserCity
		}
		spots := make([]models.Spot, 0, len(s.Spots)+1)
		spots = append(spots, spot)
		s.Spots = append(spots, s.Spots...)
		return true
	}), nil
}

// SetActiveTypeFilter accepts "all" or one of the known spot types.
func (a *AppState) SetActiveTypeFilter(filter string) State {
	if filter != models.FilterAll && !slices.Contains(models.SpotTypes, filter) {
		return a.Snapshot()
	}
	return a.update(func(s *State) bool {
		s.ActiveTypeFilter = filter
		return true
	})
}

func (a *AppState) FilteredSpots() []models.Spot {
	s := a.Snapshot()
	if s.ActiveTypeFilter == models.FilterAll {
		return append([]models.Spot{}, s.Spots...)
	}
	out := []models.Spot{}
	for _, spot := range s.Spots {
		if spot.Type == s.ActiveTypeFilter {
			out = append(out, spot)
		}
	}
	return out
}

// SetUserCity changes the session city and persists it under its own key.
// A failed write is logged; the session value changes regardless.
func (a *AppState) SetUserCity(ctx context.Context, city string) State {
	city = strings.TrimSpace(city)
	if city == "" {
		return a.Snapshot()
	}
	next := a.update(func(s *State) bool {
		s.UserCity = city
		return true
	})

	data, err := json.Marshal(city)
	if err == nil {
		err = a.store.Set(ctx, CityKey, string(data))
	}
	if err != nil {
		a.logger.Warnf(providers.TypeStorage, "Failed to persist city: %s", err)
	}
	return next
}

// ToggleShot flips the user's shot flag for spotID and moves the counter
// with it in the same update. The counter never drops below zero.
func (a *AppState) ToggleShot(spotID string) State {
	if spotID == "" {
		return a.Snapshot()
	}
	return a.update(func(s *State) bool {
		hasShot := slices.Contains(s.UserShotSpots, spotID)
		shots := maps.Clone(s.ShotsBySpot)
		if hasShot {
			s.UserShotSpots = slices.DeleteFunc(slices.Clone(s.UserShotSpots), func(id string) bool { return id == spotID })
			shots[spotID] = max(0, shots[spotID]-1)
		} else {
			s.UserShotSpots = append(slices.Clone(s.UserShotSpots), spotID)
			shots[spotID]++
		}
		s.ShotsBySpot = shots
		return true
	})
}

// AddComment prepends a comment by the placeholder author. Blank text is ignored.
func (a *AppState) AddComment(spotID, text string) State {
	text = strings.TrimSpace(text)
	if spotID == "" || text == "" {
		return a.Snapshot()
	}
	comment := models.Comment{
		ID:        uuid.NewString(),
		Author:    a.commentAuthor,
		Text:      text,
		CreatedAt: a.clock().UTC(),
	}
	return a.update(func(s *State) bool {
		comments := maps.Clone(s.CommentsBySpot)
		existing := comments[spotID]
		list := make([]models.Comment, 0, len(existing)+1)
		list = append(list, comment)
		comments[spotID] = append(list, existing...)
		s.CommentsBySpot = comments
		return true
	})
}

// AddRating accumulates a 1-5 star rating. Other values are ignored.
// Ratings cannot be withdrawn.
func (a *AppState) AddRating(spotID string, value int) State {
	if spotID == "" || value < 1 || value > 5 {
		return a.Snapshot()
	}
	return a.update(func(s *State) bool {
		ratings := maps.Clone(s.RatingsBySpot)
		current := ratings[spotID]
		ratings[spotID] = models.RatingAggregate{Sum: current.Sum + value, Count: current.Count + 1}
		s.RatingsBySpot = ratings
		return true
	})
}

func (a *AppState) GetSpotRating(spotID string) models.SpotRating {
	return a.Snapshot().RatingsBySpot[spotID].Rating()
}

func (a *AppState) GetShotCount(spotID string) int {
	return a.Snapshot().ShotsBySpot[spotID]
}

func (a *AppState) HasUserShotHere(spotID string) bool {
	return slices.Contains(a.Snapshot().UserShotSpots, spotID)
}

func (a *AppState) Comments(spotID string) []models.Comment {
	return append([]models.Comment{}, a.Snapshot().CommentsBySpot[spotID]...)
}

func (a *AppState) SpotSummary(spotID string) models.SpotSummary {
	s := a.Snapshot()
	return models.SpotSummary{
		SpotID:     spotID,
		Rating:     s.RatingsBySpot[spotID].Rating(),
		ShotCount:  s.ShotsBySpot[spotID],
		HasShot:    slices.Contains(s.UserShotSpots, spotID),
		IsFavorite: slices.Contains(s.Favorites, spotID),
		Comments:   append([]models.Comment{}, s.CommentsBySpot[spotID]...),
	}
}

// AddUserPhoto keeps one profile photo per spot. It is independent of the
// media history, which keeps every upload.
func (a *AppState) AddUserPhoto(ctx context.Context, spotID, uri string) models.UserProfile {
	return a.profiles.AddPhoto(ctx, spotID, uri)
}

// RecordUpload stores uploaded photos for a spot: every uri goes to the
// media history with the current profile as uploader, the last one becomes
// the profile photo for the spot, and the spot is marked as shot.
func (a *AppState) RecordUpload(ctx context.Context, spotID string, uris []string) (State, []models.SpotMediaItem) {
	uris = nonEmpty(uris)
	if spotID == "" || len(uris) == 0 {
		return a.Snapshot(), a.media.GetMedia(ctx, spotID)
	}
	profile := a.profiles.GetProfile(ctx)
	items := a.media.AddMedia(ctx, spotID, uris, models.Uploader{
		UserID:   profile.ID,
		Username: profile.Username,
		Avatar:   profile.Avatar,
	})
	a.profiles.AddPhoto(ctx, spotID, uris[len(uris)-1])

	if !a.HasUserShotHere(spotID) {
		return a.ToggleShot(spotID), items
	}
	return a.Snapshot(), items
}

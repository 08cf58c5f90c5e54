package controllers

import (
	"net/http"
	"spotr/internal/models"
	"spotr/internal/providers"
	"spotr/internal/services"

	"github.com/spf13/cast"
)

const maxListLimit = 100

type MediaController struct {
	logger   providers.Logger
	media    services.MediaStoreInterface
	votes    services.VoteStoreInterface
	profiles services.ProfileStoreInterface
	state    services.AppStateInterface
}

func NewMediaController(logger providers.Logger, media services.MediaStoreInterface, votes services.VoteStoreInterface, profiles services.ProfileStoreInterface, state services.AppStateInterface) *MediaController {
	return &MediaController{
		logger:   logger,
		media:    media,
		votes:    votes,
		profiles: profiles,
		state:    state,
	}
}

// getLimit reads ?limit=; anything unparsable or non-positive means the
// store default.
func getLimit(r *http.Request) int {
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (mc *MediaController) GetMedia(w http.ResponseWriter, r *http.Request) {
	spotID := r.URL.Query().Get("spotId")
	if !requireParam(w, "spotId", spotID) {
		return
	}
	writeJSON(w, http.StatusOK, mc.media.GetMedia(r.Context(), spotID))
}

type uploadRequest struct {
	SpotID string   `json:"spotId"`
	URIs   []string `json:"uris"`
}

type uploadResponse struct {
	Media     []models.SpotMediaItem `json:"media"`
	HasShot   bool                   `json:"hasShot"`
	ShotCount int                    `json:"shotCount"`
}

// AddMedia records an upload: media history, profile photo and shot flag.
func (mc *MediaController) AddMedia(w http.ResponseWriter, r *http.Request) {
	var payload uploadRequest
	if !decodeBody(w, r, mc.logger, &payload) || !requireParam(w, "spotId", payload.SpotID) {
		return
	}
	if len(payload.URIs) == 0 {
		writeError(w, http.StatusBadRequest, "uris is required")
		return
	}
	_, items := mc.state.RecordUpload(r.Context(), payload.SpotID, payload.URIs)
	mc.logger.Infof(providers.TypePost, "Recorded %d photos for spot %s", len(payload.URIs), payload.SpotID)

	writeJSON(w, http.StatusCreated, uploadResponse{
		Media:     items,
		HasShot:   mc.state.HasUserShotHere(payload.SpotID),
		ShotCount: mc.state.GetShotCount(payload.SpotID),
	})
}

// GetFeed and GetTopSpots re-scan the store on every request.
func (mc *MediaController) GetFeed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mc.media.LatestMedia(r.Context(), getLimit(r)))
}

func (mc *MediaController) GetTopSpots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mc.media.TopSpots(r.Context(), getLimit(r)))
}

// GetUserPhotos defaults to the current profile when no userId is given.
func (mc *MediaController) GetUserPhotos(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = mc.profiles.GetProfile(r.Context()).ID
	}
	writeJSON(w, http.StatusOK, mc.media.GetUserPhotos(r.Context(), userID))
}

func (mc *MediaController) GetVotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mc.votes.GetAllVotes(r.Context()))
}

// voteRequest carries either a direction to toggle or an explicit value.
type voteRequest struct {
	MediaID   string `json:"mediaId"`
	Direction string `json:"direction,omitempty"`
	Value     any    `json:"value,omitempty"`
}

func (mc *MediaController) CastVote(w http.ResponseWriter, r *http.Request) {
	var payload voteRequest
	if !decodeBody(w, r, mc.logger, &payload) || !requireParam(w, "mediaId", payload.MediaID) {
		return
	}

	switch {
	case payload.Direction == services.DirectionUp || payload.Direction == services.DirectionDown:
		writeJSON(w, http.StatusOK, mc.votes.CastVote(r.Context(), payload.MediaID, payload.Direction))
	case payload.Direction == "" && payload.Value != nil:
		value, ok := exactInt(payload.Value)
		if !ok {
			writeError(w, http.StatusBadRequest, "value must be a whole number")
			return
		}
		writeJSON(w, http.StatusOK, mc.votes.SetVote(r.Context(), payload.MediaID, value))
	default:
		writeError(w, http.StatusBadRequest, "direction must be up or down")
	}
}

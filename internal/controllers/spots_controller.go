package controllers

import (
	"errors"
	"net/http"
	"spotr/internal/models"
	"spotr/internal/providers"
	"spotr/internal/services"
)

// SpotsController serves the session side of the app: the spot list, city,
// shots, comments and ratings.
type SpotsController struct {
	logger providers.Logger
	state  services.AppStateInterface
}

func NewSpotsController(logger providers.Logger, state services.AppStateInterface) *SpotsController {
	return &SpotsController{
		logger: logger,
		state:  state,
	}
}

type spotsResponse struct {
	ActiveTypeFilter string        `json:"activeTypeFilter"`
	Spots            []models.Spot `json:"spots"`
}

func (sc *SpotsController) spots() spotsResponse {
	return spotsResponse{
		ActiveTypeFilter: sc.state.Snapshot().ActiveTypeFilter,
		Spots:            sc.state.FilteredSpots(),
	}
}

func (sc *SpotsController) GetSpots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sc.spots())
}

func (sc *SpotsController) AddSpot(w http.ResponseWriter, r *http.Request) {
	var payload models.Spot
	if !decodeBody(w, r, sc.logger, &payload) {
		return
	}
	s, err := sc.state.AddSpot(payload)
	if errors.Is(err, services.ErrInvalidSpot) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		sc.logger.Errorf(providers.TypePost, "Add spot failed: %s", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	sc.logger.Infof(providers.TypePost, "Spot %s added", s.Spots[0].ID)
	writeJSON(w, http.StatusCreated, s.Spots[0])
}

type filterRequest struct {
	Type string `json:"type"`
}

func (sc *SpotsController) SetFilter(w http.ResponseWriter, r *http.Request) {
	var payload filterRequest
	if !decodeBody(w, r, sc.logger, &payload) {
		return
	}
	sc.state.SetActiveTypeFilter(payload.Type)
	writeJSON(w, http.StatusOK, sc.spots())
}

func (sc *SpotsController) GetSummary(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !requireParam(w, "id", id) {
		return
	}
	writeJSON(w, http.StatusOK, sc.state.SpotSummary(id))
}

type cityPayload struct {
	City string `json:"city"`
}

func (sc *SpotsController) GetCity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cityPayload{City: sc.state.Snapshot().UserCity})
}

func (sc *SpotsController) SetCity(w http.ResponseWriter, r *http.Request) {
	var payload cityPayload
	if !decodeBody(w, r, sc.logger, &payload) {
		return
	}
	s := sc.state.SetUserCity(r.Context(), payload.City)
	writeJSON(w, http.StatusOK, cityPayload{City: s.UserCity})
}

type shotResponse struct {
	SpotID    string `json:"spotId"`
	HasShot   bool   `json:"hasShot"`
	ShotCount int    `json:"shotCount"`
}

func (sc *SpotsController) ToggleShot(w http.ResponseWriter, r *http.Request) {
	var payload spotRequest
	if !decodeBody(w, r, sc.logger, &payload) || !requireParam(w, "spotId", payload.SpotID) {
		return
	}
	sc.state.ToggleShot(payload.SpotID)
	writeJSON(w, http.StatusOK, shotResponse{
		SpotID:    payload.SpotID,
		HasShot:   sc.state.HasUserShotHere(payload.SpotID),
		ShotCount: sc.state.GetShotCount(payload.SpotID),
	})
}

type commentRequest struct {
	SpotID string `json:"spotId"`
	Text   string `json:"text"`
}

func (sc *SpotsController) GetComments(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("spotId")
	if !requireParam(w, "spotId", id) {
		return
	}
	writeJSON(w, http.StatusOK, sc.state.Comments(id))
}

func (sc *SpotsController) AddComment(w http.ResponseWriter, r *http.Request) {
	var payload commentRequest
	if !decodeBody(w, r, sc.logger, &payload) || !requireParam(w, "spotId", payload.SpotID) {
		return
	}
	if !requireParam(w, "text", payload.Text) {
		return
	}
	s := sc.state.AddComment(payload.SpotID, payload.Text)
	writeJSON(w, http.StatusCreated, s.CommentsBySpot[payload.SpotID])
}

// ratingRequest accepts the value as a number or a numeric string.
type ratingRequest struct {
	SpotID string `json:"spotId"`
	Value  any    `json:"value"`
}

func (sc *SpotsController) AddRating(w http.ResponseWriter, r *http.Request) {
	var payload ratingRequest
	if !decodeBody(w, r, sc.logger, &payload) || !requireParam(w, "spotId", payload.SpotID) {
		return
	}
	value, ok := exactInt(payload.Value)
	if !ok || value < 1 || value > 5 {
		writeError(w, http.StatusBadRequest, "value must be an integer from 1 to 5")
		return
	}
	sc.state.AddRating(payload.SpotID, value)
	writeJSON(w, http.StatusOK, sc.state.GetSpotRating(payload.SpotID))
}

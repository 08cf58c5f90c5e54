package controllers

import (
	"net/http"
	"spotr/internal/models"
	"spotr/internal/providers"
	"spotr/internal/services"
)

type ProfileController struct {
	logger   providers.Logger
	profiles services.ProfileStoreInterface
	state    services.AppStateInterface
}

func NewProfileController(logger providers.Logger, profiles services.ProfileStoreInterface, state services.AppStateInterface) *ProfileController {
	return &ProfileController{
		logger:   logger,
		profiles: profiles,
		state:    state,
	}
}

type spotRequest struct {
	SpotID string `json:"spotId"`
}

type favoritesResponse struct {
	Favorites []string `json:"favorites"`
}

func (pc *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pc.profiles.GetProfile(r.Context()))
}

func (pc *ProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload models.ProfileUpdate
	if !decodeBody(w, r, pc.logger, &payload) {
		return
	}
	writeJSON(w, http.StatusOK, pc.profiles.UpdateProfile(r.Context(), payload))
}

func (pc *ProfileController) ResetProfile(w http.ResponseWriter, r *http.Request) {
	pc.profiles.ResetProfile(r.Context())
	pc.logger.Infof(providers.TypePost, "Profile reset")
	writeJSON(w, http.StatusOK, pc.profiles.GetProfile(r.Context()))
}

func (pc *ProfileController) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pc.profiles.Stats(r.Context()))
}

func (pc *ProfileController) GetFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, favoritesResponse{Favorites: pc.state.Snapshot().Favorites})
}

func (pc *ProfileController) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var payload spotRequest
	if !decodeBody(w, r, pc.logger, &payload) || !requireParam(w, "spotId", payload.SpotID) {
		return
	}
	s := pc.state.ToggleFavorite(r.Context(), payload.SpotID)
	writeJSON(w, http.StatusOK, favoritesResponse{Favorites: s.Favorites})
}

type photoRequest struct {
	SpotID string `json:"spotId"`
	URI    string `json:"uri"`
}

func (pc *ProfileController) AddPhoto(w http.ResponseWriter, r *http.Request) {
	var payload photoRequest
	if !decodeBody(w, r, pc.logger, &payload) ||
		!requireParam(w, "spotId", payload.SpotID) ||
		!requireParam(w, "uri", payload.URI) {
		return
	}
	writeJSON(w, http.StatusOK, pc.state.AddUserPhoto(r.Context(), payload.SpotID, payload.URI))
}

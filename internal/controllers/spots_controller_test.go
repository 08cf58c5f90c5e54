package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotr/internal/models"
)

func TestSpotsController_ListAndFilter(t *testing.T) {
	app := newTestApp(t)
	sc := app.spotsController()

	rr := do(sc.GetSpots, http.MethodGet, "/spots", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[spotsResponse](t, rr)
	assert.Equal(t, models.FilterAll, resp.ActiveTypeFilter)
	assert.Len(t, resp.Spots, 3)

	rr = do(sc.SetFilter, http.MethodPost, "/spots/filter", map[string]string{"type": "industrial"})
	resp = decode[spotsResponse](t, rr)
	assert.Equal(t, "industrial", resp.ActiveTypeFilter)
	require.Len(t, resp.Spots, 1)
	assert.Equal(t, "2", resp.Spots[0].ID)
}

func TestSpotsController_AddSpot(t *testing.T) {
	app := newTestApp(t)
	sc := app.spotsController()

	rr := do(sc.AddSpot, http.MethodPost, "/spots", map[string]any{"name": "Old Tunnel", "type": "tunnel", "lat": 42.1, "lng": 23.2})
	require.Equal(t, http.StatusCreated, rr.Code)
	spot := decode[models.Spot](t, rr)
	assert.NotEmpty(t, spot.ID)
	assert.Equal(t, "Sofia", spot.City)
	assert.Len(t, app.state.Snapshot().Spots, 4)

	rr = do(sc.AddSpot, http.MethodPost, "/spots", map[string]any{"name": "", "type": "tunnel"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[errorResponse](t, rr).Error, "invalid spot")
}

func TestSpotsController_City(t *testing.T) {
	app := newTestApp(t)
	sc := app.spotsController()

	rr := do(sc.SetCity, http.MethodPost, "/city", map[string]string{"city": "Plovdiv"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Plovdiv", decode[cityPayload](t, rr).City)

	rr = do(sc.GetCity, http.MethodGet, "/city", nil)
	assert.Equal(t, "Plovdiv", decode[cityPayload](t, rr).City)

	raw, ok := app.backend.Raw("spotr.userCity")
	require.True(t, ok)
	assert.Equal(t, `"Plovdiv"`, raw)
}

func TestSpotsController_ShotsCommentsSummary(t *testing.T) {
	app := newTestApp(t)
	sc := app.spotsController()

	rr := do(sc.ToggleShot, http.MethodPost, "/shots/toggle", map[string]string{"spotId": "1"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, shotResponse{SpotID: "1", HasShot: true, ShotCount: 1}, decode[shotResponse](t, rr))

	rr = do(sc.AddComment, http.MethodPost, "/comments", map[string]string{"spotId": "1", "text": "great at 2am"})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, decode[[]models.Comment](t, rr), 1)

	rr = do(sc.AddComment, http.MethodPost, "/comments", map[string]string{"spotId": "1", "text": " "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(sc.GetComments, http.MethodGet, "/comments?spotId=1", nil)
	comments := decode[[]models.Comment](t, rr)
	require.Len(t, comments, 1)
	assert.Equal(t, "Guest driver", comments[0].Author)

	rr = do(sc.GetSummary, http.MethodGet, "/spots/summary?id=1", nil)
	summary := decode[models.SpotSummary](t, rr)
	assert.True(t, summary.HasShot)
	assert.Len(t, summary.Comments, 1)

	rr = do(sc.GetSummary, http.MethodGet, "/spots/summary", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSpotsController_Ratings(t *testing.T) {
	app := newTestApp(t)
	sc := app.spotsController()

	tests := []struct {
		name   string
		value  any
		status int
	}{
		{"number", 5, http.StatusOK},
		{"numeric string", "3", http.StatusOK},
		{"too high", 6, http.StatusBadRequest},
		{"zero", 0, http.StatusBadRequest},
		{"fractional", 3.5, http.StatusBadRequest},
		{"garbage", "lots", http.StatusBadRequest},
		{"bool", true, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(sc.AddRating, http.MethodPost, "/ratings", map[string]any{"spotId": "2", "value": tt.value})
			assert.Equal(t, tt.status, rr.Code)
		})
	}

	rating := app.state.GetSpotRating("2")
	assert.Equal(t, 2, rating.Count)
	require.NotNil(t, rating.Average)
	assert.InDelta(t, 4.0, *rating.Average, 1e-9)
}

package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"spotr/internal/catalog"
	"spotr/internal/kvstore"
	"spotr/internal/models"
	"spotr/internal/providers"
	"spotr/internal/services"
	"spotr/internal/structures"
	"spotr/internal/testutil"
)

type testApp struct {
	backend  *testutil.MockBackend
	store    kvstore.StoreInterface
	profiles services.ProfileStoreInterface
	media    services.MediaStoreInterface
	votes    services.VoteStoreInterface
	state    services.AppStateInterface
	conf     *structures.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	backend := testutil.NewMockBackend()
	logger := &testutil.MockLogger{}
	store := kvstore.NewStore(backend, logger, providers.NewNoopMetrics(), 64)
	cat := catalog.New([]models.Spot{
		{ID: "1", Name: "NDK Rooftop", City: "Sofia", Type: "rooftop"},
		{ID: "2", Name: "Kremikovtzi Works", City: "Sofia", Type: "industrial"},
		{ID: "3", Name: "Paradise Parking", City: "Sofia", Type: "parking"},
	})
	conf := &structures.Config{
		Storage: structures.StorageConfig{Driver: "memory"},
		Session: structures.SessionConfig{DefaultCity: "Sofia", CommentAuthor: "Guest driver"},
	}
	profiles := services.NewProfileStore(store, logger)
	media := services.NewMediaStore(store, cat, logger)
	state := services.NewAppStateProvider(conf, cat, profiles, media, store, logger)
	t.Cleanup(state.Close)

	return &testApp{
		backend:  backend,
		store:    store,
		profiles: profiles,
		media:    media,
		votes:    services.NewVoteStore(store, logger),
		state:    state,
		conf:     conf,
	}
}

func (a *testApp) profileController() *ProfileController {
	return NewProfileController(&testutil.MockLogger{}, a.profiles, a.state)
}

func (a *testApp) spotsController() *SpotsController {
	return NewSpotsController(&testutil.MockLogger{}, a.state)
}

func (a *testApp) mediaController() *MediaController {
	return NewMediaController(&testutil.MockLogger{}, a.media, a.votes, a.profiles, a.state)
}

func do(handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

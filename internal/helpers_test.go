package internal

import (
	"sync"
	"testing"

	"spotr/internal/catalog"
	"spotr/internal/controllers"
	"spotr/internal/kvstore"
	"spotr/internal/models"
	"spotr/internal/providers"
	"spotr/internal/services"
	"spotr/internal/structures"
	"spotr/internal/testutil"
)

type mockScheduler struct {
	mu         sync.Mutex
	calls      []string
	restoreErr error
	persistErr error
	onRestore  func()
}

func (m *mockScheduler) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockScheduler) Init() { m.record("init") }
func (m *mockScheduler) Stop() { m.record("stop") }

func (m *mockScheduler) Restore() error {
	m.record("restore")
	if m.onRestore != nil {
		m.onRestore()
	}
	return m.restoreErr
}

func (m *mockScheduler) Persist() error {
	m.record("persist")
	return m.persistErr
}

func (m *mockScheduler) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

type fixture struct {
	conf      *structures.Config
	logger    *testutil.MockLogger
	backend   *testutil.MockBackend
	store     kvstore.StoreInterface
	profiles  services.ProfileStoreInterface
	media     services.MediaStoreInterface
	votes     services.VoteStoreInterface
	state     services.AppStateInterface
	scheduler *mockScheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conf := &structures.Config{
		AppName:   "Spotr",
		WebServer: structures.Server{Host: "127.0.0.1", Port: 0},
		Storage:   structures.StorageConfig{Driver: kvstore.DriverMemory},
		Session:   structures.SessionConfig{DefaultCity: "Sofia", CommentAuthor: "Guest driver"},
	}
	logger := &testutil.MockLogger{}
	backend := testutil.NewMockBackend()
	store := kvstore.NewStore(backend, logger, providers.NewNoopMetrics(), 64)
	cat := catalog.New([]models.Spot{
		{ID: "1", Name: "NDK Rooftop", City: "Sofia", Type: "rooftop"},
		{ID: "2", Name: "Kremikovtzi Works", City: "Sofia", Type: "industrial"},
	})
	profiles := services.NewProfileStore(store, logger)
	media := services.NewMediaStore(store, cat, logger)
	state := services.NewAppStateProvider(conf, cat, profiles, media, store, logger)
	t.Cleanup(state.Close)

	return &fixture{
		conf:      conf,
		logger:    logger,
		backend:   backend,
		store:     store,
		profiles:  profiles,
		media:     media,
		votes:     services.NewVoteStore(store, logger),
		state:     state,
		scheduler: &mockScheduler{},
	}
}

func (f *fixture) router() providers.RouterProviderInterface {
	return InitRoutes(
		controllers.NewProfileController(f.logger, f.profiles, f.state),
		controllers.NewSpotsController(f.logger, f.state),
		controllers.NewMediaController(f.logger, f.media, f.votes, f.profiles, f.state),
	)
}

func (f *fixture) app() *App {
	return f.appWithMetrics(providers.NewNoopMetrics())
}

func (f *fixture) appWithMetrics(metrics providers.MetricsProviderInterface) *App {
	return NewApp(
		controllers.NewHealthController(f.store, f.conf),
		f.scheduler,
		f.state,
		f.conf,
		f.logger,
		f.router(),
		metrics,
	)
}

package services

import (
	"sync"
	"testing"
	"time"

	"spotr/internal/catalog"
	"spotr/internal/kvstore"
	"spotr/internal/models"
	"spotr/internal/providers"
	"spotr/internal/testutil"
)

type testEnv struct {
	backend *testutil.MockBackend
	logger  *testutil.MockLogger
	store   *kvstore.Store
	catalog catalog.CatalogInterface
	clock   *stepClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := testutil.NewMockBackend()
	logger := &testutil.MockLogger{}
	return &testEnv{
		backend: backend,
		logger:  logger,
		store:   kvstore.NewStore(backend, logger, providers.NewNoopMetrics(), 64),
		catalog: testCatalog(),
		clock:   newStepClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (e *testEnv) profiles() *ProfileStore {
	return newProfileStore(e.store, e.logger, e.clock.Now)
}

func (e *testEnv) media() *MediaStore {
	return newMediaStore(e.store, e.catalog, e.logger, e.clock.Now)
}

func testCatalog() catalog.CatalogInterface {
	return catalog.New([]models.Spot{
		{ID: "1", Name: "NDK Rooftop", City: "Sofia", Type: "rooftop"},
		{ID: "2", Name: "Kremikovtzi Works", City: "Sofia", Type: "industrial"},
		{ID: "3", Name: "Paradise Parking", City: "Sofia", Type: "parking"},
		{ID: "4", Name: "Vitosha Lookout", City: "Sofia", Type: "nature"},
	})
}

// stepClock advances by one second on every read.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(start time.Time) *stepClock {
	return &stepClock{now: start}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func strPtr(s string) *string {
	return &s
}

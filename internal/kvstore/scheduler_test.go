package kvstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"spotr/internal/structures"
	"spotr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schedulerConfig(driver, path string, interval time.Duration) *structures.Config {
	return &structures.Config{
		Storage: structures.StorageConfig{
			Driver:        driver,
			FilePath:      path,
			FlushInterval: interval,
			MaxRetries:    8,
		},
	}
}

func TestScheduler_PersistAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotr.db.zst")
	conf := schedulerConfig(DriverFile, path, time.Second)
	logger := &testutil.MockLogger{}

	fb := newTestFileBackend(t, path)
	require.NoError(t, fb.Set("spotr.userCity", []byte(`"Plovdiv"`)))
	s := NewScheduler(conf, logger, fb)
	require.NoError(t, s.Persist())

	fresh := newTestFileBackend(t, path)
	require.NoError(t, NewScheduler(conf, logger, fresh).Restore())
	val, ok, _ := fresh.Get("spotr.userCity")
	assert.True(t, ok)
	assert.Equal(t, `"Plovdiv"`, string(val))
}

func TestScheduler_InitFlushesPeriodically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotr.db.zst")
	conf := schedulerConfig(DriverFile, path, 50*time.Millisecond)

	fb := newTestFileBackend(t, path)
	require.NoError(t, fb.Set("k", []byte("v")))
	s := NewScheduler(conf, &testutil.MockLogger{}, fb)
	s.Init()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)
}

func TestScheduler_InstrumentedFileBackendIsPersistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotr.db.zst")
	conf := schedulerConfig(DriverFile, path, time.Second)
	metrics := testutil.NewMockMetrics()

	backend := NewInstrumentedBackend(newTestFileBackend(t, path), metrics)
	require.NoError(t, backend.Set("k", []byte("v")))
	require.NoError(t, NewScheduler(conf, &testutil.MockLogger{}, backend).Persist())

	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, metrics.Flushes)
	assert.Equal(t, 1, metrics.StoredKeys)
	assert.Equal(t, 1, metrics.StorageOps["set"])
}

func TestScheduler_MemoryDriverIsNoop(t *testing.T) {
	conf := schedulerConfig(DriverMemory, "", time.Second)
	s := NewScheduler(conf, &testutil.MockLogger{}, NewMemoryBackend(1))

	s.Init()
	s.Stop()
	assert.NoError(t, s.Restore())
	assert.NoError(t, s.Persist())
}

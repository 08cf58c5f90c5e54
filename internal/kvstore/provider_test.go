package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"spotr/internal/structures"
	"spotr/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackendProvider_Drivers(t *testing.T) {
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()

	conf := &structures.Config{Storage: structures.StorageConfig{Driver: DriverFile, FilePath: filepath.Join(t.TempDir(), "db")}}
	b, err := NewBackendProvider(conf, logger, metrics)
	require.NoError(t, err)
	_, ok := b.(Persistent)
	assert.True(t, ok)

	conf.Storage.Driver = DriverMemory
	conf.Storage.MemorySizeMB = 1
	b, err = NewBackendProvider(conf, logger, metrics)
	require.NoError(t, err)
	assert.NoError(t, b.Set("k", []byte("v")))
	assert.Equal(t, 1, metrics.StorageOps["set"])

	conf.Storage.Driver = "bolt"
	_, err = NewBackendProvider(conf, logger, metrics)
	assert.Error(t, err)
}

func TestNewStoreProvider(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{MaxRetries: 3}}
	s := NewStoreProvider(conf, NewMemoryBackend(1), &testutil.MockLogger{}, testutil.NewMockMetrics())

	require.NoError(t, s.Set(context.Background(), "k", "v"))
	val, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

package kvstore

import (
	"strings"
	"testing"

	"github.com/coocood/freecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend_Basic(t *testing.T) {
	mb := NewMemoryBackend(1)

	_, ok, err := mb.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mb.Set("b", []byte("2")))
	require.NoError(t, mb.Set("a", []byte("1")))
	val, ok, err := mb.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", string(val))

	keys, err := mb.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, mb.Delete("a"))
	_, ok, _ = mb.Get("a")
	assert.False(t, ok)

	require.NoError(t, mb.Close())
	keys, _ = mb.Keys()
	assert.Empty(t, keys)
}

func TestMemoryBackend_RejectsOversizedValue(t *testing.T) {
	mb := NewMemoryBackend(1)
	big := strings.Repeat("x", 2048)
	err := mb.Set("big", []byte(big))
	assert.ErrorIs(t, err, freecache.ErrLargeEntry)
}

func TestMemoryBackend_IsNotPersistent(t *testing.T) {
	var b Backend = NewMemoryBackend(1)
	_, ok := b.(Persistent)
	assert.False(t, ok)
}

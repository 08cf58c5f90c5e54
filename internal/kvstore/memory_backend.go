package kvstore

import (
	"errors"
	"sort"
	"unsafe"

	"github.com/coocood/freecache"
)

// MemoryBackend is a bounded in-process backend with no durability.
// A single value may not exceed 1/1024 of the configured size; larger
// writes fail with freecache.ErrLargeEntry.
type MemoryBackend struct {
	cache *freecache.Cache
}

func NewMemoryBackend(sizeMB int) *MemoryBackend {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return &MemoryBackend{cache: freecache.NewCache(sizeMB * 1024 * 1024)}
}

// unsafeStringToBytes converts string to []byte without allocation.
// freecache copies keys internally, so the result is never written to.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (m *MemoryBackend) Get(key string) ([]byte, bool, error) {
	val, err := m.cache.Get(unsafeStringToBytes(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (m *MemoryBackend) Set(key string, value []byte) error {
	return m.cache.Set(unsafeStringToBytes(key), value, 0)
}

func (m *MemoryBackend) Delete(key string) error {
	m.cache.Del(unsafeStringToBytes(key))
	return nil
}

func (m *MemoryBackend) Keys() ([]string, error) {
	keys := make([]string, 0, m.cache.EntryCount())
	it := m.cache.NewIterator()
	for entry := it.Next(); entry != nil; entry = it.Next() {
		keys = append(keys, string(entry.Key))
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryBackend) Close() error {
	m.cache.Clear()
	return nil
}

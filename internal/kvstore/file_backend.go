package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/atomic"

	"spotr/internal/providers"
)

// fileSnapshot is the on-disk format: every key of the store in one
// zstd-compressed JSON document.
type fileSnapshot struct {
	Entries map[string]string `json:"entries"`
}

// FileBackend keeps the live data in a concurrent map and writes the whole
// map to a single compressed file on Flush. Writes between two flushes are
// lost if the process dies.
type FileBackend struct {
	path       string
	data       *xsync.MapOf[string, []byte]
	dirty      atomic.Bool
	flushMu    sync.Mutex
	compressor Compressor
	logger     providers.Logger
}

func NewFileBackend(path string, compressor Compressor, logger providers.Logger) *FileBackend {
	return &FileBackend{
		path:       path,
		data:       xsync.NewMapOf[string, []byte](),
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileBackend) Get(key string) ([]byte, bool, error) {
	val, ok := f.data.Load(key)
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}

func (f *FileBackend) Set(key string, value []byte) error {
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	f.data.Store(key, valueCopy)
	f.dirty.Store(true)
	return nil
}

func (f *FileBackend) Delete(key string) error {
	if _, loaded := f.data.LoadAndDelete(key); loaded {
		f.dirty.Store(true)
	}
	return nil
}

func (f *FileBackend) Keys() ([]string, error) {
	keys := make([]string, 0, f.data.Size())
	f.data.Range(func(key string, _ []byte) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of live keys.
func (f *FileBackend) Len() int {
	return f.data.Size()
}

// Flush writes the current map to disk if anything changed since the last
// successful flush. The file is replaced atomically via rename.
func (f *FileBackend) Flush() error {
	f.flushMu.Lock()
	defer f.flushMu.Unlock()

	if !f.dirty.CompareAndSwap(true, false) {
		return nil
	}

	snapshot := fileSnapshot{Entries: make(map[string]string, f.data.Size())}
	f.data.Range(func(key string, val []byte) bool {
		snapshot.Entries[key] = string(val)
		return true
	})

	if err := f.writeSnapshot(&snapshot); err != nil {
		f.dirty.Store(true)
		return err
	}
	return nil
}

func (f *FileBackend) writeSnapshot(snapshot *fileSnapshot) error {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

// Restore loads the snapshot file into memory. A missing file is an empty
// store. An unreadable file leaves the store empty and returns the error.
func (f *FileBackend) Restore() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", f.path, err)
	}

	var snapshot fileSnapshot
	if err := json.Unmarshal(decompressed, &snapshot); err != nil {
		return fmt.Errorf("parse %s: %w", f.path, err)
	}

	for key, val := range snapshot.Entries {
		f.data.Store(key, []byte(val))
	}
	f.logger.Infof(providers.TypeStorage, "Restored %d keys from %s", len(snapshot.Entries), f.path)
	return nil
}

func (f *FileBackend) Close() error {
	f.compressor.Close()
	return nil
}

package testutil

import (
	"errors"
	"sort"
	"spotr/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

var ErrInjected = errors.New("injected failure")

// MockBackend implements kvstore.Backend over a plain map. Setting one of
// the Fail* flags makes the matching operation return ErrInjected.
type MockBackend struct {
	mu   sync.Mutex
	Data map[string][]byte

	FailGet    bool
	FailSet    bool
	FailDelete bool
	FailKeys   bool
	// FailGetKeys fails Get only for the listed keys.
	FailGetKeys map[string]bool

	SetCalls int
	Closed   bool
}

func NewMockBackend() *MockBackend {
	return &MockBackend{Data: make(map[string][]byte), FailGetKeys: make(map[string]bool)}
}

func (m *MockBackend) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet || m.FailGetKeys[key] {
		return nil, false, ErrInjected
	}
	val, ok := m.Data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true, nil
}

func (m *MockBackend) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.FailSet {
		return ErrInjected
	}
	out := make([]byte, len(value))
	copy(out, value)
	m.Data[key] = out
	return nil
}

func (m *MockBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete {
		return ErrInjected
	}
	delete(m.Data, key)
	return nil
}

func (m *MockBackend) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailKeys {
		return nil, ErrInjected
	}
	keys := make([]string, 0, len(m.Data))
	for k := range m.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Put seeds a raw value, bypassing failure flags.
func (m *MockBackend) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = []byte(value)
}

// Raw returns the stored value for key, bypassing failure flags.
func (m *MockBackend) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return string(val), ok
}

// SetFailSet toggles write failures while other goroutines may be running.
func (m *MockBackend) SetFailSet(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailSet = fail
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu               sync.Mutex
	StorageOps       map[string]int
	StorageErrors    map[string]int
	VersionConflicts int
	Flushes          int
	StoredKeys       int
	Requests         int
	Endpoints        map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{StorageOps: map[string]int{}, StorageErrors: map[string]int{}, Endpoints: map[string]int{}}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
	if m.Endpoints != nil {
		m.Endpoints[endpoint]++
	}
}

func (m *MockMetrics) ObserveRequestDuration(endpoint string, d time.Duration) {}

func (m *MockMetrics) IncStorageOps(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageOps[op]++
}

func (m *MockMetrics) IncStorageErrors(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StorageErrors[op]++
}

func (m *MockMetrics) IncVersionConflicts(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VersionConflicts++
}

func (m *MockMetrics) ObserveFlushDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushes++
}

func (m *MockMetrics) SetStoredKeys(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredKeys = n
}

// Conflicts returns the number of version conflicts seen so far.
func (m *MockMetrics) Conflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.VersionConflicts
}

// MockCompressor implements kvstore.Compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// identity
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

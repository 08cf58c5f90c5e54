package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"spotr/internal/providers"
)

var (
	// ErrVersionConflict is returned by CompareAndSet when the key was
	// written after the caller read it.
	ErrVersionConflict = errors.New("kvstore: version mismatch")
	// ErrTooManyRetries is returned by Update when every attempt conflicted.
	ErrTooManyRetries = errors.New("kvstore: too many conflicting updates")
	// ErrSkipWrite may be returned by an Update mutator to leave the key untouched.
	ErrSkipWrite = errors.New("kvstore: skip write")
)

const defaultMaxRetries = 8

// Pair is one result of MultiGet. Found is false when the key is absent
// or could not be read.
type Pair struct {
	Key   string
	Value string
	Found bool
}

// Versioned is a value together with the write version it was read at.
// Version 0 means the key has not been written by this process.
type Versioned struct {
	Value   string
	Found   bool
	Version uint64
}

// Mutator receives the current value and returns the value to store.
type Mutator func(current string, found bool) (string, error)

// StoreInterface is the string-keyed storage primitive every domain store is built on.
type StoreInterface interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	MultiGet(ctx context.Context, keys []string) ([]Pair, error)
	MultiRemove(ctx context.Context, keys []string) error
	GetVersioned(ctx context.Context, key string) (Versioned, error)
	CompareAndSet(ctx context.Context, key, value string, expected uint64) error
	Update(ctx context.Context, key string, fn Mutator) (string, error)
}

// Store adds key listing, batching and version-stamped writes on top of a
// Backend. Versions live in memory only: they order writes made by this
// process and start from zero after a restart.
type Store struct {
	backend    Backend
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	maxRetries int

	mu       sync.Mutex
	versions map[string]uint64
}

func NewStore(backend Backend, logger providers.Logger, metrics providers.MetricsProviderInterface, maxRetries int) *Store {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Store{
		backend:    backend,
		logger:     logger,
		metrics:    metrics,
		maxRetries: maxRetries,
		versions:   make(map[string]uint64),
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	val, ok, err := s.backend.Get(key)
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return string(val), ok, nil
}

// Set writes unconditionally. Concurrent writers of the same key are last-write-wins.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(key, value)
}

func (s *Store) setLocked(key, value string) error {
	if err := s.backend.Set(key, []byte(value)); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	s.versions[key]++
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Delete(key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	s.versions[key]++
	return nil
}

// ListKeys returns every stored key starting with prefix, sorted.
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := s.backend.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// MultiGet reads every key. A key that fails to read is reported as not
// found and its error is joined into the returned error.
func (s *Store) MultiGet(ctx context.Context, keys []string) ([]Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pairs := make([]Pair, 0, len(keys))
	var errs []error
	for _, key := range keys {
		val, ok, err := s.backend.Get(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("get %q: %w", key, err))
			ok = false
		}
		pairs = append(pairs, Pair{Key: key, Value: string(val), Found: ok})
	}
	return pairs, errors.Join(errs...)
}

func (s *Store) MultiRemove(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, key := range keys {
		if err := s.backend.Delete(key); err != nil {
			errs = append(errs, fmt.Errorf("remove %q: %w", key, err))
			continue
		}
		s.versions[key]++
	}
	return errors.Join(errs...)
}

func (s *Store) GetVersioned(ctx context.Context, key string) (Versioned, error) {
	if err := ctx.Err(); err != nil {
		return Versioned{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok, err := s.backend.Get(key)
	if err != nil {
		return Versioned{}, fmt.Errorf("get %q: %w", key, err)
	}
	return Versioned{Value: string(val), Found: ok, Version: s.versions[key]}, nil
}

// CompareAndSet writes value only if the key is still at version expected.
func (s *Store) CompareAndSet(ctx context.Context, key, value string, expected uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if current := s.versions[key]; current != expected {
		s.metrics.IncVersionConflicts(key)
		return fmt.Errorf("%w: %q expected %d, got %d", ErrVersionConflict, key, expected, current)
	}
	return s.setLocked(key, value)
}

// Update runs a read-modify-write on one key with optimistic concurrency:
// fn is re-run against the fresh value whenever another writer got in
// between the read and the write. fn must not have side effects.
func (s *Store) Update(ctx context.Context, key string, fn Mutator) (string, error) {
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		current, err := s.GetVersioned(ctx, key)
		if err != nil {
			return "", err
		}
		next, err := fn(current.Value, current.Found)
		if errors.Is(err, ErrSkipWrite) {
			return current.Value, nil
		}
		if err != nil {
			return "", err
		}
		err = s.CompareAndSet(ctx, key, next, current.Version)
		if errors.Is(err, ErrVersionConflict) {
			s.logger.Debugf(providers.TypeStorage, "Retrying update of %s after conflict (attempt %d)", key, attempt+1)
			continue
		}
		if err != nil {
			return "", err
		}
		return next, nil
	}
	return "", fmt.Errorf("%w: %q", ErrTooManyRetries, key)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

package kvstore

import (
	"spotr/internal/providers"
	"time"
)

// InstrumentedBackend wraps a Backend and counts operations and failures.
type InstrumentedBackend struct {
	inner   Backend
	metrics providers.MetricsProviderInterface
}

func NewInstrumentedBackend(inner Backend, metrics providers.MetricsProviderInterface) *InstrumentedBackend {
	return &InstrumentedBackend{inner: inner, metrics: metrics}
}

func (b *InstrumentedBackend) observe(op string, err error) {
	b.metrics.IncStorageOps(op)
	if err != nil {
		b.metrics.IncStorageErrors(op)
	}
}

func (b *InstrumentedBackend) Get(key string) ([]byte, bool, error) {
	val, ok, err := b.inner.Get(key)
	b.observe("get", err)
	return val, ok, err
}

func (b *InstrumentedBackend) Set(key string, value []byte) error {
	err := b.inner.Set(key, value)
	b.observe("set", err)
	return err
}

func (b *InstrumentedBackend) Delete(key string) error {
	err := b.inner.Delete(key)
	b.observe("delete", err)
	return err
}

func (b *InstrumentedBackend) Keys() ([]string, error) {
	keys, err := b.inner.Keys()
	b.observe("keys", err)
	return keys, err
}

func (b *InstrumentedBackend) Close() error {
	return b.inner.Close()
}

// Flush delegates to the wrapped backend when it is persistent.
func (b *InstrumentedBackend) Flush() error {
	p, ok := b.inner.(Persistent)
	if !ok {
		return nil
	}
	start := time.Now()
	err := p.Flush()
	b.observe("flush", err)
	if err == nil {
		b.metrics.ObserveFlushDuration(time.Since(start))
		if keys, kerr := b.inner.Keys(); kerr == nil {
			b.metrics.SetStoredKeys(len(keys))
		}
	}
	return err
}

func (b *InstrumentedBackend) Restore() error {
	p, ok := b.inner.(Persistent)
	if !ok {
		return nil
	}
	err := p.Restore()
	b.observe("restore", err)
	return err
}

package kvstore

import (
	"fmt"
	"spotr/internal/providers"
	"spotr/internal/structures"
)

const (
	DriverFile   = "file"
	DriverMemory = "memory"
)

// NewBackendProvider builds the backend selected by storage.driver, wrapped
// with metrics.
func NewBackendProvider(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (Backend, error) {
	switch conf.Storage.Driver {
	case DriverFile:
		compressor, err := NewZstdCompressor()
		if err != nil {
			return nil, err
		}
		logger.Infof(providers.TypeStorage, "File storage at %s, flush every %s", conf.Storage.FilePath, conf.Storage.FlushInterval)
		return NewInstrumentedBackend(NewFileBackend(conf.Storage.FilePath, compressor, logger), metrics), nil
	case DriverMemory:
		logger.Infof(providers.TypeStorage, "Memory storage, %dMB", conf.Storage.MemorySizeMB)
		return NewInstrumentedBackend(NewMemoryBackend(conf.Storage.MemorySizeMB), metrics), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

func NewStoreProvider(conf *structures.Config, backend Backend, logger providers.Logger, metrics providers.MetricsProviderInterface) StoreInterface {
	return NewStore(backend, logger, metrics, conf.Storage.MaxRetries)
}

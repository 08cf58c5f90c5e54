package kvstore

// Backend is the raw storage medium behind a Store. It is the only layer
// that touches the device's persistent storage.
type Backend interface {
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// Persistent is implemented by backends that keep a live copy in memory
// and write it to disk on demand.
type Persistent interface {
	Flush() error
	Restore() error
}

type Compressor interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

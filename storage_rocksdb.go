package ccbench

// storage_rocksdb.go adapts internal/snapstore.Store (the --storage
// rocksdb persistent backend) to the Storage interface, translating
// between this package's Record and the leaf package's plain
// map[string]any/version pair (internal/snapstore cannot import the root
// package without creating an import cycle).

import (
	"github.com/ccbench/ccbench/internal/compression"
	"github.com/ccbench/ccbench/internal/logging"
	"github.com/ccbench/ccbench/internal/snapstore"
)

// PersistentStorage wraps internal/snapstore.Store to implement Storage.
type PersistentStorage struct {
	store *snapstore.Store
}

// PersistentStorageOptions configures a PersistentStorage.
type PersistentStorageOptions struct {
	// Path is the snapshot file location on disk.
	Path string
	// Compression selects the on-disk codec. Zero value is NoCompression;
	// the CLI passes ZstdCompression explicitly for --storage rocksdb.
	Compression compression.Type
	// Logger receives [store]-namespaced diagnostics.
	Logger logging.Logger
}

// OpenPersistentStorage opens (or creates) the snapshot at opts.Path.
func OpenPersistentStorage(opts PersistentStorageOptions) (*PersistentStorage, error) {
	store, err := snapstore.Open(snapstore.Options{
		Path:        opts.Path,
		Compression: opts.Compression,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &PersistentStorage{store: store}, nil
}

// Get implements Storage.
func (p *PersistentStorage) Get(key string) (Record, bool) {
	fields, version, ok := p.store.Get(key)
	if !ok {
		return Record{}, false
	}
	return Record{Fields: fields, Version: version}, true
}

// Put implements Storage.
func (p *PersistentStorage) Put(key string, record Record) {
	p.store.Put(key, record.Fields, record.Version)
}

// Keys implements Storage.
func (p *PersistentStorage) Keys() []string {
	return p.store.Keys()
}

// SumIntField implements Storage.
func (p *PersistentStorage) SumIntField(field string) int64 {
	return p.store.SumIntField(field)
}

// BulkLoad implements Storage.
func (p *PersistentStorage) BulkLoad(items []BulkItem) {
	batch := make(map[string]map[string]any, len(items))
	for _, item := range items {
		batch[item.Key] = item.Fields
	}
	p.store.BulkLoad(batch)
}

// Flush persists the current state to disk immediately.
func (p *PersistentStorage) Flush() error {
	return p.store.Flush()
}

// Close flushes and releases the backing file.
func (p *PersistentStorage) Close() error {
	return p.store.Close()
}

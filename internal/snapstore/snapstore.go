// Package snapstore implements the persistent storage backend selected by
// --storage rocksdb: an in-memory map identical in semantics to the
// default backend, durable across restarts via an atomic snapshot file.
//
// Snapshot file layout (one container, written whole on Flush/Close):
//
//	MAGIC "CCBSNAP1"
//	checksum type byte, compression type byte
//	xxh3-64 checksum (8 bytes, big-endian) of the compressed body
//	compressed body (internal/codec.Encode output, compressed per the tag)
//
// Writes are atomic: the container is built in memory, written to a temp
// file in the same directory, fsynced, then renamed over the destination
// (rename is atomic on POSIX filesystems) so a crash mid-write never
// corrupts the previous snapshot.
//
// Reference: adapted from github.com/aalhour/rockyardkv's manifest/WAL
// atomic-replace pattern (write-temp, fsync, rename) applied to a single
// whole-snapshot file instead of an append-only log, since this benchmark
// has no durability requirement beyond "survives process restart."
package snapstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ccbench/ccbench/internal/checksum"
	"github.com/ccbench/ccbench/internal/codec"
	"github.com/ccbench/ccbench/internal/compression"
	"github.com/ccbench/ccbench/internal/logging"
)

const magic = "CCBSNAP1"

// ErrCorrupt is returned when a snapshot file fails its checksum or magic
// check on load.
var ErrCorrupt = errors.New("snapstore: corrupt snapshot file")

// record mirrors the root package's Record shape without importing it
// (internal/snapstore is a leaf package; the root package depends on it,
// not the reverse).
type record struct {
	Fields  map[string]any
	Version uint64
}

// Store is a durable, in-memory-backed key/value store matching the
// Storage contract (Get/Put/Keys/SumIntField/BulkLoad) used by --storage
// rocksdb. All operations during a run are served from the in-memory map;
// Flush/Close persist the current state to path.
type Store struct {
	mu   sync.Mutex
	data map[string]record

	path        string
	compression compression.Type
	log         logging.Logger
}

// Options configures a Store.
type Options struct {
	// Path is the snapshot file location.
	Path string
	// Compression selects the body codec written on Flush/Close. The zero
	// value is NoCompression, matching the zero-value-is-the-safe-default
	// convention RunConfig's StorageMode/CCMode also follow; the CLI
	// explicitly requests ZstdCompression for --storage rocksdb.
	Compression compression.Type
	// Logger receives [store]-namespaced diagnostics. A nil Logger is
	// replaced by logging.OrDefault's WARN-level stderr logger.
	Logger logging.Logger
}

// Open loads an existing snapshot at opts.Path, or returns an empty Store
// if the file does not exist.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("snapstore: Path must be set")
	}
	s := &Store{
		data:        make(map[string]record),
		path:        opts.Path,
		compression: opts.Compression,
		log:         logging.OrDefault(opts.Logger),
	}

	f, err := os.Open(opts.Path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Infof("%sno existing snapshot at %s, starting empty", logging.NSStore, opts.Path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapstore: open %s: %w", opts.Path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("snapstore: read %s: %w", opts.Path, err)
	}
	if err := s.loadContainer(data); err != nil {
		return nil, err
	}
	s.log.Infof("%sloaded %d keys from %s", logging.NSStore, len(s.data), opts.Path)
	return s, nil
}

// loadContainer parses and decompresses a snapshot container, populating
// s.data.
func (s *Store) loadContainer(data []byte) error {
	if len(data) < len(magic)+2+8 {
		return fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	if string(data[:len(magic)]) != magic {
		return fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	off := len(magic)
	checksumType := checksum.Type(data[off])
	off++
	compType := compression.Type(data[off])
	off++
	wantSum := binary.BigEndian.Uint64(data[off : off+8])
	off += 8
	body := data[off:]

	gotSum := checksum.XXH3_64bits(body)
	if checksumType == checksum.TypeXXH3 && gotSum != wantSum {
		return fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	plain, err := compression.Decompress(compType, body)
	if err != nil {
		return fmt.Errorf("snapstore: decompress: %w", err)
	}

	version, rows, err := codec.Decode(bytes.NewReader(plain))
	if err != nil {
		return fmt.Errorf("snapstore: decode: %w", err)
	}

	data2 := make(map[string]record)
	for _, row := range rows {
		rec, ok := data2[row.Key]
		if !ok {
			rec = record{Fields: make(map[string]any), Version: version}
		}
		rec.Fields[row.Name] = row.Value
		data2[row.Key] = rec
	}
	s.data = data2
	return nil
}

// Get returns the record at key.
func (s *Store) Get(key string) (fields map[string]any, version uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data[key]
	if !ok {
		return nil, 0, false
	}
	out := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		out[k] = v
	}
	return out, r.Version, true
}

// Put unconditionally writes fields/version at key.
func (s *Store) Put(key string, fields map[string]any, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	s.data[key] = record{Fields: cp, Version: version}
}

// Keys returns a sorted enumeration of all present keys.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SumIntField sums field across every key, treating absent/non-int values
// as 0.
func (s *Store) SumIntField(field string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, r := range s.data {
		if v, ok := r.Fields[field]; ok {
			if n, ok := v.(int64); ok {
				total += n
			}
		}
	}
	return total
}

// BulkLoad initializes the store with items at version 0.
func (s *Store) BulkLoad(items map[string]map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, fields := range items {
		cp := make(map[string]any, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		s.data[key] = record{Fields: cp, Version: 0}
	}
}

// Flush persists the current in-memory state to path via write-temp,
// fsync, rename.
func (s *Store) Flush() error {
	s.mu.Lock()
	var rows []codec.Field
	for key, r := range s.data {
		for name, value := range r.Fields {
			rows = append(rows, codec.Field{Key: key, Name: name, Value: value})
		}
	}
	version := uint64(1)
	s.mu.Unlock()

	var plain bytes.Buffer
	if err := codec.Encode(&plain, version, rows); err != nil {
		return fmt.Errorf("snapstore: encode: %w", err)
	}

	compressed, err := compression.Compress(s.compression, plain.Bytes())
	if err != nil {
		return fmt.Errorf("snapstore: compress: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(magic)
	out.WriteByte(byte(checksum.TypeXXH3))
	out.WriteByte(byte(s.compression))
	var sumBuf [8]byte
	binary.BigEndian.PutUint64(sumBuf[:], checksum.XXH3_64bits(compressed))
	out.Write(sumBuf[:])
	out.Write(compressed)

	return writeAtomic(s.path, out.Bytes())
}

// Close flushes and releases the store. The in-memory map is left intact;
// Close only guarantees durability, matching the benchmark's
// process-lifetime storage model.
func (s *Store) Close() error {
	s.log.Infof("%sflushing snapshot to %s", logging.NSStore, s.path)
	return s.Flush()
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("snapstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("snapstore: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("snapstore: fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapstore: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("snapstore: rename into place: %w", err)
	}
	return nil
}

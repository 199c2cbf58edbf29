package ccbench

// txncontext.go implements the per-transaction-attempt read/write buffering
// (§4.B). A TxnContext is single-owner and created fresh per attempt; it is
// never reused across retries (§9).

// readEntry captures a read set's per-key observation: whether the key
// existed and, if so, at what version.
type readEntry struct {
	exists  bool
	version uint64
}

// TxnContext accumulates one transaction attempt's read and write sets over
// a shared Storage. Reads are memoized: the first read of a key records its
// pre-write existence/version into the read set, and later reads of the
// same key do not overwrite that entry (§3, "append-only within an
// attempt").
type TxnContext struct {
	id      uint64
	storage Storage
	reads   map[string]readEntry
	writes  map[string]Record
}

// NewTxnContext opens a context bound to storage for the given attempt id.
func NewTxnContext(id uint64, storage Storage) *TxnContext {
	return &TxnContext{
		id:      id,
		storage: storage,
		reads:   make(map[string]readEntry),
		writes:  make(map[string]Record),
	}
}

// ID returns the attempt id this context was opened with.
func (c *TxnContext) ID() uint64 { return c.id }

// Read returns the current value of key, preferring the write set
// (read-own-writes, §3) and otherwise forwarding to storage. The first read
// of a key not already in the write set records a read-set entry; later
// reads of the same key leave that entry untouched.
func (c *TxnContext) Read(key string) (Record, bool) {
	if r, ok := c.writes[key]; ok {
		return r.Clone(), true
	}
	r, ok := c.storage.Get(key)
	if _, seen := c.reads[key]; !seen {
		if ok {
			c.reads[key] = readEntry{exists: true, version: r.Version}
		} else {
			c.reads[key] = readEntry{exists: false, version: 0}
		}
	}
	return r, ok
}

// Write overwrites the write-set entry for key (last-write-wins within the
// attempt, §3).
func (c *TxnContext) Write(key string, record Record) {
	c.writes[key] = record.Clone()
}

// ReadInt reads field of key as an int64, defaulting to def when the key or
// field is absent.
func (c *TxnContext) ReadInt(key, field string, def int64) int64 {
	r, ok := c.Read(key)
	if !ok {
		return def
	}
	return r.IntField(field, def)
}

// WriteInt reads key (empty record if absent), sets field to value, and
// writes the record back to the write set.
func (c *TxnContext) WriteInt(key, field string, value int64) {
	r, ok := c.Read(key)
	if !ok {
		r = NewRecord()
	} else {
		r = r.Clone()
	}
	r.SetIntField(field, value)
	c.Write(key, r)
}

// ReadSet returns the accumulated read set by reference; callers must treat
// it as read-only.
func (c *TxnContext) ReadSet() map[string]readEntry { return c.reads }

// WriteSet returns the accumulated write set by reference; callers must
// treat it as read-only except for the CC strategy applying it.
func (c *TxnContext) WriteSet() map[string]Record { return c.writes }

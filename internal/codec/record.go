// Package codec implements the persistent record encoding (§6 of the
// specification): a line-oriented, tab-separated, escaped format, used by
// internal/snapstore to serialize the in-memory key/value map to disk.
//
// Format:
//
//	VERSION\t<u64>
//	I\t<key>\t<int64>
//	S\t<key>\t<escaped string>
//
// Keys are written in sorted lexicographic order for deterministic bytes,
// and one line is emitted per (key, field) pair — a multi-field record is
// spread across multiple lines sharing its key.
//
// Reference: adapted from github.com/aalhour/rockyardkv's options_file.go,
// which parses a similarly line-oriented, escaped RocksDB OPTIONS file.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Escape backslash-escapes '\\', '\t', and '\n' in s.
func Escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape reverses Escape.
func Unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Field is one record field's name and value, carried alongside its key
// for encoding.
type Field struct {
	Key   string
	Name  string
	Value any // int64 or string
}

// Encode writes the §6 persistent record format: a VERSION header line,
// then one "I"/"S" line per (key, field), with keys in sorted
// lexicographic order. version is the container's schema version, not a
// per-record version.
func Encode(w io.Writer, version uint64, rows []Field) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "VERSION\t%d\n", version); err != nil {
		return err
	}

	sorted := make([]Field, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Key != sorted[j].Key {
			return sorted[i].Key < sorted[j].Key
		}
		return sorted[i].Name < sorted[j].Name
	})

	for _, f := range sorted {
		switch v := f.Value.(type) {
		case int64:
			if _, err := fmt.Fprintf(bw, "I\t%s\t%d\n", Escape(recordKey(f.Key, f.Name)), v); err != nil {
				return err
			}
		case string:
			if _, err := fmt.Fprintf(bw, "S\t%s\t%s\n", Escape(recordKey(f.Key, f.Name)), Escape(v)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("codec: field %s.%s has unsupported type %T", f.Key, f.Name, v)
		}
	}
	return bw.Flush()
}

// recordKey packs a (key, field) pair into the single escaped key column
// the §6 line format carries, using '\x1f' (unit separator) as an internal
// delimiter. Escape leaves '\x1f' as is and splitRecordKey splits at its
// first occurrence, so a key containing that byte does not decode back to
// the same (key, field) pair.
func recordKey(key, field string) string {
	return key + "\x1f" + field
}

// splitRecordKey reverses recordKey.
func splitRecordKey(packed string) (key, field string, ok bool) {
	idx := strings.IndexByte(packed, '\x1f')
	if idx < 0 {
		return "", "", false
	}
	return packed[:idx], packed[idx+1:], true
}

// Decode parses the §6 persistent record format, returning the container
// version and the decoded (key, field, value) rows.
func Decode(r io.Reader) (version uint64, rows []Field, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return 0, nil, fmt.Errorf("codec: empty input, expected VERSION header")
	}
	header := sc.Text()
	const prefix = "VERSION\t"
	if !strings.HasPrefix(header, prefix) {
		return 0, nil, fmt.Errorf("codec: first line must be %q, got %q", "VERSION\\t<u64>", header)
	}
	version, err = strconv.ParseUint(strings.TrimPrefix(header, prefix), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("codec: invalid VERSION line: %w", err)
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			return 0, nil, fmt.Errorf("codec: malformed line %q", line)
		}
		key, field, ok := splitRecordKey(Unescape(parts[1]))
		if !ok {
			return 0, nil, fmt.Errorf("codec: malformed key column %q", parts[1])
		}
		switch parts[0] {
		case "I":
			n, err := strconv.ParseInt(parts[2], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("codec: invalid int field %q: %w", line, err)
			}
			rows = append(rows, Field{Key: key, Name: field, Value: n})
		case "S":
			rows = append(rows, Field{Key: key, Name: field, Value: Unescape(parts[2])})
		default:
			return 0, nil, fmt.Errorf("codec: unknown row tag %q", parts[0])
		}
	}
	if err := sc.Err(); err != nil {
		return 0, nil, err
	}
	return version, rows, nil
}

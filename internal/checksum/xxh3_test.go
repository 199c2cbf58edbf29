package checksum

import "testing"

func TestXXH3_64bitsConsistency(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog")

	h1 := XXH3_64bits(data)
	h2 := XXH3_64bits(data)
	if h1 != h2 {
		t.Errorf("XXH3_64bits not consistent: %x != %x", h1, h2)
	}
	if h1 == 0 {
		t.Errorf("XXH3_64bits of non-empty data should not be zero")
	}
}

func TestXXH3_64bitsEmpty(t *testing.T) {
	if XXH3_64bits(nil) != XXH3_64bits([]byte{}) {
		t.Errorf("hash of nil and empty slice should match")
	}
}

func TestXXH3ChecksumWithLastByteDistinguishesTrailer(t *testing.T) {
	data := []byte("snapshot container body")

	a := XXH3ChecksumWithLastByte(data, 0x01)
	b := XXH3ChecksumWithLastByte(data, 0x02)
	if a == b {
		t.Errorf("checksum should depend on the trailing byte: got %x for both", a)
	}
}

func TestXXH3ChecksumVariousLengths(t *testing.T) {
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i * 17)
	}
	seen := make(map[uint32]int)
	for length := range 257 {
		got := XXH3Checksum(data[:length])
		if prev, ok := seen[got]; ok && length > 0 {
			t.Logf("collision at lengths %d and %d: %x", length, prev, got)
		}
		seen[got] = length
	}
}

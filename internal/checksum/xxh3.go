// xxh3.go wraps the real XXH3 implementation for the snapshot-file header
// checksum. The upstream teacher package hand-rolled XXH3 from the public
// spec; this repository imports the maintained library instead.
package checksum

import "github.com/zeebo/xxh3"

// XXH3_64bits computes the 64-bit XXH3 hash of data.
func XXH3_64bits(data []byte) uint64 {
	return xxh3.Hash(data)
}

// XXH3Checksum returns the low 32 bits of the 64-bit XXH3 hash of data.
func XXH3Checksum(data []byte) uint32 {
	return uint32(xxh3.Hash(data))
}

// XXH3ChecksumWithLastByte computes the 32-bit XXH3 checksum of data, mixed
// with a trailing byte that was stored outside the hashed buffer (such as
// a compression-type tag).
func XXH3ChecksumWithLastByte(data []byte, lastByte byte) uint32 {
	h := xxh3.Hash(data)
	v := uint32(h)
	const kRandomPrime = 0x6b9083d9
	return v ^ (uint32(lastByte) * kRandomPrime)
}

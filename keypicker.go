package ccbench

// keypicker.go implements hot/cold and prefix-constrained uniform sampling
// for contention shaping (§4.F).

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
)

var (
	// ErrEmptyKeyspace is returned when a pick is attempted over an empty
	// key set or an empty prefix bucket.
	ErrEmptyKeyspace = errors.New("ccbench: empty keyspace")

	// ErrInsufficientKeys is returned when a distinct-sample request asks
	// for more keys than are available in the relevant set.
	ErrInsufficientKeys = errors.New("ccbench: insufficient keys for distinct sample")
)

// KeyPicker samples keys for contention shaping: a hot set (the first
// min(hotsetSize, len(allKeys)) entries of the sorted key list) is sampled
// with elevated probability pHot.
type KeyPicker struct {
	allKeys []string
	hotKeys []string
	pHot    float64
}

// NewKeyPicker builds a picker over allKeys (consumed by value; the slice
// is sorted internally so prefix bucketing is deterministic) with the given
// hot-set probability and size.
func NewKeyPicker(allKeys []string, pHot float64, hotsetSize int) *KeyPicker {
	keys := make([]string, len(allKeys))
	copy(keys, allKeys)
	sort.Strings(keys)

	n := hotsetSize
	if n > len(keys) {
		n = len(keys)
	}
	if n < 0 {
		n = 0
	}

	hot := make([]string, n)
	copy(hot, keys[:n])

	return &KeyPicker{allKeys: keys, hotKeys: hot, pHot: pHot}
}

// PickAny samples one key uniformly: with probability pHot from the hot
// set, else from all keys. If the hot set is empty or pHot<=0, it always
// samples from all keys.
func (p *KeyPicker) PickAny(rng *rand.Rand) (string, error) {
	return pickFrom(p.allKeys, p.hotKeys, p.pHot, rng)
}

// PickAnyDistinct repeatedly calls PickAny, accepting only new samples,
// until n distinct keys are collected. Fails if len(allKeys) < n.
func (p *KeyPicker) PickAnyDistinct(n int, rng *rand.Rand) ([]string, error) {
	if len(p.allKeys) < n {
		return nil, ErrInsufficientKeys
	}
	return pickDistinct(n, rng, p.PickAny)
}

// PickByPrefix samples one key uniformly from the subset of keys sharing
// prefix, applying the same hot/cold rule scoped to that subset. The prefix
// of a key is the substring up to and including the first '_', or the
// whole key if it has no '_'.
func (p *KeyPicker) PickByPrefix(prefix string, rng *rand.Rand) (string, error) {
	bucket, hotBucket := p.prefixBuckets(prefix)
	if len(bucket) == 0 {
		return "", ErrEmptyKeyspace
	}
	return pickFrom(bucket, hotBucket, p.pHot, rng)
}

// PickByPrefixDistinct is the distinct-sample variant of PickByPrefix.
// Fails if the prefix bucket is empty or smaller than n.
func (p *KeyPicker) PickByPrefixDistinct(prefix string, n int, rng *rand.Rand) ([]string, error) {
	bucket, _ := p.prefixBuckets(prefix)
	if len(bucket) == 0 || len(bucket) < n {
		return nil, ErrInsufficientKeys
	}
	return pickDistinct(n, rng, func(rng *rand.Rand) (string, error) {
		return p.PickByPrefix(prefix, rng)
	})
}

// prefixBuckets returns (all keys with the given prefix, the subset of
// those that are also in the hot set).
func (p *KeyPicker) prefixBuckets(prefix string) ([]string, []string) {
	var bucket, hotBucket []string
	for _, k := range p.allKeys {
		if keyPrefix(k) == prefix {
			bucket = append(bucket, k)
		}
	}
	hotSet := make(map[string]struct{}, len(p.hotKeys))
	for _, k := range p.hotKeys {
		hotSet[k] = struct{}{}
	}
	for _, k := range bucket {
		if _, ok := hotSet[k]; ok {
			hotBucket = append(hotBucket, k)
		}
	}
	return bucket, hotBucket
}

// keyPrefix returns the substring of key up to and including the first
// '_', or the whole key if it contains no '_'.
func keyPrefix(key string) string {
	idx := strings.IndexByte(key, '_')
	if idx < 0 {
		return key
	}
	return key[:idx+1]
}

// pickFrom implements the shared hot/cold sampling rule over an
// (all, hot) pair.
func pickFrom(all, hot []string, pHot float64, rng *rand.Rand) (string, error) {
	if len(all) == 0 {
		return "", ErrEmptyKeyspace
	}
	if len(hot) > 0 && pHot > 0 && rng.Float64() < pHot {
		return hot[rng.Intn(len(hot))], nil
	}
	return all[rng.Intn(len(all))], nil
}

// pickDistinct repeatedly calls pick, retaining only first-seen keys, until
// n distinct keys are collected.
func pickDistinct(n int, rng *rand.Rand, pick func(*rand.Rand) (string, error)) ([]string, error) {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for len(out) < n {
		k, err := pick(rng)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out, nil
}

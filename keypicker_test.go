package ccbench

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPicker_PickAnyEmptyKeyspace(t *testing.T) {
	p := NewKeyPicker(nil, 0, 0)
	_, err := p.PickAny(rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyKeyspace)
}

func TestKeyPicker_PickAnyAlwaysFromHotSetWhenPHotIsOne(t *testing.T) {
	p := NewKeyPicker([]string{"A_1", "A_2", "A_3"}, 1.0, 1)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		k, err := p.PickAny(rng)
		require.NoError(t, err)
		assert.Equal(t, "A_1", k, "with hotsetSize=1 and pHot=1, the sole hot key is the sorted-first key")
	}
}

func TestKeyPicker_PickAnySamplesFullKeyspaceWhenPHotIsZero(t *testing.T) {
	p := NewKeyPicker([]string{"A_1", "A_2", "A_3"}, 0.0, 3)
	rng := rand.New(rand.NewSource(1))
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		k, err := p.PickAny(rng)
		require.NoError(t, err)
		seen[k] = true
	}
	assert.True(t, len(seen) > 1, "pHot=0 must still sample from the full keyspace")
}

func TestKeyPicker_PickAnyDistinctInsufficientKeys(t *testing.T) {
	p := NewKeyPicker([]string{"A_1"}, 0, 0)
	_, err := p.PickAnyDistinct(2, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInsufficientKeys)
}

func TestKeyPicker_PickAnyDistinctReturnsDistinctKeys(t *testing.T) {
	p := NewKeyPicker([]string{"A_1", "A_2", "A_3"}, 0, 0)
	rng := rand.New(rand.NewSource(1))
	keys, err := p.PickAnyDistinct(3, rng)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
	assert.NotEqual(t, keys[0], keys[1])
	assert.NotEqual(t, keys[1], keys[2])
}

func TestKeyPicker_PickByPrefixScopesToPrefix(t *testing.T) {
	p := NewKeyPicker([]string{"A_1", "A_2", "D_1"}, 0, 0)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		k, err := p.PickByPrefix("A_", rng)
		require.NoError(t, err)
		assert.Contains(t, []string{"A_1", "A_2"}, k)
	}
}

func TestKeyPicker_PickByPrefixEmptyBucket(t *testing.T) {
	p := NewKeyPicker([]string{"A_1"}, 0, 0)
	_, err := p.PickByPrefix("D_", rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyKeyspace)
}

func TestKeyPicker_PickByPrefixDistinctInsufficientKeys(t *testing.T) {
	p := NewKeyPicker([]string{"A_1"}, 0, 0)
	_, err := p.PickByPrefixDistinct("A_", 2, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInsufficientKeys)
}

func TestKeyPicker_DeterministicGivenSameSeed(t *testing.T) {
	p1 := NewKeyPicker([]string{"A_1", "A_2", "A_3"}, 0.3, 1)
	p2 := NewKeyPicker([]string{"A_1", "A_2", "A_3"}, 0.3, 1)

	rng1 := rand.New(rand.NewSource(7))
	rng2 := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		k1, err1 := p1.PickAny(rng1)
		k2, err2 := p2.PickAny(rng2)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, k1, k2)
	}
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "A_", keyPrefix("A_1"))
	assert.Equal(t, "nounderscore", keyPrefix("nounderscore"))
}

package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryAddHas(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.Has("PAIR1"))

	r.Add("PAIR1")
	assert.True(t, r.Has("PAIR1"))
	assert.False(t, r.Has("PAIR2"))

	// Adding again is a no-op.
	r.Add("PAIR1")
	assert.Equal(t, 1, r.Size())
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry()
	r.Add("PAIR1")
	r.Add("PAIR2")
	assert.Equal(t, 2, r.Size())

	r.Clear()

	assert.False(t, r.Has("PAIR1"))
	assert.False(t, r.Has("PAIR2"))
	assert.Equal(t, 0, r.Size())
}

func TestRegistryWarmup(t *testing.T) {
	r := NewRegistry()
	r.Add("OLD")

	records := []PairRecord{
		{PairAddress: "PAIR1"},
		{PairAddress: "PAIR2"},
		{PairAddress: ""}, // records without an address are skipped
		{PairAddress: "OLD"},
	}

	added := r.Warmup(records)

	assert.Equal(t, 2, added)
	assert.Equal(t, 3, r.Size())
	assert.True(t, r.Has("PAIR1"))
	assert.True(t, r.Has("PAIR2"))
	assert.False(t, r.Has(""))
}

package attrs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreSetGet(t *testing.T) {
	s := NewStore()
	s.Set(1, "frame-pointer", "all")

	v, ok := s.Get(1, "frame-pointer")
	require.True(t, ok)
	require.Equal(t, "all", v)

	// Absent key and absent entity both read as not present.
	_, ok = s.Get(1, NoUnwind)
	require.False(t, ok)
	_, ok = s.Get(2, "frame-pointer")
	require.False(t, ok)

	s.Set(1, "frame-pointer", "non-leaf")
	v, _ = s.Get(1, "frame-pointer")
	require.Equal(t, "non-leaf", v)
	require.Equal(t, 1, s.Len())
}

func TestStoreFlags(t *testing.T) {
	s := NewStore()
	s.SetFlag(7, NoUnwind)

	require.True(t, s.Has(7, NoUnwind))
	require.False(t, s.Has(7, ReadNone))

	v, ok := s.Get(7, NoUnwind)
	require.True(t, ok)
	require.Equal(t, "", v)
}

func TestStoreDel(t *testing.T) {
	s := NewStore()
	s.SetFlag(3, Cold)
	require.True(t, s.Has(3, Cold))

	s.Del(3, Cold)
	require.False(t, s.Has(3, Cold))

	// Deleting an absent key is a no-op.
	s.Del(3, Cold)
	require.Equal(t, 0, s.Len())
}

func TestStoreKeysSorted(t *testing.T) {
	s := NewStore()
	s.SetFlag(5, ReadNone)
	s.SetFlag(5, NoUnwind)
	s.Set(5, "target-cpu", "generic")
	s.SetFlag(6, Cold)

	require.Equal(t, []Key{NoUnwind, ReadNone, "target-cpu"}, s.Keys(5))
	require.Equal(t, []Key{Cold}, s.Keys(6))
	require.Nil(t, s.Keys(99))
}

func TestWellKnown(t *testing.T) {
	keys := WellKnown()
	require.Len(t, keys, 7)
	for _, k := range keys {
		require.True(t, k.WellKnown(), string(k))
	}
	require.True(t, NoUnwind.WellKnown())
	require.False(t, Key("target-cpu").WellKnown())

	// The returned slice is a copy.
	keys[0] = "mutated"
	require.Equal(t, AlwaysInline, WellKnown()[0])
}

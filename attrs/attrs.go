// Package attrs stores attributes and annotations for IR entities.
//
// Attributes live out of band from the value graph: a Store maps an
// entity id and a key to a string value, so optimization hints and
// target annotations never change the shape of the structural IR. Keys
// are open-ended strings; the constants below cover the well-known
// function attributes.
package attrs

import "sort"

// Key names an attribute. Use one of the package constants where one
// applies; any other string is accepted for tool-specific annotations.
type Key string

const (
	NoUnwind     Key = "nounwind"
	ReadNone     Key = "readnone"
	ReadOnly     Key = "readonly"
	WillReturn   Key = "willreturn"
	AlwaysInline Key = "alwaysinline"
	NoInline     Key = "noinline"
	Cold         Key = "cold"
)

var wellKnown = []Key{
	AlwaysInline,
	Cold,
	NoInline,
	NoUnwind,
	ReadNone,
	ReadOnly,
	WillReturn,
}

// WellKnown returns the well-known attribute keys in sorted order.
func WellKnown() []Key {
	keys := make([]Key, len(wellKnown))
	copy(keys, wellKnown)
	return keys
}

// WellKnown reports whether k is one of the well-known keys.
func (k Key) WellKnown() bool {
	for _, w := range wellKnown {
		if k == w {
			return true
		}
	}
	return false
}

type entry struct {
	entity uint64
	key    Key
}

// Store maps (entity id, key) pairs to string values. Flag-style
// attributes store an empty value and are observed with Has. A Store
// follows the same single-writer model as the IR it annotates: write
// from one goroutine, then read freely.
type Store struct {
	values map[entry]string
}

// NewStore returns an empty attribute store.
func NewStore() *Store {
	return &Store{values: map[entry]string{}}
}

// Set associates value with (entity, key), replacing any previous
// value.
func (s *Store) Set(entity uint64, key Key, value string) {
	s.values[entry{entity, key}] = value
}

// SetFlag marks (entity, key) present with an empty value.
func (s *Store) SetFlag(entity uint64, key Key) {
	s.Set(entity, key, "")
}

// Get returns the value stored for (entity, key) and whether one is
// present.
func (s *Store) Get(entity uint64, key Key) (string, bool) {
	v, ok := s.values[entry{entity, key}]
	return v, ok
}

// Has reports whether (entity, key) is present.
func (s *Store) Has(entity uint64, key Key) bool {
	_, ok := s.values[entry{entity, key}]
	return ok
}

// Del removes (entity, key) if present.
func (s *Store) Del(entity uint64, key Key) {
	delete(s.values, entry{entity, key})
}

// Keys returns the keys present for the entity in sorted order.
func (s *Store) Keys(entity uint64) []Key {
	var keys []Key
	for e := range s.values {
		if e.entity == entity {
			keys = append(keys, e.key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of stored attributes across all entities.
func (s *Store) Len() int {
	return len(s.values)
}

// Package property implements the shared property set passed between
// transpiler passes within one run. Keys are created by whichever pass first
// writes them; there is no schema. Values are arbitrary, with typed
// accessors for the payload kinds the built-in analyses produce.
package property

import "sort"

// Set maps property names to values computed by analysis passes. A Set
// lives for the duration of one pass-framework run and is not safe for
// concurrent use.
type Set struct {
	values map[string]any

	// Keys written since the last ResetWrites, used by the framework to
	// tell freshly produced properties from stale ones during invalidation.
	written map[string]bool
}

// NewSet creates an empty property set.
func NewSet() *Set {
	return &Set{
		values:  make(map[string]any),
		written: make(map[string]bool),
	}
}

// Set stores a value under the key, creating the key on first write.
func (s *Set) Set(key string, value any) {
	s.values[key] = value
	s.written[key] = true
}

// Get returns the value and whether the key exists.
func (s *Set) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether the key exists.
func (s *Set) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Delete removes the key. Deleting an absent key is a no-op.
func (s *Set) Delete(key string) {
	delete(s.values, key)
	delete(s.written, key)
}

// Keys returns all present keys, sorted.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of present keys.
func (s *Set) Len() int { return len(s.values) }

// ResetWrites clears the record of written keys. The framework calls it
// before each pass execution.
func (s *Set) ResetWrites() {
	s.written = make(map[string]bool)
}

// Written reports whether the key has been written since the last
// ResetWrites.
func (s *Set) Written(key string) bool { return s.written[key] }

// Int returns the value as an int, with ok false if the key is absent or
// holds another type.
func (s *Set) Int(key string) (int, bool) {
	v, ok := s.values[key].(int)
	return v, ok
}

// Float returns the value as a float64.
func (s *Set) Float(key string) (float64, bool) {
	v, ok := s.values[key].(float64)
	return v, ok
}

// String returns the value as a string.
func (s *Set) String(key string) (string, bool) {
	v, ok := s.values[key].(string)
	return v, ok
}

// Bool returns the value as a bool.
func (s *Set) Bool(key string) (bool, bool) {
	v, ok := s.values[key].(bool)
	return v, ok
}

// Counts returns the value as a name histogram, the payload shape of
// operation-count analyses.
func (s *Set) Counts(key string) (map[string]int, bool) {
	v, ok := s.values[key].(map[string]int)
	return v, ok
}

// As returns the value under key as T. It covers payload types the fixed
// accessors do not, such as the node list a path analysis publishes.
func As[T any](s *Set, key string) (T, bool) {
	v, ok := s.values[key].(T)
	return v, ok
}

// Package maputil provides helpers for working with string-keyed maps.
package maputil

import (
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
// A nil or empty map yields an empty, non-nil slice.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// KeyPartition is the result of comparing the key sets of two maps.
// Every key of either map appears in exactly one of the three lists,
// and each list is sorted.
type KeyPartition struct {
	// Added holds keys present only in the target map
	Added []string
	// Removed holds keys present only in the source map
	Removed []string
	// Common holds keys present in both maps
	Common []string
}

// CompareKeys partitions the keys of source and target into added, removed
// and common keys. A key is present when it exists in the map, regardless of
// its value: an explicit nil value counts as present.
func CompareKeys[V any](source, target map[string]V) KeyPartition {
	p := KeyPartition{
		Added:   make([]string, 0),
		Removed: make([]string, 0),
		Common:  make([]string, 0),
	}

	for _, key := range SortedKeys(target) {
		if _, ok := source[key]; ok {
			p.Common = append(p.Common, key)
		} else {
			p.Added = append(p.Added, key)
		}
	}

	for _, key := range SortedKeys(source) {
		if _, ok := target[key]; !ok {
			p.Removed = append(p.Removed, key)
		}
	}

	return p
}

// Empty reports whether both maps had no keys at all.
func (p KeyPartition) Empty() bool {
	return len(p.Added) == 0 && len(p.Removed) == 0 && len(p.Common) == 0
}

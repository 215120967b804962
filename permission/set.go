package permission

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPermissionQuery is returned when a permission name list contains
// blank entries.
var ErrInvalidPermissionQuery = errors.New("invalid permission query")

// Set is an ordered sequence of permission names.
type Set []string

// Clone returns a copy of s that shares no backing array. Clone keeps the
// nil/empty distinction.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Has reports whether name is an element of s.
func (s Set) Has(name string) bool {
	for _, p := range s {
		if p == name {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of names is in s. An empty s never
// matches.
func (s Set) HasAny(names ...string) bool {
	if len(s) == 0 {
		return false
	}
	for _, name := range names {
		if s.Has(name) {
			return true
		}
	}
	return false
}

// HasAll reports whether every element of names is in s. It is vacuously
// true for an empty names list.
func (s Set) HasAll(names ...string) bool {
	if len(names) == 0 {
		return true
	}
	if len(s) == 0 {
		return false
	}

	index := make(map[string]struct{}, len(s))
	for _, p := range s {
		index[p] = struct{}{}
	}
	for _, name := range names {
		if _, ok := index[name]; !ok {
			return false
		}
	}
	return true
}

// ValidateNames rejects blank permission names.
func ValidateNames(names ...string) error {
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: blank name at index %d", ErrInvalidPermissionQuery, i)
		}
	}
	return nil
}

// MustValidNames panics when ValidateNames fails. It is meant for wiring-time
// checks such as route guard construction.
func MustValidNames(names ...string) []string {
	if err := ValidateNames(names...); err != nil {
		panic(err)
	}
	return names
}

// Package session holds the state of one bill-splitting session: the
// participants, the extracted items with their assignments and the order
// metadata. A Session is owned by a single caller and is not safe for
// concurrent use.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrEmptyName is returned when a participant name is blank after trimming.
	ErrEmptyName = errors.New("participant name cannot be empty")

	// ErrParticipantIndex is returned when removing a participant that does not exist.
	ErrParticipantIndex = errors.New("participant index out of range")
)

// Registry is the ordered set of people who can be assigned to items.
// Names are unique (case-sensitive) and keep their insertion order, which is
// also the column order of the ledger.
type Registry struct {
	names []string
}

// NewRegistry creates a registry holding the given names. Blank names and
// duplicates are skipped.
func NewRegistry(names ...string) *Registry {
	r := &Registry{}
	for _, n := range names {
		_, _ = r.Add(n)
	}
	return r
}

// Add appends a participant. It reports whether the name was added; adding a
// name that is already present is a no-op.
func (r *Registry) Add(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrEmptyName
	}
	if r.Contains(name) {
		return false, nil
	}
	r.names = append(r.names, name)
	return true, nil
}

// Remove deletes the participant at index and returns its name.
func (r *Registry) Remove(index int) (string, error) {
	if index < 0 || index >= len(r.names) {
		return "", fmt.Errorf("%w: %d (have %d)", ErrParticipantIndex, index, len(r.names))
	}
	name := r.names[index]
	r.names = slices.Delete(r.names, index, index+1)
	return name, nil
}

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	return slices.Contains(r.names, name)
}

// Index returns the position of name, or -1.
func (r *Registry) Index(name string) int {
	return slices.Index(r.names, name)
}

// Len returns the number of participants.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns a copy of the participant names in insertion order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

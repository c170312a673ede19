// Package idgen abstracts id generation behind a provider interface so
// domain factories are not tied to a specific runtime API.
// This is part of the platform layer and contains no business logic.
package idgen

import (
	"strconv"

	"github.com/google/uuid"
)

// Provider generates unique identifiers for domain records.
type Provider interface {
	NewID() string
}

// UUID is the default Provider backed by random UUIDv4.
type UUID struct{}

// NewID returns a new random UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence is a deterministic Provider for tests: ids are "prefix-1",
// "prefix-2", and so on.
type Sequence struct {
	Prefix string
	n      int
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID() string {
	s.n++
	if s.Prefix == "" {
		s.Prefix = "id"
	}
	return s.Prefix + "-" + strconv.Itoa(s.n)
}

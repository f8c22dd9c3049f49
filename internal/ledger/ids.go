package ledger

import (
	"strconv"

	"github.com/google/uuid"
)

// IDSource mints ids for new entities. Injected rather than called
// ambiently so tests can use a deterministic sequence.
type IDSource interface {
	NewID() string
}

// UUIDSource is the production IDSource.
type UUIDSource struct{}

func (UUIDSource) NewID() string { return uuid.NewString() }

// SequenceSource yields prefix-1, prefix-2, ... for tests.
type SequenceSource struct {
	Prefix string
	n      int
}

func (s *SequenceSource) NewID() string {
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return prefix + "-" + strconv.Itoa(s.n)
}

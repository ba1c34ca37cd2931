// Package registry holds point-in-time views of the member registry.
package registry

import (
	"time"

	"github.com/google/uuid"

	"hansard/internal/domain"
)

// Snapshot is an immutable view of the member registry taken at one instant.
// It is safe for concurrent access. Parse time and persist time each use their
// own Snapshot; the two may disagree about member ids.
type Snapshot struct {
	takenAt time.Time
	members []domain.Member
	byID    map[uuid.UUID]int
}

// NewSnapshot builds a Snapshot from members loaded from the registry. The
// slice is copied, so later changes by the caller are not observed.
func NewSnapshot(members []domain.Member, takenAt time.Time) *Snapshot {
	cp := make([]domain.Member, len(members))
	copy(cp, members)
	byID := make(map[uuid.UUID]int, len(cp))
	for i := range cp {
		if _, dup := byID[cp[i].ID]; !dup {
			byID[cp[i].ID] = i
		}
	}
	return &Snapshot{takenAt: takenAt, members: cp, byID: byID}
}

// TakenAt returns when the snapshot was read from the registry.
func (s *Snapshot) TakenAt() time.Time { return s.takenAt }

// Len returns the number of members in the snapshot.
func (s *Snapshot) Len() int { return len(s.members) }

// Members returns the members in registry order. Callers must not modify the result.
func (s *Snapshot) Members() []domain.Member { return s.members }

// Get returns the member with the given id, if present.
func (s *Snapshot) Get(id uuid.UUID) (domain.Member, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Member{}, false
	}
	return s.members[i], true
}

// Contains reports whether id is a member id in this snapshot.
func (s *Snapshot) Contains(id uuid.UUID) bool {
	_, ok := s.byID[id]
	return ok
}

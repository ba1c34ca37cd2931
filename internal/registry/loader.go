package registry

import (
	"context"
	"fmt"
	"time"

	"hansard/internal/domain"
	"hansard/internal/port"
)

// Loader reads fresh snapshots from the member repository.
type Loader struct {
	repo port.MemberRepository
	now  func() time.Time
}

// NewLoader creates a Loader. now may be nil, in which case time.Now is used.
func NewLoader(repo port.MemberRepository, now func() time.Time) *Loader {
	if now == nil {
		now = time.Now
	}
	return &Loader{repo: repo, now: now}
}

// Load reads every member and returns a new Snapshot stamped with the read time.
// An empty registry is an error: nothing could ever resolve against it.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	members, err := l.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry.Load: %w", err)
	}
	if len(members) == 0 {
		return nil, domain.ErrEmptyRegistry
	}
	return NewSnapshot(members, l.now().UTC()), nil
}

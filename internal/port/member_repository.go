package port

import (
	"context"

	"github.com/google/uuid"

	"hansard/internal/domain"
)

// MemberRepository defines read access to the member registry.
// LoadAll may be called more than once per run; successive calls can differ.
type MemberRepository interface {
	LoadAll(ctx context.Context) ([]domain.Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	List(ctx context.Context, offset, limit int) ([]domain.Member, int, error)
}

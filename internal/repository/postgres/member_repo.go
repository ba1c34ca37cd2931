package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hansard/internal/domain"
	"hansard/internal/port"
)

const memberColumns = `id, name, constituency, party, sessions_spoken, total_speech_instances, updated_at`

type memberRepo struct {
	db *sqlx.DB
}

// NewMemberRepo creates a new PostgreSQL-backed MemberRepository.
func NewMemberRepo(db *sqlx.DB) port.MemberRepository {
	return &memberRepo{db: db}
}

// LoadAll returns the registry in a stable order, so that "first in registry
// order" means the same thing on every load.
func (r *memberRepo) LoadAll(ctx context.Context) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.SelectContext(ctx, &members,
		`SELECT `+memberColumns+` FROM members ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("memberRepo.LoadAll: %w", err)
	}
	return members, nil
}

func (r *memberRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	var m domain.Member
	err := r.db.GetContext(ctx, &m, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("memberRepo.GetByID: %w", err)
	}
	return &m, nil
}

func (r *memberRepo) List(ctx context.Context, offset, limit int) ([]domain.Member, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM members"); err != nil {
		return nil, 0, fmt.Errorf("memberRepo.List count: %w", err)
	}

	var members []domain.Member
	err := r.db.SelectContext(ctx, &members,
		`SELECT `+memberColumns+` FROM members
		 ORDER BY total_speech_instances DESC, name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("memberRepo.List: %w", err)
	}
	return members, total, nil
}

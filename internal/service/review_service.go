package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"hansard/internal/domain"
	"hansard/internal/port"
)

// SessionDetail is a stored session with everything attributed to it.
type SessionDetail struct {
	Session    *domain.Session           `json:"session"`
	Speakers   []domain.SpeakerRecord    `json:"speakers"`
	Instances  []domain.SpeakingInstance `json:"instances"`
	Attendance []domain.AttendanceRef    `json:"attendance"`
}

// ReviewService provides read access to stored sessions and the diagnostics
// operators review.
type ReviewService interface {
	ListSessions(ctx context.Context, offset, limit int) ([]domain.Session, int, error)
	GetSession(ctx context.Context, id uuid.UUID) (*SessionDetail, error)
	ListSpeakers(ctx context.Context, sessionID uuid.UUID) ([]domain.SpeakerRecord, error)
	ListMembers(ctx context.Context, offset, limit int) ([]domain.Member, int, error)
	GetMember(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	ListUnmatched(ctx context.Context, offset, limit int) ([]domain.StoredUnmatchedSpeaker, int, error)
	ListReconciliations(ctx context.Context, flaggedOnly bool, offset, limit int) ([]domain.ReconciliationEvent, int, error)
}

type reviewService struct {
	sessions port.SessionQueryRepository
	members  port.MemberRepository
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(sessions port.SessionQueryRepository, members port.MemberRepository) ReviewService {
	return &reviewService{sessions: sessions, members: members}
}

func (s *reviewService) ListSessions(ctx context.Context, offset, limit int) ([]domain.Session, int, error) {
	return s.sessions.List(ctx, offset, limit)
}

func (s *reviewService) GetSession(ctx context.Context, id uuid.UUID) (*SessionDetail, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	speakers, err := s.sessions.ListSpeakers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reviewService.GetSession: %w", err)
	}
	instances, err := s.sessions.ListInstances(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reviewService.GetSession: %w", err)
	}
	attendance, err := s.sessions.ListAttendance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reviewService.GetSession: %w", err)
	}
	return &SessionDetail{Session: sess, Speakers: speakers, Instances: instances, Attendance: attendance}, nil
}

func (s *reviewService) ListSpeakers(ctx context.Context, sessionID uuid.UUID) ([]domain.SpeakerRecord, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.sessions.ListSpeakers(ctx, sessionID)
}

func (s *reviewService) ListMembers(ctx context.Context, offset, limit int) ([]domain.Member, int, error) {
	return s.members.List(ctx, offset, limit)
}

func (s *reviewService) GetMember(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	return s.members.GetByID(ctx, id)
}

func (s *reviewService) ListUnmatched(ctx context.Context, offset, limit int) ([]domain.StoredUnmatchedSpeaker, int, error) {
	return s.sessions.ListUnmatched(ctx, offset, limit)
}

func (s *reviewService) ListReconciliations(ctx context.Context, flaggedOnly bool, offset, limit int) ([]domain.ReconciliationEvent, int, error) {
	return s.sessions.ListReconciliations(ctx, flaggedOnly, offset, limit)
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hansard/internal/domain"
	"hansard/internal/service"
	"hansard/mocks"
)

func TestReviewService_GetSession(t *testing.T) {
	sessions := new(mocks.MockSessionQueryRepo)
	svc := service.NewReviewService(sessions, new(mocks.MockMemberRepo))
	id := uuid.New()
	member := uuid.New()

	sessions.On("GetByID", mock.Anything, id).Return(&domain.Session{ID: id, SessionNumber: "DR-12032024"}, nil)
	sessions.On("ListSpeakers", mock.Anything, id).Return([]domain.SpeakerRecord{{MemberID: member, SpeakingOrder: 1}}, nil)
	sessions.On("ListInstances", mock.Anything, id).Return([]domain.SpeakingInstance{{MemberID: member, InstanceNumber: 1}}, nil)
	sessions.On("ListAttendance", mock.Anything, id).Return([]domain.AttendanceRef{{Constituency: "Tambun", Present: true}}, nil)

	detail, err := svc.GetSession(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "DR-12032024", detail.Session.SessionNumber)
	assert.Len(t, detail.Speakers, 1)
	assert.Len(t, detail.Instances, 1)
	assert.Len(t, detail.Attendance, 1)
}

func TestReviewService_GetSessionNotFound(t *testing.T) {
	sessions := new(mocks.MockSessionQueryRepo)
	svc := service.NewReviewService(sessions, new(mocks.MockMemberRepo))
	id := uuid.New()
	sessions.On("GetByID", mock.Anything, id).Return(nil, domain.ErrSessionNotFound)

	_, err := svc.GetSession(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.ListSpeakers(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	sessions.AssertNotCalled(t, "ListSpeakers", mock.Anything, mock.Anything)
}

func TestReviewService_GetSessionPartFails(t *testing.T) {
	sessions := new(mocks.MockSessionQueryRepo)
	svc := service.NewReviewService(sessions, new(mocks.MockMemberRepo))
	id := uuid.New()
	sessions.On("GetByID", mock.Anything, id).Return(&domain.Session{ID: id}, nil)
	sessions.On("ListSpeakers", mock.Anything, id).Return(nil, errors.New("timeout"))

	_, err := svc.GetSession(context.Background(), id)
	assert.ErrorContains(t, err, "timeout")
}

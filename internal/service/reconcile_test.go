package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"hansard/internal/domain"
	"hansard/internal/registry"
	"hansard/internal/service"
)

func TestReconcileID(t *testing.T) {
	john := domain.Member{ID: uuid.New(), Name: "John Tan", Constituency: "Kota Bharu"}
	current := registry.NewSnapshot([]domain.Member{john}, time.Now())

	t.Run("unchanged", func(t *testing.T) {
		ev := service.ReconcileID("John Tan", john.ID, current)
		assert.Equal(t, domain.ReconcileUnchanged, ev.Outcome)
		assert.Equal(t, john.ID, ev.ResolvedID)
		assert.False(t, ev.Flagged)
	})

	t.Run("corrected after reseed", func(t *testing.T) {
		stale := uuid.New()
		ev := service.ReconcileID("John Tan", stale, current)
		assert.Equal(t, domain.ReconcileCorrected, ev.Outcome)
		assert.Equal(t, stale, ev.CapturedID)
		assert.Equal(t, john.ID, ev.ResolvedID)
		assert.False(t, ev.Flagged)
		assert.Equal(t, domain.ReferenceSpeaker, ev.Kind)
	})

	t.Run("fallback keeps captured id", func(t *testing.T) {
		gone := uuid.New()
		ev := service.ReconcileID("Retired Member", gone, current)
		assert.Equal(t, domain.ReconcileFallback, ev.Outcome)
		assert.Equal(t, gone, ev.ResolvedID)
		assert.True(t, ev.Flagged)
	})
}

func TestReconciler_Attendance(t *testing.T) {
	siti := domain.Member{ID: uuid.New(), Name: "Siti Aminah", Constituency: "Sungai Petani"}
	r := service.NewReconciler(registry.NewSnapshot([]domain.Member{siti}, time.Now()))

	ev := r.Attendance("Sungai Petani", uuid.New())
	assert.Equal(t, domain.ReconcileCorrected, ev.Outcome)
	assert.Equal(t, siti.ID, ev.ResolvedID)
	assert.Equal(t, domain.ReferenceAttendance, ev.Kind)

	// A member name is not a roster key.
	ev = r.Attendance("Siti Aminah", siti.ID)
	assert.Equal(t, domain.ReconcileFallback, ev.Outcome)
}

package service

import (
	"github.com/google/uuid"

	"hansard/internal/domain"
	"hansard/internal/hansard"
	"hansard/internal/registry"
	"hansard/internal/resolver"
)

// ReconcileID re-resolves a member id captured at parse time against the
// current registry snapshot by the captured name.
//
// If the name resolves, the current id is returned as ResolvedID and the
// outcome is unchanged or corrected. If it does not, the captured id is kept
// and the event is flagged for review.
func ReconcileID(capturedName string, capturedID uuid.UUID, current *registry.Snapshot, opts ...resolver.Option) domain.ReconciliationEvent {
	return NewReconciler(current, opts...).Speaker(capturedName, capturedID)
}

// Reconciler reconciles many references against one current snapshot.
type Reconciler struct {
	cascade *resolver.Cascade
}

// NewReconciler indexes current for reconciliation.
func NewReconciler(current *registry.Snapshot, opts ...resolver.Option) *Reconciler {
	return &Reconciler{cascade: resolver.New(current, opts...)}
}

// Speaker reconciles a speaker reference by name.
func (r *Reconciler) Speaker(name string, capturedID uuid.UUID) domain.ReconciliationEvent {
	m, ok := r.cascade.Resolve(name, "")
	return r.event(domain.ReferenceSpeaker, name, capturedID, m, ok)
}

// Attendance reconciles a roster reference by constituency, the key it was
// captured by.
func (r *Reconciler) Attendance(constituency string, capturedID uuid.UUID) domain.ReconciliationEvent {
	m, ok := r.cascade.ByConstituency(constituency)
	return r.event(domain.ReferenceAttendance, constituency, capturedID, m, ok)
}

// Member returns the current registry entry for id.
func (r *Reconciler) Member(id uuid.UUID) (domain.Member, bool) {
	return r.cascade.Snapshot().Get(id)
}

func (r *Reconciler) event(kind domain.ReferenceKind, name string, capturedID uuid.UUID, m *domain.Member, ok bool) domain.ReconciliationEvent {
	ev := domain.ReconciliationEvent{
		Kind:       kind,
		Name:       name,
		CapturedID: capturedID,
		ResolvedID: capturedID,
		Outcome:    domain.ReconcileFallback,
		Flagged:    true,
	}
	if !ok {
		return ev
	}
	ev.ResolvedID = m.ID
	ev.Flagged = false
	ev.Outcome = domain.ReconcileUnchanged
	if m.ID != capturedID {
		ev.Outcome = domain.ReconcileCorrected
	}
	return ev
}

// reconciledSession is a parsed session rewritten onto current ids.
type reconciledSession struct {
	session *domain.ParsedSession
	events  []domain.ReconciliationEvent
	// fallbackIDs are ids kept without a current registry entry behind them.
	fallbackIDs map[uuid.UUID]struct{}
}

// reconcileSession returns a copy of ps whose member ids are current.
//
// Two captured speakers may collapse onto one current member. Their records
// are merged and speaking orders and instance numbers recomputed in document
// order, so the result satisfies the same ordering rules as a fresh parse.
func reconcileSession(ps *domain.ParsedSession, r *Reconciler) reconciledSession {
	out := *ps
	rs := reconciledSession{session: &out, fallbackIDs: make(map[uuid.UUID]struct{})}

	mapped := make(map[uuid.UUID]uuid.UUID, len(ps.Speakers))
	for _, s := range ps.Speakers {
		ev := r.Speaker(s.Name, s.MemberID)
		mapped[s.MemberID] = ev.ResolvedID
		rs.note(ev)
	}

	order := make(map[uuid.UUID]int)
	counts := make(map[uuid.UUID]int)
	out.Speakers = make([]domain.SpeakerRecord, 0, len(ps.Speakers))
	out.Instances = make([]domain.SpeakingInstance, 0, len(ps.Instances))
	for _, in := range ps.Instances {
		id, ok := mapped[in.MemberID]
		if !ok {
			id = in.MemberID
		}
		name, constituency := in.Name, in.Constituency
		if m, ok := r.Member(id); ok {
			name, constituency = m.Name, m.Constituency
		}
		if _, seen := order[id]; !seen {
			order[id] = len(out.Speakers) + 1
			out.Speakers = append(out.Speakers, domain.SpeakerRecord{
				MemberID:      id,
				Name:          name,
				Constituency:  constituency,
				SpeakingOrder: order[id],
			})
		}
		counts[id]++
		out.Instances = append(out.Instances, domain.SpeakingInstance{
			MemberID:       id,
			Name:           name,
			Constituency:   constituency,
			InstanceNumber: counts[id],
			LineNumber:     in.LineNumber,
		})
	}

	out.Attendance = reconcileAttendance(ps.Attendance, r, &rs)
	return rs
}

// reconcileAttendance re-resolves every roster constituency, including those
// that did not resolve at parse time. A constituency that no longer resolves
// drops its captured id and is stored without a member.
func reconcileAttendance(a domain.AttendanceResult, r *Reconciler, rs *reconciledSession) domain.AttendanceResult {
	captured := make(map[string]uuid.UUID, len(a.Refs))
	for _, ref := range a.Refs {
		captured[ref.Constituency] = ref.MemberID
	}

	out := a
	out.Refs = make([]domain.AttendanceRef, 0, len(a.Refs))
	out.Unresolved = nil
	walk := func(names []string, present bool) {
		for _, c := range names {
			ev := r.Attendance(c, captured[c])
			if ev.Outcome == domain.ReconcileFallback {
				ev.ResolvedID = uuid.Nil
				out.Unresolved = append(out.Unresolved, c)
				if ev.CapturedID != uuid.Nil {
					rs.events = append(rs.events, ev)
				}
				continue
			}
			if ev.Outcome != domain.ReconcileUnchanged {
				rs.events = append(rs.events, ev)
			}
			out.Refs = append(out.Refs, domain.AttendanceRef{Constituency: c, MemberID: ev.ResolvedID, Present: present})
		}
	}
	walk(a.AttendedConstituencies, true)
	walk(a.AbsentConstituencies, false)
	out.AttendedMemberIDs, out.AbsentMemberIDs = hansard.AttendanceSets(out.Refs)
	return out
}

// note keeps every event that is not a plain confirmation.
func (rs *reconciledSession) note(ev domain.ReconciliationEvent) {
	if ev.Outcome == domain.ReconcileUnchanged {
		return
	}
	if ev.Outcome == domain.ReconcileFallback {
		rs.fallbackIDs[ev.ResolvedID] = struct{}{}
	}
	rs.events = append(rs.events, ev)
}

func (rs *reconciledSession) count(outcome domain.ReconcileOutcome) int {
	n := 0
	for _, ev := range rs.events {
		if ev.Outcome == outcome {
			n++
		}
	}
	return n
}

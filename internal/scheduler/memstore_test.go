package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/training-session-scheduler/internal/model"
	"github.com/iliyamo/training-session-scheduler/internal/repository"
)

// In-memory fakes implementing the orchestrator's store interfaces with the
// same error contract as the repository layer, so the whole engine runs in
// tests without MySQL.

// stubRand makes random choices deterministic: Intn always picks the first
// element and Shuffle leaves order untouched.
type stubRand struct{}

func (stubRand) Intn(n int) int                     { return 0 }
func (stubRand) Shuffle(n int, swap func(i, j int)) {}

type memPrefs struct {
	prefs []model.Preference
	err   error
}

func (m *memPrefs) ListByWeek(ctx context.Context, weekStart time.Time) ([]model.Preference, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.prefs, nil
}

type memHalls struct {
	halls    []model.Hall
	failures int // number of leading calls that error
	err      error
}

func (m *memHalls) ListActive(ctx context.Context) ([]model.Hall, error) {
	if m.failures > 0 {
		m.failures--
		return nil, m.err
	}
	out := make([]model.Hall, len(m.halls))
	copy(out, m.halls)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type memTrainers struct {
	trainers []model.Trainer
	failures int
	err      error
}

func (m *memTrainers) ListActive(ctx context.Context) ([]model.Trainer, error) {
	if m.failures > 0 {
		m.failures--
		return nil, m.err
	}
	out := make([]model.Trainer, len(m.trainers))
	copy(out, m.trainers)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memSessions struct {
	nextID      uint64
	items       map[uint64]*model.Session
	assignments *memAssignments
	createErr   error
	cancelErr   error
}

func newMemSessions() *memSessions {
	return &memSessions{items: make(map[uint64]*model.Session)}
}

func (m *memSessions) SlotClaims(ctx context.Context, weekStart time.Time) ([]repository.SlotClaim, error) {
	var claims []repository.SlotClaim
	for _, s := range m.items {
		if s.Status == model.SessionCancelled || !s.WeekStart.Equal(weekStart) {
			continue
		}
		claims = append(claims, repository.SlotClaim{
			SessionID: s.ID,
			HallID:    s.HallID,
			TrainerID: s.TrainerID,
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Status:    s.Status,
			Capacity:  s.Capacity,
		})
	}
	return claims, nil
}

func (m *memSessions) ListActive(ctx context.Context, weekStart time.Time) ([]model.Session, error) {
	var out []model.Session
	for _, s := range m.items {
		if s.Status == model.SessionCancelled || !s.WeekStart.Equal(weekStart) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memSessions) Create(ctx context.Context, s *model.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	// Mirror the unique keys on (week, slot, hall) and (week, slot, trainer).
	for _, ex := range m.items {
		if ex.Status == model.SessionCancelled || !ex.WeekStart.Equal(s.WeekStart) {
			continue
		}
		if ex.DayOfWeek == s.DayOfWeek && ex.StartTime == s.StartTime && ex.EndTime == s.EndTime &&
			(ex.HallID == s.HallID || ex.TrainerID == s.TrainerID) {
			return repository.ErrConflict
		}
	}
	m.nextID++
	s.ID = m.nextID
	s.Status = model.SessionScheduled
	cp := *s
	m.items[s.ID] = &cp
	return nil
}

func (m *memSessions) CancelScheduled(ctx context.Context, weekStart time.Time) (int64, error) {
	if m.cancelErr != nil {
		return 0, m.cancelErr
	}
	var n int64
	for _, s := range m.items {
		if s.Status != model.SessionScheduled || !s.WeekStart.Equal(weekStart) {
			continue
		}
		s.Status = model.SessionCancelled
		n++
		if m.assignments != nil {
			m.assignments.cancelForSession(s.ID)
		}
	}
	return n, nil
}

type memAssignments struct {
	sessions  *memSessions
	nextID    uint64
	items     []*model.Assignment
	assignErr error
}

func newMemAssignments(sessions *memSessions) *memAssignments {
	a := &memAssignments{sessions: sessions}
	sessions.assignments = a
	return a
}

func (m *memAssignments) Assign(ctx context.Context, sessionID, memberID uint64) error {
	if m.assignErr != nil {
		return m.assignErr
	}
	ses, ok := m.sessions.items[sessionID]
	if !ok {
		return repository.ErrSessionNotFound
	}
	if ses.Status == model.SessionCancelled {
		return repository.ErrConflict
	}
	active := 0
	for _, a := range m.items {
		if a.SessionID != sessionID || !model.ActiveAssignmentStatus(a.Status) {
			continue
		}
		if a.MemberID == memberID {
			return repository.ErrConflict
		}
		active++
	}
	if active >= int(ses.Capacity) {
		return repository.ErrCapacityExceeded
	}
	m.nextID++
	m.items = append(m.items, &model.Assignment{
		ID:        m.nextID,
		SessionID: sessionID,
		MemberID:  memberID,
		Status:    model.AssignmentAssigned,
	})
	return nil
}

func (m *memAssignments) ActiveCount(ctx context.Context, sessionID uint64) (int, error) {
	n := 0
	for _, a := range m.items {
		if a.SessionID == sessionID && model.ActiveAssignmentStatus(a.Status) {
			n++
		}
	}
	return n, nil
}

func (m *memAssignments) ActiveMemberSlots(ctx context.Context, weekStart time.Time) ([]repository.MemberSlot, error) {
	var out []repository.MemberSlot
	for _, a := range m.items {
		if !model.ActiveAssignmentStatus(a.Status) {
			continue
		}
		ses, ok := m.sessions.items[a.SessionID]
		if !ok || !ses.WeekStart.Equal(weekStart) {
			continue
		}
		out = append(out, repository.MemberSlot{
			MemberID:  a.MemberID,
			DayOfWeek: ses.DayOfWeek,
			StartTime: ses.StartTime,
			EndTime:   ses.EndTime,
		})
	}
	return out, nil
}

func (m *memAssignments) cancelForSession(sessionID uint64) {
	for _, a := range m.items {
		if a.SessionID == sessionID && model.ActiveAssignmentStatus(a.Status) {
			a.Status = model.AssignmentCancelled
		}
	}
}

// activeMembers returns the member ids with an active assignment in the
// session, sorted for stable assertions.
func (m *memAssignments) activeMembers(sessionID uint64) []uint64 {
	var ids []uint64
	for _, a := range m.items {
		if a.SessionID == sessionID && model.ActiveAssignmentStatus(a.Status) {
			ids = append(ids, a.MemberID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// testWeek is a known Monday used by all fixtures.
var testWeek = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func pref(id, member uint64, day uint8, start, end, tier string, trainer *uint64) model.Preference {
	return model.Preference{
		ID:                 id,
		MemberID:           member,
		WeekStart:          testWeek,
		DayOfWeek:          day,
		StartTime:          start,
		EndTime:            end,
		Tier:               tier,
		PreferredTrainerID: trainer,
	}
}

func trainerRef(id uint64) *uint64 { return &id }

// newTestOrchestrator wires an orchestrator over fresh fakes.
func newTestOrchestrator(prefs []model.Preference, halls []model.Hall, trainers []model.Trainer,
	minBucket int, minHall uint32, rnd Rand,
) (*Orchestrator, *memSessions, *memAssignments) {
	sessions := newMemSessions()
	assignments := newMemAssignments(sessions)
	o := NewOrchestrator(
		&memPrefs{prefs: prefs},
		&memHalls{halls: halls},
		&memTrainers{trainers: trainers},
		sessions, assignments,
		minBucket, minHall, rnd, zerolog.Nop(),
	)
	return o, sessions, assignments
}

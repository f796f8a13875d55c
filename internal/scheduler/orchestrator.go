package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/training-session-scheduler/internal/model"
	"github.com/iliyamo/training-session-scheduler/internal/repository"
)

// catalogRetries bounds the re-reads of the hall/trainer catalogs before a
// pass gives up.  Catalog reads are read-only, so retrying is safe.
const catalogRetries = 3

// Orchestrator sequences the scheduling pipeline: retraction of
// still-retractable sessions, ledger seeding, aggregation, matching and
// allocation for the initial pass, and the separate adjustment pass.  All
// collaborators are interfaces so the whole engine runs against in-memory
// fakes in tests.
type Orchestrator struct {
	Prefs       PreferenceSource
	Halls       HallCatalog
	Trainers    TrainerCatalog
	Sessions    SessionStore
	Assignments AssignmentStore

	MinBucketSize   int
	MinHallCapacity uint32
	Rand            Rand
	Log             zerolog.Logger
}

// NewOrchestrator wires an Orchestrator and panics if any dependency is
// nil, mirroring the handler constructors: a missing collaborator is a
// programming error, not a runtime condition.
func NewOrchestrator(prefs PreferenceSource, halls HallCatalog, trainers TrainerCatalog,
	sessions SessionStore, assignments AssignmentStore,
	minBucketSize int, minHallCapacity uint32, rnd Rand, log zerolog.Logger,
) *Orchestrator {
	if prefs == nil || halls == nil || trainers == nil || sessions == nil || assignments == nil || rnd == nil {
		panic("nil dependency passed to NewOrchestrator")
	}
	if minBucketSize < 1 {
		minBucketSize = 1
	}
	if minHallCapacity < 1 {
		minHallCapacity = 1
	}
	return &Orchestrator{
		Prefs:           prefs,
		Halls:           halls,
		Trainers:        trainers,
		Sessions:        sessions,
		Assignments:     assignments,
		MinBucketSize:   minBucketSize,
		MinHallCapacity: minHallCapacity,
		Rand:            rnd,
		Log:             log,
	}
}

// Run executes the initial scheduling pass for the week containing
// weekStart.  Re-running is safe: sessions still in SCHEDULED status are
// retracted (their assignments cancelled) and regenerated, while sessions
// already IN_PROGRESS or COMPLETED keep their hall, trainer and member
// claims, which seed the reservation ledger so regeneration schedules
// around them.  Store failures abort the pass; per-bucket resource
// shortages only skip the bucket.
func (o *Orchestrator) Run(ctx context.Context, weekStart time.Time, actorID uint64) (*RunSummary, error) {
	week := NormalizeWeekStart(weekStart)
	summary := &RunSummary{
		WeekStart:    week.Format("2006-01-02"),
		ActorID:      actorID,
		SlotsSkipped: []SkippedSlot{},
	}
	log := o.Log.With().Str("week_start", summary.WeekStart).Uint64("actor_id", actorID).Logger()

	retracted, err := o.Sessions.CancelScheduled(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("retract scheduled sessions: %w", err)
	}
	summary.SessionsRetracted = retracted
	if retracted > 0 {
		log.Info().Int64("sessions", retracted).Msg("retracted previously scheduled sessions")
	}

	led, err := o.seedLedger(ctx, week)
	if err != nil {
		return nil, err
	}

	prefs, err := o.Prefs.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	agg := &Aggregator{MinBucketSize: o.MinBucketSize, Log: log}
	buckets := agg.Buckets(prefs)
	log.Info().Int("preferences", len(prefs)).Int("buckets", len(buckets)).Msg("aggregated demand")

	halls, trainers, err := o.loadCatalogs(ctx)
	if err != nil {
		return nil, err
	}

	matcher := &Matcher{MinHallCapacity: o.MinHallCapacity, Rand: o.Rand}
	alloc := &Allocator{Rand: o.Rand, Log: log}

	for _, b := range buckets {
		summary.SlotsAttempted++
		hall, trainer, matchErr := matcher.Place(b, halls, trainers, led)
		if matchErr != nil {
			summary.SlotsSkipped = append(summary.SlotsSkipped, skipFor(b, matchErr.Error()))
			summary.MembersUnassigned += len(b.Members)
			log.Info().Uint8("day", b.Slot.Day).Str("start", b.Slot.Start).
				Err(matchErr).Msg("bucket skipped")
			continue
		}

		ses := &model.Session{
			WeekStart: week,
			DayOfWeek: b.Slot.Day,
			StartTime: b.Slot.Start,
			EndTime:   b.Slot.End,
			HallID:    hall.ID,
			TrainerID: trainer.ID,
			Capacity:  hall.Capacity,
			CreatedBy: actorID,
		}
		if createErr := o.Sessions.Create(ctx, ses); createErr != nil {
			if errors.Is(createErr, repository.ErrConflict) {
				// A concurrent writer claimed the hall or trainer for this
				// slot; record the claim and move on.
				led.ClaimHall(b.Slot, hall.ID)
				led.ClaimTrainer(b.Slot, trainer.ID)
				summary.SlotsSkipped = append(summary.SlotsSkipped, skipFor(b, "slot already scheduled"))
				summary.MembersUnassigned += len(b.Members)
				continue
			}
			return nil, fmt.Errorf("create session for slot %d %s-%s: %w",
				b.Slot.Day, b.Slot.Start, b.Slot.End, createErr)
		}
		// Claim both resources before the next bucket so a later bucket in
		// this run can never double-book them.
		led.ClaimHall(b.Slot, hall.ID)
		led.ClaimTrainer(b.Slot, trainer.ID)
		summary.SlotsScheduled++

		assigned, unplaced, fillErr := alloc.Fill(ctx, o.Assignments, ses, b, led)
		if fillErr != nil {
			return nil, fillErr
		}
		summary.MembersAssigned += len(assigned)
		summary.MembersUnassigned += len(unplaced)
		log.Info().Uint64("session_id", ses.ID).Uint64("hall_id", hall.ID).
			Uint64("trainer_id", trainer.ID).Int("assigned", len(assigned)).
			Int("unplaced", len(unplaced)).Msg("session scheduled")
	}

	log.Info().Int("scheduled", summary.SlotsScheduled).
		Int("skipped", len(summary.SlotsSkipped)).
		Int("members_assigned", summary.MembersAssigned).Msg("initial pass complete")
	return summary, nil
}

// seedLedger builds the reservation ledger from everything already
// committed for the week: hall/trainer claims of surviving sessions and
// member-slot claims of their active assignments.
func (o *Orchestrator) seedLedger(ctx context.Context, week time.Time) (*Ledger, error) {
	led := NewLedger()
	claims, err := o.Sessions.SlotClaims(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("load slot claims: %w", err)
	}
	led.SeedClaims(claims)

	memberSlots, err := o.Assignments.ActiveMemberSlots(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("load member slots: %w", err)
	}
	led.SeedMembers(memberSlots)
	return led, nil
}

// loadCatalogs reads the hall and trainer catalogs with a bounded retry.
func (o *Orchestrator) loadCatalogs(ctx context.Context) ([]model.Hall, []model.Trainer, error) {
	var halls []model.Hall
	var trainers []model.Trainer
	var err error
	for attempt := 1; attempt <= catalogRetries; attempt++ {
		if halls == nil {
			if halls, err = o.Halls.ListActive(ctx); err != nil {
				o.Log.Warn().Int("attempt", attempt).Err(err).Msg("hall catalog read failed")
				halls = nil
				continue
			}
		}
		if trainers, err = o.Trainers.ListActive(ctx); err != nil {
			o.Log.Warn().Int("attempt", attempt).Err(err).Msg("trainer catalog read failed")
			continue
		}
		return halls, trainers, nil
	}
	return nil, nil, fmt.Errorf("load resource catalogs: %w", err)
}

// skipFor builds the summary entry for a skipped bucket.
func skipFor(b *Bucket, reason string) SkippedSlot {
	return SkippedSlot{
		DayOfWeek: b.Slot.Day,
		StartTime: b.Slot.Start,
		EndTime:   b.Slot.End,
		Demand:    len(b.Members),
		Reason:    reason,
	}
}

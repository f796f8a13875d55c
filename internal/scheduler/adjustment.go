package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/training-session-scheduler/internal/model"
	"github.com/iliyamo/training-session-scheduler/internal/repository"
)

// Adjust executes the adjustment pass for the week containing weekStart:
// every non-cancelled session with free capacity is backfilled from the
// remaining eligible preferences, Preferred before Available, with the
// same random tie-break as the initial pass.  Halls and trainers are never
// reassigned.  The pass is idempotent: the member-slot claims plus the
// (session, member) uniqueness guarantee that an immediate second
// invocation adds nothing.
func (o *Orchestrator) Adjust(ctx context.Context, weekStart time.Time) (*AdjustSummary, error) {
	week := NormalizeWeekStart(weekStart)
	summary := &AdjustSummary{WeekStart: week.Format("2006-01-02")}
	log := o.Log.With().Str("week_start", summary.WeekStart).Str("pass", "adjustment").Logger()

	prefs, err := o.Prefs.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	// Rebuild demand without the minimum-size filter: a single leftover
	// candidate is still worth backfilling into an existing session.
	agg := &Aggregator{MinBucketSize: 1, Log: log}
	demand := make(map[Slot]*Bucket)
	for _, b := range agg.Buckets(prefs) {
		demand[b.Slot] = b
	}

	led := NewLedger()
	memberSlots, err := o.Assignments.ActiveMemberSlots(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("load member slots: %w", err)
	}
	led.SeedMembers(memberSlots)

	sessions, err := o.Sessions.ListActive(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	for i := range sessions {
		ses := &sessions[i]
		summary.SessionsExamined++
		slot := Slot{Day: ses.DayOfWeek, Start: ses.StartTime, End: ses.EndTime}
		bucket := demand[slot]
		if bucket == nil {
			continue
		}

		active, err := o.Assignments.ActiveCount(ctx, ses.ID)
		if err != nil {
			return nil, fmt.Errorf("count assignments for session %d: %w", ses.ID, err)
		}
		free := int(ses.Capacity) - active
		if free <= 0 {
			continue
		}

		added, err := o.backfill(ctx, ses, bucket, led, free)
		if err != nil {
			return nil, err
		}
		if added > 0 {
			summary.SessionsBackfilled++
			summary.AssignmentsAdded += added
			log.Info().Uint64("session_id", ses.ID).Int("added", added).Msg("session backfilled")
		}
	}

	// Whoever still has an unclaimed slot preference after the walk is an
	// unplaced candidate for the report.
	for slot, bucket := range demand {
		for _, c := range bucket.Members {
			if led.MemberFree(slot, c.MemberID) {
				summary.CandidatesLeft++
			}
		}
	}

	log.Info().Int("examined", summary.SessionsExamined).
		Int("added", summary.AssignmentsAdded).
		Int("left", summary.CandidatesLeft).Msg("adjustment pass complete")
	return summary, nil
}

// backfill places up to free members from the bucket into the session,
// applying the allocator's tier and conflict policy.
func (o *Orchestrator) backfill(ctx context.Context, ses *model.Session, b *Bucket, led *Ledger, free int) (int, error) {
	added := 0
	for _, tier := range []string{model.TierPreferred, model.TierAvailable} {
		cands := make([]Candidate, 0, len(b.Members))
		for _, c := range b.Members {
			if c.Tier == tier && led.MemberFree(b.Slot, c.MemberID) {
				cands = append(cands, c)
			}
		}
		o.Rand.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })

		for _, c := range cands {
			if added >= free {
				return added, nil
			}
			err := o.Assignments.Assign(ctx, ses.ID, c.MemberID)
			switch {
			case err == nil:
				led.ClaimMember(b.Slot, c.MemberID)
				added++
			case errors.Is(err, repository.ErrConflict):
				led.ClaimMember(b.Slot, c.MemberID)
			case errors.Is(err, repository.ErrCapacityExceeded):
				// The store sees less capacity than we computed; trust it.
				return added, nil
			default:
				return added, fmt.Errorf("backfill member %d into session %d: %w",
					c.MemberID, ses.ID, err)
			}
		}
	}
	return added, nil
}

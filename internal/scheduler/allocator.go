package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/training-session-scheduler/internal/model"
	"github.com/iliyamo/training-session-scheduler/internal/repository"
)

// Allocator fills a freshly created session with members from its bucket.
// Preferred candidates are placed before Available candidates; within a
// tier the injected random source shuffles the order so no member is
// systematically favoured.
type Allocator struct {
	Rand Rand
	Log  zerolog.Logger
}

// Fill assigns bucket members to the session until capacity runs out or
// candidates do.  Members already claimed at the slot are skipped, store
// conflicts count as already satisfied, and a capacity rejection from a
// concurrent writer closes the session locally.  Any other store error is
// a persistence failure and aborts the pass.  It returns the member ids
// assigned and those left unplaced.
func (a *Allocator) Fill(ctx context.Context, store AssignmentStore, ses *model.Session, b *Bucket, led *Ledger) (assigned, unplaced []uint64, err error) {
	remaining := int(ses.Capacity)
	for _, tier := range []string{model.TierPreferred, model.TierAvailable} {
		cands := make([]Candidate, 0, len(b.Members))
		for _, c := range b.Members {
			if c.Tier == tier {
				cands = append(cands, c)
			}
		}
		a.Rand.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })

		for _, c := range cands {
			if remaining <= 0 {
				unplaced = append(unplaced, c.MemberID)
				continue
			}
			if !led.MemberFree(b.Slot, c.MemberID) {
				// Already booked at this slot in some session.
				unplaced = append(unplaced, c.MemberID)
				continue
			}
			assignErr := store.Assign(ctx, ses.ID, c.MemberID)
			switch {
			case assignErr == nil:
				led.ClaimMember(b.Slot, c.MemberID)
				assigned = append(assigned, c.MemberID)
				remaining--
			case errors.Is(assignErr, repository.ErrConflict):
				// Uniqueness collision: the member already holds this
				// assignment, so the demand is satisfied.
				led.ClaimMember(b.Slot, c.MemberID)
			case errors.Is(assignErr, repository.ErrCapacityExceeded):
				// A concurrent writer filled the session under us; stop
				// trying to place anyone else here.
				a.Log.Warn().Uint64("session_id", ses.ID).
					Msg("session filled concurrently, closing allocation early")
				remaining = 0
				unplaced = append(unplaced, c.MemberID)
			default:
				return assigned, unplaced, fmt.Errorf("assign member %d to session %d: %w",
					c.MemberID, ses.ID, assignErr)
			}
		}
	}
	return assigned, unplaced, nil
}

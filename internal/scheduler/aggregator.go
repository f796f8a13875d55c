package scheduler

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

// Aggregator groups a week's preferences into demand buckets and orders
// them for the matcher.  Buckets below MinBucketSize distinct members are
// discarded; malformed preference records are logged and skipped without
// failing the run.
type Aggregator struct {
	MinBucketSize int
	Log           zerolog.Logger
}

// Buckets builds the ordered demand buckets for the given preferences.
// NotAvailable records never contribute demand.  The result is sorted by
// descending distinct-member count with a day/start/end tie-break, so
// repeated runs over identical input produce an identical order.
func (a *Aggregator) Buckets(prefs []model.Preference) []*Bucket {
	bySlot := make(map[Slot]*Bucket)
	seen := make(map[memberKey]struct{})
	for _, p := range prefs {
		if err := validatePreference(p); err != nil {
			a.Log.Warn().Uint64("preference_id", p.ID).Err(err).Msg("skipping malformed preference")
			continue
		}
		if p.Tier == model.TierNotAvailable {
			continue
		}
		slot := Slot{Day: p.DayOfWeek, Start: p.StartTime, End: p.EndTime}
		// One claim per member per slot; the store enforces this too but
		// the input is external, so guard here as well.
		mk := memberKey{slot: slot, member: p.MemberID}
		if _, dup := seen[mk]; dup {
			continue
		}
		seen[mk] = struct{}{}

		b := bySlot[slot]
		if b == nil {
			b = &Bucket{Slot: slot, TrainerTally: make(map[uint64]int)}
			bySlot[slot] = b
		}
		b.Members = append(b.Members, Candidate{
			MemberID:           p.MemberID,
			Tier:               p.Tier,
			PreferredTrainerID: p.PreferredTrainerID,
		})
		if p.PreferredTrainerID != nil {
			b.TrainerTally[*p.PreferredTrainerID]++
		}
	}

	buckets := make([]*Bucket, 0, len(bySlot))
	for _, b := range bySlot {
		if len(b.Members) < a.MinBucketSize {
			continue
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if len(buckets[i].Members) != len(buckets[j].Members) {
			return len(buckets[i].Members) > len(buckets[j].Members)
		}
		return buckets[i].Slot.before(buckets[j].Slot)
	})
	return buckets
}

// validatePreference checks the structural invariants of a preference
// record.  Violations are data errors: the record is skipped, never fatal.
func validatePreference(p model.Preference) error {
	if p.MemberID == 0 {
		return fmt.Errorf("missing member id")
	}
	if p.DayOfWeek > 6 {
		return fmt.Errorf("day of week %d out of range", p.DayOfWeek)
	}
	if !validClock(p.StartTime) || !validClock(p.EndTime) {
		return fmt.Errorf("malformed slot times %q-%q", p.StartTime, p.EndTime)
	}
	if p.StartTime >= p.EndTime {
		return fmt.Errorf("slot start %q not before end %q", p.StartTime, p.EndTime)
	}
	if !model.ValidTier(p.Tier) {
		return fmt.Errorf("unknown desire tier %q", p.Tier)
	}
	return nil
}

// validClock reports whether s is a well-formed "HH:MM" 24h clock value.
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := (s[0]-'0')*10 + (s[1] - '0')
	mm := (s[3]-'0')*10 + (s[4] - '0')
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return hh < 24 && mm < 60
}

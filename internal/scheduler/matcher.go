package scheduler

import (
	"errors"
	"sort"

	"github.com/iliyamo/training-session-scheduler/internal/model"
)

// ErrNoHallAvailable means no active hall of sufficient capacity is free
// for the bucket's slot.  The bucket is skipped, never fatal.
var ErrNoHallAvailable = errors.New("no hall available")

// ErrNoTrainerAvailable means every trainer is already claimed for the
// bucket's slot.  The bucket is skipped, never fatal.
var ErrNoTrainerAvailable = errors.New("no trainer available")

// Matcher reserves one hall and one trainer per bucket.  It is pure: it
// only consults the catalogs and the ledger passed to it and reports a
// choice; the orchestrator persists the session and records the claims.
type Matcher struct {
	MinHallCapacity uint32
	Rand            Rand
}

// Place picks a hall and a trainer for the bucket, honouring claims
// already in the ledger.
//
// Trainer policy: the free trainer with the highest preferred-trainer
// tally wins; ties are broken by the injected random source; when no
// tallied trainer is free, any free trainer is chosen the same way.
//
// Hall policy: the smallest free hall whose capacity meets the configured
// minimum wins, so small buckets never consume oversized rooms.  The
// catalog arrives sorted by capacity then id, which makes this choice
// deterministic; the sort here only defends against unordered fakes.
func (m *Matcher) Place(b *Bucket, halls []model.Hall, trainers []model.Trainer, led *Ledger) (model.Hall, model.Trainer, error) {
	sorted := make([]model.Hall, len(halls))
	copy(sorted, halls)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Capacity != sorted[j].Capacity {
			return sorted[i].Capacity < sorted[j].Capacity
		}
		return sorted[i].ID < sorted[j].ID
	})

	var hall model.Hall
	found := false
	for _, h := range sorted {
		if h.Capacity < m.MinHallCapacity {
			continue
		}
		if !led.HallFree(b.Slot, h.ID) {
			continue
		}
		hall = h
		found = true
		break
	}
	if !found {
		return model.Hall{}, model.Trainer{}, ErrNoHallAvailable
	}

	trainer, err := m.pickTrainer(b, trainers, led)
	if err != nil {
		return model.Hall{}, model.Trainer{}, err
	}
	return hall, trainer, nil
}

// pickTrainer applies the trainer selection policy described on Place.
func (m *Matcher) pickTrainer(b *Bucket, trainers []model.Trainer, led *Ledger) (model.Trainer, error) {
	free := make([]model.Trainer, 0, len(trainers))
	for _, t := range trainers {
		if led.TrainerFree(b.Slot, t.ID) {
			free = append(free, t)
		}
	}
	if len(free) == 0 {
		return model.Trainer{}, ErrNoTrainerAvailable
	}

	best := 0
	var tied []model.Trainer
	for _, t := range free {
		tally := b.TrainerTally[t.ID]
		switch {
		case tally > best:
			best = tally
			tied = tied[:0]
			tied = append(tied, t)
		case tally == best && best > 0:
			tied = append(tied, t)
		}
	}
	if best == 0 {
		// Nobody asked for a free trainer; fall back to any of them.
		tied = free
	}
	return tied[m.Rand.Intn(len(tied))], nil
}

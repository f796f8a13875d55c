// Package scheduler implements the weekly training-session scheduling
// engine: demand aggregation over member slot preferences, constrained
// matching of halls and trainers, capacity-bounded member allocation, and
// a follow-up adjustment pass that backfills capacity freed by
// cancellations.
//
// The engine is deliberately decoupled from persistence: it consumes small
// interfaces (PreferenceSource, HallCatalog, TrainerCatalog, SessionStore,
// AssignmentStore) that the repository layer satisfies, and it threads an
// explicit reservation Ledger value through the pipeline instead of
// relying on ambient state, so the matcher stays pure and the whole pass
// is testable against in-memory fakes.
//
// Randomness is injected via the Rand interface and seeded from
// configuration, so two runs over identical input with the same seed
// produce identical schedules while equally ranked candidates still get an
// unbiased shuffle.
package scheduler

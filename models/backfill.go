package models

import "time"

// Backfill run states. Failed is terminal and reachable from any step on an
// unrecoverable store error.
const (
	RunStateIdle               = "idle"
	RunStateClearingStale      = "clearing_stale"
	RunStateFetchingEligible   = "fetching_eligible"
	RunStateBatching           = "batching"
	RunStateAwaitingEmbeddings = "awaiting_embeddings"
	RunStatePersisting         = "persisting"
	RunStateReporting          = "reporting"
	RunStateDone               = "done"
	RunStateFailed             = "failed"
)

// BackfillRun is the persisted report of one backfill execution.
type BackfillRun struct {
	RunID            string    `bson:"run_id" json:"run_id"`
	State            string    `bson:"state" json:"state"`
	TotalEligible    int       `bson:"total_eligible" json:"total_eligible"`
	Processed        int       `bson:"processed" json:"processed"`
	Errored          int       `bson:"errored" json:"errored"`
	AttemptedPersist int       `bson:"attempted_persist" json:"attempted_persist"`
	VerifiedCount    int64     `bson:"verified_count" json:"verified_count"`
	Error            string    `bson:"error,omitempty" json:"error,omitempty"`
	StartedAt        time.Time `bson:"started_at" json:"started_at"`
	FinishedAt       time.Time `bson:"finished_at" json:"finished_at"`
	DurationMS       int64     `bson:"duration_ms" json:"duration_ms"`
}

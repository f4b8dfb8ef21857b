package models

import "time"

// JobStatus tracks an evaluation job through its lifecycle.
type JobStatus string

// Job lifecycle states. Done and Error are terminal and never re-entered.
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusError      JobStatus = "error"
)

// EvalJob is one queued evaluation. The submission snapshot is owned by the
// job; Status, Result and Error are mutated only by the queue worker under the
// job-table lock.
type EvalJob struct {
	ID         string
	Submission IdeaSubmission
	Status     JobStatus
	Result     *Evaluation
	Error      string
	EnqueuedAt time.Time
}

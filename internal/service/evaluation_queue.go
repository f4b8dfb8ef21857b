package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ideaarena/ideaarena-go-api/internal/dto"
	"github.com/ideaarena/ideaarena-go-api/internal/models"
	"github.com/ideaarena/ideaarena-go-api/internal/observability"
)

// ErrQueueFull indicates the bounded work queue cannot take another job.
var ErrQueueFull = errors.New("evaluation queue is full")

// ErrQueueStopped indicates the queue is shutting down and rejects new work.
var ErrQueueStopped = errors.New("evaluation queue is not accepting jobs")

// ResultRecorder persists the side effects of a successful evaluation. It is
// best-effort by contract: implementations absorb their own failures.
type ResultRecorder interface {
	Record(ctx context.Context, submission models.IdeaSubmission, result models.Evaluation)
}

// EvaluationQueue decouples submission intake from evaluation work. Jobs live
// in an in-memory table guarded by one mutex; a single background worker
// drains a bounded channel in strict arrival order. Job state does not
// survive a restart.
type EvaluationQueue struct {
	mu      sync.Mutex
	jobs    map[string]*models.EvalJob
	stopped bool

	queue chan *models.EvalJob
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once

	evaluator EvaluationService
	recorder  ResultRecorder
	logger    zerolog.Logger
}

// NewEvaluationQueue builds a queue with the given capacity.
func NewEvaluationQueue(evaluator EvaluationService, recorder ResultRecorder, capacity int, logger zerolog.Logger) *EvaluationQueue {
	if capacity <= 0 {
		capacity = 256
	}

	return &EvaluationQueue{
		jobs:      make(map[string]*models.EvalJob),
		queue:     make(chan *models.EvalJob, capacity),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		evaluator: evaluator,
		recorder:  recorder,
		logger:    logger.With().Str("component", "evaluation_queue").Logger(),
	}
}

// Start launches the background worker. Subsequent calls are no-ops.
func (q *EvaluationQueue) Start() {
	q.once.Do(func() {
		go q.worker()
		q.logger.Info().Msg("evaluation queue worker started")
	})
}

// Enqueue registers a job for the submission and returns its id immediately;
// it never blocks on the worker.
func (q *EvaluationQueue) Enqueue(submission models.IdeaSubmission) (string, error) {
	job := &models.EvalJob{
		ID:         uuid.NewString(),
		Submission: submission,
		Status:     models.JobStatusPending,
		EnqueuedAt: time.Now(),
	}

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return "", ErrQueueStopped
	}
	q.jobs[job.ID] = job
	q.mu.Unlock()

	select {
	case q.queue <- job:
	default:
		q.mu.Lock()
		delete(q.jobs, job.ID)
		q.mu.Unlock()
		return "", ErrQueueFull
	}

	observability.EvaluationQueueDepth().Inc()
	q.logger.Info().Str("job_id", job.ID).Str("uid", submission.UID).Msg("evaluation job enqueued")
	return job.ID, nil
}

// Status returns a point-in-time snapshot of the job, or false when no such
// job exists. It never blocks on the worker.
func (q *EvaluationQueue) Status(jobID string) (dto.JobStatusResponse, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[jobID]
	if !ok {
		return dto.JobStatusResponse{}, false
	}
	return dto.NewJobStatusResponse(*job), true
}

// Stop signals the worker to finish its current job and stop pulling new
// ones, then waits for it to exit or the context to expire. In-flight work
// is never forcibly aborted.
func (q *EvaluationQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	alreadyStopped := q.stopped
	q.stopped = true
	q.mu.Unlock()

	if !alreadyStopped {
		close(q.stop)
	}

	select {
	case <-q.done:
		q.logger.Info().Msg("evaluation queue worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *EvaluationQueue) worker() {
	defer close(q.done)

	for {
		select {
		case <-q.stop:
			return
		case job := <-q.queue:
			observability.EvaluationQueueDepth().Dec()
			q.process(job)
		}
	}
}

func (q *EvaluationQueue) process(job *models.EvalJob) {
	q.setStatus(job, models.JobStatusProcessing)
	q.logger.Info().Str("job_id", job.ID).Str("uid", job.Submission.UID).Msg("processing evaluation job")

	ctx := context.Background()
	result, err := q.evaluator.Evaluate(ctx, job.Submission)
	if err != nil {
		// Only reachable if the synthetic tier itself failed, which performs
		// no I/O; treated as a defect but recorded rather than swallowed.
		q.logger.Error().Err(err).Str("job_id", job.ID).Msg("evaluation job failed")
		q.mu.Lock()
		job.Error = err.Error()
		job.Status = models.JobStatusError
		q.mu.Unlock()
		observability.EvaluationJobs().WithLabelValues("error").Inc()
		return
	}

	if q.recorder != nil {
		q.recorder.Record(ctx, job.Submission, result)
	}

	q.mu.Lock()
	job.Result = &result
	job.Status = models.JobStatusDone
	q.mu.Unlock()
	observability.EvaluationJobs().WithLabelValues("done").Inc()

	q.logger.Info().Str("job_id", job.ID).Int("total_score", result.TotalScore).Msg("evaluation job completed")
}

func (q *EvaluationQueue) setStatus(job *models.EvalJob, status models.JobStatus) {
	q.mu.Lock()
	job.Status = status
	q.mu.Unlock()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
)

type stubEvaluator struct {
	mu      sync.Mutex
	order   []string
	failFor map[string]error
	block   chan struct{}
}

func (s *stubEvaluator) Evaluate(_ context.Context, submission models.IdeaSubmission) (models.Evaluation, error) {
	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	s.order = append(s.order, submission.UID)
	s.mu.Unlock()

	if err, ok := s.failFor[submission.UID]; ok {
		return models.Evaluation{}, err
	}

	return models.Evaluation{
		AIRelevance: 80, Creativity: 80, Impact: 80, Clarity: 80, FunFactor: 80,
		TotalScore: 80,
		Feedback:   validFeedback,
	}, nil
}

func (s *stubEvaluator) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

type stubRecorder struct {
	mu      sync.Mutex
	records []string
}

func (s *stubRecorder) Record(_ context.Context, submission models.IdeaSubmission, _ models.Evaluation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, submission.UID)
}

func queueSubmission(uid string) models.IdeaSubmission {
	sub := testSubmission()
	sub.UID = uid
	return sub
}

func waitForStatus(t *testing.T, q *EvaluationQueue, jobID string, want models.JobStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		status, ok := q.Status(jobID)
		return ok && status.Status == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestQueueProcessesInArrivalOrder(t *testing.T) {
	evaluator := &stubEvaluator{}
	recorder := &stubRecorder{}
	q := NewEvaluationQueue(evaluator, recorder, 16, testLogger())

	var ids []string
	var uids []string
	for i := 0; i < 5; i++ {
		uid := fmt.Sprintf("user-%d", i)
		id, err := q.Enqueue(queueSubmission(uid))
		require.NoError(t, err)
		ids = append(ids, id)
		uids = append(uids, uid)
	}

	q.Start()
	for _, id := range ids {
		waitForStatus(t, q, id, models.JobStatusDone)
	}

	require.Equal(t, uids, evaluator.seen())

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Equal(t, uids, recorder.records)
}

func TestQueueStatusLifecycle(t *testing.T) {
	evaluator := &stubEvaluator{block: make(chan struct{})}
	q := NewEvaluationQueue(evaluator, nil, 16, testLogger())

	id, err := q.Enqueue(queueSubmission("user-a"))
	require.NoError(t, err)

	status, ok := q.Status(id)
	require.True(t, ok)
	require.Equal(t, models.JobStatusPending, status.Status)
	require.Nil(t, status.Result)

	q.Start()
	waitForStatus(t, q, id, models.JobStatusProcessing)

	close(evaluator.block)
	waitForStatus(t, q, id, models.JobStatusDone)

	status, ok = q.Status(id)
	require.True(t, ok)
	require.NotNil(t, status.Result)
	require.Equal(t, 80, status.Result.TotalScore)
	require.Empty(t, status.Error)
}

func TestQueueStatusUnknownJob(t *testing.T) {
	q := NewEvaluationQueue(&stubEvaluator{}, nil, 16, testLogger())

	_, ok := q.Status("no-such-job")
	require.False(t, ok)
}

func TestQueueRecordsEvaluatorFailure(t *testing.T) {
	evaluator := &stubEvaluator{failFor: map[string]error{"user-b": errors.New("scoring defect")}}
	q := NewEvaluationQueue(evaluator, nil, 16, testLogger())
	q.Start()

	id, err := q.Enqueue(queueSubmission("user-b"))
	require.NoError(t, err)

	waitForStatus(t, q, id, models.JobStatusError)
	status, ok := q.Status(id)
	require.True(t, ok)
	require.Equal(t, "scoring defect", status.Error)
	require.Nil(t, status.Result)
}

func TestQueueFullRejectsWithoutRegistering(t *testing.T) {
	q := NewEvaluationQueue(&stubEvaluator{}, nil, 1, testLogger())

	_, err := q.Enqueue(queueSubmission("user-a"))
	require.NoError(t, err)

	id, err := q.Enqueue(queueSubmission("user-b"))
	require.ErrorIs(t, err, ErrQueueFull)
	require.Empty(t, id)
}

func TestQueueStopRejectsNewJobs(t *testing.T) {
	q := NewEvaluationQueue(&stubEvaluator{}, nil, 16, testLogger())
	q.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Stop(ctx))

	_, err := q.Enqueue(queueSubmission("user-late"))
	require.ErrorIs(t, err, ErrQueueStopped)
}

package dto

import "github.com/ideaarena/ideaarena-go-api/internal/models"

// IdeaSubmissionRequest is the enqueue payload. Malformed submissions are
// rejected here, before a job is ever created.
type IdeaSubmissionRequest struct {
	UID        string `json:"uid" validate:"required,max=128"`
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Branch     string `json:"branch" validate:"required,min=1,max=200"`
	RollNumber string `json:"rollNumber" validate:"required,min=1,max=20"`
	Idea       string `json:"idea" validate:"required,min=50,max=2000"`
}

// ToModel copies the request into the immutable submission snapshot.
func (r IdeaSubmissionRequest) ToModel() models.IdeaSubmission {
	return models.IdeaSubmission{
		UID:        r.UID,
		Name:       r.Name,
		Branch:     r.Branch,
		RollNumber: r.RollNumber,
		Idea:       r.Idea,
	}
}

// EnqueueResponse acknowledges an accepted submission.
type EnqueueResponse struct {
	JobID string `json:"jobId"`
}

// JobStatusResponse is the point-in-time snapshot returned to pollers.
type JobStatusResponse struct {
	ID     string             `json:"id"`
	Status models.JobStatus   `json:"status"`
	Error  string             `json:"error,omitempty"`
	Result *models.Evaluation `json:"result,omitempty"`
}

// NewJobStatusResponse projects a job into its caller-visible snapshot.
func NewJobStatusResponse(job models.EvalJob) JobStatusResponse {
	return JobStatusResponse{
		ID:     job.ID,
		Status: job.Status,
		Error:  job.Error,
		Result: job.Result,
	}
}

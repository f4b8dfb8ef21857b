package models

// IdeaSubmission is the immutable snapshot of a submitted idea. It is copied
// into the job that owns it and never mutated afterwards.
type IdeaSubmission struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Branch     string `json:"branch"`
	RollNumber string `json:"rollNumber"`
	Idea       string `json:"idea"`
}

package models

// UserProfile is the per-user document kept in the store. Merge semantics:
// an upsert only overwrites the fields it carries, so CreatedAt and the
// personal-best score survive later submissions.
type UserProfile struct {
	UID               string      `json:"uid"`
	Name              string      `json:"name"`
	Email             string      `json:"email,omitempty"`
	PhotoURL          string      `json:"photoURL,omitempty"`
	Branch            string      `json:"branch"`
	RollNumber        string      `json:"rollNumber"`
	CreatedAt         string      `json:"createdAt,omitempty"`
	UpdatedAt         string      `json:"updatedAt,omitempty"`
	LastEvaluation    *Evaluation `json:"lastEvaluation,omitempty"`
	HasSubmitted      bool        `json:"hasSubmitted"`
	PersonalBestScore int         `json:"personalBestScore"`
}

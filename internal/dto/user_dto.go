package dto

// UserProfileRequest is the profile upsert payload. It never becomes a full
// profile document directly; the service merges its fields into whatever is
// already stored.
type UserProfileRequest struct {
	UID        string `json:"uid" validate:"required,max=128"`
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Email      string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	PhotoURL   string `json:"photoURL,omitempty" validate:"omitempty,url"`
	Branch     string `json:"branch" validate:"required,min=1,max=200"`
	RollNumber string `json:"rollNumber" validate:"required,min=1,max=20"`
}

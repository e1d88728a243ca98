// Package models defines the data structures exchanged with the EchoEnglish
// backend and cached locally by the client.
package models

// Gender is the enumerated gender value used by the backend.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is one of the backend-accepted values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// UserProfile is the account profile owned by the backend. The email is
// immutable after registration; the remaining fields can be changed through
// the update endpoint.
type UserProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Gender      Gender `json:"gender"`
	DOB         string `json:"dob,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	Image       string `json:"image,omitempty"`
}

// ProfileUpdate is a partial profile for the update endpoint. Nil fields are
// omitted from the request body and left untouched by a merge.
type ProfileUpdate struct {
	Email       *string `json:"email,omitempty"`
	FullName    *string `json:"fullName,omitempty"`
	Gender      *Gender `json:"gender,omitempty"`
	DOB         *string `json:"dob,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     *string `json:"address,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// RegisterRequest is the payload for account creation. ConfirmPassword is a
// view-layer concern and is never part of this struct.
type RegisterRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Password    string `json:"password"`
	Gender      Gender `json:"gender"`
	DOB         string `json:"dob"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

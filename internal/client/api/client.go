// Package api contains the HTTP gateway to the EchoEnglish backend: a typed
// Client interface and its net/http implementation. All business logic
// (credential checks, OTP issuance, password hashing) lives server-side;
// this package only moves JSON over the wire.
package api

import (
	"context"

	"github.com/echoenglish/echoenglish-cli/internal/client/models"
)

// Client is the backend API surface consumed by the workflows.
//
// Every method performs exactly one request attempt; there is no automatic
// retry. Methods return ErrUnauthorized on a 401, ErrUnavailable (wrapped)
// on transport failures, and *APIError for other backend rejections.
type Client interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)

	// Register creates an account and triggers the registration OTP email.
	Register(ctx context.Context, req models.RegisterRequest) error

	// VerifyRegisterOtp confirms the registration OTP for the given email.
	VerifyRegisterOtp(ctx context.Context, email, otp string) error

	// ForgotPassword triggers the password-reset OTP email.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes the OTP and sets a new password.
	ResetPassword(ctx context.Context, email, otp, newPassword string) error

	// MyInfo fetches the profile of the authenticated user.
	MyInfo(ctx context.Context) (*models.UserProfile, error)

	// UpdateProfile submits a partial profile update and returns the
	// server-confirmed profile fields.
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.UserProfile, error)
}

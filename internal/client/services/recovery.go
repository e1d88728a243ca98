package services

import (
	"context"
	"fmt"

	"github.com/echoenglish/echoenglish-cli/internal/client/api"
	"github.com/echoenglish/echoenglish-cli/internal/client/models"
	"github.com/echoenglish/echoenglish-cli/internal/client/session"
	"github.com/echoenglish/echoenglish-cli/internal/logging"
)

// Step is the state of an OTP-gated flow.
type Step string

const (
	// StepCollecting: gathering the identity (registration form or email).
	StepCollecting Step = "collecting"
	// StepOtpSent: the backend has emailed a code; awaiting OTP entry.
	StepOtpSent Step = "otp_sent"
	// StepCompleted: the flow finished; the caller routes to login.
	StepCompleted Step = "completed"
)

// RecoveryFlow is the shared state machine behind registration-with-OTP and
// forgot-password-with-OTP. Instantiate one per flow; it is ephemeral and is
// discarded on completion or when the user navigates away.
//
// Transitions: StepCollecting -> StepOtpSent -> StepCompleted, with failures
// keeping the current step (reported, never terminal) and Back returning
// from StepOtpSent to StepCollecting.
type RecoveryFlow struct {
	client api.Client
	store  *session.Store
	log    logging.Logger

	step  Step
	email string
}

func NewRecoveryFlow(client api.Client, store *session.Store, log logging.Logger) *RecoveryFlow {
	return &RecoveryFlow{
		client: client,
		store:  store,
		log:    log.With("component", "recovery"),
		step:   StepCollecting,
	}
}

// Step returns the current state.
func (f *RecoveryFlow) Step() Step { return f.step }

// Email returns the identity remembered after the first step, so the OTP
// step never asks the user to re-enter it.
func (f *RecoveryFlow) Email() string { return f.email }

// RegisterForm carries the raw registration input. ConfirmPassword is
// checked locally and never transmitted.
type RegisterForm struct {
	Email           string
	FullName        string
	Password        string
	ConfirmPassword string
	Gender          models.Gender
	DOB             string
	PhoneNumber     string
	Address         string
}

func (form RegisterForm) validate() error {
	if err := validateEmail(form.Email); err != nil {
		return err
	}
	if err := validateFullName(form.FullName); err != nil {
		return err
	}
	if err := validatePassword(form.Password); err != nil {
		return err
	}
	if err := validateConfirm(form.Password, form.ConfirmPassword); err != nil {
		return err
	}
	if !form.Gender.Valid() {
		return fmt.Errorf("%w: gender must be Male, Female or Other", ErrValidation)
	}
	if form.DOB == "" {
		return fmt.Errorf("%w: date of birth is required", ErrValidation)
	}
	return nil
}

// Register submits the account-creation request. On success the backend has
// emailed an OTP and the flow moves to StepOtpSent with the email remembered.
func (f *RecoveryFlow) Register(ctx context.Context, form RegisterForm) error {
	if f.step != StepCollecting {
		return ErrInvalidStep
	}
	if err := form.validate(); err != nil {
		return err
	}

	req := models.RegisterRequest{
		Email:       form.Email,
		FullName:    form.FullName,
		Password:    form.Password,
		Gender:      form.Gender,
		DOB:         form.DOB,
		PhoneNumber: form.PhoneNumber,
		Address:     form.Address,
	}

	f.store.BeginRequest()
	if err := f.client.Register(ctx, req); err != nil {
		nerr := normalizeError(err)
		f.store.EndRequest(nerr)
		return nerr
	}
	f.store.EndRequest(nil)

	f.email = form.Email
	f.step = StepOtpSent
	return nil
}

// VerifyOtp confirms the registration OTP. Input is sanitized (non-digits
// stripped) before the 6-digit check. On failure the flow stays at
// StepOtpSent and the code can be re-submitted.
func (f *RecoveryFlow) VerifyOtp(ctx context.Context, otp string) error {
	if f.step != StepOtpSent {
		return ErrInvalidStep
	}
	otp = SanitizeOtp(otp)
	if err := validateOtp(otp); err != nil {
		return err
	}

	f.store.BeginRequest()
	if err := f.client.VerifyRegisterOtp(ctx, f.email, otp); err != nil {
		nerr := normalizeError(err)
		f.store.EndRequest(nerr)
		return nerr
	}
	f.store.EndRequest(nil)

	f.step = StepCompleted
	return nil
}

// ForgotPassword starts the password-reset variant of the flow.
func (f *RecoveryFlow) ForgotPassword(ctx context.Context, email string) error {
	if f.step != StepCollecting {
		return ErrInvalidStep
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	f.store.BeginRequest()
	if err := f.client.ForgotPassword(ctx, email); err != nil {
		nerr := normalizeError(err)
		f.store.EndRequest(nerr)
		return nerr
	}
	f.store.EndRequest(nil)

	f.email = email
	f.step = StepOtpSent
	return nil
}

// ResetPassword consumes the OTP and sets the new password for the email
// remembered by ForgotPassword. On failure the flow stays at StepOtpSent
// with the same email.
func (f *RecoveryFlow) ResetPassword(ctx context.Context, otp, newPassword, confirmPassword string) error {
	if f.step != StepOtpSent {
		return ErrInvalidStep
	}
	otp = SanitizeOtp(otp)
	if err := validateOtp(otp); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if err := validateConfirm(newPassword, confirmPassword); err != nil {
		return err
	}

	f.store.BeginRequest()
	if err := f.client.ResetPassword(ctx, f.email, otp, newPassword); err != nil {
		nerr := normalizeError(err)
		f.store.EndRequest(nerr)
		return nerr
	}
	f.store.EndRequest(nil)

	f.step = StepCompleted
	return nil
}

// Back returns from StepOtpSent to StepCollecting, discarding the remembered
// identity so nothing from the abandoned attempt leaks into the next one.
func (f *RecoveryFlow) Back() {
	if f.step != StepOtpSent {
		return
	}
	f.email = ""
	f.step = StepCollecting
}

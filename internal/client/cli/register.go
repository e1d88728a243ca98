package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/echoenglish/echoenglish-cli/internal/client/models"
	"github.com/echoenglish/echoenglish-cli/internal/client/services"
)

func parseGender(s string) models.Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return models.GenderMale
	case "female", "f":
		return models.GenderFemale
	case "other", "o":
		return models.GenderOther
	}
	return models.Gender(s)
}

// Register runs the account-creation wizard: collect the form, submit it,
// then stay on the OTP prompt until the code is confirmed or the user backs
// out.
func (a *App) Register(ctx context.Context) error {
	if !a.submitGate() {
		return nil
	}

	form, err := a.collectRegisterForm()
	if err != nil {
		return err
	}

	flow := services.NewRecoveryFlow(a.apiClient, a.store, a.log)
	if err := flow.Register(ctx, form); err != nil {
		if errors.Is(err, services.ErrValidation) {
			printlnFn(err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("We sent a 6-digit code to %s.", flow.Email()))
	if err := a.runOtpPrompt(ctx, flow, flow.VerifyOtp); err != nil {
		return err
	}
	if flow.Step() == services.StepCompleted {
		printlnFn("Registration confirmed. You can now log in.")
	}
	return nil
}

func (a *App) collectRegisterForm() (services.RegisterForm, error) {
	var form services.RegisterForm
	var err error

	if form.Email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
		return form, err
	}
	if form.FullName, err = getSimpleText(a.reader, "Enter full name", os.Stdout); err != nil {
		return form, err
	}
	if form.Password, err = getPassword(os.Stdout, "Enter password"); err != nil {
		return form, err
	}
	if form.ConfirmPassword, err = getPassword(os.Stdout, "Confirm password"); err != nil {
		return form, err
	}
	gender, err := getSimpleText(a.reader, "Gender (Male/Female/Other)", os.Stdout)
	if err != nil {
		return form, err
	}
	form.Gender = parseGender(gender)
	if form.DOB, err = getSimpleText(a.reader, "Date of birth (YYYY-MM-DD)", os.Stdout); err != nil {
		return form, err
	}
	if form.PhoneNumber, err = getSimpleText(a.reader, "Phone number (optional)", os.Stdout); err != nil {
		return form, err
	}
	if form.Address, err = getSimpleText(a.reader, "Address (optional)", os.Stdout); err != nil {
		return form, err
	}
	return form, nil
}

// runOtpPrompt keeps asking for the code while the flow stays at the OTP
// step. Typing "back" returns to the start and discards the attempt.
func (a *App) runOtpPrompt(ctx context.Context, flow *services.RecoveryFlow, submit func(context.Context, string) error) error {
	for flow.Step() == services.StepOtpSent {
		code, err := getSimpleText(a.reader, "Enter the 6-digit code (or 'back' to start over)", os.Stdout)
		if err != nil {
			return err
		}
		if code == "back" {
			flow.Back()
			printlnFn("Cancelled.")
			return nil
		}
		if err := submit(ctx, code); err != nil {
			if errors.Is(err, services.ErrValidation) {
				printlnFn(err.Error())
			}
			continue
		}
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/echoenglish/echoenglish-cli/internal/client/services"
)

// Forgot runs the password-reset wizard: trigger the OTP email, then prompt
// for the code and the new password until the reset succeeds or the user
// backs out. The email entered up front is remembered by the flow; it is
// never asked for twice.
func (a *App) Forgot(ctx context.Context) error {
	if !a.submitGate() {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter your account email", os.Stdout)
	if err != nil {
		return err
	}

	flow := services.NewRecoveryFlow(a.apiClient, a.store, a.log)
	if err := flow.ForgotPassword(ctx, email); err != nil {
		if errors.Is(err, services.ErrValidation) {
			printlnFn(err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("We sent a 6-digit code to %s.", flow.Email()))

	submit := func(ctx context.Context, code string) error {
		newPassword, err := getPassword(os.Stdout, "New password")
		if err != nil {
			return err
		}
		confirm, err := getPassword(os.Stdout, "Confirm new password")
		if err != nil {
			return err
		}
		return flow.ResetPassword(ctx, code, newPassword, confirm)
	}

	if err := a.runOtpPrompt(ctx, flow, submit); err != nil {
		return err
	}
	if flow.Step() == services.StepCompleted {
		printlnFn("Password updated. Please log in with your new password.")
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/echoenglish/echoenglish-cli/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials, authenticates, and loads the profile so
// profile-dependent views can render. Local validation errors are printed
// here; remote errors reach the user through the store subscriber.
func (a *App) Login(ctx context.Context) error {
	if !a.submitGate() {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, email, password); err != nil {
		if errors.Is(err, services.ErrValidation) {
			printlnFn(err.Error())
		}
		return err
	}

	if err := a.authService.FetchProfile(ctx); err != nil {
		return err
	}

	if p := a.store.Snapshot().Profile; p != nil {
		printlnFn(fmt.Sprintf("Logged in as %s", p.FullName))
	} else {
		printlnFn("Logged in")
	}
	return nil
}

// Logout asks for an explicit yes/no confirmation before clearing the
// session. Locally it always succeeds; there is no server call.
func (a *App) Logout(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Log out? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "yes" {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.authService.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout cleanup failed", "error", err)
	}
	printlnFn("Logged out.")
	return nil
}

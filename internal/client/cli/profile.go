package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/echoenglish/echoenglish-cli/internal/client/models"
	"github.com/echoenglish/echoenglish-cli/internal/client/services"
)

// Profile prints the current profile, fetching it first if needed.
func (a *App) Profile(ctx context.Context) error {
	snap := a.store.Snapshot()
	if snap.Profile == nil {
		if err := a.authService.FetchProfile(ctx); err != nil {
			return err
		}
		snap = a.store.Snapshot()
	}
	p := snap.Profile
	if p == nil {
		return nil
	}

	printlnFn("Email:        " + p.Email)
	printlnFn("Full name:    " + p.FullName)
	printlnFn("Gender:       " + string(p.Gender))
	if p.DOB != "" {
		printlnFn("Date of birth: " + p.DOB)
	}
	if p.PhoneNumber != "" {
		printlnFn("Phone:        " + p.PhoneNumber)
	}
	if p.Address != "" {
		printlnFn("Address:      " + p.Address)
	}
	if p.Image != "" {
		printlnFn("Avatar:       " + p.Image)
	}
	return nil
}

// Update edits profile fields interactively. Empty input keeps the current
// value; the email is immutable and is not offered for editing.
func (a *App) Update(ctx context.Context) error {
	if !a.submitGate() {
		return nil
	}

	snap := a.store.Snapshot()
	if snap.Profile == nil {
		if err := a.authService.FetchProfile(ctx); err != nil {
			return err
		}
		snap = a.store.Snapshot()
	}
	p := snap.Profile
	if p == nil {
		return nil
	}

	printlnFn("Leave a field empty to keep its current value.")

	var update models.ProfileUpdate

	name, err := getSimpleText(a.reader, fmt.Sprintf("Full name [%s]", p.FullName), os.Stdout)
	if err != nil {
		return err
	}
	if name != "" {
		update.FullName = &name
	}

	genderInput, err := getSimpleText(a.reader, fmt.Sprintf("Gender [%s]", p.Gender), os.Stdout)
	if err != nil {
		return err
	}
	if genderInput != "" {
		g := parseGender(genderInput)
		if !g.Valid() {
			printlnFn("Gender must be Male, Female or Other.")
			return nil
		}
		update.Gender = &g
	}

	dob, err := getSimpleText(a.reader, fmt.Sprintf("Date of birth [%s]", p.DOB), os.Stdout)
	if err != nil {
		return err
	}
	if dob != "" {
		update.DOB = &dob
	}

	phone, err := getSimpleText(a.reader, fmt.Sprintf("Phone number [%s]", p.PhoneNumber), os.Stdout)
	if err != nil {
		return err
	}
	if phone != "" {
		update.PhoneNumber = &phone
	}

	address, err := getSimpleText(a.reader, fmt.Sprintf("Address [%s]", p.Address), os.Stdout)
	if err != nil {
		return err
	}
	if address != "" {
		update.Address = &address
	}

	image, err := getSimpleText(a.reader, fmt.Sprintf("Avatar URL [%s]", p.Image), os.Stdout)
	if err != nil {
		return err
	}
	if image != "" {
		update.Image = &image
	}

	if update == (models.ProfileUpdate{}) {
		printlnFn("Nothing to update.")
		return nil
	}

	if err := a.authService.UpdateProfile(ctx, update); err != nil {
		if errors.Is(err, services.ErrValidation) {
			printlnFn(err.Error())
		}
		return err
	}

	printlnFn("Profile updated.")
	return nil
}

// Package services contains the application workflows of the EchoEnglish
// client: the authentication workflow (login, profile load/update, logout)
// and the OTP-gated registration/recovery flow. Workflows coordinate the API
// gateway and the session store; all remote errors are normalized here so
// nothing leaks into the view layer unhandled.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/echoenglish/echoenglish-cli/internal/client/api"
	"github.com/echoenglish/echoenglish-cli/internal/client/models"
	"github.com/echoenglish/echoenglish-cli/internal/client/repositories/metadata"
	"github.com/echoenglish/echoenglish-cli/internal/client/session"
	"github.com/echoenglish/echoenglish-cli/internal/dbx"
	"github.com/echoenglish/echoenglish-cli/internal/logging"
)

// Durable cache keys. The token and the cached profile are the only state
// that survives a restart.
const (
	metaKeyToken   = "token"
	metaKeyProfile = "profile"
)

// AuthService drives the Anonymous -> Authenticated lifecycle.
type AuthService struct {
	client api.Client
	store  *session.Store
	db     *sql.DB
	log    logging.Logger
}

func NewAuthService(client api.Client, store *session.Store, db *sql.DB, log logging.Logger) *AuthService {
	return &AuthService{client: client, store: store, db: db, log: log.With("component", "auth")}
}

func (a *AuthService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

// Login authenticates with the backend and stores the issued credential.
// Empty input fails fast with a validation error, without a network call.
// The caller is expected to invoke FetchProfile after a successful login.
func (a *AuthService) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	a.store.BeginRequest()
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		nerr := normalizeError(err)
		a.store.EndRequest(nerr)
		return nerr
	}

	a.store.SetCredential(token)
	a.persistSession(ctx)
	return nil
}

// persistSession saves the credential and the cached profile copy in a
// single transaction. Failures are logged, not surfaced: the live session
// works without the durable copy, it just won't survive a restart.
func (a *AuthService) persistSession(ctx context.Context) {
	snap := a.store.Snapshot()
	if !snap.Authenticated() {
		return
	}
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metaKeyToken, []byte(snap.Credential)); err != nil {
			return err
		}
		if snap.Profile == nil {
			return nil
		}
		data, err := json.Marshal(snap.Profile)
		if err != nil {
			return err
		}
		return repo.Set(ctx, metaKeyProfile, data)
	})
	if err != nil {
		a.log.Warn(ctx, "failed to persist session", "error", err)
	}
}

// Restore seeds the session from the durable cache on cold start. When a
// token is present, the cached profile (if any) is shown immediately and a
// fresh copy is fetched from the backend. A backend that is merely
// unreachable does not invalidate the restored session.
func (a *AuthService) Restore(ctx context.Context) error {
	repo := a.getMetadataRepo()

	token, err := repo.Get(ctx, metaKeyToken)
	if err != nil {
		return err
	}
	if len(token) == 0 {
		return nil
	}

	a.store.SetCredential(string(token))

	if cached, err := repo.Get(ctx, metaKeyProfile); err == nil && len(cached) > 0 {
		var profile models.UserProfile
		if err := json.Unmarshal(cached, &profile); err == nil {
			a.store.SetProfile(profile)
		}
	}

	if err := a.FetchProfile(ctx); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			a.log.Warn(ctx, "profile refresh skipped, server unreachable")
			return nil
		}
		return err
	}
	return nil
}

// FetchProfile loads the current profile into the session store. It must run
// once after every successful Login and on cold start, before any
// profile-dependent view renders.
func (a *AuthService) FetchProfile(ctx context.Context) error {
	if !a.store.Snapshot().Authenticated() {
		return ErrNotAuthenticated
	}

	gen := a.store.Generation()
	a.store.BeginRequest()

	profile, err := a.client.MyInfo(ctx)
	if err != nil {
		nerr := normalizeError(err)
		a.store.EndRequest(nerr)
		return nerr
	}

	// the session changed while the request was in flight (logout or 401);
	// the response belongs to a superseded session and is dropped
	if a.store.Generation() != gen {
		a.log.Debug(ctx, "discarding stale profile response")
		a.store.EndRequest(nil)
		return nil
	}

	a.store.SetProfile(*profile)
	a.store.EndRequest(nil)
	a.persistSession(ctx)
	return nil
}

// UpdateProfile submits a partial update and merges the server-confirmed
// values into the session. The email field is immutable: an update carrying
// a different email is rejected locally.
func (a *AuthService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	snap := a.store.Snapshot()
	if snap.Profile == nil {
		return ErrNotAuthenticated
	}
	if update.Email != nil && *update.Email != snap.Profile.Email {
		return fmt.Errorf("%w: email cannot be changed", ErrValidation)
	}
	update.Email = nil

	gen := a.store.Generation()
	a.store.BeginRequest()

	confirmed, err := a.client.UpdateProfile(ctx, update)
	if err != nil {
		nerr := normalizeError(err)
		a.store.EndRequest(nerr)
		return nerr
	}

	if a.store.Generation() != gen {
		a.log.Debug(ctx, "discarding stale update response")
		a.store.EndRequest(nil)
		return nil
	}

	a.store.MergeProfile(confirmedMerge(update, confirmed))
	a.store.EndRequest(nil)
	a.persistSession(ctx)
	return nil
}

// confirmedMerge picks, for every submitted field, the value the server
// actually stored. The server response is authoritative: if it normalized or
// rejected a field, the session reflects the server's version.
func confirmedMerge(submitted models.ProfileUpdate, confirmed *models.UserProfile) models.ProfileUpdate {
	var merge models.ProfileUpdate
	if submitted.FullName != nil {
		merge.FullName = &confirmed.FullName
	}
	if submitted.Gender != nil {
		merge.Gender = &confirmed.Gender
	}
	if submitted.DOB != nil {
		merge.DOB = &confirmed.DOB
	}
	if submitted.PhoneNumber != nil {
		merge.PhoneNumber = &confirmed.PhoneNumber
	}
	if submitted.Address != nil {
		merge.Address = &confirmed.Address
	}
	if submitted.Image != nil {
		merge.Image = &confirmed.Image
	}
	return merge
}

// Logout tears the session down unconditionally: in-memory state and the
// durable cache. There is no server-side invalidation call. The yes/no
// confirmation gate belongs to the view layer.
func (a *AuthService) Logout(ctx context.Context) error {
	a.store.Clear()
	if err := a.getMetadataRepo().Clear(ctx); err != nil {
		return fmt.Errorf("clearing cached session: %w", err)
	}
	return nil
}

// ClearCache wipes the durable cache without touching in-memory state.
// Used by the 401 teardown after the store has been cleared.
func (a *AuthService) ClearCache(ctx context.Context) error {
	return a.getMetadataRepo().Clear(ctx)
}

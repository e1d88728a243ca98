// Package cli is the interactive view layer of the EchoEnglish client. It
// renders prompts, collects form input, and invokes the workflow services;
// everything it shows comes from session store snapshots.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/echoenglish/echoenglish-cli/internal/client/api"
	"github.com/echoenglish/echoenglish-cli/internal/client/config"
	"github.com/echoenglish/echoenglish-cli/internal/client/db"
	"github.com/echoenglish/echoenglish-cli/internal/client/models"
	"github.com/echoenglish/echoenglish-cli/internal/client/services"
	"github.com/echoenglish/echoenglish-cli/internal/client/session"
	"github.com/echoenglish/echoenglish-cli/internal/logging"
)

// authWorkflow is the slice of the auth service the handlers need; tests can
// substitute a fake.
type authWorkflow interface {
	Login(ctx context.Context, email, password string) error
	Restore(ctx context.Context) error
	FetchProfile(ctx context.Context) error
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) error
	Logout(ctx context.Context) error
	ClearCache(ctx context.Context) error
}

type App struct {
	config      *config.Config
	store       *session.Store
	apiClient   api.Client
	authService authWorkflow
	database    *sql.DB
	log         logging.Logger
	reader      *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	database, err := db.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := session.NewStore()

	gateway := api.NewHTTPClient(cfg.APIBaseURL, cfg.HTTPTimeout, log)
	gateway.SetTokenSource(func() string { return store.Snapshot().Credential })

	authService := services.NewAuthService(gateway, store, database, log)

	a := &App{
		config:      cfg,
		store:       store,
		apiClient:   gateway,
		authService: authService,
		database:    database,
		log:         log,
		reader:      bufio.NewReader(os.Stdin),
	}

	// A 401 from any call tears the session down once and routes the user
	// back to the anonymous prompt. The session-expired message reaches the
	// user through the error subscriber below, so nothing is printed here.
	gateway.SetUnauthorizedHook(func() {
		if store.Clear() {
			if err := authService.ClearCache(context.Background()); err != nil {
				log.Warn(context.Background(), "failed to clear cached session", "error", err)
			}
		}
	})

	// Each recorded error is shown exactly once, then cleared so a
	// re-render does not repeat it.
	store.Subscribe(func(snap session.Snapshot) {
		if snap.LastError != "" {
			printlnFn("Error: " + snap.LastError)
			store.ClearError()
		}
	})

	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.database.Close()

	if err := a.authService.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}
	if p := a.store.Snapshot().Profile; p != nil {
		printlnFn(fmt.Sprintf("Welcome back, %s!", p.FullName))
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().Authenticated()
}

func (a *App) getStatus() string {
	snap := a.store.Snapshot()
	if snap.Profile != nil {
		return fmt.Sprintf("(%s)", snap.Profile.Email)
	}
	if snap.Authenticated() {
		return "(signed in)"
	}
	return ""
}

// submitGate refuses a new submission while a request is in flight. The
// store's loading flag is the authoritative signal.
func (a *App) submitGate() bool {
	if a.store.Snapshot().Loading {
		printlnFn("Please wait, a request is still in progress...")
		return false
	}
	return true
}

package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoenglish/echoenglish-cli/internal/client/models"
	"github.com/echoenglish/echoenglish-cli/internal/client/session"
	"github.com/echoenglish/echoenglish-cli/internal/logging"
)

// fakeWorkflow implements authWorkflow for handler tests.
type fakeWorkflow struct {
	store *session.Store

	calls        []string
	lastEmail    string
	lastPassword string
	lastUpdate   models.ProfileUpdate

	loginErr error
	fetchErr error
}

func (f *fakeWorkflow) Login(ctx context.Context, email, password string) error {
	f.calls = append(f.calls, "login")
	f.lastEmail = email
	f.lastPassword = password
	if f.loginErr == nil {
		f.store.SetCredential("tok")
	}
	return f.loginErr
}

func (f *fakeWorkflow) Restore(ctx context.Context) error {
	f.calls = append(f.calls, "restore")
	return nil
}

func (f *fakeWorkflow) FetchProfile(ctx context.Context) error {
	f.calls = append(f.calls, "fetch")
	if f.fetchErr == nil {
		f.store.SetProfile(models.UserProfile{ID: "1", Email: f.lastEmail, FullName: "A", Gender: models.GenderOther})
	}
	return f.fetchErr
}

func (f *fakeWorkflow) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	f.calls = append(f.calls, "update")
	f.lastUpdate = update
	return nil
}

func (f *fakeWorkflow) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.store.Clear()
	return nil
}

func (f *fakeWorkflow) ClearCache(ctx context.Context) error {
	f.calls = append(f.calls, "clearcache")
	return nil
}

// stubPrompts replaces the input seams with queues of canned answers.
func stubPrompts(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origText, origPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			t.Fatal("unexpected text prompt")
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ io.Writer, _ string) (string, error) {
		if len(passwords) == 0 {
			t.Fatal("unexpected password prompt")
		}
		v := passwords[0]
		passwords = passwords[1:]
		return v, nil
	}
}

func newTestApp(t *testing.T) (*App, *fakeWorkflow) {
	t.Helper()
	muteOutput(t)

	store := session.NewStore()
	wf := &fakeWorkflow{store: store}
	app := &App{
		store:       store,
		authService: wf,
		log:         logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		reader:      bufio.NewReader(strings.NewReader("")),
	}
	return app, wf
}

func TestLogin_PassesCollectedInputAndLoadsProfile(t *testing.T) {
	app, wf := newTestApp(t)
	stubPrompts(t, []string{"a@b.com"}, []string{"secret1"})

	require.NoError(t, app.Login(context.Background()))

	assert.Equal(t, []string{"login", "fetch"}, wf.calls)
	assert.Equal(t, "a@b.com", wf.lastEmail)
	assert.Equal(t, "secret1", wf.lastPassword)
	assert.True(t, app.isLoggedIn())
}

func TestLogout_DeclinedConfirmationKeepsSession(t *testing.T) {
	app, wf := newTestApp(t)
	app.store.SetCredential("tok")
	stubPrompts(t, []string{"n"}, nil)

	require.NoError(t, app.Logout(context.Background()))

	assert.NotContains(t, wf.calls, "logout")
	assert.True(t, app.isLoggedIn())
}

func TestLogout_ConfirmedClearsSession(t *testing.T) {
	app, wf := newTestApp(t)
	app.store.SetCredential("tok")
	stubPrompts(t, []string{"y"}, nil)

	require.NoError(t, app.Logout(context.Background()))

	assert.Contains(t, wf.calls, "logout")
	assert.False(t, app.isLoggedIn())
}

func TestUpdate_BuildsPartialUpdateFromNonEmptyAnswers(t *testing.T) {
	app, wf := newTestApp(t)
	app.store.SetCredential("tok")
	app.store.SetProfile(models.UserProfile{
		ID: "1", Email: "a@b.com", FullName: "A", Gender: models.GenderOther, Address: "Y",
	})

	// full name, gender, dob, phone, address, avatar
	stubPrompts(t, []string{"", "", "", "", "X", ""}, nil)

	require.NoError(t, app.Update(context.Background()))

	require.Contains(t, wf.calls, "update")
	require.NotNil(t, wf.lastUpdate.Address)
	assert.Equal(t, "X", *wf.lastUpdate.Address)
	assert.Nil(t, wf.lastUpdate.FullName)
	assert.Nil(t, wf.lastUpdate.Gender)
	assert.Nil(t, wf.lastUpdate.Email)
}

func TestUpdate_AllEmptyAnswersSkipsNetworkCall(t *testing.T) {
	app, wf := newTestApp(t)
	app.store.SetCredential("tok")
	app.store.SetProfile(models.UserProfile{ID: "1", Email: "a@b.com", FullName: "A", Gender: models.GenderOther})

	stubPrompts(t, []string{"", "", "", "", "", ""}, nil)

	require.NoError(t, app.Update(context.Background()))
	assert.NotContains(t, wf.calls, "update")
}

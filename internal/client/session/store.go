// Package session holds the client-side authentication state: the bearer
// credential, the loaded user profile, the in-flight-request flag, and the
// last error message. The store is the single mutable shared resource of the
// client; workflows and the gateway's 401 hook are its only writers, the view
// layer reads snapshots.
package session

import (
	"sync"

	"github.com/echoenglish/echoenglish-cli/internal/client/models"
)

// Snapshot is an immutable copy of the store state handed to readers.
type Snapshot struct {
	Credential string
	Profile    *models.UserProfile
	Loading    bool
	LastError  string
}

// Authenticated reports whether a credential is held.
func (s Snapshot) Authenticated() bool {
	return s.Credential != ""
}

// Store is a mutex-guarded state container. Every transition notifies the
// registered subscribers with a fresh snapshot, outside the lock.
//
// Invariant: a profile is only ever held together with a credential.
type Store struct {
	mu          sync.Mutex
	credential  string
	profile     *models.UserProfile
	loading     bool
	lastError   string
	generation  uint64
	subscribers []func(Snapshot)
}

func NewStore() *Store {
	return &Store{}
}

// Subscribe registers fn to be called after every state transition.
// Not safe to call concurrently with transitions; wire subscribers up front.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Credential: s.credential,
		Loading:    s.loading,
		LastError:  s.lastError,
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

func (s *Store) notify(snap Snapshot) {
	for _, fn := range s.subscribers {
		fn(snap)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Generation returns the current session generation. The generation changes
// whenever the credential changes or the session is cleared; workflows
// capture it before a network call and discard responses that come back for
// a superseded session.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// SetCredential stores the bearer token issued at login and ends any
// in-flight marker.
func (s *Store) SetCredential(token string) {
	s.mu.Lock()
	s.credential = token
	s.loading = false
	s.generation++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetProfile stores the fetched profile. Calling it without a credential is
// a programming error and panics: profiles exist only inside a session.
func (s *Store) SetProfile(p models.UserProfile) {
	s.mu.Lock()
	if s.credential == "" {
		s.mu.Unlock()
		panic("session: SetProfile without credential")
	}
	s.profile = &p
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// MergeProfile shallow-merges the non-nil fields of update into the held
// profile. No-op when no profile is held. The email field is immutable and
// is never merged.
func (s *Store) MergeProfile(update models.ProfileUpdate) {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return
	}
	if update.FullName != nil {
		s.profile.FullName = *update.FullName
	}
	if update.Gender != nil {
		s.profile.Gender = *update.Gender
	}
	if update.DOB != nil {
		s.profile.DOB = *update.DOB
	}
	if update.PhoneNumber != nil {
		s.profile.PhoneNumber = *update.PhoneNumber
	}
	if update.Address != nil {
		s.profile.Address = *update.Address
	}
	if update.Image != nil {
		s.profile.Image = *update.Image
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Clear drops the credential and the profile together. It reports whether
// anything was actually cleared, so concurrent 401 handlers tear the session
// down exactly once.
func (s *Store) Clear() bool {
	s.mu.Lock()
	if s.credential == "" && s.profile == nil {
		s.mu.Unlock()
		return false
	}
	s.credential = ""
	s.profile = nil
	s.generation++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return true
}

// BeginRequest marks a request in flight and resets the last error.
func (s *Store) BeginRequest() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// EndRequest marks the request finished; a non-nil err is recorded as the
// last error message.
func (s *Store) EndRequest(err error) {
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// ClearError resets the last error. The view layer calls this after showing
// a notification so the same error is not displayed twice.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastError = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

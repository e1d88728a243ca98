package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoenglish/echoenglish-cli/internal/client/models"
)

func profileFixture() models.UserProfile {
	return models.UserProfile{
		ID:       "1",
		Email:    "a@b.com",
		FullName: "A",
		Gender:   models.GenderOther,
		Address:  "Y",
	}
}

func TestStore_ProfileImpliesCredential(t *testing.T) {
	s := NewStore()

	require.Panics(t, func() { s.SetProfile(profileFixture()) })

	s.SetCredential("tok")
	s.SetProfile(profileFixture())

	snap := s.Snapshot()
	require.NotNil(t, snap.Profile)
	assert.True(t, snap.Authenticated())
}

func TestStore_ClearDropsCredentialAndProfileTogether(t *testing.T) {
	s := NewStore()
	s.SetCredential("tok")
	s.SetProfile(profileFixture())

	require.True(t, s.Clear())

	snap := s.Snapshot()
	assert.Empty(t, snap.Credential)
	assert.Nil(t, snap.Profile)
	assert.False(t, snap.Authenticated())
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	s := NewStore()
	s.SetCredential("tok")

	assert.True(t, s.Clear())
	assert.False(t, s.Clear(), "second clear must report nothing to do")
	assert.False(t, s.Clear())
}

func TestStore_MergeProfile(t *testing.T) {
	s := NewStore()
	s.SetCredential("tok")
	s.SetProfile(profileFixture())

	addr := "X"
	s.MergeProfile(models.ProfileUpdate{Address: &addr})

	snap := s.Snapshot()
	assert.Equal(t, "X", snap.Profile.Address)
	assert.Equal(t, "A", snap.Profile.FullName)
	assert.Equal(t, "a@b.com", snap.Profile.Email)
	assert.Equal(t, "1", snap.Profile.ID)
}

func TestStore_MergeProfileNoopWithoutProfile(t *testing.T) {
	s := NewStore()
	s.SetCredential("tok")

	name := "B"
	s.MergeProfile(models.ProfileUpdate{FullName: &name})
	assert.Nil(t, s.Snapshot().Profile)
}

func TestStore_RequestLifecycle(t *testing.T) {
	s := NewStore()

	s.BeginRequest()
	assert.True(t, s.Snapshot().Loading)

	s.EndRequest(errors.New("Invalid credentials"))
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, "Invalid credentials", snap.LastError)

	// a new attempt clears the previous error
	s.BeginRequest()
	assert.Empty(t, s.Snapshot().LastError)
	s.EndRequest(nil)
	assert.Empty(t, s.Snapshot().LastError)
}

func TestStore_ClearError(t *testing.T) {
	s := NewStore()
	s.BeginRequest()
	s.EndRequest(errors.New("boom"))

	s.ClearError()
	assert.Empty(t, s.Snapshot().LastError)
}

func TestStore_GenerationChangesOnCredentialTransitions(t *testing.T) {
	s := NewStore()
	g0 := s.Generation()

	s.SetCredential("tok")
	g1 := s.Generation()
	assert.NotEqual(t, g0, g1)

	s.BeginRequest()
	s.EndRequest(nil)
	assert.Equal(t, g1, s.Generation(), "request lifecycle must not bump generation")

	s.Clear()
	assert.NotEqual(t, g1, s.Generation())
}

func TestStore_SubscribersSeeEveryTransition(t *testing.T) {
	s := NewStore()
	var seen []Snapshot
	s.Subscribe(func(snap Snapshot) { seen = append(seen, snap) })

	s.SetCredential("tok")
	s.BeginRequest()
	s.EndRequest(nil)
	s.Clear()

	require.Len(t, seen, 4)
	assert.Equal(t, "tok", seen[0].Credential)
	assert.True(t, seen[1].Loading)
	assert.False(t, seen[2].Loading)
	assert.False(t, seen[3].Authenticated())
}

func TestStore_SnapshotProfileIsACopy(t *testing.T) {
	s := NewStore()
	s.SetCredential("tok")
	s.SetProfile(profileFixture())

	snap := s.Snapshot()
	snap.Profile.Address = "mutated"

	assert.Equal(t, "Y", s.Snapshot().Profile.Address)
}

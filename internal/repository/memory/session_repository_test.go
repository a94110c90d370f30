package memory

import (
	"testing"
	"time"

	"hybrid-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositorySaveGetRoundtrip(t *testing.T) {
	repo := NewSessionRepository(time.Minute)

	s := store.NewSession("abc")
	s.Mode = store.ModeFlow
	s.Answers["name"] = "Alex Johnson"
	repo.Save(s)

	got, found := repo.Get("abc")
	require.True(t, found)
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, store.ModeFlow, got.Mode)
	assert.Equal(t, "Alex Johnson", got.Answers["name"])
}

func TestSessionRepositoryGetMissing(t *testing.T) {
	repo := NewSessionRepository(time.Minute)

	got, found := repo.Get("nope")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestSessionRepositoryDelete(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	repo.Save(store.NewSession("abc"))

	repo.Delete("abc")

	_, found := repo.Get("abc")
	assert.False(t, found)

	// Deleting an absent session is a no-op.
	repo.Delete("abc")
}

func TestSessionRepositoryExpiry(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	repo.Save(store.NewSession("short"))

	time.Sleep(50 * time.Millisecond)

	_, found := repo.Get("short")
	assert.False(t, found)
}

func TestSessionRepositorySaveRefreshesTTL(t *testing.T) {
	repo := NewSessionRepository(60 * time.Millisecond)
	s := store.NewSession("active")
	repo.Save(s)

	// Keep the session busy past its original deadline.
	for i := 0; i < 3; i++ {
		time.Sleep(30 * time.Millisecond)
		repo.Save(s)
	}

	_, found := repo.Get("active")
	assert.True(t, found)
}

func TestSessionRepositoryDefaultTTL(t *testing.T) {
	// A non-positive ttl must still produce a working store.
	repo := NewSessionRepository(0)
	repo.Save(store.NewSession("abc"))

	_, found := repo.Get("abc")
	assert.True(t, found)
}

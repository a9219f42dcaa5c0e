package memory

import (
	"testing"
	"time"

	"ship-consultant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositorySaveGetDelete(t *testing.T) {
	repo := NewSessionRepository(1 * time.Hour)

	_, found := repo.Get("missing")
	assert.False(t, found)

	sess := &store.Session{
		ID:    "conv-1",
		Phase: store.PhaseDiscovery,
		Preferences: store.Preferences{
			Playstyles: []string{"combat"},
		},
	}
	repo.Save(sess)

	got, found := repo.Get("conv-1")
	require.True(t, found)
	assert.Equal(t, store.PhaseDiscovery, got.Phase)
	assert.Equal(t, []string{"combat"}, got.Preferences.Playstyles)

	repo.Delete("conv-1")
	_, found = repo.Get("conv-1")
	assert.False(t, found)
}

func TestSessionRepositoryTurnLock(t *testing.T) {
	repo := NewSessionRepository(1 * time.Hour)

	require.True(t, repo.TryLock("conv-1"))

	// second claim on the same session fails while the lock is held
	assert.False(t, repo.TryLock("conv-1"))

	// other sessions are unaffected
	assert.True(t, repo.TryLock("conv-2"))

	repo.Unlock("conv-1")
	assert.True(t, repo.TryLock("conv-1"))
}

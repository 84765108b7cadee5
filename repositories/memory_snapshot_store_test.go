package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemorySnapshotStore_SavedCopiesAreIsolated(t *testing.T) {
	req := require.New(t)
	store := NewMemorySnapshotStore()

	s, err := store.Load()
	req.NoError(err)
	req.Equal(1, store.Saves())

	want := sampleSnapshot()
	req.NoError(store.Save(want))
	want.Users[0].Username = "mutated after save"

	got, err := store.Load()
	req.NoError(err)
	req.Equal("Alice", got.Users[0].Username)
	req.Equal(2, store.Saves())
	req.Empty(s.Users)
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/forestclash/internal/record"
	"github.com/peterkuimelis/forestclash/internal/record/recordtest"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	recordtest.Run(t, func(t *testing.T) record.Recorder {
		return openTempStore(t)
	})
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, recordtest.Sample("bob", record.WinnerPlayer, 22, 4, 0)))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	st, err := store.Stats(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, st.GamesPlayed)
	assert.Equal(t, 22, st.HighestScore)
}

func TestNilStore(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
	assert.Error(t, s.Record(context.Background(), recordtest.Sample("x", record.WinnerPlayer, 20, 0, 0)))
	_, err := s.Stats(context.Background(), "x")
	assert.Error(t, err)
	_, err = s.Get(context.Background(), "x")
	assert.Error(t, err)
	_, err = s.Leaderboard(context.Background(), 5)
	assert.Error(t, err)
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nCREATE x;\n", upSection("-- +migrate Up\nCREATE x;\n-- +migrate Down\nDROP x;"))
	assert.Equal(t, "CREATE y;", upSection("CREATE y;"))
}

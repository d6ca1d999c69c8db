// Package recordtest holds behaviour checks shared by every Recorder.
package recordtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/forestclash/internal/record"
)

var base = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

// Sample returns a finished-match record created offset minutes after a
// fixed instant.
func Sample(account, winner string, playerScore, opponentScore int, offset int) record.MatchRecord {
	created := base.Add(time.Duration(offset) * time.Minute)
	return record.MatchRecord{
		ID:            uuid.NewString(),
		AccountID:     account,
		Winner:        winner,
		PlayerScore:   playerScore,
		OpponentScore: opponentScore,
		Turns:         12,
		Duration:      3*time.Minute + 15*time.Second,
		Moves: []record.Move{
			{Side: record.WinnerPlayer, Description: "Planted Tree x4 (+4)", Timestamp: created.Add(-2 * time.Minute)},
			{Side: record.WinnerOpponent, Description: "Burned Player's Tree x4 (4)", Timestamp: created.Add(-time.Minute)},
		},
		CreatedAt: created,
	}
}

// Run exercises a Recorder. newRecorder must return an empty store.
func Run(t *testing.T, newRecorder func(t *testing.T) record.Recorder) {
	t.Run("stats accumulate", func(t *testing.T) {
		r := newRecorder(t)
		ctx := context.Background()
		account := "acct-" + uuid.NewString()

		require.NoError(t, r.Record(ctx, Sample(account, record.WinnerPlayer, 21, 8, 0)))
		require.NoError(t, r.Record(ctx, Sample(account, record.WinnerOpponent, 11, 20, 1)))
		require.NoError(t, r.Record(ctx, Sample(account, record.WinnerPlayer, 24, 3, 2)))

		got, err := r.Stats(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, record.Stats{
			AccountID:    account,
			GamesPlayed:  3,
			GamesWon:     2,
			GamesLost:    1,
			HighestScore: 24,
		}, got)
	})

	t.Run("unknown account", func(t *testing.T) {
		r := newRecorder(t)
		_, err := r.Stats(context.Background(), "nobody-"+uuid.NewString())
		assert.ErrorIs(t, err, record.ErrNotFound)

		recent, err := r.Recent(context.Background(), "nobody-"+uuid.NewString(), 5)
		require.NoError(t, err)
		assert.Empty(t, recent)
	})

	t.Run("anonymous", func(t *testing.T) {
		r := newRecorder(t)
		ctx := context.Background()
		before, err := r.Stats(ctx, "")
		if err != nil {
			require.ErrorIs(t, err, record.ErrNotFound)
		}

		require.NoError(t, r.Record(ctx, Sample("", record.WinnerPlayer, 20, 0, 0)))

		got, err := r.Stats(ctx, record.AnonymousAccount)
		require.NoError(t, err)
		assert.Equal(t, record.AnonymousAccount, got.AccountID)
		assert.Equal(t, before.GamesPlayed+1, got.GamesPlayed)
	})

	t.Run("recent newest first", func(t *testing.T) {
		r := newRecorder(t)
		ctx := context.Background()
		account := "acct-" + uuid.NewString()
		var ids []string
		for i := 0; i < 4; i++ {
			rec := Sample(account, record.WinnerPlayer, 20+i, i, i)
			ids = append(ids, rec.ID)
			require.NoError(t, r.Record(ctx, rec))
		}

		recent, err := r.Recent(ctx, account, 3)
		require.NoError(t, err)
		require.Len(t, recent, 3)
		assert.Equal(t, []string{ids[3], ids[2], ids[1]}, []string{recent[0].ID, recent[1].ID, recent[2].ID})

		got := recent[0]
		assert.Equal(t, 23, got.PlayerScore)
		assert.Equal(t, 3, got.OpponentScore)
		assert.Equal(t, 12, got.Turns)
		assert.Equal(t, 3*time.Minute+15*time.Second, got.Duration)
		assert.True(t, base.Add(3*time.Minute).Equal(got.CreatedAt))
		require.Len(t, got.Moves, 2)
		assert.Equal(t, "Planted Tree x4 (+4)", got.Moves[0].Description)
		assert.Equal(t, record.WinnerOpponent, got.Moves[1].Side)
	})

	t.Run("duplicate id", func(t *testing.T) {
		r := newRecorder(t)
		ctx := context.Background()
		rec := Sample("acct-"+uuid.NewString(), record.WinnerPlayer, 20, 1, 0)
		require.NoError(t, r.Record(ctx, rec))

		assert.ErrorIs(t, r.Record(ctx, rec), record.ErrAlreadyExists)

		got, err := r.Stats(ctx, rec.AccountID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.GamesPlayed, "a rejected record must not count")
	})

	t.Run("invalid record", func(t *testing.T) {
		r := newRecorder(t)
		rec := Sample("acct", "draw", 20, 20, 0)
		assert.Error(t, r.Record(context.Background(), rec))
	})

	t.Run("get by id", func(t *testing.T) {
		r := newRecorder(t)
		ctx := context.Background()
		rec := Sample("acct-"+uuid.NewString(), record.WinnerOpponent, 6, 20, 0)
		require.NoError(t, r.Record(ctx, rec))

		got, err := r.Get(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, rec.AccountID, got.AccountID)
		assert.Equal(t, record.WinnerOpponent, got.Winner)
		assert.Equal(t, 20, got.OpponentScore)
		require.Len(t, got.Moves, 2)

		_, err = r.Get(ctx, uuid.NewString())
		assert.ErrorIs(t, err, record.ErrNotFound)
		_, err = r.Get(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, record.ErrNotFound)
	})

	t.Run("leaderboard", func(t *testing.T) {
		r := newRecorder(t)
		ctx := context.Background()
		leader := "lead-" + uuid.NewString()
		runnerUp := "runner-" + uuid.NewString()
		for i := 0; i < 3; i++ {
			require.NoError(t, r.Record(ctx, Sample(leader, record.WinnerPlayer, 20, 5, i)))
		}
		require.NoError(t, r.Record(ctx, Sample(runnerUp, record.WinnerPlayer, 25, 2, 3)))
		require.NoError(t, r.Record(ctx, Sample(runnerUp, record.WinnerOpponent, 4, 20, 4)))

		board, err := r.Leaderboard(ctx, 0)
		require.NoError(t, err)
		require.LessOrEqual(t, len(board), 10)
		for i := 1; i < len(board); i++ {
			assert.GreaterOrEqual(t, board[i-1].GamesWon, board[i].GamesWon)
		}
		ranks := map[string]int{}
		for i, st := range board {
			ranks[st.AccountID] = i
		}
		require.Contains(t, ranks, leader)
		require.Contains(t, ranks, runnerUp)
		assert.Less(t, ranks[leader], ranks[runnerUp])
		assert.Equal(t, record.Stats{AccountID: runnerUp, GamesPlayed: 2, GamesWon: 1, GamesLost: 1, HighestScore: 25}, board[ranks[runnerUp]])

		top, err := r.Leaderboard(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, top, 1)
	})

	t.Run("cancelled context", func(t *testing.T) {
		r := newRecorder(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, r.Record(ctx, Sample("acct", record.WinnerPlayer, 20, 0, 0)), context.Canceled)
	})
}

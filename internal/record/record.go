// Package record stores finished matches and the per-account stats derived
// from them.
package record

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/forestclash/internal/game"
)

// AnonymousAccount is used when a match is recorded without an account.
const AnonymousAccount = "anonymous"

// Winner labels stored with each record.
const (
	WinnerPlayer   = "player"
	WinnerOpponent = "opponent"
)

var (
	// ErrNotFound is returned when an account has no recorded matches.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a record ID is stored twice.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrMatchInProgress is returned when a summary of an unfinished match is recorded.
	ErrMatchInProgress = errors.New("match is not over")
)

// Move is one resolved action of a recorded match.
type Move struct {
	Side        string    `json:"side"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// MatchRecord is one finished match as stored.
type MatchRecord struct {
	ID            string        `json:"id"`
	AccountID     string        `json:"account_id"`
	Winner        string        `json:"winner"`
	PlayerScore   int           `json:"player_score"`
	OpponentScore int           `json:"opponent_score"`
	Turns         int           `json:"turns"`
	Duration      time.Duration `json:"duration"`
	Moves         []Move        `json:"moves"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Stats is the running tally for one account.
type Stats struct {
	AccountID    string `json:"account_id"`
	GamesPlayed  int    `json:"games_played"`
	GamesWon     int    `json:"games_won"`
	GamesLost    int    `json:"games_lost"`
	HighestScore int    `json:"highest_score"`
}

// Recorder is the persistence collaborator notified when a match ends.
type Recorder interface {
	// Record stores rec and updates the account's stats in one step.
	Record(ctx context.Context, rec MatchRecord) error
	// Stats returns the account's tally, or ErrNotFound.
	Stats(ctx context.Context, accountID string) (Stats, error)
	// Recent returns up to limit records for the account, newest first.
	Recent(ctx context.Context, accountID string, limit int) ([]MatchRecord, error)
	// Get returns one record by id, or ErrNotFound.
	Get(ctx context.Context, id string) (MatchRecord, error)
	// Leaderboard returns up to limit accounts in RankStats order.
	Leaderboard(ctx context.Context, limit int) ([]Stats, error)
}

// FromSummary builds a record for a finished match. The Player side is the
// account holder.
func FromSummary(accountID string, s game.MatchSummary, now time.Time) (MatchRecord, error) {
	if !s.Over {
		return MatchRecord{}, ErrMatchInProgress
	}
	rec := MatchRecord{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		Winner:        winnerLabel(s.Winner),
		PlayerScore:   s.FinalScores[game.SidePlayer],
		OpponentScore: s.FinalScores[game.SideOpponent],
		Turns:         s.Turns,
		Duration:      s.Duration,
		CreatedAt:     now.UTC(),
	}
	for _, m := range s.Moves {
		rec.Moves = append(rec.Moves, Move{
			Side:        winnerLabel(m.Side),
			Description: m.Description,
			Timestamp:   m.Timestamp.UTC(),
		})
	}
	return rec, nil
}

func winnerLabel(s game.Side) string {
	if s == game.SideOpponent {
		return WinnerOpponent
	}
	return WinnerPlayer
}

// Normalize validates rec and fills defaults before it is stored.
func Normalize(rec MatchRecord) (MatchRecord, error) {
	rec.AccountID = NormalizeAccount(rec.AccountID)
	rec.ID = strings.TrimSpace(rec.ID)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if _, err := uuid.Parse(rec.ID); err != nil {
		return MatchRecord{}, fmt.Errorf("record id %q: %w", rec.ID, err)
	}
	if rec.Winner != WinnerPlayer && rec.Winner != WinnerOpponent {
		return MatchRecord{}, fmt.Errorf("winner must be %q or %q, got %q", WinnerPlayer, WinnerOpponent, rec.Winner)
	}
	if rec.PlayerScore < 0 || rec.OpponentScore < 0 {
		return MatchRecord{}, fmt.Errorf("scores must not be negative")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

// NormalizeAccount maps an empty account onto AnonymousAccount.
func NormalizeAccount(accountID string) string {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return AnonymousAccount
	}
	return accountID
}

// Apply folds one record into the tally.
func (s Stats) Apply(rec MatchRecord) Stats {
	s.AccountID = rec.AccountID
	s.GamesPlayed++
	if rec.Winner == WinnerPlayer {
		s.GamesWon++
	} else {
		s.GamesLost++
	}
	if rec.PlayerScore > s.HighestScore {
		s.HighestScore = rec.PlayerScore
	}
	return s
}

// WonIncrement and LostIncrement give the 0/1 deltas SQL stores apply.
func (rec MatchRecord) WonIncrement() int {
	if rec.Winner == WinnerPlayer {
		return 1
	}
	return 0
}

func (rec MatchRecord) LostIncrement() int {
	return 1 - rec.WonIncrement()
}

// RankStats orders accounts for the leaderboard: most games won first, then
// highest score, then account id.
func RankStats(stats []Stats) {
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.GamesWon != b.GamesWon {
			return a.GamesWon > b.GamesWon
		}
		if a.HighestScore != b.HighestScore {
			return a.HighestScore > b.HighestScore
		}
		return a.AccountID < b.AccountID
	})
}

// ClampLimit bounds a Recent limit to 1..100, defaulting to 10.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > 100:
		return 100
	}
	return limit
}

// Package sqlite provides a SQLite-backed match record store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/peterkuimelis/forestclash/internal/record"
	"github.com/peterkuimelis/forestclash/internal/record/sqlite/migrations"
)

// Store persists match records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite record store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record inserts the match and folds it into the account's stats in one
// transaction.
func (s *Store) Record(ctx context.Context, rec record.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	rec, err := record.Normalize(rec)
	if err != nil {
		return err
	}
	moves, err := json.Marshal(movesOrEmpty(rec.Moves))
	if err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (
		   id, account_id, winner, player_score, opponent_score, turns, duration_ms, moves, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.AccountID,
		rec.Winner,
		rec.PlayerScore,
		rec.OpponentScore,
		rec.Turns,
		rec.Duration.Milliseconds(),
		string(moves),
		toMillis(rec.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return record.ErrAlreadyExists
		}
		return fmt.Errorf("insert match: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO account_stats (account_id, games_played, games_won, games_lost, highest_score, updated_at)
		 VALUES (?, 1, ?, ?, ?, ?)
		 ON CONFLICT (account_id) DO UPDATE SET
		   games_played = games_played + 1,
		   games_won = games_won + excluded.games_won,
		   games_lost = games_lost + excluded.games_lost,
		   highest_score = MAX(highest_score, excluded.highest_score),
		   updated_at = excluded.updated_at`,
		rec.AccountID,
		rec.WonIncrement(),
		rec.LostIncrement(),
		rec.PlayerScore,
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("update account stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}

// Stats returns the tally for one account.
func (s *Store) Stats(ctx context.Context, accountID string) (record.Stats, error) {
	if err := ctx.Err(); err != nil {
		return record.Stats{}, err
	}
	if s == nil || s.sqlDB == nil {
		return record.Stats{}, fmt.Errorf("storage is not configured")
	}
	st := record.Stats{AccountID: record.NormalizeAccount(accountID)}
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT games_played, games_won, games_lost, highest_score
		 FROM account_stats WHERE account_id = ?`,
		st.AccountID,
	).Scan(&st.GamesPlayed, &st.GamesWon, &st.GamesLost, &st.HighestScore)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Stats{}, record.ErrNotFound
	}
	if err != nil {
		return record.Stats{}, fmt.Errorf("get account stats: %w", err)
	}
	return st, nil
}

// Recent lists the newest records for an account.
func (s *Store) Recent(ctx context.Context, accountID string, limit int) ([]record.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE account_id = ?
		 ORDER BY created_at DESC, seq DESC
		 LIMIT ?`,
		record.NormalizeAccount(accountID),
		record.ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []record.MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

// Get loads one match by id.
func (s *Store) Get(ctx context.Context, id string) (record.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return record.MatchRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return record.MatchRecord{}, fmt.Errorf("storage is not configured")
	}
	rec, err := scanMatch(s.sqlDB.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = ?`,
		strings.TrimSpace(id),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return record.MatchRecord{}, record.ErrNotFound
	}
	if err != nil {
		return record.MatchRecord{}, err
	}
	return rec, nil
}

// Leaderboard ranks accounts by games won.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]record.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT account_id, games_played, games_won, games_lost, highest_score
		 FROM account_stats
		 ORDER BY games_won DESC, highest_score DESC, account_id ASC
		 LIMIT ?`,
		record.ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	var out []record.Stats
	for rows.Next() {
		var st record.Stats
		if err := rows.Scan(&st.AccountID, &st.GamesPlayed, &st.GamesWon, &st.GamesLost, &st.HighestScore); err != nil {
			return nil, fmt.Errorf("scan account stats: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return out, nil
}

const matchColumns = `id, account_id, winner, player_score, opponent_score, turns, duration_ms, moves, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (record.MatchRecord, error) {
	var (
		rec        record.MatchRecord
		durationMS int64
		moves      string
		createdAt  int64
	)
	if err := row.Scan(
		&rec.ID,
		&rec.AccountID,
		&rec.Winner,
		&rec.PlayerScore,
		&rec.OpponentScore,
		&rec.Turns,
		&durationMS,
		&moves,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record.MatchRecord{}, err
		}
		return record.MatchRecord{}, fmt.Errorf("scan match: %w", err)
	}
	if err := json.Unmarshal([]byte(moves), &rec.Moves); err != nil {
		return record.MatchRecord{}, fmt.Errorf("decode moves for %s: %w", rec.ID, err)
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}

func movesOrEmpty(moves []record.Move) []record.Move {
	if moves == nil {
		return []record.Move{}
	}
	return moves
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ record.Recorder = (*Store)(nil)

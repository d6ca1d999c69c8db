// Package postgres provides a PostgreSQL-backed match record store.
package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peterkuimelis/forestclash/internal/record"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// Store persists match records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, verifies the connection and ensures the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Record inserts the match and folds it into the account's stats in one
// transaction.
func (s *Store) Record(ctx context.Context, rec record.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.pool == nil {
		return fmt.Errorf("storage is not configured")
	}
	rec, err := record.Normalize(rec)
	if err != nil {
		return err
	}
	moves := rec.Moves
	if moves == nil {
		moves = []record.Move{}
	}
	movesJSON, err := json.Marshal(moves)
	if err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO matches (
			   id, account_id, winner, player_score, opponent_score, turns, duration_ms, moves, created_at
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rec.ID,
			rec.AccountID,
			rec.Winner,
			rec.PlayerScore,
			rec.OpponentScore,
			rec.Turns,
			rec.Duration.Milliseconds(),
			movesJSON,
			rec.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return record.ErrAlreadyExists
			}
			return fmt.Errorf("insert match: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO account_stats (account_id, games_played, games_won, games_lost, highest_score, updated_at)
			 VALUES ($1, 1, $2, $3, $4, now())
			 ON CONFLICT (account_id) DO UPDATE SET
			   games_played = account_stats.games_played + 1,
			   games_won = account_stats.games_won + EXCLUDED.games_won,
			   games_lost = account_stats.games_lost + EXCLUDED.games_lost,
			   highest_score = GREATEST(account_stats.highest_score, EXCLUDED.highest_score),
			   updated_at = EXCLUDED.updated_at`,
			rec.AccountID,
			rec.WonIncrement(),
			rec.LostIncrement(),
			rec.PlayerScore,
		)
		if err != nil {
			return fmt.Errorf("update account stats: %w", err)
		}
		return nil
	})
}

// Stats returns the tally for one account.
func (s *Store) Stats(ctx context.Context, accountID string) (record.Stats, error) {
	if err := ctx.Err(); err != nil {
		return record.Stats{}, err
	}
	if s == nil || s.pool == nil {
		return record.Stats{}, fmt.Errorf("storage is not configured")
	}
	st := record.Stats{AccountID: record.NormalizeAccount(accountID)}
	err := s.pool.QueryRow(ctx,
		`SELECT games_played, games_won, games_lost, highest_score
		 FROM account_stats WHERE account_id = $1`,
		st.AccountID,
	).Scan(&st.GamesPlayed, &st.GamesWon, &st.GamesLost, &st.HighestScore)
	if errors.Is(err, pgx.ErrNoRows) {
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
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE account_id = $1
		 ORDER BY created_at DESC, seq DESC
		 LIMIT $2`,
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

// Get loads one match by id. Ids that are not UUIDs cannot exist.
func (s *Store) Get(ctx context.Context, id string) (record.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return record.MatchRecord{}, err
	}
	if s == nil || s.pool == nil {
		return record.MatchRecord{}, fmt.Errorf("storage is not configured")
	}
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return record.MatchRecord{}, record.ErrNotFound
	}
	rec, err := scanMatch(s.pool.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`,
		parsed.String(),
	))
	if errors.Is(err, pgx.ErrNoRows) {
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
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.pool.Query(ctx,
		`SELECT account_id, games_played, games_won, games_lost, highest_score
		 FROM account_stats
		 ORDER BY games_won DESC, highest_score DESC, account_id ASC
		 LIMIT $1`,
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

const matchColumns = `id::text, account_id, winner, player_score, opponent_score, turns, duration_ms, moves, created_at`

func scanMatch(row pgx.Row) (record.MatchRecord, error) {
	var (
		rec        record.MatchRecord
		durationMS int64
		moves      []byte
		createdAt  time.Time
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
		if errors.Is(err, pgx.ErrNoRows) {
			return record.MatchRecord{}, err
		}
		return record.MatchRecord{}, fmt.Errorf("scan match: %w", err)
	}
	if err := json.Unmarshal(moves, &rec.Moves); err != nil {
		return record.MatchRecord{}, fmt.Errorf("decode moves for %s: %w", rec.ID, err)
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.CreatedAt = createdAt.UTC()
	return rec, nil
}

var _ record.Recorder = (*Store)(nil)

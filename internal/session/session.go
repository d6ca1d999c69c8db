// Package session drives one match for a human seated on the Player side:
// it forwards the human's operations, plays the opponent's turn when asked,
// and records the match once it is over.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/peterkuimelis/forestclash/internal/game"
	"github.com/peterkuimelis/forestclash/internal/log"
	"github.com/peterkuimelis/forestclash/internal/record"
	"github.com/peterkuimelis/forestclash/internal/view"
)

// Human is the seat every front end plays.
const Human = game.SidePlayer

// Options configures a new session.
type Options struct {
	Rules    game.Rules
	Catalog  *game.Catalog
	Seed     int64
	Account  string
	Recorder record.Recorder // nil disables recording
	Logger   *zap.Logger
	// Events receives every game event in addition to the session buffer.
	Events log.EventLogger
	Now    func() time.Time
}

// Session holds the state of a single match. Safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	match    *game.Match
	events   *log.MemoryLogger
	lastSeq  int
	account  string
	recorder record.Recorder
	zlog     *zap.Logger
	now      func() time.Time

	recorded  bool
	pending   *record.MatchRecord
	recordErr error
	recordID  string
}

// New deals a fresh match.
func New(opts Options) *Session {
	zlog := opts.Logger
	if zlog == nil {
		zlog = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	events := log.NewMemoryLogger()
	var sink log.EventLogger = events
	if opts.Events != nil {
		sink = teeLogger{events, opts.Events}
	}
	rules := opts.Rules
	s := &Session{
		events:   events,
		account:  record.NormalizeAccount(opts.Account),
		recorder: opts.Recorder,
		zlog:     zlog,
		now:      now,
	}
	s.match = game.NewMatch(game.MatchConfig{
		Rules:   &rules,
		Catalog: opts.Catalog,
		Seed:    opts.Seed,
		Logger:  sink,
		Zap:     zlog,
		Now:     now,
	})
	zlog.Info("session started", zap.String("account", s.account))
	return s
}

// PlayCard submits a card from the human's hand.
func (s *Session) PlayCard(ctx context.Context, instanceID int) game.Result {
	return s.apply(ctx, func(m *game.Match) game.Result {
		return m.SubmitCard(Human, instanceID)
	})
}

// SelectTarget confirms the pending effect. board names the board relative to
// the human: "you" or "opponent".
func (s *Session) SelectTarget(ctx context.Context, board string, index int) (game.Result, error) {
	owner, err := ParseBoard(board)
	if err != nil {
		return game.Result{}, err
	}
	return s.apply(ctx, func(m *game.Match) game.Result {
		return m.SubmitTarget(Human, owner, index)
	}), nil
}

// CancelTarget drops the pending effect.
func (s *Session) CancelTarget(ctx context.Context) game.Result {
	return s.apply(ctx, func(m *game.Match) game.Result {
		return m.CancelTargeting(Human)
	})
}

// EndTurn passes the rest of the human's turn.
func (s *Session) EndTurn(ctx context.Context) game.Result {
	return s.apply(ctx, func(m *game.Match) game.Result {
		return m.EndTurn(Human)
	})
}

// OpponentPending reports whether the opponent is due to move.
func (s *Session) OpponentPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opponentPending()
}

func (s *Session) opponentPending() bool {
	st := s.match.State
	return !st.Over && st.Active == game.SideOpponent
}

// PlayOpponent waits delay, then plays the opponent's turn. It returns false
// without waiting when the opponent is not due.
func (s *Session) PlayOpponent(ctx context.Context, delay time.Duration) (game.Result, bool, error) {
	if !s.OpponentPending() {
		return game.Result{}, false, nil
	}
	if err := sleep(ctx, delay); err != nil {
		return game.Result{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opponentPending() {
		return game.Result{}, false, nil
	}
	res := s.match.PlayOpponentTurn()
	s.afterMove(ctx)
	return res, true, nil
}

func (s *Session) apply(ctx context.Context, op func(*game.Match) game.Result) game.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := op(s.match)
	s.afterMove(ctx)
	return res
}

// afterMove records the match once it is over. A failed write is retried
// with the same record on the next call. The write is detached from ctx so a
// client hanging up at game over does not lose the result.
func (s *Session) afterMove(ctx context.Context) {
	if !s.match.State.Over || s.recorded || s.recorder == nil {
		return
	}
	if s.pending == nil {
		rec, err := record.FromSummary(s.account, s.match.Summary(), s.now())
		if err != nil {
			s.recorded = true
			s.recordErr = fmt.Errorf("record match: %w", err)
			s.zlog.Error("invalid match record", zap.String("account", s.account), zap.Error(err))
			return
		}
		s.pending = &rec
	}
	rec := *s.pending
	err := s.recorder.Record(context.WithoutCancel(ctx), rec)
	if errors.Is(err, record.ErrAlreadyExists) {
		// An earlier attempt reported failure but landed.
		err = nil
	}
	if err != nil {
		s.recordErr = fmt.Errorf("record match: %w", err)
		s.zlog.Error("failed to record match", zap.String("account", s.account), zap.Error(err))
		return
	}
	s.recorded = true
	s.recordErr = nil
	s.recordID = rec.ID
	s.zlog.Info("match recorded",
		zap.String("id", rec.ID),
		zap.String("account", rec.AccountID),
		zap.String("winner", rec.Winner),
		zap.Int("player_score", rec.PlayerScore),
	)
}

// RecordStatus reports the stored record ID, or the error that prevented
// storing it.
func (s *Session) RecordStatus() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordID, s.recordErr
}

// State builds the human's view of the table.
func (s *Session) State() *view.StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.BuildStateView(s.match, Human)
}

// Over reports whether the match has ended.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.State.Over
}

// Account is the account the match is recorded under.
func (s *Session) Account() string {
	return s.account
}

// DrainEvents returns the events logged since the previous call.
func (s *Session) DrainEvents() []log.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]log.GameEvent(nil), s.events.Since(s.lastSeq)...)
	if n := len(out); n > 0 {
		s.lastSeq = out[n-1].Seq
	}
	return out
}

// Summary returns the match summary.
func (s *Session) Summary() game.MatchSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Summary()
}

// ParseBoard maps "you"/"opponent" onto a side.
func ParseBoard(board string) (game.Side, error) {
	switch board {
	case "you", "self", "mine":
		return Human, nil
	case "opponent", "theirs":
		return Human.Other(), nil
	}
	return 0, fmt.Errorf("unknown board %q: want \"you\" or \"opponent\"", board)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// teeLogger writes every event to both loggers; Events reads the first.
type teeLogger struct {
	primary   log.EventLogger
	secondary log.EventLogger
}

func (t teeLogger) Log(e log.GameEvent) {
	t.primary.Log(e)
	t.secondary.Log(e)
}

func (t teeLogger) Events() []log.GameEvent {
	return t.primary.Events()
}

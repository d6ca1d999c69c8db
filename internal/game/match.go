package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/peterkuimelis/forestclash/internal/log"
)

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Rules   *Rules   // nil means DefaultRules
	Catalog *Catalog // nil means DefaultCatalog
	Seed    int64    // RNG seed (0 for random)
	Policy  OpponentPolicy
	Logger  log.EventLogger
	Zap     *zap.Logger
	Now     func() time.Time
}

// Match owns one game from deal to game over. It is driven entirely by
// explicit calls; it never sleeps or spawns goroutines, and is not safe for
// concurrent use.
type Match struct {
	State   *GameState
	Rules   Rules
	Catalog *Catalog
	Policy  OpponentPolicy
	Logger  log.EventLogger

	zlog    *zap.Logger
	now     func() time.Time
	started time.Time
	moves   []LogEntry
}

// NewMatch deals the opening hands and starts the Player's first turn.
func NewMatch(cfg MatchConfig) *Match {
	rules := DefaultRules()
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}
	rules = rules.normalized()

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	policy := cfg.Policy
	if policy == nil {
		policy = ScriptedPolicy{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	zlog := cfg.Zap
	if zlog == nil {
		zlog = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	m := &Match{
		State:   NewGameState(rules, seed),
		Rules:   rules,
		Catalog: catalog,
		Policy:  policy,
		Logger:  logger,
		zlog:    zlog,
		now:     now,
	}
	m.started = now()

	m.dealOpeningHands()
	m.beginTurn(SidePlayer)

	zlog.Debug("match started",
		zap.Int64("seed", seed),
		zap.Int("goal", rules.Goal),
		zap.Int("opening_hand", rules.OpeningHand),
	)
	return m
}

// --- Read accessors ---

// Area returns one side's hand, board and score.
func (m *Match) Area(side Side) *PlayerArea {
	return m.State.Area(side)
}

// History returns the retained history entries, oldest first.
func (m *Match) History() []LogEntry {
	return m.State.History.Entries()
}

// Winner returns the winning side once the match is over.
func (m *Match) Winner() (Side, bool) {
	return m.State.WinnerSide()
}

// MatchSummary is what a persistence collaborator needs once the match ends.
type MatchSummary struct {
	Over        bool
	Winner      Side
	FinalScores [2]int
	Moves       []LogEntry // every resolved action, not just the retained history
	Turns       int
	Duration    time.Duration
}

// Summary reports the current result and full move list.
func (m *Match) Summary() MatchSummary {
	gs := m.State
	moves := make([]LogEntry, len(m.moves))
	copy(moves, m.moves)
	return MatchSummary{
		Over:        gs.Over,
		Winner:      gs.Winner,
		FinalScores: [2]int{gs.Areas[SidePlayer].Score, gs.Areas[SideOpponent].Score},
		Moves:       moves,
		Turns:       gs.Turn,
		Duration:    m.now().Sub(m.started),
	}
}

// --- Turn & phase transitions ---

func (m *Match) dealOpeningHands() {
	n := m.Rules.OpeningHand
	if n == 0 {
		return
	}
	gs := m.State
	for _, side := range []Side{SidePlayer, SideOpponent} {
		area := gs.Area(side)
		for _, t := range m.Catalog.Deal(gs.rng, n) {
			area.Hand = append(area.Hand, gs.Instantiate(t))
		}
		m.log(log.NewDealEvent(int(side), n))
	}
}

// beginTurn hands the turn to side and runs its draw phase.
func (m *Match) beginTurn(side Side) {
	gs := m.State
	gs.Turn++
	gs.Active = side
	gs.Phase = PhaseDraw
	gs.TurnHasDrawn = false
	gs.ActionSpent = false
	gs.Pending = nil

	m.log(log.NewTurnEvent(gs.Turn, int(side)))
	m.drawPhase()
}

// drawPhase draws one card if the hand has room. It runs once per turn and
// always leaves the turn marked as drawn.
func (m *Match) drawPhase() {
	gs := m.State
	if gs.TurnHasDrawn {
		return
	}
	area := gs.ActiveArea()
	if len(area.Hand) < m.Rules.MaxHandSize {
		card := gs.Draw(m.Catalog, 1)[0]
		area.Hand = append(area.Hand, card)
		m.log(log.NewDrawEvent(gs.Turn, int(gs.Active), card.Template.Name))
	} else {
		m.log(log.NewHandFullEvent(gs.Turn, int(gs.Active)))
	}
	gs.TurnHasDrawn = true
	gs.Phase = PhaseAction
}

// SubmitCard plays a card from side's hand. Targeted cards played by the
// Player move the match into target selection without leaving the hand.
func (m *Match) SubmitCard(side Side, instanceID int) Result {
	gs := m.State
	if r, ok := m.checkTurn(side); !ok {
		return r
	}
	if gs.Phase == PhaseTargetSelect {
		return m.reject(side, ReasonTargetPending)
	}
	if gs.Phase != PhaseAction {
		return m.reject(side, ReasonWrongPhase)
	}
	if gs.ActionSpent {
		return m.reject(side, ReasonActionSpent)
	}
	card := gs.Area(side).FindInHand(instanceID)
	if card == nil {
		return m.reject(side, ReasonUnknownCard)
	}

	if side == SidePlayer && card.Type().NeedsTarget() && !m.resolvesWithoutTarget(side, card) {
		return m.beginTargeting(side, card)
	}
	return m.resolve(side, card, target{})
}

// EndTurn passes the rest of the turn. Not allowed while a target is pending.
func (m *Match) EndTurn(side Side) Result {
	gs := m.State
	if r, ok := m.checkTurn(side); !ok {
		return r
	}
	if gs.Phase == PhaseTargetSelect {
		return m.reject(side, ReasonTargetPending)
	}
	if gs.Phase != PhaseAction {
		return m.reject(side, ReasonWrongPhase)
	}
	m.log(log.NewEndTurnEvent(gs.Turn, int(side)))
	m.beginTurn(side.Other())
	return Result{Outcome: OutcomeTurnEnded, TurnEnded: true}
}

// PlayOpponentTurn runs the opponent policy for the current turn. Callers may
// delay before calling it; the engine does not care how long.
func (m *Match) PlayOpponentTurn() Result {
	gs := m.State
	if r, ok := m.checkTurn(SideOpponent); !ok {
		return r
	}
	if gs.Phase != PhaseAction {
		return m.reject(SideOpponent, ReasonWrongPhase)
	}

	decision := m.Policy.Decide(gs)
	if decision.Card == nil {
		m.log(log.NewPassEvent(gs.Turn, int(SideOpponent), decision.Reason))
		return m.EndTurn(SideOpponent)
	}

	m.zlog.Debug("opponent decision",
		zap.Int("turn", gs.Turn),
		zap.String("card", decision.Card.Template.ID),
		zap.String("reason", decision.Reason),
	)
	res := m.resolve(SideOpponent, decision.Card, target{})
	if !res.OK() {
		m.log(log.NewPassEvent(gs.Turn, int(SideOpponent), res.Reason.String()))
		return m.EndTurn(SideOpponent)
	}
	return res
}

// resolve applies a card's effect, logs it, checks for a win and then either
// ends the turn or returns to the Action phase.
func (m *Match) resolve(side Side, card *CardInstance, tgt target) Result {
	gs := m.State
	area := gs.Area(side)
	if card.Type() == CardTypeTree && area.Blocked() {
		res := m.reject(side, ReasonBlocked)
		res.Advisory = "You cannot plant trees while a Politician sits on your board."
		return res
	}

	area.RemoveFromHand(card)
	gs.Pending = nil
	gs.Phase = PhaseResolving
	m.log(log.NewPlayCardEvent(gs.Turn, gs.Phase.String(), int(side), card.Template.Name))

	desc := m.applyEffect(side, card, tgt)
	entry := m.appendHistory(side, desc)
	res := Result{Outcome: OutcomeResolved, Entry: &entry}

	if gs.checkWin(side) || gs.checkWin(side.Other()) {
		m.log(log.NewWinEvent(gs.Turn, int(gs.Winner), gs.Areas[gs.Winner].Score))
		m.zlog.Info("match over",
			zap.Stringer("winner", gs.Winner),
			zap.Int("player_score", gs.Areas[SidePlayer].Score),
			zap.Int("opponent_score", gs.Areas[SideOpponent].Score),
		)
		res.GameOver = true
		return res
	}

	if m.Rules.endsTurn(card.Type(), side) {
		m.log(log.NewEndTurnEvent(gs.Turn, int(side)))
		m.beginTurn(side.Other())
		res.TurnEnded = true
		return res
	}

	gs.Phase = PhaseAction
	if !m.Rules.ChainTurnPreserving {
		gs.ActionSpent = true
	}
	return res
}

// checkTurn rejects calls once the match is over or from the idle side.
func (m *Match) checkTurn(side Side) (Result, bool) {
	gs := m.State
	if gs.Over {
		return m.reject(side, ReasonGameOver), false
	}
	if side != gs.Active {
		return m.reject(side, ReasonNotYourTurn), false
	}
	return Result{}, true
}

func (m *Match) reject(side Side, reason RejectReason) Result {
	gs := m.State
	m.log(log.NewRejectedEvent(gs.Turn, gs.Phase.String(), int(side), reason.String()))
	m.zlog.Debug("action rejected",
		zap.Stringer("side", side),
		zap.Stringer("phase", gs.Phase),
		zap.Stringer("reason", reason),
	)
	return rejected(reason)
}

func (m *Match) appendHistory(side Side, desc string) LogEntry {
	entry := LogEntry{Side: side, Description: desc, Timestamp: m.now()}
	m.State.History.append(entry)
	m.moves = append(m.moves, entry)
	return entry
}

// log emits a game event through the logger.
func (m *Match) log(event log.GameEvent) {
	m.Logger.Log(event)
}

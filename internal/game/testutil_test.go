package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/forestclash/internal/log"
)

var testEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	tick := 0
	return func() time.Time {
		tick++
		return testEpoch.Add(time.Duration(tick) * time.Second)
	}
}

// newTestMatch starts a match with empty hands on the Player's first turn.
// The draw for turn 1 is discarded so each test builds the exact hand it needs.
func newTestMatch(t *testing.T, tweak ...func(*Rules)) (*Match, *log.MemoryLogger) {
	t.Helper()
	rules := DefaultRules()
	rules.OpeningHand = 0
	for _, f := range tweak {
		f(&rules)
	}
	logger := log.NewMemoryLogger()
	m := NewMatch(MatchConfig{Rules: &rules, Seed: 42, Logger: logger, Now: fixedClock()})
	m.Area(SidePlayer).Hand = nil
	require.Equal(t, SidePlayer, m.State.Active)
	require.Equal(t, PhaseAction, m.State.Phase)
	return m, logger
}

// giveCard puts a fresh instance of templateID into side's hand.
func giveCard(t *testing.T, m *Match, side Side, templateID string) *CardInstance {
	t.Helper()
	tmpl, ok := m.Catalog.Lookup(templateID)
	require.True(t, ok, "unknown template %q", templateID)
	card := m.State.Instantiate(tmpl)
	area := m.Area(side)
	area.Hand = append(area.Hand, card)
	return card
}

// placeOnBoard puts templateID on side's board as if it had been played there.
func placeOnBoard(t *testing.T, m *Match, side Side, templateID string) *CardInstance {
	t.Helper()
	tmpl, ok := m.Catalog.Lookup(templateID)
	require.True(t, ok, "unknown template %q", templateID)
	card := m.State.Instantiate(tmpl)
	card.PoliticalBlocker = tmpl.Type == CardTypePolitician
	area := m.Area(side)
	area.Board = append(area.Board, card)
	area.Score += tmpl.Points()
	return card
}

// snapshot captures the parts of state a rejected call must not touch.
type snapshot struct {
	Active   Side
	Phase    Phase
	Turn     int
	Hands    [2][]int
	Boards   [2][]int
	Scores   [2]int
	History  int
	Pending  bool
	GameOver bool
}

func takeSnapshot(m *Match) snapshot {
	gs := m.State
	s := snapshot{
		Active:   gs.Active,
		Phase:    gs.Phase,
		Turn:     gs.Turn,
		History:  gs.History.Total(),
		Pending:  gs.Pending != nil,
		GameOver: gs.Over,
	}
	for side := 0; side < 2; side++ {
		for _, c := range gs.Areas[side].Hand {
			s.Hands[side] = append(s.Hands[side], c.InstanceID)
		}
		for _, c := range gs.Areas[side].Board {
			s.Boards[side] = append(s.Boards[side], c.InstanceID)
		}
		s.Scores[side] = gs.Areas[side].Score
	}
	return s
}

// requireInvariants checks the properties every reachable state must hold.
func requireInvariants(t *testing.T, m *Match) {
	t.Helper()
	for side := SidePlayer; side <= SideOpponent; side++ {
		area := m.Area(side)
		require.GreaterOrEqual(t, area.Score, 0, "%s score", side)
		require.LessOrEqual(t, len(area.Hand), m.Rules.MaxHandSize, "%s hand size", side)
	}
	if m.State.Over {
		require.Equal(t, PhaseGameOver, m.State.Phase)
		require.GreaterOrEqual(t, m.Area(m.State.Winner).Score, m.State.Goal)
	}
}

// playRandomTurn drives one turn with legal-ish random choices for the Player
// and the scripted policy for the Opponent.
func playRandomTurn(t *testing.T, m *Match, rng *rand.Rand) {
	t.Helper()
	gs := m.State
	if gs.Active == SideOpponent {
		require.True(t, m.PlayOpponentTurn().OK())
		return
	}

	hand := m.Area(SidePlayer).Hand
	if len(hand) == 0 {
		require.True(t, m.EndTurn(SidePlayer).OK())
		return
	}
	card := hand[rng.Intn(len(hand))]
	res := m.SubmitCard(SidePlayer, card.InstanceID)
	if res.Outcome == OutcomeAwaitingTarget {
		owners := []Side{SideOpponent}
		if card.Type() == CardTypeContract {
			owners = []Side{SidePlayer, SideOpponent}
		}
		targeted := false
		for _, owner := range owners {
			if idx := m.ValidTargets(owner); len(idx) > 0 {
				res = m.SubmitTarget(SidePlayer, owner, idx[rng.Intn(len(idx))])
				require.True(t, res.OK())
				targeted = true
				break
			}
		}
		if !targeted {
			require.True(t, m.CancelTargeting(SidePlayer).OK())
		}
	}
	if !gs.Over && gs.Active == SidePlayer {
		require.True(t, m.EndTurn(SidePlayer).OK())
	}
}

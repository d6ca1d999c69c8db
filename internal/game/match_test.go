package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/forestclash/internal/log"
)

func TestPlantTreeEndsTurn(t *testing.T) {
	m, _ := newTestMatch(t)
	tree := giveCard(t, m, SidePlayer, "tree2")

	res := m.SubmitCard(SidePlayer, tree.InstanceID)

	require.Equal(t, OutcomeResolved, res.Outcome)
	assert.True(t, res.TurnEnded)
	assert.Equal(t, 2, m.Area(SidePlayer).Score)
	require.Len(t, m.Area(SidePlayer).Board, 1)
	assert.NotEqual(t, tree.InstanceID, m.Area(SidePlayer).Board[0].InstanceID)
	assert.Empty(t, m.Area(SidePlayer).Hand)
	assert.Equal(t, SideOpponent, m.State.Active)
	assert.Equal(t, PhaseAction, m.State.Phase)
	assert.True(t, m.State.TurnHasDrawn)
	require.NotNil(t, res.Entry)
	assert.Equal(t, SidePlayer, res.Entry.Side)
	assert.Contains(t, res.Entry.Description, "Tree x2")
}

func TestPlantWhileBlockedIsRejected(t *testing.T) {
	m, _ := newTestMatch(t)
	placeOnBoard(t, m, SidePlayer, "politician")
	tree := giveCard(t, m, SidePlayer, "tree3")
	before := takeSnapshot(m)

	res := m.SubmitCard(SidePlayer, tree.InstanceID)

	require.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, ReasonBlocked, res.Reason)
	assert.NotEmpty(t, res.Advisory)
	assert.ErrorIs(t, res.Err(), ErrRejected)
	assert.Equal(t, before, takeSnapshot(m))
	assert.NotNil(t, m.Area(SidePlayer).FindInHand(tree.InstanceID))
}

func TestWinningPlantEndsMatch(t *testing.T) {
	m, logger := newTestMatch(t)
	m.Area(SidePlayer).Score = 18
	tree := giveCard(t, m, SidePlayer, "tree3")
	spare := giveCard(t, m, SidePlayer, "tree1")

	res := m.SubmitCard(SidePlayer, tree.InstanceID)

	require.True(t, res.GameOver)
	assert.False(t, res.TurnEnded)
	assert.Equal(t, 21, m.Area(SidePlayer).Score)
	assert.Equal(t, PhaseGameOver, m.State.Phase)
	assert.Equal(t, SidePlayer, m.State.Active, "no turn flip after a win")
	winner, over := m.Winner()
	require.True(t, over)
	assert.Equal(t, SidePlayer, winner)
	require.Len(t, logger.EventsOfType(log.EventWin), 1)

	// GameOver is terminal.
	before := takeSnapshot(m)
	for _, r := range []Result{
		m.SubmitCard(SidePlayer, spare.InstanceID),
		m.EndTurn(SidePlayer),
		m.CancelTargeting(SidePlayer),
		m.SubmitTarget(SidePlayer, SideOpponent, 0),
		m.PlayOpponentTurn(),
	} {
		assert.Equal(t, ReasonGameOver, r.Reason)
	}
	assert.Equal(t, before, takeSnapshot(m))
}

func TestFireTargetsOpponentBoardAndKeepsTurn(t *testing.T) {
	m, _ := newTestMatch(t)
	placeOnBoard(t, m, SideOpponent, "tree4")
	fire := giveCard(t, m, SidePlayer, "fogata")

	res := m.SubmitCard(SidePlayer, fire.InstanceID)
	require.Equal(t, OutcomeAwaitingTarget, res.Outcome)
	assert.Equal(t, PhaseTargetSelect, m.State.Phase)
	assert.NotNil(t, m.Area(SidePlayer).FindInHand(fire.InstanceID), "card stays in hand until confirmed")

	res = m.SubmitTarget(SidePlayer, SideOpponent, 0)
	require.Equal(t, OutcomeResolved, res.Outcome)
	assert.False(t, res.TurnEnded)
	assert.Equal(t, 0, m.Area(SideOpponent).Score)
	assert.Empty(t, m.Area(SideOpponent).Board)
	assert.Nil(t, m.Area(SidePlayer).FindInHand(fire.InstanceID))
	assert.Equal(t, SidePlayer, m.State.Active)
	assert.Equal(t, PhaseAction, m.State.Phase)
	assert.Nil(t, m.State.Pending)
	assert.Equal(t, 1, m.State.History.Len())
}

func TestFireScoreFloorsAtZero(t *testing.T) {
	m, _ := newTestMatch(t)
	placeOnBoard(t, m, SideOpponent, "tree4")
	m.Area(SideOpponent).Score = 2
	fire := giveCard(t, m, SidePlayer, "fogata")

	m.SubmitCard(SidePlayer, fire.InstanceID)
	m.SubmitTarget(SidePlayer, SideOpponent, 0)

	assert.Equal(t, 0, m.Area(SideOpponent).Score)
}

func TestFireOnPoliticianLeavesScore(t *testing.T) {
	m, _ := newTestMatch(t)
	placeOnBoard(t, m, SideOpponent, "tree3")
	placeOnBoard(t, m, SideOpponent, "politician")
	require.True(t, m.Area(SideOpponent).Blocked())
	fire := giveCard(t, m, SidePlayer, "fogata")

	require.Equal(t, OutcomeAwaitingTarget, m.SubmitCard(SidePlayer, fire.InstanceID).Outcome)
	res := m.SubmitTarget(SidePlayer, SideOpponent, 1)

	require.Equal(t, OutcomeResolved, res.Outcome)
	assert.Equal(t, 3, m.Area(SideOpponent).Score, "only trees carry points")
	require.Len(t, m.Area(SideOpponent).Board, 1)
	assert.False(t, m.Area(SideOpponent).Blocked())
}

func TestTargetSelectRejections(t *testing.T) {
	m, _ := newTestMatch(t)
	placeOnBoard(t, m, SideOpponent, "tree1")
	placeOnBoard(t, m, SidePlayer, "tree2")
	fire := giveCard(t, m, SidePlayer, "fogata")
	tree := giveCard(t, m, SidePlayer, "tree4")

	require.Equal(t, OutcomeAwaitingTarget, m.SubmitCard(SidePlayer, fire.InstanceID).Outcome)
	before := takeSnapshot(m)

	tests := []struct {
		name   string
		call   func() Result
		reason RejectReason
	}{
		{"index past end", func() Result { return m.SubmitTarget(SidePlayer, SideOpponent, 1) }, ReasonInvalidTarget},
		{"negative index", func() Result { return m.SubmitTarget(SidePlayer, SideOpponent, -1) }, ReasonInvalidTarget},
		{"own board", func() Result { return m.SubmitTarget(SidePlayer, SidePlayer, 0) }, ReasonWrongBoard},
		{"bogus board", func() Result { return m.SubmitTarget(SidePlayer, Side(7), 0) }, ReasonWrongBoard},
		{"another card", func() Result { return m.SubmitCard(SidePlayer, tree.InstanceID) }, ReasonTargetPending},
		{"end turn", func() Result { return m.EndTurn(SidePlayer) }, ReasonTargetPending},
		{"wrong side", func() Result { return m.SubmitTarget(SideOpponent, SidePlayer, 0) }, ReasonNotYourTurn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.call()
			assert.Equal(t, OutcomeRejected, res.Outcome)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, before, takeSnapshot(m))
		})
	}
}

func TestCancelTargetingRestoresCard(t *testing.T) {
	m, logger := newTestMatch(t)
	placeOnBoard(t, m, SideOpponent, "tree1")
	fire := giveCard(t, m, SidePlayer, "fogata")
	tree := giveCard(t, m, SidePlayer, "tree2")

	m.SubmitCard(SidePlayer, fire.InstanceID)
	res := m.CancelTargeting(SidePlayer)

	require.Equal(t, OutcomeCancelled, res.Outcome)
	assert.Equal(t, PhaseAction, m.State.Phase)
	assert.Nil(t, m.State.Pending)
	assert.Len(t, m.Area(SidePlayer).Hand, 2)
	assert.Equal(t, 1, m.Area(SideOpponent).Score)
	assert.Len(t, logger.EventsOfType(log.EventTargetCancel), 1)

	// Nothing pending any more.
	assert.Equal(t, ReasonNoPendingTarget, m.CancelTargeting(SidePlayer).Reason)
	assert.Equal(t, ReasonNoPendingTarget, m.SubmitTarget(SidePlayer, SideOpponent, 0).Reason)

	// Another card may now be played.
	assert.True(t, m.SubmitCard(SidePlayer, tree.InstanceID).TurnEnded)
}

func TestWrongSideIsRejected(t *testing.T) {
	m, _ := newTestMatch(t)
	card := giveCard(t, m, SideOpponent, "tree1")
	before := takeSnapshot(m)

	assert.Equal(t, ReasonNotYourTurn, m.SubmitCard(SideOpponent, card.InstanceID).Reason)
	assert.Equal(t, ReasonNotYourTurn, m.EndTurn(SideOpponent).Reason)
	assert.Equal(t, ReasonNotYourTurn, m.PlayOpponentTurn().Reason)
	assert.Equal(t, before, takeSnapshot(m))
}

func TestUnknownCardIsRejected(t *testing.T) {
	m, _ := newTestMatch(t)
	theirs := giveCard(t, m, SideOpponent, "tree1")

	res := m.SubmitCard(SidePlayer, theirs.InstanceID)
	assert.Equal(t, ReasonUnknownCard, res.Reason)
	assert.Equal(t, ReasonUnknownCard, m.SubmitCard(SidePlayer, 9999).Reason)
}

func TestEndTurnFlipsAndDraws(t *testing.T) {
	m, logger := newTestMatch(t)
	turn := m.State.Turn

	res := m.EndTurn(SidePlayer)

	require.Equal(t, OutcomeTurnEnded, res.Outcome)
	assert.Equal(t, SideOpponent, m.State.Active)
	assert.Equal(t, turn+1, m.State.Turn)
	assert.Len(t, m.Area(SideOpponent).Hand, 1)
	assert.True(t, m.State.TurnHasDrawn)
	assert.Equal(t, 0, m.State.History.Len(), "passing is not a resolved action")
	assert.Equal(t, 0, m.Area(SidePlayer).Score)
	assert.NotEmpty(t, logger.EventsOfType(log.EventEndTurn))
}

func TestDrawSkippedWithFullHand(t *testing.T) {
	m, logger := newTestMatch(t)
	for i := 0; i < m.Rules.MaxHandSize; i++ {
		giveCard(t, m, SideOpponent, "tree1")
	}
	draws := len(logger.EventsOfType(log.EventDraw))

	m.EndTurn(SidePlayer)

	assert.Len(t, m.Area(SideOpponent).Hand, m.Rules.MaxHandSize)
	assert.True(t, m.State.TurnHasDrawn)
	assert.Equal(t, PhaseAction, m.State.Phase)
	drawEvents := logger.EventsOfType(log.EventDraw)
	require.Len(t, drawEvents, draws+1)
	assert.Empty(t, drawEvents[len(drawEvents)-1].Card, "full hand logs a skipped draw")
}

func TestOneDrawPerTurn(t *testing.T) {
	m, logger := newTestMatch(t)
	placeOnBoard(t, m, SideOpponent, "tree1")
	placeOnBoard(t, m, SideOpponent, "tree2")
	giveCard(t, m, SidePlayer, "fogata")
	giveCard(t, m, SidePlayer, "fogata")
	before := len(logger.EventsOfType(log.EventDraw))

	for _, c := range append([]*CardInstance(nil), m.Area(SidePlayer).Hand...) {
		m.SubmitCard(SidePlayer, c.InstanceID)
		m.SubmitTarget(SidePlayer, SideOpponent, 0)
	}

	assert.Equal(t, SidePlayer, m.State.Active)
	assert.Len(t, logger.EventsOfType(log.EventDraw), before, "chained actions never draw again")
}

func TestNewMatchDealsDistinctOpeningHands(t *testing.T) {
	m := NewMatch(MatchConfig{Seed: 7})

	assert.Equal(t, 1, m.State.Turn)
	assert.Equal(t, SidePlayer, m.State.Active)
	assert.Equal(t, PhaseAction, m.State.Phase)
	for _, side := range []Side{SidePlayer, SideOpponent} {
		hand := m.Area(side).Hand
		require.Len(t, hand, DefaultOpeningHand)
		seen := map[string]bool{}
		for _, c := range hand {
			assert.False(t, seen[c.Template.ID], "opening hand repeats %s", c.Template.ID)
			seen[c.Template.ID] = true
		}
		assert.Empty(t, m.Area(side).Board)
		assert.Zero(t, m.Area(side).Score)
	}
}

func TestEmptyOpeningHandDrawsOne(t *testing.T) {
	rules := DefaultRules()
	rules.OpeningHand = 0
	m := NewMatch(MatchConfig{Rules: &rules, Seed: 7})

	assert.Len(t, m.Area(SidePlayer).Hand, 1)
	assert.Empty(t, m.Area(SideOpponent).Hand)
}

func TestChainingDisabled(t *testing.T) {
	m, _ := newTestMatch(t, func(r *Rules) { r.ChainTurnPreserving = false })
	placeOnBoard(t, m, SideOpponent, "tree1")
	fire := giveCard(t, m, SidePlayer, "fogata")
	tree := giveCard(t, m, SidePlayer, "tree1")

	m.SubmitCard(SidePlayer, fire.InstanceID)
	require.True(t, m.SubmitTarget(SidePlayer, SideOpponent, 0).OK())

	assert.Equal(t, ReasonActionSpent, m.SubmitCard(SidePlayer, tree.InstanceID).Reason)
	assert.True(t, m.EndTurn(SidePlayer).TurnEnded)
}

func TestChainingEnabledAllowsSecondCard(t *testing.T) {
	m, _ := newTestMatch(t)
	placeOnBoard(t, m, SideOpponent, "tree1")
	fire := giveCard(t, m, SidePlayer, "fogata")
	tree := giveCard(t, m, SidePlayer, "tree1")

	m.SubmitCard(SidePlayer, fire.InstanceID)
	m.SubmitTarget(SidePlayer, SideOpponent, 0)
	res := m.SubmitCard(SidePlayer, tree.InstanceID)

	assert.True(t, res.TurnEnded)
	assert.Equal(t, 1, m.Area(SidePlayer).Score)
}

func TestHistoryIsCapped(t *testing.T) {
	m, _ := newTestMatch(t, func(r *Rules) { r.Goal = 1000 })
	for i := 0; i < 25; i++ {
		placeOnBoard(t, m, SideOpponent, "tree1")
	}
	for i := 0; i < 25; i++ {
		fire := giveCard(t, m, SidePlayer, "fogata")
		m.SubmitCard(SidePlayer, fire.InstanceID)
		require.True(t, m.SubmitTarget(SidePlayer, SideOpponent, 0).OK())
	}

	assert.Len(t, m.History(), DefaultHistoryCap)
	assert.Equal(t, 25, m.State.History.Total())
	summary := m.Summary()
	assert.Len(t, summary.Moves, 25)
	assert.False(t, summary.Over)
	entries := m.History()
	assert.True(t, entries[0].Timestamp.Before(entries[len(entries)-1].Timestamp))
}

func TestSummaryAfterWin(t *testing.T) {
	m, _ := newTestMatch(t)
	m.Area(SidePlayer).Score = 19
	m.Area(SideOpponent).Score = 7
	tree := giveCard(t, m, SidePlayer, "tree1")

	m.SubmitCard(SidePlayer, tree.InstanceID)
	s := m.Summary()

	assert.True(t, s.Over)
	assert.Equal(t, SidePlayer, s.Winner)
	assert.Equal(t, [2]int{20, 7}, s.FinalScores)
	require.Len(t, s.Moves, 1)
	assert.Positive(t, s.Duration)
}

func TestRandomPlayHoldsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		m := NewMatch(MatchConfig{Seed: seed})
		rng := rand.New(rand.NewSource(seed))
		for turns := 0; turns < 400 && !m.State.Over; turns++ {
			playRandomTurn(t, m, rng)
			requireInvariants(t, m)
		}
	}
}

func TestSameSeedSameGame(t *testing.T) {
	play := func() []log.GameEvent {
		logger := log.NewMemoryLogger()
		m := NewMatch(MatchConfig{Seed: 99, Logger: logger, Now: fixedClock()})
		rng := rand.New(rand.NewSource(5))
		for turns := 0; turns < 200 && !m.State.Over; turns++ {
			playRandomTurn(t, m, rng)
		}
		return logger.Events()
	}

	assert.Equal(t, play(), play())
}

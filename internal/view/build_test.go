package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/forestclash/internal/game"
	"github.com/peterkuimelis/forestclash/internal/log"
)

func newMatch(t *testing.T) *game.Match {
	t.Helper()
	m := game.NewMatch(game.MatchConfig{Seed: 11})
	require.Equal(t, game.SidePlayer, m.State.Active)
	return m
}

func TestBuildStateViewHidesOpponentHand(t *testing.T) {
	m := newMatch(t)

	sv := BuildStateView(m, game.SidePlayer)

	assert.True(t, sv.IsYourTurn)
	assert.Equal(t, "Action", sv.Phase)
	assert.Equal(t, game.DefaultGoal, sv.Goal)
	assert.Len(t, sv.You.Hand, sv.You.HandCount)
	assert.Equal(t, m.Area(game.SideOpponent).HandCount(), sv.Opponent.HandCount)
	assert.Nil(t, sv.Opponent.Hand)
	assert.NotNil(t, sv.You.Board)

	data, err := json.Marshal(sv)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	var opponent map[string]any
	require.NoError(t, json.Unmarshal(raw["opponent"], &opponent))
	assert.Contains(t, opponent, "hand_count")
	_, hasHand := opponent["hand"]
	assert.False(t, hasHand, "opponent hand must not be serialized")

	theirs := BuildStateView(m, game.SideOpponent)
	assert.False(t, theirs.IsYourTurn)
	assert.Len(t, theirs.You.Hand, m.Area(game.SideOpponent).HandCount())
}

func TestBuildStateViewPendingTargets(t *testing.T) {
	m := newMatch(t)
	catalog := m.Catalog
	tree, _ := catalog.Lookup("tree3")
	fire, _ := catalog.Lookup("fogata")
	opp := m.Area(game.SideOpponent)
	opp.Board = append(opp.Board, m.State.Instantiate(tree))
	opp.Score += 3
	card := m.State.Instantiate(fire)
	me := m.Area(game.SidePlayer)
	me.Hand = []*game.CardInstance{card}

	res := m.SubmitCard(game.SidePlayer, card.InstanceID)
	require.Equal(t, game.OutcomeAwaitingTarget, res.Outcome)

	sv := BuildStateView(m, game.SidePlayer)
	require.NotNil(t, sv.Pending)
	assert.Equal(t, "Campfire", sv.Pending.Card.Name)
	require.Len(t, sv.Pending.Targets, 1)
	assert.Equal(t, TargetView{Board: "opponent", Index: 0, Name: "Tree x3"}, sv.Pending.Targets[0])

	assert.Nil(t, BuildStateView(m, game.SideOpponent).Pending)

	rv := Result(m.SubmitTarget(game.SidePlayer, game.SideOpponent, 0), game.SidePlayer)
	assert.Equal(t, "resolved", rv.Outcome)
	require.NotNil(t, rv.Entry)
	assert.Equal(t, "you", rv.Entry.Side)
	assert.Empty(t, rv.Reason)
}

func TestResultRejected(t *testing.T) {
	m := newMatch(t)

	rv := Result(m.EndTurn(game.SideOpponent), game.SideOpponent)

	assert.Equal(t, "rejected", rv.Outcome)
	assert.Equal(t, game.ReasonNotYourTurn.String(), rv.Reason)
	assert.NotEmpty(t, rv.Advisory)
	assert.Nil(t, rv.Entry)
}

func TestGameOverView(t *testing.T) {
	m := newMatch(t)
	tree, _ := m.Catalog.Lookup("tree4")
	card := m.State.Instantiate(tree)
	me := m.Area(game.SidePlayer)
	me.Hand = []*game.CardInstance{card}
	me.Score = 19

	require.True(t, m.SubmitCard(game.SidePlayer, card.InstanceID).GameOver)

	sv := BuildStateView(m, game.SidePlayer)
	assert.True(t, sv.GameOver)
	assert.Equal(t, "you", sv.Winner)
	assert.False(t, sv.IsYourTurn)
	assert.Equal(t, "opponent", BuildStateView(m, game.SideOpponent).Winner)
	require.Len(t, sv.History, 1)
	assert.Equal(t, "you", sv.History[0].Side)
}

func TestTemplatesAndEvents(t *testing.T) {
	tv := Templates(game.DefaultCatalog())
	require.Len(t, tv, 9)
	assert.Equal(t, TemplateView{ID: "tree1", Name: "Tree x1", Type: "tree", Value: 1, Image: "Arbol1.png"}, tv[0])

	assert.NotNil(t, Events(nil))
	ev := Event(log.NewDrawEvent(2, 1, "Wildfire"))
	assert.Equal(t, "Opponent", ev.Player)
	assert.Equal(t, "Draw", ev.Type)
	assert.Equal(t, "Wildfire", ev.Card)
}

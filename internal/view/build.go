package view

import (
	"github.com/peterkuimelis/forestclash/internal/game"
	"github.com/peterkuimelis/forestclash/internal/log"
)

// BuildStateView creates a StateView from the perspective of the given side.
// The other side's hand is reduced to a count.
func BuildStateView(m *game.Match, side game.Side) *StateView {
	state := m.State
	me := state.Area(side)
	opp := state.Area(side.Other())

	sv := &StateView{
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		IsYourTurn: state.Active == side && !state.Over,
		Goal:       state.Goal,
		History:    []HistoryView{},
	}

	sv.You = buildPlayerView(me)
	for _, c := range me.Hand {
		sv.You.Hand = append(sv.You.Hand, Card(c))
	}
	sv.Opponent = buildPlayerView(opp)

	if p := state.Pending; p != nil && p.Side == side {
		pv := &PendingView{Card: Card(p.Source), Targets: []TargetView{}}
		for _, owner := range []game.Side{side, side.Other()} {
			board := state.Area(owner).Board
			for _, idx := range m.ValidTargets(owner) {
				pv.Targets = append(pv.Targets, TargetView{
					Board: relativeSide(owner, side),
					Index: idx,
					Name:  board[idx].Template.Name,
				})
			}
		}
		sv.Pending = pv
	}

	if winner, over := m.Winner(); over {
		sv.GameOver = true
		sv.Winner = relativeSide(winner, side)
	}

	for _, e := range m.History() {
		sv.History = append(sv.History, History(e, side))
	}
	return sv
}

func buildPlayerView(a *game.PlayerArea) PlayerView {
	pv := PlayerView{
		Score:     a.Score,
		HandCount: a.HandCount(),
		Board:     []CardView{},
		Blocked:   a.Blocked(),
	}
	for _, c := range a.Board {
		pv.Board = append(pv.Board, Card(c))
	}
	return pv
}

// Card converts a card instance.
func Card(c *game.CardInstance) CardView {
	t := c.Template
	return CardView{
		ID:       c.InstanceID,
		Template: t.ID,
		Name:     t.Name,
		Type:     t.Type.String(),
		Value:    t.Value,
		Image:    t.ImageRef,
		Blocker:  c.PoliticalBlocker,
	}
}

// Templates lists the catalog in declaration order.
func Templates(c *game.Catalog) []TemplateView {
	var out []TemplateView
	for _, t := range c.Templates() {
		out = append(out, TemplateView{
			ID:    t.ID,
			Name:  t.Name,
			Type:  t.Type.String(),
			Value: t.Value,
			Image: t.ImageRef,
		})
	}
	return out
}

// History converts a history entry, naming sides relative to viewer.
func History(e game.LogEntry, viewer game.Side) HistoryView {
	return HistoryView{
		Side:        relativeSide(e.Side, viewer),
		Description: e.Description,
		Timestamp:   e.Timestamp,
	}
}

// Result converts an operation result.
func Result(r game.Result, viewer game.Side) ResultView {
	rv := ResultView{
		Outcome:   r.Outcome.String(),
		TurnEnded: r.TurnEnded,
		GameOver:  r.GameOver,
	}
	if !r.OK() {
		rv.Reason = r.Reason.String()
		rv.Advisory = r.Advisory
	}
	if r.Entry != nil {
		hv := History(*r.Entry, viewer)
		rv.Entry = &hv
	}
	return rv
}

// Event converts a game event.
func Event(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  log.SideName(e.Player),
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}

// Events converts a batch of events. The result is never nil.
func Events(events []log.GameEvent) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, Event(e))
	}
	return out
}

func relativeSide(s, viewer game.Side) string {
	if s == viewer {
		return "you"
	}
	return "opponent"
}

package game

import (
	"fmt"

	"github.com/peterkuimelis/forestclash/internal/log"
)

// target is a confirmed board selection. A zero target means the engine picks
// for itself (the opponent's non-interactive resolution).
type target struct {
	owner Side
	index int
	set   bool
}

// applyEffect mutates the areas for one resolved card and returns the history
// description. Targets are validated before this is called.
func (m *Match) applyEffect(side Side, card *CardInstance, tgt target) string {
	gs := m.State
	self := gs.Area(side)
	rival := gs.Area(side.Other())
	name := card.Template.Name

	switch card.Type() {
	case CardTypeTree:
		planted := gs.Instantiate(card.Template)
		self.Board = append(self.Board, planted)
		m.changeScore(side, card.Template.Value, "planted "+name)
		m.effect(side, log.EventPlant, name, fmt.Sprintf("%s plants %s", side, planted.DisplayString()))
		return fmt.Sprintf("Planted %s (+%d)", name, card.Template.Value)

	case CardTypeFire:
		idx := tgt.index
		if !tgt.set {
			if len(rival.Board) == 0 {
				m.changeScore(side.Other(), -1, "fire with no target")
				m.effect(side, log.EventBurn, name, fmt.Sprintf("%s's %s finds nothing to burn", side, name))
				return fmt.Sprintf("%s found no target (-1 to %s)", name, side.Other())
			}
			idx = gs.Intn(len(rival.Board))
		}
		burned := rival.RemoveFromBoard(idx)
		m.changeScore(side.Other(), -burned.Template.Points(), "burned "+burned.Template.Name)
		m.effect(side, log.EventBurn, name, fmt.Sprintf("%s burns %s's %s", side, side.Other(), burned.DisplayString()))
		return fmt.Sprintf("Burned %s's %s", side.Other(), burned.DisplayString())

	case CardTypeWildfire:
		lost := len(rival.Board)
		rival.ClearBoard()
		m.changeScore(side.Other(), -rival.Score, "wildfire")
		m.effect(side, log.EventWildfire, name, fmt.Sprintf("%s burns down %s's whole board (%d cards)", side, side.Other(), lost))
		return fmt.Sprintf("Wildfire cleared %s's board", side.Other())

	case CardTypeLumberjack:
		idx := tgt.index
		if !tgt.set {
			if len(rival.Board) == 0 {
				sapling := gs.Instantiate(m.Catalog.MinTree())
				self.Board = append(self.Board, sapling)
				m.changeScore(side, sapling.Template.Value, "lumberjack planted a sapling")
				m.effect(side, log.EventSteal, name, fmt.Sprintf("%s's %s plants %s", side, name, sapling.DisplayString()))
				return fmt.Sprintf("%s planted %s (+%d)", name, sapling.Template.Name, sapling.Template.Value)
			}
			idx = gs.Intn(len(rival.Board))
		}
		stolen := rival.RemoveFromBoard(idx)
		moved := gs.Instantiate(stolen.Template)
		moved.PoliticalBlocker = stolen.PoliticalBlocker
		self.Board = append(self.Board, moved)
		pts := stolen.Template.Points()
		m.changeScore(side.Other(), -pts, "lost "+stolen.Template.Name)
		m.changeScore(side, pts, "took "+stolen.Template.Name)
		m.effect(side, log.EventSteal, name, fmt.Sprintf("%s takes %s from %s", side, stolen.DisplayString(), side.Other()))
		return fmt.Sprintf("Took %s from %s", stolen.DisplayString(), side.Other())

	case CardTypePolitician:
		blocker := gs.Instantiate(card.Template)
		blocker.PoliticalBlocker = true
		rival.Board = append(rival.Board, blocker)
		m.effect(side, log.EventPoliticianPlaced, name, fmt.Sprintf("%s places %s on %s's board", side, name, side.Other()))
		return fmt.Sprintf("Placed %s on %s's board", name, side.Other())

	case CardTypeContract:
		owner, idx := tgt.owner, tgt.index
		if !tgt.set {
			var ok bool
			owner, idx, ok = autoContractTarget(gs, side)
			if !ok {
				m.effect(side, log.EventContract, name, fmt.Sprintf("%s's %s has nothing to remove", side, name))
				return fmt.Sprintf("%s had no effect", name)
			}
		}
		removed := gs.Area(owner).RemoveFromBoard(idx)
		m.changeScore(owner, -removed.Template.Points(), "contract")
		m.effect(side, log.EventContract, name, fmt.Sprintf("%s removes %s from %s's board", side, removed.Template.Name, owner))
		return fmt.Sprintf("Removed %s from %s's board", removed.Template.Name, owner)
	}

	panic(fmt.Sprintf("unhandled card type %v", card.Type()))
}

// autoContractTarget prefers a blocker on the acting side's own board, then
// one on the rival's board.
func autoContractTarget(gs *GameState, side Side) (Side, int, bool) {
	if idx := gs.Area(side).BlockerIndex(); idx >= 0 {
		return side, idx, true
	}
	if idx := gs.Area(side.Other()).BlockerIndex(); idx >= 0 {
		return side.Other(), idx, true
	}
	return 0, 0, false
}

// changeScore applies a clamped score delta and logs the change.
func (m *Match) changeScore(side Side, delta int, reason string) {
	if delta == 0 {
		return
	}
	gs := m.State
	area := gs.Area(side)
	old := area.Score
	area.AddScore(delta)
	if area.Score != old {
		m.log(log.NewScoreChangeEvent(gs.Turn, gs.Phase.String(), int(side), old, area.Score, reason))
	}
}

func (m *Match) effect(side Side, t log.EventType, cardName, details string) {
	gs := m.State
	m.log(log.NewEffectEvent(gs.Turn, gs.Phase.String(), int(side), t, cardName, details))
}

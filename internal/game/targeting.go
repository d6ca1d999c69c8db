package game

import (
	"github.com/peterkuimelis/forestclash/internal/log"
)

// beginTargeting parks a targeted card until SubmitTarget or CancelTargeting.
func (m *Match) beginTargeting(side Side, card *CardInstance) Result {
	gs := m.State
	gs.Pending = &PendingEffect{Type: card.Type(), Source: card, Side: side}
	gs.Phase = PhaseTargetSelect
	m.log(log.NewTargetPromptEvent(gs.Turn, int(side), card.Template.Name))
	return Result{Outcome: OutcomeAwaitingTarget}
}

// resolvesWithoutTarget reports whether a targeted card skips the prompt.
// Lumberjack against an empty board plants a sapling instead.
func (m *Match) resolvesWithoutTarget(side Side, card *CardInstance) bool {
	return card.Type() == CardTypeLumberjack && len(m.State.Area(side.Other()).Board) == 0
}

// SubmitTarget confirms the pending effect against boardOwner's board at
// index. Invalid selections change nothing and keep the prompt open.
func (m *Match) SubmitTarget(side Side, boardOwner Side, index int) Result {
	gs := m.State
	if r, ok := m.checkTurn(side); !ok {
		return r
	}
	if gs.Phase != PhaseTargetSelect || gs.Pending == nil {
		return m.reject(side, ReasonNoPendingTarget)
	}
	if reason := validateTarget(gs, gs.Pending, boardOwner, index); reason != ReasonNone {
		return m.reject(side, reason)
	}
	return m.resolve(side, gs.Pending.Source, target{owner: boardOwner, index: index, set: true})
}

// CancelTargeting drops the pending effect; the card stays playable.
func (m *Match) CancelTargeting(side Side) Result {
	gs := m.State
	if r, ok := m.checkTurn(side); !ok {
		return r
	}
	if gs.Phase != PhaseTargetSelect || gs.Pending == nil {
		return m.reject(side, ReasonNoPendingTarget)
	}
	name := gs.Pending.Source.Template.Name
	gs.Pending = nil
	gs.Phase = PhaseAction
	m.log(log.NewTargetCancelEvent(gs.Turn, int(side), name))
	return Result{Outcome: OutcomeCancelled}
}

// ValidTargets lists the board indices the pending effect may name on
// boardOwner's board.
func (m *Match) ValidTargets(boardOwner Side) []int {
	gs := m.State
	if gs.Pending == nil || !boardOwner.Valid() {
		return nil
	}
	var out []int
	for i := range gs.Area(boardOwner).Board {
		if validateTarget(gs, gs.Pending, boardOwner, i) == ReasonNone {
			out = append(out, i)
		}
	}
	return out
}

func validateTarget(gs *GameState, p *PendingEffect, owner Side, index int) RejectReason {
	if !owner.Valid() {
		return ReasonWrongBoard
	}
	switch p.Type {
	case CardTypeFire, CardTypeLumberjack:
		if owner != p.Side.Other() {
			return ReasonWrongBoard
		}
	}
	board := gs.Area(owner).Board
	if index < 0 || index >= len(board) {
		return ReasonInvalidTarget
	}
	if p.Type == CardTypeContract && !board[index].PoliticalBlocker {
		return ReasonNotBlocker
	}
	return ReasonNone
}

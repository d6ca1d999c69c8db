package game

import (
	"math/rand"
)

// PlayerArea holds one side's hand, board and score.
type PlayerArea struct {
	Hand  []*CardInstance // draw order
	Board []*CardInstance // play order
	Score int
}

// HandCount returns the number of cards in hand.
func (a *PlayerArea) HandCount() int {
	return len(a.Hand)
}

// Blocked reports whether a political blocker sits on this board.
func (a *PlayerArea) Blocked() bool {
	return a.BlockerIndex() >= 0
}

// BlockerIndex returns the board index of the first blocker, or -1.
func (a *PlayerArea) BlockerIndex() int {
	for i, c := range a.Board {
		if c.PoliticalBlocker {
			return i
		}
	}
	return -1
}

// FindInHand looks up a hand card by instance ID.
func (a *PlayerArea) FindInHand(instanceID int) *CardInstance {
	for _, c := range a.Hand {
		if c.InstanceID == instanceID {
			return c
		}
	}
	return nil
}

// FirstInHand returns the first hand card of the given type, or nil.
func (a *PlayerArea) FirstInHand(ct CardType) *CardInstance {
	for _, c := range a.Hand {
		if c.Type() == ct {
			return c
		}
	}
	return nil
}

// RemoveFromHand removes a card from the hand by instance ID.
func (a *PlayerArea) RemoveFromHand(card *CardInstance) {
	for i, c := range a.Hand {
		if c.InstanceID == card.InstanceID {
			a.Hand = append(a.Hand[:i], a.Hand[i+1:]...)
			return
		}
	}
}

// RemoveFromBoard removes and returns the board card at index.
func (a *PlayerArea) RemoveFromBoard(index int) *CardInstance {
	card := a.Board[index]
	a.Board = append(a.Board[:index], a.Board[index+1:]...)
	return card
}

// ClearBoard empties the board.
func (a *PlayerArea) ClearBoard() {
	a.Board = nil
}

// AddScore adjusts the score, never letting it drop below zero.
func (a *PlayerArea) AddScore(delta int) {
	a.Score += delta
	if a.Score < 0 {
		a.Score = 0
	}
}

// --- GameState ---

// GameState holds the complete state of a match.
type GameState struct {
	Areas        [2]*PlayerArea
	Turn         int // 1-based turn counter
	Active       Side
	Phase        Phase
	Pending      *PendingEffect
	Goal         int
	TurnHasDrawn bool
	History      *History

	// ActionSpent is set once a turn-preserving effect resolved and chaining
	// is disabled.
	ActionSpent bool

	// Game result
	Winner Side
	Over   bool

	nextID int
	rng    *rand.Rand
}

// NewGameState creates a fresh match state with empty areas.
func NewGameState(rules Rules, seed int64) *GameState {
	rules = rules.normalized()
	return &GameState{
		Areas:   [2]*PlayerArea{{}, {}},
		Active:  SidePlayer,
		Phase:   PhaseDraw,
		Goal:    rules.Goal,
		History: newHistory(rules.HistoryCap),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// NextID generates a unique card instance ID.
func (gs *GameState) NextID() int {
	gs.nextID++
	return gs.nextID
}

// Area returns one side's area.
func (gs *GameState) Area(side Side) *PlayerArea {
	return gs.Areas[side]
}

// ActiveArea returns the area of the side whose turn it is.
func (gs *GameState) ActiveArea() *PlayerArea {
	return gs.Areas[gs.Active]
}

// Instantiate creates a fresh instance of template with a new ID.
func (gs *GameState) Instantiate(t *CardTemplate) *CardInstance {
	return &CardInstance{Template: t, InstanceID: gs.NextID()}
}

// Draw samples n fresh instances from the catalog, with replacement.
func (gs *GameState) Draw(c *Catalog, n int) []*CardInstance {
	var out []*CardInstance
	for _, t := range c.Sample(gs.rng, n) {
		out = append(out, gs.Instantiate(t))
	}
	return out
}

// WinnerSide returns the winner once the match is over.
func (gs *GameState) WinnerSide() (Side, bool) {
	if !gs.Over {
		return 0, false
	}
	return gs.Winner, true
}

// Intn exposes the match RNG to policies.
func (gs *GameState) Intn(n int) int {
	return gs.rng.Intn(n)
}

// checkWin ends the match if side reached the goal. Returns true if over.
func (gs *GameState) checkWin(side Side) bool {
	if gs.Areas[side].Score >= gs.Goal {
		gs.Over = true
		gs.Winner = side
		gs.Phase = PhaseGameOver
		gs.Pending = nil
		return true
	}
	return false
}

package game

// Decision is the opponent's choice for a turn. A nil Card means pass.
type Decision struct {
	Card   *CardInstance
	Reason string
}

// OpponentPolicy picks the scripted side's move once its draw is done.
type OpponentPolicy interface {
	Decide(gs *GameState) Decision
}

// ScriptedPolicy is the reference opponent: clear its own blocker if it can,
// otherwise play a uniformly random playable card.
type ScriptedPolicy struct{}

func (ScriptedPolicy) Decide(gs *GameState) Decision {
	self := gs.ActiveArea()
	rival := gs.Area(gs.Active.Other())

	if self.Blocked() {
		if contract := self.FirstInHand(CardTypeContract); contract != nil {
			return Decision{Card: contract, Reason: "remove politician from own board"}
		}
		return Decision{Reason: "blocked by a politician with no contract"}
	}

	playable := PlayableCards(self.Hand, rival)
	if len(playable) == 0 {
		return Decision{Reason: "no playable cards"}
	}
	return Decision{Card: playable[gs.Intn(len(playable))], Reason: "random playable card"}
}

// PlayableCards filters a hand down to cards worth playing without a human
// choosing targets. Fire and Lumberjack need something on the rival's board.
func PlayableCards(hand []*CardInstance, rival *PlayerArea) []*CardInstance {
	var out []*CardInstance
	for _, c := range hand {
		switch c.Type() {
		case CardTypeTree, CardTypeWildfire, CardTypePolitician, CardTypeContract:
			out = append(out, c)
		case CardTypeFire, CardTypeLumberjack:
			if len(rival.Board) > 0 {
				out = append(out, c)
			}
		}
	}
	return out
}

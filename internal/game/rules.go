package game

const (
	DefaultGoal        = 20
	DefaultMaxHandSize = 5
	DefaultOpeningHand = 5
	DefaultHistoryCap  = 20
)

// Rules holds the tunable parts of the rule set.
type Rules struct {
	Goal        int // score that wins the match
	MaxHandSize int
	OpeningHand int // cards dealt to each side before the first turn
	HistoryCap  int

	// ContractEndsTurn controls whether a human Contract flips the turn.
	ContractEndsTurn bool
	// ChainTurnPreserving lets the human keep playing cards after a Fire or
	// Lumberjack. When false only EndTurn is accepted afterwards.
	ChainTurnPreserving bool
}

// DefaultRules returns the reference rule set.
func DefaultRules() Rules {
	return Rules{
		Goal:                DefaultGoal,
		MaxHandSize:         DefaultMaxHandSize,
		OpeningHand:         DefaultOpeningHand,
		HistoryCap:          DefaultHistoryCap,
		ContractEndsTurn:    true,
		ChainTurnPreserving: true,
	}
}

// normalized fills zero values with defaults. OpeningHand is left alone so 0
// can mean an empty start.
func (r Rules) normalized() Rules {
	if r.Goal <= 0 {
		r.Goal = DefaultGoal
	}
	if r.MaxHandSize <= 0 {
		r.MaxHandSize = DefaultMaxHandSize
	}
	if r.HistoryCap <= 0 {
		r.HistoryCap = DefaultHistoryCap
	}
	if r.OpeningHand < 0 {
		r.OpeningHand = 0
	}
	if r.OpeningHand > r.MaxHandSize {
		r.OpeningHand = r.MaxHandSize
	}
	return r
}

// endsTurn reports whether a card resolved by side flips the turn.
func (r Rules) endsTurn(ct CardType, side Side) bool {
	if side != SidePlayer {
		return true
	}
	switch ct {
	case CardTypeFire, CardTypeLumberjack:
		return false
	case CardTypeContract:
		return r.ContractEndsTurn
	}
	return true
}

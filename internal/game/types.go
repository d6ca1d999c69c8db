package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

// Side identifies one of the two seats at the table.
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "Player"
	case SideOpponent:
		return "Opponent"
	default:
		return "Unknown"
	}
}

// Valid reports whether s names a real seat.
func (s Side) Valid() bool {
	return s == SidePlayer || s == SideOpponent
}

type Phase int

const (
	PhaseDraw Phase = iota
	PhaseAction
	PhaseTargetSelect
	PhaseResolving
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "Draw"
	case PhaseAction:
		return "Action"
	case PhaseTargetSelect:
		return "Target Select"
	case PhaseResolving:
		return "Resolving"
	case PhaseGameOver:
		return "Game Over"
	default:
		return "None"
	}
}

type CardType int

const (
	CardTypeTree CardType = iota
	CardTypeFire
	CardTypeWildfire
	CardTypeLumberjack
	CardTypePolitician
	CardTypeContract
)

var cardTypeNames = map[CardType]string{
	CardTypeTree:       "tree",
	CardTypeFire:       "fire",
	CardTypeWildfire:   "wildfire",
	CardTypeLumberjack: "lumberjack",
	CardTypePolitician: "politician",
	CardTypeContract:   "contract",
}

func (ct CardType) String() string {
	if name, ok := cardTypeNames[ct]; ok {
		return name
	}
	return fmt.Sprintf("cardtype_%d", int(ct))
}

// ParseCardType maps a catalog type name onto a CardType.
func ParseCardType(s string) (CardType, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for ct, name := range cardTypeNames {
		if name == want {
			return ct, nil
		}
	}
	return 0, fmt.Errorf("unknown card type %q", s)
}

// UnmarshalText lets catalog files spell types by name.
func (ct *CardType) UnmarshalText(text []byte) error {
	parsed, err := ParseCardType(string(text))
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (ct CardType) MarshalText() ([]byte, error) {
	return []byte(ct.String()), nil
}

// NeedsTarget reports whether the human side must name a board card before
// the effect can resolve.
func (ct CardType) NeedsTarget() bool {
	switch ct {
	case CardTypeFire, CardTypeLumberjack, CardTypeContract:
		return true
	}
	return false
}

// --- Card definition (static, shared catalog entry) ---

type CardTemplate struct {
	ID       string   `yaml:"id" json:"id"`
	Type     CardType `yaml:"type" json:"type"`
	Value    int      `yaml:"value,omitempty" json:"value,omitempty"` // Tree only
	Name     string   `yaml:"name" json:"name"`
	ImageRef string   `yaml:"image,omitempty" json:"image,omitempty"`
}

func (t *CardTemplate) String() string {
	return t.Name
}

// Points returns what the card is worth on a board. Only Trees score.
func (t *CardTemplate) Points() int {
	if t.Type != CardTypeTree {
		return 0
	}
	return t.Value
}

// --- CardInstance (runtime copy in a hand or on a board) ---

type CardInstance struct {
	Template   *CardTemplate
	InstanceID int // unique within a match, never reused

	// PoliticalBlocker is set only when a Politician lands on a board.
	PoliticalBlocker bool
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	return fmt.Sprintf("%s#%d", ci.Template.Name, ci.InstanceID)
}

// DisplayString returns a human-readable description for the history log.
func (ci *CardInstance) DisplayString() string {
	if ci == nil {
		return "(empty)"
	}
	if ci.Template.Type == CardTypeTree {
		return fmt.Sprintf("%s (%d)", ci.Template.Name, ci.Template.Value)
	}
	return ci.Template.Name
}

// Type is shorthand for the template's card type.
func (ci *CardInstance) Type() CardType {
	return ci.Template.Type
}

// PendingEffect is a targeted card waiting for its target. The card stays in
// hand until the target is confirmed.
type PendingEffect struct {
	Type   CardType
	Source *CardInstance
	Side   Side
}

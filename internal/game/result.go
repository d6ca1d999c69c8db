package game

import (
	"errors"
	"fmt"
)

type Outcome int

const (
	OutcomeRejected Outcome = iota
	OutcomeResolved
	OutcomeAwaitingTarget
	OutcomeCancelled
	OutcomeTurnEnded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeResolved:
		return "resolved"
	case OutcomeAwaitingTarget:
		return "awaiting_target"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeTurnEnded:
		return "turn_ended"
	default:
		return "unknown"
	}
}

// RejectReason says why an operation was refused. Refusals never change state.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonNotYourTurn
	ReasonGameOver
	ReasonWrongPhase
	ReasonUnknownCard
	ReasonTargetPending
	ReasonBlocked
	ReasonNoPendingTarget
	ReasonInvalidTarget
	ReasonWrongBoard
	ReasonNotBlocker
	ReasonActionSpent
)

var reasonNames = map[RejectReason]string{
	ReasonNone:            "none",
	ReasonNotYourTurn:     "not your turn",
	ReasonGameOver:        "game is over",
	ReasonWrongPhase:      "wrong phase",
	ReasonUnknownCard:     "card not in hand",
	ReasonTargetPending:   "a target must be chosen or cancelled first",
	ReasonBlocked:         "a politician blocks planting trees",
	ReasonNoPendingTarget: "no effect is waiting for a target",
	ReasonInvalidTarget:   "target index out of range",
	ReasonWrongBoard:      "that board cannot be targeted by this card",
	ReasonNotBlocker:      "target is not a politician",
	ReasonActionSpent:     "only ending the turn is allowed now",
}

func (r RejectReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason_%d", int(r))
}

// ErrRejected is wrapped by Result.Err for every refused operation.
var ErrRejected = errors.New("rejected")

// Result is the discriminated outcome of every engine operation.
type Result struct {
	Outcome  Outcome
	Reason   RejectReason
	Advisory string    // user-facing hint for rejections
	Entry    *LogEntry // history entry appended by this call, if any

	TurnEnded bool
	GameOver  bool
}

// OK reports whether the operation was accepted.
func (r Result) OK() bool {
	return r.Outcome != OutcomeRejected
}

// Err returns nil for accepted operations and a wrapped ErrRejected otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRejected, r.Reason)
}

func rejected(reason RejectReason) Result {
	return Result{Outcome: OutcomeRejected, Reason: reason, Advisory: reason.String()}
}

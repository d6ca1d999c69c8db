package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Since returns events with a sequence number greater than seq.
func (l *MemoryLogger) Since(seq int) []GameEvent {
	for i, e := range l.events {
		if e.Seq > seq {
			return l.events[i:]
		}
	}
	return nil
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// SideName returns "Player" or "Opponent" for display.
func SideName(p int) string {
	if p == 1 {
		return "Opponent"
	}
	return "Player"
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	// Pad phase to 14 chars for alignment
	for len(phase) < 14 {
		phase += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Draw",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, SideName(player)),
	}
}

func NewDealEvent(player int, count int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventDeal,
		Details: fmt.Sprintf("%s is dealt %d cards", SideName(player), count),
	}
}

func NewDrawEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Draw",
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", SideName(player), cardName),
	}
}

func NewHandFullEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Draw",
		Player:  player,
		Type:    EventDraw,
		Details: fmt.Sprintf("%s has a full hand and skips the draw", SideName(player)),
	}
}

func NewPlayCardEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlayCard,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s", SideName(player), cardName),
	}
}

func NewTargetPromptEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Target Select",
		Player:  player,
		Type:    EventTargetPrompt,
		Card:    cardName,
		Details: fmt.Sprintf("%s must choose a target for %s", SideName(player), cardName),
	}
}

func NewTargetCancelEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Action",
		Player:  player,
		Type:    EventTargetCancel,
		Card:    cardName,
		Details: fmt.Sprintf("%s cancels %s", SideName(player), cardName),
	}
}

// NewEffectEvent records a resolved card effect. t is one of the effect types
// (Plant, Burn, Wildfire, Steal, PoliticianPlaced, Contract).
func NewEffectEvent(turn int, phase string, player int, t EventType, cardName string, details string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    t,
		Card:    cardName,
		Details: details,
	}
}

func NewScoreChangeEvent(turn int, phase string, player int, oldScore, newScore int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventScoreChange,
		Details: fmt.Sprintf("%s score: %d → %d (%s)", SideName(player), oldScore, newScore, reason),
	}
}

func NewRejectedEvent(turn int, phase string, player int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventRejected,
		Details: fmt.Sprintf("%s: rejected (%s)", SideName(player), reason),
	}
}

func NewPassEvent(turn int, player int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Action",
		Player:  player,
		Type:    EventPass,
		Details: fmt.Sprintf("%s passes (%s)", SideName(player), reason),
	}
}

func NewEndTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Action",
		Player:  player,
		Type:    EventEndTurn,
		Details: fmt.Sprintf("%s ends the turn", SideName(player)),
	}
}

func NewWinEvent(turn int, winner int, score int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Game Over",
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins with %d points!", SideName(winner), score),
	}
}

package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventNewTurn EventType = iota
	EventDraw
	EventDeal
	EventPlayCard
	EventTargetPrompt
	EventTargetCancel
	EventPlant
	EventBurn
	EventWildfire
	EventSteal
	EventPoliticianPlaced
	EventContract
	EventScoreChange
	EventRejected
	EventPass
	EventEndTurn
	EventWin
)

var eventNames = [...]string{
	EventNewTurn:          "NewTurn",
	EventDraw:             "Draw",
	EventDeal:             "Deal",
	EventPlayCard:         "PlayCard",
	EventTargetPrompt:     "TargetPrompt",
	EventTargetCancel:     "TargetCancel",
	EventPlant:            "Plant",
	EventBurn:             "Burn",
	EventWildfire:         "Wildfire",
	EventSteal:            "Steal",
	EventPoliticianPlaced: "PoliticianPlaced",
	EventContract:         "Contract",
	EventScoreChange:      "ScoreChange",
	EventRejected:         "Rejected",
	EventPass:             "Pass",
	EventEndTurn:          "EndTurn",
	EventWin:              "Win",
}

func (e EventType) String() string {
	if int(e) >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "Unknown"
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Phase   string    // current phase name (e.g. "Action")
	Player  int       // acting side (0 = player, 1 = opponent)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}

package web

import "github.com/peterkuimelis/forestclash/internal/view"

// Message types for the JSON protocol over the web socket.

// ClientMessage is the envelope for all browser-to-server messages.
type ClientMessage struct {
	Type string `json:"type"` // start, play_card, select_target, cancel_target, end_turn, state

	// For "start"
	Account string `json:"account,omitempty"`
	Seed    int64  `json:"seed,omitempty"`

	// For "play_card"
	CardID int `json:"card_id,omitempty"`

	// For "select_target"
	Board string `json:"board,omitempty"`
	Index int    `json:"index,omitempty"`
}

// ServerMessage is the envelope for all server-to-browser messages.
type ServerMessage struct {
	Type string `json:"type"` // state, opponent, game_over, error

	Events   []view.EventView `json:"events,omitempty"`
	Result   *view.ResultView `json:"result,omitempty"`
	State    *view.StateView  `json:"state,omitempty"`
	RecordID string           `json:"record_id,omitempty"`
	Error    string           `json:"error,omitempty"`
}

const (
	msgStart        = "start"
	msgPlayCard     = "play_card"
	msgSelectTarget = "select_target"
	msgCancelTarget = "cancel_target"
	msgEndTurn      = "end_turn"
	msgState        = "state"

	msgOpponent = "opponent"
	msgGameOver = "game_over"
	msgError    = "error"
)

package view

import "time"

// JSON view model shared by the MCP tools, the web socket and the terminal
// client. Everything here is derived from a match; nothing is read back.

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  string `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// CardView describes one card instance in a hand or on a board.
type CardView struct {
	ID       int    `json:"id"`
	Template string `json:"template"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Value    int    `json:"value,omitempty"`
	Image    string `json:"image,omitempty"`
	Blocker  bool   `json:"blocker,omitempty"`
}

// TemplateView is a catalog entry for /api/cards and similar listings.
type TemplateView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value int    `json:"value,omitempty"`
	Image string `json:"image,omitempty"`
}

// PlayerView shows one side of the table.
type PlayerView struct {
	Score     int        `json:"score"`
	HandCount int        `json:"hand_count"`
	Hand      []CardView `json:"hand,omitempty"` // only for "you"
	Board     []CardView `json:"board"`
	Blocked   bool       `json:"blocked"`
}

// TargetView is one legal selection for a pending effect.
type TargetView struct {
	Board string `json:"board"` // "you" or "opponent"
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// PendingView is a targeted card waiting for its target.
type PendingView struct {
	Card    CardView     `json:"card"`
	Targets []TargetView `json:"targets"`
}

// HistoryView is one retained history entry.
type HistoryView struct {
	Side        string    `json:"side"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// StateView is the game state from one side's perspective.
type StateView struct {
	You        PlayerView    `json:"you"`
	Opponent   PlayerView    `json:"opponent"`
	Turn       int           `json:"turn"`
	Phase      string        `json:"phase"`
	IsYourTurn bool          `json:"is_your_turn"`
	Goal       int           `json:"goal"`
	Pending    *PendingView  `json:"pending,omitempty"`
	GameOver   bool          `json:"game_over"`
	Winner     string        `json:"winner,omitempty"` // "you" or "opponent"
	History    []HistoryView `json:"history"`
}

// ResultView reports the outcome of one submitted operation.
type ResultView struct {
	Outcome   string       `json:"outcome"`
	Reason    string       `json:"reason,omitempty"`
	Advisory  string       `json:"advisory,omitempty"`
	Entry     *HistoryView `json:"entry,omitempty"`
	TurnEnded bool         `json:"turn_ended,omitempty"`
	GameOver  bool         `json:"game_over,omitempty"`
}

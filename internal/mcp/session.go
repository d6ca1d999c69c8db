package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/peterkuimelis/forestclash/internal/game"
	"github.com/peterkuimelis/forestclash/internal/record"
	"github.com/peterkuimelis/forestclash/internal/session"
	"github.com/peterkuimelis/forestclash/internal/view"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events         []view.EventView `json:"events"`
	Result         *view.ResultView `json:"result,omitempty"`
	OpponentResult *view.ResultView `json:"opponent_result,omitempty"`
	State          *view.StateView  `json:"state,omitempty"`
	GameOver       bool             `json:"game_over"`
	Winner         string           `json:"winner,omitempty"`
	RecordID       string           `json:"record_id,omitempty"`
	Stats          *record.Stats    `json:"stats,omitempty"`
	Leaderboard    []record.Stats   `json:"leaderboard,omitempty"`
	Error          string           `json:"error,omitempty"`
}

func resultView(r game.Result) view.ResultView {
	return view.Result(r, session.Human)
}

// fillResponse adds the events since the last response and the current
// state.
func fillResponse(resp *ToolResponse, sess *session.Session) {
	resp.Events = view.Events(sess.DrainEvents())
	resp.State = sess.State()
	resp.GameOver = resp.State.GameOver
	resp.Winner = resp.State.Winner
	if resp.GameOver {
		id, err := sess.RecordStatus()
		resp.RecordID = id
		if err != nil && resp.Error == "" {
			resp.Error = err.Error()
		}
	}
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}

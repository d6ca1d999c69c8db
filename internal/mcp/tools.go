package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/forestclash/internal/record"
	"github.com/peterkuimelis/forestclash/internal/view"
)

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer, c *Controller) {
	s.AddTool(startGameTool(), c.handleStartGame)
	s.AddTool(playCardTool(), c.handlePlayCard)
	s.AddTool(selectTargetTool(), c.handleSelectTarget)
	s.AddTool(cancelTargetTool(), c.handleCancelTarget)
	s.AddTool(endTurnTool(), c.handleEndTurn)
	s.AddTool(getGameStateTool(), c.handleGetGameState)
	s.AddTool(getStatsTool(), c.handleGetStats)
	s.AddTool(getLeaderboardTool(), c.handleGetLeaderboard)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Deal a new Forest Clash match. You play the Player side against a scripted opponent; "+
			"first to the goal score wins. Returns the opening state. Fails while a match is running unless restart is true."),
		mcp.WithString("account", mcp.Description("Account the result is recorded under (default: configured account or anonymous)")),
		mcp.WithNumber("seed", mcp.Description("Random seed for a reproducible match (0 = random)")),
		mcp.WithBoolean("restart", mcp.Description("Abandon a running match and deal a new one")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from your hand by its id. Campfire, Lumberjack and Contract then wait for select_target "+
			"(see state.pending.targets). Trees cannot be planted while a Politician is on your board."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("The id of a card in state.you.hand")),
	)
}

func selectTargetTool() mcp.Tool {
	return mcp.NewTool("select_target",
		mcp.WithDescription("Choose the target for the pending card. Use an entry from state.pending.targets."),
		mcp.WithString("board", mcp.Required(), mcp.Enum("you", "opponent"), mcp.Description("Whose board the target is on")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index on that board")),
	)
}

func cancelTargetTool() mcp.Tool {
	return mcp.NewTool("cancel_target",
		mcp.WithDescription("Cancel the pending card. It stays in your hand."),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn. The opponent then moves and its events are included in the response."),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current state and any events not yet returned. Read-only."),
	)
}

func getStatsTool() mcp.Tool {
	return mcp.NewTool("get_stats",
		mcp.WithDescription("Get games played, won, lost and the highest score for an account."),
		mcp.WithString("account", mcp.Description("Account name (default: the current match's account)")),
	)
}

func getLeaderboardTool() mcp.Tool {
	return mcp.NewTool("get_leaderboard",
		mcp.WithDescription("List the accounts with the most games won."),
		mcp.WithNumber("limit", mcp.Description("How many accounts to return (default 10, max 100)")),
	)
}

// --- Tool handlers ---

func (c *Controller) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	account := request.GetString("account", "")
	seed := request.GetInt("seed", 0)
	restart := request.GetBool("restart", false)

	sess, ok := c.start(account, int64(seed), restart)
	if !ok {
		return mcp.NewToolResultError("A match is already running. Finish it or call start_game with restart=true."), nil
	}
	return mcp.NewToolResultText(respondJSON(c.respond(ctx, sess, nil))), nil
}

func (c *Controller) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := c.current()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_game first."), nil
	}
	id := request.GetInt("card_id", -1)
	if id < 0 {
		return mcp.NewToolResultError("card_id is required."), nil
	}
	res := sess.PlayCard(ctx, id)
	return mcp.NewToolResultText(respondJSON(c.respond(ctx, sess, &res))), nil
}

func (c *Controller) handleSelectTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := c.current()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_game first."), nil
	}
	board := request.GetString("board", "")
	index := request.GetInt("index", -1)
	res, err := sess.SelectTarget(ctx, board, index)
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid board: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(c.respond(ctx, sess, &res))), nil
}

func (c *Controller) handleCancelTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := c.current()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_game first."), nil
	}
	res := sess.CancelTarget(ctx)
	return mcp.NewToolResultText(respondJSON(c.respond(ctx, sess, &res))), nil
}

func (c *Controller) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := c.current()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_game first."), nil
	}
	res := sess.EndTurn(ctx)
	return mcp.NewToolResultText(respondJSON(c.respond(ctx, sess, &res))), nil
}

func (c *Controller) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := c.current()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_game first."), nil
	}
	resp := &ToolResponse{}
	fillResponse(resp, sess)
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (c *Controller) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if c.cfg.Recorder == nil {
		return mcp.NewToolResultError("Match recording is disabled."), nil
	}
	account := request.GetString("account", "")
	if account == "" {
		if sess := c.current(); sess != nil {
			account = sess.Account()
		} else {
			account = c.cfg.Account
		}
	}
	stats, err := c.cfg.Recorder.Stats(ctx, account)
	if errors.Is(err, record.ErrNotFound) {
		stats, err = record.Stats{AccountID: record.NormalizeAccount(account)}, nil
	}
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to load stats: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(&ToolResponse{Events: []view.EventView{}, Stats: &stats})), nil
}

func (c *Controller) handleGetLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if c.cfg.Recorder == nil {
		return mcp.NewToolResultError("Match recording is disabled."), nil
	}
	board, err := c.cfg.Recorder.Leaderboard(ctx, request.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to load leaderboard: %v", err), nil
	}
	if board == nil {
		board = []record.Stats{}
	}
	return mcp.NewToolResultText(respondJSON(&ToolResponse{Events: []view.EventView{}, Leaderboard: board})), nil
}

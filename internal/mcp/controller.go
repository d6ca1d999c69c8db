package mcp

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/peterkuimelis/forestclash/internal/game"
	"github.com/peterkuimelis/forestclash/internal/record"
	"github.com/peterkuimelis/forestclash/internal/session"
)

// Config is what the tool server needs to deal new matches.
type Config struct {
	Rules    game.Rules
	Catalog  *game.Catalog
	Seed     int64 // 0 = time based
	Account  string
	Recorder record.Recorder
	Logger   *zap.Logger
	// OpponentDelay pauses before the opponent's move inside a tool call.
	OpponentDelay time.Duration
}

// Controller owns the single active session of one stdio process and runs
// the opponent after each human move that hands it the turn.
type Controller struct {
	cfg Config

	mu     sync.Mutex
	active *session.Session
}

func NewController(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Controller{cfg: cfg}
}

// start replaces any finished session with a new one. A running match is
// only replaced when force is set.
func (c *Controller) start(account string, seed int64, force bool) (*session.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil && !c.active.Over() && !force {
		return nil, false
	}
	if account == "" {
		account = c.cfg.Account
	}
	if seed == 0 {
		seed = c.cfg.Seed
	}
	c.active = session.New(session.Options{
		Rules:    c.cfg.Rules,
		Catalog:  c.cfg.Catalog,
		Seed:     seed,
		Account:  account,
		Recorder: c.cfg.Recorder,
		Logger:   c.cfg.Logger,
	})
	return c.active, true
}

func (c *Controller) current() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// respond plays the opponent if it is due, then builds the tool response.
func (c *Controller) respond(ctx context.Context, sess *session.Session, res *game.Result) *ToolResponse {
	resp := &ToolResponse{}
	if res != nil {
		rv := resultView(*res)
		resp.Result = &rv
	}
	for sess.OpponentPending() {
		opp, played, err := sess.PlayOpponent(ctx, c.cfg.OpponentDelay)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		if !played {
			break
		}
		ov := resultView(opp)
		resp.OpponentResult = &ov
	}
	fillResponse(resp, sess)
	return resp
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/peterkuimelis/forestclash/internal/session"
	"github.com/peterkuimelis/forestclash/internal/view"
)

// ErrQuit is returned when the player leaves before the match ends.
var ErrQuit = errors.New("player quit")

// Client plays one match against the scripted opponent in a terminal.
type Client struct {
	sess  *session.Session
	in    *bufio.Reader
	out   io.Writer
	delay time.Duration
}

// NewClient wires a session to a terminal. delay is the pause before each
// opponent move.
func NewClient(sess *session.Session, in io.Reader, out io.Writer, delay time.Duration) *Client {
	return &Client{
		sess:  sess,
		in:    bufio.NewReader(in),
		out:   out,
		delay: delay,
	}
}

// action is one numbered choice offered to the player.
type action struct {
	desc string
	run  func(ctx context.Context) (view.ResultView, error)
}

// Run alternates human prompts and opponent moves until the match is over.
func (c *Client) Run(ctx context.Context) error {
	for !c.sess.Over() {
		if c.sess.OpponentPending() {
			fmt.Fprintln(c.out, "Opponent is thinking...")
			if _, _, err := c.sess.PlayOpponent(ctx, c.delay); err != nil {
				return err
			}
			c.renderEvents()
			continue
		}

		sv := c.sess.State()
		c.renderState(sv)
		actions := c.actions(sv)
		c.renderActions(actions)
		idx, err := c.readChoice(len(actions))
		if err != nil {
			return err
		}
		res, err := actions[idx].run(ctx)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			continue
		}
		c.renderEvents()
		if res.Outcome == "rejected" {
			fmt.Fprintf(c.out, "Not allowed: %s\n", res.Advisory)
		}
	}

	c.renderGameOver(c.sess.State())
	return nil
}

func (c *Client) actions(sv *view.StateView) []action {
	var actions []action
	if p := sv.Pending; p != nil {
		for _, t := range p.Targets {
			board, index := t.Board, t.Index
			actions = append(actions, action{
				desc: fmt.Sprintf("%s: target %s on %s board", p.Card.Name, t.Name, boardLabel(board)),
				run: func(ctx context.Context) (view.ResultView, error) {
					res, err := c.sess.SelectTarget(ctx, board, index)
					return view.Result(res, session.Human), err
				},
			})
		}
		actions = append(actions, action{
			desc: fmt.Sprintf("Cancel %s", p.Card.Name),
			run: func(ctx context.Context) (view.ResultView, error) {
				return view.Result(c.sess.CancelTarget(ctx), session.Human), nil
			},
		})
		return actions
	}

	for _, card := range sv.You.Hand {
		id := card.ID
		actions = append(actions, action{
			desc: "Play " + formatCard(card),
			run: func(ctx context.Context) (view.ResultView, error) {
				return view.Result(c.sess.PlayCard(ctx, id), session.Human), nil
			},
		})
	}
	actions = append(actions, action{
		desc: "End turn",
		run: func(ctx context.Context) (view.ResultView, error) {
			return view.Result(c.sess.EndTurn(ctx), session.Human), nil
		},
	})
	return actions
}

func boardLabel(board string) string {
	if board == "you" {
		return "your"
	}
	return "the opponent's"
}

func (c *Client) renderEvents() {
	for _, ev := range view.Events(c.sess.DrainEvents()) {
		phase := ev.Phase
		for len(phase) < 14 {
			phase += " "
		}
		fmt.Fprintf(c.out, "T%-2d %s| %s\n", ev.Turn, phase, ev.Details)
	}
}

func (c *Client) renderState(sv *view.StateView) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")
	opp := sv.Opponent
	fmt.Fprintf(c.out, "║  OPPONENT (Score: %d/%d)  Hand: %d%s\n", opp.Score, sv.Goal, opp.HandCount, blockedTag(opp))
	fmt.Fprintf(c.out, "║  Board: %s\n", formatBoard(opp.Board))
	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")
	you := sv.You
	fmt.Fprintf(c.out, "║  Board: %s\n", formatBoard(you.Board))
	fmt.Fprintf(c.out, "║  YOU (Score: %d/%d)  Hand: %d%s\n", you.Score, sv.Goal, you.HandCount, blockedTag(you))
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s", sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(c.out, turnInfo)
}

func blockedTag(pv view.PlayerView) string {
	if pv.Blocked {
		return "  [BLOCKED]"
	}
	return ""
}

func formatBoard(cards []view.CardView) string {
	if len(cards) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(cards))
	for i, cv := range cards {
		parts[i] = "[" + formatCard(cv) + "]"
	}
	return strings.Join(parts, " ")
}

func formatCard(cv view.CardView) string {
	if cv.Value > 0 {
		return fmt.Sprintf("%s (%d)", cv.Name, cv.Value)
	}
	return cv.Name
}

func (c *Client) renderActions(actions []action) {
	fmt.Fprintln(c.out, "\nActions:")
	for i, a := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, a.desc)
	}
}

// readChoice returns a 0-indexed choice. "q" quits.
func (c *Client) readChoice(count int) (int, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrQuit
			}
			return 0, fmt.Errorf("read input: %w", err)
		}
		if line == "q" || line == "quit" {
			return 0, ErrQuit
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > count {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1, nil
	}
}

func (c *Client) renderGameOver(sv *view.StateView) {
	c.renderState(sv)
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "═══════════════════════════════════")
	fmt.Fprintln(c.out, "          GAME OVER")
	fmt.Fprintln(c.out, "═══════════════════════════════════")
	if sv.Winner == "you" {
		fmt.Fprintf(c.out, "You win %d to %d!\n", sv.You.Score, sv.Opponent.Score)
	} else {
		fmt.Fprintf(c.out, "The opponent wins %d to %d.\n", sv.Opponent.Score, sv.You.Score)
	}
	if id, err := c.sess.RecordStatus(); err != nil {
		fmt.Fprintf(c.out, "Result not saved: %v\n", err)
	} else if id != "" {
		fmt.Fprintf(c.out, "Saved as %s\n", id)
	}
	fmt.Fprintln(c.out, "═══════════════════════════════════")
}

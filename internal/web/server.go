package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/peterkuimelis/forestclash/internal/game"
	"github.com/peterkuimelis/forestclash/internal/record"
	"github.com/peterkuimelis/forestclash/internal/session"
	"github.com/peterkuimelis/forestclash/internal/view"
)

//go:embed static
var staticFiles embed.FS

// Config holds what the web server needs to host matches.
type Config struct {
	Rules          game.Rules
	Catalog        *game.Catalog
	Recorder       record.Recorder // nil disables the /api/stats, /api/matches and /api/leaderboard routes
	Logger         *zap.Logger
	OpponentDelay  time.Duration
	ArtDir         string   // served under /art/ when set
	AllowedOrigins []string // empty allows any origin
	Seed           int64
}

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	view.TemplateView
	ArtPath string `json:"artPath,omitempty"`
}

// Server is the Forest Clash web server.
type Server struct {
	cfg  Config
	zlog *zap.Logger
	mux  *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(cfg Config) *Server {
	if cfg.Catalog == nil {
		cfg.Catalog = game.DefaultCatalog()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Server{
		cfg:  cfg,
		zlog: cfg.Logger,
		mux:  http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFS, "index.html")
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	if s.cfg.ArtDir != "" {
		s.mux.Handle("GET /art/", http.StripPrefix("/art/", http.FileServer(http.Dir(s.cfg.ArtDir))))
	}

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/matches", s.handleMatches)
	s.mux.HandleFunc("GET /api/matches/{id}", s.handleMatch)
	s.mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, t := range view.Templates(s.cfg.Catalog) {
		ci := CardInfo{TemplateView: t}
		if s.cfg.ArtDir != "" && t.Image != "" {
			ci.ArtPath = "/art/" + t.Image
		}
		cards = append(cards, ci)
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Recorder == nil {
		http.Error(w, "recording is disabled", http.StatusNotFound)
		return
	}
	account := record.NormalizeAccount(r.URL.Query().Get("account"))
	stats, err := s.cfg.Recorder.Stats(r.Context(), account)
	if errors.Is(err, record.ErrNotFound) {
		stats, err = record.Stats{AccountID: account}, nil
	}
	if err != nil {
		s.zlog.Error("load stats", zap.String("account", account), zap.Error(err))
		http.Error(w, "could not load stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Recorder == nil {
		http.Error(w, "recording is disabled", http.StatusNotFound)
		return
	}
	q := r.URL.Query()
	limit, ok := parseLimit(w, q.Get("limit"))
	if !ok {
		return
	}
	matches, err := s.cfg.Recorder.Recent(r.Context(), q.Get("account"), limit)
	if err != nil {
		s.zlog.Error("list matches", zap.Error(err))
		http.Error(w, "could not list matches", http.StatusInternalServerError)
		return
	}
	if matches == nil {
		matches = []record.MatchRecord{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Recorder == nil {
		http.Error(w, "recording is disabled", http.StatusNotFound)
		return
	}
	id := r.PathValue("id")
	rec, err := s.cfg.Recorder.Get(r.Context(), id)
	if errors.Is(err, record.ErrNotFound) {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.zlog.Error("get match", zap.String("id", id), zap.Error(err))
		http.Error(w, "could not load match", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Recorder == nil {
		http.Error(w, "recording is disabled", http.StatusNotFound)
		return
	}
	limit, ok := parseLimit(w, r.URL.Query().Get("limit"))
	if !ok {
		return
	}
	board, err := s.cfg.Recorder.Leaderboard(r.Context(), limit)
	if err != nil {
		s.zlog.Error("list leaderboard", zap.Error(err))
		http.Error(w, "could not load leaderboard", http.StatusInternalServerError)
		return
	}
	if board == nil {
		board = []record.Stats{}
	}
	writeJSON(w, http.StatusOK, board)
}

// parseLimit reads an optional limit parameter; the store clamps it.
func parseLimit(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "limit must be a number", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{OriginPatterns: s.cfg.AllowedOrigins}
	if len(s.cfg.AllowedOrigins) == 0 {
		opts.InsecureSkipVerify = true
	}
	wsConn, err := websocket.Accept(w, r, opts)
	if err != nil {
		s.zlog.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	err = s.play(r.Context(), wsConn)
	switch {
	case err == nil:
		wsConn.Close(websocket.StatusNormalClosure, "game ended")
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway,
		errors.Is(err, context.Canceled):
	default:
		s.zlog.Warn("websocket session ended", zap.Error(err))
		wsConn.Close(websocket.StatusInternalError, "session error")
	}
}

// play runs one connection: a start message, then human operations until
// the match is over. The opponent moves after OpponentDelay.
func (s *Server) play(ctx context.Context, conn *websocket.Conn) error {
	var sess *session.Session
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}

		if msg.Type == msgStart {
			seed := msg.Seed
			if seed == 0 {
				seed = s.cfg.Seed
			}
			sess = session.New(session.Options{
				Rules:    s.cfg.Rules,
				Catalog:  s.cfg.Catalog,
				Seed:     seed,
				Account:  msg.Account,
				Recorder: s.cfg.Recorder,
				Logger:   s.zlog,
			})
			if err := s.send(ctx, conn, sess, msgState, nil); err != nil {
				return err
			}
			continue
		}
		if sess == nil {
			if err := wsjson.Write(ctx, conn, ServerMessage{Type: msgError, Error: "send a start message first"}); err != nil {
				return err
			}
			continue
		}

		res, err := s.dispatch(ctx, sess, msg)
		if err != nil {
			if err := wsjson.Write(ctx, conn, ServerMessage{Type: msgError, Error: err.Error()}); err != nil {
				return err
			}
			continue
		}
		if err := s.send(ctx, conn, sess, msgState, res); err != nil {
			return err
		}

		for sess.OpponentPending() {
			opp, played, err := sess.PlayOpponent(ctx, s.cfg.OpponentDelay)
			if err != nil {
				return err
			}
			if !played {
				break
			}
			if err := s.send(ctx, conn, sess, msgOpponent, &opp); err != nil {
				return err
			}
		}
	}
}

func (s *Server) dispatch(ctx context.Context, sess *session.Session, msg ClientMessage) (*game.Result, error) {
	var res game.Result
	switch msg.Type {
	case msgPlayCard:
		res = sess.PlayCard(ctx, msg.CardID)
	case msgSelectTarget:
		var err error
		res, err = sess.SelectTarget(ctx, msg.Board, msg.Index)
		if err != nil {
			return nil, err
		}
	case msgCancelTarget:
		res = sess.CancelTarget(ctx)
	case msgEndTurn:
		res = sess.EndTurn(ctx)
	case msgState:
		return nil, nil
	default:
		return nil, errors.New("unknown message type " + strconv.Quote(msg.Type))
	}
	return &res, nil
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, sess *session.Session, typ string, res *game.Result) error {
	out := ServerMessage{
		Type:   typ,
		Events: view.Events(sess.DrainEvents()),
		State:  sess.State(),
	}
	if res != nil {
		rv := view.Result(*res, session.Human)
		out.Result = &rv
	}
	if out.State.GameOver {
		out.Type = msgGameOver
		id, err := sess.RecordStatus()
		out.RecordID = id
		if err != nil {
			out.Error = err.Error()
		}
	}
	return wsjson.Write(ctx, conn, out)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

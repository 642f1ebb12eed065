// Package livehost is a named external interface (spec §4.G / SPEC_FULL.md):
// a minimal WebSocket host adapter that lets a remote browser client drive
// an Engine, decoding {from,to,promo} JSON moves and streaming the game's
// result back. It plays the same role the teacher's cmd/livechess-uci
// adaptor plays for a DGT EBoard feed -- a thin protocol translation layer
// in front of Engine -- but over gorilla/websocket instead of a proprietary
// eboard feed, since no in-process hardware board is available here.
package livehost

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/squarewave/chesscore/internal/engine"
	"github.com/squarewave/chesscore/internal/piece"
	"github.com/squarewave/chesscore/internal/position"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// moveRequest is the client->server wire message: a move attempt (From/To/
// Promo set), or an engine-move request (Think set).
type moveRequest struct {
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Promo string `json:"promo,omitempty"`
	Think bool   `json:"think,omitempty"`
}

// stateResponse is the server->client wire message sent after every
// processed request.
type stateResponse struct {
	FEN    string `json:"fen"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
	Move   string `json:"move,omitempty"`
}

// Server upgrades incoming HTTP connections to WebSocket and drives a single
// Engine per connection. Each connection gets its own Engine so concurrent
// games don't share search state.
type Server struct {
	newEngine func(ctx context.Context) *engine.Engine
}

// NewServer returns a Server that constructs a fresh Engine, via newEngine,
// for every accepted connection.
func NewServer(newEngine func(ctx context.Context) *engine.Engine) *Server {
	return &Server{newEngine: newEngine}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logw.Errorf(ctx, "livehost: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	e := s.newEngine(ctx)
	logw.Infof(ctx, "livehost: connection accepted, engine=%v", e.Name())

	s.writeState(ctx, conn, e, "")

	for {
		var req moveRequest
		if err := conn.ReadJSON(&req); err != nil {
			logw.Infof(ctx, "livehost: connection closed: %v", err)
			return
		}
		s.handle(ctx, conn, e, req)
	}
}

func (s *Server) handle(ctx context.Context, conn *websocket.Conn, e *engine.Engine, req moveRequest) {
	if req.Think {
		move, ok := e.ChooseMove(ctx, lang.Optional[uint]{}, lang.Optional[bool]{})
		if !ok {
			s.writeState(ctx, conn, e, "engine has no legal move")
			return
		}
		if _, err := e.AttemptMove(ctx, move.From, move.To, move.PromoTo); err != nil {
			s.writeState(ctx, conn, e, err.Error())
			return
		}
		s.writeMove(ctx, conn, e, move.String())
		return
	}

	from, ok := position.ParseSquare(req.From)
	if !ok {
		s.writeState(ctx, conn, e, "invalid from square: "+req.From)
		return
	}
	to, ok := position.ParseSquare(req.To)
	if !ok {
		s.writeState(ctx, conn, e, "invalid to square: "+req.To)
		return
	}
	promo := piece.NoKind
	if req.Promo != "" {
		promo, ok = piece.ParseKind(rune(req.Promo[0]))
		if !ok {
			s.writeState(ctx, conn, e, "invalid promotion kind: "+req.Promo)
			return
		}
	}

	res, err := e.AttemptMove(ctx, from, to, promo)
	if err != nil {
		s.writeState(ctx, conn, e, err.Error())
		return
	}
	if res == engine.Promotion {
		s.writeState(ctx, conn, e, "promotion pending: resend with promo set")
		return
	}
	s.writeMove(ctx, conn, e, req.From+req.To)
}

func (s *Server) writeMove(ctx context.Context, conn *websocket.Conn, e *engine.Engine, move string) {
	resp := stateResponse{FEN: e.FEN(), Result: e.GameEnd(ctx).String(), Move: move}
	s.write(ctx, conn, resp)
}

func (s *Server) writeState(ctx context.Context, conn *websocket.Conn, e *engine.Engine, errMsg string) {
	resp := stateResponse{FEN: e.FEN(), Result: e.GameEnd(ctx).String(), Error: errMsg}
	s.write(ctx, conn, resp)
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, resp stateResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		logw.Errorf(ctx, "livehost: marshal failed: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logw.Errorf(ctx, "livehost: write failed: %v", err)
	}
}

// Package engine is the host boundary: the five operations spec §6 names
// (new_position, attempt_move, finalize_promotion, choose_move, game_end)
// as exported methods of Engine, wrapping internal/position and
// internal/search behind a mutex so a single Engine instance can be driven
// by one host goroutine at a time. Grounded on the teacher's
// pkg/engine/engine.go: functional-options construction, a name/version
// stamped via github.com/seekerror/build, and github.com/seekerror/logw
// structured logging at every state transition.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/squarewave/chesscore/internal/piece"
	"github.com/squarewave/chesscore/internal/position"
	"github.com/squarewave/chesscore/internal/search"
)

var version = build.NewVersion(1, 0, 0)

// Result mirrors position.Result at the host boundary, per spec §6's
// game_end() -> {None, Checkmate, Stalemate, FiftyMove, Repetition}.
type Result = position.Result

const (
	NoResult       = position.NoResult
	Checkmate      = position.Checkmate
	Stalemate      = position.Stalemate
	FiftyMoveDraw  = position.FiftyMoveDraw
	RepetitionDraw = position.RepetitionDraw
)

// AttemptResult is attempt_move's three-way outcome, per spec §6.
type AttemptResult uint8

const (
	// Illegal means from/to (with promo, if given) matched no legal move.
	// Position is unchanged.
	Illegal AttemptResult = iota
	// Valid means the move was applied.
	Valid
	// Promotion means from/to matches one or more legal promotions and no
	// promo was supplied; the host must call FinalizePromotion next.
	Promotion
)

func (r AttemptResult) String() string {
	switch r {
	case Valid:
		return "valid"
	case Promotion:
		return "promotion"
	default:
		return "illegal"
	}
}

// Options are engine creation/runtime options, per spec §4's AMBIENT STACK
// expansion: a plain configuration struct (no config file, no environment
// variables, matching spec §6), set via functional Option values the way
// the teacher's engine.WithOptions does.
type Options struct {
	// Depth is the default fixed search-depth bound ChooseMove uses when the
	// caller passes a zero-value (unset) lang.Optional[uint].
	Depth uint
	// IterativeDeepening is the default iterative-deepening setting
	// ChooseMove uses when the caller passes a zero-value (unset)
	// lang.Optional[bool].
	IterativeDeepening bool
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, iterativeDeepening=%v}", o.Depth, o.IterativeDeepening)
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOptions sets the engine's default runtime Options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithName sets the reported engine/author name, per spec §6's external
// interface (exposed via Name/Author for a UCI-style host to announce).
func WithName(name, author string) Option {
	return func(e *Engine) {
		e.name, e.author = name, author
	}
}

type stagedPromotion struct {
	from, to position.Square
}

// Engine encapsulates game-playing logic: the current Position, a Search
// (and its transposition table) reused across calls, and the two-phase
// promotion staging spec §6 describes for a UI driver. Not safe for
// concurrent use by multiple goroutines; callers serialize through one
// Engine the way a GUI event loop or a single console driver does.
type Engine struct {
	name, author string
	opts         Options

	mu     sync.Mutex
	pos    *position.Position
	search *search.Search
	staged *stagedPromotion

	fullmoves int
}

// NewEngine returns a new Engine at the standard starting position
// (spec §6's new_position()).
func NewEngine(ctx context.Context, opts ...Option) *Engine {
	e := &Engine{
		name:      "chesscore",
		author:    "chesscore",
		opts:      Options{Depth: 4, IterativeDeepening: true},
		search:    search.NewSearch(),
		pos:       position.NewPosition(),
		fullmoves: 1,
	}
	for _, fn := range opts {
		fn(e)
	}

	logw.Infof(ctx, "Initialized engine %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version, for a UCI-style "id name" reply.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the reported author, for a UCI-style "id author" reply.
func (e *Engine) Author() string {
	return e.author
}

// Options returns the engine's current default runtime options.
func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// SetDepth overrides the default search-depth bound.
func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

// SetIterativeDeepening overrides the default iterative-deepening setting.
func (e *Engine) SetIterativeDeepening(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.IterativeDeepening = on
}

// FEN returns the current position in Forsyth-Edwards notation.
func (e *Engine) FEN() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.EncodeFEN(e.fullmoves)
}

// Reset replaces the current position with the one encoded by fen
// (spec §6's new_position(), generalized to accept an arbitrary starting
// FEN so the console driver and tests can drive non-standard positions -- a
// supplemented feature, see SPEC_FULL.md).
func (e *Engine) Reset(ctx context.Context, fen string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, fullmoves, err := position.DecodeFEN(fen)
	if err != nil {
		return err
	}

	e.pos = pos
	e.fullmoves = fullmoves
	e.staged = nil

	logw.Infof(ctx, "Reset to %v", fen)
	return nil
}

// AttemptMove implements spec §6's attempt_move(from, to, promoTo?). If
// promo is piece.NoKind and from/to matches only promotion moves, it stages
// the promotion and returns Promotion without mutating the position; the
// host must then call FinalizePromotion. Otherwise a matching legal move is
// applied and Valid is returned, or Illegal if no legal move matches.
func (e *Engine) AttemptMove(ctx context.Context, from, to position.Square, promo piece.Kind) (AttemptResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	side := e.pos.SideToMove()
	legal := e.pos.LegalMoves(side)

	var direct *position.Move
	var promotions []position.Move
	for i := range legal {
		m := legal[i]
		if m.From != from || m.To != to {
			continue
		}
		if m.Kind == position.Promotion {
			promotions = append(promotions, m)
			continue
		}
		direct = &legal[i]
	}

	if direct != nil {
		e.applyAndLog(ctx, *direct)
		return Valid, nil
	}

	if len(promotions) > 0 {
		if promo == piece.NoKind {
			e.staged = &stagedPromotion{from: from, to: to}
			logw.Infof(ctx, "Promotion staged %v%v, awaiting FinalizePromotion", from, to)
			return Promotion, nil
		}
		for _, m := range promotions {
			if m.PromoTo == promo {
				e.applyAndLog(ctx, m)
				return Valid, nil
			}
		}
	}

	logw.Errorf(ctx, "Illegal move %v%v", from, to)
	return Illegal, fmt.Errorf("illegal move: %v%v", from, to)
}

// FinalizePromotion commits the promotion staged by a prior AttemptMove
// that returned Promotion, per spec §6's finalize_promotion(kind). The
// search path never calls this: ChooseMove's Move already carries PromoTo
// directly.
func (e *Engine) FinalizePromotion(ctx context.Context, promo piece.Kind) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.staged == nil {
		return fmt.Errorf("no promotion pending")
	}
	from, to := e.staged.from, e.staged.to
	e.staged = nil

	for _, m := range e.pos.LegalMoves(e.pos.SideToMove()) {
		if m.From == from && m.To == to && m.Kind == position.Promotion && m.PromoTo == promo {
			e.applyAndLog(ctx, m)
			return nil
		}
	}
	logw.Errorf(ctx, "Illegal promotion %v%v=%v", from, to, promo)
	return fmt.Errorf("illegal promotion: %v%v=%v", from, to, promo)
}

func (e *Engine) applyAndLog(ctx context.Context, m position.Move) {
	if e.pos.SideToMove() == piece.Black {
		e.fullmoves++
	}
	e.pos.Apply(m)
	e.staged = nil
	logw.Infof(ctx, "Applied %v: %v", m, e.pos.EncodeFEN(e.fullmoves))
}

// ChooseMove implements spec §6's choose_move(position, depth,
// iterativeDeepening?): a blocking, synchronous search of the current
// position to depth (or Options.Depth / Options.IterativeDeepening when the
// corresponding lang.Optional is zero-valued/unset), per spec §5 -- no context
// cancellation is threaded into the search itself; ctx here is used only
// for logging correlation, matching SPEC_FULL.md §5's expansion.
func (e *Engine) ChooseMove(ctx context.Context, depth lang.Optional[uint], iterativeDeepening lang.Optional[bool]) (position.Move, bool) {
	e.mu.Lock()
	d := e.opts.Depth
	id := e.opts.IterativeDeepening
	e.mu.Unlock()

	if v, ok := depth.V(); ok {
		d = v
	}
	if v, ok := iterativeDeepening.V(); ok {
		id = v
	}

	e.mu.Lock()
	pos := e.pos
	s := e.search
	e.mu.Unlock()

	move, ok := s.ChooseMove(pos, int(d), id)
	logw.Infof(ctx, "ChooseMove depth=%v iterativeDeepening=%v: %v (ok=%v)", d, id, move, ok)
	return move, ok
}

// GameEnd implements spec §6's game_end(), classifying the current position
// per the repetition > fifty-move > no-legal-moves precedence in
// position.Position.GameEnd.
func (e *Engine) GameEnd(ctx context.Context) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	legal := e.pos.LegalMoves(e.pos.SideToMove())
	return e.pos.GameEnd(legal)
}

// Position returns the Engine's current position, for callers (tests,
// console driver, livehost) that need direct read access beyond the five
// spec §6 operations. The returned pointer is the Engine's own live state;
// callers must not mutate it outside Engine's own methods.
func (e *Engine) Position() *position.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos
}

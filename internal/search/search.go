// Package search implements negamax with alpha-beta pruning, a
// transposition table, MVV-LVA move ordering, a quiescence extension over
// tactical replies, and iterative deepening. See spec §4.E.
//
// Pseudo-code for the core recursion (see also
// https://en.wikipedia.org/wiki/Negamax and
// https://www.chessprogramming.org/Quiescence_Search):
//
//	function negamax(node, depth, α, β) is
//	    if depth = 0 or node is terminal then
//	        return quiescence(node, α, β)
//	    value := −∞
//	    for each child of node do
//	        value := max(value, −negamax(child, depth − 1, −β, −α))
//	        α := max(α, value)
//	        if α ≥ β then
//	            break (* β cutoff *)
//	    return value
//
// Per spec §5 the core is single-threaded and synchronous: ChooseMove is a
// blocking, CPU-bound call with no suspension points, no cancellation and no
// timeouts -- a deliberate divergence from the teacher's pkg/search, whose
// AlphaBeta/Quiescence thread a context.Context and a quit channel through
// every recursive call for mid-search halting. A Search owns one
// transposition table and is reusable across successive ChooseMove calls on
// the same instance, but is never shared across instances (spec §5).
package search

import (
	"context"

	"github.com/seekerror/logw"

	"github.com/squarewave/chesscore/internal/eval"
	"github.com/squarewave/chesscore/internal/piece"
	"github.com/squarewave/chesscore/internal/position"
)

// Search is the engine's negamax search harness: a transposition table plus
// the (stateless beyond that table) recursion below. The zero value is not
// usable; construct with NewSearch.
type Search struct {
	tt *Table
}

// NewSearch returns a Search with a fresh, empty transposition table.
func NewSearch() *Search {
	return &Search{tt: NewTable()}
}

// TableLen reports how many positions are currently cached in the
// transposition table, for diagnostics/logging only.
func (s *Search) TableLen() int {
	return s.tt.Len()
}

// ChooseMove implements the spec §4.E root contract: choose_move(position,
// maxDepth, iterativeDeepening?). With iterative deepening, it searches
// depth 1, 2, ..., maxDepth, each a full alpha-beta root call sharing this
// Search's transposition table; the best move from the deepest iteration
// that produced one is returned, falling back to a shallower iteration's
// move if a deeper one found none (e.g. a transposition-table hit whose
// stored move failed the legality re-check). Without iterative deepening, only maxDepth is
// searched. Position is restored to its entry state before ChooseMove
// returns: every Apply made during search is undone (spec §5).
func (s *Search) ChooseMove(p *position.Position, maxDepth int, iterativeDeepening bool) (position.Move, bool) {
	if maxDepth < 1 {
		maxDepth = 1
	}

	ctx := context.Background()
	start := maxDepth
	if iterativeDeepening {
		start = 1
	}

	var best position.Move
	haveBest := false
	for depth := start; depth <= maxDepth; depth++ {
		_, move, ok := s.negamax(p, depth, eval.NegInf, eval.PosInf, 0)
		if ok {
			best = move
			haveBest = true
		}
		logw.Debugf(ctx, "search: depth=%v best=%v ok=%v tt=%v", depth, move, ok, s.tt.Len())
	}
	return best, haveBest
}

// legalOrdered generates pseudo-legal moves for the side to move and orders
// them per spec §4.E's move-ordering rules, promoting tt's move (if present
// in the list) to the front.
func legalOrdered(p *position.Position, side piece.Colour, tt position.Move, haveTT bool) []position.Move {
	moves := p.PseudoLegalMoves(side)
	orderMoves(moves, tt, haveTT)
	return moves
}

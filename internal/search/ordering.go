package search

import (
	"sort"

	"github.com/squarewave/chesscore/internal/position"
)

// Move-ordering priority tiers, per spec §4.E. ttScore is used only when a
// transposition entry for this node carries a best move that appears in the
// move list being ordered -- it sorts first without granting the move any
// special trust (the search loop still applies it and checks legality like
// any other pseudo-legal move). This covers spec §9's "do not trust the
// stored bestMove without legality re-check" guidance for the ordering path
// only; the early TT-hit returns in negamax.go re-check separately via
// verifiedMove, since they never reach move generation at all.
const (
	ttScore        = 20_000_000
	promotionScore = 10_000_000
	captureScore   = 500_000
	castleScore    = 100_000
)

func priority(m position.Move, tt position.Move, haveTT bool) int {
	if haveTT && m.Equals(tt) {
		return ttScore
	}
	switch m.Kind {
	case position.Promotion:
		return promotionScore + m.PromoTo.Worth()
	case position.Capture, position.EnPassant:
		return captureScore + 10*m.Captured.Worth() - m.Piece.Worth()
	case position.Castle:
		return castleScore
	default:
		return 0
	}
}

// orderMoves sorts moves descending by priority, in place. The sort is
// stable, so ties resolve by the generator's own (deterministic) order --
// satisfying spec §4.E's "stable across calls on the same input" tie-break
// requirement without needing an explicit secondary key.
func orderMoves(moves []position.Move, tt position.Move, haveTT bool) {
	sort.SliceStable(moves, func(i, j int) bool {
		return priority(moves[i], tt, haveTT) > priority(moves[j], tt, haveTT)
	})
}

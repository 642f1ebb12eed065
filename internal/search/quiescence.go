package search

import (
	"github.com/squarewave/chesscore/internal/eval"
	"github.com/squarewave/chesscore/internal/position"
)

// quiescence extends a leaf over tactical replies (captures, en passant,
// promotions) to avoid the horizon effect, per spec §4.E. It is a fail-hard
// alpha-beta search restricted to Move.IsTactical() moves, seeded by a
// stand-pat evaluation: a side not forced to move is never worse off than
// simply stopping here, so the static eval is both the starting alpha and
// the value returned if no tactical move improves on it.
func (s *Search) quiescence(p *position.Position, alpha, beta eval.Score, ply int) eval.Score {
	standPat := eval.Evaluate(p)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	side := p.SideToMove()
	pseudo := p.PseudoLegalMoves(side)
	tactical := pseudo[:0]
	for _, m := range pseudo {
		if m.IsTactical() {
			tactical = append(tactical, m)
		}
	}
	orderMoves(tactical, position.Move{}, false)

	for _, m := range tactical {
		p.Apply(m)
		if p.InCheck(side) {
			p.Undo(m)
			continue
		}

		score := -s.quiescence(p, -beta, -alpha, ply+1)
		p.Undo(m)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

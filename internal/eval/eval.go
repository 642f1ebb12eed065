// Package eval implements static position evaluation: material, piece-square
// tables, mobility, king safety and file-structure terms. See spec §4.D.
//
// Material and PST are maintained incrementally on Position itself (see
// internal/position.Eval); everything else here is cheap enough to
// recompute at every evaluation call, relative to the search cost it guards.
package eval

import (
	"github.com/squarewave/chesscore/internal/piece"
	"github.com/squarewave/chesscore/internal/position"
)

// Score is a centipawn evaluation. By convention every exported function in
// this package that returns a Score returns it negamax-signed: positive
// favors whoever is to move, never "White" unconditionally. The unexported
// term helpers below return plain ints, white-positive or per-colour, which
// Evaluate combines before the final sign flip. See spec §9's
// material-sign-convention note.
type Score int32

const (
	// Mate is the sentinel magnitude for forced-mate scores. A checkmate
	// found ply plies below the search root scores -Mate+ply, so the
	// search prefers a shorter mate over a longer one.
	Mate Score = 1_000_000

	// NegInf and PosInf bound the negamax search window at the root; they
	// sit comfortably outside any reachable Mate-adjusted score.
	NegInf Score = -2 * Mate
	PosInf Score = 2 * Mate
)

// Max returns the larger of two scores.
func Max(a, b Score) Score {
	if a > b {
		return a
	}
	return b
}

// Terminal returns the value of a terminal game-end result at ply plies
// from the search root. Checkmate is the only non-zero case; stalemate,
// fifty-move and repetition are all scored as a draw.
func Terminal(result position.Result, ply int) Score {
	if result == position.Checkmate {
		return -Mate + Score(ply)
	}
	return 0
}

// Evaluate returns the static evaluation of p from the perspective of the
// side to move, per spec §4.D: the incrementally maintained material+PST
// accumulator, plus mobility, king safety and file-structure terms computed
// from scratch, all summed white-positive and then negated for Black to
// move.
func Evaluate(p *position.Position) Score {
	white := p.Eval()
	white += mobility(p)
	white += kingSafety(p, piece.White) - kingSafety(p, piece.Black)
	white += fileBonuses(p)

	if p.SideToMove() == piece.Black {
		white = -white
	}
	return Score(white)
}

// mobility is 2*(|pseudo-legal White moves| - |pseudo-legal Black moves|),
// added white-positive at static-eval time.
func mobility(p *position.Position) int {
	w := len(p.PseudoLegalMoves(piece.White))
	b := len(p.PseudoLegalMoves(piece.Black))
	return 2 * (w - b)
}

// kingSafety returns colour's unsigned pawn-shield bonus: 15 centipawns for
// each of the king's file and the two adjacent files that has a friendly
// pawn one rank in front of the king, plus an extra 3 when that shield pawn
// is on the king's own file.
func kingSafety(p *position.Position, c piece.Colour) int {
	king := p.KingSquare(c)
	dir := piece.PawnDirection(c)

	total := 0
	for dx := -1; dx <= 1; dx++ {
		sq := king.Add(dx, dir)
		if !sq.InBounds() {
			continue
		}
		if k, col, ok := p.PieceAt(sq); ok && col == c && k == piece.Pawn {
			total += 15
			if dx == 0 {
				total += 3
			}
		}
	}
	return total
}

// fileBonuses returns the white-perspective sum, across all eight files, of
// the doubled-pawn penalty and the open/semi-open file rook bonus.
func fileBonuses(p *position.Position) int {
	var wp, bp, wr, br [8]int
	for _, rec := range p.Roster(piece.White) {
		switch rec.Kind {
		case piece.Pawn:
			wp[rec.Sq.X]++
		case piece.Rook:
			wr[rec.Sq.X]++
		}
	}
	for _, rec := range p.Roster(piece.Black) {
		switch rec.Kind {
		case piece.Pawn:
			bp[rec.Sq.X]++
		case piece.Rook:
			br[rec.Sq.X]++
		}
	}

	total := 0
	for x := 0; x < 8; x++ {
		total += doubledPenalty(wp[x]) - doubledPenalty(bp[x])
		total += fileBonusForRooks(wp[x], bp[x], wr[x])
		total -= fileBonusForRooks(bp[x], wp[x], br[x])
	}
	return total
}

func doubledPenalty(pawns int) int {
	if pawns > 1 {
		return (pawns - 1) * -20
	}
	return 0
}

// fileBonusForRooks returns own's rook bonus on a file given own's and
// enemy's pawn counts on that file: +25 per rook if the file is fully open,
// +15 per rook if it is semi-open (own pawns absent, enemy pawns present).
func fileBonusForRooks(own, enemy, rooks int) int {
	switch {
	case own == 0 && enemy == 0:
		return 25 * rooks
	case own == 0 && enemy > 0:
		return 15 * rooks
	default:
		return 0
	}
}

package position

import (
	"math"

	"github.com/squarewave/chesscore/internal/piece"
)

// PSTTable holds one coefficient per (kind, rank, file), already expressed
// from White's point of view with rank 0 at the top of the table (y=0). The
// coefficient is clamped to [-0.6, 0.6] and scaled by the piece's material
// worth (100 for the king, since its own Worth() is 0) to produce a
// centipawn term. The table itself is an opaque constant: callers may inject
// their own via NewPositionWithPST without this package caring about the
// tuning behind the numbers.
type PSTTable [7][8][8]float64

const pstClamp = 0.6

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// mirrorY maps a board rank to the rank a PST table (always written from
// White's perspective) should be read at: unchanged for White, flipped for
// Black.
func mirrorY(c piece.Colour, y int8) int8 {
	if c == piece.White {
		return y
	}
	return 7 - y
}

// pstTerm returns the signed centipawn contribution of a single piece at sq,
// including the clamp and the colour sign, per spec: round(|worth(p)| *
// clamp(PST[kind][mirror_y][x], -0.6, 0.6)), king uses 100 in place of
// worth(king)==0, and the whole term is signed by colour.
func pstTerm(k piece.Kind, c piece.Colour, sq Square, pst PSTTable) int {
	my := mirrorY(c, sq.Y)
	coeff := clamp(pst[k][my][sq.X], -pstClamp, pstClamp)
	magnitude := float64(k.Worth())
	if k == piece.King {
		magnitude = 100
	}
	term := int(math.Round(magnitude * coeff))
	return term * c.Unit()
}

// pieceValue returns the signed material+PST contribution of a single piece
// at its current square: the per-piece summand of Position invariant 3.
func pieceValue(k piece.Kind, c piece.Colour, sq Square, pst PSTTable) int {
	return k.Worth()*c.Unit() + pstTerm(k, c, sq, pst)
}

// DefaultPST returns a modest, hand-picked table favouring central squares
// and advanced pawns. It is intentionally simple: tuning PST coefficients is
// explicitly out of scope, this is only a placeholder an embedder can
// replace wholesale.
func DefaultPST() PSTTable {
	var t PSTTable
	centre := [8][8]float64{
		{-0.3, -0.2, -0.1, -0.1, -0.1, -0.1, -0.2, -0.3},
		{-0.2, -0.1, 0.0, 0.0, 0.0, 0.0, -0.1, -0.2},
		{-0.1, 0.0, 0.1, 0.15, 0.15, 0.1, 0.0, -0.1},
		{-0.1, 0.05, 0.15, 0.3, 0.3, 0.15, 0.05, -0.1},
		{-0.1, 0.05, 0.15, 0.3, 0.3, 0.15, 0.05, -0.1},
		{-0.1, 0.0, 0.1, 0.15, 0.15, 0.1, 0.0, -0.1},
		{-0.2, -0.1, 0.0, 0.0, 0.0, 0.0, -0.1, -0.2},
		{-0.3, -0.2, -0.1, -0.1, -0.1, -0.1, -0.2, -0.3},
	}
	pawn := [8][8]float64{
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
		{0.2, 0.2, 0.3, 0.4, 0.4, 0.3, 0.2, 0.2},
		{0.1, 0.1, 0.2, 0.35, 0.35, 0.2, 0.1, 0.1},
		{0.0, 0.0, 0.1, 0.3, 0.3, 0.1, 0.0, 0.0},
		{0.05, -0.05, -0.1, 0.0, 0.0, -0.1, -0.05, 0.05},
		{0.05, 0.1, 0.1, -0.2, -0.2, 0.1, 0.1, 0.05},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	king := [8][8]float64{
		{-0.3, -0.4, -0.4, -0.5, -0.5, -0.4, -0.4, -0.3},
		{-0.3, -0.4, -0.4, -0.5, -0.5, -0.4, -0.4, -0.3},
		{-0.3, -0.4, -0.4, -0.5, -0.5, -0.4, -0.4, -0.3},
		{-0.3, -0.4, -0.4, -0.5, -0.5, -0.4, -0.4, -0.3},
		{-0.2, -0.3, -0.3, -0.4, -0.4, -0.3, -0.3, -0.2},
		{-0.1, -0.2, -0.2, -0.2, -0.2, -0.2, -0.2, -0.1},
		{0.2, 0.2, 0.0, 0.0, 0.0, 0.0, 0.2, 0.2},
		{0.2, 0.3, 0.1, 0.0, 0.0, 0.1, 0.3, 0.2},
	}
	t[piece.Pawn] = pawn
	t[piece.King] = king
	for _, k := range []piece.Kind{piece.Knight, piece.Bishop, piece.Rook, piece.Queen} {
		t[k] = centre
	}
	return t
}

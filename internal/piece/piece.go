// Package piece contains the chess piece kinds, colours and the pure
// geometry templates used by move generation. A template only knows the
// shape of a piece's movement; occupancy and colour checks are applied by
// the generator in package position.
package piece

import (
	"fmt"
	"strings"
)

// Kind identifies a chess piece type, without colour.
type Kind uint8

const (
	NoKind Kind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

// Worth returns the material value of a kind in centipawns. Unsigned.
func (k Kind) Worth() int {
	switch k {
	case Pawn:
		return 100
	case Knight:
		return 325
	case Bishop:
		return 330
	case Rook:
		return 500
	case Queen:
		return 900
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	default:
		return "-"
	}
}

// ParseKind parses a single promotion/piece letter, case-insensitively.
func ParseKind(r rune) (Kind, bool) {
	switch r {
	case 'k', 'K':
		return King, true
	case 'q', 'Q':
		return Queen, true
	case 'r', 'R':
		return Rook, true
	case 'b', 'B':
		return Bishop, true
	case 'n', 'N':
		return Knight, true
	case 'p', 'P':
		return Pawn, true
	default:
		return NoKind, false
	}
}

// Colour is the playing side.
type Colour uint8

const (
	White Colour = iota
	Black
)

func (c Colour) Opponent() Colour {
	if c == White {
		return Black
	}
	return White
}

// Unit returns +1 for White and -1 for Black, the negamax sign convention.
func (c Colour) Unit() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Colour) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// Offset is a (dx, dy) displacement on the 8x8 grid.
type Offset struct {
	DX, DY int
}

// KingOffsets are the 8 neighbouring squares of a king.
var KingOffsets = []Offset{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// KnightOffsets are the 8 L-shaped knight jumps.
var KnightOffsets = []Offset{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

// RookDirections are the 4 orthogonal sliding rays.
var RookDirections = []Offset{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// BishopDirections are the 4 diagonal sliding rays.
var BishopDirections = []Offset{
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// QueenDirections is the union of rook and bishop rays.
var QueenDirections = append(append([]Offset{}, RookDirections...), BishopDirections...)

// PawnDirection returns the forward rank step for the colour: -1 for White
// (moving toward y=0), +1 for Black (moving toward y=7).
func PawnDirection(c Colour) int {
	if c == White {
		return -1
	}
	return 1
}

// PawnStartRank returns the rank a pawn of the given colour starts on.
func PawnStartRank(c Colour) int {
	if c == White {
		return 6
	}
	return 1
}

// PawnPromotionRank returns the rank a pawn of the given colour promotes on.
func PawnPromotionRank(c Colour) int {
	if c == White {
		return 0
	}
	return 7
}

// PromotionKinds are the four pieces a pawn may promote to, in a fixed,
// deterministic order (used for both legal-move generation and tie-breaking
// during move ordering).
var PromotionKinds = []Kind{Queen, Rook, Bishop, Knight}

// Directions iterates the directions template for a piece kind, or nil for
// a piece whose movement is not ray-based (king/knight/pawn are step-based
// and handled directly by the generator).
func Directions(k Kind) []Offset {
	switch k {
	case Rook:
		return RookDirections
	case Bishop:
		return BishopDirections
	case Queen:
		return QueenDirections
	default:
		return nil
	}
}

// IsSlider reports whether a piece kind moves along unbounded rays.
func IsSlider(k Kind) bool {
	switch k {
	case Rook, Bishop, Queen:
		return true
	default:
		return false
	}
}

// Placement names a piece and its colour. Used for diagnostics and FEN I/O.
type Placement struct {
	Colour Colour
	Kind   Kind
}

func (p Placement) String() string {
	s := fmt.Sprintf("%v", p.Kind)
	if p.Colour == Black {
		return strings.ToLower(s)
	}
	return s
}

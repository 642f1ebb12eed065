package position

import (
	"fmt"

	"github.com/squarewave/chesscore/internal/piece"
)

// MoveKind classifies a move for apply/undo and for move ordering.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	Castle
	EnPassant
	Promotion
	Capture
)

// Move is a not-necessarily-legal move together with enough metadata to
// make/unmake it without consulting the position again. For castling,
// SecondaryFrom/SecondaryTo carry the rook's endpoints; for en passant,
// SecondaryFrom carries the captured pawn's square (which differs from To).
type Move struct {
	From, To Square
	Piece    piece.Kind // the moving piece's kind
	Captured piece.Kind // NoKind if this move does not capture
	Kind     MoveKind
	PromoTo  piece.Kind // NoKind unless Kind == Promotion

	SecondaryFrom, SecondaryTo Square
}

// IsTactical reports whether a move is a capture, en passant or promotion --
// the set of moves considered by quiescence search.
func (m Move) IsTactical() bool {
	return m.Kind == Capture || m.Kind == EnPassant || m.Kind == Promotion
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.PromoTo == o.PromoTo && m.Kind == o.Kind
}

func (m Move) String() string {
	if m.PromoTo != piece.NoKind {
		return fmt.Sprintf("%v%v=%v", m.From, m.To, m.PromoTo)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// ParseUCIMove parses pure coordinate notation, e.g. "e2e4" or "e7e8q". It
// does not validate legality -- callers must match the result against a
// legal move list before applying it.
func ParseUCIMove(str string) (from, to Square, promo piece.Kind, ok bool) {
	if len(str) < 4 || len(str) > 5 {
		return Square{}, Square{}, piece.NoKind, false
	}
	from, ok = ParseSquare(str[0:2])
	if !ok {
		return Square{}, Square{}, piece.NoKind, false
	}
	to, ok = ParseSquare(str[2:4])
	if !ok {
		return Square{}, Square{}, piece.NoKind, false
	}
	promo = piece.NoKind
	if len(str) == 5 {
		promo, ok = piece.ParseKind(rune(str[4]))
		if !ok || promo == piece.Pawn || promo == piece.King {
			return Square{}, Square{}, piece.NoKind, false
		}
	}
	return from, to, promo, true
}

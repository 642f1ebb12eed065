package position

import "github.com/squarewave/chesscore/internal/piece"

// IsAttacked reports whether sq is attacked by any piece of colour by. It
// deliberately ignores castling and en passant, per spec §4.B: it is the
// shared oracle behind both in-check detection and castling path safety.
func (p *Position) IsAttacked(sq Square, by piece.Colour) bool {
	dir := piece.PawnDirection(by)
	for _, dx := range []int{-1, 1} {
		a := Square{X: sq.X - int8(dx), Y: sq.Y - int8(dir)}
		if a.InBounds() {
			if k, c, ok := p.PieceAt(a); ok && c == by && k == piece.Pawn {
				return true
			}
		}
	}
	for _, o := range piece.KnightOffsets {
		a := sq.Add(o.DX, o.DY)
		if a.InBounds() {
			if k, c, ok := p.PieceAt(a); ok && c == by && k == piece.Knight {
				return true
			}
		}
	}
	for _, o := range piece.KingOffsets {
		a := sq.Add(o.DX, o.DY)
		if a.InBounds() {
			if k, c, ok := p.PieceAt(a); ok && c == by && k == piece.King {
				return true
			}
		}
	}
	for _, o := range piece.RookDirections {
		if p.firstHit(sq, o, by, piece.Rook, piece.Queen) {
			return true
		}
	}
	for _, o := range piece.BishopDirections {
		if p.firstHit(sq, o, by, piece.Bishop, piece.Queen) {
			return true
		}
	}
	return false
}

// firstHit walks the ray from sq in direction o and reports whether the
// first occupied square hit holds a by-coloured piece of kind k1 or k2.
func (p *Position) firstHit(sq Square, o piece.Offset, by piece.Colour, k1, k2 piece.Kind) bool {
	a := sq.Add(o.DX, o.DY)
	for a.InBounds() {
		if k, c, ok := p.PieceAt(a); ok {
			return c == by && (k == k1 || k == k2)
		}
		a = a.Add(o.DX, o.DY)
	}
	return false
}

func appendPromotions(moves []Move, from, to Square, mover piece.Kind, captured piece.Kind, secFrom, secTo Square) []Move {
	for _, k := range piece.PromotionKinds {
		moves = append(moves, Move{
			From: from, To: to, Piece: mover, Captured: captured,
			Kind: Promotion, PromoTo: k,
			SecondaryFrom: secFrom, SecondaryTo: secTo,
		})
	}
	return moves
}

// PseudoLegalMoves generates every move for colour that is legal ignoring
// whether it leaves the mover's own king in check. Castling additionally
// applies the path-safety test (king's current/passed-over/landing squares
// unattacked), which spec treats as part of pseudo-legality rather than the
// apply/undo legality filter.
func (p *Position) PseudoLegalMoves(c piece.Colour) []Move {
	var moves []Move
	for _, id := range p.rosters[c] {
		rec := p.arena[id]
		switch rec.Kind {
		case piece.Pawn:
			moves = p.pawnMoves(moves, rec)
		case piece.Knight:
			moves = p.stepMoves(moves, rec, piece.KnightOffsets)
		case piece.King:
			moves = p.stepMoves(moves, rec, piece.KingOffsets)
			moves = p.castlingMoves(moves, rec)
		default:
			moves = p.sliderMoves(moves, rec)
		}
	}
	return moves
}

// LegalMoves filters PseudoLegalMoves(c) down to moves that do not leave c's
// own king in check, using make/unmake as the single ground truth for
// legality (spec §4.C), shared by search, the game-end detector and any UI.
func (p *Position) LegalMoves(c piece.Colour) []Move {
	pseudo := p.PseudoLegalMoves(c)
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		p.Apply(m)
		ok := !p.InCheck(c)
		p.Undo(m)
		if ok {
			legal = append(legal, m)
		}
	}
	return legal
}

func (p *Position) stepMoves(moves []Move, rec PieceRecord, offsets []piece.Offset) []Move {
	for _, o := range offsets {
		to := rec.Sq.Add(o.DX, o.DY)
		if !to.InBounds() {
			continue
		}
		if k, c, ok := p.PieceAt(to); ok {
			if c == rec.Colour {
				continue
			}
			moves = append(moves, Move{From: rec.Sq, To: to, Piece: rec.Kind, Captured: k, Kind: Capture})
			continue
		}
		moves = append(moves, Move{From: rec.Sq, To: to, Piece: rec.Kind, Captured: piece.NoKind, Kind: Quiet})
	}
	return moves
}

func (p *Position) sliderMoves(moves []Move, rec PieceRecord) []Move {
	for _, o := range piece.Directions(rec.Kind) {
		to := rec.Sq.Add(o.DX, o.DY)
		for to.InBounds() {
			if k, c, ok := p.PieceAt(to); ok {
				if c != rec.Colour {
					moves = append(moves, Move{From: rec.Sq, To: to, Piece: rec.Kind, Captured: k, Kind: Capture})
				}
				break
			}
			moves = append(moves, Move{From: rec.Sq, To: to, Piece: rec.Kind, Captured: piece.NoKind, Kind: Quiet})
			to = to.Add(o.DX, o.DY)
		}
	}
	return moves
}

func (p *Position) pawnMoves(moves []Move, rec PieceRecord) []Move {
	dir := piece.PawnDirection(rec.Colour)
	promoRank := piece.PawnPromotionRank(rec.Colour)

	one := rec.Sq.Add(0, dir)
	if one.InBounds() {
		if _, _, occupied := p.PieceAt(one); !occupied {
			if int(one.Y) == promoRank {
				moves = appendPromotions(moves, rec.Sq, one, rec.Kind, piece.NoKind, NoSquare, NoSquare)
			} else {
				moves = append(moves, Move{From: rec.Sq, To: one, Piece: rec.Kind, Captured: piece.NoKind, Kind: Quiet})
			}
			if int(rec.Sq.Y) == piece.PawnStartRank(rec.Colour) {
				two := rec.Sq.Add(0, 2*dir)
				if _, _, occ2 := p.PieceAt(two); !occ2 {
					moves = append(moves, Move{From: rec.Sq, To: two, Piece: rec.Kind, Captured: piece.NoKind, Kind: Quiet})
				}
			}
		}
	}

	for _, dx := range []int{-1, 1} {
		to := rec.Sq.Add(dx, dir)
		if !to.InBounds() {
			continue
		}
		if k, c, ok := p.PieceAt(to); ok && c != rec.Colour {
			if int(to.Y) == promoRank {
				moves = appendPromotions(moves, rec.Sq, to, rec.Kind, k, NoSquare, NoSquare)
			} else {
				moves = append(moves, Move{From: rec.Sq, To: to, Piece: rec.Kind, Captured: k, Kind: Capture})
			}
			continue
		}
		if p.enPassant.InBounds() && to == p.enPassant {
			capturedSq := Sq(int(to.X), int(rec.Sq.Y))
			moves = append(moves, Move{
				From: rec.Sq, To: to, Piece: rec.Kind, Captured: piece.Pawn, Kind: EnPassant,
				SecondaryFrom: capturedSq, SecondaryTo: NoSquare,
			})
		}
	}
	return moves
}

type castlingSpec struct {
	kingside         bool
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	between          []Square // must be empty
	kingPath         []Square // king's current/passed-over/landing squares, must be unattacked
}

func castlingSpecs(c piece.Colour) []castlingSpec {
	y := int8(7)
	if c == piece.Black {
		y = 0
	}
	return []castlingSpec{
		{
			kingside: true,
			kingFrom: Square{4, y}, kingTo: Square{6, y},
			rookFrom: Square{7, y}, rookTo: Square{5, y},
			between:  []Square{{5, y}, {6, y}},
			kingPath: []Square{{4, y}, {5, y}, {6, y}},
		},
		{
			kingside: false,
			kingFrom: Square{4, y}, kingTo: Square{2, y},
			rookFrom: Square{0, y}, rookTo: Square{3, y},
			between:  []Square{{1, y}, {2, y}, {3, y}},
			kingPath: []Square{{4, y}, {3, y}, {2, y}},
		},
	}
}

// castlingMoves generates pseudo-legal castling moves per spec §4.B: the
// king must never have moved, the chosen rook must never have moved, all
// squares between them must be empty, and the king's current, passed-over
// and landing squares must all be unattacked ("cannot castle out of or
// through check").
func (p *Position) castlingMoves(moves []Move, king PieceRecord) []Move {
	if king.HasMoved {
		return moves
	}
	for _, cs := range castlingSpecs(king.Colour) {
		if !p.rights[rightIndex(king.Colour, cs.kingside)] {
			continue
		}
		if k, c, ok := p.PieceAt(cs.rookFrom); !ok || k != piece.Rook || c != king.Colour {
			// Rights alone (derived from FEN's castling field) don't
			// guarantee the rook is still on its home square -- a
			// malformed or hand-edited FEN can set the right with no
			// rook there, which would otherwise hand Apply a castle move
			// with no piece to move from rookFrom.
			continue
		}
		empty := true
		for _, sq := range cs.between {
			if _, _, occ := p.PieceAt(sq); occ {
				empty = false
				break
			}
		}
		if !empty {
			continue
		}
		safe := true
		for _, sq := range cs.kingPath {
			if p.IsAttacked(sq, king.Colour.Opponent()) {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}
		moves = append(moves, Move{
			From: cs.kingFrom, To: cs.kingTo, Piece: piece.King, Captured: piece.NoKind,
			Kind: Castle, SecondaryFrom: cs.rookFrom, SecondaryTo: cs.rookTo,
		})
	}
	return moves
}

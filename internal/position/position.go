// Package position implements the chess board: an 8x8 mailbox, the piece
// roster, make/unmake, the attack oracle, the two-phase move generator and
// the position fingerprint. It is the single shared mutable resource every
// other package (eval, search, engine) operates through; no other package
// keeps its own copy of board state.
package position

import (
	"fmt"

	"github.com/squarewave/chesscore/internal/piece"
)

// PieceID is a stable handle into Position's piece arena. It never changes
// once a piece is placed, even across capture (the slot survives, marked
// Captured) or promotion (the pawn's ID is reused with a new Kind).
type PieceID int8

// NoPiece is the mailbox sentinel for an empty square.
const NoPiece PieceID = -1


// rightIndex maps a (colour, kingside?) pair to its slot in Position.rights
// and ZobristTable.castling, in the fixed order spec §4.F requires: [WQ, WK,
// BQ, BK].
func rightIndex(c piece.Colour, kingside bool) int {
	switch {
	case c == piece.White && !kingside:
		return 0
	case c == piece.White && kingside:
		return 1
	case c == piece.Black && !kingside:
		return 2
	default:
		return 3
	}
}

// rookHomeSquares returns colour's queenside and kingside rook starting
// squares, the squares whose occupancy/movement gate that colour's
// castling rights.
func rookHomeSquares(c piece.Colour) (queenside, kingside Square) {
	y := int8(7)
	if c == piece.Black {
		y = 0
	}
	return Square{0, y}, Square{7, y}
}

// PieceRecord is one arena slot: a piece's kind, colour, current square and
// the two bits of history that matter for rules (HasMoved for castling,
// Captured for board/roster membership).
type PieceRecord struct {
	Kind     piece.Kind
	Colour   piece.Colour
	Sq       Square
	HasMoved bool
	Captured bool
}

// Position is the single mutable resource all search and evaluation flows
// through. See package doc and spec §3 for the seven invariants every public
// operation must preserve.
type Position struct {
	arena   [32]PieceRecord
	board   [8][8]PieceID
	rosters [2][]PieceID // indexed by piece.Colour
	kingID  [2]PieceID   // indexed by piece.Colour; a king is never captured

	turn          int // plies played; White to move iff turn%2==0
	enPassant     Square
	halfmoveClock int
	rights        [4]bool // [WQ, WK, BQ, BK], see castlingRights

	eval int // incremental material+PST accumulator, white-positive

	positionCounts map[string]int
	pst            PSTTable

	zobristTable *ZobristTable
	zobrist      ZobristHash

	undo []undoFrame
}

// undoFrame carries exactly the state Apply mutated that Undo cannot
// recompute from the Move alone, kept off the Move value itself per spec §9.
type undoFrame struct {
	move Move

	prevEnPassant     Square
	prevHalfmoveClock int
	prevEval          int
	prevZobrist       ZobristHash
	prevRights        [4]bool

	moverPrevSq       Square
	moverPrevHasMoved bool
	moverPrevKind     piece.Kind // pre-promotion kind, equals move.Piece unless Promotion

	capturedID  PieceID
	capturedSq  Square
	rosterIndex int // index the captured piece occupied in its roster before removal

	rookID          PieceID // for castling: the rook that moved; NoPiece otherwise
	rookPrevSq      Square
	rookPrevHasMoved bool
}

func newEmptyPosition(pst PSTTable, zobristSeed int64) *Position {
	p := &Position{pst: pst, zobristTable: NewZobristTable(zobristSeed)}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p.board[y][x] = NoPiece
		}
	}
	p.enPassant = NoSquare
	p.positionCounts = make(map[string]int)
	return p
}

// NewPosition returns the standard starting position with a default PST
// table and a fixed zobrist seed (determinism is a goal, per spec §1).
func NewPosition() *Position {
	return NewPositionWithPST(DefaultPST())
}

// NewPositionWithPST returns the standard starting position using an
// injected PST table, the "opaque constant" spec §1 calls for.
func NewPositionWithPST(pst PSTTable) *Position {
	p := newEmptyPosition(pst, 0x5EEDC0FFEE)
	backRank := []piece.Kind{
		piece.Rook, piece.Knight, piece.Bishop, piece.Queen,
		piece.King, piece.Bishop, piece.Knight, piece.Rook,
	}
	id := PieceID(0)
	place := func(colour piece.Colour, kind piece.Kind, sq Square) {
		rec := PieceRecord{Kind: kind, Colour: colour, Sq: sq}
		p.arena[id] = rec
		p.board[sq.Y][sq.X] = id
		p.rosters[colour] = append(p.rosters[colour], id)
		if kind == piece.King {
			p.kingID[colour] = id
		}
		id++
	}
	for x := 0; x < 8; x++ {
		place(piece.White, backRank[x], Sq(x, 7))
	}
	for x := 0; x < 8; x++ {
		place(piece.White, piece.Pawn, Sq(x, 6))
	}
	for x := 0; x < 8; x++ {
		place(piece.Black, backRank[x], Sq(x, 0))
	}
	for x := 0; x < 8; x++ {
		place(piece.Black, piece.Pawn, Sq(x, 1))
	}
	p.rights = [4]bool{true, true, true, true}
	p.recomputeEval()
	p.zobrist = p.zobristTable.compute(p)
	p.positionCounts[string(p.Fingerprint())] = 1
	return p
}

func (p *Position) recomputeEval() {
	total := 0
	for c := 0; c < 2; c++ {
		for _, id := range p.rosters[c] {
			rec := p.arena[id]
			total += pieceValue(rec.Kind, rec.Colour, rec.Sq, p.pst)
		}
	}
	p.eval = total
}

// SideToMove returns whose turn it is.
func (p *Position) SideToMove() piece.Colour {
	if p.turn%2 == 0 {
		return piece.White
	}
	return piece.Black
}

// Turn returns the number of plies played so far.
func (p *Position) Turn() int { return p.turn }

// Eval returns the incrementally maintained material+PST accumulator
// (invariant 3), white-positive.
func (p *Position) Eval() int { return p.eval }

// EnPassant returns the current en passant target, or NoSquare if none.
func (p *Position) EnPassant() Square { return p.enPassant }

// HalfmoveClock returns the number of plies since the last capture or pawn
// move.
func (p *Position) HalfmoveClock() int { return p.halfmoveClock }

// Zobrist returns the incrementally maintained TT lookup key.
func (p *Position) Zobrist() ZobristHash { return p.zobrist }

// PieceAt returns the piece occupying sq, if any.
func (p *Position) PieceAt(sq Square) (piece.Kind, piece.Colour, bool) {
	id := p.board[sq.Y][sq.X]
	if id == NoPiece {
		return piece.NoKind, 0, false
	}
	rec := p.arena[id]
	return rec.Kind, rec.Colour, true
}

// KingSquare returns the current square of colour's king.
func (p *Position) KingSquare(c piece.Colour) Square {
	return p.arena[p.kingID[c]].Sq
}

// Roster returns the squares and kinds of every piece still on the board for
// colour. The returned slice is a fresh copy; callers must not assume it
// aliases internal state.
func (p *Position) Roster(c piece.Colour) []PieceRecord {
	out := make([]PieceRecord, 0, len(p.rosters[c]))
	for _, id := range p.rosters[c] {
		out = append(out, p.arena[id])
	}
	return out
}

// castlingRights reports, in fixed order [WQ, WK, BQ, BK], whether that
// rook's side still has the right to castle: neither the rook nor its king
// has ever moved (tracked directly by Apply/Undo as rights are forfeited),
// per spec's corrected semantics (§9 Open Question 2 -- original_source
// hard-codes this bit to 1 even after rights are lost; this implementation
// does not replicate that bug).
func (p *Position) castlingRights() [4]bool {
	return p.rights
}

func rosterIndexOf(roster []PieceID, id PieceID) int {
	for i, x := range roster {
		if x == id {
			return i
		}
	}
	return -1
}

func (p *Position) removeFromRoster(c piece.Colour, id PieceID) int {
	idx := rosterIndexOf(p.rosters[c], id)
	if idx < 0 {
		panic(fmt.Sprintf("position: invariant violation, piece %d not in roster for %v", id, c))
	}
	p.rosters[c] = append(p.rosters[c][:idx], p.rosters[c][idx+1:]...)
	return idx
}

func (p *Position) insertIntoRoster(c piece.Colour, id PieceID, idx int) {
	p.rosters[c] = append(p.rosters[c], NoPiece)
	copy(p.rosters[c][idx+1:], p.rosters[c][idx:])
	p.rosters[c][idx] = id
}

// Apply mutates the position to reflect m, which must come from a legal move
// list produced for this position (Apply does not itself re-validate
// legality; that is the generator's job, per spec §4.C).
func (p *Position) Apply(m Move) {
	mover := p.board[m.From.Y][m.From.X]
	if mover == NoPiece {
		panic(fmt.Sprintf("position: invariant violation, no piece at %v", m.From))
	}
	rec := p.arena[mover]
	frame := undoFrame{
		move:              m,
		prevEnPassant:     p.enPassant,
		prevHalfmoveClock: p.halfmoveClock,
		prevEval:          p.eval,
		prevZobrist:       p.zobrist,
		prevRights:        p.rights,
		moverPrevSq:       rec.Sq,
		moverPrevHasMoved: rec.HasMoved,
		moverPrevKind:     rec.Kind,
		capturedID:        NoPiece,
		rookID:            NoPiece,
	}

	zt := p.zobristTable
	p.zobrist ^= zt.pieceKey(rec.Kind, rec.Colour, rec.Sq) // remove mover from old square
	p.eval -= pieceValue(rec.Kind, rec.Colour, rec.Sq, p.pst)

	// En passant capture removes a pawn NOT on the destination square.
	if m.Kind == EnPassant {
		capturedID := p.board[m.SecondaryFrom.Y][m.SecondaryFrom.X]
		crec := p.arena[capturedID]
		frame.capturedID = capturedID
		frame.capturedSq = crec.Sq
		frame.rosterIndex = p.removeFromRoster(crec.Colour, capturedID)
		p.eval -= pieceValue(crec.Kind, crec.Colour, crec.Sq, p.pst)
		p.zobrist ^= zt.pieceKey(crec.Kind, crec.Colour, crec.Sq)
		p.board[crec.Sq.Y][crec.Sq.X] = NoPiece
		p.arena[capturedID].Captured = true
	} else if m.Captured != piece.NoKind {
		capturedID := p.board[m.To.Y][m.To.X]
		crec := p.arena[capturedID]
		frame.capturedID = capturedID
		frame.capturedSq = crec.Sq
		frame.rosterIndex = p.removeFromRoster(crec.Colour, capturedID)
		p.eval -= pieceValue(crec.Kind, crec.Colour, crec.Sq, p.pst)
		p.zobrist ^= zt.pieceKey(crec.Kind, crec.Colour, crec.Sq)
		p.arena[capturedID].Captured = true
	}

	// Move the mover itself, possibly promoting.
	newKind := rec.Kind
	if m.Kind == Promotion {
		newKind = m.PromoTo
	}
	p.board[m.From.Y][m.From.X] = NoPiece
	p.board[m.To.Y][m.To.X] = mover
	p.arena[mover].Sq = m.To
	p.arena[mover].Kind = newKind
	p.arena[mover].HasMoved = true
	p.eval += pieceValue(newKind, rec.Colour, m.To, p.pst)
	p.zobrist ^= zt.pieceKey(newKind, rec.Colour, m.To)

	// Castling also relocates the rook.
	if m.Kind == Castle {
		rookID := p.board[m.SecondaryFrom.Y][m.SecondaryFrom.X]
		rrec := p.arena[rookID]
		frame.rookID = rookID
		frame.rookPrevSq = rrec.Sq
		frame.rookPrevHasMoved = rrec.HasMoved
		p.eval -= pieceValue(rrec.Kind, rrec.Colour, rrec.Sq, p.pst)
		p.zobrist ^= zt.pieceKey(rrec.Kind, rrec.Colour, rrec.Sq)
		p.board[m.SecondaryFrom.Y][m.SecondaryFrom.X] = NoPiece
		p.board[m.SecondaryTo.Y][m.SecondaryTo.X] = rookID
		p.arena[rookID].Sq = m.SecondaryTo
		p.arena[rookID].HasMoved = true
		p.eval += pieceValue(rrec.Kind, rrec.Colour, m.SecondaryTo, p.pst)
		p.zobrist ^= zt.pieceKey(rrec.Kind, rrec.Colour, m.SecondaryTo)
	}

	// Castling rights are forfeited the moment a king or rook leaves its
	// home square, or a rook is captured on its home square -- tracked
	// directly rather than re-derived, so FEN-loaded positions with
	// non-standard piece placement still carry correct rights.
	forfeit := func(idx int) {
		if p.rights[idx] {
			p.rights[idx] = false
			p.zobrist ^= zt.castling[idx]
		}
	}
	switch rec.Kind {
	case piece.King:
		forfeit(rightIndex(rec.Colour, false))
		forfeit(rightIndex(rec.Colour, true))
	case piece.Rook:
		qs, ks := rookHomeSquares(rec.Colour)
		if m.From == qs {
			forfeit(rightIndex(rec.Colour, false))
		}
		if m.From == ks {
			forfeit(rightIndex(rec.Colour, true))
		}
	}
	if m.Captured != piece.NoKind && m.Kind != EnPassant {
		oppQS, oppKS := rookHomeSquares(rec.Colour.Opponent())
		if m.To == oppQS {
			forfeit(rightIndex(rec.Colour.Opponent(), false))
		}
		if m.To == oppKS {
			forfeit(rightIndex(rec.Colour.Opponent(), true))
		}
	}

	// En passant target: set iff this move was a pawn double push.
	prevEP := p.enPassant
	if prevEP.InBounds() {
		p.zobrist ^= zt.enPassant[prevEP.X]
	}
	p.enPassant = NoSquare
	if rec.Kind == piece.Pawn {
		dy := int(m.To.Y) - int(m.From.Y)
		if dy == 2 || dy == -2 {
			p.enPassant = Sq(int(m.From.X), (int(m.From.Y)+int(m.To.Y))/2)
		}
	}
	if p.enPassant.InBounds() {
		p.zobrist ^= zt.enPassant[p.enPassant.X]
	}

	// Halfmove clock resets on capture or pawn move.
	if rec.Kind == piece.Pawn || m.Captured != piece.NoKind || m.Kind == EnPassant {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}

	p.turn++
	p.zobrist ^= zt.sideToMove

	key := string(p.Fingerprint())
	p.positionCounts[key]++

	p.undo = append(p.undo, frame)
}

// Undo reverses the most recent Apply, which must have been for m. Position
// is restored bit-for-bit to its pre-Apply state (spec §8 property 1).
func (p *Position) Undo(m Move) {
	n := len(p.undo)
	if n == 0 {
		panic("position: invariant violation, undo with empty history")
	}
	frame := p.undo[n-1]
	if !frame.move.Equals(m) {
		panic(fmt.Sprintf("position: invariant violation, undo(%v) does not match last applied move %v", m, frame.move))
	}
	p.undo = p.undo[:n-1]

	key := string(p.Fingerprint())
	p.positionCounts[key]--
	if p.positionCounts[key] == 0 {
		delete(p.positionCounts, key)
	}

	p.turn--

	mover := p.board[m.To.Y][m.To.X]

	p.board[m.To.Y][m.To.X] = NoPiece
	p.board[m.From.Y][m.From.X] = mover
	p.arena[mover].Sq = frame.moverPrevSq
	p.arena[mover].Kind = frame.moverPrevKind
	p.arena[mover].HasMoved = frame.moverPrevHasMoved

	if m.Kind == Castle {
		rookID := frame.rookID
		p.board[m.SecondaryTo.Y][m.SecondaryTo.X] = NoPiece
		p.board[m.SecondaryFrom.Y][m.SecondaryFrom.X] = rookID
		p.arena[rookID].Sq = frame.rookPrevSq
		p.arena[rookID].HasMoved = frame.rookPrevHasMoved
	}

	if frame.capturedID != NoPiece {
		crec := &p.arena[frame.capturedID]
		crec.Sq = frame.capturedSq
		crec.Captured = false
		p.board[frame.capturedSq.Y][frame.capturedSq.X] = frame.capturedID
		p.insertIntoRoster(crec.Colour, frame.capturedID, frame.rosterIndex)
	}

	p.enPassant = frame.prevEnPassant
	p.halfmoveClock = frame.prevHalfmoveClock
	p.eval = frame.prevEval
	p.zobrist = frame.prevZobrist
	p.rights = frame.prevRights
}

// InCheck reports whether colour's king is currently attacked.
func (p *Position) InCheck(c piece.Colour) bool {
	return p.IsAttacked(p.KingSquare(c), c.Opponent())
}

// Result enumerates the terminal states game_end can report.
type Result uint8

const (
	NoResult Result = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
	RepetitionDraw
)

func (r Result) String() string {
	switch r {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "fifty-move"
	case RepetitionDraw:
		return "repetition"
	default:
		return "none"
	}
}

// IsRepetition reports whether the current position has occurred at least
// three times in the game history, independent of whether any legal moves
// remain -- the repetition half of the entry check spec §4.E asks search to
// perform on every node, not just via GameEnd.
func (p *Position) IsRepetition() bool {
	return p.positionCounts[string(p.Fingerprint())] >= 3
}

// GameEnd classifies the current position, given the legal moves available
// to the side to move (the caller is expected to have already generated
// them, since the generator is the single ground truth for legality --
// spec §4.C). Precedence: repetition, then fifty-move, then no-legal-moves
// resolved by check.
func (p *Position) GameEnd(legalMoves []Move) Result {
	if p.positionCounts[string(p.Fingerprint())] >= 3 {
		return RepetitionDraw
	}
	if p.halfmoveClock >= 50 {
		return FiftyMoveDraw
	}
	if len(legalMoves) == 0 {
		if p.InCheck(p.SideToMove()) {
			return Checkmate
		}
		return Stalemate
	}
	return NoResult
}

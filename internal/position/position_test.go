package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squarewave/chesscore/internal/piece"
)

func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	var nodes int64
	for _, m := range p.LegalMoves(p.SideToMove()) {
		p.Apply(m)
		nodes += perft(p, depth-1)
		p.Undo(m)
	}
	return nodes
}

// TestPerftStandardStart checks the move generator against the canonical
// perft table from the standard starting position (spec §8).
func TestPerftStandardStart(t *testing.T) {
	tests := []struct {
		depth int
		nodes int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
	}
	for _, tc := range tests {
		if tc.depth >= 4 && testing.Short() {
			continue
		}
		t.Run(fmt_depth(tc.depth), func(t *testing.T) {
			p := NewPosition()
			got := perft(p, tc.depth)
			assert.Equal(t, tc.nodes, got)
		})
	}
}

func fmt_depth(d int) string {
	switch d {
	case 1:
		return "depth=1"
	case 2:
		return "depth=2"
	case 3:
		return "depth=3"
	case 4:
		return "depth=4"
	default:
		return "depth=5"
	}
}

// TestApplyUndoRoundTrip walks a handful of plies from the start position
// and checks spec §8 property 1: apply(m); undo(m) restores the position
// bit-for-bit, including eval, positionCounts, turn, en passant, halfmove
// clock and the full board/roster view.
func TestApplyUndoRoundTrip(t *testing.T) {
	p := NewPosition()
	var walk func(depth int)
	walk = func(depth int) {
		if depth == 0 {
			return
		}
		for _, m := range p.LegalMoves(p.SideToMove()) {
			before := snapshot(p)
			p.Apply(m)
			walk(depth - 1)
			p.Undo(m)
			after := snapshot(p)
			require.Equal(t, before, after, "round-trip mismatch for move %v", m)
		}
	}
	walk(3)
}

type posSnapshot struct {
	turn          int
	enPassant     Square
	halfmove      int
	eval          int
	zobrist       ZobristHash
	fingerprint   string
	counts        map[string]int
	board         [8][8]PieceID
	arena         [32]PieceRecord
	white, black  []PieceID
}

func snapshot(p *Position) posSnapshot {
	counts := make(map[string]int, len(p.positionCounts))
	for k, v := range p.positionCounts {
		counts[k] = v
	}
	return posSnapshot{
		counts:      counts,
		turn:        p.turn,
		enPassant:   p.enPassant,
		halfmove:    p.halfmoveClock,
		eval:        p.eval,
		zobrist:     p.zobrist,
		fingerprint: string(p.Fingerprint()),
		board:       p.board,
		arena:       p.arena,
		white:       append([]PieceID{}, p.rosters[piece.White]...),
		black:       append([]PieceID{}, p.rosters[piece.Black]...),
	}
}

// TestRosterBoardConsistency checks spec §8 property 2 after a short walk of
// moves: every square's occupant (if any) matches a roster entry, and every
// roster entry points at a board square holding that exact piece.
func TestRosterBoardConsistency(t *testing.T) {
	p := NewPosition()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		from, to, _, ok := ParseUCIMove(uci)
		require.True(t, ok)
		m := findMove(t, p, from, to, piece.NoKind)
		p.Apply(m)
	}
	checkRosterBoardConsistency(t, p)
}

func checkRosterBoardConsistency(t *testing.T, p *Position) {
	t.Helper()
	for c := 0; c < 2; c++ {
		for _, id := range p.rosters[c] {
			rec := p.arena[id]
			assert.False(t, rec.Captured)
			assert.Equal(t, id, p.board[rec.Sq.Y][rec.Sq.X])
		}
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			id := p.board[y][x]
			if id == NoPiece {
				continue
			}
			rec := p.arena[id]
			assert.Equal(t, Sq(x, y), rec.Sq)
			assert.Contains(t, p.rosters[rec.Colour], id)
		}
	}
}

// TestEvalConsistency checks spec §8 property 3: the incremental eval
// accumulator matches a full recomputation from the board, after a few
// moves including a capture.
func TestEvalConsistency(t *testing.T) {
	p := NewPosition()
	for _, uci := range []string{"e2e4", "d7d5", "e4d5"} {
		from, to, _, ok := ParseUCIMove(uci)
		require.True(t, ok)
		m := findMove(t, p, from, to, piece.NoKind)
		p.Apply(m)
	}
	want := p.eval
	p.recomputeEval()
	assert.Equal(t, want, p.eval)
}

// TestLegalSubsetOfPseudoLegal checks spec §8 property 5.
func TestLegalSubsetOfPseudoLegal(t *testing.T) {
	p := NewPosition()
	pseudo := p.PseudoLegalMoves(p.SideToMove())
	legal := p.LegalMoves(p.SideToMove())
	for _, lm := range legal {
		found := false
		for _, pm := range pseudo {
			if lm.Equals(pm) {
				found = true
				break
			}
		}
		assert.True(t, found, "legal move %v not found in pseudo-legal set", lm)
	}
}

// TestCheckInvariant checks spec §8 property 6: after applying any legal
// move for c, in_check(c) is false.
func TestCheckInvariant(t *testing.T) {
	p := NewPosition()
	for _, m := range p.LegalMoves(p.SideToMove()) {
		mover := p.SideToMove()
		p.Apply(m)
		assert.False(t, p.InCheck(mover))
		p.Undo(m)
	}
}

// TestFoolsMate is one of the scenario seeds from spec §8.
func TestFoolsMate(t *testing.T) {
	p := NewPosition()
	for _, uci := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		from, to, _, ok := ParseUCIMove(uci)
		require.True(t, ok)
		m := findMove(t, p, from, to, piece.NoKind)
		p.Apply(m)
	}
	legal := p.LegalMoves(p.SideToMove())
	assert.Empty(t, legal)
	assert.Equal(t, Checkmate, p.GameEnd(legal))
	assert.True(t, p.InCheck(piece.White))
}

// TestEnPassantCapture is the en passant scenario seed from spec §8.
func TestEnPassantCapture(t *testing.T) {
	fen := "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1"
	p, _, err := DecodeFEN(fen)
	require.NoError(t, err)

	legal := p.LegalMoves(piece.White)
	var found *Move
	for i := range legal {
		if legal[i].Kind == EnPassant {
			found = &legal[i]
		}
	}
	require.NotNil(t, found, "expected an en passant move among %v", legal)

	p.Apply(*found)
	_, _, occupied := p.PieceAt(Sq(3, 3))
	assert.False(t, occupied, "captured pawn should be removed")
	p.Undo(*found)
	_, c, occupied := p.PieceAt(Sq(3, 3))
	assert.True(t, occupied)
	assert.Equal(t, piece.Black, c)
}

// TestUnderpromotion is the underpromotion scenario seed from spec §8: four
// legal promotions exist, and only the knight promotion delivers check.
func TestUnderpromotion(t *testing.T) {
	// White pawn on e7 about to promote on e8; Black king on d6 is attacked
	// by a knight landing on e8 but by none of the sliding promotions.
	fen := "r7/4P3/3k4/8/8/8/8/6K1 w - - 0 1"
	p, _, err := DecodeFEN(fen)
	require.NoError(t, err)

	legal := p.LegalMoves(piece.White)
	var promos []Move
	for _, m := range legal {
		if m.Kind == Promotion && m.From == Sq(4, 1) {
			promos = append(promos, m)
		}
	}
	require.Len(t, promos, 4)

	for _, m := range promos {
		p.Apply(m)
		gives := p.InCheck(piece.Black)
		p.Undo(m)
		if m.PromoTo == piece.Knight {
			assert.True(t, gives, "knight promotion should give check")
		} else {
			assert.False(t, gives, "%v promotion should not give check", m.PromoTo)
		}
	}
}

// TestThreefoldRepetition is the repetition scenario seed from spec §8.
func TestThreefoldRepetition(t *testing.T) {
	p := NewPosition()
	moves := []string{
		"b1c3", "b8c6", "c3b1", "c6b8",
		"b1c3", "b8c6", "c3b1", "c6b8",
	}
	var applied []Move
	for _, uci := range moves {
		from, to, _, ok := ParseUCIMove(uci)
		require.True(t, ok)
		m := findMove(t, p, from, to, piece.NoKind)
		p.Apply(m)
		applied = append(applied, m)
	}
	legal := p.LegalMoves(p.SideToMove())
	assert.Equal(t, RepetitionDraw, p.GameEnd(legal))
	assert.Equal(t, 3, p.positionCounts[string(p.Fingerprint())])

	for i := len(applied) - 1; i >= 0; i-- {
		p.Undo(applied[i])
	}
}

func findMove(t *testing.T, p *Position, from, to Square, promo piece.Kind) Move {
	t.Helper()
	for _, m := range p.LegalMoves(p.SideToMove()) {
		if m.From == from && m.To == to && (promo == piece.NoKind || m.PromoTo == promo) {
			return m
		}
	}
	require.FailNow(t, "no legal move found", "from=%v to=%v promo=%v", from, to, promo)
	return Move{}
}

func TestFingerprintDeterminism(t *testing.T) {
	p1 := NewPosition()
	p2 := NewPosition()
	assert.Equal(t, p1.Fingerprint(), p2.Fingerprint())

	from, to, _, _ := ParseUCIMove("e2e4")
	m := findMove(t, p1, from, to, piece.NoKind)
	p1.Apply(m)
	assert.NotEqual(t, p1.Fingerprint(), p2.Fingerprint())
}

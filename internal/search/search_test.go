package search

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squarewave/chesscore/internal/eval"
	"github.com/squarewave/chesscore/internal/position"
)

const middlegameFEN = "r1bqk2r/ppp2ppp/2n1pn2/3p4/1bPP4/2N1PN2/PP3PPP/R1BQKB1R w KQkq - 2 6"

func TestTranspositionTableSoundness(t *testing.T) {
	// spec §8: "for any fixed depth, a search with the TT populated from a
	// previous identical search returns the same score as a cold search."
	p, _, err := position.DecodeFEN(middlegameFEN)
	require.NoError(t, err)

	s := NewSearch()
	warm, _, ok := s.negamax(p, 3, eval.NegInf, eval.PosInf, 0)
	require.True(t, ok)
	require.Greater(t, s.TableLen(), 0)

	again, _, ok := s.negamax(p, 3, eval.NegInf, eval.PosInf, 0)
	require.True(t, ok)
	assert.Equal(t, warm, again)

	cold := NewSearch()
	coldScore, _, ok := cold.negamax(p, 3, eval.NegInf, eval.PosInf, 0)
	require.True(t, ok)
	assert.Equal(t, warm, coldScore)
}

func TestIterativeDeepeningMonotonicity(t *testing.T) {
	// spec §8: "the best move at depth d+1, if different from the best at
	// d, is one of the legal root moves and has a score recorded by the
	// deepest iteration." This test checks the legality half: the move a
	// depth-3 iterative-deepening search returns is one of the legal root
	// moves.
	p, _, err := position.DecodeFEN(middlegameFEN)
	require.NoError(t, err)

	legal := map[position.Move]bool{}
	for _, m := range p.LegalMoves(p.SideToMove()) {
		legal[m] = true
	}

	s := NewSearch()
	move, ok := s.ChooseMove(p, 3, true)
	require.True(t, ok)
	assert.True(t, legal[move], "best move %v must be a legal root move", move)
}

func TestNegamaxSymmetry(t *testing.T) {
	// spec §8: "-negamax(mirror(P), d) == negamax(P, d) when the PST is
	// symmetric under side mirroring (it is, by construction)."
	p, _, err := position.DecodeFEN(middlegameFEN)
	require.NoError(t, err)
	mirrored, _, err := position.DecodeFEN(mirrorFEN(middlegameFEN))
	require.NoError(t, err)

	s1, s2 := NewSearch(), NewSearch()
	v1, _, ok1 := s1.negamax(p, 3, eval.NegInf, eval.PosInf, 0)
	v2, _, ok2 := s2.negamax(mirrored, 3, eval.NegInf, eval.PosInf, 0)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, v1, -v2)
}

// mirrorFEN reflects a FEN position vertically (rank 1 <-> rank 8) and
// swaps piece colors and side to move, producing the position a player
// would see from the opposite side of the board.
func mirrorFEN(fen string) string {
	parts := strings.Fields(fen)

	ranks := strings.Split(parts[0], "/")
	mirroredRanks := make([]string, len(ranks))
	for i, r := range ranks {
		mirroredRanks[len(ranks)-1-i] = swapCase(r)
	}
	board := strings.Join(mirroredRanks, "/")

	turn := "b"
	if parts[1] == "b" {
		turn = "w"
	}

	castle := swapCase(parts[2])

	ep := parts[3]
	if ep != "-" {
		ep = ep[:1] + mirrorRankDigit(ep[1])
	}

	return strings.Join([]string{board, turn, castle, ep, parts[4], parts[5]}, " ")
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		default:
			return r
		}
	}, s)
}

func mirrorRankDigit(r byte) string {
	rank := int(r - '0')
	return string(rune('0' + (9 - rank)))
}

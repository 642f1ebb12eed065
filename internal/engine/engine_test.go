package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squarewave/chesscore/internal/engine"
	"github.com/squarewave/chesscore/internal/piece"
	"github.com/squarewave/chesscore/internal/position"
)

func sq(s string) position.Square {
	p, ok := position.ParseSquare(s)
	if !ok {
		panic("bad square literal: " + s)
	}
	return p
}

func mustMove(t *testing.T, e *engine.Engine, ctx context.Context, from, to string) {
	t.Helper()
	res, err := e.AttemptMove(ctx, sq(from), sq(to), piece.NoKind)
	require.NoError(t, err)
	require.Equal(t, engine.Valid, res)
}

func TestFoolsMate(t *testing.T) {
	// spec §8 scenario seed: f2f3, e7e5, g2g4, d8h4 -- checkmate delivered by
	// Black.
	ctx := context.Background()
	e := engine.NewEngine(ctx)

	mustMove(t, e, ctx, "f2", "f3")
	mustMove(t, e, ctx, "e7", "e5")
	mustMove(t, e, ctx, "g2", "g4")
	mustMove(t, e, ctx, "d8", "h4")

	assert.Equal(t, engine.Checkmate, e.GameEnd(ctx))
}

func TestScholarsMate(t *testing.T) {
	// spec §8 scenario seed: e2e4, e7e5, d1h5, b8c6, f1c4, g8f6, h5f7 ->
	// checkmate.
	ctx := context.Background()
	e := engine.NewEngine(ctx)

	mustMove(t, e, ctx, "e2", "e4")
	mustMove(t, e, ctx, "e7", "e5")
	mustMove(t, e, ctx, "d1", "h5")
	mustMove(t, e, ctx, "b8", "c6")
	mustMove(t, e, ctx, "f1", "c4")
	mustMove(t, e, ctx, "g8", "f6")
	mustMove(t, e, ctx, "h5", "f7")

	assert.Equal(t, engine.Checkmate, e.GameEnd(ctx))
}

func TestCastlingPathGuarded(t *testing.T) {
	// spec §8 scenario seed: White king e1, rooks a1/h1, Black rook e8, no
	// other pieces between. Neither castle is legal (king passes through or
	// is in check).
	ctx := context.Background()
	e := engine.NewEngine(ctx)
	require.NoError(t, e.Reset(ctx, "4r3/8/8/8/8/8/8/R3K2R w KQ - 0 1"))

	res, err := e.AttemptMove(ctx, sq("e1"), sq("g1"), piece.NoKind)
	assert.Equal(t, engine.Illegal, res)
	assert.Error(t, err)

	res, err = e.AttemptMove(ctx, sq("e1"), sq("c1"), piece.NoKind)
	assert.Equal(t, engine.Illegal, res)
	assert.Error(t, err)

	// With the black rook gone, king-side castling is legal iff f1/g1 are
	// unattacked -- here they are.
	require.NoError(t, e.Reset(ctx, "8/8/8/8/8/8/8/R3K2R w KQ - 0 1"))
	res, err = e.AttemptMove(ctx, sq("e1"), sq("g1"), piece.NoKind)
	require.NoError(t, err)
	assert.Equal(t, engine.Valid, res)
}

func TestEnPassantScenario(t *testing.T) {
	// spec §8 scenario seed: White pawn e5, Black plays d7d5; White's legal
	// moves include e5d6 (EP); the Black pawn on d5 is removed.
	ctx := context.Background()
	e := engine.NewEngine(ctx)
	require.NoError(t, e.Reset(ctx, "4k3/3p4/8/4P3/8/8/8/4K3 b - - 0 1"))

	mustMove(t, e, ctx, "d7", "d5")
	mustMove(t, e, ctx, "e5", "d6")

	_, _, occupied := e.Position().PieceAt(sq("d5"))
	assert.False(t, occupied)
}

func TestUnderpromotionScenario(t *testing.T) {
	// spec §8 scenario seed: White pawn e7, Black king e1, Black rook a1,
	// White to move. e7e8 matches four promotions on e8, so AttemptMove
	// stages it; finalizing with a knight places a White knight on e8.
	ctx := context.Background()
	e := engine.NewEngine(ctx)
	require.NoError(t, e.Reset(ctx, "8/4P3/8/8/8/8/8/r3k2K w - - 0 1"))

	res, err := e.AttemptMove(ctx, sq("e7"), sq("e8"), piece.NoKind)
	require.NoError(t, err)
	require.Equal(t, engine.Promotion, res)

	require.NoError(t, e.FinalizePromotion(ctx, piece.Knight))

	k, c, ok := e.Position().PieceAt(sq("e8"))
	require.True(t, ok)
	assert.Equal(t, piece.Knight, k)
	assert.Equal(t, piece.White, c)
}

func TestThreefoldRepetition(t *testing.T) {
	// spec §8 scenario seed: from the start, Nb1c3, Nb8c6, Nc3b1, Nc6b8
	// repeated once more yields the start-of-line position a third time.
	ctx := context.Background()
	e := engine.NewEngine(ctx)

	for i := 0; i < 2; i++ {
		mustMove(t, e, ctx, "b1", "c3")
		mustMove(t, e, ctx, "b8", "c6")
		mustMove(t, e, ctx, "c3", "b1")
		mustMove(t, e, ctx, "c6", "b8")
	}

	assert.Equal(t, engine.RepetitionDraw, e.GameEnd(ctx))
}

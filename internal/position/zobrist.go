package position

import (
	"math/rand"

	"github.com/squarewave/chesscore/internal/piece"
)

// ZobristHash is an incremental 64-bit hash used only as the transposition
// table lookup key (see Fingerprint for the canonical, collision-free
// repetition key). Per spec §9, a collision is tolerated at the TT layer
// only because callers re-verify any stored best move's legality before
// trusting it.
type ZobristHash uint64

// ZobristTable holds the random constants a Position XORs in and out as
// pieces move, grounded on the teacher's pkg/board/zobrist.go table-of-random-
// numbers approach, re-indexed for mailbox (colour, kind, file, rank) instead
// of a single bitboard square index.
type ZobristTable struct {
	piece      [2][7][8][8]ZobristHash
	sideToMove ZobristHash
	castling   [4]ZobristHash // WQ, WK, BQ, BK, see Fingerprint for order
	enPassant  [8]ZobristHash // by file; "no en passant" contributes nothing
}

// NewZobristTable builds a table from a fixed seed so that hashes are
// reproducible across runs, matching the determinism goal in spec §1.
func NewZobristTable(seed int64) *ZobristTable {
	r := rand.New(rand.NewSource(seed))
	t := &ZobristTable{}
	for c := 0; c < 2; c++ {
		for k := 1; k < 7; k++ {
			for x := 0; x < 8; x++ {
				for y := 0; y < 8; y++ {
					t.piece[c][k][x][y] = ZobristHash(r.Uint64())
				}
			}
		}
	}
	t.sideToMove = ZobristHash(r.Uint64())
	for i := range t.castling {
		t.castling[i] = ZobristHash(r.Uint64())
	}
	for i := range t.enPassant {
		t.enPassant[i] = ZobristHash(r.Uint64())
	}
	return t
}

func (t *ZobristTable) pieceKey(k piece.Kind, c piece.Colour, sq Square) ZobristHash {
	return t.piece[c][k][sq.X][sq.Y]
}

// compute derives the hash of p from scratch. Used only at construction
// (NewPositionWithPST and DecodeFEN); Apply/Undo maintain it incrementally.
func (t *ZobristTable) compute(p *Position) ZobristHash {
	var h ZobristHash
	for c := 0; c < 2; c++ {
		for _, id := range p.rosters[c] {
			rec := p.arena[id]
			h ^= t.pieceKey(rec.Kind, rec.Colour, rec.Sq)
		}
	}
	if p.SideToMove() == piece.White {
		h ^= t.sideToMove
	}
	rights := p.castlingRights()
	for i, allowed := range rights {
		if allowed {
			h ^= t.castling[i]
		}
	}
	if p.enPassant.InBounds() {
		h ^= t.enPassant[p.enPassant.X]
	}
	return h
}

package search

import (
	"github.com/squarewave/chesscore/internal/eval"
	"github.com/squarewave/chesscore/internal/position"
)

// Bound classifies how a stored Entry's Value relates to the true minimax
// value of the node it was computed for: Exact means Value is the true
// value; Lower/Upper mean the true value is at least/at most Value (the
// search failed high/low against the window in effect when it was stored).
type Bound uint8

const (
	Exact Bound = iota
	Lower
	Upper
)

func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return "?"
	}
}

// Entry is one transposition table slot, per spec §3's TranspositionEntry.
type Entry struct {
	Depth    int
	Value    eval.Score
	Flag     Bound
	BestMove position.Move
	HasMove  bool
}

// Table is the transposition table. Per spec §5 it is owned exclusively by
// one Search and is safe to reuse across that Search's successive
// ChooseMove calls, but is never shared across Search instances -- so,
// unlike the teacher's pkg/search/transposition.go (a lock-free table built
// for a multi-threaded searcher with atomic CompareAndSwap writes), this one
// is a plain map: the core is single-threaded and synchronous end to end
// (spec §5), so there is no concurrent writer to guard against.
//
// Replacement policy: deeper search always wins; an equal-depth write
// overwrites the existing entry (spec §5 explicitly allows this as a
// simplification).
type Table struct {
	entries map[position.ZobristHash]Entry
}

// NewTable returns an empty transposition table.
func NewTable() *Table {
	return &Table{entries: make(map[position.ZobristHash]Entry)}
}

// Read returns the entry stored for hash, if any. Per spec §9, the Zobrist
// hash is not collision-free: callers must re-verify a stored BestMove's
// legality in the current node before trusting it. The ordering path
// (legalOrdered/orderMoves) satisfies this by construction -- it only uses
// BestMove as a sort hint among moves the generator already produced, each
// still applied and InCheck-checked like any other candidate. The early
// TT-hit returns in negamax, which hand a move straight back without
// generating any moves at all, instead call verifiedMove explicitly.
func (t *Table) Read(hash position.ZobristHash) (Entry, bool) {
	e, ok := t.entries[hash]
	return e, ok
}

// Write stores e for hash, unless an existing entry was computed at
// strictly greater depth.
func (t *Table) Write(hash position.ZobristHash, e Entry) {
	if existing, ok := t.entries[hash]; ok && existing.Depth > e.Depth {
		return
	}
	t.entries[hash] = e
}

// Len reports the number of distinct positions currently cached.
func (t *Table) Len() int {
	return len(t.entries)
}

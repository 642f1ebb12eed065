package search

import (
	"github.com/squarewave/chesscore/internal/eval"
	"github.com/squarewave/chesscore/internal/position"
)

// verifiedMove re-checks a transposition entry's stored move against p's
// current legal moves before it is handed back as a value a caller will
// play, per spec §9's mandatory "do not trust the stored bestMove without
// legality re-check in the node" rule. This guards the early TT-hit returns
// in negamax below, which short-circuit before move generation ever runs --
// unlike the ordering path in legalOrdered/orderMoves, which only uses a TT
// move as a sort hint among moves the generator already produced and then
// applies/InCheck-checks like any other candidate.
func verifiedMove(p *position.Position, m position.Move, hasMove bool) (position.Move, bool) {
	if !hasMove {
		return position.Move{}, false
	}
	for _, legal := range p.LegalMoves(p.SideToMove()) {
		if legal.Equals(m) {
			return m, true
		}
	}
	return position.Move{}, false
}

// negamax evaluates p to depth, within window (alpha, beta), at ply plies
// below the search root, per spec §4.E. It returns the node's value and,
// when at least one legal move exists, the best move found -- callers at
// non-root nodes only consume the value, but the root uses the move
// directly, so one recursive function serves both (the teacher instead
// returns a principal-variation slice; a single best move is all spec §6
// requires).
func (s *Search) negamax(p *position.Position, depth int, alpha, beta eval.Score, ply int) (eval.Score, position.Move, bool) {
	alpha0 := alpha

	hash := p.Zobrist()
	var tt position.Move
	var haveTT bool
	if entry, ok := s.tt.Read(hash); ok {
		if entry.HasMove {
			tt, haveTT = entry.BestMove, true
		}
		if entry.Depth >= depth {
			switch entry.Flag {
			case Exact:
				move, moveOK := verifiedMove(p, entry.BestMove, entry.HasMove)
				return entry.Value, move, moveOK
			case Lower:
				if entry.Value > alpha {
					alpha = entry.Value
				}
			case Upper:
				if entry.Value < beta {
					beta = entry.Value
				}
			}
			if alpha >= beta {
				move, moveOK := verifiedMove(p, entry.BestMove, entry.HasMove)
				return entry.Value, move, moveOK
			}
		}
	}

	if depth == 0 {
		return s.quiescence(p, alpha, beta, ply), position.Move{}, false
	}

	// Draw short-circuit on entry (spec §4.E step 3): fifty-move and
	// repetition are checked independent of move generation. Skipped at the
	// root (ply 0): ChooseMove always needs an actual move back, even from a
	// position search already knows is a draw, so the root falls through to
	// full move generation instead.
	if ply > 0 && (p.HalfmoveClock() >= 50 || p.IsRepetition()) {
		return 0, position.Move{}, false
	}

	side := p.SideToMove()
	moves := legalOrdered(p, side, tt, haveTT)

	value := eval.NegInf
	var best position.Move
	hasLegalMove := false

	for _, m := range moves {
		p.Apply(m)
		if p.InCheck(side) {
			p.Undo(m)
			continue
		}
		hasLegalMove = true

		var score eval.Score
		if p.HalfmoveClock() >= 50 || p.IsRepetition() {
			// Draw short-circuit after apply (spec §4.E): undo and score
			// zero immediately rather than recursing into a position the
			// generator would re-detect as drawn anyway.
			score = 0
		} else {
			child, _, _ := s.negamax(p, depth-1, -beta, -alpha, ply+1)
			score = -child
		}
		p.Undo(m)

		if score > value {
			value = score
			best = m
		}
		if value > alpha {
			alpha = value
		}
		if alpha >= beta {
			break
		}
	}

	if !hasLegalMove {
		if p.InCheck(side) {
			return eval.Terminal(position.Checkmate, ply), position.Move{}, false
		}
		return eval.Terminal(position.Stalemate, ply), position.Move{}, false
	}

	flag := Exact
	switch {
	case value <= alpha0:
		flag = Upper
	case value >= beta:
		flag = Lower
	}
	s.tt.Write(hash, Entry{Depth: depth, Value: value, Flag: flag, BestMove: best, HasMove: true})

	return value, best, true
}

package position

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/squarewave/chesscore/internal/piece"
)

// InitialFEN is the standard starting position in Forsyth-Edwards notation,
// matching the teacher's fen.Initial constant.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// DecodeFEN parses a FEN record into a Position plus the one field FEN
// carries that Position does not model directly: the fullmove number (not
// needed by search, kept only for round-tripping) is returned alongside.
// FEN import/export is a supplemented feature (serialization, not
// persistence) grounded on the teacher's pkg/board/fen package, re-targeted
// to the mailbox/arena representation.
func DecodeFEN(fen string) (*Position, int, error) {
	return decodeFENWithPST(fen, DefaultPST())
}

func decodeFENWithPST(fen string, pst PSTTable) (*Position, int, error) {
	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 6 {
		return nil, 0, fmt.Errorf("position: invalid number of sections in FEN %q", fen)
	}

	p := newEmptyPosition(pst, 0x5EEDC0FFEE)

	x, y := 0, 0
	for _, r := range parts[0] {
		switch {
		case r == '/':
			x = 0
			y++
			if y > 7 {
				return nil, 0, fmt.Errorf("position: too many ranks in FEN %q", fen)
			}
		case unicode.IsDigit(r):
			x += int(r - '0')
		case unicode.IsLetter(r):
			k, ok := piece.ParseKind(r)
			if !ok {
				return nil, 0, fmt.Errorf("position: invalid piece %q in FEN %q", r, fen)
			}
			if x > 7 {
				return nil, 0, fmt.Errorf("position: too many files in FEN %q", fen)
			}
			c := piece.Black
			if unicode.IsUpper(r) {
				c = piece.White
			}
			id := PieceID(len(p.rosters[piece.White]) + len(p.rosters[piece.Black]))
			sq := Sq(x, y)
			p.arena[id] = PieceRecord{Kind: k, Colour: c, Sq: sq}
			p.board[y][x] = id
			p.rosters[c] = append(p.rosters[c], id)
			if k == piece.King {
				p.kingID[c] = id
			}
			x++
		default:
			return nil, 0, fmt.Errorf("position: invalid character %q in FEN %q", r, fen)
		}
	}

	switch parts[1] {
	case "w":
		p.turn = 0
	case "b":
		p.turn = 1
	default:
		return nil, 0, fmt.Errorf("position: invalid active colour in FEN %q", fen)
	}

	if parts[2] != "-" {
		for _, r := range parts[2] {
			switch r {
			case 'K':
				p.rights[rightIndex(piece.White, true)] = true
			case 'Q':
				p.rights[rightIndex(piece.White, false)] = true
			case 'k':
				p.rights[rightIndex(piece.Black, true)] = true
			case 'q':
				p.rights[rightIndex(piece.Black, false)] = true
			default:
				return nil, 0, fmt.Errorf("position: invalid castling %q in FEN %q", parts[2], fen)
			}
		}
	}

	if parts[3] != "-" {
		sq, ok := ParseSquare(parts[3])
		if !ok {
			return nil, 0, fmt.Errorf("position: invalid en passant square %q in FEN %q", parts[3], fen)
		}
		p.enPassant = sq
	}

	clock, err := strconv.Atoi(parts[4])
	if err != nil || clock < 0 {
		return nil, 0, fmt.Errorf("position: invalid halfmove clock in FEN %q", fen)
	}
	p.halfmoveClock = clock

	fullmoves, err := strconv.Atoi(parts[5])
	if err != nil || fullmoves < 1 {
		return nil, 0, fmt.Errorf("position: invalid fullmove number in FEN %q", fen)
	}

	// Kings are never captured; HasMoved is approximated from castling
	// rights (a king has not moved iff it still has at least the theoretical
	// possibility of either right, which FEN's castling field already
	// encodes authoritatively -- so Position derives the king's HasMoved from
	// the parsed rights rather than the other way around). Rook HasMoved is
	// left false; castling legality reads the rights themselves.
	if !p.rights[rightIndex(piece.White, true)] && !p.rights[rightIndex(piece.White, false)] {
		markMoved(p, piece.White)
	}
	if !p.rights[rightIndex(piece.Black, true)] && !p.rights[rightIndex(piece.Black, false)] {
		markMoved(p, piece.Black)
	}

	p.recomputeEval()
	p.zobrist = p.zobristTable.compute(p)
	p.positionCounts[string(p.Fingerprint())] = 1

	return p, fullmoves, nil
}

func markMoved(p *Position, c piece.Colour) {
	for _, id := range p.rosters[c] {
		if p.arena[id].Kind == piece.King {
			p.arena[id].HasMoved = true
		}
	}
}

// EncodeFEN renders a Position back to FEN, given the fullmove number FEN
// carries but Position itself does not track.
func (p *Position) EncodeFEN(fullmoves int) string {
	var sb strings.Builder
	for y := 0; y < 8; y++ {
		blanks := 0
		for x := 0; x < 8; x++ {
			id := p.board[y][x]
			if id == NoPiece {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			rec := p.arena[id]
			sb.WriteString(piece.Placement{Colour: rec.Colour, Kind: rec.Kind}.String())
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if y < 7 {
			sb.WriteString("/")
		}
	}

	turn := "w"
	if p.SideToMove() == piece.Black {
		turn = "b"
	}

	rights := p.rights
	castling := ""
	if rights[rightIndex(piece.White, true)] {
		castling += "K"
	}
	if rights[rightIndex(piece.White, false)] {
		castling += "Q"
	}
	if rights[rightIndex(piece.Black, true)] {
		castling += "k"
	}
	if rights[rightIndex(piece.Black, false)] {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}

	ep := "-"
	if p.enPassant.InBounds() {
		ep = p.enPassant.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, castling, ep, p.halfmoveClock, fullmoves)
}

package position

import "fmt"

// Square is a board coordinate: X is the file in [0,7] (a..h), Y is the
// rank in [0,7] with Y=0 Black's back rank and Y=7 White's back rank, per
// spec: file = 'a'+x, rank = 8-y.
type Square struct {
	X, Y int8
}

// NoSquare is the zero-value sentinel meaning "no square" (e.g. no en
// passant target). It is distinct from any valid square because callers
// must check InBounds before trusting a Square value for board indexing.
var NoSquare = Square{X: -1, Y: -1}

func Sq(x, y int) Square {
	return Square{X: int8(x), Y: int8(y)}
}

func (s Square) InBounds() bool {
	return s.X >= 0 && s.X <= 7 && s.Y >= 0 && s.Y <= 7
}

func (s Square) Add(dx, dy int) Square {
	return Square{X: s.X + int8(dx), Y: s.Y + int8(dy)}
}

// String renders standard chess notation: file='a'+x, rank=8-y.
func (s Square) String() string {
	if !s.InBounds() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+byte(s.X), 8-int(s.Y))
}

// ParseSquare parses standard chess notation such as "e4".
func ParseSquare(str string) (Square, bool) {
	if len(str) != 2 {
		return Square{}, false
	}
	file := str[0]
	rank := str[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, false
	}
	x := int(file - 'a')
	y := 8 - int(rank-'0')
	return Sq(x, y), true
}

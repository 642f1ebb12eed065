// perft is a movegen debugging tool. See:
// https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/seekerror/logw"

	"github.com/squarewave/chesscore/internal/position"
)

var (
	depth  = flag.Int("depth", 4, "Search depth")
	fen    = flag.String("fen", "", "Start position (default to standard)")
	divide = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	start := *fen
	if start == "" {
		start = position.InitialFEN
	}

	pos, _, err := position.DecodeFEN(start)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", start, err)
	}

	for i := 1; i <= *depth; i++ {
		begin := time.Now()
		nodes := perft(pos, i, *divide && i == *depth)
		duration := time.Since(begin)

		println(fmt.Sprintf("perft,%v,%v,%v,%v", start, i, nodes, duration.Microseconds()))
	}
}

func perft(p *position.Position, depth int, divide bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range p.LegalMoves(p.SideToMove()) {
		p.Apply(m)
		count := perft(p, depth-1, false)
		p.Undo(m)

		if divide {
			println(fmt.Sprintf("%v: %v", m, count))
		}
		nodes += count
	}
	return nodes
}

// chessplay is a simple console chess engine, grounded on the teacher's
// cmd/morlock/main.go entrypoint. Unlike morlock, it speaks only the
// console line protocol (spec §6 has no notion of a UCI host), over
// internal/engine's synchronous, single-threaded search.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"

	"github.com/squarewave/chesscore/internal/engine"
	"github.com/squarewave/chesscore/internal/engine/console"
)

var (
	depth              = flag.Int("depth", 4, "Default search depth")
	iterativeDeepening = flag.Bool("iterative", true, "Use iterative deepening")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: chessplay [options]

chessplay is a simple console chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.NewEngine(ctx, engine.WithName("chessplay", "chesscore"), engine.WithOptions(engine.Options{
		Depth:              uint(*depth),
		IterativeDeepening: *iterativeDeepening,
	}))

	driver, out := console.NewDriver(ctx, e, scanStdin())
	go printLines(out)

	<-driver.Closed()
	logw.Infof(ctx, "chessplay exiting")
}

// scanStdin feeds stdin lines to the console driver's input channel.
func scanStdin() <-chan string {
	lines := make(chan string, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// printLines writes the console driver's output lines to stdout.
func printLines(out <-chan string) {
	for line := range out {
		fmt.Println(line)
	}
}

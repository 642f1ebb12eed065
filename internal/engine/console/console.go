// Package console implements a line-protocol driver for debugging an
// Engine from a terminal, grounded on the teacher's
// pkg/engine/console/console.go. Unlike the teacher's driver, choose_move
// here is synchronous (spec §5): there is no "analyze" command that streams
// a principal variation from a background goroutine, no active/halt state
// machine -- a "go" command simply blocks until ChooseMove returns.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/squarewave/chesscore/internal/engine"
	"github.com/squarewave/chesscore/internal/piece"
	"github.com/squarewave/chesscore/internal/position"
)

const ProtocolName = "console"

// Driver reads line commands from in and writes responses to the returned
// channel, the way the teacher's console.Driver does.
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	out chan<- string
}

// NewDriver starts the driver's processing goroutine and returns it along
// with its output channel.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard(ctx)

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			d.handle(ctx, line)

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) handle(ctx context.Context, line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "reset", "r":
		pos := position.InitialFEN
		if len(args) > 0 {
			pos = strings.Join(args, " ")
		}
		if err := d.e.Reset(ctx, pos); err != nil {
			d.out <- fmt.Sprintf("invalid position: %v", err)
			return
		}
		d.printBoard(ctx)

	case "print", "p":
		d.printBoard(ctx)

	case "go", "search", "s":
		depth := d.e.Options().Depth
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
				depth = uint(v)
			}
		}
		d.e.SetDepth(depth)
		move, ok := d.e.ChooseMove(ctx, lang.Some(depth), lang.Optional[bool]{})
		if !ok {
			d.out <- "no legal move"
			return
		}
		if _, err := d.e.AttemptMove(ctx, move.From, move.To, move.PromoTo); err != nil {
			d.out <- fmt.Sprintf("search produced illegal move %v: %v", move, err)
			return
		}
		d.out <- fmt.Sprintf("bestmove %v", move)
		d.printBoard(ctx)

	case "depth", "d":
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
				d.e.SetDepth(uint(v))
			}
		}

	case "iterative":
		if len(args) > 0 {
			d.e.SetIterativeDeepening(args[0] != "off" && args[0] != "false")
		}

	case "quit", "exit", "q":
		d.Close()

	case "promote":
		if len(args) == 0 {
			d.out <- "usage: promote <q|r|b|n>"
			return
		}
		k, ok := piece.ParseKind(rune(strings.ToUpper(args[0])[0]))
		if !ok {
			d.out <- fmt.Sprintf("invalid promotion kind: %v", args[0])
			return
		}
		if err := d.e.FinalizePromotion(ctx, k); err != nil {
			d.out <- fmt.Sprintf("invalid promotion: %v", err)
			return
		}
		d.printBoard(ctx)

	case "":
		// ignore

	default:
		// Assume move if not a recognized command.
		from, to, promo, ok := position.ParseUCIMove(cmd)
		if !ok {
			d.out <- fmt.Sprintf("invalid move: %v", cmd)
			return
		}
		res, err := d.e.AttemptMove(ctx, from, to, promo)
		if err != nil {
			d.out <- fmt.Sprintf("invalid move: %v", err)
			return
		}
		if res == engine.Promotion {
			d.out <- "promotion pending, use: promote <q|r|b|n>"
			return
		}
		d.printBoard(ctx)
	}
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func (d *Driver) printBoard(ctx context.Context) {
	p := d.e.Position()

	d.out <- ""
	d.out <- files
	d.out <- horizontal

	var sb strings.Builder
	for y := 0; y < 8; y++ {
		sb.Reset()
		sb.WriteString(strconv.Itoa(8 - y))
		sb.WriteString(vertical)
		for x := 0; x < 8; x++ {
			if k, c, ok := p.PieceAt(position.Sq(x, y)); ok {
				sb.WriteString(printPiece(c, k))
			} else {
				sb.WriteString(" ")
			}
			sb.WriteString(vertical)
		}
		d.out <- sb.String()
		d.out <- horizontal
	}
	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("fen:    %v", d.e.FEN())
	d.out <- fmt.Sprintf("result: %v", d.e.GameEnd(ctx))
	d.out <- ""
}

func printPiece(c piece.Colour, k piece.Kind) string {
	if c == piece.White {
		return strings.ToUpper(k.String())
	}
	return strings.ToLower(k.String())
}

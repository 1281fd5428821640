// Command gintendo loads an iNES ROM and runs it, either in an ebiten
// window or, with -headless, through the CPU/disassembly inspection
// REPL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/gintendo-emu/gintendo/console"
	"github.com/gintendo-emu/gintendo/nesrom"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
)

var (
	romFile    = flag.String("nes_rom", "", "Path to NES ROM to run.")
	headless   = flag.Bool("headless", false, "Run the CPU/disassembly inspection REPL instead of opening a window.")
	breakpoint = flag.String("breakpoint", "", "Hex address (eg f00d) to break at when -headless is set.")
)

func main() {
	flag.Parse()

	cart, err := nesrom.New(*romFile)
	if err != nil {
		log.Fatalf("invalid ROM: %v", err)
	}

	core := console.New()
	core.InsertCartridge(cart)

	if *headless {
		runHeadless(core)
		return
	}

	ebiten.SetWindowSize(256*2, 240*2)
	ebiten.SetWindowTitle("Gintendo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				core.Clock()
			}
		}
	})
	g.Go(func() error {
		defer cancel()
		return ebiten.RunGame(&game{core: core})
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}

func runHeadless(core *console.NESCore) {
	if *breakpoint != "" {
		var addr uint16
		if _, err := fmt.Sscanf(*breakpoint, "%x", &addr); err != nil {
			log.Fatalf("invalid -breakpoint %q: %v", *breakpoint, err)
		}
		core.AddBreakpoint(addr)
	}
	withRawTerminal(func() {
		core.BIOS(context.Background())
	})
}

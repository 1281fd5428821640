package main

import (
	"image/color"

	"github.com/gintendo-emu/gintendo/console"
	"github.com/hajimehoshi/ebiten/v2"
)

// game adapts a *console.NESCore to the ebiten.Game interface. It owns
// no emulation state of its own: the core is clocked on a separate
// goroutine, and Draw simply blits whatever framebuffer is current.
type game struct {
	core *console.NESCore
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256, 240
}

// Update is required by ebiten.Game but does no work here: the core
// is driven independently by the clocking goroutine in main.
func (g *game) Update() error {
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.core.PPU().Framebuffer()
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			px := fb[y*256+x]
			screen.Set(x, y, color.RGBA{
				R: uint8(px >> 16),
				G: uint8(px >> 8),
				B: uint8(px),
				A: uint8(px >> 24),
			})
		}
	}
}

// Package console implements the NES system bus: address decoding
// between the CPU, PPU register window, system RAM, and the inserted
// cartridge, plus the master clock divider that drives both chips.
package console

import (
	"fmt"

	"github.com/gintendo-emu/gintendo/mos6502"
	"github.com/gintendo-emu/gintendo/ppu"
)

const (
	nesBaseMemory = 0x0800 // 2 KiB built-in RAM, mirrored through 0x1FFF
)

// Cartridge is the bus-side view of an inserted cartridge: a CPU
// responder and a PPU responder, consulted before any other decoding.
type Cartridge interface {
	CPURead(addr uint16) (uint8, bool)
	CPUWrite(addr uint16, val uint8) bool
	PPURead(addr uint16) (uint8, bool)
	PPUWrite(addr uint16, val uint8) bool
	MirroringMode() uint8
}

// NESCore wires together a 6502 CPU, a 2C02 PPU, 2 KiB of system RAM,
// and an optional cartridge, and drives them with a 3:1 PPU:CPU clock.
type NESCore struct {
	cpu  *mos6502.CPU
	ppu  *ppu.PPU
	cart Cartridge
	ram  [nesBaseMemory]uint8

	systemClock uint64

	pendingBreakpoints map[uint16]struct{}
}

// AddBreakpoint registers an address to break at once BIOS starts.
func (c *NESCore) AddBreakpoint(addr uint16) {
	if c.pendingBreakpoints == nil {
		c.pendingBreakpoints = make(map[uint16]struct{})
	}
	c.pendingBreakpoints[addr] = struct{}{}
}

// New constructs a core with no cartridge inserted. InsertCartridge
// must be called before Reset/Clock produce meaningful behavior.
func New() *NESCore {
	c := &NESCore{ppu: ppu.New()}
	c.cpu = mos6502.New(c)
	return c
}

// InsertCartridge wires cart into both the CPU-side and PPU-side
// address decoders and resets the core.
func (c *NESCore) InsertCartridge(cart Cartridge) {
	c.cart = cart
	c.ppu.InsertCartridge(cart, cart.MirroringMode())
	c.Reset()
}

// CPU returns the embedded processor, for register/flag inspection.
func (c *NESCore) CPU() *mos6502.CPU { return c.cpu }

// PPU returns the embedded picture processor, for framebuffer and
// pattern-table inspection.
func (c *NESCore) PPU() *ppu.PPU { return c.ppu }

// SystemClock returns the monotonic master-tick counter.
func (c *NESCore) SystemClock() uint64 { return c.systemClock }

// Reset puts CPU and PPU back to their post-power-on state and zeros
// the clock counter.
func (c *NESCore) Reset() {
	c.cpu.Reset()
	c.ppu.Reset()
	c.systemClock = 0
}

// Clock advances the master clock by one tick: the PPU every tick,
// the CPU every third, draining any pending NMI from the PPU first.
func (c *NESCore) Clock() {
	c.ppu.Clock()

	if c.ppu.NMIPending() {
		c.cpu.NMI()
	}

	if c.systemClock%3 == 0 {
		c.cpu.Clock()
	}
	c.systemClock++
}

// StepCPUInstruction clocks until the CPU has cycles outstanding, then
// until it has none left. Called while the CPU is idle, this runs
// exactly one complete instruction; called while an instruction (or
// the post-reset cycle count) is still in flight, it only finishes that.
func (c *NESCore) StepCPUInstruction() {
	for c.cpu.CycleComplete() {
		c.Clock()
	}
	for !c.cpu.CycleComplete() {
		c.Clock()
	}
}

// StepPPUFrame clocks until the PPU signals frame_complete, finishes
// whatever CPU instruction is in flight, and clears the flag.
func (c *NESCore) StepPPUFrame() {
	for !c.ppu.FrameComplete() {
		c.Clock()
	}
	for !c.cpu.CycleComplete() {
		c.Clock()
	}
	c.ppu.ClearFrameComplete()
}

// Read implements mos6502.Bus: the CPU-side address decode, cartridge
// consulted first.
func (c *NESCore) Read(addr uint16) uint8 {
	v, _ := c.CPURead(addr, false)
	return v
}

func (c *NESCore) Write(addr uint16, val uint8) {
	c.CPUWrite(addr, val)
}

// CPURead is the debugger-facing read: readonly promises the access
// will not mutate observable state (used while walking disassembly),
// which matters for the PPU register window's read side effects.
func (c *NESCore) CPURead(addr uint16, readonly bool) (uint8, bool) {
	if c.cart != nil {
		if v, hit := c.cart.CPURead(addr); hit {
			return v, true
		}
	}

	switch {
	case addr <= 0x1FFF:
		return c.ram[addr&0x07FF], true
	case addr <= 0x3FFF:
		if readonly {
			return 0, true
		}
		return c.ppu.CPURead(addr & 0x0007), true
	case addr <= 0x4017:
		return 0, true // APU/IO stub
	default:
		return 0, true
	}
}

// CPUWrite is the CPU-side write path; reports whether any responder
// claimed the address (cartridge writes to ROM ranges are accepted
// but harmless for Mapper 0).
func (c *NESCore) CPUWrite(addr uint16, val uint8) bool {
	if c.cart != nil {
		if c.cart.CPUWrite(addr, val) {
			return true
		}
	}

	switch {
	case addr <= 0x1FFF:
		c.ram[addr&0x07FF] = val
		return true
	case addr <= 0x3FFF:
		c.ppu.CPUWrite(addr&0x0007, val)
		return true
	case addr <= 0x4017:
		return true // APU/IO stub, writes ignored
	default:
		return false
	}
}

// Disassembly returns the rendered text for every instruction in
// [start, end), keyed by starting address, built via readonly reads.
func (c *NESCore) Disassembly(start, end uint16) map[uint16]string {
	return mos6502.Disassemble(func(a uint16) uint8 {
		v, _ := c.CPURead(a, true)
		return v
	}, start, end)
}

func (c *NESCore) String() string {
	return fmt.Sprintf("clock=%d %s", c.systemClock, c.cpu)
}

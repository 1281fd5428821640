// Package mos6502 implements the MOS Technologies 6502 processor, as
// used (without decimal mode) in the NES's 2A03.
// https://en.wikipedia.org/wiki/MOS_Technology_6502
package mos6502

import (
	"fmt"
)

// 6502 Interrupt Vectors
// https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	vectorNMI   = 0xFFFA
	vectorRESET = 0xFFFC
	vectorIRQ   = 0xFFFE
	vectorBRK   = vectorIRQ
)

// 6502 Processor Status Flags
// https://www.nesdev.org/obelisk-6502-guide/registers.html
const (
	FlagCarry     = 1 << 0 // C
	FlagZero      = 1 << 1 // Z
	FlagInterrupt = 1 << 2 // I
	FlagDecimal   = 1 << 3 // D
	FlagBreak     = 1 << 4 // B
	FlagUnused    = 1 << 5 // U - always on except during explicit push/pull
	FlagOverflow  = 1 << 6 // V
	FlagNegative  = 1 << 7 // N
)

const stackPage = 0x0100

// Bus is the minimal memory interface the CPU needs. Concrete wiring
// (system RAM, PPU registers, cartridge) lives on the other side of
// this interface so the CPU never holds a back-pointer to the bus
// that owns it.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// instruction describes one of the 256 possible opcode bytes: its
// mnemonic (for disassembly), the operation and addressing-mode
// functions to run, and the opcode's base cycle count.
type instruction struct {
	name     string
	operate  func(*CPU) uint8
	addrMode func(*CPU) uint8
	mode     string // addressing mode tag, for the disassembler
	cycles   uint8
}

// CPU implements fetch-decode-execute for the 6502, one instruction
// at a time, with cycle accounting handled by repeated Clock calls.
type CPU struct {
	A, X, Y uint8
	Status  uint8
	SP      uint8
	PC      uint16

	bus Bus

	// Per-instruction scratch, set by each instruction's addressing
	// mode and cleared only by Reset.
	fetched uint8
	addrAbs uint16
	addrRel uint16
	opcode  uint8

	cyclesRemaining uint8
}

// New constructs a CPU wired to bus. A, X, Y and PC are left zeroed,
// SP starts at 0xFD and Status has only U set, until Reset is called.
func New(bus Bus) *CPU {
	return &CPU{bus: bus, SP: 0xFD, Status: FlagUnused}
}

func (c *CPU) String() string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X SP=%02X PC=%04X P=%s",
		c.A, c.X, c.Y, c.SP, c.PC, statusString(c.Status))
}

func statusString(p uint8) string {
	var out [8]byte
	flags := [8]struct {
		mask uint8
		ch   byte
	}{
		{FlagNegative, 'N'}, {FlagOverflow, 'V'}, {FlagUnused, 'U'}, {FlagBreak, 'B'},
		{FlagDecimal, 'D'}, {FlagInterrupt, 'I'}, {FlagZero, 'Z'}, {FlagCarry, 'C'},
	}
	for i, f := range flags {
		if p&f.mask != 0 {
			out[i] = f.ch
		} else {
			out[i] = '.'
		}
	}
	return string(out[:])
}

func (c *CPU) Read(addr uint16) uint8       { return c.bus.Read(addr) }
func (c *CPU) Write(addr uint16, val uint8) { c.bus.Write(addr, val) }
func (c *CPU) Opcode() uint8                { return c.opcode }
func (c *CPU) CyclesRemaining() uint8       { return c.cyclesRemaining }
func (c *CPU) SetPC(pc uint16)              { c.PC = pc }
func (c *CPU) StackAddr() uint16            { return stackPage + uint16(c.SP) }
func (c *CPU) GetFlag(mask uint8) bool      { return c.Status&mask != 0 }

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.Status |= mask
	} else {
		c.Status &^= mask
	}
}

func (c *CPU) readWord(addr uint16) uint16 {
	lo := uint16(c.Read(addr))
	hi := uint16(c.Read(addr + 1))
	return hi<<8 | lo
}

// Reset puts the CPU in its post-power-on state and loads PC from the
// reset vector.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.Status = FlagUnused
	c.fetched, c.addrAbs, c.addrRel = 0, 0, 0
	c.PC = c.readWord(vectorRESET)
	c.cyclesRemaining = 8
}

// IRQ services a maskable interrupt if the I flag is clear.
func (c *CPU) IRQ() {
	if c.GetFlag(FlagInterrupt) {
		return
	}
	c.pushAddr(c.PC)
	c.setFlag(FlagBreak, false)
	c.setFlag(FlagUnused, true)
	c.pushByte(c.Status)
	c.setFlag(FlagInterrupt, true)
	c.PC = c.readWord(vectorIRQ)
	c.cyclesRemaining = 7
}

// NMI services a non-maskable interrupt unconditionally.
func (c *CPU) NMI() {
	c.pushAddr(c.PC)
	c.setFlag(FlagBreak, false)
	c.setFlag(FlagUnused, true)
	c.pushByte(c.Status)
	c.setFlag(FlagInterrupt, true)
	c.PC = c.readWord(vectorNMI)
	c.cyclesRemaining = 8
}

// CycleComplete reports whether the current instruction has finished
// consuming its cycles.
func (c *CPU) CycleComplete() bool {
	return c.cyclesRemaining == 0
}

// Clock advances the CPU by one cycle: if the previous instruction's
// cycles have all been consumed, fetch/decode/execute a new one (whose
// cycles then start ticking down), otherwise just consume a cycle.
func (c *CPU) Clock() {
	if c.cyclesRemaining == 0 {
		c.opcode = c.Read(c.PC)
		c.PC++

		inst := &lookup[c.opcode]
		c.cyclesRemaining = inst.cycles

		extra1 := inst.addrMode(c)
		extra2 := inst.operate(c)
		c.cyclesRemaining += extra1 & extra2

		c.setFlag(FlagUnused, true)
	}
	c.cyclesRemaining--
}

func (c *CPU) pushByte(v uint8) {
	c.Write(stackPage+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) popByte() uint8 {
	c.SP++
	return c.Read(stackPage + uint16(c.SP))
}

func (c *CPU) pushAddr(addr uint16) {
	c.pushByte(uint8(addr >> 8))
	c.pushByte(uint8(addr & 0x00FF))
}

func (c *CPU) popAddr() uint16 {
	lo := uint16(c.popByte())
	hi := uint16(c.popByte())
	return hi<<8 | lo
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

// extraCycle reports whether addr1 and addr2 fall on different pages,
// as a 0/1 usable directly in the addrMode/operate & combination.
func extraCycle(addr1, addr2 uint16) uint8 {
	if addr1&0xFF00 != addr2&0xFF00 {
		return 1
	}
	return 0
}

// ---- addressing modes ----
// Each sets c.addrAbs (or c.fetched directly for ACC/IMP, c.addrRel
// for REL) and returns 1 only when an indexed mode (ABX/ABY/IZY)
// actually crossed a page, 0 otherwise.

func modACC(c *CPU) uint8 {
	c.fetched = c.A
	return 0
}

func modIMP(c *CPU) uint8 {
	c.fetched = c.A
	return 0
}

func modIMM(c *CPU) uint8 {
	c.addrAbs = c.PC
	c.PC++
	return 0
}

func modZP0(c *CPU) uint8 {
	c.addrAbs = uint16(c.Read(c.PC)) & 0x00FF
	c.PC++
	return 0
}

func modZPX(c *CPU) uint8 {
	c.addrAbs = uint16(c.Read(c.PC)+c.X) & 0x00FF
	c.PC++
	return 0
}

func modZPY(c *CPU) uint8 {
	c.addrAbs = uint16(c.Read(c.PC)+c.Y) & 0x00FF
	c.PC++
	return 0
}

func modABS(c *CPU) uint8 {
	lo := uint16(c.Read(c.PC))
	c.PC++
	hi := uint16(c.Read(c.PC))
	c.PC++
	c.addrAbs = hi<<8 | lo
	return 0
}

func modABX(c *CPU) uint8 {
	lo := uint16(c.Read(c.PC))
	c.PC++
	hi := uint16(c.Read(c.PC))
	c.PC++
	base := hi<<8 | lo
	c.addrAbs = base + uint16(c.X)
	return extraCycle(base, c.addrAbs)
}

func modABY(c *CPU) uint8 {
	lo := uint16(c.Read(c.PC))
	c.PC++
	hi := uint16(c.Read(c.PC))
	c.PC++
	base := hi<<8 | lo
	c.addrAbs = base + uint16(c.Y)
	return extraCycle(base, c.addrAbs)
}

func modREL(c *CPU) uint8 {
	rel := uint16(c.Read(c.PC))
	c.PC++
	if rel&0x80 != 0 {
		rel |= 0xFF00
	}
	c.addrRel = rel
	return 0
}

// modIND reproduces the documented NMOS page-wrap bug: if the low
// byte of the pointer is 0xFF, the high byte of the target is fetched
// from the start of the same page instead of the next one.
func modIND(c *CPU) uint8 {
	lo := uint16(c.Read(c.PC))
	c.PC++
	hi := uint16(c.Read(c.PC))
	c.PC++
	ptr := hi<<8 | lo

	var target uint16
	if lo == 0x00FF {
		target = uint16(c.Read(ptr&0xFF00))<<8 | uint16(c.Read(ptr))
	} else {
		target = uint16(c.Read(ptr+1))<<8 | uint16(c.Read(ptr))
	}
	c.addrAbs = target
	return 0
}

func modIZX(c *CPU) uint8 {
	t := uint16(c.Read(c.PC))
	c.PC++
	lo := uint16(c.Read((t + uint16(c.X)) & 0x00FF))
	hi := uint16(c.Read((t + uint16(c.X) + 1) & 0x00FF))
	c.addrAbs = hi<<8 | lo
	return 0
}

func modIZY(c *CPU) uint8 {
	t := uint16(c.Read(c.PC))
	c.PC++
	lo := uint16(c.Read(t & 0x00FF))
	hi := uint16(c.Read((t + 1) & 0x00FF))
	base := hi<<8 | lo
	c.addrAbs = base + uint16(c.Y)
	return extraCycle(base, c.addrAbs)
}

// fetch loads c.fetched from the effective address computed by the
// addressing mode, unless the current opcode's mode already populated
// it directly (ACC/IMP).
func (c *CPU) fetch() uint8 {
	if isImplied(lookup[c.opcode].mode) {
		return c.fetched
	}
	c.fetched = c.Read(c.addrAbs)
	return c.fetched
}

func isImplied(m string) bool {
	return m == "ACC" || m == "IMP"
}

// writeResult stores v back to wherever fetch() got it from: the
// accumulator for ACC/IMP mode, memory at addrAbs otherwise. Used by
// the read-modify-write instructions (ASL, LSR, ROL, ROR, INC, DEC).
func (c *CPU) writeResult(v uint8) {
	if isImplied(lookup[c.opcode].mode) {
		c.A = v
		return
	}
	c.Write(c.addrAbs, v)
}

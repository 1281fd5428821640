package mos6502

import "math/bits"

// ---- arithmetic / logical ----

func opADC(c *CPU) uint8 {
	m := c.fetch()
	carry := uint16(0)
	if c.GetFlag(FlagCarry) {
		carry = 1
	}
	temp := uint16(c.A) + uint16(m) + carry

	c.setFlag(FlagCarry, temp > 255)
	c.setFlag(FlagZero, temp&0x00FF == 0)
	c.setFlag(FlagNegative, temp&0x80 != 0)
	c.setFlag(FlagOverflow, (^(uint16(c.A)^uint16(m))&(uint16(c.A)^temp))&0x80 != 0)

	c.A = uint8(temp)
	return 1
}

func opSBC(c *CPU) uint8 {
	m := uint16(c.fetch()) ^ 0x00FF
	carry := uint16(0)
	if c.GetFlag(FlagCarry) {
		carry = 1
	}
	temp := uint16(c.A) + m + carry

	c.setFlag(FlagCarry, temp > 255)
	c.setFlag(FlagZero, temp&0x00FF == 0)
	c.setFlag(FlagNegative, temp&0x80 != 0)
	c.setFlag(FlagOverflow, (temp^uint16(c.A))&(temp^m)&0x80 != 0)

	c.A = uint8(temp)
	return 1
}

func opAND(c *CPU) uint8 {
	c.A &= c.fetch()
	c.setZN(c.A)
	return 1
}

func opORA(c *CPU) uint8 {
	c.A |= c.fetch()
	c.setZN(c.A)
	return 1
}

func opEOR(c *CPU) uint8 {
	c.A ^= c.fetch()
	c.setZN(c.A)
	return 1
}

func opBIT(c *CPU) uint8 {
	m := c.fetch()
	c.setFlag(FlagZero, c.A&m == 0)
	c.setFlag(FlagNegative, m&0x80 != 0)
	c.setFlag(FlagOverflow, m&0x40 != 0)
	return 0
}

func baseCompare(c *CPU, reg uint8) uint8 {
	m := c.fetch()
	diff := uint16(reg) - uint16(m)
	c.setFlag(FlagCarry, reg >= m)
	c.setFlag(FlagZero, reg == m)
	c.setFlag(FlagNegative, diff&0x80 != 0)
	return 1
}

func opCMP(c *CPU) uint8 { return baseCompare(c, c.A) }
func opCPX(c *CPU) uint8 { return baseCompare(c, c.X) }
func opCPY(c *CPU) uint8 { return baseCompare(c, c.Y) }

// ---- shifts / rotates ----

func opASL(c *CPU) uint8 {
	v := c.fetch()
	r := v << 1
	c.setFlag(FlagCarry, v&0x80 != 0)
	c.setZN(r)
	c.writeResult(r)
	return 0
}

func opLSR(c *CPU) uint8 {
	v := c.fetch()
	r := v >> 1
	c.setFlag(FlagCarry, v&0x01 != 0)
	c.setZN(r)
	c.writeResult(r)
	return 0
}

func opROL(c *CPU) uint8 {
	v := c.fetch()
	carryIn := uint8(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 1
	}
	r := bits.RotateLeft8(v, 1)&^1 | carryIn
	c.setFlag(FlagCarry, v&0x80 != 0)
	c.setZN(r)
	c.writeResult(r)
	return 0
}

func opROR(c *CPU) uint8 {
	v := c.fetch()
	carryIn := uint8(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 1
	}
	r := bits.RotateLeft8(v, -1)&^0x80 | (carryIn << 7)
	c.setFlag(FlagCarry, v&0x01 != 0)
	c.setZN(r)
	c.writeResult(r)
	return 0
}

// ---- increments / decrements ----

func opINC(c *CPU) uint8 {
	v := c.fetch() + 1
	c.writeResult(v)
	c.setZN(v)
	return 0
}

func opDEC(c *CPU) uint8 {
	v := c.fetch() - 1
	c.writeResult(v)
	c.setZN(v)
	return 0
}

func opINX(c *CPU) uint8 { c.X++; c.setZN(c.X); return 0 }
func opINY(c *CPU) uint8 { c.Y++; c.setZN(c.Y); return 0 }
func opDEX(c *CPU) uint8 { c.X--; c.setZN(c.X); return 0 }
func opDEY(c *CPU) uint8 { c.Y--; c.setZN(c.Y); return 0 }

// ---- loads / stores ----

func opLDA(c *CPU) uint8 { c.A = c.fetch(); c.setZN(c.A); return 1 }
func opLDX(c *CPU) uint8 { c.X = c.fetch(); c.setZN(c.X); return 1 }
func opLDY(c *CPU) uint8 { c.Y = c.fetch(); c.setZN(c.Y); return 1 }

func opSTA(c *CPU) uint8 { c.Write(c.addrAbs, c.A); return 0 }
func opSTX(c *CPU) uint8 { c.Write(c.addrAbs, c.X); return 0 }
func opSTY(c *CPU) uint8 { c.Write(c.addrAbs, c.Y); return 0 }

// ---- transfers ----

func opTAX(c *CPU) uint8 { c.X = c.A; c.setZN(c.X); return 0 }
func opTAY(c *CPU) uint8 { c.Y = c.A; c.setZN(c.Y); return 0 }
func opTXA(c *CPU) uint8 { c.A = c.X; c.setZN(c.A); return 0 }
func opTYA(c *CPU) uint8 { c.A = c.Y; c.setZN(c.A); return 0 }
func opTSX(c *CPU) uint8 { c.X = c.SP; c.setZN(c.X); return 0 }
func opTXS(c *CPU) uint8 { c.SP = c.X; return 0 }

// ---- stack ----

func opPHA(c *CPU) uint8 { c.pushByte(c.A); return 0 }
func opPHP(c *CPU) uint8 { c.pushByte(c.Status | FlagBreak | FlagUnused); return 0 }

func opPLA(c *CPU) uint8 {
	c.A = c.popByte()
	c.setZN(c.A)
	return 0
}

func opPLP(c *CPU) uint8 {
	c.Status = c.popByte()
	c.setFlag(FlagUnused, true)
	return 0
}

// ---- flags ----

func opCLC(c *CPU) uint8 { c.setFlag(FlagCarry, false); return 0 }
func opCLD(c *CPU) uint8 { c.setFlag(FlagDecimal, false); return 0 }
func opCLI(c *CPU) uint8 { c.setFlag(FlagInterrupt, false); return 0 }
func opCLV(c *CPU) uint8 { c.setFlag(FlagOverflow, false); return 0 }
func opSEC(c *CPU) uint8 { c.setFlag(FlagCarry, true); return 0 }
func opSED(c *CPU) uint8 { c.setFlag(FlagDecimal, true); return 0 }
func opSEI(c *CPU) uint8 { c.setFlag(FlagInterrupt, true); return 0 }

// ---- branches ----
// Every branch: if the condition holds, +1 cycle, compute the target
// from PC + addrRel, +1 more cycle if that crosses a page, then jump.

func (c *CPU) branch(cond bool) uint8 {
	if !cond {
		return 0
	}
	c.cyclesRemaining++
	target := c.PC + c.addrRel
	if target&0xFF00 != c.PC&0xFF00 {
		c.cyclesRemaining++
	}
	c.PC = target
	return 0
}

func opBCC(c *CPU) uint8 { return c.branch(!c.GetFlag(FlagCarry)) }
func opBCS(c *CPU) uint8 { return c.branch(c.GetFlag(FlagCarry)) }
func opBEQ(c *CPU) uint8 { return c.branch(c.GetFlag(FlagZero)) }
func opBNE(c *CPU) uint8 { return c.branch(!c.GetFlag(FlagZero)) }
func opBMI(c *CPU) uint8 { return c.branch(c.GetFlag(FlagNegative)) }
func opBPL(c *CPU) uint8 { return c.branch(!c.GetFlag(FlagNegative)) }
func opBVC(c *CPU) uint8 { return c.branch(!c.GetFlag(FlagOverflow)) }
func opBVS(c *CPU) uint8 { return c.branch(c.GetFlag(FlagOverflow)) }

// ---- jumps / calls ----

func opJMP(c *CPU) uint8 { c.PC = c.addrAbs; return 0 }

func opJSR(c *CPU) uint8 {
	c.pushAddr(c.PC - 1)
	c.PC = c.addrAbs
	return 0
}

func opRTS(c *CPU) uint8 {
	c.PC = c.popAddr() + 1
	return 0
}

func opBRK(c *CPU) uint8 {
	c.PC++
	c.pushAddr(c.PC)
	c.setFlag(FlagBreak, true)
	c.pushByte(c.Status)
	c.setFlag(FlagBreak, false)
	c.setFlag(FlagInterrupt, true)
	c.PC = c.readWord(vectorBRK)
	return 0
}

func opRTI(c *CPU) uint8 {
	c.Status = c.popByte()
	c.Status &^= FlagBreak
	c.Status &^= FlagUnused
	c.setFlag(FlagUnused, true)
	c.PC = c.popAddr()
	return 0
}

func opNOP(c *CPU) uint8 { return 0 }

// opXXX is a no-op stub for undocumented opcode bytes. The lookup table
// does not reference it: init fills unassigned slots with opNOP.
func opXXX(c *CPU) uint8 { return 0 }

// lookup is the 256-entry instruction table, indexed by opcode byte.
// Entries not covered by the 56 official mnemonics below are left as
// the zero-valued slot, patched to {NOP, IMP, 2} by init().
var lookup [256]instruction

func init() {
	for i := range lookup {
		lookup[i] = instruction{name: "NOP", operate: opNOP, addrMode: modIMP, mode: "IMP", cycles: 2}
	}

	type row struct {
		op     uint8
		name   string
		oper   func(*CPU) uint8
		mode   func(*CPU) uint8
		mtag   string
		cycles uint8
	}

	rows := []row{
		// ADC
		{0x69, "ADC", opADC, modIMM, "IMM", 2}, {0x65, "ADC", opADC, modZP0, "ZP0", 3},
		{0x75, "ADC", opADC, modZPX, "ZPX", 4}, {0x6D, "ADC", opADC, modABS, "ABS", 4},
		{0x7D, "ADC", opADC, modABX, "ABX", 4}, {0x79, "ADC", opADC, modABY, "ABY", 4},
		{0x61, "ADC", opADC, modIZX, "IZX", 6}, {0x71, "ADC", opADC, modIZY, "IZY", 5},
		// AND
		{0x29, "AND", opAND, modIMM, "IMM", 2}, {0x25, "AND", opAND, modZP0, "ZP0", 3},
		{0x35, "AND", opAND, modZPX, "ZPX", 4}, {0x2D, "AND", opAND, modABS, "ABS", 4},
		{0x3D, "AND", opAND, modABX, "ABX", 4}, {0x39, "AND", opAND, modABY, "ABY", 4},
		{0x21, "AND", opAND, modIZX, "IZX", 6}, {0x31, "AND", opAND, modIZY, "IZY", 5},
		// ASL
		{0x0A, "ASL", opASL, modACC, "ACC", 2}, {0x06, "ASL", opASL, modZP0, "ZP0", 5},
		{0x16, "ASL", opASL, modZPX, "ZPX", 6}, {0x0E, "ASL", opASL, modABS, "ABS", 6},
		{0x1E, "ASL", opASL, modABX, "ABX", 7},
		// Branches
		{0x90, "BCC", opBCC, modREL, "REL", 2}, {0xB0, "BCS", opBCS, modREL, "REL", 2},
		{0xF0, "BEQ", opBEQ, modREL, "REL", 2}, {0x30, "BMI", opBMI, modREL, "REL", 2},
		{0xD0, "BNE", opBNE, modREL, "REL", 2}, {0x10, "BPL", opBPL, modREL, "REL", 2},
		{0x50, "BVC", opBVC, modREL, "REL", 2}, {0x70, "BVS", opBVS, modREL, "REL", 2},
		// BIT
		{0x24, "BIT", opBIT, modZP0, "ZP0", 3}, {0x2C, "BIT", opBIT, modABS, "ABS", 4},
		// BRK
		{0x00, "BRK", opBRK, modIMP, "IMP", 7},
		// Clear flags
		{0x18, "CLC", opCLC, modIMP, "IMP", 2}, {0xD8, "CLD", opCLD, modIMP, "IMP", 2},
		{0x58, "CLI", opCLI, modIMP, "IMP", 2}, {0xB8, "CLV", opCLV, modIMP, "IMP", 2},
		// CMP
		{0xC9, "CMP", opCMP, modIMM, "IMM", 2}, {0xC5, "CMP", opCMP, modZP0, "ZP0", 3},
		{0xD5, "CMP", opCMP, modZPX, "ZPX", 4}, {0xCD, "CMP", opCMP, modABS, "ABS", 4},
		{0xDD, "CMP", opCMP, modABX, "ABX", 4}, {0xD9, "CMP", opCMP, modABY, "ABY", 4},
		{0xC1, "CMP", opCMP, modIZX, "IZX", 6}, {0xD1, "CMP", opCMP, modIZY, "IZY", 5},
		// CPX / CPY
		{0xE0, "CPX", opCPX, modIMM, "IMM", 2}, {0xE4, "CPX", opCPX, modZP0, "ZP0", 3},
		{0xEC, "CPX", opCPX, modABS, "ABS", 4},
		{0xC0, "CPY", opCPY, modIMM, "IMM", 2}, {0xC4, "CPY", opCPY, modZP0, "ZP0", 3},
		{0xCC, "CPY", opCPY, modABS, "ABS", 4},
		// DEC
		{0xC6, "DEC", opDEC, modZP0, "ZP0", 5}, {0xD6, "DEC", opDEC, modZPX, "ZPX", 6},
		{0xCE, "DEC", opDEC, modABS, "ABS", 6}, {0xDE, "DEC", opDEC, modABX, "ABX", 7},
		{0xCA, "DEX", opDEX, modIMP, "IMP", 2}, {0x88, "DEY", opDEY, modIMP, "IMP", 2},
		// EOR
		{0x49, "EOR", opEOR, modIMM, "IMM", 2}, {0x45, "EOR", opEOR, modZP0, "ZP0", 3},
		{0x55, "EOR", opEOR, modZPX, "ZPX", 4}, {0x4D, "EOR", opEOR, modABS, "ABS", 4},
		{0x5D, "EOR", opEOR, modABX, "ABX", 4}, {0x59, "EOR", opEOR, modABY, "ABY", 4},
		{0x41, "EOR", opEOR, modIZX, "IZX", 6}, {0x51, "EOR", opEOR, modIZY, "IZY", 5},
		// INC
		{0xE6, "INC", opINC, modZP0, "ZP0", 5}, {0xF6, "INC", opINC, modZPX, "ZPX", 6},
		{0xEE, "INC", opINC, modABS, "ABS", 6}, {0xFE, "INC", opINC, modABX, "ABX", 7},
		{0xE8, "INX", opINX, modIMP, "IMP", 2}, {0xC8, "INY", opINY, modIMP, "IMP", 2},
		// JMP / JSR
		{0x4C, "JMP", opJMP, modABS, "ABS", 3}, {0x6C, "JMP", opJMP, modIND, "IND", 5},
		{0x20, "JSR", opJSR, modABS, "ABS", 6},
		// LDA
		{0xA9, "LDA", opLDA, modIMM, "IMM", 2}, {0xA5, "LDA", opLDA, modZP0, "ZP0", 3},
		{0xB5, "LDA", opLDA, modZPX, "ZPX", 4}, {0xAD, "LDA", opLDA, modABS, "ABS", 4},
		{0xBD, "LDA", opLDA, modABX, "ABX", 4}, {0xB9, "LDA", opLDA, modABY, "ABY", 4},
		{0xA1, "LDA", opLDA, modIZX, "IZX", 6}, {0xB1, "LDA", opLDA, modIZY, "IZY", 5},
		// LDX
		{0xA2, "LDX", opLDX, modIMM, "IMM", 2}, {0xA6, "LDX", opLDX, modZP0, "ZP0", 3},
		{0xB6, "LDX", opLDX, modZPY, "ZPY", 4}, {0xAE, "LDX", opLDX, modABS, "ABS", 4},
		{0xBE, "LDX", opLDX, modABY, "ABY", 4},
		// LDY
		{0xA0, "LDY", opLDY, modIMM, "IMM", 2}, {0xA4, "LDY", opLDY, modZP0, "ZP0", 3},
		{0xB4, "LDY", opLDY, modZPX, "ZPX", 4}, {0xAC, "LDY", opLDY, modABS, "ABS", 4},
		{0xBC, "LDY", opLDY, modABX, "ABX", 4},
		// LSR
		{0x4A, "LSR", opLSR, modACC, "ACC", 2}, {0x46, "LSR", opLSR, modZP0, "ZP0", 5},
		{0x56, "LSR", opLSR, modZPX, "ZPX", 6}, {0x4E, "LSR", opLSR, modABS, "ABS", 6},
		{0x5E, "LSR", opLSR, modABX, "ABX", 7},
		// NOP (official)
		{0xEA, "NOP", opNOP, modIMP, "IMP", 2},
		// ORA
		{0x09, "ORA", opORA, modIMM, "IMM", 2}, {0x05, "ORA", opORA, modZP0, "ZP0", 3},
		{0x15, "ORA", opORA, modZPX, "ZPX", 4}, {0x0D, "ORA", opORA, modABS, "ABS", 4},
		{0x1D, "ORA", opORA, modABX, "ABX", 4}, {0x19, "ORA", opORA, modABY, "ABY", 4},
		{0x01, "ORA", opORA, modIZX, "IZX", 6}, {0x11, "ORA", opORA, modIZY, "IZY", 5},
		// Stack
		{0x48, "PHA", opPHA, modIMP, "IMP", 3}, {0x08, "PHP", opPHP, modIMP, "IMP", 3},
		{0x68, "PLA", opPLA, modIMP, "IMP", 4}, {0x28, "PLP", opPLP, modIMP, "IMP", 4},
		// ROL
		{0x2A, "ROL", opROL, modACC, "ACC", 2}, {0x26, "ROL", opROL, modZP0, "ZP0", 5},
		{0x36, "ROL", opROL, modZPX, "ZPX", 6}, {0x2E, "ROL", opROL, modABS, "ABS", 6},
		{0x3E, "ROL", opROL, modABX, "ABX", 7},
		// ROR
		{0x6A, "ROR", opROR, modACC, "ACC", 2}, {0x66, "ROR", opROR, modZP0, "ZP0", 5},
		{0x76, "ROR", opROR, modZPX, "ZPX", 6}, {0x6E, "ROR", opROR, modABS, "ABS", 6},
		{0x7E, "ROR", opROR, modABX, "ABX", 7},
		// RTI / RTS
		{0x40, "RTI", opRTI, modIMP, "IMP", 6}, {0x60, "RTS", opRTS, modIMP, "IMP", 6},
		// SBC
		{0xE9, "SBC", opSBC, modIMM, "IMM", 2}, {0xE5, "SBC", opSBC, modZP0, "ZP0", 3},
		{0xF5, "SBC", opSBC, modZPX, "ZPX", 4}, {0xED, "SBC", opSBC, modABS, "ABS", 4},
		{0xFD, "SBC", opSBC, modABX, "ABX", 4}, {0xF9, "SBC", opSBC, modABY, "ABY", 4},
		{0xE1, "SBC", opSBC, modIZX, "IZX", 6}, {0xF1, "SBC", opSBC, modIZY, "IZY", 5},
		// Set flags
		{0x38, "SEC", opSEC, modIMP, "IMP", 2}, {0xF8, "SED", opSED, modIMP, "IMP", 2},
		{0x78, "SEI", opSEI, modIMP, "IMP", 2},
		// STA
		{0x85, "STA", opSTA, modZP0, "ZP0", 3}, {0x95, "STA", opSTA, modZPX, "ZPX", 4},
		{0x8D, "STA", opSTA, modABS, "ABS", 4}, {0x9D, "STA", opSTA, modABX, "ABX", 5},
		{0x99, "STA", opSTA, modABY, "ABY", 5}, {0x81, "STA", opSTA, modIZX, "IZX", 6},
		{0x91, "STA", opSTA, modIZY, "IZY", 6},
		// STX / STY
		{0x86, "STX", opSTX, modZP0, "ZP0", 3}, {0x96, "STX", opSTX, modZPY, "ZPY", 4},
		{0x8E, "STX", opSTX, modABS, "ABS", 4},
		{0x84, "STY", opSTY, modZP0, "ZP0", 3}, {0x94, "STY", opSTY, modZPX, "ZPX", 4},
		{0x8C, "STY", opSTY, modABS, "ABS", 4},
		// Transfers
		{0xAA, "TAX", opTAX, modIMP, "IMP", 2}, {0xA8, "TAY", opTAY, modIMP, "IMP", 2},
		{0xBA, "TSX", opTSX, modIMP, "IMP", 2}, {0x8A, "TXA", opTXA, modIMP, "IMP", 2},
		{0x9A, "TXS", opTXS, modIMP, "IMP", 2}, {0x98, "TYA", opTYA, modIMP, "IMP", 2},
	}

	for _, r := range rows {
		lookup[r.op] = instruction{name: r.name, operate: r.oper, addrMode: r.mode, mode: r.mtag, cycles: r.cycles}
	}
}

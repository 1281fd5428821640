package mos6502

import "fmt"

// Disassemble walks [start, end), decoding one instruction per
// iteration via read, and returns a map from each instruction's
// starting address to its rendered text line. read should never
// mutate observable state (a debugger's "readonly" memory access).
func Disassemble(read func(uint16) uint8, start, end uint16) map[uint16]string {
	out := make(map[uint16]string)
	addr := uint32(start)

	for addr < uint32(end) {
		lineAddr := uint16(addr)
		opcode := read(lineAddr)
		inst := lookup[opcode]
		addr++

		var operand string
		switch inst.mode {
		case "IMP", "ACC":
			operand = "(IMP)"
		case "IMM":
			v := read(uint16(addr))
			addr++
			operand = fmt.Sprintf("#$%02X (IMM)", v)
		case "ZP0":
			v := read(uint16(addr))
			addr++
			operand = fmt.Sprintf("$%02X (ZP0)", v)
		case "ZPX":
			v := read(uint16(addr))
			addr++
			operand = fmt.Sprintf("$%02X, X (ZPX)", v)
		case "ZPY":
			v := read(uint16(addr))
			addr++
			operand = fmt.Sprintf("$%02X, Y (ZPY)", v)
		case "ABS":
			lo := uint16(read(uint16(addr)))
			hi := uint16(read(uint16(addr + 1)))
			addr += 2
			operand = fmt.Sprintf("$%04X (ABS)", hi<<8|lo)
		case "ABX":
			lo := uint16(read(uint16(addr)))
			hi := uint16(read(uint16(addr + 1)))
			addr += 2
			operand = fmt.Sprintf("$%04X, X (ABX)", hi<<8|lo)
		case "ABY":
			lo := uint16(read(uint16(addr)))
			hi := uint16(read(uint16(addr + 1)))
			addr += 2
			operand = fmt.Sprintf("$%04X, Y (ABY)", hi<<8|lo)
		case "IND":
			lo := uint16(read(uint16(addr)))
			hi := uint16(read(uint16(addr + 1)))
			addr += 2
			operand = fmt.Sprintf("#$%04X (IND)", hi<<8|lo)
		case "REL":
			rel := uint16(read(uint16(addr)))
			addr++
			if rel&0x80 != 0 {
				rel |= 0xFF00
			}
			target := uint16(addr) + rel
			operand = fmt.Sprintf("$%02X [$%04X] (REL)", uint8(rel), target)
		case "IZX":
			v := read(uint16(addr))
			addr++
			operand = fmt.Sprintf("($%02X, X) (IZX)", v)
		case "IZY":
			v := read(uint16(addr))
			addr++
			operand = fmt.Sprintf("($%02X), Y (IZY)", v)
		default:
			operand = "(???)"
		}

		out[lineAddr] = fmt.Sprintf("%04X: %s %s", lineAddr, inst.name, operand)
	}

	return out
}

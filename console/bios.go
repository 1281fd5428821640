package console

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
)

func readAddress(prompt string) uint16 {
	var a uint16
	fmt.Print(prompt)
	fmt.Scanf("%04x\n", &a)
	return a
}

// RunUntil clocks the core until ctx is cancelled, checking breakpoints after
// every completed CPU instruction; it returns (true, addr) if a
// breakpoint address was hit.
func (c *NESCore) RunUntil(ctx context.Context, breakpoints map[uint16]struct{}) (bool, uint16) {
	for {
		select {
		case <-ctx.Done():
			return false, 0
		default:
			c.StepCPUInstruction()
			if _, hit := breakpoints[c.cpu.PC]; hit {
				return true, c.cpu.PC
			}
		}
	}
}

// BIOS runs the interactive CPU/disassembly inspection REPL: set
// breakpoints, single-step, dump memory/stack, set PC, inspect PPU
// status. This is the "disassembly inspection entry point" the core
// exposes in lieu of a GUI debugger.
func (c *NESCore) BIOS(ctx context.Context) {
	sigQuit := make(chan os.Signal, 1)
	signal.Notify(sigQuit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigQuit)

	breaks := c.pendingBreakpoints
	if breaks == nil {
		breaks = make(map[uint16]struct{})
	}

	for {
		fmt.Printf("%s\n\n", c)
		fmt.Println("(B)reak - add breakpoint")
		fmt.Println("(C)lear - clear breakpoints")
		fmt.Println("(R)un - run to completion or next breakpoint")
		fmt.Println("(S)tep - step the cpu one instruction")
		fmt.Println("R(e)set - hit the reset button")
		fmt.Println("(M)emory - select a memory range to display")
		fmt.Println("S(t)ack - show last 3 items on the stack")
		fmt.Println("(D)isassemble - show instruction memory locations")
		fmt.Println("(P)C - set program counter")
		fmt.Println("PP(U) - show PPU status")
		fmt.Println("(Q)uit - shut down")
		fmt.Printf("Choice: ")

		var in rune
		fmt.Scanf("%c\n", &in)

		switch in {
		case 'b', 'B':
			breaks[readAddress("Breakpoint (eg: ff15): ")] = struct{}{}
		case 'c', 'C':
			breaks = make(map[uint16]struct{})
		case 'p', 'P':
			c.cpu.SetPC(readAddress("Set PC to what address (eg: 0400)?: "))
		case 'q', 'Q':
			return
		case 'r', 'R':
			cctx, cancel := context.WithCancel(ctx)
			go func() {
				select {
				case <-sigQuit:
					cancel()
				case <-cctx.Done():
				}
			}()

			if hit, addr := c.RunUntil(cctx, breaks); hit {
				fmt.Printf("\nhit breakpoint at $%04X\n\n", addr)
			}
			cancel()
		case 's', 'S':
			c.StepCPUInstruction()
		case 't', 'T':
			fmt.Println()
			for i := 1; i <= 3; i++ {
				m := c.cpu.StackAddr() + uint16(i)
				if m > 0x01ff {
					break
				}
				fmt.Printf("0x%04x: 0x%02x ", m, c.Read(m))
			}
			fmt.Printf("\n\n")
		case 'd', 'D':
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			lines := c.Disassembly(low, high)
			for addr := uint32(low); addr < uint32(high); addr++ {
				if line, ok := lines[uint16(addr)]; ok {
					fmt.Println(line)
				}
			}
			fmt.Println()
		case 'u', 'U':
			fmt.Printf("frame_complete=%v\n\n", c.ppu.FrameComplete())
		case 'e', 'E':
			c.Reset()
		case 'm', 'M':
			fmt.Println()
			low := readAddress("Low address (eg f00d): ")
			high := readAddress("High address (eg beef): ")
			fmt.Println()

			x := 1
			i := uint32(low)
			for {
				v, _ := c.CPURead(uint16(i), true)
				fmt.Printf("0x%04x: 0x%02x ", i, v)
				if x%5 == 0 {
					fmt.Println()
				}
				if uint16(i) == high || i == math.MaxUint16 {
					break
				}
				x++
				i++
			}
			fmt.Printf("\n\n")
		}
	}
}

package console

import "testing"

type fakeCart struct {
	prg [0x8000]uint8
	chr [0x2000]uint8
}

func (f *fakeCart) CPURead(addr uint16) (uint8, bool) {
	if addr < 0x8000 {
		return 0, false
	}
	return f.prg[addr-0x8000], true
}

func (f *fakeCart) CPUWrite(addr uint16, val uint8) bool {
	if addr < 0x8000 {
		return false
	}
	f.prg[addr-0x8000] = val
	return true
}

func (f *fakeCart) PPURead(addr uint16) (uint8, bool) {
	if addr > 0x1FFF {
		return 0, false
	}
	return f.chr[addr], true
}

func (f *fakeCart) PPUWrite(addr uint16, val uint8) bool { return false }

func (f *fakeCart) MirroringMode() uint8 { return 0 }

// setResetVector writes addr into the reset vector at $FFFC/$FFFD.
func (f *fakeCart) setResetVector(addr uint16) {
	f.prg[0xFFFC-0x8000] = uint8(addr)
	f.prg[0xFFFD-0x8000] = uint8(addr >> 8)
}

func newTestCore(t *testing.T) (*NESCore, *fakeCart) {
	t.Helper()
	cart := &fakeCart{}
	cart.setResetVector(0x8000)

	core := New()
	core.InsertCartridge(cart)
	return core, cart
}

func TestResetVectorLoadsPC(t *testing.T) {
	core, _ := newTestCore(t)
	if core.CPU().PC != 0x8000 {
		t.Fatalf("PC after reset = %04X, want 0x8000", core.CPU().PC)
	}
}

func TestRAMMirroring(t *testing.T) {
	core, _ := newTestCore(t)
	core.Write(0x0000, 0x42)
	if v := core.Read(0x0800); v != 0x42 {
		t.Errorf("0x0800 should mirror 0x0000, got %02X", v)
	}
	if v := core.Read(0x1800); v != 0x42 {
		t.Errorf("0x1800 should mirror 0x0000, got %02X", v)
	}
}

func TestCartridgeConsultedFirst(t *testing.T) {
	core, cart := newTestCore(t)
	cart.prg[0] = 0x55 // addr 0x8000

	if v := core.Read(0x8000); v != 0x55 {
		t.Errorf("cartridge should be consulted first for 0x8000, got %02X", v)
	}
}

func TestClockDividerIsThreeToOne(t *testing.T) {
	core, _ := newTestCore(t)
	startCycles := core.CPU().CyclesRemaining()

	for i := 0; i < 3; i++ {
		core.Clock()
	}
	if core.SystemClock() != 3 {
		t.Fatalf("system clock = %d, want 3", core.SystemClock())
	}
	if got := startCycles - core.CPU().CyclesRemaining(); got != 1 {
		t.Errorf("CPU cycles consumed over 3 master ticks = %d, want 1", got)
	}
}

func TestStepPPUFrameSignalsAndClears(t *testing.T) {
	core, _ := newTestCore(t)
	core.StepPPUFrame()
	if core.PPU().FrameComplete() {
		t.Fatal("StepPPUFrame should clear frame_complete before returning")
	}
}

func TestDisassemblyKeyedByStartAddr(t *testing.T) {
	core, cart := newTestCore(t)
	cart.prg[0] = 0xEA // NOP at 0x8000

	lines := core.Disassembly(0x8000, 0x8001)
	if _, ok := lines[0x8000]; !ok {
		t.Fatalf("expected a disassembly line keyed at 0x8000, got %v", lines)
	}
}

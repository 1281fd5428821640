// Package nesrom implements support for the NES (iNES) ROM format.
// https://www.nesdev.org/wiki/INES
package nesrom

import (
	"fmt"
	"os"

	"github.com/gintendo-emu/gintendo/mappers"
)

const (
	TRAINER_SIZE   = 512
	PRG_BLOCK_SIZE = 16384
	CHR_BLOCK_SIZE = 8192
)

// Cartridge owns the PRG/CHR byte arrays loaded from an iNES image and
// the mapper that translates bus addresses into them.
type Cartridge struct {
	path string
	h    *Header

	prg []byte // PRG_BLOCK_SIZE * h.prgSize bytes
	chr []byte // CHR_BLOCK_SIZE * h.chrSize bytes

	mapper mappers.Mapper
}

// New loads an iNES v1 ROM from path. Failures are wrapped with one of
// ErrInvalidFormat, ErrUnsupportedMapper, or ErrIOError so a caller can
// distinguish them with errors.Is.
func New(path string) (*Cartridge, error) {
	rf, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w: %v", path, ErrIOError, err)
	}
	defer rf.Close()

	hbytes := make([]byte, 16)
	if n, err := rf.Read(hbytes); n != 16 || err != nil {
		return nil, fmt.Errorf("reading header of %q: %w", path, ErrIOError)
	}

	h := parseHeader(hbytes)
	if !h.isINesFormat() {
		return nil, fmt.Errorf("%q: %w: bad magic %q", path, ErrInvalidFormat, h.constant)
	}

	c := &Cartridge{path: path, h: h}

	if h.hasTrainer() {
		trainer := make([]byte, TRAINER_SIZE)
		if n, err := rf.Read(trainer); n != TRAINER_SIZE || err != nil {
			return nil, fmt.Errorf("reading trainer of %q: %w", path, ErrIOError)
		}
	}

	s := PRG_BLOCK_SIZE * int(h.prgSize)
	c.prg = make([]byte, s)
	if n, err := rf.Read(c.prg); n != s || err != nil {
		return nil, fmt.Errorf("reading PRG ROM of %q (got %d, want %d): %w", path, n, s, ErrIOError)
	}

	s = CHR_BLOCK_SIZE * int(h.chrSize)
	c.chr = make([]byte, s)
	if s > 0 {
		if n, err := rf.Read(c.chr); n != s || err != nil {
			return nil, fmt.Errorf("reading CHR ROM of %q (got %d, want %d): %w", path, n, s, ErrIOError)
		}
	}

	m, err := mappers.New(h.mapperNum(), h.prgSize, h.chrSize)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %v", path, ErrUnsupportedMapper, err)
	}
	c.mapper = m

	return c, nil
}

func (c *Cartridge) String() string {
	return fmt.Sprintf("%s, prg=%d bytes, chr=%d bytes", c.h, len(c.prg), len(c.chr))
}

// CPURead satisfies a CPU-side bus access, returning the value and
// whether the cartridge claimed the address at all.
func (c *Cartridge) CPURead(addr uint16) (uint8, bool) {
	hit, mapped := c.mapper.CPUMapRead(addr)
	if !hit {
		return 0, false
	}
	return c.prg[mapped], true
}

// CPUWrite satisfies a CPU-side bus write, returning whether the
// cartridge claimed the address.
func (c *Cartridge) CPUWrite(addr uint16, val uint8) bool {
	hit, mapped := c.mapper.CPUMapWrite(addr)
	if !hit {
		return false
	}
	c.prg[mapped] = val
	return true
}

// PPURead satisfies a PPU-side bus access into CHR data.
func (c *Cartridge) PPURead(addr uint16) (uint8, bool) {
	hit, mapped := c.mapper.PPUMapRead(addr)
	if !hit {
		return 0, false
	}
	return c.chr[mapped], true
}

// PPUWrite satisfies a PPU-side bus write into CHR data (always a miss
// for Mapper 0, since CHR is ROM).
func (c *Cartridge) PPUWrite(addr uint16, val uint8) bool {
	hit, mapped := c.mapper.PPUMapWrite(addr)
	if !hit {
		return false
	}
	c.chr[mapped] = val
	return true
}

func (c *Cartridge) MapperNum() uint16      { return c.h.mapperNum() }
func (c *Cartridge) MirroringMode() uint8   { return c.h.mirroringMode() }
func (c *Cartridge) NumPrgBlocks() uint8    { return c.h.prgSize }
func (c *Cartridge) HasSaveRAM() bool       { return c.h.hasPrgRAM() }

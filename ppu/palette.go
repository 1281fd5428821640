package ppu

// palette_lut is the 64-entry NES master palette, ARGB with full
// opacity. Entries 0x0D/0x0E/0x0F/0x1D/0x1E/0x1F/0x2E/0x2F/0x3E/0x3F
// are pure black, matching the published NESTOPIA/blargg table.
var palette_lut = [64]uint32{
	argb(0x80, 0x80, 0x80), argb(0x00, 0x3D, 0xA6), argb(0x00, 0x12, 0xB0), argb(0x44, 0x00, 0x96),
	argb(0xA1, 0x00, 0x5E), argb(0xC7, 0x00, 0x28), argb(0xBA, 0x06, 0x00), argb(0x8C, 0x17, 0x00),
	argb(0x5C, 0x2F, 0x00), argb(0x10, 0x45, 0x00), argb(0x05, 0x4A, 0x00), argb(0x00, 0x47, 0x2E),
	argb(0x00, 0x41, 0x66), argb(0x00, 0x00, 0x00), argb(0x00, 0x00, 0x00), argb(0x00, 0x00, 0x00),

	argb(0xC7, 0xC7, 0xC7), argb(0x00, 0x77, 0xFF), argb(0x21, 0x55, 0xFF), argb(0x82, 0x37, 0xFA),
	argb(0xEB, 0x2F, 0xB5), argb(0xFF, 0x29, 0x50), argb(0xFF, 0x22, 0x00), argb(0xD6, 0x32, 0x00),
	argb(0xC4, 0x62, 0x00), argb(0x35, 0x80, 0x00), argb(0x05, 0x8F, 0x00), argb(0x00, 0x8A, 0x55),
	argb(0x00, 0x99, 0xCC), argb(0x00, 0x00, 0x00), argb(0x00, 0x00, 0x00), argb(0x00, 0x00, 0x00),

	argb(0xFF, 0xFF, 0xFF), argb(0x0F, 0xD7, 0xFF), argb(0x69, 0xA2, 0xFF), argb(0xD4, 0x80, 0xFF),
	argb(0xFF, 0x45, 0xF3), argb(0xFF, 0x61, 0x8B), argb(0xFF, 0x88, 0x33), argb(0xFF, 0x9C, 0x12),
	argb(0xFA, 0xBC, 0x20), argb(0x9F, 0xE3, 0x0E), argb(0x2B, 0xF0, 0x35), argb(0x0C, 0xF0, 0xA4),
	argb(0x05, 0xFB, 0xFF), argb(0x5E, 0x5E, 0x5E), argb(0x00, 0x00, 0x00), argb(0x00, 0x00, 0x00),

	argb(0xFF, 0xFF, 0xFF), argb(0xA6, 0xFC, 0xFF), argb(0xB3, 0xEC, 0xFF), argb(0xDA, 0xAB, 0xEB),
	argb(0xFF, 0xA8, 0xF9), argb(0xFF, 0xAB, 0xB3), argb(0xFF, 0xD2, 0xB0), argb(0xFF, 0xEF, 0xA6),
	argb(0xFF, 0xF7, 0x9C), argb(0xD7, 0xE8, 0x95), argb(0xA6, 0xED, 0xAF), argb(0xA2, 0xF2, 0xDA),
	argb(0x99, 0xFF, 0xFC), argb(0xDD, 0xDD, 0xDD), argb(0x00, 0x00, 0x00), argb(0x00, 0x00, 0x00),
}

func argb(r, g, b uint8) uint32 {
	return 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

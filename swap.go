package pcapfile

// Byte-order transforms. Whether to apply them is decided exactly once per
// handle, at Init or header verification, and cached; the codecs never
// re-detect byte order mid-stream. Every transform returns a copy and
// leaves its input untouched.

// swap8 keeps the width set closed alongside its 16- and 32-bit siblings.
func swap8(v uint8) uint8 { return v }

func swap16(v uint16) uint16 {
	return v<<8 | v>>8
}

func swap32(v uint32) uint32 {
	return v<<24 | (v&0x0000ff00)<<8 | (v>>8)&0x0000ff00 | v>>24
}

// swapped returns a copy of the file header with every multi-byte field
// byte-reversed. Reversing the magic maps each recognized variant onto its
// opposite-order spelling.
func (h fileHeader) swapped() fileHeader {
	return fileHeader{
		magic:        swap32(h.magic),
		versionMajor: swap16(h.versionMajor),
		versionMinor: swap16(h.versionMinor),
		zone:         int32(swap32(uint32(h.zone))),
		sigFigs:      swap32(h.sigFigs),
		snapLen:      swap32(h.snapLen),
		linkType:     swap32(h.linkType),
	}
}

// swapped returns a copy of the record header with all four fields
// byte-reversed.
func (r Record) swapped() Record {
	return Record{
		TsSec:   swap32(r.TsSec),
		TsUsec:  swap32(r.TsUsec),
		InclLen: swap32(r.InclLen),
		OrigLen: swap32(r.OrigLen),
	}
}

package pcapfile

import (
	"encoding/binary"
	"io"

	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/pkg/errors"
)

// Recognized magic values. The a1b2c3d4 pair marks microsecond timestamp
// fractions, the a1b23c4d pair nanoseconds. A byte-reversed spelling means
// every multi-byte field in the file is stored in the opposite byte order
// from the fixed decode order.
const (
	magicMicro        uint32 = 0xa1b2c3d4
	magicMicroSwapped uint32 = 0xd4c3b2a1
	magicNano         uint32 = 0xa1b23c4d
	magicNanoSwapped  uint32 = 0x4d3cb2a1
)

const (
	versionMajor uint16 = 2
	versionMinor uint16 = 4

	fileHeaderLen   = 24
	recordHeaderLen = 16
)

// Defaults for Init.
const (
	SnapLenDefault uint32 = 65535
	ZoneDefault    int32  = 0
)

// fileHeader is the 24-byte header at the start of every capture file.
// The handle caches it in unswapped form once written or verified.
type fileHeader struct {
	magic        uint32
	versionMajor uint16
	versionMinor uint16
	zone         int32
	sigFigs      uint32
	snapLen      uint32
	linkType     uint32
}

func (h fileHeader) marshal() []byte {
	buf := make([]byte, fileHeaderLen)
	binary.LittleEndian.PutUint32(buf[0:4], h.magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.versionMajor)
	binary.LittleEndian.PutUint16(buf[6:8], h.versionMinor)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.zone))
	binary.LittleEndian.PutUint32(buf[12:16], h.sigFigs)
	binary.LittleEndian.PutUint32(buf[16:20], h.snapLen)
	binary.LittleEndian.PutUint32(buf[20:24], h.linkType)
	return buf
}

func unmarshalFileHeader(buf []byte) fileHeader {
	return fileHeader{
		magic:        binary.LittleEndian.Uint32(buf[0:4]),
		versionMajor: binary.LittleEndian.Uint16(buf[4:6]),
		versionMinor: binary.LittleEndian.Uint16(buf[6:8]),
		zone:         int32(binary.LittleEndian.Uint32(buf[8:12])),
		sigFigs:      binary.LittleEndian.Uint32(buf[12:16]),
		snapLen:      binary.LittleEndian.Uint32(buf[16:20]),
		linkType:     binary.LittleEndian.Uint32(buf[20:24]),
	}
}

// Init writes the file header for a freshly created file and must be called
// before the first Write. Only valid on a handle opened "w" or "w+" that has
// not been initialized yet. snapLen caps the payload bytes stored per record;
// packets longer than that are truncated on Write. swapMode stores the file
// in the opposite byte order, swapped magic included.
//
// Calling Init through a "w"/"w+" open on an existing capture file has
// already truncated it; any previous contents are gone.
func (f *File) Init(dataLinkType, snapLen uint32, timeZoneCorrection int32, swapMode bool) error {
	if f.file == nil {
		return gerror.New("file not open")
	}
	if f.haveHeader {
		return gerror.Newf("%s already has a file header", f.filename)
	}

	pos, err := f.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrapf(err, "tell %s", f.filename)
	}
	if pos != 0 {
		return gerror.Newf("%s: file header must be written at offset 0, not %d", f.filename, pos)
	}

	hdr := fileHeader{
		magic:        magicMicro,
		versionMajor: versionMajor,
		versionMinor: versionMinor,
		zone:         timeZoneCorrection,
		sigFigs:      0,
		snapLen:      snapLen,
		linkType:     dataLinkType,
	}

	out := hdr
	if swapMode {
		out = hdr.swapped()
	}

	if _, err := f.file.Write(out.marshal()); err != nil {
		return errors.Wrapf(err, "write file header to %s", f.filename)
	}

	f.header = hdr
	f.haveHeader = true
	f.swapped = swapMode
	f.nano = false
	return nil
}

// readAndVerifyFileHeader reads the 24-byte header at the current position,
// checks the magic against the four recognized variants and caches the swap
// and nanosecond flags on the handle for the rest of its lifetime.
func (f *File) readAndVerifyFileHeader() error {
	buf := make([]byte, fileHeaderLen)
	if _, err := io.ReadFull(f.file, buf); err != nil {
		return gerror.Wrapf(ErrHeaderMismatch, "%s: short file header (%v)", f.filename, err)
	}

	hdr := unmarshalFileHeader(buf)

	switch hdr.magic {
	case magicMicro:
		f.swapped, f.nano = false, false
	case magicNano:
		f.swapped, f.nano = false, true
	case magicMicroSwapped:
		f.swapped, f.nano = true, false
		hdr = hdr.swapped()
	case magicNanoSwapped:
		f.swapped, f.nano = true, true
		hdr = hdr.swapped()
	default:
		return gerror.Wrapf(ErrHeaderMismatch, "%s: magic 0x%08x", f.filename, hdr.magic)
	}

	if hdr.versionMajor != versionMajor || hdr.versionMinor != versionMinor {
		return gerror.Wrapf(ErrHeaderMismatch, "%s: version %d.%d, want %d.%d",
			f.filename, hdr.versionMajor, hdr.versionMinor, versionMajor, versionMinor)
	}

	f.header = hdr
	f.haveHeader = true
	return nil
}

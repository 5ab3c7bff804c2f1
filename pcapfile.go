// Package pcapfile reads and writes packet capture files in the classic
// libpcap format: a 24-byte file header followed by 16-byte record headers,
// each carrying an opaque payload. Files produced here open cleanly in the
// usual capture-analysis tools, and files produced elsewhere are readable
// regardless of the byte order of the machine that wrote them.
package pcapfile

import (
	"io"
	"os"

	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/pkg/errors"
)

// Sentinel error kinds, matchable with errors.Is after any wrapping the
// package applies.
var (
	// ErrHeaderMismatch reports a file whose magic or version is not a
	// recognized pcap variant.
	ErrHeaderMismatch = gerror.New("unrecognized pcap file header")

	// ErrTruncatedRecord reports a file that ends in the middle of a
	// record header or payload.
	ErrTruncatedRecord = gerror.New("truncated pcap record")
)

// File is a handle on one capture file. A handle owns its underlying OS
// file exclusively and is not safe for use from more than one goroutine.
type File struct {
	filename   string
	file       *os.File
	header     fileHeader
	haveHeader bool
	swapped    bool
	nano       bool
}

// Open opens or creates the capture file at filename. Mode follows fopen
// spelling but with capture semantics: positions are record positions, and
// the modes that take an existing file insist on a valid pcap header.
//
//	"r"   existing file, header verified, positioned at the first record
//	"w"   create or truncate, no header until Init, positioned at zero
//	"a"   existing file with valid header, positioned at the end
//	"r+"  existing file, header verified, positioned at the first record
//	"w+"  create or truncate, no header until Init, positioned at zero
//	"a+"  existing file with valid header, positioned at the end
//
// Capture files are always binary, so a "b" in the mode string is accepted
// and ignored. On failure no handle is left open.
func Open(filename, mode string) (*File, error) {
	m, err := parseMode(mode)
	if err != nil {
		return nil, err
	}

	facts := m.facts()

	osFile, err := os.OpenFile(filename, facts.osFlags, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}

	f := &File{filename: filename, file: osFile}

	if facts.wantHeader {
		if err := f.readAndVerifyFileHeader(); err != nil {
			f.Close()
			return nil, err
		}
	}

	if facts.seekEnd {
		if _, err := osFile.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "seek to end of %s", filename)
		}
	}

	return f, nil
}

// Close releases the underlying file. Calling it again, or on a handle
// that was never opened, is a no-op.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// SwapMode reports whether this file stores multi-byte fields in the
// opposite byte order from the fixed on-wire decode order, decided once
// when the header was written or verified.
func (f *File) SwapMode() bool { return f.swapped }

// NanoSecond reports whether record timestamp fractions are nanoseconds
// rather than microseconds, per the file's magic variant.
func (f *File) NanoSecond() bool { return f.nano }

// Magic returns the header magic, normalized to its unswapped spelling.
func (f *File) Magic() uint32 { return f.header.magic }

func (f *File) VersionMajor() uint16 { return f.header.versionMajor }

func (f *File) VersionMinor() uint16 { return f.header.versionMinor }

// TimeZoneOffset returns the header's GMT-to-local correction in seconds.
func (f *File) TimeZoneOffset() int32 { return f.header.zone }

func (f *File) SigFigs() uint32 { return f.header.sigFigs }

// SnapLen returns the maximum payload bytes stored per record.
func (f *File) SnapLen() uint32 { return f.header.snapLen }

// DataLinkType returns the link-layer type recorded in the header.
func (f *File) DataLinkType() uint32 { return f.header.linkType }

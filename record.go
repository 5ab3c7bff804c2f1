package pcapfile

import (
	"encoding/binary"
	"io"

	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/google/gopacket"
	"github.com/pkg/errors"
)

// Record is the 16-byte header stored in front of every packet payload.
type Record struct {
	TsSec   uint32 // timestamp, seconds
	TsUsec  uint32 // timestamp fraction, micro- or nanoseconds per the file magic
	InclLen uint32 // payload bytes stored in the file
	OrigLen uint32 // packet length before any truncation
}

func (r Record) marshal() []byte {
	buf := make([]byte, recordHeaderLen)
	binary.LittleEndian.PutUint32(buf[0:4], r.TsSec)
	binary.LittleEndian.PutUint32(buf[4:8], r.TsUsec)
	binary.LittleEndian.PutUint32(buf[8:12], r.InclLen)
	binary.LittleEndian.PutUint32(buf[12:16], r.OrigLen)
	return buf
}

func unmarshalRecord(buf []byte) Record {
	return Record{
		TsSec:   binary.LittleEndian.Uint32(buf[0:4]),
		TsUsec:  binary.LittleEndian.Uint32(buf[4:8]),
		InclLen: binary.LittleEndian.Uint32(buf[8:12]),
		OrigLen: binary.LittleEndian.Uint32(buf[12:16]),
	}
}

// Write appends one record at the current position. totalLen is the true
// packet length; if it exceeds the snapshot length from Init, only the first
// snapLen bytes of data are stored and the record still carries totalLen as
// its original length, so readers can detect the truncation. That truncation
// is silent here.
func (f *File) Write(tsSec, tsUsec uint32, data []byte, totalLen uint32) error {
	if f.file == nil {
		return gerror.New("file not open")
	}
	if !f.haveHeader {
		return gerror.Newf("%s has no file header yet, call Init first", f.filename)
	}

	inclLen := totalLen
	if inclLen > f.header.snapLen {
		inclLen = f.header.snapLen
	}
	if uint32(len(data)) < inclLen {
		return gerror.Newf("%s: payload holds %d bytes, record needs %d",
			f.filename, len(data), inclLen)
	}

	rec := Record{TsSec: tsSec, TsUsec: tsUsec, InclLen: inclLen, OrigLen: totalLen}
	if f.swapped {
		rec = rec.swapped()
	}

	if _, err := f.file.Write(rec.marshal()); err != nil {
		return errors.Wrapf(err, "write record header to %s", f.filename)
	}
	if _, err := f.file.Write(data[:inclLen]); err != nil {
		return errors.Wrapf(err, "write %d payload bytes to %s", inclLen, f.filename)
	}
	return nil
}

// WritePacket writes one record from gopacket capture metadata, mapping the
// timestamp onto the file's resolution and ci.Length onto the original
// packet length.
func (f *File) WritePacket(ci gopacket.CaptureInfo, data []byte) error {
	frac := uint32(ci.Timestamp.Nanosecond())
	if !f.nano {
		frac /= 1000
	}
	return f.Write(uint32(ci.Timestamp.Unix()), frac, data, uint32(ci.Length))
}

// Read reads the next record into buf. The returned Record carries the
// stored header fields after any byte-order fix-up; readLen is how many
// payload bytes were copied into buf. When the record holds more payload
// than buf, the first len(buf) bytes are copied, the rest is skipped so the
// handle stays aligned on the next record, and InclLen > readLen lets the
// caller notice — size buf from SnapLen to avoid it.
//
// A clean end of file before the next record header is io.EOF. Running out
// of bytes inside a header or payload is an ErrTruncatedRecord.
func (f *File) Read(buf []byte) (Record, uint32, error) {
	var rec Record

	if f.file == nil {
		return rec, 0, gerror.New("file not open")
	}
	if !f.haveHeader {
		return rec, 0, gerror.Newf("%s has no file header", f.filename)
	}

	hdrBuf := make([]byte, recordHeaderLen)
	n, err := io.ReadFull(f.file, hdrBuf)
	if err == io.EOF {
		return rec, 0, io.EOF
	}
	if err != nil {
		return rec, 0, gerror.Wrapf(ErrTruncatedRecord,
			"%s: %d of %d record header bytes", f.filename, n, recordHeaderLen)
	}

	rec = unmarshalRecord(hdrBuf)
	if f.swapped {
		rec = rec.swapped()
	}

	toCopy := rec.InclLen
	if max := uint32(len(buf)); toCopy > max {
		toCopy = max
	}

	if _, err := io.ReadFull(f.file, buf[:toCopy]); err != nil {
		return rec, 0, gerror.Wrapf(ErrTruncatedRecord,
			"%s: record declares %d payload bytes", f.filename, rec.InclLen)
	}

	// discard rather than seek so a file that ends inside the skipped
	// tail still reports truncation
	if skip := rec.InclLen - toCopy; skip > 0 {
		if _, err := io.CopyN(io.Discard, f.file, int64(skip)); err != nil {
			return rec, toCopy, gerror.Wrapf(ErrTruncatedRecord,
				"%s: record declares %d payload bytes", f.filename, rec.InclLen)
		}
	}

	return rec, toCopy, nil
}

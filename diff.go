package pcapfile

import (
	"bytes"
	"io"

	"github.com/gogf/gf/v2/os/glog"
)

var log = glog.New()

// Diff compares two capture files record by record and reports whether they
// differ. Records are read in lockstep with snapLen-sized buffers (pass
// SnapLenDefault, or 0 for the same); the files differ the first moment one
// has more records than the other, or a record's timestamp, included or
// original length, or payload bytes up to snapLen disagree. sec and usec
// carry the timestamp of the first differing record and mean nothing when
// the files are identical.
//
// Both files are opened read-only and closed on every path; neither is
// modified.
func Diff(filename1, filename2 string, snapLen uint32) (differs bool, sec, usec uint32, err error) {
	f1, err := Open(filename1, "r")
	if err != nil {
		return false, 0, 0, err
	}
	defer f1.Close()

	f2, err := Open(filename2, "r")
	if err != nil {
		return false, 0, 0, err
	}
	defer f2.Close()

	if snapLen == 0 {
		snapLen = SnapLenDefault
	}
	buf1 := make([]byte, snapLen)
	buf2 := make([]byte, snapLen)

	for {
		rec1, n1, err1 := f1.Read(buf1)
		rec2, n2, err2 := f2.Read(buf2)

		if err1 == io.EOF && err2 == io.EOF {
			return false, 0, 0, nil
		}
		if err1 == io.EOF || err2 == io.EOF {
			rec := rec1
			if err1 == io.EOF {
				rec = rec2
			}
			log.Debugf(nil, "%s and %s differ in record count", filename1, filename2)
			return true, rec.TsSec, rec.TsUsec, nil
		}
		if err1 != nil {
			return false, 0, 0, err1
		}
		if err2 != nil {
			return false, 0, 0, err2
		}

		if rec1.TsSec != rec2.TsSec || rec1.TsUsec != rec2.TsUsec ||
			rec1.InclLen != rec2.InclLen || rec1.OrigLen != rec2.OrigLen ||
			n1 != n2 || !bytes.Equal(buf1[:n1], buf2[:n2]) {
			log.Debugf(nil, "%s and %s differ at %d.%06d",
				filename1, filename2, rec1.TsSec, rec1.TsUsec)
			return true, rec1.TsSec, rec1.TsUsec, nil
		}
	}
}

package pcapfile

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestInitHeaderBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdr.pcap")

	f, err := Open(path, "w")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Init(1, 2048, -8*3600, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	f.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 24 {
		t.Fatalf("file header length = %d, want 24", len(b))
	}

	if magic := binary.LittleEndian.Uint32(b[0:4]); magic != 0xa1b2c3d4 {
		t.Errorf("magic = 0x%08x, want 0xa1b2c3d4", magic)
	}
	if major := binary.LittleEndian.Uint16(b[4:6]); major != 2 {
		t.Errorf("version major = %d, want 2", major)
	}
	if minor := binary.LittleEndian.Uint16(b[6:8]); minor != 4 {
		t.Errorf("version minor = %d, want 4", minor)
	}
	if zone := int32(binary.LittleEndian.Uint32(b[8:12])); zone != -8*3600 {
		t.Errorf("zone = %d, want %d", zone, -8*3600)
	}
	if sigFigs := binary.LittleEndian.Uint32(b[12:16]); sigFigs != 0 {
		t.Errorf("sigfigs = %d, want 0", sigFigs)
	}
	if snap := binary.LittleEndian.Uint32(b[16:20]); snap != 2048 {
		t.Errorf("snaplen = %d, want 2048", snap)
	}
	if link := binary.LittleEndian.Uint32(b[20:24]); link != 1 {
		t.Errorf("link type = %d, want 1", link)
	}
}

func TestSwapModeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swapped.pcap")

	f, err := Open(path, "w")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Init(127, 4096, 3600, true); err != nil {
		t.Fatalf("init: %v", err)
	}
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	if err := f.Write(100, 200, payload, 4); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	// on disk the magic must read as the opposite-order spelling
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if magic := binary.LittleEndian.Uint32(b[0:4]); magic != 0xd4c3b2a1 {
		t.Fatalf("on-disk magic = 0x%08x, want 0xd4c3b2a1", magic)
	}

	r, err := Open(path, "r")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r.Close()

	if !r.SwapMode() {
		t.Error("swap mode not detected on reread")
	}
	if r.NanoSecond() {
		t.Error("nanosecond flag set for a microsecond file")
	}
	if got := r.Magic(); got != 0xa1b2c3d4 {
		t.Errorf("magic accessor = 0x%08x, want normalized 0xa1b2c3d4", got)
	}
	if r.VersionMajor() != 2 || r.VersionMinor() != 4 {
		t.Errorf("version = %d.%d, want 2.4", r.VersionMajor(), r.VersionMinor())
	}
	if got := r.DataLinkType(); got != 127 {
		t.Errorf("link type = %d, want 127", got)
	}
	if got := r.SnapLen(); got != 4096 {
		t.Errorf("snaplen = %d, want 4096", got)
	}
	if got := r.TimeZoneOffset(); got != 3600 {
		t.Errorf("zone = %d, want 3600", got)
	}

	buf := make([]byte, r.SnapLen())
	rec, n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec.TsSec != 100 || rec.TsUsec != 200 || rec.InclLen != 4 || rec.OrigLen != 4 {
		t.Errorf("record = %+v, want {100 200 4 4}", rec)
	}
	if n != 4 || string(buf[:4]) != string(payload) {
		t.Errorf("payload = %x, want %x", buf[:n], payload)
	}
}

func TestNanoMagicRecognized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nano.pcap")

	hdr := make([]byte, 24)
	binary.LittleEndian.PutUint32(hdr[0:4], 0xa1b23c4d)
	binary.LittleEndian.PutUint16(hdr[4:6], 2)
	binary.LittleEndian.PutUint16(hdr[6:8], 4)
	binary.LittleEndian.PutUint32(hdr[16:20], SnapLenDefault)
	binary.LittleEndian.PutUint32(hdr[20:24], 1)
	if err := os.WriteFile(path, hdr, 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path, "r")
	if err != nil {
		t.Fatalf("open nanosecond file: %v", err)
	}
	defer f.Close()

	if !f.NanoSecond() {
		t.Error("nanosecond flag not set")
	}
	if f.SwapMode() {
		t.Error("swap mode set for host-order file")
	}
	if got := f.Magic(); got != 0xa1b23c4d {
		t.Errorf("magic = 0x%08x, want 0xa1b23c4d", got)
	}
}

func TestBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pcap")

	hdr := make([]byte, 24)
	binary.LittleEndian.PutUint32(hdr[0:4], 0xdeadbeef)
	if err := os.WriteFile(path, hdr, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path, "r")
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("error = %v, want header mismatch", err)
	}
}

func TestBadVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ver.pcap")

	hdr := make([]byte, 24)
	binary.LittleEndian.PutUint32(hdr[0:4], 0xa1b2c3d4)
	binary.LittleEndian.PutUint16(hdr[4:6], 3)
	binary.LittleEndian.PutUint16(hdr[6:8], 0)
	if err := os.WriteFile(path, hdr, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path, "r")
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("error = %v, want header mismatch", err)
	}
}

func TestInitTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.pcap")

	f, err := Open(path, "w")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := f.Init(1, SnapLenDefault, ZoneDefault, false); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := f.Init(1, SnapLenDefault, ZoneDefault, false); err == nil {
		t.Fatal("second init succeeded")
	}
}

func TestInitOnReadHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.pcap")
	newCapture(t, path, SnapLenDefault, []byte{1})

	f, err := Open(path, "r")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := f.Init(1, SnapLenDefault, ZoneDefault, false); err == nil {
		t.Fatal("init on a handle with a verified header succeeded")
	}
}

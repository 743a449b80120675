package flat

import (
	"path/filepath"
	"testing"

	"github.com/sitivezD99/CofI-Functions/internal/ccd"
)

// writeRawFlat writes a synthetic raw flat: a bright data section
// inside an overscan border, with EXPTIME and DATASEC header cards.
func writeRawFlat(t *testing.T, path string, nx, ny int, value, exptime float64, datasec string) {
	t.Helper()
	f := ccd.NewFrame(nx, ny)
	for i := range f.Data {
		f.Data[i] = value
	}
	f.Header.Set("EXPTIME", exptime, "exposure time (s)")
	if datasec != "" {
		f.Header.Set("DATASEC", datasec, "data section")
	}
	if err := ccd.WriteFrame(path, f); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestProcFull(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat1.fits")
	writeRawFlat(t, path, 6, 4, 100, 3, "[2:5,1:4]")

	opts := DefaultOptions()
	opts.Bias = constFrame(6, 4, 10)
	opts.Dark = constFrame(6, 4, 2) // counts/sec

	out, err := Proc(path, opts)
	if err != nil {
		t.Fatalf("Proc: %v", err)
	}
	// 100 - 10 (bias) - 2*3 (dark x exptime) = 84, then trimmed
	if out.NX != 4 || out.NY != 4 {
		t.Fatalf("trimmed shape %dx%d, want 4x4", out.NX, out.NY)
	}
	for i, v := range out.Data {
		if v != 84 {
			t.Fatalf("pixel %d: got %v want 84", i, v)
		}
	}
}

func TestProcNoCalibrators(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat1.fits")
	writeRawFlat(t, path, 4, 4, 50, 1, "")

	opts := DefaultOptions()
	opts.Trim = false

	out, err := Proc(path, opts)
	if err != nil {
		t.Fatalf("Proc: %v", err)
	}
	if out.Data[0] != 50 {
		t.Fatalf("got %v want untouched 50", out.Data[0])
	}
}

func TestProcMissingDatasec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat1.fits")
	writeRawFlat(t, path, 4, 4, 50, 1, "")

	opts := DefaultOptions() // Trim on, but no DATASEC card
	if _, err := Proc(path, opts); err == nil {
		t.Fatal("expected error when DATASEC is missing")
	}
}

func TestProcMissingExptimeForDark(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat1.fits")

	f := ccd.NewFrame(4, 4)
	if err := ccd.WriteFrame(path, f); err != nil {
		t.Fatalf("write: %v", err)
	}

	opts := DefaultOptions()
	opts.Trim = false
	opts.Dark = constFrame(4, 4, 1)
	if _, err := Proc(path, opts); err == nil {
		t.Fatal("expected error when EXPTIME is missing for dark scaling")
	}
}

func TestProcCustomKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat1.fits")

	f := ccd.NewFrame(4, 2)
	for i := range f.Data {
		f.Data[i] = 30
	}
	f.Header.Set("EXPOSURE", 2.0, "")
	f.Header.Set("TRIMSEC", "[1:2,1:2]", "")
	if err := ccd.WriteFrame(path, f); err != nil {
		t.Fatalf("write: %v", err)
	}

	opts := DefaultOptions()
	opts.ExptimeKey = "EXPOSURE"
	opts.DatasecKey = "TRIMSEC"
	opts.Dark = constFrame(4, 2, 5)

	out, err := Proc(path, opts)
	if err != nil {
		t.Fatalf("Proc: %v", err)
	}
	if out.NX != 2 || out.NY != 2 {
		t.Fatalf("trimmed shape %dx%d", out.NX, out.NY)
	}
	// 30 - 5*2 = 20
	if out.Data[0] != 20 {
		t.Fatalf("got %v want 20", out.Data[0])
	}
}

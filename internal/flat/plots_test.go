package flat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveDiagnostics(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")

	span := Span{Start: 1, End: 6}
	res := &Result{
		Illum:    &span,
		Profile:  []float64{0.2, 16, 16, 16, 16, 16, 16, 0.2},
		Response: []float64{0.9, 0.95, 1.0, 1.05, 1.1},
	}

	n, err := SaveDiagnostics(dir, res, 0.9)
	if err != nil {
		t.Fatalf("SaveDiagnostics: %v", err)
	}
	if n != 2 {
		t.Fatalf("wrote %d plots, want 2", n)
	}
	for _, name := range []string{"illum_profile.png", "response.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing plot %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("plot %s is empty", name)
		}
	}
}

func TestSaveDiagnosticsNothingToPlot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	n, err := SaveDiagnostics(dir, &Result{}, 0.9)
	if err != nil {
		t.Fatalf("SaveDiagnostics: %v", err)
	}
	if n != 0 {
		t.Fatalf("wrote %d plots, want 0", n)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sitivezD99/CofI-Functions/internal/flat"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := &ReductionConfig{}
	if !cfg.GetTrim() || !cfg.GetNormFrame() || !cfg.GetIllumCor() || !cfg.GetResponseCor() {
		t.Fatal("reduction steps should default to on")
	}
	if cfg.GetSmooth() {
		t.Fatal("smoothing should default to off")
	}
	if cfg.GetThreshold() != 0.9 {
		t.Fatalf("threshold default %v", cfg.GetThreshold())
	}
	if cfg.GetNPix() != 11 {
		t.Fatalf("npix default %v", cfg.GetNPix())
	}
	if cfg.GetSaxis() != flat.AxisRows {
		t.Fatalf("saxis default %v", cfg.GetSaxis())
	}
	if cfg.GetExptimeKeyword() != "EXPTIME" || cfg.GetDatasecKeyword() != "DATASEC" {
		t.Fatal("keyword defaults wrong")
	}
	if cfg.GetInstrument() != "KOSMOS" {
		t.Fatalf("instrument default %q", cfg.GetInstrument())
	}
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, "partial.json", `{"threshold": 0.8, "smooth": true}`)

	cfg, err := LoadReductionConfig(path)
	if err != nil {
		t.Fatalf("LoadReductionConfig: %v", err)
	}
	if cfg.GetThreshold() != 0.8 {
		t.Fatalf("threshold %v", cfg.GetThreshold())
	}
	if !cfg.GetSmooth() {
		t.Fatal("smooth should be on")
	}
	// omitted fields keep their defaults
	if cfg.GetNPix() != 11 {
		t.Fatalf("npix %v", cfg.GetNPix())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadReductionConfig("config.yaml"); err == nil {
		t.Fatal("expected extension error")
	}
	if _, err := LoadReductionConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected stat error")
	}

	bad := writeConfig(t, "bad.json", `{"threshold": `)
	if _, err := LoadReductionConfig(bad); err == nil {
		t.Fatal("expected parse error")
	}

	invalid := writeConfig(t, "invalid.json", `{"threshold": 1.5}`)
	if _, err := LoadReductionConfig(invalid); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate(t *testing.T) {
	bad := -1
	cfg := &ReductionConfig{NPix: &bad}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected npix validation error")
	}

	axis := 2
	cfg = &ReductionConfig{Saxis: &axis}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected saxis validation error")
	}
}

func TestOptionsConversion(t *testing.T) {
	saxis := flat.AxisCols
	threshold := 0.75
	cfg := &ReductionConfig{Saxis: &saxis, Threshold: &threshold}

	opts := cfg.Options()
	if opts.Saxis != flat.AxisCols || opts.Waxis != flat.AxisRows {
		t.Fatalf("axis swap: saxis=%d waxis=%d", opts.Saxis, opts.Waxis)
	}
	if opts.Threshold != 0.75 {
		t.Fatalf("threshold %v", opts.Threshold)
	}
	if opts.ExptimeKey != "EXPTIME" {
		t.Fatalf("exptime key %q", opts.ExptimeKey)
	}
}

func TestDefaultsFileMatchesBuiltins(t *testing.T) {
	// the canonical defaults file must agree with the built-in
	// defaults so partial user configs behave predictably
	cfg, err := LoadReductionConfig(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Skipf("defaults file not found from test dir: %v", err)
	}
	if cfg.GetThreshold() != 0.9 || cfg.GetNPix() != 11 || cfg.GetSmooth() {
		t.Fatal("defaults file disagrees with built-in defaults")
	}
}

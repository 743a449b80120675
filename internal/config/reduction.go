package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sitivezD99/CofI-Functions/internal/flat"
)

// DefaultConfigPath is the path to the canonical reduction defaults
// file. This is the single source of truth for default tuning values.
const DefaultConfigPath = "config/reduction.defaults.json"

// ReductionConfig holds the tunable parameters of the flat-combine
// pipeline. Fields are pointers so partial config files are safe: any
// field omitted from the JSON keeps its built-in default via the Get*
// accessors.
type ReductionConfig struct {
	Trim        *bool    `json:"trim,omitempty"`
	NormFrame   *bool    `json:"norm_frame,omitempty"`
	IllumCor    *bool    `json:"illum_cor,omitempty"`
	Threshold   *float64 `json:"threshold,omitempty"`
	ResponseCor *bool    `json:"response_cor,omitempty"`
	Smooth      *bool    `json:"smooth,omitempty"`
	NPix        *int     `json:"npix,omitempty"`
	Saxis       *int     `json:"saxis,omitempty"`

	// Header keyword names
	ExptimeKeyword *string `json:"exptime_keyword,omitempty"`
	DatasecKeyword *string `json:"datasec_keyword,omitempty"`

	// Instrument label recorded with each master flat
	Instrument *string `json:"instrument,omitempty"`
}

// LoadReductionConfig loads a ReductionConfig from a JSON file. The
// file must have a .json extension and stay under the max file size.
func LoadReductionConfig(path string) (*ReductionConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &ReductionConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *ReductionConfig) Validate() error {
	if c.Threshold != nil {
		if *c.Threshold <= 0 || *c.Threshold > 1 {
			return fmt.Errorf("threshold must be in (0, 1], got %f", *c.Threshold)
		}
	}
	if c.NPix != nil && *c.NPix < 1 {
		return fmt.Errorf("npix must be positive, got %d", *c.NPix)
	}
	if c.Saxis != nil && *c.Saxis != 0 && *c.Saxis != 1 {
		return fmt.Errorf("saxis must be 0 or 1, got %d", *c.Saxis)
	}
	return nil
}

// GetTrim returns the trim value or the default.
func (c *ReductionConfig) GetTrim() bool {
	if c.Trim == nil {
		return true
	}
	return *c.Trim
}

// GetNormFrame returns the norm_frame value or the default.
func (c *ReductionConfig) GetNormFrame() bool {
	if c.NormFrame == nil {
		return true
	}
	return *c.NormFrame
}

// GetIllumCor returns the illum_cor value or the default.
func (c *ReductionConfig) GetIllumCor() bool {
	if c.IllumCor == nil {
		return true
	}
	return *c.IllumCor
}

// GetThreshold returns the threshold value or the default.
func (c *ReductionConfig) GetThreshold() float64 {
	if c.Threshold == nil {
		return 0.9
	}
	return *c.Threshold
}

// GetResponseCor returns the response_cor value or the default.
func (c *ReductionConfig) GetResponseCor() bool {
	if c.ResponseCor == nil {
		return true
	}
	return *c.ResponseCor
}

// GetSmooth returns the smooth value or the default.
func (c *ReductionConfig) GetSmooth() bool {
	if c.Smooth == nil {
		return false
	}
	return *c.Smooth
}

// GetNPix returns the npix value or the default.
func (c *ReductionConfig) GetNPix() int {
	if c.NPix == nil {
		return 11
	}
	return *c.NPix
}

// GetSaxis returns the saxis value or the default.
func (c *ReductionConfig) GetSaxis() int {
	if c.Saxis == nil {
		return flat.AxisRows
	}
	return *c.Saxis
}

// GetExptimeKeyword returns the exptime_keyword value or the default.
func (c *ReductionConfig) GetExptimeKeyword() string {
	if c.ExptimeKeyword == nil || *c.ExptimeKeyword == "" {
		return "EXPTIME"
	}
	return *c.ExptimeKeyword
}

// GetDatasecKeyword returns the datasec_keyword value or the default.
func (c *ReductionConfig) GetDatasecKeyword() string {
	if c.DatasecKeyword == nil || *c.DatasecKeyword == "" {
		return "DATASEC"
	}
	return *c.DatasecKeyword
}

// GetInstrument returns the instrument label or the default.
func (c *ReductionConfig) GetInstrument() string {
	if c.Instrument == nil || *c.Instrument == "" {
		return "KOSMOS"
	}
	return *c.Instrument
}

// Options converts the config into pipeline options. Saxis drives the
// wavelength axis through the swap rule inside the pipeline.
func (c *ReductionConfig) Options() flat.Options {
	opts := flat.DefaultOptions()
	opts.Trim = c.GetTrim()
	opts.NormFrame = c.GetNormFrame()
	opts.IllumCor = c.GetIllumCor()
	opts.Threshold = c.GetThreshold()
	opts.ResponseCor = c.GetResponseCor()
	opts.Smooth = c.GetSmooth()
	opts.NPix = c.GetNPix()
	opts.Saxis = c.GetSaxis()
	if opts.Saxis == flat.AxisCols {
		opts.Waxis = flat.AxisRows
	} else {
		opts.Waxis = flat.AxisCols
	}
	opts.ExptimeKey = c.GetExptimeKeyword()
	opts.DatasecKey = c.GetDatasecKeyword()
	return opts
}

package flat

import (
	"fmt"

	"github.com/sitivezD99/CofI-Functions/internal/ccd"
)

// Proc reduces a single raw flat exposure: read the file, subtract the
// master bias, subtract the exposure-scaled dark current, and trim to
// the data section. Each step is skipped when its input is absent from
// the options.
func Proc(path string, opts Options) (*ccd.Frame, error) {
	frame, err := ccd.ReadFrame(path)
	if err != nil {
		return nil, err
	}

	if opts.Bias != nil {
		if err := frame.Sub(opts.Bias); err != nil {
			return nil, fmt.Errorf("%s: bias subtraction: %w", path, err)
		}
	}

	if opts.Dark != nil {
		exptime, ok := frame.Header.Float(opts.ExptimeKey)
		if !ok {
			return nil, fmt.Errorf("%s: dark subtraction needs header keyword %s", path, opts.ExptimeKey)
		}
		if err := frame.SubScaled(opts.Dark, exptime); err != nil {
			return nil, fmt.Errorf("%s: dark subtraction: %w", path, err)
		}
	}

	if opts.Trim {
		spec, ok := frame.Header.String(opts.DatasecKey)
		if !ok {
			return nil, fmt.Errorf("%s: trim needs header keyword %s", path, opts.DatasecKey)
		}
		sec, err := ccd.ParseSection(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		frame, err = frame.TrimSection(sec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return frame, nil
}

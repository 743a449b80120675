package flat

import (
	"fmt"

	"github.com/sitivezD99/CofI-Functions/internal/ccd"
	"github.com/sitivezD99/CofI-Functions/internal/monitoring"
)

// Result holds the outputs of a flat-combine run.
type Result struct {
	// Flat is the science-ready master flat.
	Flat *ccd.Frame
	// Illum is the illuminated span along the spatial axis, set when
	// illumination correction ran. Use it to trim science frames.
	Illum *Span
	// Profile is the wavelength-compressed spatial profile used for
	// illumination detection, set when illumination correction ran.
	Profile []float64
	// Response is the normalized 1D response curve divided out of the
	// flat, set when response correction ran.
	Response []float64
	// NFrames is the number of input flats combined.
	NFrames int
}

// FlatCombine builds a science-ready flat-field image from a batch of
// raw flat exposures: reduce each frame, normalize, median combine,
// detect the illuminated region, and remove the spectral response.
func FlatCombine(files []string, opts Options) (*Result, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("flat combine: no input files")
	}
	opts.normalize()

	frames := make([]*ccd.Frame, 0, len(files))
	for _, path := range files {
		frame, err := Proc(path, opts)
		if err != nil {
			return nil, fmt.Errorf("flat combine: %w", err)
		}
		if opts.NormFrame {
			frame.NormalizeMedian()
		}
		frames = append(frames, frame)
	}
	monitoring.Logf("flat: reduced %d frames (%dx%d)", len(frames), frames[0].NX, frames[0].NY)

	medflat, err := MedianCombine(frames)
	if err != nil {
		return nil, fmt.Errorf("flat combine: %w", err)
	}

	res := &Result{Flat: medflat, NFrames: len(frames)}

	if opts.IllumCor {
		span, profile, err := FindIllum(medflat, opts.Threshold, opts.Waxis)
		if err != nil {
			return nil, fmt.Errorf("flat combine: %w", err)
		}
		medflat, err = TrimToIllum(medflat, span, opts.Waxis)
		if err != nil {
			return nil, fmt.Errorf("flat combine: %w", err)
		}
		monitoring.Logf("flat: illuminated span %d..%d of %d", span.Start, span.End, len(profile))
		res.Flat = medflat
		res.Illum = &span
		res.Profile = profile
	}

	if opts.ResponseCor {
		corrected, resp, err := Response(medflat, opts.Smooth, opts.NPix, opts.Saxis)
		if err != nil {
			return nil, fmt.Errorf("flat combine: %w", err)
		}
		res.Flat = corrected
		res.Response = resp
	}

	return res, nil
}

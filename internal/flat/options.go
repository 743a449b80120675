// Package flat builds science-ready flat-field calibration frames. It
// reduces a batch of raw flat exposures, median-combines them, detects
// the illuminated region of the detector, and removes the large-scale
// spectral response shape.
package flat

import "github.com/sitivezD99/CofI-Functions/internal/ccd"

// Axis selectors. Axis 0 runs along rows (NAXIS2), axis 1 along
// columns (NAXIS1).
const (
	AxisRows = 0
	AxisCols = 1
)

// Options controls the flat-combine pipeline. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	// Bias is the master bias frame subtracted from each flat. Nil
	// disables bias subtraction.
	Bias *ccd.Frame
	// Dark is the dark-current frame, in counts per second. It is
	// scaled by each flat's exposure time before subtraction. Nil
	// disables dark subtraction.
	Dark *ccd.Frame

	// Trim cuts each frame to its data section (DatasecKey).
	Trim bool
	// NormFrame normalizes each reduced frame by its median before
	// combining.
	NormFrame bool

	// IllumCor detects the illuminated portion of the detector from
	// the combined flat and trims to it.
	IllumCor bool
	// Threshold is the fraction of the compressed-profile median a
	// row must reach to count as illuminated. Between 0 and 1.
	Threshold float64

	// ResponseCor divides the spatially-averaged spectral response
	// out of the combined flat.
	ResponseCor bool
	// Smooth applies a boxcar smooth to the 1D response before
	// dividing it out.
	Smooth bool
	// NPix is the boxcar width in pixels when Smooth is set.
	NPix int

	// Saxis and Waxis select the spatial and wavelength axes. If
	// either is swapped from the default, both swap.
	Saxis int
	Waxis int

	// ExptimeKey and DatasecKey name the header keywords holding the
	// exposure time and the data section.
	ExptimeKey string
	DatasecKey string
}

// DefaultOptions returns the standard KOSMOS-style reduction settings.
func DefaultOptions() Options {
	return Options{
		Trim:        true,
		NormFrame:   true,
		IllumCor:    true,
		Threshold:   0.9,
		ResponseCor: true,
		Smooth:      false,
		NPix:        11,
		Saxis:       AxisRows,
		Waxis:       AxisCols,
		ExptimeKey:  "EXPTIME",
		DatasecKey:  "DATASEC",
	}
}

// normalize applies the axis-swap rule and fills empty keyword names.
// If either axis is moved off the default, both swap together.
func (o *Options) normalize() {
	if o.Saxis == AxisCols || o.Waxis == AxisRows {
		o.Saxis = AxisCols
		o.Waxis = AxisRows
	} else {
		o.Saxis = AxisRows
		o.Waxis = AxisCols
	}
	if o.ExptimeKey == "" {
		o.ExptimeKey = "EXPTIME"
	}
	if o.DatasecKey == "" {
		o.DatasecKey = "DATASEC"
	}
}

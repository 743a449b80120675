package flat

import (
	"fmt"
	"math"

	"github.com/sitivezD99/CofI-Functions/internal/ccd"
)

// Response removes the large-scale spectral response shape from the
// flat. The flat is averaged along the spatial axis to a 1D response,
// optionally boxcar-smoothed over npix pixels, normalized by its
// median, and divided out of every spatial row. Returns the corrected
// flat and the normalized response curve.
func Response(flat *ccd.Frame, smooth bool, npix int, saxis int) (*ccd.Frame, []float64, error) {
	resp := spatialMean(flat, saxis)
	if smooth {
		if npix < 1 {
			return nil, nil, fmt.Errorf("flat response: npix %d must be positive", npix)
		}
		resp = ccd.Boxcar(resp, npix)
	}

	med := ccd.Median(resp)
	if math.IsNaN(med) || med == 0 {
		return nil, nil, fmt.Errorf("flat response: response curve has no usable median")
	}
	for i := range resp {
		resp[i] /= med
	}

	out := flat.Clone()
	if saxis == AxisRows {
		// Wavelength runs along columns; divide each column by its
		// response value.
		for y := 0; y < out.NY; y++ {
			row := out.Row(y)
			for x := range row {
				row[x] = divide(row[x], resp[x])
			}
		}
	} else {
		// Wavelength runs along rows; divide each row by its value.
		for y := 0; y < out.NY; y++ {
			row := out.Row(y)
			r := resp[y]
			for x := range row {
				row[x] = divide(row[x], r)
			}
		}
	}
	return out, resp, nil
}

// divide guards against zero or NaN response samples; affected pixels
// become NaN rather than Inf.
func divide(v, r float64) float64 {
	if math.IsNaN(r) || r == 0 {
		return math.NaN()
	}
	return v / r
}

// spatialMean averages the flat along the spatial axis, producing one
// value per wavelength index.
func spatialMean(flat *ccd.Frame, saxis int) []float64 {
	if saxis == AxisRows {
		// Spatial along rows: one mean per column.
		out := make([]float64, flat.NX)
		col := make([]float64, flat.NY)
		for x := 0; x < flat.NX; x++ {
			for y := 0; y < flat.NY; y++ {
				col[y] = flat.At(x, y)
			}
			out[x] = ccd.Mean(col)
		}
		return out
	}
	// Spatial along columns: one mean per row.
	out := make([]float64, flat.NY)
	for y := 0; y < flat.NY; y++ {
		out[y] = ccd.Mean(flat.Row(y))
	}
	return out
}

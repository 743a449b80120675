package flat

import (
	"fmt"
	"math"

	"github.com/sitivezD99/CofI-Functions/internal/ccd"
)

// Span is an inclusive index range along the spatial axis, used to
// trim science frames to the illuminated portion of the detector.
type Span struct {
	Start int
	End   int
}

// Len returns the number of indices covered by the span.
func (s Span) Len() int { return s.End - s.Start + 1 }

// FindIllum locates the illuminated portion of the detector. The flat
// is compressed along the wavelength axis by summing, and spatial
// indices whose summed flux reaches threshold times the median of the
// compressed profile count as illuminated. Returns the illuminated
// span and the compressed profile.
func FindIllum(flat *ccd.Frame, threshold float64, waxis int) (Span, []float64, error) {
	if threshold <= 0 || threshold > 1 {
		return Span{}, nil, fmt.Errorf("find illum: threshold %v out of (0, 1]", threshold)
	}

	profile := compress(flat, waxis)
	cut := threshold * ccd.Median(profile)

	start, end := -1, -1
	for i, v := range profile {
		if math.IsNaN(v) || v < cut {
			continue
		}
		if start < 0 {
			start = i
		}
		end = i
	}
	if start < 0 {
		return Span{}, profile, fmt.Errorf("find illum: no indices above threshold %v", threshold)
	}
	return Span{Start: start, End: end}, profile, nil
}

// compress sums the flat along the wavelength axis, producing one
// value per spatial index. NaN pixels are skipped.
func compress(flat *ccd.Frame, waxis int) []float64 {
	var out []float64
	if waxis == AxisCols {
		// Wavelength runs along columns: one sum per row.
		out = make([]float64, flat.NY)
		for y := 0; y < flat.NY; y++ {
			out[y] = nanSum(flat.Row(y))
		}
		return out
	}
	// Wavelength runs along rows: one sum per column.
	out = make([]float64, flat.NX)
	for x := 0; x < flat.NX; x++ {
		sum, n := 0.0, 0
		for y := 0; y < flat.NY; y++ {
			v := flat.At(x, y)
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			out[x] = math.NaN()
			continue
		}
		out[x] = sum
	}
	return out
}

func nanSum(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range xs {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum
}

// TrimToIllum cuts the flat down to the illuminated span along the
// spatial axis.
func TrimToIllum(flat *ccd.Frame, sp Span, waxis int) (*ccd.Frame, error) {
	if waxis == AxisCols {
		// Spatial axis runs along rows.
		return flat.TrimSection(ccd.Section{X1: 0, X2: flat.NX - 1, Y1: sp.Start, Y2: sp.End})
	}
	return flat.TrimSection(ccd.Section{X1: sp.Start, X2: sp.End, Y1: 0, Y2: flat.NY - 1})
}

package flat

import (
	"fmt"

	"github.com/sitivezD99/CofI-Functions/internal/ccd"
)

// MedianCombine stacks frames into one frame whose every pixel is the
// NaN-aware median of that pixel across the stack. All frames must
// share a shape. The result carries the first frame's header.
func MedianCombine(frames []*ccd.Frame) (*ccd.Frame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("median combine: no frames")
	}
	first := frames[0]
	for i, f := range frames[1:] {
		if f.NX != first.NX || f.NY != first.NY {
			return nil, fmt.Errorf("median combine: frame %d is %dx%d, want %dx%d",
				i+1, f.NX, f.NY, first.NX, first.NY)
		}
	}

	out := ccd.NewFrame(first.NX, first.NY)
	out.Header = append(ccd.Header(nil), first.Header...)

	column := make([]float64, len(frames))
	for i := range out.Data {
		for j, f := range frames {
			column[j] = f.Data[i]
		}
		out.Data[i] = ccd.Median(column)
	}
	return out, nil
}

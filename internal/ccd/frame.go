// Package ccd provides the CCD frame container and the pixel-level
// operations the calibration pipeline is built from: header access,
// data-section trimming, frame arithmetic, and NaN-aware statistics.
package ccd

import (
	"fmt"
	"math"
)

// Card is one FITS header entry.
type Card struct {
	Name    string
	Value   interface{}
	Comment string
}

// Header is an ordered list of header cards. Order is preserved so
// frames round-trip through FITS files without shuffling keywords.
type Header []Card

// Get returns the card with the given name, or nil if absent.
func (h Header) Get(name string) *Card {
	for i := range h {
		if h[i].Name == name {
			return &h[i]
		}
	}
	return nil
}

// Set replaces the named card's value in place, or appends a new card.
func (h *Header) Set(name string, value interface{}, comment string) {
	for i := range *h {
		if (*h)[i].Name == name {
			(*h)[i].Value = value
			if comment != "" {
				(*h)[i].Comment = comment
			}
			return
		}
	}
	*h = append(*h, Card{Name: name, Value: value, Comment: comment})
}

// Float returns the named card's value as a float64. Integer-valued
// cards are converted; anything else reports not-found.
func (h Header) Float(name string) (float64, bool) {
	c := h.Get(name)
	if c == nil {
		return 0, false
	}
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// String returns the named card's value as a string.
func (h Header) String(name string) (string, bool) {
	c := h.Get(name)
	if c == nil {
		return "", false
	}
	s, ok := c.Value.(string)
	return s, ok
}

// Frame is a single CCD image. Pixels are stored row-major: pixel (x, y)
// lives at Data[y*NX+x]. NX is the FITS NAXIS1 (columns), NY is NAXIS2
// (rows). Missing or rejected pixels are NaN.
type Frame struct {
	NX, NY int
	Data   []float64
	Header Header
}

// NewFrame allocates a zeroed frame of the given shape.
func NewFrame(nx, ny int) *Frame {
	return &Frame{NX: nx, NY: ny, Data: make([]float64, nx*ny)}
}

// At returns the pixel value at (x, y). No bounds check.
func (f *Frame) At(x, y int) float64 { return f.Data[y*f.NX+x] }

// SetPix stores v at (x, y). No bounds check.
func (f *Frame) SetPix(x, y int, v float64) { f.Data[y*f.NX+x] = v }

// Row returns the y-th row as a slice view into the frame data.
func (f *Frame) Row(y int) []float64 { return f.Data[y*f.NX : (y+1)*f.NX] }

// Clone returns a deep copy of the frame, header included.
func (f *Frame) Clone() *Frame {
	out := &Frame{NX: f.NX, NY: f.NY, Data: make([]float64, len(f.Data))}
	copy(out.Data, f.Data)
	out.Header = append(Header(nil), f.Header...)
	return out
}

// sameShape reports whether two frames have identical dimensions.
func (f *Frame) sameShape(other *Frame) bool {
	return other != nil && f.NX == other.NX && f.NY == other.NY
}

// Sub subtracts other from f pixelwise, in place.
func (f *Frame) Sub(other *Frame) error {
	if !f.sameShape(other) {
		return fmt.Errorf("frame shape mismatch: %dx%d vs %dx%d", f.NX, f.NY, other.NX, other.NY)
	}
	for i := range f.Data {
		f.Data[i] -= other.Data[i]
	}
	return nil
}

// SubScaled subtracts k*other from f pixelwise, in place. Used for
// dark-current removal where the dark frame is a per-second rate and
// k is the exposure time.
func (f *Frame) SubScaled(other *Frame, k float64) error {
	if !f.sameShape(other) {
		return fmt.Errorf("frame shape mismatch: %dx%d vs %dx%d", f.NX, f.NY, other.NX, other.NY)
	}
	for i := range f.Data {
		f.Data[i] -= k * other.Data[i]
	}
	return nil
}

// Scale multiplies every pixel by k in place.
func (f *Frame) Scale(k float64) {
	for i := range f.Data {
		f.Data[i] *= k
	}
}

// Median returns the NaN-aware median of all pixels.
func (f *Frame) Median() float64 {
	return Median(f.Data)
}

// NormalizeMedian divides the frame by its median in place. A frame
// with no finite pixels is left untouched.
func (f *Frame) NormalizeMedian() {
	m := f.Median()
	if math.IsNaN(m) || m == 0 {
		return
	}
	f.Scale(1 / m)
}

package ccd

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"
)

// structural keywords that describe the HDU layout itself. They are
// regenerated on write, so they are not carried into Frame.Header.
var structuralKeys = map[string]bool{
	"SIMPLE": true, "BITPIX": true, "NAXIS": true, "NAXIS1": true,
	"NAXIS2": true, "EXTEND": true, "END": true, "BSCALE": true,
	"BZERO": true,
}

// ReadFrame reads the primary HDU of a FITS file into a Frame. Integer
// pixel types are converted to float64, applying BSCALE/BZERO when
// present. Only 2D images are supported.
func ReadFrame(path string) (*Frame, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer f.Close()

	hdu := f.HDU(0)
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%s: primary HDU is not an image", path)
	}

	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 2 {
		return nil, fmt.Errorf("%s: want a 2D image, got %d axes", path, len(axes))
	}
	nx, ny := axes[0], axes[1]

	frame := NewFrame(nx, ny)
	if err := readPixels(img, hdr.Bitpix(), frame.Data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// BSCALE/BZERO rescaling (unsigned-16 convention and friends).
	bscale, bzero := 1.0, 0.0
	if v, ok := headerFloat(hdr, "BSCALE"); ok {
		bscale = v
	}
	if v, ok := headerFloat(hdr, "BZERO"); ok {
		bzero = v
	}
	if bscale != 1 || bzero != 0 {
		for i := range frame.Data {
			frame.Data[i] = bscale*frame.Data[i] + bzero
		}
	}

	for _, key := range hdr.Keys() {
		if structuralKeys[key] {
			continue
		}
		if c := hdr.Get(key); c != nil {
			frame.Header = append(frame.Header, Card{Name: c.Name, Value: c.Value, Comment: c.Comment})
		}
	}
	return frame, nil
}

// headerFloat reads a numeric card from a fitsio header.
func headerFloat(hdr *fitsio.Header, name string) (float64, bool) {
	c := hdr.Get(name)
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

// readPixels decodes the HDU pixel block into dst according to bitpix.
func readPixels(img fitsio.Image, bitpix int, dst []float64) error {
	switch bitpix {
	case 16:
		var raw []int16
		if err := img.Read(&raw); err != nil {
			return err
		}
		for i, v := range raw {
			dst[i] = float64(v)
		}
	case 32:
		var raw []int32
		if err := img.Read(&raw); err != nil {
			return err
		}
		for i, v := range raw {
			dst[i] = float64(v)
		}
	case 64:
		var raw []int64
		if err := img.Read(&raw); err != nil {
			return err
		}
		for i, v := range raw {
			dst[i] = float64(v)
		}
	case -32:
		var raw []float32
		if err := img.Read(&raw); err != nil {
			return err
		}
		for i, v := range raw {
			dst[i] = float64(v)
		}
	case -64:
		if err := img.Read(&dst); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
	return nil
}

// WriteFrame writes a frame to path as a BITPIX -64 primary HDU,
// carrying the frame's header cards.
func WriteFrame(path string, frame *Frame) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer w.Close()

	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("create fits %s: %w", path, err)
	}
	defer f.Close()

	img := fitsio.NewImage(-64, []int{frame.NX, frame.NY})
	defer img.Close()

	cards := make([]fitsio.Card, 0, len(frame.Header))
	for _, c := range frame.Header {
		if structuralKeys[c.Name] {
			continue
		}
		cards = append(cards, fitsio.Card{Name: c.Name, Value: c.Value, Comment: c.Comment})
	}
	if len(cards) > 0 {
		if err := img.Header().Append(cards...); err != nil {
			return fmt.Errorf("write header %s: %w", path, err)
		}
	}

	data := make([]float64, len(frame.Data))
	copy(data, frame.Data)
	if err := img.Write(&data); err != nil {
		return fmt.Errorf("write pixels %s: %w", path, err)
	}
	if err := f.Write(img); err != nil {
		return fmt.Errorf("write hdu %s: %w", path, err)
	}
	return nil
}

package ccd

import (
	"fmt"
	"strconv"
	"strings"
)

// Section is a rectangular region of a frame, 0-based with inclusive
// bounds. It is the parsed form of the FITS DATASEC-style keyword.
type Section struct {
	X1, X2 int
	Y1, Y2 int
}

// Width returns the number of columns in the section.
func (s Section) Width() int { return s.X2 - s.X1 + 1 }

// Height returns the number of rows in the section.
func (s Section) Height() int { return s.Y2 - s.Y1 + 1 }

// ParseSection parses a FITS section string of the form "[x1:x2,y1:y2]"
// with 1-based inclusive bounds, as used by DATASEC and friends, and
// converts it to 0-based bounds.
func ParseSection(spec string) (Section, error) {
	s := strings.TrimSpace(spec)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return Section{}, fmt.Errorf("invalid section %q: missing brackets", spec)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return Section{}, fmt.Errorf("invalid section %q: want two axis ranges", spec)
	}
	x1, x2, err := parseRange(parts[0])
	if err != nil {
		return Section{}, fmt.Errorf("invalid section %q: %w", spec, err)
	}
	y1, y2, err := parseRange(parts[1])
	if err != nil {
		return Section{}, fmt.Errorf("invalid section %q: %w", spec, err)
	}
	if x1 < 1 || y1 < 1 || x2 < x1 || y2 < y1 {
		return Section{}, fmt.Errorf("invalid section %q: bounds out of order", spec)
	}
	return Section{X1: x1 - 1, X2: x2 - 1, Y1: y1 - 1, Y2: y2 - 1}, nil
}

func parseRange(s string) (int, int, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("range %q has no ':'", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("bad lower bound %q", lo)
	}
	b, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("bad upper bound %q", hi)
	}
	return a, b, nil
}

// TrimSection returns a new frame containing only the pixels inside sec.
// The header is carried over unchanged.
func (f *Frame) TrimSection(sec Section) (*Frame, error) {
	if sec.X2 >= f.NX || sec.Y2 >= f.NY {
		return nil, fmt.Errorf("section [%d:%d,%d:%d] exceeds frame %dx%d",
			sec.X1+1, sec.X2+1, sec.Y1+1, sec.Y2+1, f.NX, f.NY)
	}
	out := NewFrame(sec.Width(), sec.Height())
	out.Header = append(Header(nil), f.Header...)
	for y := sec.Y1; y <= sec.Y2; y++ {
		src := f.Row(y)[sec.X1 : sec.X2+1]
		copy(out.Row(y-sec.Y1), src)
	}
	return out, nil
}

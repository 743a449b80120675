package flat

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/sitivezD99/CofI-Functions/internal/ccd"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveDiagnostics writes PNG plots of the illumination profile and the
// response curve into dir. Plots whose inputs are absent from the
// result are skipped. Returns the number of plots written.
func SaveDiagnostics(dir string, res *Result, threshold float64) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create plot dir: %w", err)
	}

	count := 0
	if len(res.Profile) > 0 {
		file := filepath.Join(dir, "illum_profile.png")
		if err := plotIllumProfile(file, res.Profile, threshold, res.Illum); err != nil {
			return count, fmt.Errorf("illumination profile: %w", err)
		}
		count++
	}
	if len(res.Response) > 0 {
		file := filepath.Join(dir, "response.png")
		if err := plotResponse(file, res.Response); err != nil {
			return count, fmt.Errorf("response curve: %w", err)
		}
		count++
	}
	return count, nil
}

// plotIllumProfile draws the compressed spatial profile with the
// detection threshold line and the detected span bounds.
func plotIllumProfile(file string, profile []float64, threshold float64, span *Span) error {
	p := plot.New()
	p.Title.Text = "Illumination Profile"
	p.X.Label.Text = "Spatial index"
	p.Y.Label.Text = "Summed flux"

	pts := make(plotter.XYs, 0, len(profile))
	for i, v := range profile {
		if math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("profile", line)

	cut := threshold * ccd.Median(profile)
	cutPts := plotter.XYs{
		{X: 0, Y: cut},
		{X: float64(len(profile) - 1), Y: cut},
	}
	cutLine, err := plotter.NewLine(cutPts)
	if err != nil {
		return err
	}
	cutLine.Width = vg.Points(1)
	cutLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(cutLine)
	p.Legend.Add(fmt.Sprintf("threshold %.2f", threshold), cutLine)

	if span != nil {
		p.Title.Text = fmt.Sprintf("Illumination Profile (span %d..%d)", span.Start, span.End)
	}

	p.Legend.Top = true
	return p.Save(10*vg.Inch, 4*vg.Inch, file)
}

// plotResponse draws the normalized 1D spectral response.
func plotResponse(file string, resp []float64) error {
	p := plot.New()
	p.Title.Text = "Spectral Response"
	p.X.Label.Text = "Wavelength index"
	p.Y.Label.Text = "Normalized response"

	pts := make(plotter.XYs, 0, len(resp))
	for i, v := range resp {
		if math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(10*vg.Inch, 4*vg.Inch, file)
}

package flat

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sitivezD99/CofI-Functions/internal/ccd"
)

// maxReportPoints caps the number of pixels rendered into the HTML
// report; larger flats are downsampled by stride.
const maxReportPoints = 8000

// WriteHeatmapReport renders the master flat as an HTML chart: a
// coloured scatter of pixel values with a viridis visual map. Intended
// for a quick visual sanity check of the final flat without opening
// the FITS file.
func WriteHeatmapReport(path string, flat *ccd.Frame, title string) error {
	if flat == nil || len(flat.Data) == 0 {
		return fmt.Errorf("heatmap report: empty flat")
	}

	stride := 1
	if len(flat.Data) > maxReportPoints {
		stride = int(math.Ceil(float64(len(flat.Data)) / float64(maxReportPoints)))
	}

	data := make([]opts.ScatterData, 0, len(flat.Data)/stride+1)
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for i := 0; i < len(flat.Data); i += stride {
		v := flat.Data[i]
		if math.IsNaN(v) {
			continue
		}
		x := i % flat.NX
		y := i / flat.NX
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, v}})
	}
	if len(data) == 0 {
		return fmt.Errorf("heatmap report: no finite pixels")
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1000px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%dx%d points=%d stride=%d", flat.NX, flat.NY, len(data), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: flat.NX, Name: "X (px)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: flat.NY, Name: "Y (px)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minVal),
			Max:        float32(maxVal),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("flat", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heatmap report: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

package sampler

import (
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	ChartFileName = "run-output.png"
	chartWidthPx  = 1920
	chartHeightPx = 1080
	chartDPI      = 96
)

var barColour = color.RGBA{R: 255, A: 128}

// ChartPath returns where the latency chart of a run writing to outputDir ends up.
func ChartPath(outputDir string) string {
	return filepath.Join(outputDir, ChartFileName)
}

// RenderChart draws the profile as a bar chart of average latency per query length and writes it as a
// 1920x1080 PNG to path.
func RenderChart(profile LengthProfile, path string) error {
	if profile.MaxLength() == 0 {
		return &ErrRender{Path: path, Err: errors.New("no query lengths to plot")}
	}

	p := plot.New()
	p.Title.Text = "Searching Latency Graph"
	p.Title.TextStyle.Font.Size = vg.Points(50)
	p.X.Label.Text = "Query Length"
	p.Y.Label.Text = "Avg Latency (ms)"
	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.Label.TextStyle.Font.Size = vg.Points(36)
		axis.Tick.Label.Font.Size = vg.Points(24)
	}
	p.Y.Min = 0
	p.Y.Max = float64(profile.MaxAverage())
	if p.Y.Max <= 0 {
		p.Y.Max = 1
	}

	values := make(plotter.Values, profile.MaxLength())
	names := make([]string, profile.MaxLength())
	for length := 1; length <= profile.MaxLength(); length++ {
		values[length-1] = float64(profile.Average(length))
		names[length-1] = strconv.Itoa(length)
	}

	barWidth := vg.Points(float64(chartWidthPx) * 0.6 / float64(len(values)))
	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return &ErrRender{Path: path, Err: err}
	}
	bars.Color = barColour
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	canvas := vgimg.NewWith(
		vgimg.UseWH(pixels(chartWidthPx), pixels(chartHeightPx)),
		vgimg.UseDPI(chartDPI),
		vgimg.UseBackgroundColor(color.White),
	)
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return &ErrRender{Path: path, Err: err}
	}
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(f); err != nil {
		_ = f.Close()
		return &ErrRender{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &ErrRender{Path: path, Err: err}
	}
	return nil
}

// pixels converts a pixel count at chartDPI into a vg.Length.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / chartDPI
}

// Package render draws viewer frames to image files with gonum/plot.
package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"mprviewer/pkg/config"
	"mprviewer/pkg/logging"
	"mprviewer/pkg/viewer"
)

// Formats accepted by plot.Save
var supportedFormats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true,
	"svg": true, "pdf": true, "eps": true,
}

// PlotRenderer renders each view of a frame as its own panel: the windowed
// plane in grayscale with the row index growing upwards, the two crosshair
// lines in the colours of the planes they mark, and the plane title in its
// accent colour.
type PlotRenderer struct {
	width      vg.Length
	lineWidth  vg.Length
	lineAlpha  float64
	background color.Color
	format     string
}

// NewPlotRenderer creates a renderer from the render section of the configuration
func NewPlotRenderer(cfg *config.Config) (*PlotRenderer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bg, err := parseHexColor(cfg.Render.Background)
	if err != nil {
		return nil, fmt.Errorf("render.background: %w", err)
	}
	format := strings.ToLower(strings.TrimPrefix(cfg.Render.Format, "."))
	if !supportedFormats[format] {
		return nil, fmt.Errorf("render.format: unsupported format %q", cfg.Render.Format)
	}
	return &PlotRenderer{
		width:      vg.Length(cfg.Render.PanelWidth) * vg.Inch,
		lineWidth:  vg.Points(cfg.Render.LineWidth),
		lineAlpha:  cfg.Render.LineAlpha,
		background: bg,
		format:     format,
	}, nil
}

// Plot builds the panel for one view
func (r *PlotRenderer) Plot(v viewer.View) (*plot.Plot, error) {
	b := v.Image.Bounds()
	rows, cols := b.Dy(), b.Dx()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%s view is empty", v.Name)
	}

	p := plot.New()
	p.BackgroundColor = r.background
	p.Title.Text = v.Title
	p.Title.TextStyle.Color = v.Accent
	p.HideAxes()

	// Pixel centres sit on integer coordinates
	xMax, yMax := float64(cols)-0.5, float64(rows)-0.5
	p.X.Min, p.X.Max = -0.5, xMax
	p.Y.Min, p.Y.Max = -0.5, yMax

	// plotter.Image puts row 0 at the top; flip it so row 0 lands at y = 0
	p.Add(plotter.NewImage(flipImage(v.Image), -0.5, -0.5, xMax, yMax))

	vx := float64(v.Crosshair.Vertical)
	vertical, err := plotter.NewLine(plotter.XYs{{X: vx, Y: -0.5}, {X: vx, Y: yMax}})
	if err != nil {
		return nil, err
	}
	vertical.Color = withAlpha(v.VerticalColor, r.lineAlpha)
	vertical.Width = r.lineWidth

	hy := float64(v.Crosshair.Horizontal)
	horizontal, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: hy}, {X: xMax, Y: hy}})
	if err != nil {
		return nil, err
	}
	horizontal.Color = withAlpha(v.HorizontalColor, r.lineAlpha)
	horizontal.Width = r.lineWidth

	p.Add(vertical, horizontal)
	return p, nil
}

// PanelSize returns the drawing size of a view. Pixels are Aspect times
// taller than wide.
func (r *PlotRenderer) PanelSize(v viewer.View) (vg.Length, vg.Length) {
	b := v.Image.Bounds()
	aspect := v.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	if b.Dx() == 0 {
		return r.width, r.width
	}
	return r.width, r.width * vg.Length(aspect*float64(b.Dy())/float64(b.Dx()))
}

// SaveView writes one panel to filename
func (r *PlotRenderer) SaveView(v viewer.View, filename string) error {
	p, err := r.Plot(v)
	if err != nil {
		return err
	}
	w, h := r.PanelSize(v)
	if err := p.Save(w, h, filename); err != nil {
		return fmt.Errorf("failed to save %s view: %w", v.Name, err)
	}
	return nil
}

// SaveFrame writes the three panels of a frame to dir as axial, coronal and
// sagittal files and returns their paths.
func (r *PlotRenderer) SaveFrame(frame *viewer.Frame, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(frame.Views))
	for _, v := range frame.Views {
		filename := filepath.Join(dir, fmt.Sprintf("%s.%s", strings.ToLower(v.Name), r.format))
		if err := r.SaveView(v, filename); err != nil {
			return nil, err
		}
		logging.Debugf("Wrote %s", filename)
		paths = append(paths, filename)
	}
	return paths, nil
}

// flipImage returns a copy of img with its rows in reverse order
func flipImage(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	rows := b.Dy()
	for y := 0; y < rows; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+b.Dx()]
		dst := out.Pix[(rows-1-y)*out.Stride:]
		copy(dst, src)
	}
	return out
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}

// parseHexColor parses #rrggbb or #rgb
func parseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

package viewer

import (
	"fmt"
	"image"
	"image/color"

	"mprviewer/internal/models"
	"mprviewer/pkg/visualization"
)

// Accent colours identify each plane; crosshair lines reuse the colour of the
// plane they represent.
var (
	AxialColor    = color.RGBA{R: 0, G: 255, B: 255, A: 255} // cyan
	CoronalColor  = color.RGBA{R: 0, G: 255, B: 0, A: 255}   // lime
	SagittalColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}   // red
)

var accent = map[models.Axis]color.RGBA{
	models.AxisZ: AxialColor,
	models.AxisY: CoronalColor,
	models.AxisX: SagittalColor,
}

// crossing lists, per plane, the planes drawn as its vertical and horizontal lines
var crossing = map[models.Axis][2]models.Axis{
	models.AxisZ: {models.AxisX, models.AxisY},
	models.AxisY: {models.AxisX, models.AxisZ},
	models.AxisX: {models.AxisY, models.AxisZ},
}

// View is one display-ready plane
type View struct {
	Axis  models.Axis
	Name  string
	Title string
	// Index is the slice index along Axis
	Index int

	// Image is the windowed plane; row 0 is plane row 0
	Image *image.Gray
	// Aspect is the physical height of a pixel over its width
	Aspect float64

	Crosshair       visualization.Crosshair
	Accent          color.RGBA
	VerticalColor   color.RGBA
	HorizontalColor color.RGBA
}

// Frame is the complete output of one update: axial, coronal and sagittal views
type Frame struct {
	Views   [3]View
	Info    string
	Indices models.SliceIndices
	Window  models.WindowSettings
}

// Render extracts and windows the three planes for the current indices and
// window. It is the single entry point after any settings change: calling it
// repeatedly without changes yields identical frames, and the volume is only read.
func (s *State) Render() (*Frame, error) {
	if s.volume == nil {
		return nil, ErrNotLoaded
	}

	planes, err := visualization.ExtractPlanes(s.volume, s.indices)
	if err != nil {
		// Indices are clamped on every change, so this is a bug
		return nil, fmt.Errorf("extract planes: %w", err)
	}

	frame := &Frame{
		Info:    s.info,
		Indices: s.indices,
		Window:  s.window,
	}
	for i, axis := range allAxes {
		lines := crossing[axis]
		frame.Views[i] = View{
			Axis:            axis,
			Name:            axis.String(),
			Title:           fmt.Sprintf("%s\nSlice: %d", axis, s.indices.Get(axis)),
			Index:           s.indices.Get(axis),
			Image:           visualization.ApplyWindow(planes.Plane(axis), s.window),
			Aspect:          s.spacing.For(axis),
			Crosshair:       planes.Crosshair(axis),
			Accent:          accent[axis],
			VerticalColor:   accent[lines[0]],
			HorizontalColor: accent[lines[1]],
		}
	}
	return frame, nil
}

// Package viewer holds the interactive state of a multi-planar viewer: the
// loaded volume, the current slice indices and the display window. The GUI or
// CLI shell owns only presentation; every numeric value lives here.
package viewer

import (
	"errors"
	"fmt"

	"mprviewer/internal/models"
	"mprviewer/pkg/config"
	"mprviewer/pkg/dicomio"
	"mprviewer/pkg/logging"
	"mprviewer/pkg/reconstruction"
	"mprviewer/pkg/visualization"
)

// ErrNotLoaded is returned by Render while no volume is loaded
var ErrNotLoaded = errors.New("no volume loaded")

// State is the viewer state machine. It is either Empty (no volume) or
// Loaded (volume, indices and window present).
//
// A State is meant to be driven from a single interaction thread and is not
// safe for concurrent use.
type State struct {
	cfg     *config.Config
	decoder dicomio.Decoder

	// Set together on a successful load, cleared together on Reset
	volume     *models.Volume
	spacing    models.Spacing
	autoWindow models.WindowSettings
	info       string

	indices  models.SliceIndices
	window   models.WindowSettings
	controls controlSet
}

// NewState creates an Empty viewer. A nil decoder reads DICOM files from disk.
func NewState(cfg *config.Config, decoder dicomio.Decoder) *State {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if decoder == nil {
		decoder = dicomio.NewFileDecoder()
	}
	s := &State{
		cfg:      cfg,
		decoder:  decoder,
		controls: newControlSet(cfg),
	}
	s.syncFromControls()
	return s
}

// Load reads the directory and, on success, replaces the current volume,
// resets the indices, seeds the window from the volume's intensity
// distribution and updates the index control ranges.
//
// On any error the state is left exactly as it was. A directory without
// recognized files yields a *reconstruction.EmptyInputError, which callers
// may ignore.
func (s *State) Load(dir string) error {
	r := reconstruction.NewReconstructor(&reconstruction.Params{
		InputDir:   dir,
		Extensions: s.cfg.Input.Extensions,
		Decoder:    s.decoder,
	})
	if err := r.Process(); err != nil {
		if reconstruction.IsEmptyInput(err) {
			logging.Debugf("Nothing to load: %v", err)
		}
		return err
	}

	vol := r.Volume()
	auto := visualization.AutoWindow(vol, visualization.AutoWindowOptions{
		Lower:    s.cfg.Window.LowerPercentile,
		Upper:    s.cfg.Window.UpperPercentile,
		MinWidth: s.cfg.Window.MinWidth,
		Method:   s.cfg.Window.Method,
	})

	// Commit everything at once
	s.volume = vol
	s.spacing = r.Spacing()
	s.autoWindow = auto
	s.info = r.Summary()

	s.controls.setIndexRanges(vol)
	start := models.SliceIndices{}
	if s.cfg.Viewer.StartAtMidpoint {
		start = models.Midpoint(vol)
	}
	for _, axis := range allAxes {
		s.controls.set(indexControl[axis], start.Get(axis))
	}
	// Controls are integer valued; the estimate is truncated like any other input
	s.controls.set(ControlWindowLevel, int(auto.Level))
	s.controls.set(ControlWindowWidth, int(auto.Width))
	s.syncFromControls()

	logging.Infof("Loaded %s: %s", dir, s.info)
	logging.Debugf("Auto window level %.1f width %.1f", auto.Level, auto.Width)
	return nil
}

// Reset discards the loaded volume and returns to the Empty state
func (s *State) Reset() {
	s.volume = nil
	s.spacing = models.Spacing{}
	s.autoWindow = models.WindowSettings{}
	s.info = ""
	s.controls = newControlSet(s.cfg)
	s.syncFromControls()
}

// Loaded reports whether a volume is present
func (s *State) Loaded() bool {
	return s.volume != nil
}

// Volume returns the loaded volume, or nil when Empty. It must not be modified.
func (s *State) Volume() *models.Volume {
	return s.volume
}

// Spacing returns the aspect ratios of the loaded volume
func (s *State) Spacing() models.Spacing {
	return s.spacing
}

// AutoWindow returns the window estimated at load time, before truncation to the controls
func (s *State) AutoWindow() models.WindowSettings {
	return s.autoWindow
}

// Info returns the status line of the loaded dataset
func (s *State) Info() string {
	return s.info
}

// Indices returns the current slice indices
func (s *State) Indices() models.SliceIndices {
	return s.indices
}

// Window returns the current window settings
func (s *State) Window() models.WindowSettings {
	return s.window
}

// Controls returns a snapshot of the five interaction controls
func (s *State) Controls() []Control {
	return s.controls.snapshot()
}

// SetControl sets one control by name; the value is clamped to its range
func (s *State) SetControl(name string, value int) error {
	if !s.controls.set(name, value) {
		return fmt.Errorf("unknown control %q", name)
	}
	s.syncFromControls()
	return nil
}

// SetIndex sets the slice index along one axis, clamped to the volume extent
func (s *State) SetIndex(axis models.Axis, value int) {
	s.controls.set(indexControl[axis], value)
	s.syncFromControls()
}

// SetIndices sets all three slice indices
func (s *State) SetIndices(idx models.SliceIndices) {
	for _, axis := range allAxes {
		s.controls.set(indexControl[axis], idx.Get(axis))
	}
	s.syncFromControls()
}

// SetWindow sets the window level and width, each clamped to its control range
func (s *State) SetWindow(level, width int) {
	s.controls.set(ControlWindowLevel, level)
	s.controls.set(ControlWindowWidth, width)
	s.syncFromControls()
}

// syncFromControls derives indices and window from the control values
func (s *State) syncFromControls() {
	for _, axis := range allAxes {
		s.indices = s.indices.With(axis, s.controls.value(indexControl[axis]))
	}
	if s.volume != nil {
		s.indices = s.indices.Clamp(s.volume)
	}
	s.window = models.WindowSettings{
		Level: float64(s.controls.value(ControlWindowLevel)),
		Width: float64(s.controls.value(ControlWindowWidth)),
	}.Normalize()
}

package viewer

import (
	"mprviewer/internal/models"
	"mprviewer/pkg/config"
)

// Control names of the interaction surface
const (
	ControlAxial       = "Axial"
	ControlCoronal     = "Coronal"
	ControlSagittal    = "Sagittal"
	ControlWindowWidth = "WW"
	ControlWindowLevel = "WL"
)

// defaultIndexMax is the index control range before any volume is loaded
const defaultIndexMax = 100

var allAxes = []models.Axis{models.AxisZ, models.AxisY, models.AxisX}

var indexControl = map[models.Axis]string{
	models.AxisZ: ControlAxial,
	models.AxisY: ControlCoronal,
	models.AxisX: ControlSagittal,
}

// Control is one integer-valued input of the interaction surface
type Control struct {
	Name  string
	Min   int
	Max   int
	Value int
}

// controlSet keeps the controls in display order
type controlSet []Control

func newControlSet(cfg *config.Config) controlSet {
	ww, wl := cfg.Viewer.WindowWidth, cfg.Viewer.WindowLevel
	return controlSet{
		{Name: ControlAxial, Min: 0, Max: defaultIndexMax},
		{Name: ControlCoronal, Min: 0, Max: defaultIndexMax},
		{Name: ControlSagittal, Min: 0, Max: defaultIndexMax},
		{Name: ControlWindowWidth, Min: ww.Min, Max: ww.Max, Value: clamp(ww.Default, ww.Min, ww.Max)},
		{Name: ControlWindowLevel, Min: wl.Min, Max: wl.Max, Value: clamp(wl.Default, wl.Min, wl.Max)},
	}
}

func (cs controlSet) find(name string) *Control {
	for i := range cs {
		if cs[i].Name == name {
			return &cs[i]
		}
	}
	return nil
}

// set clamps and stores a value; it reports false for unknown names
func (cs controlSet) set(name string, value int) bool {
	c := cs.find(name)
	if c == nil {
		return false
	}
	c.Value = clamp(value, c.Min, c.Max)
	return true
}

func (cs controlSet) value(name string) int {
	if c := cs.find(name); c != nil {
		return c.Value
	}
	return 0
}

// setIndexRanges limits the index controls to [0, extent-1] of the volume
func (cs controlSet) setIndexRanges(vol *models.Volume) {
	for _, axis := range allAxes {
		c := cs.find(indexControl[axis])
		c.Min, c.Max = 0, vol.Extent(axis)-1
		c.Value = clamp(c.Value, c.Min, c.Max)
	}
}

func (cs controlSet) snapshot() []Control {
	out := make([]Control, len(cs))
	copy(out, cs)
	return out
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

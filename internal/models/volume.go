package models

// Axis identifies one of the three volume axes and the plane that fixes it
type Axis int

const (
	// AxisZ is the depth axis; fixing it yields the axial plane
	AxisZ Axis = iota
	// AxisY is the row axis; fixing it yields the coronal plane
	AxisY
	// AxisX is the column axis; fixing it yields the sagittal plane
	AxisX
)

// String returns the name of the plane that fixes the axis
func (a Axis) String() string {
	switch a {
	case AxisZ:
		return "Axial"
	case AxisY:
		return "Coronal"
	case AxisX:
		return "Sagittal"
	}
	return "Unknown"
}

// Volume represents a 3D intensity volume reconstructed from scan slices
type Volume struct {
	// Data is the calibrated volume as a 1D array, indexed (z*Height + y)*Width + x
	Data []float64

	// Width is the number of columns
	Width int

	// Height is the number of rows
	Height int

	// Depth is the number of slices
	Depth int

	// VoxelSize is the physical size of each voxel in mm
	VoxelSize struct {
		X, Y, Z float64
	}

	// Positions are the depth positions of the slices in ascending order
	Positions []float64

	// Sources are the slice filenames in depth order
	Sources []string
}

// At returns the intensity at depth z, row y, column x
func (v *Volume) At(z, y, x int) float64 {
	return v.Data[(z*v.Height+y)*v.Width+x]
}

// Shape returns the (depth, rows, columns) extents
func (v *Volume) Shape() (int, int, int) {
	return v.Depth, v.Height, v.Width
}

// Extent returns the number of voxels along the axis
func (v *Volume) Extent(axis Axis) int {
	switch axis {
	case AxisZ:
		return v.Depth
	case AxisY:
		return v.Height
	case AxisX:
		return v.Width
	}
	return 0
}

// SizeBytes returns the memory held by the intensity data
func (v *Volume) SizeBytes() uint64 {
	return uint64(len(v.Data)) * 8
}

// Spacing holds the display aspect ratio of each orthogonal plane.
// Each ratio is the physical height of one pixel over its physical width.
type Spacing struct {
	Axial    float64
	Coronal  float64
	Sagittal float64
}

// For returns the aspect ratio of the plane that fixes the axis
func (s Spacing) For(axis Axis) float64 {
	switch axis {
	case AxisZ:
		return s.Axial
	case AxisY:
		return s.Coronal
	case AxisX:
		return s.Sagittal
	}
	return 1
}

// MinWindowWidth is the smallest window width ever used for display
const MinWindowWidth = 1.0

// WindowSettings is a window level/width pair
type WindowSettings struct {
	Level float64
	Width float64
}

// Normalize returns the settings with the width raised to MinWindowWidth if needed
func (w WindowSettings) Normalize() WindowSettings {
	if w.Width < MinWindowWidth {
		w.Width = MinWindowWidth
	}
	return w
}

// Bounds returns the lowest and highest intensities inside the window
func (w WindowSettings) Bounds() (low, high float64) {
	return w.Level - w.Width/2, w.Level + w.Width/2
}

// SliceIndices selects one plane along each axis
type SliceIndices struct {
	Z, Y, X int
}

// Get returns the index along the axis
func (s SliceIndices) Get(axis Axis) int {
	switch axis {
	case AxisZ:
		return s.Z
	case AxisY:
		return s.Y
	case AxisX:
		return s.X
	}
	return 0
}

// With returns a copy with the index along the axis replaced
func (s SliceIndices) With(axis Axis, value int) SliceIndices {
	switch axis {
	case AxisZ:
		s.Z = value
	case AxisY:
		s.Y = value
	case AxisX:
		s.X = value
	}
	return s
}

// Clamp limits every index to [0, extent-1] of the volume
func (s SliceIndices) Clamp(v *Volume) SliceIndices {
	return SliceIndices{
		Z: clampIndex(s.Z, v.Depth),
		Y: clampIndex(s.Y, v.Height),
		X: clampIndex(s.X, v.Width),
	}
}

// Midpoint returns the indices of the central voxel
func Midpoint(v *Volume) SliceIndices {
	return SliceIndices{Z: v.Depth / 2, Y: v.Height / 2, X: v.Width / 2}
}

func clampIndex(i, extent int) int {
	if i >= extent {
		i = extent - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

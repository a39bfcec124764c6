package visualization

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"mprviewer/internal/models"
)

// IndexOutOfRangeError reports a slice index outside [0, extent-1].
// Callers clamp indices before extraction, so this marks a programming error.
type IndexOutOfRangeError struct {
	Axis   models.Axis
	Index  int
	Extent int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d]", e.Axis, e.Index, e.Extent-1)
}

// Crosshair holds the overlay lines drawn on a plane: a vertical line at
// column Vertical and a horizontal line at row Horizontal, both in the
// plane's display coordinates.
type Crosshair struct {
	Vertical   int
	Horizontal int
}

// Planes holds the three orthogonal planes through one voxel, in display
// orientation, with the crosshair marking the other two planes on each.
type Planes struct {
	// Axial is rows x columns at the selected depth, rows reversed
	Axial *mat.Dense
	// Coronal is depth x columns at the selected row
	Coronal *mat.Dense
	// Sagittal is depth x rows at the selected column
	Sagittal *mat.Dense

	AxialCrosshair    Crosshair
	CoronalCrosshair  Crosshair
	SagittalCrosshair Crosshair
}

// Plane returns the plane that fixes the axis
func (p *Planes) Plane(axis models.Axis) *mat.Dense {
	switch axis {
	case models.AxisZ:
		return p.Axial
	case models.AxisY:
		return p.Coronal
	case models.AxisX:
		return p.Sagittal
	}
	return nil
}

// Crosshair returns the overlay for the plane that fixes the axis
func (p *Planes) Crosshair(axis models.Axis) Crosshair {
	switch axis {
	case models.AxisZ:
		return p.AxialCrosshair
	case models.AxisY:
		return p.CoronalCrosshair
	case models.AxisX:
		return p.SagittalCrosshair
	}
	return Crosshair{}
}

// ExtractPlanes extracts the axial, coronal and sagittal planes through
// (idx.Z, idx.Y, idx.X) together with their crosshairs. The volume is only read.
func ExtractPlanes(vol *models.Volume, idx models.SliceIndices) (*Planes, error) {
	if err := checkIndices(vol, idx); err != nil {
		return nil, err
	}

	axial, err := ExtractPlane(vol, models.AxisZ, idx.Z)
	if err != nil {
		return nil, err
	}
	coronal, err := ExtractPlane(vol, models.AxisY, idx.Y)
	if err != nil {
		return nil, err
	}
	sagittal, err := ExtractPlane(vol, models.AxisX, idx.X)
	if err != nil {
		return nil, err
	}

	return &Planes{
		Axial:    axial,
		Coronal:  coronal,
		Sagittal: sagittal,
		// The axial rows are reversed, so its row coordinate is mirrored too
		AxialCrosshair:    Crosshair{Vertical: idx.X, Horizontal: MirrorRow(idx.Y, vol.Height)},
		CoronalCrosshair:  Crosshair{Vertical: idx.X, Horizontal: idx.Z},
		SagittalCrosshair: Crosshair{Vertical: idx.Y, Horizontal: idx.Z},
	}, nil
}

// ExtractPlane extracts one plane in display orientation:
//
//	AxisZ: rows x columns at depth index, rows reversed (see FlipRows)
//	AxisY: depth x columns at row index
//	AxisX: depth x rows at column index
func ExtractPlane(vol *models.Volume, axis models.Axis, index int) (*mat.Dense, error) {
	extent := vol.Extent(axis)
	if index < 0 || index >= extent {
		return nil, &IndexOutOfRangeError{Axis: axis, Index: index, Extent: extent}
	}

	switch axis {
	case models.AxisZ:
		// Extract the XY plane; a depth slice is contiguous in the volume
		planeSize := vol.Height * vol.Width
		data := make([]float64, planeSize)
		copy(data, vol.Data[index*planeSize:(index+1)*planeSize])
		return FlipRows(mat.NewDense(vol.Height, vol.Width, data)), nil

	case models.AxisY:
		// Extract the XZ plane
		plane := mat.NewDense(vol.Depth, vol.Width, nil)
		for z := 0; z < vol.Depth; z++ {
			start := (z*vol.Height + index) * vol.Width
			plane.SetRow(z, vol.Data[start:start+vol.Width])
		}
		return plane, nil

	case models.AxisX:
		// Extract the YZ plane
		plane := mat.NewDense(vol.Depth, vol.Height, nil)
		for z := 0; z < vol.Depth; z++ {
			for y := 0; y < vol.Height; y++ {
				plane.Set(z, y, vol.At(z, y, index))
			}
		}
		return plane, nil
	}

	return nil, fmt.Errorf("invalid axis: %d", axis)
}

// FlipRows returns a copy of m with its row order reversed, turning the stored
// axial orientation into the display orientation. Any change here needs the
// matching change in MirrorRow.
func FlipRows(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	flipped := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		flipped.SetRow(rows-1-y, m.RawRowView(y))
	}
	return flipped
}

// MirrorRow maps a row index of the stored orientation to the row it occupies
// after FlipRows over a plane with the given number of rows.
func MirrorRow(row, rows int) int {
	return rows - 1 - row
}

func checkIndices(vol *models.Volume, idx models.SliceIndices) error {
	for _, axis := range []models.Axis{models.AxisZ, models.AxisY, models.AxisX} {
		i, extent := idx.Get(axis), vol.Extent(axis)
		if i < 0 || i >= extent {
			return &IndexOutOfRangeError{Axis: axis, Index: i, Extent: extent}
		}
	}
	return nil
}

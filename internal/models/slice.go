package models

import (
	"gonum.org/v1/gonum/mat"
)

// Default calibration values used when a scan file omits the corresponding tag.
const (
	DefaultRescaleSlope     = 1.0
	DefaultRescaleIntercept = 0.0
	DefaultSliceThickness   = 1.0
	DefaultPixelSpacing     = 1.0
)

// SliceRecord represents one physical cross-section read from a scan file
type SliceRecord struct {
	// Filename is the original filename of the slice
	Filename string

	// Pixels holds the raw sample values, rows x columns
	Pixels *mat.Dense

	// Position is the physical position of the slice along the depth axis.
	// It is only meaningful when HasPosition is set.
	Position    float64
	HasPosition bool

	// PixelSpacing is the physical (row, column) spacing in mm
	PixelSpacing [2]float64

	// Thickness is the physical thickness of the slice in mm
	Thickness float64

	// RescaleSlope and RescaleIntercept convert raw samples to physical units
	RescaleSlope     float64
	RescaleIntercept float64
}

// NewSliceRecord creates a record with default calibration metadata.
// Callers override the fields their source actually provides.
func NewSliceRecord(filename string, pixels *mat.Dense) *SliceRecord {
	return &SliceRecord{
		Filename:         filename,
		Pixels:           pixels,
		PixelSpacing:     [2]float64{DefaultPixelSpacing, DefaultPixelSpacing},
		Thickness:        DefaultSliceThickness,
		RescaleSlope:     DefaultRescaleSlope,
		RescaleIntercept: DefaultRescaleIntercept,
	}
}

// SetPosition records the depth position of the slice
func (s *SliceRecord) SetPosition(pos float64) {
	s.Position = pos
	s.HasPosition = true
}

// Rows returns the number of pixel rows, or 0 when no pixel data is attached
func (s *SliceRecord) Rows() int {
	if s.Pixels == nil {
		return 0
	}
	r, _ := s.Pixels.Dims()
	return r
}

// Columns returns the number of pixel columns, or 0 when no pixel data is attached
func (s *SliceRecord) Columns() int {
	if s.Pixels == nil {
		return 0
	}
	_, c := s.Pixels.Dims()
	return c
}

package reconstruction

import (
	"mprviewer/internal/models"
)

// NewSpacing derives the display aspect ratio of each plane from the physical
// voxel extents. Non-positive extents are treated as 1.0 so every ratio stays finite.
//
//	axial    = row spacing / column spacing
//	coronal  = thickness / column spacing
//	sagittal = thickness / row spacing
func NewSpacing(rowSpacing, colSpacing, thickness float64) models.Spacing {
	rowSpacing = positiveOr(rowSpacing, models.DefaultPixelSpacing)
	colSpacing = positiveOr(colSpacing, models.DefaultPixelSpacing)
	thickness = positiveOr(thickness, models.DefaultSliceThickness)

	return models.Spacing{
		Axial:    rowSpacing / colSpacing,
		Coronal:  thickness / colSpacing,
		Sagittal: thickness / rowSpacing,
	}
}

// SpacingFromRecord derives the aspect ratios from a reference slice
func SpacingFromRecord(ref *models.SliceRecord) models.Spacing {
	return NewSpacing(ref.PixelSpacing[0], ref.PixelSpacing[1], ref.Thickness)
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

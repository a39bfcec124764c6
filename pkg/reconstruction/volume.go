package reconstruction

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"mprviewer/internal/models"
)

// BuildVolume sorts the records by depth position, applies each record's
// rescale calibration and stacks the planes into a volume.
//
// An empty input yields a nil volume and no error. The input slice is not
// reordered.
func BuildVolume(records []*models.SliceRecord) (*models.Volume, error) {
	vol, _, err := buildVolume(records)
	return vol, err
}

// buildVolume is BuildVolume that also returns the reference record, the
// first one in depth order
func buildVolume(records []*models.SliceRecord) (*models.Volume, *models.SliceRecord, error) {
	if len(records) == 0 {
		return nil, nil, nil
	}

	if err := validateRecords(records); err != nil {
		return nil, nil, err
	}

	// Stable so that slices sharing a position keep their input order
	sorted := make([]*models.SliceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	ref := sorted[0]
	rows, cols := ref.Rows(), ref.Columns()
	planeSize := rows * cols

	vol := &models.Volume{
		Data:      make([]float64, len(sorted)*planeSize),
		Width:     cols,
		Height:    rows,
		Depth:     len(sorted),
		Positions: make([]float64, len(sorted)),
		Sources:   make([]string, len(sorted)),
	}
	vol.VoxelSize.X = ref.PixelSpacing[1]
	vol.VoxelSize.Y = ref.PixelSpacing[0]
	vol.VoxelSize.Z = ref.Thickness

	for z, rec := range sorted {
		plane := vol.Data[z*planeSize : (z+1)*planeSize]
		calibrate(plane, rec.Pixels, rec.RescaleSlope, rec.RescaleIntercept)
		vol.Positions[z] = rec.Position
		vol.Sources[z] = rec.Filename
	}

	return vol, ref, nil
}

// validateRecords checks the depth position and pixel grid of every record
func validateRecords(records []*models.SliceRecord) error {
	wantRows, wantCols := records[0].Rows(), records[0].Columns()
	for _, rec := range records {
		if !rec.HasPosition {
			return &MissingMetadataError{File: rec.Filename, Tag: "ImagePositionPatient"}
		}
		rows, cols := rec.Rows(), rec.Columns()
		if rows == 0 || cols == 0 || rows != wantRows || cols != wantCols {
			return &InconsistentGeometryError{
				File:        rec.Filename,
				Rows:        rows,
				Columns:     cols,
				WantRows:    wantRows,
				WantColumns: wantCols,
			}
		}
	}
	return nil
}

// calibrate writes raw*slope + intercept for every pixel into dst, row by row
func calibrate(dst []float64, raw mat.Matrix, slope, intercept float64) {
	rows, cols := raw.Dims()
	for y := 0; y < rows; y++ {
		row := dst[y*cols : (y+1)*cols]
		mat.Row(row, y, raw)
		floats.Scale(slope, row)
		floats.AddConst(intercept, row)
	}
}

package visualization

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"mprviewer/internal/models"
)

// SaveSlice saves a windowed slice as a PNG image
func SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// SaveSliceSequence windows and saves every plane along the axis, in display
// orientation, as outputDir/slice_<plane>_NNN.png
func SaveSliceSequence(vol *models.Volume, axis models.Axis, w models.WindowSettings, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	name := strings.ToLower(axis.String())
	for pos := 0; pos < vol.Extent(axis); pos++ {
		plane, err := ExtractPlane(vol, axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", name, pos))
		if err := SaveSlice(ApplyWindow(plane, w), filename); err != nil {
			return fmt.Errorf("failed to save %s: %w", filename, err)
		}
	}

	return nil
}

// ParseAxis accepts a plane name or axis letter: axial/z, coronal/y, sagittal/x
func ParseAxis(s string) (models.Axis, error) {
	switch strings.ToLower(s) {
	case "axial", "z":
		return models.AxisZ, nil
	case "coronal", "y":
		return models.AxisY, nil
	case "sagittal", "x":
		return models.AxisX, nil
	}
	return 0, fmt.Errorf("invalid axis: %s (must be axial, coronal, sagittal or z, y, x)", s)
}

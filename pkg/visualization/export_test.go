package visualization

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mprviewer/internal/models"
)

// TestSaveSlice verifies that slices can be saved to disk
func TestSaveSlice(t *testing.T) {
	vol := newTestVolume(2, 3, 4, encode)

	plane, err := ExtractPlane(vol, models.AxisZ, 1)
	if err != nil {
		t.Fatalf("Failed to extract slice: %v", err)
	}
	img := ApplyWindow(plane, models.WindowSettings{Level: 10000, Width: 1000})

	filename := filepath.Join(t.TempDir(), "test_slice.png")
	if err := SaveSlice(img, filename); err != nil {
		t.Fatalf("Failed to save slice: %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Saved file does not exist: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Saved file is not a PNG: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("Expected bounds %v, got %v", img.Bounds(), decoded.Bounds())
	}
}

// TestSaveSliceSequence verifies that a sequence of slices can be saved
func TestSaveSliceSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	depth, height, width := 3, 4, 5
	vol := newTestVolume(depth, height, width, encode)
	w := models.WindowSettings{Level: 0, Width: 100}

	for _, axis := range []models.Axis{models.AxisZ, models.AxisY, models.AxisX} {
		outputDir := filepath.Join(t.TempDir(), "slices")
		if err := SaveSliceSequence(vol, axis, w, outputDir); err != nil {
			t.Fatalf("Failed to save %s sequence: %v", axis, err)
		}

		entries, err := os.ReadDir(outputDir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != vol.Extent(axis) {
			t.Errorf("%s: expected %d files, got %d", axis, vol.Extent(axis), len(entries))
		}
	}

	outputDir := filepath.Join(t.TempDir(), "axial")
	if err := SaveSliceSequence(vol, models.AxisZ, w, outputDir); err != nil {
		t.Fatal(err)
	}
	for z := 0; z < depth; z++ {
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_axial_%03d.png", z))
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			t.Errorf("Expected slice file does not exist: %s", filename)
		}
	}
}

func TestParseAxis(t *testing.T) {
	tests := map[string]models.Axis{
		"axial": models.AxisZ, "Z": models.AxisZ,
		"coronal": models.AxisY, "y": models.AxisY,
		"SAGITTAL": models.AxisX, "x": models.AxisX,
	}
	for in, want := range tests {
		got, err := ParseAxis(in)
		if err != nil || got != want {
			t.Errorf("ParseAxis(%q): expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseAxis("oblique"); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

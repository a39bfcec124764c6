package viewer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"

	"mprviewer/internal/models"
	"mprviewer/pkg/config"
	"mprviewer/pkg/reconstruction"
)

// fakeDecoder serves records keyed by base filename
type fakeDecoder map[string]*models.SliceRecord

func (f fakeDecoder) Decode(path string) (*models.SliceRecord, error) {
	rec, ok := f[filepath.Base(path)]
	if !ok {
		return nil, fmt.Errorf("unknown file %s", path)
	}
	return rec, nil
}

// seriesDir creates a directory of depth placeholder files served by a decoder
// with rows x cols slices whose raw values are z*1000 + y*10 + x
func seriesDir(t *testing.T, depth, rows, cols int) (string, fakeDecoder) {
	dir := t.TempDir()
	dec := fakeDecoder{}
	for z := 0; z < depth; z++ {
		name := fmt.Sprintf("IM%03d.dcm", z)
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
		data := make([]float64, rows*cols)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				data[y*cols+x] = float64(z*1000 + y*10 + x)
			}
		}
		rec := models.NewSliceRecord(name, mat.NewDense(rows, cols, data))
		// Reverse positions so sorting has work to do
		rec.SetPosition(float64(depth - z))
		rec.Thickness = 2
		dec[name] = rec
	}
	return dir, dec
}

func TestNewStateIsEmpty(t *testing.T) {
	s := NewState(nil, fakeDecoder{})

	if s.Loaded() || s.Volume() != nil {
		t.Fatal("New state should be Empty")
	}
	if _, err := s.Render(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded, got %v", err)
	}

	want := []Control{
		{Name: ControlAxial, Min: 0, Max: 100},
		{Name: ControlCoronal, Min: 0, Max: 100},
		{Name: ControlSagittal, Min: 0, Max: 100},
		{Name: ControlWindowWidth, Min: 1, Max: 3000, Value: 400},
		{Name: ControlWindowLevel, Min: -1000, Max: 2000, Value: 40},
	}
	if diff := cmp.Diff(want, s.Controls()); diff != "" {
		t.Errorf("Initial controls mismatch (-want +got):\n%s", diff)
	}
	if w := s.Window(); w.Level != 40 || w.Width != 400 {
		t.Errorf("Expected initial window 40/400, got %+v", w)
	}
}

// TestLoadEmptyDirectory leaves an Empty state Empty
func TestLoadEmptyDirectory(t *testing.T) {
	s := NewState(nil, fakeDecoder{})

	err := s.Load(t.TempDir())
	if !reconstruction.IsEmptyInput(err) {
		t.Fatalf("Expected EmptyInputError, got %v", err)
	}
	if s.Loaded() || s.Volume() != nil {
		t.Error("State should remain Empty after loading an empty directory")
	}
}

func TestLoad(t *testing.T) {
	dir, dec := seriesDir(t, 5, 8, 6)
	s := NewState(nil, dec)

	if err := s.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !s.Loaded() {
		t.Fatal("Expected Loaded state")
	}

	if d, h, w := s.Volume().Shape(); d != 5 || h != 8 || w != 6 {
		t.Errorf("Expected shape 5x8x6, got %dx%dx%d", d, h, w)
	}
	// Highest position (IM000) ends up last in depth order
	if got := s.Volume().At(4, 0, 0); got != 0 {
		t.Errorf("Expected IM000 at depth 4, got value %g", got)
	}

	if diff := cmp.Diff(models.SliceIndices{Z: 2, Y: 4, X: 3}, s.Indices()); diff != "" {
		t.Errorf("Indices should start at the midpoint (-want +got):\n%s", diff)
	}

	controls := s.Controls()
	for i, max := range []int{4, 7, 5} {
		if controls[i].Min != 0 || controls[i].Max != max {
			t.Errorf("Control %s: expected range [0, %d], got [%d, %d]",
				controls[i].Name, max, controls[i].Min, controls[i].Max)
		}
	}

	// The estimate is truncated, then clamped to the control ranges
	auto := s.AutoWindow()
	wantLevel := float64(clamp(int(auto.Level), -1000, 2000))
	wantWidth := float64(clamp(int(auto.Width), 1, 3000))
	if w := s.Window(); w.Level != wantLevel || w.Width != wantWidth {
		t.Errorf("Expected window %g/%g from estimate %+v, got %+v", wantLevel, wantWidth, auto, w)
	}
	if s.Spacing() != (models.Spacing{Axial: 1, Coronal: 2, Sagittal: 2}) {
		t.Errorf("Unexpected spacing %+v", s.Spacing())
	}
	if s.Info() == "" {
		t.Error("Expected an info line after load")
	}
}

func TestLoadStartAtZero(t *testing.T) {
	dir, dec := seriesDir(t, 3, 4, 4)
	cfg := config.DefaultConfig()
	cfg.Viewer.StartAtMidpoint = false
	s := NewState(cfg, dec)

	s.SetIndices(models.SliceIndices{Z: 50, Y: 50, X: 50})
	if err := s.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(models.SliceIndices{}, s.Indices()); diff != "" {
		t.Errorf("Expected zero indices (-want +got):\n%s", diff)
	}
}

// TestFailedLoadPreservesState checks that every load failure keeps the previous volume and view
func TestFailedLoadPreservesState(t *testing.T) {
	dir, dec := seriesDir(t, 4, 6, 6)
	s := NewState(nil, dec)
	if err := s.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s.SetIndex(models.AxisY, 1)
	s.SetWindow(100, 50)

	before := s.Volume()
	beforeIdx, beforeWin, beforeInfo := s.Indices(), s.Window(), s.Info()
	beforeControls := s.Controls()

	// Empty directory
	if err := s.Load(t.TempDir()); !reconstruction.IsEmptyInput(err) {
		t.Errorf("Expected EmptyInputError, got %v", err)
	}

	// Missing position
	badDir, badDec := seriesDir(t, 3, 6, 6)
	badDec["IM001.dcm"].HasPosition = false
	s.decoder = badDec
	var missing *reconstruction.MissingMetadataError
	if err := s.Load(badDir); !errors.As(err, &missing) {
		t.Errorf("Expected MissingMetadataError, got %v", err)
	}

	// Mismatched geometry
	geoDir, geoDec := seriesDir(t, 3, 6, 6)
	geoDec["IM002.dcm"].Pixels = mat.NewDense(5, 6, nil)
	s.decoder = geoDec
	var geom *reconstruction.InconsistentGeometryError
	if err := s.Load(geoDir); !errors.As(err, &geom) {
		t.Errorf("Expected InconsistentGeometryError, got %v", err)
	}

	if s.Volume() != before {
		t.Error("Failed loads must not replace the volume")
	}
	if s.Indices() != beforeIdx || s.Window() != beforeWin || s.Info() != beforeInfo {
		t.Error("Failed loads must not change indices, window or info")
	}
	if diff := cmp.Diff(beforeControls, s.Controls()); diff != "" {
		t.Errorf("Failed loads must not change controls (-want +got):\n%s", diff)
	}
}

func TestSetControlsClamp(t *testing.T) {
	dir, dec := seriesDir(t, 3, 5, 7)
	s := NewState(nil, dec)
	if err := s.Load(dir); err != nil {
		t.Fatal(err)
	}

	s.SetIndices(models.SliceIndices{Z: 99, Y: -4, X: 6})
	if diff := cmp.Diff(models.SliceIndices{Z: 2, Y: 0, X: 6}, s.Indices()); diff != "" {
		t.Errorf("Indices not clamped (-want +got):\n%s", diff)
	}

	s.SetWindow(-5000, 0)
	if w := s.Window(); w.Level != -1000 || w.Width != 1 {
		t.Errorf("Expected window clamped to -1000/1, got %+v", w)
	}
	s.SetWindow(2500, 10000)
	if w := s.Window(); w.Level != 2000 || w.Width != 3000 {
		t.Errorf("Expected window clamped to 2000/3000, got %+v", w)
	}

	if err := s.SetControl(ControlSagittal, 2); err != nil {
		t.Fatal(err)
	}
	if s.Indices().X != 2 {
		t.Errorf("Expected sagittal index 2, got %d", s.Indices().X)
	}
	if err := s.SetControl("Zoom", 1); err == nil {
		t.Error("Expected error for unknown control")
	}
}

func TestReset(t *testing.T) {
	dir, dec := seriesDir(t, 3, 4, 4)
	s := NewState(nil, dec)
	if err := s.Load(dir); err != nil {
		t.Fatal(err)
	}

	s.Reset()
	if s.Loaded() || s.Volume() != nil || s.Info() != "" {
		t.Error("Reset should return to the Empty state")
	}
	if _, err := s.Render(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Expected ErrNotLoaded after reset, got %v", err)
	}

	// A new load works after a reset
	if err := s.Load(dir); err != nil || !s.Loaded() {
		t.Errorf("Reload after reset failed: %v", err)
	}
}

// TestReloadReplacesVolume swaps datasets wholesale
func TestReloadReplacesVolume(t *testing.T) {
	dirA, decA := seriesDir(t, 3, 4, 4)
	dirB, decB := seriesDir(t, 6, 2, 3)

	s := NewState(nil, decA)
	if err := s.Load(dirA); err != nil {
		t.Fatal(err)
	}
	first := s.Volume()

	s.decoder = decB
	if err := s.Load(dirB); err != nil {
		t.Fatal(err)
	}
	if s.Volume() == first {
		t.Fatal("Expected a new volume")
	}
	if d, h, w := s.Volume().Shape(); d != 6 || h != 2 || w != 3 {
		t.Errorf("Expected shape 6x2x3, got %dx%dx%d", d, h, w)
	}
	if first.Depth != 3 {
		t.Error("The previous volume must not be modified")
	}
}

package viewer

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mprviewer/internal/models"
	"mprviewer/pkg/visualization"
)

func TestRender(t *testing.T) {
	dir, dec := seriesDir(t, 3, 100, 4)
	s := NewState(nil, dec)
	if err := s.Load(dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s.SetIndices(models.SliceIndices{Z: 2, Y: 30, X: 1})

	frame, err := s.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	tests := []struct {
		axis       models.Axis
		title      string
		rows, cols int
		aspect     float64
		crosshair  visualization.Crosshair
		accent     string
		vert, horz string
	}{
		{models.AxisZ, "Axial\nSlice: 2", 100, 4, 1, visualization.Crosshair{Vertical: 1, Horizontal: 69}, "cyan", "red", "lime"},
		{models.AxisY, "Coronal\nSlice: 30", 3, 4, 2, visualization.Crosshair{Vertical: 1, Horizontal: 2}, "lime", "red", "cyan"},
		{models.AxisX, "Sagittal\nSlice: 1", 3, 100, 2, visualization.Crosshair{Vertical: 30, Horizontal: 2}, "red", "lime", "cyan"},
	}
	colors := map[string]color.RGBA{"cyan": AxialColor, "lime": CoronalColor, "red": SagittalColor}

	for i, tt := range tests {
		v := frame.Views[i]
		if v.Axis != tt.axis {
			t.Errorf("View %d: expected axis %s, got %s", i, tt.axis, v.Axis)
		}
		if v.Title != tt.title {
			t.Errorf("%s: expected title %q, got %q", tt.axis, tt.title, v.Title)
		}
		b := v.Image.Bounds()
		if b.Dy() != tt.rows || b.Dx() != tt.cols {
			t.Errorf("%s: expected %dx%d image, got %dx%d", tt.axis, tt.rows, tt.cols, b.Dy(), b.Dx())
		}
		if v.Aspect != tt.aspect {
			t.Errorf("%s: expected aspect %g, got %g", tt.axis, tt.aspect, v.Aspect)
		}
		if v.Crosshair != tt.crosshair {
			t.Errorf("%s: expected crosshair %+v, got %+v", tt.axis, tt.crosshair, v.Crosshair)
		}
		if v.Accent != colors[tt.accent] {
			t.Errorf("%s: expected %s accent, got %v", tt.axis, tt.accent, v.Accent)
		}
		if v.VerticalColor != colors[tt.vert] || v.HorizontalColor != colors[tt.horz] {
			t.Errorf("%s: expected %s/%s lines, got %v/%v", tt.axis, tt.vert, tt.horz, v.VerticalColor, v.HorizontalColor)
		}
	}
}

// TestRenderWindowing checks that pixel values follow the current window
func TestRenderWindowing(t *testing.T) {
	dir, dec := seriesDir(t, 2, 2, 2)
	s := NewState(nil, dec)
	if err := s.Load(dir); err != nil {
		t.Fatal(err)
	}
	s.SetIndices(models.SliceIndices{})

	// IM001 sorts first, so the axial view at depth 0 holds 1000 1001 1010 1011
	// and a narrow window above them saturates to 0
	s.SetWindow(2000, 10)
	frame, err := s.Render()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range frame.Views[0].Image.Pix {
		if p != 0 {
			t.Fatalf("Expected all-black axial view, got %v", frame.Views[0].Image.Pix)
		}
	}

	s.SetWindow(-1000, 10)
	frame, err = s.Render()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range frame.Views[0].Image.Pix {
		if p != 255 {
			t.Fatalf("Expected all-white axial view, got %v", frame.Views[0].Image.Pix)
		}
	}
}

func TestRenderIdempotent(t *testing.T) {
	dir, dec := seriesDir(t, 4, 5, 6)
	s := NewState(nil, dec)
	if err := s.Load(dir); err != nil {
		t.Fatal(err)
	}
	vol := s.Volume()
	data := append([]float64(nil), vol.Data...)

	first, err := s.Render()
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Render()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Repeated renders differ (-first +second):\n%s", diff)
	}
	if s.Volume() != vol {
		t.Error("Render must not replace the volume")
	}
	if diff := cmp.Diff(data, vol.Data); diff != "" {
		t.Errorf("Render modified the volume (-before +after):\n%s", diff)
	}
}

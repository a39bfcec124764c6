package visualization

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	"mprviewer/internal/models"
)

// WindowValue maps one intensity to the 8-bit display range:
// (v - low) / max(high - low, 1), clamped to [0, 1], scaled to 255 and truncated.
func WindowValue(v float64, w models.WindowSettings) uint8 {
	low, high := w.Bounds()
	n := (v - low) / math.Max(high-low, models.MinWindowWidth)
	if n < 0 || math.IsNaN(n) {
		n = 0
	} else if n > 1 {
		n = 1
	}
	return uint8(n * 255)
}

// ApplyWindow maps every element of the plane to 8-bit grayscale.
// Image row i holds plane row i.
func ApplyWindow(plane mat.Matrix, w models.WindowSettings) *image.Gray {
	rows, cols := plane.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		line := img.Pix[y*img.Stride : y*img.Stride+cols]
		for x := range line {
			line[x] = WindowValue(plane.At(y, x), w)
		}
	}
	return img
}

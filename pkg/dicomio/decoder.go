// Package dicomio reads scan slices from DICOM files.
package dicomio

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"gonum.org/v1/gonum/mat"

	"mprviewer/internal/models"
)

// Decoder turns one scan file into a SliceRecord
type Decoder interface {
	Decode(path string) (*models.SliceRecord, error)
}

// FileDecoder decodes DICOM files from disk
type FileDecoder struct{}

// NewFileDecoder creates a DICOM file decoder
func NewFileDecoder() *FileDecoder {
	return &FileDecoder{}
}

// Decode parses the file and extracts its first frame together with the
// position and calibration tags. A missing ImagePositionPatient is not an
// error here; the record is returned with HasPosition unset.
func (d *FileDecoder) Decode(path string) (*models.SliceRecord, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return RecordFromDataset(filepath.Base(path), &ds)
}

// RecordFromDataset builds a SliceRecord from an already parsed dataset
func RecordFromDataset(name string, ds *dicom.Dataset) (*models.SliceRecord, error) {
	pixels, err := readPixels(ds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	rec := models.NewSliceRecord(name, pixels)

	if pos, ok := floatValues(ds, tag.ImagePositionPatient); ok && len(pos) >= 3 {
		// The third component is the patient z coordinate, used as the depth key
		rec.SetPosition(pos[2])
	}
	if spacing, ok := floatValues(ds, tag.PixelSpacing); ok && len(spacing) >= 2 {
		rec.PixelSpacing = [2]float64{spacing[0], spacing[1]}
	}
	if v, ok := firstFloat(ds, tag.SliceThickness); ok {
		rec.Thickness = v
	}
	if v, ok := firstFloat(ds, tag.RescaleSlope); ok {
		rec.RescaleSlope = v
	}
	if v, ok := firstFloat(ds, tag.RescaleIntercept); ok {
		rec.RescaleIntercept = v
	}

	return rec, nil
}

// readPixels converts the first native frame to a rows x columns matrix
func readPixels(ds *dicom.Dataset) (*mat.Dense, error) {
	elem, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("no pixel data: %w", err)
	}
	info, ok := elem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok {
		return nil, fmt.Errorf("unexpected pixel data value %T", elem.Value.GetValue())
	}
	if len(info.Frames) == 0 || info.Frames[0] == nil {
		return nil, fmt.Errorf("pixel data has no frames")
	}

	fr := info.Frames[0]
	if fr.Encapsulated {
		return nil, fmt.Errorf("encapsulated (compressed) pixel data is not supported")
	}
	native := fr.NativeData
	if native == nil {
		return nil, fmt.Errorf("pixel data has no native frame")
	}

	rows, cols := native.Rows(), native.Cols()
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", rows, cols)
	}

	signed := false
	if v, ok := firstInt(ds, tag.PixelRepresentation); ok && v == 1 {
		signed = true
	}
	bitsStored := native.BitsPerSample()
	if v, ok := firstInt(ds, tag.BitsStored); ok && v > 0 {
		bitsStored = v
	}

	pixels := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			sample, err := native.GetPixel(x, y)
			if err != nil {
				return nil, fmt.Errorf("pixel (%d,%d): %w", x, y, err)
			}
			v := sample[0]
			if signed {
				v = signExtend(v, bitsStored)
			}
			pixels.Set(y, x, float64(v))
		}
	}
	return pixels, nil
}

// signExtend interprets the low bits of an unsigned sample as two's complement
func signExtend(v, bits int) int {
	if bits <= 0 || bits >= 63 || v < 0 {
		return v
	}
	if v >= 1<<(bits-1) && v < 1<<bits {
		return v - 1<<bits
	}
	return v
}

// floatValues returns the numeric values of a tag; ok is false when the tag
// is absent or not numeric
func floatValues(ds *dicom.Dataset, t tag.Tag) ([]float64, bool) {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem.Value == nil {
		return nil, false
	}

	switch v := elem.Value.GetValue().(type) {
	case []string:
		out := make([]float64, 0, len(v))
		for _, s := range v {
			// Multi-valued DS strings occasionally arrive unsplit
			for _, part := range strings.Split(s, "\\") {
				f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
				if err != nil {
					return nil, false
				}
				out = append(out, f)
			}
		}
		return out, len(out) > 0
	case []float64:
		return v, len(v) > 0
	case []int:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out, len(out) > 0
	}
	return nil, false
}

func firstFloat(ds *dicom.Dataset, t tag.Tag) (float64, bool) {
	v, ok := floatValues(ds, t)
	if !ok {
		return 0, false
	}
	return v[0], true
}

func firstInt(ds *dicom.Dataset, t tag.Tag) (int, bool) {
	v, ok := firstFloat(ds, t)
	return int(v), ok
}

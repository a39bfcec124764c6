package reconstruction

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"mprviewer/internal/models"
	"mprviewer/pkg/dicomio"
	"mprviewer/pkg/logging"
)

// Params holds the parameters of one directory load
type Params struct {
	// InputDir is the directory containing the scan files
	InputDir string

	// Extensions lists the recognized file extensions, lower case with the dot.
	// Defaults to ".dcm" when empty.
	Extensions []string

	// Decoder reads a single scan file. Defaults to a DICOM file decoder.
	Decoder dicomio.Decoder
}

// Reconstructor turns a directory of cross-sectional scans into a volume.
//
// The reconstruction process consists of several steps:
// 1. Scanning the input directory for recognized scan files
// 2. Decoding each file into a SliceRecord
// 3. Sorting by depth position, calibrating and stacking into a Volume
// 4. Deriving the display aspect ratios from the reference slice
//
// Nothing is exposed unless every step succeeds.
type Reconstructor struct {
	// params stores the load configuration
	params *Params

	// slices holds the decoded records in filename order
	slices []*models.SliceRecord

	// volume, reference and spacing are set only after a successful Process
	volume    *models.Volume
	reference *models.SliceRecord
	spacing   models.Spacing
}

// NewReconstructor creates a new reconstructor instance with the provided parameters
func NewReconstructor(params *Params) *Reconstructor {
	if len(params.Extensions) == 0 {
		params.Extensions = []string{".dcm"}
	}
	if params.Decoder == nil {
		params.Decoder = dicomio.NewFileDecoder()
	}
	return &Reconstructor{
		params: params,
		slices: make([]*models.SliceRecord, 0),
	}
}

// Process runs the complete load pipeline. It returns an *EmptyInputError when
// the directory holds no recognized files, and a *MissingMetadataError or
// *InconsistentGeometryError when the slices cannot form a volume.
func (r *Reconstructor) Process() error {
	// Step 1 and 2: find and decode the scan files
	if err := r.loadSlices(); err != nil {
		return err
	}

	// Step 3: build the volume
	vol, ref, err := buildVolume(r.slices)
	if err != nil {
		return fmt.Errorf("failed to build volume from %s: %w", r.params.InputDir, err)
	}

	// Step 4: aspect ratios from the reference slice
	r.volume = vol
	r.reference = ref
	r.spacing = SpacingFromRecord(ref)

	logging.Infof("Built volume %dx%dx%d (%s) from %s",
		vol.Depth, vol.Height, vol.Width, humanize.Bytes(vol.SizeBytes()), r.params.InputDir)
	logging.Debugf("Aspect ratios: axial %.3f, coronal %.3f, sagittal %.3f",
		r.spacing.Axial, r.spacing.Coronal, r.spacing.Sagittal)
	return nil
}

// loadSlices reads and decodes every recognized file of the input directory.
// Files are decoded in filename order so that slices sharing a depth position
// keep a deterministic order.
func (r *Reconstructor) loadSlices() error {
	entries, err := os.ReadDir(r.params.InputDir)
	if err != nil {
		return fmt.Errorf("failed to read input directory: %w", err)
	}

	var scanFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if r.recognized(entry.Name()) {
			scanFiles = append(scanFiles, entry.Name())
		}
	}

	if len(scanFiles) == 0 {
		return &EmptyInputError{Dir: r.params.InputDir, Extensions: r.params.Extensions}
	}

	sort.Slice(scanFiles, func(i, j int) bool {
		numI, numJ := extractNumber(scanFiles[i]), extractNumber(scanFiles[j])
		if numI != numJ {
			return numI < numJ
		}
		return scanFiles[i] < scanFiles[j]
	})

	slices := make([]*models.SliceRecord, 0, len(scanFiles))
	for _, name := range scanFiles {
		rec, err := r.params.Decoder.Decode(filepath.Join(r.params.InputDir, name))
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", name, err)
		}
		if rec.Filename == "" {
			rec.Filename = name
		}
		slices = append(slices, rec)
	}

	r.slices = slices
	logging.Debugf("Decoded %d scan files from %s", len(slices), r.params.InputDir)
	return nil
}

// recognized reports whether the filename carries one of the configured extensions
func (r *Reconstructor) recognized(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range r.params.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	numStr := ""
	for _, c := range base {
		if c >= '0' && c <= '9' {
			numStr += string(c)
		}
	}

	if numStr != "" {
		num, err := strconv.Atoi(numStr)
		if err == nil {
			return num
		}
	}
	return 0
}

// Volume returns the reconstructed volume, or nil before a successful Process
func (r *Reconstructor) Volume() *models.Volume {
	return r.volume
}

// Reference returns the slice with the lowest depth position, or nil before a
// successful Process. Its pixel spacing and thickness define the voxel size.
func (r *Reconstructor) Reference() *models.SliceRecord {
	return r.reference
}

// Spacing returns the aspect ratios derived from the reference slice
func (r *Reconstructor) Spacing() models.Spacing {
	return r.spacing
}

// Summary describes the loaded dataset in one line
func (r *Reconstructor) Summary() string {
	if r.volume == nil {
		return ""
	}
	return fmt.Sprintf("Size: %dx%d | Thickness: %gmm | Slices: %d | Memory: %s",
		r.volume.Height, r.volume.Width, r.volume.VoxelSize.Z, r.volume.Depth,
		humanize.Bytes(r.volume.SizeBytes()))
}

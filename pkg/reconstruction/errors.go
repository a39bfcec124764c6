package reconstruction

import (
	"errors"
	"fmt"
)

// EmptyInputError reports a directory without any recognized scan files.
// Loading such a directory is a no-op for the caller.
type EmptyInputError struct {
	Dir        string
	Extensions []string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no scan files with extensions %v found in %s", e.Extensions, e.Dir)
}

// MissingMetadataError reports a scan file without a mandatory tag
type MissingMetadataError struct {
	File string
	Tag  string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("%s: missing mandatory %s", e.File, e.Tag)
}

// InconsistentGeometryError reports a slice whose pixel grid differs from the reference slice
type InconsistentGeometryError struct {
	File                  string
	Rows, Columns         int
	WantRows, WantColumns int
}

func (e *InconsistentGeometryError) Error() string {
	return fmt.Sprintf("%s: pixel grid %dx%d does not match %dx%d",
		e.File, e.Rows, e.Columns, e.WantRows, e.WantColumns)
}

// IsEmptyInput reports whether err is, or wraps, an EmptyInputError
func IsEmptyInput(err error) bool {
	var empty *EmptyInputError
	return errors.As(err, &empty)
}

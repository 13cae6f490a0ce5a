// Package dicomreader extracts the imaging geometry fields of a radiographic
// DICOM image into a typed FieldSet.
package dicomreader

import (
	"errors"
	"fmt"

	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/cjeanneret/RadFOV/internal/logic/geometry"
)

var (
	// ErrMissingTag is wrapped by HeaderReadError when a required tag is absent.
	ErrMissingTag = errors.New("required tag missing")
	// ErrMalformedValue is wrapped by HeaderReadError when a tag holds a
	// value of the wrong kind or multiplicity.
	ErrMalformedValue = errors.New("malformed value")
)

// Header tags read by the accessor.
var (
	TagDistanceSourceToDetector   = tag.Tag{Group: 0x0018, Element: 0x1110}
	TagDistanceSourceToPatient    = tag.Tag{Group: 0x0018, Element: 0x1111}
	TagDistanceSourceToEntrance   = tag.Tag{Group: 0x0040, Element: 0x0306}
	TagImagerPixelSpacing         = tag.Tag{Group: 0x0018, Element: 0x1164}
	TagPositionerPrimaryAngle     = tag.Tag{Group: 0x0018, Element: 0x1510}
	TagPositionerSecondaryAngle   = tag.Tag{Group: 0x0018, Element: 0x1511}
	TagRows                       = tag.Tag{Group: 0x0028, Element: 0x0010}
	TagColumns                    = tag.Tag{Group: 0x0028, Element: 0x0011}
	TagShutterLeftVerticalEdge    = tag.Tag{Group: 0x0018, Element: 0x1602}
	TagShutterRightVerticalEdge   = tag.Tag{Group: 0x0018, Element: 0x1604}
	TagShutterUpperHorizontalEdge = tag.Tag{Group: 0x0018, Element: 0x1606}
	TagShutterLowerHorizontalEdge = tag.Tag{Group: 0x0018, Element: 0x1608}
)

// FieldSet is the typed view of the header fields used by the geometry
// derivation.
type FieldSet struct {
	DistanceSourceToDetector float64    // mm
	ImagerPixelSpacing       [2]float64 // mm, in header order
	Rows                     int
	Columns                  int
	LeftEdge                 int
	RightEdge                int
	UpperEdge                int
	LowerEdge                int

	// Acquisition values reported for context only; nil when absent.
	DistanceSourceToPatient  *float64 // mm
	DistanceSourceToEntrance *float64 // mm
	PositionerPrimaryAngle   *float64 // degrees
	PositionerSecondaryAngle *float64 // degrees
}

// GeometryInput returns the fields needed by geometry.Derive.
func (f *FieldSet) GeometryInput() geometry.Input {
	return geometry.Input{
		DistanceSourceToDetector: f.DistanceSourceToDetector,
		ImagerPixelSpacing:       f.ImagerPixelSpacing,
		Rows:                     f.Rows,
		Columns:                  f.Columns,
		LeftEdge:                 f.LeftEdge,
		RightEdge:                f.RightEdge,
		UpperEdge:                f.UpperEdge,
		LowerEdge:                f.LowerEdge,
	}
}

// HeaderReadError reports a file that could not be read or that lacks a
// usable value for one of the required tags.
type HeaderReadError struct {
	Path  string
	Field string // empty for file-level failures
	Tag   tag.Tag
	Err   error
}

func (e *HeaderReadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("read header %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("read header %s: %s %s: %v", e.Path, formatTag(e.Tag), e.Field, e.Err)
}

func (e *HeaderReadError) Unwrap() error {
	return e.Err
}

// formatTag renders a tag as (gggg,eeee).
func formatTag(t tag.Tag) string {
	return fmt.Sprintf("(%04x,%04x)", t.Group, t.Element)
}

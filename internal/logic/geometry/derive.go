package geometry

import (
	"fmt"
	"math"

	"github.com/cjeanneret/RadFOV/internal/debug"
)

// Input holds the header fields the derivation needs.
type Input struct {
	DistanceSourceToDetector float64    // mm
	ImagerPixelSpacing       [2]float64 // mm, ordered as stored in the header
	Rows                     int
	Columns                  int
	LeftEdge                 int
	RightEdge                int
	UpperEdge                int
	LowerEdge                int
}

// Record is the derived imaging geometry of one image.
type Record struct {
	SensorWidthPx  int
	SensorHeightPx int
	SensorWidthMm  float64
	SensorHeightMm float64

	// Active image region, both edges inclusive.
	ImageWidthPx  int
	ImageHeightPx int
	ImageWidthMm  float64
	ImageHeightMm float64

	FOVXRad float64
	FOVYRad float64
	FOVXDeg float64
	FOVYDeg float64
}

// InvalidGeometryError reports an input that cannot produce a meaningful
// geometry.
type InvalidGeometryError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks the preconditions of Derive.
func (in Input) Validate() error {
	d := in.DistanceSourceToDetector
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return &InvalidGeometryError{Field: "distance_source_to_detector", Value: d, Reason: "must be a finite value > 0"}
	}
	for i, s := range in.ImagerPixelSpacing {
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return &InvalidGeometryError{
				Field:  fmt.Sprintf("imager_pixel_spacing[%d]", i),
				Value:  s,
				Reason: "must be a finite value > 0",
			}
		}
	}
	if in.Rows <= 0 {
		return &InvalidGeometryError{Field: "rows", Value: in.Rows, Reason: "must be > 0"}
	}
	if in.Columns <= 0 {
		return &InvalidGeometryError{Field: "columns", Value: in.Columns, Reason: "must be > 0"}
	}
	if in.RightEdge < in.LeftEdge {
		return &InvalidGeometryError{
			Field:  "right_edge",
			Value:  in.RightEdge,
			Reason: fmt.Sprintf("must be >= left_edge (%d)", in.LeftEdge),
		}
	}
	if in.LowerEdge < in.UpperEdge {
		return &InvalidGeometryError{
			Field:  "lower_edge",
			Value:  in.LowerEdge,
			Reason: fmt.Sprintf("must be >= upper_edge (%d)", in.UpperEdge),
		}
	}
	return nil
}

// Derive computes sensor size, active image size and field of view.
// The order decides which pixel spacing component is paired with which axis.
func Derive(in Input, order SpacingOrder) (*Record, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rowSpacing, colSpacing := order.Split(in.ImagerPixelSpacing)
	debug.Verbose("Pixel spacing (%s): row=%gmm column=%gmm", order, rowSpacing, colSpacing)

	r := &Record{
		SensorWidthPx:  in.Columns,
		SensorHeightPx: in.Rows,
		SensorWidthMm:  float64(in.Columns) * colSpacing,
		SensorHeightMm: float64(in.Rows) * rowSpacing,
		ImageWidthPx:   in.RightEdge - in.LeftEdge + 1,
		ImageHeightPx:  in.LowerEdge - in.UpperEdge + 1,
	}
	r.ImageWidthMm = float64(r.ImageWidthPx) * colSpacing
	r.ImageHeightMm = float64(r.ImageHeightPx) * rowSpacing

	r.FOVXRad = FOV(r.ImageWidthMm, in.DistanceSourceToDetector)
	r.FOVYRad = FOV(r.ImageHeightMm, in.DistanceSourceToDetector)
	r.FOVXDeg = Degrees(r.FOVXRad)
	r.FOVYDeg = Degrees(r.FOVYRad)

	debug.PrintStruct("Derived geometry", *r)
	return r, nil
}

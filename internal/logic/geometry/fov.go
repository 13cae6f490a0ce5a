package geometry

import (
	"fmt"
	"math"
	"strings"
)

// SpacingOrder names which Imager Pixel Spacing component belongs to which
// axis. The header stores the pair as two numbers; which one is the row
// (vertical) spacing is a convention, not something the file states.
type SpacingOrder int

const (
	// RowColumn reads the pair as (row spacing, column spacing).
	RowColumn SpacingOrder = iota
	// ColumnRow reads the pair as (column spacing, row spacing).
	ColumnRow
)

// String returns the configuration name of the order.
func (o SpacingOrder) String() string {
	switch o {
	case RowColumn:
		return "row_column"
	case ColumnRow:
		return "column_row"
	default:
		return fmt.Sprintf("SpacingOrder(%d)", int(o))
	}
}

// ParseSpacingOrder converts a configuration name into a SpacingOrder.
// The empty string selects RowColumn.
func ParseSpacingOrder(s string) (SpacingOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "row_column":
		return RowColumn, nil
	case "column_row":
		return ColumnRow, nil
	default:
		return RowColumn, fmt.Errorf("unknown pixel spacing order %q (want row_column or column_row)", s)
	}
}

// Split returns the row (vertical) and column (horizontal) spacing in mm.
func (o SpacingOrder) Split(spacing [2]float64) (rowMm, colMm float64) {
	if o == ColumnRow {
		return spacing[1], spacing[0]
	}
	return spacing[0], spacing[1]
}

// FOV returns the angle in radians subtended by a region of sizeMm seen
// from distanceMm away.
// Formula: FOV = 2 × arctan(size / 2 / distance)
func FOV(sizeMm, distanceMm float64) float64 {
	return 2.0 * math.Atan(sizeMm/2.0/distanceMm)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad / (2.0 * math.Pi) * 360.0
}

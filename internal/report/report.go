// Package report renders a derived geometry as human-readable text.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cjeanneret/RadFOV/internal/logic/geometry"
)

// Format renders r as three labeled sections: sensor size, image size and
// field of view.
func Format(r *geometry.Record) string {
	var b strings.Builder

	b.WriteString("DICOM Data:\n")

	b.WriteString("\nSensor size:\n")
	line(&b, "width:", strconv.Itoa(r.SensorWidthPx), "px")
	line(&b, "height:", strconv.Itoa(r.SensorHeightPx), "px")
	line(&b, "width:", num(r.SensorWidthMm), "mm")
	line(&b, "height:", num(r.SensorHeightMm), "mm")

	b.WriteString("\nImage size:\n")
	line(&b, "width:", strconv.Itoa(r.ImageWidthPx), "px")
	line(&b, "height:", strconv.Itoa(r.ImageHeightPx), "px")
	line(&b, "width:", num(r.ImageWidthMm), "mm")
	line(&b, "height:", num(r.ImageHeightMm), "mm")

	b.WriteString("\nFOV:\n")
	line(&b, "FOV X:", num(r.FOVXRad), "rad")
	line(&b, "FOV Y:", num(r.FOVYRad), "rad")
	line(&b, "FOV X:", num(r.FOVXDeg), "°")
	line(&b, "FOV Y:", num(r.FOVYDeg), "°")

	return b.String()
}

// Write writes the formatted report to w.
func Write(w io.Writer, r *geometry.Record) error {
	_, err := io.WriteString(w, Format(r))
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func line(b *strings.Builder, label, value, unit string) {
	b.WriteString(label)
	b.WriteByte(' ')
	b.WriteString(value)
	b.WriteString(unit)
	b.WriteByte('\n')
}

// num prints the shortest representation that round-trips.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

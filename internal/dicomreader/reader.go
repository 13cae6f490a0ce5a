package dicomreader

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/cjeanneret/RadFOV/internal/debug"
)

// ReadFields parses the DICOM file at path, skipping pixel data, and
// extracts its geometry fields. Every failure is a *HeaderReadError.
func ReadFields(path string) (*FieldSet, error) {
	debug.Live("Parsing DICOM header: %s", path)
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return nil, &HeaderReadError{Path: path, Err: err}
	}
	debug.Verbose("Parsed %d elements", len(ds.Elements))

	fields, err := FieldsFromDataset(&ds)
	if err != nil {
		var hre *HeaderReadError
		if errors.As(err, &hre) {
			hre.Path = path
		}
		return nil, err
	}
	return fields, nil
}

// FieldsFromDataset maps an already parsed dataset onto a FieldSet.
// Required tags must be present with numeric values of the right
// multiplicity; supplementary tags are optional.
func FieldsFromDataset(ds *dicom.Dataset) (*FieldSet, error) {
	r := datasetReader{ds: ds}
	f := &FieldSet{}

	f.DistanceSourceToDetector = r.number("DistanceSourceToDetector", TagDistanceSourceToDetector)
	spacing := r.floats("ImagerPixelSpacing", TagImagerPixelSpacing, 2)
	if len(spacing) == 2 {
		f.ImagerPixelSpacing = [2]float64{spacing[0], spacing[1]}
	}
	f.Rows = r.integer("Rows", TagRows)
	f.Columns = r.integer("Columns", TagColumns)
	f.LeftEdge = r.integer("ShutterLeftVerticalEdge", TagShutterLeftVerticalEdge)
	f.RightEdge = r.integer("ShutterRightVerticalEdge", TagShutterRightVerticalEdge)
	f.UpperEdge = r.integer("ShutterUpperHorizontalEdge", TagShutterUpperHorizontalEdge)
	f.LowerEdge = r.integer("ShutterLowerHorizontalEdge", TagShutterLowerHorizontalEdge)
	if r.err != nil {
		return nil, r.err
	}

	f.DistanceSourceToPatient = r.optionalFloat("DistanceSourceToPatient", TagDistanceSourceToPatient)
	f.DistanceSourceToEntrance = r.optionalFloat("DistanceSourceToEntrance", TagDistanceSourceToEntrance)
	f.PositionerPrimaryAngle = r.optionalFloat("PositionerPrimaryAngle", TagPositionerPrimaryAngle)
	f.PositionerSecondaryAngle = r.optionalFloat("PositionerSecondaryAngle", TagPositionerSecondaryAngle)

	return f, nil
}

// datasetReader looks up tags and keeps the first error, so the mapping
// above reads as a flat list of fields.
type datasetReader struct {
	ds  *dicom.Dataset
	err error
}

func (r *datasetReader) fail(name string, t tag.Tag, err error) {
	if r.err == nil {
		r.err = &HeaderReadError{Field: name, Tag: t, Err: err}
	}
}

// values returns the numeric values of the element with tag t.
// found is false when the element is absent.
func (r *datasetReader) values(name string, t tag.Tag) (vals []float64, found bool, err error) {
	el, err := r.ds.FindElementByTag(t)
	if err != nil {
		if errors.Is(err, dicom.ErrorElementNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if el.Value == nil {
		return nil, true, fmt.Errorf("%w: empty element", ErrMalformedValue)
	}
	vals, err = numericValues(el.Value)
	if err != nil {
		return nil, true, err
	}
	debug.Tag(name, formatTag(t), vals)
	return vals, true, nil
}

func (r *datasetReader) floats(name string, t tag.Tag, n int) []float64 {
	if r.err != nil {
		return nil
	}
	vals, found, err := r.values(name, t)
	switch {
	case err != nil:
		r.fail(name, t, err)
		return nil
	case !found:
		r.fail(name, t, ErrMissingTag)
		return nil
	case len(vals) != n:
		r.fail(name, t, fmt.Errorf("%w: want %d values, got %d", ErrMalformedValue, n, len(vals)))
		return nil
	}
	return vals
}

func (r *datasetReader) number(name string, t tag.Tag) float64 {
	vals := r.floats(name, t, 1)
	if len(vals) != 1 {
		return 0
	}
	return vals[0]
}

func (r *datasetReader) integer(name string, t tag.Tag) int {
	vals := r.floats(name, t, 1)
	if len(vals) != 1 {
		return 0
	}
	v := vals[0]
	if v != math.Trunc(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
		r.fail(name, t, fmt.Errorf("%w: %v is not an integer", ErrMalformedValue, v))
		return 0
	}
	return int(v)
}

// optionalFloat returns nil when the tag is absent or unusable.
func (r *datasetReader) optionalFloat(name string, t tag.Tag) *float64 {
	vals, found, err := r.values(name, t)
	if !found {
		debug.Trace("Optional tag %s %s not present", formatTag(t), name)
		return nil
	}
	if err != nil || len(vals) == 0 {
		debug.Verbose("Ignoring optional tag %s %s: %v", formatTag(t), name, err)
		return nil
	}
	v := vals[0]
	return &v
}

// numericValues converts an element value to float64s. Binary integers
// (US, SS, UL, SL), binary floats (FL, FD) and number strings (DS, IS) are
// accepted.
func numericValues(v dicom.Value) ([]float64, error) {
	switch v.ValueType() {
	case dicom.Ints:
		ints, ok := v.GetValue().([]int)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected int payload %T", ErrMalformedValue, v.GetValue())
		}
		out := make([]float64, len(ints))
		for i, n := range ints {
			out[i] = float64(n)
		}
		return out, nil
	case dicom.Floats:
		floats, ok := v.GetValue().([]float64)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected float payload %T", ErrMalformedValue, v.GetValue())
		}
		return append([]float64(nil), floats...), nil
	case dicom.Strings:
		strs, ok := v.GetValue().([]string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected string payload %T", ErrMalformedValue, v.GetValue())
		}
		out := make([]float64, 0, len(strs))
		for _, s := range strs {
			s = strings.Trim(s, " \x00")
			if s == "" {
				continue
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a number", ErrMalformedValue, s)
			}
			out = append(out, f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: non-numeric value type %v", ErrMalformedValue, v.ValueType())
	}
}

package geodesic

import (
	"errors"
	"fmt"
)

// Kind classifies the errors returned by this package.
type Kind uint8

const (
	// KindUnknown is never returned by this package.
	KindUnknown Kind = iota
	// InvalidParameter reports an ellipsoid shape that cannot be used: a
	// radius that is not finite and positive, or a flattening that is not
	// finite or not less than one.
	InvalidParameter
	// OutOfRange reports a query input outside its domain, e.g. a latitude
	// outside [-90,+90] or a non-finite angle or distance.
	OutOfRange
)

func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "invalid parameter"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrInvalidParameter = &Error{Kind: InvalidParameter}
	ErrOutOfRange       = &Error{Kind: OutOfRange}
)

// Error is the error type returned by this package. It records the
// operation, the offending parameter and its value.
type Error struct {
	Kind  Kind
	Op    string  // "NewEllipsoid", "Inverse", ...
	Param string  // "lat1", "radius", ...
	Value float64 // offending value
	Msg   string  // optional detail
}

func (e *Error) Error() string {
	if e.Op == "" && e.Param == "" {
		return "geodesic: " + e.Kind.String()
	}
	msg := fmt.Sprintf("geodesic: %s: %s %s = %v", e.Op, e.Kind, e.Param, e.Value)
	if e.Msg != "" {
		msg += " (" + e.Msg + ")"
	}
	return msg
}

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, ErrOutOfRange) works for any out-of-range error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func invalidParam(op, param string, value float64, msg string) error {
	return &Error{Kind: InvalidParameter, Op: op, Param: param, Value: value, Msg: msg}
}

func outOfRange(op, param string, value float64, msg string) error {
	return &Error{Kind: OutOfRange, Op: op, Param: param, Value: value, Msg: msg}
}

func checkLat(op, param string, lat float64) error {
	if isFinite(lat) && lat >= -90 && lat <= 90 {
		return nil
	}
	return outOfRange(op, param, lat, "must be in [-90,+90]")
}

func checkFinite(op, param string, x float64) error {
	if isFinite(x) {
		return nil
	}
	return outOfRange(op, param, x, "must be finite")
}

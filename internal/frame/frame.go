// Package frame builds the observer reference frame for a request:
// topocentric when a location is supplied, geocentric otherwise.
package frame

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinates is returned for out-of-range, non-finite, or
// half-supplied observer coordinates.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Frame is the observer reference frame for one request. It is
// immutable and read-only for all calculators.
type Frame struct {
	Topocentric bool

	// Observer location; only meaningful when Topocentric is true.
	Lat    float64 // degrees, north positive
	Lon    float64 // degrees, east positive
	Height float64 // meters above sea level
}

// Build validates optional observer coordinates and returns the frame.
// Latitude and longitude must be supplied together; height defaults
// to 0 and is only checked for finiteness.
func Build(lat, lon, height *float64) (Frame, error) {
	if lat == nil && lon == nil {
		if height != nil && !isFinite(*height) {
			return Frame{}, fmt.Errorf("%w: height must be a finite number", ErrInvalidCoordinates)
		}
		return Frame{}, nil
	}
	if lat == nil || lon == nil {
		return Frame{}, fmt.Errorf("%w: latitude and longitude must be supplied together", ErrInvalidCoordinates)
	}
	if !isFinite(*lat) || *lat < -90 || *lat > 90 {
		return Frame{}, fmt.Errorf("%w: latitude must be between -90 and 90 degrees", ErrInvalidCoordinates)
	}
	if !isFinite(*lon) || *lon < -180 || *lon > 180 {
		return Frame{}, fmt.Errorf("%w: longitude must be between -180 and 180 degrees", ErrInvalidCoordinates)
	}

	h := 0.0
	if height != nil {
		if !isFinite(*height) {
			return Frame{}, fmt.Errorf("%w: height must be a finite number", ErrInvalidCoordinates)
		}
		h = *height
	}

	return Frame{
		Topocentric: true,
		Lat:         *lat,
		Lon:         *lon,
		Height:      h,
	}, nil
}

// Name returns the reference frame label used in response metadata.
func (f Frame) Name() string {
	if f.Topocentric {
		return "topocentric"
	}
	return "geocentric"
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

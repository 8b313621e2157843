// Package timescale converts request timestamps into the time scales
// used by the computation pipeline (UTC, TT, TDB) plus their Julian
// date forms.
package timescale

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// ErrInvalidTimestamp is returned when a supplied timestamp cannot be
// parsed as UTC.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ttOffset is TT - TAI.
const ttOffset = 32.184

// leapSecond is one entry of the TAI-UTC table.
type leapSecond struct {
	from time.Time
	tai  float64 // TAI - UTC in seconds from this instant on
}

// taiUTC is the full leap-second schedule since 1972. The table is
// append-only; entries are ordered oldest first.
var taiUTC = []leapSecond{
	{date(1972, 1, 1), 10}, {date(1972, 7, 1), 11}, {date(1973, 1, 1), 12},
	{date(1974, 1, 1), 13}, {date(1975, 1, 1), 14}, {date(1976, 1, 1), 15},
	{date(1977, 1, 1), 16}, {date(1978, 1, 1), 17}, {date(1979, 1, 1), 18},
	{date(1980, 1, 1), 19}, {date(1981, 7, 1), 20}, {date(1982, 7, 1), 21},
	{date(1983, 7, 1), 22}, {date(1985, 7, 1), 23}, {date(1988, 1, 1), 24},
	{date(1990, 1, 1), 25}, {date(1991, 1, 1), 26}, {date(1992, 7, 1), 27},
	{date(1993, 7, 1), 28}, {date(1994, 7, 1), 29}, {date(1996, 1, 1), 30},
	{date(1997, 7, 1), 31}, {date(1999, 1, 1), 32}, {date(2006, 1, 1), 33},
	{date(2009, 1, 1), 34}, {date(2012, 7, 1), 35}, {date(2015, 7, 1), 36},
	{date(2017, 1, 1), 37},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Context holds one request instant expressed in every scale the
// calculators need. It is created once per request and never mutated.
type Context struct {
	UTC time.Time
	TT  time.Time
	TDB time.Time

	// JD is the Julian date of the UTC instant; JDE is the Julian
	// ephemeris date (TT-based) the ephemeris backend works in.
	JD  float64
	JDE float64
}

// timestampLayouts are the accepted request timestamp formats, tried
// in order. All are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize builds a Context from an optional timestamp string. An
// empty string means "now" as reported by the supplied clock. It is a
// pure function of its inputs.
func Normalize(raw string, now func() time.Time) (Context, error) {
	var utc time.Time
	if raw == "" {
		utc = now().UTC()
	} else {
		parsed, err := parseTimestamp(raw)
		if err != nil {
			return Context{}, err
		}
		utc = parsed
	}
	return FromUTC(utc), nil
}

// FromUTC derives all downstream scales from a UTC instant.
func FromUTC(utc time.Time) Context {
	utc = utc.UTC()
	dt := DeltaT(utc) // TT - UTC in seconds

	tt := utc.Add(time.Duration(dt * float64(time.Second)))
	jd := julian.TimeToJD(utc)
	jde := jd + dt/86400

	tdbOffset := tdbMinusTT(jde)
	tdb := tt.Add(time.Duration(tdbOffset * float64(time.Second)))

	return Context{
		UTC: utc,
		TT:  tt,
		TDB: tdb,
		JD:  jd,
		JDE: jde,
	}
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a recognized UTC timestamp", ErrInvalidTimestamp, raw)
}

// DeltaT returns TT - UTC in seconds for the given instant, from the
// leap-second table. Times before 1972 use the first table entry; the
// schedule is flat after its last entry until a new leap second is
// announced.
func DeltaT(utc time.Time) float64 {
	tai := taiUTC[0].tai
	for _, ls := range taiUTC {
		if utc.Before(ls.from) {
			break
		}
		tai = ls.tai
	}
	return tai + ttOffset
}

// tdbMinusTT returns TDB - TT in seconds. Only the dominant 1.657 ms
// annual term is kept; the omitted terms are below 50 µs.
func tdbMinusTT(jde float64) float64 {
	g := (357.53 + 0.9856003*(jde-2451545.0)) * math.Pi / 180
	return 0.001657 * math.Sin(g+0.01671*math.Sin(g))
}

// JDEToUTC converts a Julian ephemeris date back to a UTC instant,
// using the leap-second schedule at that instant.
func JDEToUTC(jde float64) time.Time {
	approx := julian.JDToTime(jde)
	dt := DeltaT(approx)
	return julian.JDToTime(jde - dt/86400).UTC()
}

// Package services provides business logic
package services

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/rise"
	"github.com/soniakeys/meeus/v3/sidereal"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"celestial-api/internal/constellation"
	"celestial-api/internal/domain"
	"celestial-api/internal/ephemeris"
	"celestial-api/internal/frame"
	"celestial-api/internal/timescale"
)

func formatUTC(t time.Time) string {
	return t.UTC().Format(domain.TimestampLayout)
}

// angleValue renders both forms of one angle from the same value, so
// the degree and sexagesimal fields can never disagree.
func angleValue(a unit.Angle) domain.AngleValue {
	return domain.AngleValue{
		Degrees: a.Deg(),
		DMS:     fmt.Sprintf("%v", sexa.FmtAngle(a)),
	}
}

func raValue(α unit.RA) domain.RightAscension {
	return domain.RightAscension{
		Hours:   α.Hour(),
		Degrees: α.Deg(),
		HMS:     fmt.Sprintf("%v", sexa.FmtRA(α)),
	}
}

func decValue(δ unit.Angle) domain.Declination {
	return domain.Declination{
		Degrees: δ.Deg(),
		DMS:     fmt.Sprintf("%v", sexa.FmtAngle(δ)),
	}
}

func distanceOf(km float64) domain.Distance {
	au := km / ephemeris.AUKm
	return domain.Distance{
		Km:           km,
		AU:           au,
		LightSeconds: au * ephemeris.LightSecondsPerAU,
	}
}

func timeScalesOf(tc timescale.Context) domain.TimeScales {
	return domain.TimeScales{
		UTC:        formatUTC(tc.UTC),
		TT:         formatUTC(tc.TT),
		TDB:        formatUTC(tc.TDB),
		JulianDate: tc.JD,
	}
}

// viewingConditions reports atmospheric extinction for a body above
// the horizon. Below the horizon there is nothing to view and the
// block is omitted.
func viewingConditions(alt unit.Angle, transit *time.Time) *domain.ViewingConditions {
	altDeg := alt.Deg()
	if altDeg <= 0 {
		return nil
	}

	extinction := 0.28 / math.Sin(alt.Rad())
	if extinction > 5 {
		extinction = 5
	}

	effect := "severe dimming near the horizon"
	switch {
	case extinction < 0.4:
		effect = "minimal light loss"
	case extinction < 1:
		effect = "noticeable dimming"
	}

	best := "when the body is highest above the horizon"
	if transit != nil {
		best = "around " + formatUTC(*transit)
	}

	return &domain.ViewingConditions{
		AtmosphericExtinction: extinction,
		ExtinctionEffect:      effect,
		BestViewingTime:       best,
	}
}

// baseReport assembles the payload block every body shares. The
// observer-dependent fields follow the request frame: geocentric
// requests carry no horizontal position, viewing conditions, or
// observer echo.
func baseReport(name string, pos ephemeris.Position, tc timescale.Context,
	f frame.Frame, res constellation.Result, dataset string,
	corrections []string, transit *time.Time) domain.BodyReport {

	rep := domain.BodyReport{
		Name: name,
		CelestialCoordinates: domain.CelestialCoordinates{
			RightAscension: raValue(pos.RA),
			Declination:    decValue(pos.Dec),
		},
		Distance:             distanceOf(pos.DistanceKm),
		Constellation:        res.Basic,
		ConstellationPrecise: res.Precise,
		Precision: domain.Precision{
			Ephemeris:   dataset,
			Frame:       f.Name(),
			Corrections: corrections,
		},
		TimeScales: timeScalesOf(tc),
		Timestamp:  formatUTC(tc.UTC),
	}

	if pos.HasHorizontal {
		rep.Position = &domain.HorizontalPosition{
			Altitude: angleValue(pos.Alt),
			Azimuth:  angleValue(pos.Az),
		}
		rep.ViewingConditions = viewingConditions(pos.Alt, transit)
		rep.Observer = &domain.Observer{
			Latitude:  f.Lat,
			Longitude: f.Lon,
			Height:    f.Height,
		}
	}
	return rep
}

// separation returns the angular distance between two equatorial
// positions.
func separation(α1 unit.RA, δ1 unit.Angle, α2 unit.RA, δ2 unit.Angle) unit.Angle {
	s1, c1 := δ1.Sincos()
	s2, c2 := δ2.Sincos()
	cψ := s1*s2 + c1*c2*math.Cos(α1.Rad()-α2.Rad())
	if cψ > 1 {
		cψ = 1
	} else if cψ < -1 {
		cψ = -1
	}
	return unit.Angle(math.Acos(cψ))
}

// horizonTimes holds the next rise, transit, and set after a request
// instant. Any of the three may be nil when the search window holds no
// such event (circumpolar or never-rising geometry).
type horizonTimes struct {
	rise    *time.Time
	transit *time.Time
	set     *time.Time
}

// nextHorizonEvents scans forward day by day from the request instant
// and keeps the first rise, transit, and set strictly after it. The
// search stops after searchDays days.
func nextHorizonEvents(p *ephemeris.Provider, b ephemeris.Body,
	tc timescale.Context, f frame.Frame, searchDays int) horizonTimes {

	coords := globe.Coord{
		Lat: unit.AngleFromDeg(f.Lat),
		Lon: unit.AngleFromDeg(-f.Lon), // positive west
	}

	y, m, d := tc.UTC.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var out horizonTimes
	for day := 0; day <= searchDays; day++ {
		midnight := start.AddDate(0, 0, day)
		jd0 := julian.TimeToJD(midnight)

		// Geocentric coordinates near the middle of the day are close
		// enough for approximate event times.
		dayCtx := timescale.FromUTC(midnight.Add(12 * time.Hour))
		gp, err := p.PositionOf(b, dayCtx, frame.Frame{})
		if err != nil {
			return out
		}

		h0 := rise.Stdh0Stellar
		if b == ephemeris.BodyMoon {
			h0 = rise.Stdh0Lunar(moonposition.Parallax(gp.DistanceKm))
		}

		tR, tT, tS, err := rise.ApproxTimes(coords, h0, sidereal.Apparent0UT(jd0), gp.RA, gp.Dec)
		if err != nil {
			continue
		}

		record := func(slot **time.Time, ut unit.Time) {
			t := midnight.Add(time.Duration(ut.Sec() * float64(time.Second)))
			if *slot == nil && t.After(tc.UTC) {
				*slot = &t
			}
		}
		record(&out.rise, tR)
		record(&out.transit, tT)
		record(&out.set, tS)

		if out.rise != nil && out.transit != nil && out.set != nil {
			break
		}
	}
	return out
}

// Package ephemeris provides body-position queries over a precomputed
// solar-system dataset. Construction prefers the high-precision VSOP87
// dataset; when its files are unavailable the provider falls back to a
// lower-precision built-in series tier and records which tier is in
// use. The loaded state is read-only and shared by concurrent requests.
package ephemeris

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/elliptic"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"celestial-api/internal/frame"
	"celestial-api/internal/timescale"
)

// ErrUnavailable is returned when no dataset tier can serve a position
// query. It is fatal for the whole request.
var ErrUnavailable = errors.New("ephemeris unavailable")

// AUKm is the Astronomical Unit in kilometers.
const AUKm = 149597870.7

// LightSecondsPerAU is the one-way light travel time for 1 AU.
const LightSecondsPerAU = 499.004784

// Dataset tier identifiers surfaced in response metadata.
const (
	DataSetVSOP87  = "vsop87"
	DataSetBuiltin = "builtin-series"
)

// Body identifies a supported celestial body.
type Body int

const (
	BodyMoon Body = iota
	BodyMars
)

func (b Body) String() string {
	switch b {
	case BodyMoon:
		return "moon"
	case BodyMars:
		return "mars"
	default:
		return "unknown"
	}
}

// Position is the result of one body-position query: apparent
// geocentric equatorial coordinates and distance, plus topocentric
// horizontal coordinates when the query carried an observer frame.
type Position struct {
	RA  unit.RA
	Dec unit.Angle

	DistanceKm float64
	DistanceAU float64

	// HelioDistanceAU is the body's distance from the Sun. Zero for
	// the Moon.
	HelioDistanceAU float64

	// Horizontal coordinates, populated only for topocentric frames.
	Alt           unit.Angle
	Az            unit.Angle // 0 = north, 90 = east
	HasHorizontal bool
}

// Provider answers position queries at a given time. Load it once at
// startup; it is immutable afterwards.
type Provider struct {
	dataset string
	earth   *planetposition.V87Planet
	mars    *planetposition.V87Planet
}

// NewProvider loads the VSOP87 dataset from dir. If the files are
// missing or unreadable the provider silently degrades to the built-in
// truncated-series tier; callers learn the tier from DataSet().
func NewProvider(dir string) *Provider {
	earth, errE := planetposition.LoadPlanetPath(planetposition.Earth, dir)
	mars, errM := planetposition.LoadPlanetPath(planetposition.Mars, dir)
	if errE != nil || errM != nil {
		return &Provider{dataset: DataSetBuiltin}
	}
	return &Provider{dataset: DataSetVSOP87, earth: earth, mars: mars}
}

// DataSet reports which dataset tier is loaded.
func (p *Provider) DataSet() string {
	return p.dataset
}

// Corrections lists the corrections applied to apparent positions,
// for response metadata.
func (p *Provider) Corrections() []string {
	return []string{"light-time", "nutation", "aberration"}
}

// PositionOf computes the apparent position of a body for the given
// time context and observer frame.
func (p *Provider) PositionOf(b Body, tc timescale.Context, f frame.Frame) (Position, error) {
	var pos Position
	switch b {
	case BodyMoon:
		pos = p.moonPosition(tc)
	case BodyMars:
		mp, err := p.marsPosition(tc)
		if err != nil {
			return Position{}, err
		}
		pos = mp
	default:
		return Position{}, fmt.Errorf("%w: unsupported body %d", ErrUnavailable, b)
	}

	if f.Topocentric {
		pos = toTopocentric(pos, tc, f)
	}
	return pos, nil
}

// SunPosition returns the Sun's apparent geocentric RA/Dec.
func (p *Provider) SunPosition(tc timescale.Context) (unit.RA, unit.Angle) {
	return solar.ApparentEquatorial(tc.JDE)
}

// SunDistanceAU returns the Earth-Sun distance.
func (p *Provider) SunDistanceAU(tc timescale.Context) float64 {
	if p.earth != nil {
		_, _, r := p.earth.Position(tc.JDE)
		return r
	}
	_, r := keplerHeliocentric(earthElements, tc.JDE)
	return r
}

// MoonEcliptic returns the Moon's geocentric ecliptic longitude and
// latitude, used by the libration approximation.
func (p *Provider) MoonEcliptic(tc timescale.Context) (lon, lat unit.Angle) {
	λ, β, _ := moonposition.Position(tc.JDE)
	return λ, β
}

// moonPosition computes the Moon's apparent geocentric equatorial
// position from the built-in lunar series (both tiers share it; the
// series is ELP-derived and needs no data files).
func (p *Provider) moonPosition(tc timescale.Context) Position {
	λ, β, Δ := moonposition.Position(tc.JDE)

	Δψ, Δε := nutation.Nutation(tc.JDE)
	ε := nutation.MeanObliquity(tc.JDE) + Δε
	sε, cε := ε.Sincos()
	α, δ := coord.EclToEq(λ+Δψ, β, sε, cε)

	return Position{
		RA:         α,
		Dec:        δ,
		DistanceKm: Δ,
		DistanceAU: Δ / AUKm,
	}
}

// marsPosition computes Mars' apparent geocentric equatorial position
// on whichever tier is loaded.
func (p *Provider) marsPosition(tc timescale.Context) (Position, error) {
	if p.dataset == DataSetVSOP87 {
		return p.marsVSOP87(tc)
	}
	return marsKepler(tc)
}

func (p *Provider) marsVSOP87(tc timescale.Context) (Position, error) {
	α, δ := elliptic.Position(p.mars, p.earth, tc.JDE)

	// Geocentric distance from the heliocentric positions, with one
	// light-time iteration to match the apparent place.
	Δ := p.marsRangeAU(tc.JDE)
	Δ = p.marsRangeAU(tc.JDE - base.LightTime(Δ))

	_, _, r := p.mars.Position(tc.JDE)

	return Position{
		RA:              α,
		Dec:             δ,
		DistanceKm:      Δ * AUKm,
		DistanceAU:      Δ,
		HelioDistanceAU: r,
	}, nil
}

// marsRangeAU returns the Earth-Mars distance at jde from the VSOP87
// heliocentric positions.
func (p *Provider) marsRangeAU(jde float64) float64 {
	l0, b0, r0 := p.earth.Position(jde)
	l1, b1, r1 := p.mars.Position(jde)

	x := r1*b1.Cos()*l1.Cos() - r0*b0.Cos()*l0.Cos()
	y := r1*b1.Cos()*l1.Sin() - r0*b0.Cos()*l0.Sin()
	z := r1*b1.Sin() - r0*b0.Sin()
	return math.Sqrt(x*x + y*y + z*z)
}

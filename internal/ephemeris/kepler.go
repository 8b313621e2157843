package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/unit"

	"celestial-api/internal/timescale"
)

// orbitalElements holds J2000 mean elements and their per-century
// rates for the low-precision tier.
type orbitalElements struct {
	a, aDot         float64 // semi-major axis, AU
	e, eDot         float64 // eccentricity
	i, iDot         float64 // inclination, degrees
	l, lDot         float64 // mean longitude, degrees
	peri, periDot   float64 // longitude of perihelion, degrees
	node, nodeDot   float64 // longitude of ascending node, degrees
}

// JPL approximate elements, valid 1800 AD - 2050 AD.
var (
	earthElements = orbitalElements{
		a: 1.00000261, aDot: 0.00000562,
		e: 0.01671123, eDot: -0.00004392,
		i: -0.00001531, iDot: -0.01294668,
		l: 100.46457166, lDot: 35999.37244981,
		peri: 102.93768193, periDot: 0.32327364,
		node: 0.0, nodeDot: 0.0,
	}
	marsElements = orbitalElements{
		a: 1.52371034, aDot: 0.00001847,
		e: 0.09339410, eDot: 0.00007882,
		i: 1.84969142, iDot: -0.00813131,
		l: -4.55343205, lDot: 19140.30268499,
		peri: -23.94362959, periDot: 0.44441088,
		node: 49.55953891, nodeDot: -0.29257343,
	}
)

// solveKepler iterates E - e sin E = M to ~1e-8 rad.
func solveKepler(m, e float64) float64 {
	ea := m
	if e > 0.8 {
		ea = math.Pi
	}
	for i := 0; i < 30; i++ {
		d := (ea - e*math.Sin(ea) - m) / (1 - e*math.Cos(ea))
		ea -= d
		if math.Abs(d) < 1e-8 {
			break
		}
	}
	return ea
}

// keplerHeliocentric returns the heliocentric ecliptic rectangular
// position (AU, J2000 ecliptic) and radius for a set of elements.
func keplerHeliocentric(el orbitalElements, jde float64) (pos [3]float64, r float64) {
	t := (jde - 2451545.0) / 36525

	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	i := deg2rad(el.i + el.iDot*t)
	l := el.l + el.lDot*t
	peri := el.peri + el.periDot*t
	node := deg2rad(el.node + el.nodeDot*t)

	m := deg2rad(math.Mod(l-peri, 360))
	ω := deg2rad(peri) - node

	ea := solveKepler(m, e)

	// Position in the orbital plane.
	xp := a * (math.Cos(ea) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ea)
	r = math.Sqrt(xp*xp + yp*yp)

	cosω, sinω := math.Cos(ω), math.Sin(ω)
	cosΩ, sinΩ := math.Cos(node), math.Sin(node)
	cosi, sini := math.Cos(i), math.Sin(i)

	pos[0] = (cosω*cosΩ-sinω*sinΩ*cosi)*xp + (-sinω*cosΩ-cosω*sinΩ*cosi)*yp
	pos[1] = (cosω*sinΩ+sinω*cosΩ*cosi)*xp + (-sinω*sinΩ+cosω*cosΩ*cosi)*yp
	pos[2] = sinω*sini*xp + cosω*sini*yp
	return pos, r
}

// marsKepler computes Mars' geocentric apparent place from mean
// orbital elements. It is the fallback tier used when VSOP87 data is
// not on disk; accuracy is a few arcminutes, which the response
// metadata reflects through the dataset identifier.
func marsKepler(tc timescale.Context) (Position, error) {
	geo := func(jde float64) ([3]float64, float64, float64) {
		mars, rm := keplerHeliocentric(marsElements, jde)
		earth, _ := keplerHeliocentric(earthElements, jde)
		var v [3]float64
		for k := 0; k < 3; k++ {
			v[k] = mars[k] - earth[k]
		}
		Δ := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		return v, Δ, rm
	}

	// One light-time iteration: re-evaluate Mars at emission time.
	_, Δ0, _ := geo(tc.JDE)
	v, Δ, rm := geo(tc.JDE - base.LightTime(Δ0))

	λ := unit.Angle(math.Atan2(v[1], v[0]))
	β := unit.Angle(math.Asin(v[2] / Δ))

	Δψ, Δε := nutation.Nutation(tc.JDE)
	ε := nutation.MeanObliquity(tc.JDE) + Δε
	sε, cε := ε.Sincos()
	α, δ := coord.EclToEq(λ+Δψ, β, sε, cε)

	return Position{
		RA:              α,
		Dec:             δ,
		DistanceKm:      Δ * AUKm,
		DistanceAU:      Δ,
		HelioDistanceAU: rm,
	}, nil
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}

package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"celestial-api/internal/frame"
	"celestial-api/internal/timescale"
)

// toTopocentric reduces a geocentric position to the observer's frame:
// diurnal parallax on RA/Dec, then horizontal coordinates with
// refraction near the horizon. The parallax step matters for the Moon
// (up to ~1 degree) and is harmless for Mars.
func toTopocentric(pos Position, tc timescale.Context, f frame.Frame) Position {
	φ := unit.AngleFromDeg(f.Lat)
	// Meeus works in west-positive longitude.
	ψ := unit.AngleFromDeg(-f.Lon)

	st := sidereal.Apparent(tc.JD)

	α, δ := parallaxCorrect(pos.RA, pos.Dec, pos.DistanceKm, φ, f.Height, f.Lon, st)
	pos.RA, pos.Dec = α, δ

	azSouth, alt := coord.EqToHz(α, δ, φ, ψ, st)

	altDeg := alt.Deg() + refraction(alt.Deg())

	pos.Alt = unit.AngleFromDeg(altDeg)
	pos.Az = unit.Angle(unit.PMod(azSouth.Rad()+math.Pi, 2*math.Pi))
	pos.HasHorizontal = true
	return pos
}

// parallaxCorrect shifts geocentric RA/Dec to the observer per the
// short diurnal-parallax reduction (Meeus ch. 40 form).
func parallaxCorrect(α unit.RA, δ unit.Angle, distKm float64, φ unit.Angle, height, lonEast float64, st unit.Time) (unit.RA, unit.Angle) {
	const earthRadiusKm = 6378.14
	if distKm <= earthRadiusKm {
		return α, δ
	}
	sinπ := earthRadiusKm / distKm

	ρs, ρc := globe.Earth76.ParallaxConstants(φ, height)

	// Local hour angle.
	h := st.Angle().Rad() + unit.AngleFromDeg(lonEast).Rad() - α.Rad()

	sinδ, cosδ := δ.Sincos()
	sinH, cosH := math.Sincos(h)

	Δα := math.Atan2(-ρc*sinπ*sinH, cosδ-ρc*sinπ*cosH)
	δt := math.Atan2((sinδ-ρs*sinπ)*math.Cos(Δα), cosδ-ρc*sinπ*cosH)

	return unit.RAFromRad(α.Rad() + Δα), unit.Angle(δt)
}

// refraction returns the Bennett atmospheric refraction correction in
// degrees to add to the geometric altitude. Deep below the horizon it
// returns 0.
func refraction(altDeg float64) float64 {
	if altDeg > 90 || altDeg < -1 {
		return 0
	}
	h := altDeg
	if h < -0.5 {
		h = -0.5
	}
	arcmin := 1.02 / math.Tan((h+10.3/(h+5.11))*math.Pi/180)
	return arcmin / 60
}

package services

import (
	"math"
	"time"

	"celestial-api/internal/constellation"
	"celestial-api/internal/domain"
	"celestial-api/internal/ephemeris"
	"celestial-api/internal/frame"
	"celestial-api/internal/timescale"
)

// marsDiameterKm is the planet's mean equatorial diameter.
const marsDiameterKm = 6792.4

// marsYearEpoch is the start of Mars Year 1 in the Clancy convention.
var marsYearEpoch = time.Date(1955, time.April, 11, 0, 0, 0, 0, time.UTC)

// marsYearDays is the sidereal Mars year in Earth days.
const marsYearDays = 686.98

// MarsService computes Mars observation reports.
type MarsService struct {
	provider   *ephemeris.Provider
	constell   *constellation.Resolver
	searchDays int
}

// NewMarsService creates a new Mars service.
func NewMarsService(provider *ephemeris.Provider, constell *constellation.Resolver, searchDays int) *MarsService {
	return &MarsService{provider: provider, constell: constell, searchDays: searchDays}
}

// Compute builds the full Mars report for one request instant and
// observer frame.
func (s *MarsService) Compute(tc timescale.Context, f frame.Frame) (*domain.MarsReport, error) {
	pos, err := s.provider.PositionOf(ephemeris.BodyMars, tc, f)
	if err != nil {
		return nil, err
	}

	sunRA, sunDec := s.provider.SunPosition(tc)
	sep := separation(pos.RA, pos.Dec, sunRA, sunDec)

	mag := marsMagnitude(pos.HelioDistanceAU, pos.DistanceAU, s.provider.SunDistanceAU(tc))
	diameter := 2 * math.Asin(marsDiameterKm/2/pos.DistanceKm) * 180 / math.Pi * 3600

	sepDeg := sep.Deg()
	special := ""
	switch {
	case sepDeg >= 170:
		special = "near opposition, best visibility of the apparition"
	case sepDeg <= 15:
		special = "near conjunction, lost in the Sun's glare"
	}

	var riseSet *domain.MarsRiseSet
	var transitAt *time.Time
	if f.Topocentric {
		ev := nextHorizonEvents(s.provider, ephemeris.BodyMars, tc, f, s.searchDays)
		transitAt = ev.transit
		riseSet = s.riseSetBlock(ev, f)
	}

	res := s.constell.Resolve(pos.RA, pos.Dec)
	rep := &domain.MarsReport{
		BodyReport: baseReport("Mars", pos, tc, f, res,
			s.provider.DataSet(), s.provider.Corrections(), transitAt),
		Magnitude:       mag,
		AngularDiameter: domain.AngularDiameter{Arcseconds: diameter},
		SunSeparation: domain.SunSeparation{
			Degrees:             sepDeg,
			OppositionProximity: sepDeg / 180 * 100,
		},
		SpecialPosition: special,
		MarsSeasons:     marsSeasons(tc.UTC),
		MarsriseAndSet:  riseSet,
	}
	return rep, nil
}

// marsMagnitude is the visual magnitude from the classic phase-angle
// relation: -1.52 + 5 log10(rΔ) + 0.016 α.
func marsMagnitude(r, Δ, sunAU float64) float64 {
	cα := (r*r + Δ*Δ - sunAU*sunAU) / (2 * r * Δ)
	if cα > 1 {
		cα = 1
	} else if cα < -1 {
		cα = -1
	}
	α := math.Acos(cα) * 180 / math.Pi
	return -1.52 + 5*math.Log10(r*Δ) + 0.016*α
}

// marsSeasons maps the request instant onto the Martian calendar. The
// solar longitude here is a uniform approximation; the eccentric orbit
// makes true Ls run up to several degrees from it.
func marsSeasons(utc time.Time) domain.MarsSeasons {
	days := utc.Sub(marsYearEpoch).Hours() / 24
	years := days / marsYearDays
	frac := years - math.Floor(years)
	if frac < 0 {
		frac++
	}
	ls := frac * 360

	season := "northern winter"
	switch {
	case ls < 90:
		season = "northern spring"
	case ls < 180:
		season = "northern summer"
	case ls < 270:
		season = "northern autumn"
	}

	return domain.MarsSeasons{
		MarsYear:          int(math.Floor(years)) + 1,
		SolarLongitudeDeg: ls,
		Season:            season,
	}
}

// riseSetBlock fills the horizon-event block, evaluating azimuth,
// altitude, and magnitude at each event instant.
func (s *MarsService) riseSetBlock(ev horizonTimes, f frame.Frame) *domain.MarsRiseSet {
	out := &domain.MarsRiseSet{}

	if ev.rise != nil {
		etc := timescale.FromUTC(*ev.rise)
		if p, err := s.provider.PositionOf(ephemeris.BodyMars, etc, f); err == nil {
			out.NextMarsrise = &domain.MarsRiseEvent{
				Time:           formatUTC(*ev.rise),
				AzimuthDegrees: p.Az.Deg(),
				Magnitude:      marsMagnitude(p.HelioDistanceAU, p.DistanceAU, s.provider.SunDistanceAU(etc)),
			}
		}
	}
	if ev.set != nil {
		etc := timescale.FromUTC(*ev.set)
		if p, err := s.provider.PositionOf(ephemeris.BodyMars, etc, f); err == nil {
			out.NextMarsset = &domain.MarsRiseEvent{
				Time:           formatUTC(*ev.set),
				AzimuthDegrees: p.Az.Deg(),
				Magnitude:      marsMagnitude(p.HelioDistanceAU, p.DistanceAU, s.provider.SunDistanceAU(etc)),
			}
		}
	}
	if ev.transit != nil {
		etc := timescale.FromUTC(*ev.transit)
		if p, err := s.provider.PositionOf(ephemeris.BodyMars, etc, f); err == nil {
			out.NextTransit = &domain.MarsTransitEvent{
				Time:            formatUTC(*ev.transit),
				AltitudeDegrees: p.Alt.Deg(),
				AzimuthDegrees:  p.Az.Deg(),
				Magnitude:       marsMagnitude(p.HelioDistanceAU, p.DistanceAU, s.provider.SunDistanceAU(etc)),
			}
		}
	}
	return out
}

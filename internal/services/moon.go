package services

import (
	"math"
	"sort"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonphase"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/unit"

	"celestial-api/internal/constellation"
	"celestial-api/internal/domain"
	"celestial-api/internal/ephemeris"
	"celestial-api/internal/frame"
	"celestial-api/internal/timescale"
)

// synodicMonth is the mean new-moon-to-new-moon interval in days.
const synodicMonth = 29.530588861

// MoonService computes Moon observation reports.
type MoonService struct {
	provider   *ephemeris.Provider
	constell   *constellation.Resolver
	searchDays int
}

// NewMoonService creates a new Moon service.
func NewMoonService(provider *ephemeris.Provider, constell *constellation.Resolver, searchDays int) *MoonService {
	return &MoonService{provider: provider, constell: constell, searchDays: searchDays}
}

// Compute builds the full Moon report for one request instant and
// observer frame.
func (s *MoonService) Compute(tc timescale.Context, f frame.Frame) (*domain.MoonReport, error) {
	pos, err := s.provider.PositionOf(ephemeris.BodyMoon, tc, f)
	if err != nil {
		return nil, err
	}

	sunRA, sunDec := s.provider.SunPosition(tc)
	ψ := separation(pos.RA, pos.Dec, sunRA, sunDec)

	// Phase angle from the Sun-Earth-Moon triangle, Meeus ch.48.
	sunKm := s.provider.SunDistanceAU(tc) * ephemeris.AUKm
	i := math.Atan2(sunKm*math.Sin(ψ.Rad()), pos.DistanceKm-sunKm*math.Cos(ψ.Rad()))
	k := (1 + math.Cos(i)) / 2

	currentPhase := (1 - math.Cos(ψ.Rad())) / 2 * 100

	prevNew, phases := s.phaseEvents(tc)
	ageDays := tc.JDE - prevNew

	var riseSet *domain.MoonRiseSet
	var transitAt *time.Time
	if f.Topocentric {
		ev := nextHorizonEvents(s.provider, ephemeris.BodyMoon, tc, f, s.searchDays)
		transitAt = ev.transit
		riseSet = s.riseSetBlock(ev, f)
	}

	res := s.constell.Resolve(pos.RA, pos.Dec)
	rep := &domain.MoonReport{
		BodyReport: baseReport("Moon", pos, tc, f, res,
			s.provider.DataSet(), s.provider.Corrections(), transitAt),
		CurrentPhase: currentPhase,
		IlluminationDetails: domain.IlluminationDetails{
			ElongationDegrees:     ψ.Deg(),
			PhaseAngleDegrees:     i * 180 / math.Pi,
			IlluminatedFraction:   k,
			IlluminatedPercentage: k * 100,
		},
		MoonAge: domain.MoonAge{
			Days:              ageDays,
			PercentageOfCycle: ageDays / synodicMonth * 100,
		},
		Phases:         phases,
		Libration:      s.libration(tc, pos),
		MoonriseAndSet: riseSet,
	}
	return rep, nil
}

// phaseEvents collects the new and full moons bracketing the request
// instant. An event at the exact instant counts as next, not previous,
// so the split is strict-before versus at-or-after.
func (s *MoonService) phaseEvents(tc timescale.Context) (prevNewJDE float64, phases domain.MoonPhases) {
	year := base.JDEToJulianYear(tc.JDE)
	step := synodicMonth / 365.25

	type event struct {
		jde   float64
		phase string
	}
	var all []event
	for k := -2.0; k <= 2; k++ {
		all = append(all,
			event{moonphase.New(year + k*step), "new_moon"},
			event{moonphase.Full(year + k*step), "full_moon"})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].jde < all[j].jde })

	// Adjacent search years converge on the same lunations; drop the
	// duplicates.
	uniq := all[:1]
	for _, e := range all[1:] {
		if e.jde-uniq[len(uniq)-1].jde > 0.01 {
			uniq = append(uniq, e)
		}
	}

	var prevNew, prevFull, nextNew, nextFull *event
	for idx := range uniq {
		e := &uniq[idx]
		before := e.jde < tc.JDE
		switch {
		case e.phase == "new_moon" && before:
			prevNew = e
		case e.phase == "full_moon" && before:
			prevFull = e
		case e.phase == "new_moon" && nextNew == nil:
			nextNew = e
		case e.phase == "full_moon" && nextFull == nil:
			nextFull = e
		}
	}

	add := func(list []domain.PhaseEvent, e *event) []domain.PhaseEvent {
		if e == nil {
			return list
		}
		return append(list, domain.PhaseEvent{
			Phase: e.phase,
			Date:  formatUTC(timescale.JDEToUTC(e.jde)),
		})
	}
	phases.Previous = add(add(nil, prevNew), prevFull)
	sortPhaseEvents(phases.Previous)
	phases.Next = add(add(nil, nextNew), nextFull)
	sortPhaseEvents(phases.Next)

	if prevNew != nil {
		prevNewJDE = prevNew.jde
	} else {
		prevNewJDE = tc.JDE
	}
	return prevNewJDE, phases
}

func sortPhaseEvents(events []domain.PhaseEvent) {
	sort.Slice(events, func(i, j int) bool { return events[i].Date < events[j].Date })
}

// libration returns the optical libration angles, Meeus ch.53 with the
// physical terms neglected.
func (s *MoonService) libration(tc timescale.Context, pos ephemeris.Position) *domain.Libration {
	λ, β := s.provider.MoonEcliptic(tc)
	_, Δε := nutation.Nutation(tc.JDE)
	ε := nutation.MeanObliquity(tc.JDE) + Δε

	T := (tc.JDE - 2451545) / 36525
	Ω := unit.AngleFromDeg(125.0445479 - 1934.1362891*T).Mod1()
	F := unit.AngleFromDeg(93.272095 + 483202.0175233*T).Mod1()
	const inclination = 1.54242 * math.Pi / 180

	sW, cW := math.Sincos(λ.Rad() - Ω.Rad())
	sβ, cβ := β.Sincos()
	sI, cI := math.Sincos(inclination)

	a := math.Atan2(sW*cβ*cI-sβ*sI, cW*cβ)
	l := math.Mod(a*180/math.Pi-F.Deg(), 360)
	if l < -180 {
		l += 360
	} else if l > 180 {
		l -= 360
	}
	b := math.Asin(-sW*cβ*sI - sβ*cI)

	sV, cV := Ω.Sincos()
	sε, cε := ε.Sincos()
	x := sI * sV
	y := sI*cV*cε - cI*sε
	ω := math.Atan2(x, y)
	p := math.Asin(math.Hypot(x, y) * math.Cos(pos.RA.Rad()-ω) / math.Cos(b))

	return &domain.Libration{
		LongitudeDegrees:     l,
		LatitudeDegrees:      b * 180 / math.Pi,
		PositionAngleDegrees: p * 180 / math.Pi,
		Note:                 "optical libration only; physical libration is not modeled",
	}
}

// riseSetBlock fills the horizon-event block from the search result,
// evaluating azimuth, altitude, and illumination at each event instant.
func (s *MoonService) riseSetBlock(ev horizonTimes, f frame.Frame) *domain.MoonRiseSet {
	out := &domain.MoonRiseSet{}

	if ev.rise != nil {
		etc := timescale.FromUTC(*ev.rise)
		if p, err := s.provider.PositionOf(ephemeris.BodyMoon, etc, f); err == nil {
			out.NextMoonrise = &domain.MoonRiseEvent{
				Time:                formatUTC(*ev.rise),
				AzimuthDegrees:      p.Az.Deg(),
				IlluminationPercent: s.illuminatedPercent(etc),
			}
		}
	}
	if ev.set != nil {
		etc := timescale.FromUTC(*ev.set)
		if p, err := s.provider.PositionOf(ephemeris.BodyMoon, etc, f); err == nil {
			out.NextMoonset = &domain.MoonRiseEvent{
				Time:                formatUTC(*ev.set),
				AzimuthDegrees:      p.Az.Deg(),
				IlluminationPercent: s.illuminatedPercent(etc),
			}
		}
	}
	if ev.transit != nil {
		etc := timescale.FromUTC(*ev.transit)
		if p, err := s.provider.PositionOf(ephemeris.BodyMoon, etc, f); err == nil {
			out.NextTransit = &domain.MoonTransitEvent{
				Time:                formatUTC(*ev.transit),
				AltitudeDegrees:     p.Alt.Deg(),
				AzimuthDegrees:      p.Az.Deg(),
				IlluminationPercent: s.illuminatedPercent(etc),
			}
		}
	}
	return out
}

// illuminatedPercent evaluates the illuminated disk percentage at an
// arbitrary instant, for horizon-event annotations.
func (s *MoonService) illuminatedPercent(tc timescale.Context) float64 {
	pos, err := s.provider.PositionOf(ephemeris.BodyMoon, tc, frame.Frame{})
	if err != nil {
		return 0
	}
	sunRA, sunDec := s.provider.SunPosition(tc)
	ψ := separation(pos.RA, pos.Dec, sunRA, sunDec)
	sunKm := s.provider.SunDistanceAU(tc) * ephemeris.AUKm
	i := math.Atan2(sunKm*math.Sin(ψ.Rad()), pos.DistanceKm-sunKm*math.Cos(ψ.Rad()))
	return (1 + math.Cos(i)) / 2 * 100
}

package services

import (
	"testing"
	"time"

	"celestial-api/internal/frame"
)

func testMoonService(t *testing.T) *MoonService {
	t.Helper()
	return NewMoonService(testProvider(t), testResolver(t), 3)
}

func parisFrame() frame.Frame {
	return frame.Frame{Topocentric: true, Lat: 48.85, Lon: 2.35, Height: 35}
}

func TestMoonPhaseAtKnownEvents(t *testing.T) {
	s := testMoonService(t)

	// New moon of 2025 January 29, 12:36 UTC.
	rep, err := s.Compute(contextAt(t, "2025-01-29T12:36:00Z"), frame.Frame{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.CurrentPhase > 2 {
		t.Errorf("phase at new moon = %v%%, want near 0", rep.CurrentPhase)
	}
	if rep.IlluminationDetails.IlluminatedPercentage > 2 {
		t.Errorf("illumination at new moon = %v%%", rep.IlluminationDetails.IlluminatedPercentage)
	}

	// Full moon of 2025 January 13, 22:27 UTC.
	rep, err = s.Compute(contextAt(t, "2025-01-13T22:27:00Z"), frame.Frame{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.CurrentPhase < 98 {
		t.Errorf("phase at full moon = %v%%, want near 100", rep.CurrentPhase)
	}
	if rep.IlluminationDetails.IlluminatedPercentage < 98 {
		t.Errorf("illumination at full moon = %v%%", rep.IlluminationDetails.IlluminatedPercentage)
	}
}

func TestMoonPhaseMonotonicWaxing(t *testing.T) {
	s := testMoonService(t)
	// Day-by-day from the January 29 new moon to the February 12 full
	// moon the phase percentage must only grow.
	prev := -1.0
	for day := 0; day <= 14; day++ {
		stamp := time.Date(2025, 1, 29, 13, 0, 0, 0, time.UTC).AddDate(0, 0, day)
		rep, err := s.Compute(contextAt(t, stamp.Format(time.RFC3339)), frame.Frame{})
		if err != nil {
			t.Fatal(err)
		}
		if rep.CurrentPhase <= prev {
			t.Errorf("day %d: phase %v%% not above previous %v%%", day, rep.CurrentPhase, prev)
		}
		prev = rep.CurrentPhase
	}
}

func TestMoonAgeAfterNewMoon(t *testing.T) {
	s := testMoonService(t)
	rep, err := s.Compute(contextAt(t, "2025-01-30T12:36:00Z"), frame.Frame{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.MoonAge.Days < 0.9 || rep.MoonAge.Days > 1.1 {
		t.Errorf("age one day after new moon = %v days", rep.MoonAge.Days)
	}
	wantPct := rep.MoonAge.Days / synodicMonth * 100
	if diff := rep.MoonAge.PercentageOfCycle - wantPct; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("cycle percentage inconsistent with age: %v vs %v", rep.MoonAge.PercentageOfCycle, wantPct)
	}
}

func TestPhaseEventsBracketRequest(t *testing.T) {
	s := testMoonService(t)
	reqUTC := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	rep, err := s.Compute(contextAt(t, "2025-03-15T12:00:00Z"), frame.Frame{})
	if err != nil {
		t.Fatal(err)
	}

	if len(rep.Phases.Previous) != 2 || len(rep.Phases.Next) != 2 {
		t.Fatalf("want one new and one full moon on each side, got %+v", rep.Phases)
	}
	for _, ev := range rep.Phases.Previous {
		if !parseEventTime(t, ev.Date).Before(reqUTC) {
			t.Errorf("previous event %q not strictly before the request", ev.Date)
		}
	}
	for _, ev := range rep.Phases.Next {
		if parseEventTime(t, ev.Date).Before(reqUTC) {
			t.Errorf("next event %q before the request", ev.Date)
		}
	}

	seen := map[string]int{}
	for _, ev := range append(rep.Phases.Previous, rep.Phases.Next...) {
		seen[ev.Phase]++
	}
	if seen["new_moon"] != 2 || seen["full_moon"] != 2 {
		t.Errorf("phase labels = %v", seen)
	}
}

func TestMoonGeocentricOmissions(t *testing.T) {
	s := testMoonService(t)
	rep, err := s.Compute(contextAt(t, "2025-03-15T12:00:00Z"), frame.Frame{})
	if err != nil {
		t.Fatal(err)
	}

	if rep.Position != nil {
		t.Error("geocentric request must not carry a horizontal position")
	}
	if rep.ViewingConditions != nil {
		t.Error("geocentric request must not carry viewing conditions")
	}
	if rep.Observer != nil {
		t.Error("geocentric request must not echo an observer")
	}
	if rep.MoonriseAndSet != nil {
		t.Error("geocentric request must not carry horizon events")
	}
	if rep.Precision.Frame != "geocentric" {
		t.Errorf("frame = %q", rep.Precision.Frame)
	}
	if rep.Libration == nil {
		t.Error("libration block should always be present")
	}
	if rep.Constellation == "" || rep.ConstellationPrecise == "" {
		t.Error("both constellation names must be produced")
	}
}

func TestMoonTopocentricReport(t *testing.T) {
	s := testMoonService(t)
	reqUTC := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	rep, err := s.Compute(contextAt(t, "2025-03-15T12:00:00Z"), parisFrame())
	if err != nil {
		t.Fatal(err)
	}

	if rep.Position == nil {
		t.Fatal("topocentric request must carry a horizontal position")
	}
	if rep.Observer == nil || rep.Observer.Latitude != 48.85 {
		t.Errorf("observer echo = %+v", rep.Observer)
	}
	if rep.Precision.Frame != "topocentric" {
		t.Errorf("frame = %q", rep.Precision.Frame)
	}

	rs := rep.MoonriseAndSet
	if rs == nil {
		t.Fatal("topocentric request should search for horizon events")
	}
	if rs.NextMoonrise == nil || rs.NextMoonset == nil || rs.NextTransit == nil {
		t.Fatalf("mid-latitude site should see all three events within the window: %+v", rs)
	}
	for name, stamp := range map[string]string{
		"moonrise": rs.NextMoonrise.Time,
		"moonset":  rs.NextMoonset.Time,
		"transit":  rs.NextTransit.Time,
	} {
		at := parseEventTime(t, stamp)
		if !at.After(reqUTC) {
			t.Errorf("%s at %q is not after the request instant", name, stamp)
		}
		if at.Sub(reqUTC) > 4*24*time.Hour {
			t.Errorf("%s at %q is outside the search window", name, stamp)
		}
	}
	for name, az := range map[string]float64{
		"moonrise": rs.NextMoonrise.AzimuthDegrees,
		"moonset":  rs.NextMoonset.AzimuthDegrees,
		"transit":  rs.NextTransit.AzimuthDegrees,
	} {
		if az < 0 || az >= 360 {
			t.Errorf("%s azimuth %v outside [0, 360)", name, az)
		}
	}
	if p := rs.NextMoonrise.IlluminationPercent; p < 0 || p > 100 {
		t.Errorf("illumination at moonrise = %v%%", p)
	}
}

func TestLibrationBounds(t *testing.T) {
	s := testMoonService(t)
	for _, stamp := range []string{"2025-01-05T00:00:00Z", "2025-04-20T06:00:00Z", "2025-09-01T18:00:00Z"} {
		rep, err := s.Compute(contextAt(t, stamp), frame.Frame{})
		if err != nil {
			t.Fatal(err)
		}
		lib := rep.Libration
		if lib.LongitudeDegrees < -10 || lib.LongitudeDegrees > 10 {
			t.Errorf("%s: libration longitude %v deg out of optical range", stamp, lib.LongitudeDegrees)
		}
		if lib.LatitudeDegrees < -8 || lib.LatitudeDegrees > 8 {
			t.Errorf("%s: libration latitude %v deg out of optical range", stamp, lib.LatitudeDegrees)
		}
		if lib.Note == "" {
			t.Error("libration must carry its accuracy note")
		}
	}
}

// Package domain provides domain models for the application
package domain

import "time"

// TimestampLayout is the wire format for event and echo timestamps.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// ObservationRequest is the optional request body shared by all body
// endpoints. Pointer fields distinguish absent from zero.
type ObservationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Height    *float64 `json:"height"`
	Timestamp string   `json:"timestamp"`
}

// AngleValue renders one angle in degrees and sexagesimal form. Both
// fields are produced from the same underlying value.
type AngleValue struct {
	Degrees float64 `json:"degrees"`
	DMS     string  `json:"dms"`
}

// HorizontalPosition is the topocentric altitude/azimuth block.
type HorizontalPosition struct {
	Altitude AngleValue `json:"altitude"`
	Azimuth  AngleValue `json:"azimuth"`
}

// RightAscension carries hour, degree, and sexagesimal forms.
type RightAscension struct {
	Hours   float64 `json:"hours"`
	Degrees float64 `json:"degrees"`
	HMS     string  `json:"hms"`
}

// Declination carries degree and sexagesimal forms.
type Declination struct {
	Degrees float64 `json:"degrees"`
	DMS     string  `json:"dms"`
}

// CelestialCoordinates is the equatorial coordinate block.
type CelestialCoordinates struct {
	RightAscension RightAscension `json:"right_ascension"`
	Declination    Declination    `json:"declination"`
}

// Distance reports geocentric distance in three units.
type Distance struct {
	Km           float64 `json:"km"`
	AU           float64 `json:"au"`
	LightSeconds float64 `json:"light_seconds"`
}

// ViewingConditions summarizes how well the body can be observed.
type ViewingConditions struct {
	AtmosphericExtinction float64 `json:"atmospheric_extinction"`
	ExtinctionEffect      string  `json:"extinction_effect"`
	BestViewingTime       string  `json:"best_viewing_time"`
}

// Precision reports which computation tier produced the response.
type Precision struct {
	Ephemeris   string   `json:"ephemeris"`
	Frame       string   `json:"frame"`
	Corrections []string `json:"corrections"`
}

// Observer echoes the request location.
type Observer struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Height    float64 `json:"height"`
}

// TimeScales echoes the request instant in each scale used.
type TimeScales struct {
	UTC        string  `json:"utc"`
	TT         string  `json:"tt"`
	TDB        string  `json:"tdb"`
	JulianDate float64 `json:"julian_date"`
}

// BodyReport is the part of the payload shared by every body.
// Position and ViewingConditions are observer-dependent and absent for
// geocentric requests; their presence is a function of request shape
// alone.
type BodyReport struct {
	Name                 string               `json:"name"`
	Position             *HorizontalPosition  `json:"position,omitempty"`
	CelestialCoordinates CelestialCoordinates `json:"celestial_coordinates"`
	Distance             Distance             `json:"distance"`
	Constellation        string               `json:"constellation"`
	ConstellationPrecise string               `json:"constellation_precise"`
	ViewingConditions    *ViewingConditions   `json:"viewing_conditions,omitempty"`
	Precision            Precision            `json:"precision"`
	Observer             *Observer            `json:"observer,omitempty"`
	TimeScales           TimeScales           `json:"time_scales"`
	Timestamp            string               `json:"timestamp"`
}

// PhaseEvent is one new/full moon occurrence.
type PhaseEvent struct {
	Phase string `json:"phase"`
	Date  string `json:"date"`
}

// MoonPhases groups the phase events around the request instant.
// Previous events are strictly before it; an event at the exact
// instant is reported as next.
type MoonPhases struct {
	Previous []PhaseEvent `json:"previous"`
	Next     []PhaseEvent `json:"next"`
}

// MoonAge is the time elapsed since the most recent new moon.
type MoonAge struct {
	Days              float64 `json:"days"`
	PercentageOfCycle float64 `json:"percentage_of_cycle"`
}

// IlluminationDetails expands the phase geometry.
type IlluminationDetails struct {
	ElongationDegrees     float64 `json:"elongation_degrees"`
	PhaseAngleDegrees     float64 `json:"phase_angle_degrees"`
	IlluminatedFraction   float64 `json:"illuminated_fraction"`
	IlluminatedPercentage float64 `json:"illuminated_percentage"`
}

// Libration holds the simplified optical libration angles.
type Libration struct {
	LongitudeDegrees     float64 `json:"longitude_degrees"`
	LatitudeDegrees      float64 `json:"latitude_degrees"`
	PositionAngleDegrees float64 `json:"position_angle_degrees"`
	Note                 string  `json:"note"`
}

// MoonRiseEvent is a moonrise or moonset occurrence.
type MoonRiseEvent struct {
	Time                string  `json:"time"`
	AzimuthDegrees      float64 `json:"azimuth_degrees"`
	IlluminationPercent float64 `json:"illumination_percent"`
}

// MoonTransitEvent is an upper culmination occurrence.
type MoonTransitEvent struct {
	Time                string  `json:"time"`
	AltitudeDegrees     float64 `json:"altitude_degrees"`
	AzimuthDegrees      float64 `json:"azimuth_degrees"`
	IlluminationPercent float64 `json:"illumination_percent"`
}

// MoonRiseSet groups the next horizon events for the Moon.
type MoonRiseSet struct {
	NextMoonrise *MoonRiseEvent    `json:"next_moonrise,omitempty"`
	NextMoonset  *MoonRiseEvent    `json:"next_moonset,omitempty"`
	NextTransit  *MoonTransitEvent `json:"next_transit,omitempty"`
}

// MoonReport is the full Moon payload.
type MoonReport struct {
	BodyReport
	CurrentPhase        float64             `json:"current_phase"`
	IlluminationDetails IlluminationDetails `json:"illumination_details"`
	MoonAge             MoonAge             `json:"moon_age"`
	Phases              MoonPhases          `json:"phases"`
	Libration           *Libration          `json:"libration,omitempty"`
	MoonriseAndSet      *MoonRiseSet        `json:"moonrise_and_set,omitempty"`
}

// MarsRiseEvent is a marsrise or marsset occurrence.
type MarsRiseEvent struct {
	Time           string  `json:"time"`
	AzimuthDegrees float64 `json:"azimuth_degrees"`
	Magnitude      float64 `json:"magnitude"`
}

// MarsTransitEvent is an upper culmination occurrence for Mars.
type MarsTransitEvent struct {
	Time            string  `json:"time"`
	AltitudeDegrees float64 `json:"altitude_degrees"`
	AzimuthDegrees  float64 `json:"azimuth_degrees"`
	Magnitude       float64 `json:"magnitude"`
}

// MarsRiseSet groups the next horizon events for Mars.
type MarsRiseSet struct {
	NextMarsrise *MarsRiseEvent    `json:"next_marsrise,omitempty"`
	NextMarsset  *MarsRiseEvent    `json:"next_marsset,omitempty"`
	NextTransit  *MarsTransitEvent `json:"next_transit,omitempty"`
}

// AngularDiameter is the apparent disk size.
type AngularDiameter struct {
	Arcseconds float64 `json:"arcseconds"`
}

// SunSeparation describes the Sun-Mars elongation geometry.
type SunSeparation struct {
	Degrees             float64 `json:"degrees"`
	OppositionProximity float64 `json:"opposition_proximity"`
}

// MarsSeasons is the approximate Martian season block.
type MarsSeasons struct {
	MarsYear          int     `json:"mars_year"`
	SolarLongitudeDeg float64 `json:"solar_longitude_deg"`
	Season            string  `json:"season"`
}

// MarsReport is the full Mars payload.
type MarsReport struct {
	BodyReport
	Magnitude       float64         `json:"magnitude"`
	AngularDiameter AngularDiameter `json:"angular_diameter"`
	SunSeparation   SunSeparation   `json:"sun_separation"`
	SpecialPosition string          `json:"special_position,omitempty"`
	MarsSeasons     MarsSeasons     `json:"mars_seasons"`
	MarsriseAndSet  *MarsRiseSet    `json:"marsrise_and_set,omitempty"`
}

// Health represents health check response
type Health struct {
	Status string    `json:"status"`
	Now    time.Time `json:"now"`
}

// ErrorPayload is the error response envelope.
type ErrorPayload struct {
	Error string `json:"error"`
}

// ErrorResponse creates an error response
func ErrorResponse(message string) ErrorPayload {
	return ErrorPayload{Error: message}
}

package domain

import (
	"errors"
	"math"
	"time"
)

// StormStatus is the HURDAT2 system status code.
type StormStatus string

const (
	StatusTropicalStorm StormStatus = "TS"
	StatusHurricane     StormStatus = "HU"
)

// Tracked reports whether the status is one the analysis considers.
func (s StormStatus) Tracked() bool {
	return s == StatusTropicalStorm || s == StatusHurricane
}

// WindRadii holds the 34 kt wind radius per quadrant in nautical miles.
// Negative values mean the radius was not analysed.
type WindRadii struct {
	NE float64 `json:"ne"`
	SE float64 `json:"se"`
	SW float64 `json:"sw"`
	NW float64 `json:"nw"`
}

// Max returns the largest analysed radius, or 0 when none are available.
func (r WindRadii) Max() float64 {
	return max(0, r.NE, r.SE, r.SW, r.NW)
}

// CycloneFix is one best-track observation.
type CycloneFix struct {
	StormID   string      `json:"storm_id"`
	StormName string      `json:"storm_name,omitempty"`
	Time      time.Time   `json:"time"`
	Status    StormStatus `json:"status"`
	Lat       float64     `json:"lat"`
	Lon       float64     `json:"lon"` // signed, west negative
	MaxWindKt int         `json:"max_wind_kt"`
	Radii     WindRadii   `json:"radii"`
}

const (
	earthRadiusKm  = 6371.0
	nauticalMileKm = 1.852
	kmPerDegree    = earthRadiusKm * math.Pi / 180.0
)

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0
	lat1r := lat1 * math.Pi / 180.0
	lat2r := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// ErrNotConsecutive is returned when two fixes cannot yield a translation speed.
var ErrNotConsecutive = errors.New("fixes are not consecutive observations of one storm")

// TranslationSpeed returns the storm motion between two consecutive fixes in
// m/s: great-circle distance over the elapsed time. Both fixes must belong to
// the same storm, be TS or HU, and be exactly one six-hour slot apart.
func TranslationSpeed(a, b CycloneFix) (float64, error) {
	if a.StormID != b.StormID || !a.Status.Tracked() || !b.Status.Tracked() {
		return 0, ErrNotConsecutive
	}
	elapsed := b.Time.Sub(a.Time)
	if elapsed != SlotDuration {
		return 0, ErrNotConsecutive
	}
	km := HaversineKm(a.Lat, a.Lon, b.Lat, b.Lon)
	kmPerHour := km / elapsed.Hours()
	return kmPerHour * 1000 / 3600, nil
}

// TrackSpeed is a translation speed attributed to the later of two fixes.
type TrackSpeed struct {
	StormID string    `json:"storm_id"`
	Time    time.Time `json:"time"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	Speed   float64   `json:"speed_ms"`
}

// TranslationSpeeds derives the motion of every storm while its eye is within
// proximityDeg (in both latitude and longitude) of a monitored location at the
// current or the preceding fix. fixes must be grouped by storm and ordered by
// time. A storm's first fix has no predecessor and yields nothing.
func TranslationSpeeds(fixes []CycloneFix, locs []Location, proximityDeg float64) []TrackSpeed {
	var out []TrackSpeed
	for i := 1; i < len(fixes); i++ {
		prev, cur := fixes[i-1], fixes[i]
		speed, err := TranslationSpeed(prev, cur)
		if err != nil {
			continue
		}
		if !nearAny(cur, locs, proximityDeg) && !nearAny(prev, locs, proximityDeg) {
			continue
		}
		out = append(out, TrackSpeed{
			StormID: cur.StormID,
			Time:    cur.Time,
			Lat:     cur.Lat,
			Lon:     cur.Lon,
			Speed:   speed,
		})
	}
	return out
}

func nearAny(f CycloneFix, locs []Location, deg float64) bool {
	for _, l := range locs {
		if math.Abs(f.Lat-l.Lat) <= deg && math.Abs(f.Lon-l.Lon) <= deg {
			return true
		}
	}
	return false
}

package domain

import "math"

// RadiusRule sizes the exclusion circle for one storm category: the largest
// 34 kt wind radius scaled by Scale, never smaller than MinKm.
type RadiusRule struct {
	MinKm float64
	Scale float64
}

// ContaminationOptions configures RemoveStormWinds.
type ContaminationOptions struct {
	TropicalStorm RadiusRule
	Hurricane     RadiusRule
}

// DefaultContaminationOptions returns the radii used by the standard report.
func DefaultContaminationOptions() ContaminationOptions {
	return ContaminationOptions{
		TropicalStorm: RadiusRule{MinKm: 200, Scale: 1.0},
		Hurricane:     RadiusRule{MinKm: 350, Scale: 1.25},
	}
}

// ExclusionRadiusKm returns the contamination radius around a fix. Statuses
// other than TS and HU have no radius.
func (o ContaminationOptions) ExclusionRadiusKm(f CycloneFix) float64 {
	var rule RadiusRule
	switch f.Status {
	case StatusHurricane:
		rule = o.Hurricane
	case StatusTropicalStorm:
		rule = o.TropicalStorm
	default:
		return 0
	}
	return math.Max(rule.MinKm, f.Radii.Max()*nauticalMileKm*rule.Scale)
}

// ContaminationStats reports what RemoveStormWinds did.
type ContaminationStats struct {
	FixesMatched int `json:"fixes_matched"`
	Masked       int `json:"masked"`
}

// RemoveStormWinds returns a copy of the field in which every sample taken at
// a fix's exact timestamp, at a location within that fix's exclusion radius,
// is set to NaN. The input field is never modified.
func RemoveStormWinds(field *WindField, fixes []CycloneFix, opts ContaminationOptions) (*WindField, ContaminationStats) {
	out := field.Clone()
	var st ContaminationStats
	if len(fixes) == 0 || len(out.Locations) == 0 {
		return out, st
	}

	slotByUnix := make(map[int64]int, len(out.Times))
	for i, t := range out.Times {
		slotByUnix[ToCalendarTime(t).Unix()] = i
	}
	box := boundsOf(out.Locations)

	for _, f := range fixes {
		slot, ok := slotByUnix[f.Time.Unix()]
		if !ok {
			continue
		}
		radius := opts.ExclusionRadiusKm(f)
		if radius <= 0 {
			continue
		}
		latPad := radius / kmPerDegree
		if !box.near(f.Lat, f.Lon, latPad) {
			continue
		}
		st.FixesMatched++
		for i, loc := range out.Locations {
			if math.Abs(loc.Lat-f.Lat) > latPad {
				continue
			}
			if HaversineKm(f.Lat, f.Lon, loc.Lat, loc.Lon) > radius {
				continue
			}
			if !math.IsNaN(out.Speeds[i][slot]) {
				out.Speeds[i][slot] = math.NaN()
				st.Masked++
			}
		}
	}
	return out, st
}

type bounds struct {
	minLat, maxLat, minLon, maxLon float64
}

func boundsOf(locs []Location) bounds {
	b := bounds{minLat: math.Inf(1), maxLat: math.Inf(-1), minLon: math.Inf(1), maxLon: math.Inf(-1)}
	for _, l := range locs {
		b.minLat = math.Min(b.minLat, l.Lat)
		b.maxLat = math.Max(b.maxLat, l.Lat)
		b.minLon = math.Min(b.minLon, l.Lon)
		b.maxLon = math.Max(b.maxLon, l.Lon)
	}
	return b
}

// near is a cheap geofence: the point lies within padDeg of latitude of the
// box and within the matching longitude distance at the box's most poleward
// latitude.
func (b bounds) near(lat, lon, padDeg float64) bool {
	if lat < b.minLat-padDeg || lat > b.maxLat+padDeg {
		return false
	}
	poleward := math.Max(math.Abs(b.minLat), math.Abs(b.maxLat)) + padDeg
	c := math.Cos(poleward * math.Pi / 180)
	if c < 0.01 {
		return true
	}
	lonPad := padDeg / c
	return lon >= b.minLon-lonPad && lon <= b.maxLon+lonPad
}

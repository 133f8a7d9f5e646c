package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRegion is returned when a region code is not in the enumeration.
var ErrUnknownRegion = errors.New("unknown region")

// Location is a grid point in decimal degrees, west longitude negative.
type Location struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Coastal box bounds. Longitude and latitude intervals are lower-exclusive
// and upper-inclusive: (-98, -75] x (24, 36].
const (
	boxWestLon  = -98.0
	boxEastLon  = -75.0
	boxSouthLat = 24.0
	boxNorthLat = 36.0
)

// InCoastalBox reports whether a point belongs to the monitored coastline:
// inside the box, outside the Mexican coast and Bahamas dead zones, and not
// north of the North Carolina diagonal.
func InCoastalBox(loc Location) bool {
	if loc.Lon <= boxWestLon || loc.Lon > boxEastLon || loc.Lat <= boxSouthLat || loc.Lat > boxNorthLat {
		return false
	}
	// Mexican coast.
	if loc.Lon < -96 && loc.Lat < 26 {
		return false
	}
	// Bahamas.
	if loc.Lon > -79 && loc.Lat < 30 {
		return false
	}
	return !northOfCarolinaCut(loc)
}

// northOfCarolinaCut is the line through (-77, 36) and (-75, 35.5). Points
// strictly above it lie off the Outer Banks or in Virginia.
func northOfCarolinaCut(loc Location) bool {
	return loc.Lat > 36.0-0.25*(loc.Lon+77.0)
}

// FilterCoastal keeps the points inside the coastal box, preserving input
// order. The second result maps each kept point to its input index so callers
// can select the matching wind-speed rows.
func FilterCoastal(locs []Location) ([]Location, []int) {
	kept := make([]Location, 0, len(locs))
	idx := make([]int, 0, len(locs))
	for i, loc := range locs {
		if InCoastalBox(loc) {
			kept = append(kept, loc)
			idx = append(idx, i)
		}
	}
	return kept, idx
}

// Segment is one of the mutually exclusive coastal sections.
type Segment string

const (
	SegmentNone      Segment = ""
	SegmentSouthTX   Segment = "STX"
	SegmentNorthTX   Segment = "NTX"
	SegmentLAMS      Segment = "LA-MS"
	SegmentALFL      Segment = "AL-FL"
	SegmentWestFL    Segment = "WFL"
	SegmentEastFL    Segment = "EFL"
	SegmentGASC      Segment = "GA-SC"
	SegmentNCarolina Segment = "NC"
)

// Segment boundaries.
const (
	texasEastLon      = -93.75 // Sabine Pass
	texasSplitLat     = 28.0   // Matagorda Bay
	alabamaWestLon    = -88.25 // Mississippi / Alabama line
	panhandleEastLon  = -84.25 // Apalachee Bay
	peninsulaWestLon  = -81.75 // gulf / atlantic side of the peninsula
	bigBendNorthLat   = 30.0
	stMarysLat        = 30.75  // Florida / Georgia line
	carolinaSplitLat  = 33.75  // South / North Carolina line
	perdidoLon        = -87.5  // Alabama / Florida line
	peninsulaSplitLat = 28.0   // north / south Florida
	floridaNorthLimit = 31.0
	panhandleSouthLat = 29.5
)

// segmentRules are evaluated in order and the first match wins. Each rule
// only sees points that failed every earlier rule, so a boundary coordinate
// goes to the earliest segment whose half-open interval contains it. With
// upper-inclusive longitude bounds, a point at exactly -81.75 is assigned to
// the west side (WFL or GA-SC).
var segmentRules = []struct {
	segment Segment
	match   func(Location) bool
}{
	{SegmentSouthTX, func(l Location) bool { return l.Lon <= texasEastLon && l.Lat <= texasSplitLat }},
	{SegmentNorthTX, func(l Location) bool { return l.Lon <= texasEastLon }},
	{SegmentLAMS, func(l Location) bool { return l.Lon <= alabamaWestLon }},
	{SegmentALFL, func(l Location) bool { return l.Lon <= panhandleEastLon }},
	{SegmentWestFL, func(l Location) bool { return l.Lon <= peninsulaWestLon && l.Lat <= bigBendNorthLat }},
	{SegmentGASC, func(l Location) bool { return l.Lon <= peninsulaWestLon }},
	{SegmentEastFL, func(l Location) bool { return l.Lat <= stMarysLat }},
	{SegmentGASC, func(l Location) bool { return l.Lat <= carolinaSplitLat }},
	{SegmentNCarolina, func(Location) bool { return true }},
}

// ClassifySegment assigns a coastal point to its segment. Points outside the
// coastal box return SegmentNone.
func ClassifySegment(loc Location) Segment {
	if !InCoastalBox(loc) {
		return SegmentNone
	}
	for _, r := range segmentRules {
		if r.match(loc) {
			return r.segment
		}
	}
	return SegmentNone
}

// Region is a named selection of coastal points used in reports.
type Region struct {
	Code    string
	Key     string // storage key used in output file and sheet names
	Phrase  string // "the Texas Coast"
	Plural  string // "Texas Coasts"
	members []Segment
	extra   func(Location) bool
}

// Contains reports whether a point belongs to the region.
func (r Region) Contains(loc Location) bool {
	seg := ClassifySegment(loc)
	if seg == SegmentNone {
		return false
	}
	if len(r.members) > 0 && !containsSegment(r.members, seg) {
		return false
	}
	return r.extra == nil || r.extra(loc)
}

func containsSegment(segs []Segment, s Segment) bool {
	for _, v := range segs {
		if v == s {
			return true
		}
	}
	return false
}

func floridaPoint(l Location) bool {
	seg := ClassifySegment(l)
	switch seg {
	case SegmentWestFL, SegmentEastFL:
		return true
	case SegmentALFL:
		return l.Lon > perdidoLon && l.Lat <= floridaNorthLimit && l.Lat > panhandleSouthLat
	default:
		return false
	}
}

var floridaSegments = []Segment{SegmentALFL, SegmentWestFL, SegmentEastFL}

// Regions is the fixed enumeration, in report order.
var Regions = []Region{
	{Code: "AL", Key: "all", Phrase: "the Southeast U.S. Coast", Plural: "Southeast U.S. Coasts"},
	{Code: "GOM", Key: "gulf", Phrase: "the U.S. Gulf Coast", Plural: "U.S. Gulf Coasts",
		members: []Segment{SegmentSouthTX, SegmentNorthTX, SegmentLAMS, SegmentALFL, SegmentWestFL}},
	{Code: "AC", Key: "atlantic", Phrase: "the Southeast U.S. Atlantic Coast", Plural: "Southeast U.S. Atlantic Coasts",
		members: []Segment{SegmentEastFL, SegmentGASC, SegmentNCarolina}},
	{Code: "TX", Key: "texas", Phrase: "the Texas Coast", Plural: "Texas Coasts",
		members: []Segment{SegmentSouthTX, SegmentNorthTX}},
	{Code: "NTX", Key: "north_texas", Phrase: "the North Texas Coast", Plural: "North Texas Coasts",
		members: []Segment{SegmentNorthTX}},
	{Code: "STX", Key: "south_texas", Phrase: "the South Texas Coast", Plural: "South Texas Coasts",
		members: []Segment{SegmentSouthTX}},
	{Code: "LA-MS", Key: "louisiana_mississippi", Phrase: "the Louisiana and Mississippi Coast", Plural: "Louisiana and Mississippi Coasts",
		members: []Segment{SegmentLAMS}},
	{Code: "AL-FL", Key: "alabama_panhandle", Phrase: "the Alabama and Florida Panhandle Coast", Plural: "Alabama and Florida Panhandle Coasts",
		members: []Segment{SegmentALFL}},
	{Code: "WFL", Key: "west_florida", Phrase: "the West Florida Coast", Plural: "West Florida Coasts",
		members: []Segment{SegmentWestFL}},
	{Code: "EFL", Key: "east_florida", Phrase: "the East Florida Coast", Plural: "East Florida Coasts",
		members: []Segment{SegmentEastFL}},
	{Code: "FL", Key: "florida", Phrase: "the Florida Coast", Plural: "Florida Coasts",
		members: floridaSegments, extra: floridaPoint},
	{Code: "NFL", Key: "north_florida", Phrase: "the North Florida Coast", Plural: "North Florida Coasts",
		members: floridaSegments, extra: func(l Location) bool { return floridaPoint(l) && l.Lat > peninsulaSplitLat }},
	{Code: "SFL", Key: "south_florida", Phrase: "the South Florida Coast", Plural: "South Florida Coasts",
		members: floridaSegments, extra: func(l Location) bool { return floridaPoint(l) && l.Lat <= peninsulaSplitLat }},
	{Code: "GA-SC", Key: "georgia_south_carolina", Phrase: "the Georgia and South Carolina Coast", Plural: "Georgia and South Carolina Coasts",
		members: []Segment{SegmentGASC}},
	{Code: "NC", Key: "north_carolina", Phrase: "the North Carolina Coast", Plural: "North Carolina Coasts",
		members: []Segment{SegmentNCarolina}},
}

// ParseRegion looks up a region by code, case-insensitively.
func ParseRegion(code string) (Region, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	for _, r := range Regions {
		if r.Code == c {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, code)
}

// RegionCodes lists the known codes in report order.
func RegionCodes() []string {
	codes := make([]string, len(Regions))
	for i, r := range Regions {
		codes[i] = r.Code
	}
	return codes
}

// FilterRegion keeps the points inside the region, preserving order, and
// returns the input index of each kept point.
func FilterRegion(locs []Location, r Region) ([]Location, []int) {
	kept := make([]Location, 0, len(locs))
	idx := make([]int, 0, len(locs))
	for i, loc := range locs {
		if r.Contains(loc) {
			kept = append(kept, loc)
			idx = append(idx, i)
		}
	}
	return kept, idx
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySegment(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want Segment
	}{
		{"south texas", Location{Lon: -97, Lat: 27}, SegmentSouthTX},
		{"north texas", Location{Lon: -95, Lat: 29.5}, SegmentNorthTX},
		{"sabine pass tie", Location{Lon: -93.75, Lat: 29.5}, SegmentNorthTX},
		{"matagorda tie", Location{Lon: -96, Lat: 28}, SegmentSouthTX},
		{"louisiana", Location{Lon: -90, Lat: 29.5}, SegmentLAMS},
		{"mississippi line tie", Location{Lon: -88.25, Lat: 30}, SegmentLAMS},
		{"panhandle", Location{Lon: -86, Lat: 30.25}, SegmentALFL},
		{"tampa", Location{Lon: -82.5, Lat: 27.5}, SegmentWestFL},
		{"peninsula tie", Location{Lon: -81.75, Lat: 29}, SegmentWestFL},
		{"inland georgia", Location{Lon: -82, Lat: 31}, SegmentGASC},
		{"jacksonville", Location{Lon: -80.5, Lat: 30}, SegmentEastFL},
		{"savannah", Location{Lon: -81, Lat: 32}, SegmentGASC},
		{"wilmington", Location{Lon: -78, Lat: 34.5}, SegmentNCarolina},
		{"cape hatteras", Location{Lon: -75, Lat: 35}, SegmentNCarolina},
		{"outer banks cut", Location{Lon: -75.5, Lat: 35.9}, SegmentNone},
		{"bahamas", Location{Lon: -78.5, Lat: 26}, SegmentNone},
		{"mexico", Location{Lon: -97, Lat: 25.5}, SegmentNone},
		{"west edge excluded", Location{Lon: -98, Lat: 30}, SegmentNone},
		{"south edge excluded", Location{Lon: -85, Lat: 24}, SegmentNone},
		{"north edge included", Location{Lon: -80, Lat: 36}, SegmentNCarolina},
		{"offshore northeast", Location{Lon: -70, Lat: 40}, SegmentNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySegment(tt.loc))
		})
	}
}

func TestClassifySegment_ExhaustiveInBox(t *testing.T) {
	for lat := 24.25; lat <= 36; lat += 0.25 {
		for lon := -97.75; lon <= -75; lon += 0.25 {
			loc := Location{Lon: lon, Lat: lat}
			if InCoastalBox(loc) {
				assert.NotEqual(t, SegmentNone, ClassifySegment(loc), "%+v", loc)
			}
		}
	}
}

func TestFilterCoastal(t *testing.T) {
	locs := []Location{
		{Lon: -70, Lat: 40},
		{Lon: -95, Lat: 29.5},
		{Lon: -78.5, Lat: 26},
		{Lon: -80.5, Lat: 30},
	}
	kept, idx := FilterCoastal(locs)
	assert.Equal(t, []Location{locs[1], locs[3]}, kept)
	assert.Equal(t, []int{1, 3}, idx)
}

func TestRegionContains(t *testing.T) {
	var (
		northTexas = Location{Lon: -95, Lat: 29.5}
		alabama    = Location{Lon: -88, Lat: 30.25}
		panhandle  = Location{Lon: -86, Lat: 30.25}
		tampa      = Location{Lon: -82.5, Lat: 27.5}
		eastFL     = Location{Lon: -80.5, Lat: 30}
		carolina   = Location{Lon: -78, Lat: 34.5}
	)
	tests := []struct {
		code string
		in   []Location
		out  []Location
	}{
		{"AL", []Location{northTexas, panhandle, eastFL, carolina}, nil},
		{"GOM", []Location{northTexas, alabama, tampa}, []Location{eastFL, carolina}},
		{"AC", []Location{eastFL, carolina}, []Location{northTexas, tampa}},
		{"TX", []Location{northTexas}, []Location{alabama}},
		{"FL", []Location{panhandle, tampa, eastFL}, []Location{alabama, carolina}},
		{"NFL", []Location{panhandle, eastFL}, []Location{tampa}},
		{"SFL", []Location{tampa}, []Location{eastFL, panhandle}},
		{"NC", []Location{carolina}, []Location{eastFL}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r, err := ParseRegion(tt.code)
			require.NoError(t, err)
			for _, l := range tt.in {
				assert.True(t, r.Contains(l), "%s should contain %+v", tt.code, l)
			}
			for _, l := range tt.out {
				assert.False(t, r.Contains(l), "%s should not contain %+v", tt.code, l)
			}
		})
	}
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion(" la-ms ")
	require.NoError(t, err)
	assert.Equal(t, "LA-MS", r.Code)
	assert.Equal(t, "louisiana_mississippi", r.Key)

	_, err = ParseRegion("XX")
	assert.ErrorIs(t, err, ErrUnknownRegion)

	assert.Len(t, RegionCodes(), 15)
	assert.Equal(t, "AL", RegionCodes()[0])
}

func TestFilterRegion(t *testing.T) {
	locs := []Location{{Lon: -80.5, Lat: 30}, {Lon: -95, Lat: 29.5}, {Lon: -97, Lat: 27}}
	tx, err := ParseRegion("TX")
	require.NoError(t, err)

	kept, idx := FilterRegion(locs, tx)
	assert.Equal(t, []Location{locs[1], locs[2]}, kept)
	assert.Equal(t, []int{1, 2}, idx)
}

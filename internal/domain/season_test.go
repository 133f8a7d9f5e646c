package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ramp returns one row per location whose value is the global index.
func ramp(locations, slots int) [][]float64 {
	out := make([][]float64, locations)
	for i := range out {
		row := make([]float64, slots)
		for j := range row {
			row[j] = float64(j)
		}
		out[i] = row
	}
	return out
}

func TestBuckets_PartitionSeason(t *testing.T) {
	for name, group := range map[string][]Bucket{"phases": Phases, "months": Months} {
		t.Run(name, func(t *testing.T) {
			for off := 0; off < SlotsPerSeason; off++ {
				n := 0
				for _, b := range group {
					if b.Contains(off) {
						n++
					}
				}
				assert.Equal(t, 1, n, "offset %d", off)
			}
		})
	}
}

func TestBuckets_Breakpoints(t *testing.T) {
	tests := []struct {
		bucket   Bucket
		from, to int
	}{
		{BucketSeason, 0, 732},
		{BucketEarly, 0, 252},
		{BucketMid, 252, 496},
		{BucketLate, 496, 732},
		{BucketJune, 0, 128},
		{BucketJuly, 128, 252},
		{BucketAugust, 252, 376},
		{BucketSeptember, 376, 496},
		{BucketOctober, 496, 620},
		{BucketNovember, 620, 732},
		{BucketMidV2, 128, 376},
		{BucketLateV2, 376, 620},
	}
	for _, tt := range tests {
		t.Run(tt.bucket.Code, func(t *testing.T) {
			from, to := tt.bucket.Range()
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
			assert.True(t, tt.bucket.Contains(tt.from))
			assert.False(t, tt.bucket.Contains(tt.to))
		})
	}
	assert.Len(t, AllBuckets(), 12)
}

func TestSelectBucket(t *testing.T) {
	speeds := ramp(2, 3*SlotsPerSeason)

	got := SelectBucket(speeds, BucketJuly)
	require.Len(t, got, 2)
	require.Len(t, got[0], 3*BucketJuly.Len())
	assert.Equal(t, 128.0, got[0][0])
	assert.Equal(t, 251.0, got[0][123])
	assert.Equal(t, float64(SlotsPerSeason+128), got[0][124])
	assert.Equal(t, got[0], got[1])
}

func TestDivideBySeason(t *testing.T) {
	speeds := ramp(1, 2*SlotsPerSeason)
	sb := DivideBySeason(speeds)

	total := len(sb.June[0]) + len(sb.July[0]) + len(sb.August[0]) +
		len(sb.September[0]) + len(sb.October[0]) + len(sb.November[0])
	assert.Equal(t, 2*SlotsPerSeason, total)
	assert.Equal(t, len(sb.Early[0])+len(sb.Mid[0])+len(sb.Late[0]), total)
	assert.Equal(t, len(sb.July[0])+len(sb.August[0]), len(sb.MidV2[0]))
	assert.Equal(t, len(sb.September[0])+len(sb.October[0]), len(sb.LateV2[0]))
}

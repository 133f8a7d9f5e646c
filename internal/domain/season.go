package domain

// Season breakpoints as slot offsets within a 732-slot season.
const (
	offsetJulyStart      = 128
	offsetAugustStart    = 252
	offsetSeptemberStart = 376
	offsetOctoberStart   = 496
	offsetNovemberStart  = 620
)

// Bucket selects a sub-range of every season. The disjoint phases and months
// partition [0, 732); the v2 buckets are overlapping unions used for
// specific comparisons.
type Bucket struct {
	Code   string `json:"code"`
	Phrase string `json:"phrase"`
	from   int
	to     int
}

// Contains reports whether a season offset lies in the bucket.
func (b Bucket) Contains(offset int) bool {
	return offset >= b.from && offset < b.to
}

// Range returns the offset interval [from, to).
func (b Bucket) Range() (from, to int) {
	return b.from, b.to
}

// Len returns the number of slots per season in the bucket.
func (b Bucket) Len() int {
	return b.to - b.from
}

var (
	BucketSeason    = Bucket{Code: "ALL", Phrase: "Hurricane Seasons", from: 0, to: SlotsPerSeason}
	BucketEarly     = Bucket{Code: "EHS", Phrase: "Late May, June, and July", from: 0, to: offsetAugustStart}
	BucketMid       = Bucket{Code: "MHS", Phrase: "August and September", from: offsetAugustStart, to: offsetOctoberStart}
	BucketLate      = Bucket{Code: "LHS", Phrase: "October and November", from: offsetOctoberStart, to: SlotsPerSeason}
	BucketJune      = Bucket{Code: "JUN", Phrase: "Late May and June", from: 0, to: offsetJulyStart}
	BucketJuly      = Bucket{Code: "JUL", Phrase: "July", from: offsetJulyStart, to: offsetAugustStart}
	BucketAugust    = Bucket{Code: "AUG", Phrase: "August", from: offsetAugustStart, to: offsetSeptemberStart}
	BucketSeptember = Bucket{Code: "SEP", Phrase: "September", from: offsetSeptemberStart, to: offsetOctoberStart}
	BucketOctober   = Bucket{Code: "OCT", Phrase: "October", from: offsetOctoberStart, to: offsetNovemberStart}
	BucketNovember  = Bucket{Code: "NOV", Phrase: "November", from: offsetNovemberStart, to: SlotsPerSeason}
	BucketMidV2     = Bucket{Code: "MHS_V2", Phrase: "July and August", from: offsetJulyStart, to: offsetSeptemberStart}
	BucketLateV2    = Bucket{Code: "LHS_V2", Phrase: "September and October", from: offsetSeptemberStart, to: offsetNovemberStart}
)

// Phases are the three disjoint parts of the season.
var Phases = []Bucket{BucketEarly, BucketMid, BucketLate}

// Months are the six disjoint calendar-month buckets.
var Months = []Bucket{BucketJune, BucketJuly, BucketAugust, BucketSeptember, BucketOctober, BucketNovember}

// AllBuckets lists every bucket in report order.
func AllBuckets() []Bucket {
	out := []Bucket{BucketSeason}
	out = append(out, Phases...)
	out = append(out, Months...)
	return append(out, BucketMidV2, BucketLateV2)
}

// SeasonBuckets is the result of DivideBySeason. Each field holds one row per
// location.
type SeasonBuckets struct {
	Early, Mid, Late             [][]float64
	June, July, August           [][]float64
	September, October, November [][]float64
	MidV2, LateV2                [][]float64
}

// DivideBySeason splits every location's series by season offset. The series
// are assumed to start at a season boundary (global index 0).
func DivideBySeason(speeds [][]float64) SeasonBuckets {
	return SeasonBuckets{
		Early:     SelectBucket(speeds, BucketEarly),
		Mid:       SelectBucket(speeds, BucketMid),
		Late:      SelectBucket(speeds, BucketLate),
		June:      SelectBucket(speeds, BucketJune),
		July:      SelectBucket(speeds, BucketJuly),
		August:    SelectBucket(speeds, BucketAugust),
		September: SelectBucket(speeds, BucketSeptember),
		October:   SelectBucket(speeds, BucketOctober),
		November:  SelectBucket(speeds, BucketNovember),
		MidV2:     SelectBucket(speeds, BucketMidV2),
		LateV2:    SelectBucket(speeds, BucketLateV2),
	}
}

// SelectBucket returns, per location, the samples whose season offset lies in
// the bucket, in time order.
func SelectBucket(speeds [][]float64, b Bucket) [][]float64 {
	return selectBucketFrom(speeds, b, 0)
}

// selectBucketFrom treats column 0 of speeds as global index start.
func selectBucketFrom(speeds [][]float64, b Bucket, start int) [][]float64 {
	out := make([][]float64, len(speeds))
	for i, row := range speeds {
		sel := make([]float64, 0, len(row)*b.Len()/SlotsPerSeason+b.Len())
		for j, v := range row {
			if b.Contains(SeasonOffset(start + j)) {
				sel = append(sel, v)
			}
		}
		out[i] = sel
	}
	return out
}

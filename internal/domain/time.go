package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	// SlotsPerSeason is the number of six-hourly samples in one archived season.
	SlotsPerSeason = 732

	// SlotDuration is the archive cadence.
	SlotDuration = 6 * time.Hour

	// BaseYear is the calendar year of season 0.
	BaseYear = 1979

	// serialDayUnixEpoch is the serial day number of 1970-01-01 00Z.
	serialDayUnixEpoch = 25569
	secondsPerDay      = 86400
)

// ToCalendarTime converts an archive serial day number to a UTC timestamp.
// The result is rounded to the nearest second, so the conversion is exact for
// every six-hourly value the archive stores.
func ToCalendarTime(serial float64) time.Time {
	seconds := math.Round((serial - serialDayUnixEpoch) * secondsPerDay)
	return time.Unix(int64(seconds), 0).UTC()
}

// ToSerialDay is the inverse of ToCalendarTime.
func ToSerialDay(t time.Time) float64 {
	return float64(t.Unix())/secondsPerDay + serialDayUnixEpoch
}

// SeasonOffset returns the slot of a global time index within its season.
func SeasonOffset(globalIndex int) int {
	off := globalIndex % SlotsPerSeason
	if off < 0 {
		off += SlotsPerSeason
	}
	return off
}

// SeasonIndex returns the zero-based season of a global time index.
func SeasonIndex(globalIndex int) int {
	if globalIndex < 0 {
		return (globalIndex - SlotsPerSeason + 1) / SlotsPerSeason
	}
	return globalIndex / SlotsPerSeason
}

// SeasonYear returns the calendar year of a global time index.
func SeasonYear(globalIndex int) int {
	return BaseYear + SeasonIndex(globalIndex)
}

// SeasonStart returns May 30 0000Z of the given year.
func SeasonStart(year int) time.Time {
	return time.Date(year, time.May, 30, 0, 0, 0, 0, time.UTC)
}

// SlotTime returns the nominal timestamp of a global time index.
func SlotTime(globalIndex int) time.Time {
	return SeasonStart(SeasonYear(globalIndex)).Add(time.Duration(SeasonOffset(globalIndex)) * SlotDuration)
}

// InSeasonWindow reports whether t falls between May 30 and November 28
// (inclusive, by calendar day).
func InSeasonWindow(t time.Time) bool {
	t = t.UTC()
	md := int(t.Month())*100 + t.Day()
	return md >= 530 && md <= 1128
}

// IsSynoptic reports whether t is exactly 0000, 0600, 1200 or 1800Z.
func IsSynoptic(t time.Time) bool {
	t = t.UTC()
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 && t.Hour()%6 == 0
}

// Period is a contiguous range of whole seasons [FirstSeason, EndSeason).
type Period struct {
	FirstSeason int `json:"first_season"`
	EndSeason   int `json:"end_season"`
}

// Periods compared by the standard report.
var (
	PeriodEarly = Period{FirstSeason: 0, EndSeason: 19}  // 1979-1997
	PeriodLate  = Period{FirstSeason: 19, EndSeason: 38} // 1998-2016
	PeriodAll   = Period{FirstSeason: 0, EndSeason: 38}  // 1979-2016
)

// StandardPeriods returns the whole record first, then the two halves in
// chronological order.
func StandardPeriods() []Period {
	return []Period{PeriodAll, PeriodEarly, PeriodLate}
}

// NewPeriod builds a period from inclusive calendar years.
func NewPeriod(firstYear, lastYear int) (Period, error) {
	if lastYear < firstYear {
		return Period{}, fmt.Errorf("period %d-%d: last year before first year", firstYear, lastYear)
	}
	if firstYear < BaseYear {
		return Period{}, fmt.Errorf("period %d-%d: archive starts in %d", firstYear, lastYear, BaseYear)
	}
	return Period{FirstSeason: firstYear - BaseYear, EndSeason: lastYear - BaseYear + 1}, nil
}

// Label renders the period as inclusive years, e.g. "1979-1997".
func (p Period) Label() string {
	return fmt.Sprintf("%d-%d", BaseYear+p.FirstSeason, BaseYear+p.EndSeason-1)
}

// Key is the short storage key, e.g. "79_97".
func (p Period) Key() string {
	return fmt.Sprintf("%02d_%02d", (BaseYear+p.FirstSeason)%100, (BaseYear+p.EndSeason-1)%100)
}

// Window returns the global index range [left, right) covered by the period,
// clamped to an archive of totalSlots samples.
func (p Period) Window(totalSlots int) (left, right int) {
	left = min(p.FirstSeason*SlotsPerSeason, totalSlots)
	right = min(p.EndSeason*SlotsPerSeason, totalSlots)
	return max(left, 0), max(right, 0)
}

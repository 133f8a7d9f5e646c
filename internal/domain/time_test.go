package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCalendarTime(t *testing.T) {
	tests := []struct {
		serial float64
		want   time.Time
	}{
		{25569, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
		{25569.25, time.Date(1970, 1, 1, 6, 0, 0, 0, time.UTC)},
		{28990, time.Date(1979, 5, 15, 0, 0, 0, 0, time.UTC)},
		{29005.75, time.Date(1979, 5, 30, 18, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToCalendarTime(tt.serial), "serial %v", tt.serial)
		assert.Equal(t, tt.serial, ToSerialDay(tt.want))
	}
}

func TestSeasonOffset_Periodic(t *testing.T) {
	for _, g := range []int{0, 1, 127, 128, 731, 5000, 27815} {
		assert.Equal(t, SeasonOffset(g), SeasonOffset(g+SlotsPerSeason), "g=%d", g)
		assert.Less(t, SeasonOffset(g), SlotsPerSeason)
	}
	assert.Equal(t, 0, SeasonOffset(732))
	assert.Equal(t, 731, SeasonOffset(-1))
	assert.Equal(t, -1, SeasonIndex(-1))
	assert.Equal(t, 1, SeasonIndex(732))
}

func TestSlotTime(t *testing.T) {
	assert.Equal(t, time.Date(1979, 5, 30, 0, 0, 0, 0, time.UTC), SlotTime(0))
	assert.Equal(t, time.Date(1979, 11, 28, 18, 0, 0, 0, time.UTC), SlotTime(731))
	assert.Equal(t, time.Date(1980, 5, 30, 0, 0, 0, 0, time.UTC), SlotTime(732))
	assert.Equal(t, time.Date(2016, 11, 28, 18, 0, 0, 0, time.UTC), SlotTime(38*SlotsPerSeason-1))
	assert.Equal(t, 2016, SeasonYear(38*SlotsPerSeason-1))
}

func TestInSeasonWindow(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"first day", time.Date(2005, 5, 30, 0, 0, 0, 0, time.UTC), true},
		{"day before", time.Date(2005, 5, 29, 18, 0, 0, 0, time.UTC), false},
		{"last day", time.Date(2005, 11, 28, 18, 0, 0, 0, time.UTC), true},
		{"day after", time.Date(2005, 11, 29, 0, 0, 0, 0, time.UTC), false},
		{"mid season", time.Date(2005, 8, 29, 12, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InSeasonWindow(tt.t))
		})
	}
}

func TestIsSynoptic(t *testing.T) {
	assert.True(t, IsSynoptic(time.Date(2005, 8, 29, 18, 0, 0, 0, time.UTC)))
	assert.False(t, IsSynoptic(time.Date(2005, 8, 29, 11, 10, 0, 0, time.UTC)))
	assert.False(t, IsSynoptic(time.Date(2005, 8, 29, 3, 0, 0, 0, time.UTC)))
}

func TestPeriods(t *testing.T) {
	assert.Equal(t, "1979-1997", PeriodEarly.Label())
	assert.Equal(t, "79_97", PeriodEarly.Key())
	assert.Equal(t, "98_16", PeriodLate.Key())
	assert.Equal(t, "79_16", PeriodAll.Key())
	assert.Equal(t, []Period{PeriodAll, PeriodEarly, PeriodLate}, StandardPeriods())

	p, err := NewPeriod(1998, 2016)
	require.NoError(t, err)
	assert.Equal(t, PeriodLate, p)

	_, err = NewPeriod(1970, 1980)
	assert.Error(t, err)
	_, err = NewPeriod(1990, 1980)
	assert.Error(t, err)
}

func TestPeriodWindow(t *testing.T) {
	total := 38 * SlotsPerSeason

	l, r := PeriodEarly.Window(total)
	assert.Equal(t, 0, l)
	assert.Equal(t, 19*SlotsPerSeason, r)

	l, r = PeriodLate.Window(total)
	assert.Equal(t, 19*SlotsPerSeason, l)
	assert.Equal(t, total, r)

	// A period reaching past the archive is clamped.
	l, r = PeriodLate.Window(20 * SlotsPerSeason)
	assert.Equal(t, 19*SlotsPerSeason, l)
	assert.Equal(t, 20*SlotsPerSeason, r)

	l, r = PeriodLate.Window(2 * SlotsPerSeason)
	assert.Equal(t, l, r)
}

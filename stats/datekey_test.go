package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_SameDayAcrossFormats(t *testing.T) {
	// All of these denote calendar day 2024-12-30.
	inputs := []string{
		"2024-12-30",
		"2024-12-30T00:00:00Z",
		"2024-12-30T15:04:05Z",
		"2024-12-30T23:00:00+02:00",
		"2024-12-30T01:30:00-05:00",
		"30/12/2024",
	}

	want := NewDateKey(2024, time.December, 30)
	for _, in := range inputs {
		got, err := ParseDate(in)
		require.NoError(t, err, "input %q", in)
		assert.True(t, got.Equal(want), "input %q normalized to %s, want %s", in, got, want)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "notes", "2024-13-45", "yesterday"} {
		_, err := ParseDate(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrInvalidDate))
	}
}

func TestDateKeyOf_StripsTimeOfDay(t *testing.T) {
	late := time.Date(2025, 3, 10, 23, 59, 59, 999000000, time.UTC)
	early := time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC)
	assert.True(t, DateKeyOf(late).Equal(DateKeyOf(early)))
	assert.Equal(t, "2025-03-10", DateKeyOf(late).String())
}

func TestDateRange_Bounds(t *testing.T) {
	rng := DateRange{
		Start: NewDateKey(2025, time.January, 1),
		End:   NewDateKey(2025, time.January, 31),
	}
	start, end := rng.Bounds()

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	// End widened to the last millisecond of the end day.
	assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, 999000000, time.UTC), end)
}

func TestDateRange_Contains(t *testing.T) {
	rng := DateRange{
		Start: NewDateKey(2025, time.January, 10),
		End:   NewDateKey(2025, time.January, 12),
	}

	assert.True(t, rng.Contains(NewDateKey(2025, time.January, 10)))
	assert.True(t, rng.Contains(NewDateKey(2025, time.January, 12)))
	assert.False(t, rng.Contains(NewDateKey(2025, time.January, 9)))
	assert.False(t, rng.Contains(NewDateKey(2025, time.January, 13)))
}

func TestMondayOfWeek(t *testing.T) {
	monday := NewDateKey(2025, time.January, 6)

	cases := []struct {
		name string
		in   time.Time
	}{
		{"monday itself", time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2025, 1, 8, 15, 30, 0, 0, time.UTC)},
		{"friday", time.Date(2025, 1, 10, 23, 0, 0, 0, time.UTC)},
		{"saturday", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)},
		// ISO convention: Sunday belongs to the week that started the
		// previous Monday.
		{"sunday maps back", time.Date(2025, 1, 12, 12, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MondayOfWeek(tc.in)
			assert.True(t, got.Equal(monday), "got %s, want %s", got, monday)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

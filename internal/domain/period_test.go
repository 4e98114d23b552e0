package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodOf_Boundaries(t *testing.T) {
	tests := []struct {
		clock    string
		expected Period
	}{
		{"00:00:00", PeriodNight},
		{"04:59:59", PeriodNight},
		{"05:00:00", PeriodAM},
		{"08:59:59", PeriodAM},
		{"09:00:00", PeriodPM},
		{"12:00:00", PeriodPM},
		{"17:59:59", PeriodPM},
		{"18:00:00", PeriodNight},
		{"23:59:59", PeriodNight},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			tm, err := time.Parse("15:04:05", tt.clock)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, PeriodOf(tm))
		})
	}
}

func TestPeriodOf_CoversWholeDay(t *testing.T) {
	base := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	counts := map[Period]int{}
	for s := 0; s < 24*60*60; s++ {
		p := PeriodOf(base.Add(time.Duration(s) * time.Second))
		require.Contains(t, Periods, p)
		counts[p]++
	}
	assert.Equal(t, 4*60*60, counts[PeriodAM])
	assert.Equal(t, 9*60*60, counts[PeriodPM])
	assert.Equal(t, 11*60*60, counts[PeriodNight])
}

func TestClassifyValidity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Period
	}{
		{"naive local", "2024-01-15T06:00:00", PeriodAM},
		{"zulu", "2024-01-15T06:00:00Z", PeriodAM},
		{"offset kept as written", "2024-01-15T20:00:00-05:00", PeriodNight},
		{"fractional seconds", "2024-01-15T09:00:00.500Z", PeriodPM},
		{"no seconds", "2024-01-15T17:59", PeriodPM},
		{"space separator", "2024-01-15 04:59:59", PeriodNight},
		{"surrounding space", "  2024-01-15T05:00:00 ", PeriodAM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ClassifyValidity(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestClassifyValidity_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "06:00", "2024-13-45T06:00:00", "tomorrow"} {
		_, err := ClassifyValidity(input)
		assert.Error(t, err, "input %q", input)
	}
}

package engine_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/engine"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func twinResults(t *testing.T) []engine.JubileumResult {
	t.Helper()
	results := engine.Search([]engine.Participant{
		{Name: "Anna", Birthdate: date(1990, 1, 1)},
		{Name: "Bram", Birthdate: date(1990, 1, 1)},
	}, 0)
	require.Len(t, results, 4)
	return results
}

func TestCalendarBuilder_Build(t *testing.T) {
	b := &engine.CalendarBuilder{Clock: MockClock{CurrentTime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}}

	ics, err := b.Build(twinResults(t), "")
	require.NoError(t, err)

	icsStr := string(ics)
	assert.Contains(t, icsStr, "BEGIN:VCALENDAR")
	assert.Contains(t, icsStr, "X-WR-CALNAME:"+config.ICalCalName)
	assert.Equal(t, 4, strings.Count(icsStr, "BEGIN:VEVENT"), "one event per milestone")
	assert.Contains(t, icsStr, "DTSTART;VALUE=DATE:20150101")
	assert.Contains(t, icsStr, "SUMMARY:50 jaar samen")
	assert.Contains(t, icsStr, "Anna: 25.00")
	assert.Contains(t, icsStr, "DTSTAMP:20250601T100000Z")
	assert.NotContains(t, icsStr, "BEGIN:VALARM")
}

func TestCalendarBuilder_Reminder(t *testing.T) {
	b := &engine.CalendarBuilder{
		Clock:         MockClock{CurrentTime: time.Now()},
		FormatSummary: func(m int) string { return "Jubileum " + strings.Repeat("*", m/50) },
	}

	ics, err := b.Build(twinResults(t)[:1], "-P1D")
	require.NoError(t, err)

	icsStr := string(ics)
	assert.Contains(t, icsStr, "SUMMARY:Jubileum *")
	assert.Contains(t, icsStr, "BEGIN:VALARM")
	assert.Contains(t, icsStr, "TRIGGER:-P1D")
	assert.Contains(t, icsStr, "ACTION:DISPLAY")
}

func TestCalendarBuilder_StableUIDs(t *testing.T) {
	b := &engine.CalendarBuilder{Clock: MockClock{CurrentTime: time.Now()}}
	results := twinResults(t)

	first, err := b.Build(results, "")
	require.NoError(t, err)
	second, err := b.Build(results, "")
	require.NoError(t, err)

	uids := func(ics []byte) []string {
		var out []string
		for _, line := range strings.Split(string(ics), "\r\n") {
			if strings.HasPrefix(line, "UID:") {
				out = append(out, line)
			}
		}
		return out
	}
	assert.Len(t, uids(first), 4)
	assert.Equal(t, uids(first), uids(second))
}

func TestCalendarBuilder_Empty(t *testing.T) {
	b := &engine.CalendarBuilder{}

	ics, err := b.Build(nil, "-P1D")
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(ics))
}

func TestReminderTrigger(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		unit      string
		direction string
		want      string
	}{
		{"1 Day Before", 1, config.UnitDays, config.DirBefore, "-P1D"},
		{"2 Hours After", 2, config.UnitHours, config.DirAfter, "PT2H"},
		{"30 Minutes Before", 30, config.UnitMinutes, config.DirBefore, "-PT30M"},
		{"Unknown Unit Means Days", 3, "", config.DirAfter, "P3D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ReminderTrigger(tt.value, tt.unit, tt.direction))
		})
	}
}

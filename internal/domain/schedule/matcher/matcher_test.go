package matcher

import (
	"testing"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-07-01 is a Monday
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.July, day, hour, minute, 0, 0, time.UTC)
}

func schedule(freq entities.Frequency, slots ...entities.TimeSlot) *entities.PushSchedule {
	for i := range slots {
		slots[i].ID = uint(i + 1)
		slots[i].Active = true
	}
	return &entities.PushSchedule{ID: 1, Frequency: freq, Active: true, TimeSlots: slots}
}

func TestMatches_Daily(t *testing.T) {
	s := schedule(entities.FrequencyDaily, entities.TimeSlot{Hours: "09:00,15:00"})

	for day := 1; day <= 7; day++ {
		assert.True(t, Matches(s, at(day, 9, 0)))
		assert.True(t, Matches(s, at(day, 15, 0)))
		assert.False(t, Matches(s, at(day, 9, 1)))
		assert.False(t, Matches(s, at(day, 8, 0)))
	}
}

func TestMatches_Weekly(t *testing.T) {
	s := schedule(entities.FrequencyWeekly, entities.TimeSlot{Weekdays: "1,3,5", Hours: "10:00"})

	assert.True(t, Matches(s, at(1, 10, 0)))  // Monday
	assert.False(t, Matches(s, at(2, 10, 0))) // Tuesday
	assert.True(t, Matches(s, at(3, 10, 0)))  // Wednesday
	assert.False(t, Matches(s, at(4, 10, 0))) // Thursday
	assert.True(t, Matches(s, at(5, 10, 0)))  // Friday
	assert.False(t, Matches(s, at(6, 10, 0))) // Saturday
	assert.False(t, Matches(s, at(7, 10, 0))) // Sunday
	assert.False(t, Matches(s, at(1, 11, 0)))
}

func TestMatches_WeeklySunday(t *testing.T) {
	s := schedule(entities.FrequencyWeekly, entities.TimeSlot{Weekdays: "7", Hours: "10:00"})

	assert.True(t, Matches(s, at(7, 10, 0)))
	assert.False(t, Matches(s, at(1, 10, 0)))
}

func TestMatches_Monthly(t *testing.T) {
	s := schedule(entities.FrequencyMonthly, entities.TimeSlot{MonthDays: "1,15", Hours: "09:00"})

	for day := 1; day <= 31; day++ {
		want := day == 1 || day == 15
		assert.Equal(t, want, Matches(s, at(day, 9, 0)), "day %d", day)
	}
	assert.False(t, Matches(s, at(15, 9, 30)))
}

func TestMatches_InactiveOrEmpty(t *testing.T) {
	s := schedule(entities.FrequencyDaily, entities.TimeSlot{Hours: "09:00"})
	s.Active = false
	assert.False(t, Matches(s, at(1, 9, 0)))

	s = schedule(entities.FrequencyDaily, entities.TimeSlot{Hours: "09:00"})
	s.TimeSlots[0].Active = false
	assert.False(t, Matches(s, at(1, 9, 0)))

	assert.False(t, Matches(schedule(entities.FrequencyDaily), at(1, 9, 0)))
	assert.False(t, Matches(nil, at(1, 9, 0)))
}

func TestMatches_MalformedTokensNeverMatch(t *testing.T) {
	tests := []struct {
		name string
		s    *entities.PushSchedule
	}{
		{name: "weekday words", s: schedule(entities.FrequencyWeekly, entities.TimeSlot{Weekdays: "mon,tue", Hours: "10:00"})},
		{name: "missing weekdays", s: schedule(entities.FrequencyWeekly, entities.TimeSlot{Hours: "10:00"})},
		{name: "missing month days", s: schedule(entities.FrequencyMonthly, entities.TimeSlot{Hours: "10:00"})},
		{name: "bad hour", s: schedule(entities.FrequencyDaily, entities.TimeSlot{Hours: "10h00,25:00"})},
		{name: "unknown frequency", s: schedule(entities.Frequency("HOURLY"), entities.TimeSlot{Hours: "10:00"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, Matches(tt.s, at(1, 10, 0)))
			})
		})
	}
}

func TestMatchSlot_FirstMatchWins(t *testing.T) {
	s := schedule(entities.FrequencyWeekly,
		entities.TimeSlot{Weekdays: "2", Hours: "10:00"},
		entities.TimeSlot{Weekdays: "1", Hours: "10:00"},
		entities.TimeSlot{Weekdays: "1, 3", Hours: " 10:00 "},
	)

	slot, ok := MatchSlot(s, at(1, 10, 0))
	require.True(t, ok)
	assert.Equal(t, uint(2), slot.ID)

	slot, ok = MatchSlot(s, at(3, 10, 0))
	require.True(t, ok)
	assert.Equal(t, uint(3), slot.ID)
}

func TestMatches_UsesInstantLocation(t *testing.T) {
	s := schedule(entities.FrequencyDaily, entities.TimeSlot{Hours: "09:00"})
	loc := time.FixedZone("UTC+8", 8*3600)

	instant := time.Date(2024, time.July, 1, 1, 0, 0, 0, time.UTC)
	assert.False(t, Matches(s, instant))
	assert.True(t, Matches(s, instant.In(loc)))
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 1, ISOWeekday(at(1, 0, 0)))
	assert.Equal(t, 7, ISOWeekday(at(7, 0, 0)))
}

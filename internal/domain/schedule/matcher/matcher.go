// Package matcher decides whether a push schedule fires at a given instant.
// It is pure: the same schedule and instant always give the same answer.
package matcher

import (
	"strconv"
	"strings"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/entities"
)

// Matches reports whether schedule fires at now, read in now's location
func Matches(schedule *entities.PushSchedule, now time.Time) bool {
	_, ok := MatchSlot(schedule, now)
	return ok
}

// MatchSlot returns the first active slot that fires at now
func MatchSlot(schedule *entities.PushSchedule, now time.Time) (*entities.TimeSlot, bool) {
	if schedule == nil || !schedule.Active {
		return nil, false
	}

	hour, minute := now.Hour(), now.Minute()
	weekday := ISOWeekday(now)
	day := now.Day()

	for i := range schedule.TimeSlots {
		slot := &schedule.TimeSlots[i]
		if !slot.Active || !hasClock(slot.Hours, hour, minute) {
			continue
		}

		switch schedule.Frequency {
		case entities.FrequencyDaily:
			return slot, true
		case entities.FrequencyWeekly:
			if hasNumber(slot.Weekdays, weekday) {
				return slot, true
			}
		case entities.FrequencyMonthly:
			if hasNumber(slot.MonthDays, day) {
				return slot, true
			}
		}
	}

	return nil, false
}

// ISOWeekday returns 1 for Monday through 7 for Sunday
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ParseClock parses an "HH:MM" token
func ParseClock(token string) (hour, minute int, ok bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(token))
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

func hasClock(list string, hour, minute int) bool {
	for _, token := range strings.Split(list, ",") {
		h, m, ok := ParseClock(token)
		if ok && h == hour && m == minute {
			return true
		}
	}
	return false
}

// unparseable tokens are ignored
func hasNumber(list string, n int) bool {
	if strings.TrimSpace(list) == "" {
		return false
	}
	for _, token := range strings.Split(list, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(token))
		if err == nil && v == n {
			return true
		}
	}
	return false
}

// Package timeslot handles the "HH:MM" clock strings class schedules are
// stored with: parsing, formatting and inclusive-range containment.
package timeslot

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidClock = errors.New("invalid clock time")

// ParseClock converts a zero-padded "HH:MM" string to minutes since
// midnight.
func ParseClock(raw string) (int, error) {
	if len(raw) != 5 || raw[2] != ':' {
		return 0, ErrInvalidClock
	}
	hour, ok1 := twoDigits(raw[0], raw[1])
	minute, ok2 := twoDigits(raw[3], raw[4])
	if !ok1 || !ok2 || hour > 23 || minute > 59 {
		return 0, ErrInvalidClock
	}
	return hour*60 + minute, nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockOf truncates a wall-clock instant to its "HH:MM" string in the
// instant's own location.
func ClockOf(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Contains reports whether clock falls inside [start, end], both bounds
// inclusive. All three are "HH:MM" strings; malformed input never matches.
func Contains(start, end, clock string) bool {
	s, err := ParseClock(start)
	if err != nil {
		return false
	}
	e, err := ParseClock(end)
	if err != nil {
		return false
	}
	c, err := ParseClock(clock)
	if err != nil {
		return false
	}
	return s <= c && c <= e
}

// DaysUntil returns how many days ahead the next occurrence of a weekly slot
// is, counting from a reference weekday and clock. A slot on the reference
// day whose start is at or before the reference clock has already begun, so
// its next occurrence is a week out.
func DaysUntil(fromDay int, fromClock string, slotDay int, slotStart string) int {
	days := (slotDay - fromDay + 7) % 7
	if days == 0 && slotStart <= fromClock {
		days = 7
	}
	return days
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

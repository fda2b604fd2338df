package scheduling

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timeSlotPattern = regexp.MustCompile(`^(?:2[0-3]|[01]?[0-9]):[0-5][0-9]$`)

// ValidTimeSlot reports whether slot is a well-formed HH:MM 24-hour time.
func ValidTimeSlot(slot string) bool {
	return timeSlotPattern.MatchString(slot)
}

// WindowOrdered reports whether start names an earlier minute of the
// day than end. String comparison is not enough here: single-digit
// hours are valid, and "9:00" sorts after "17:00" lexicographically.
func WindowOrdered(start, end string) bool {
	s, err := minuteOfDay(start)
	if err != nil {
		return false
	}
	e, err := minuteOfDay(end)
	if err != nil {
		return false
	}
	return s < e
}

// Midnight strips the time-of-day from t. Appointment dates are stored
// midnight-normalized so exact-date comparison works.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CheckAvailability decides whether the requested date and time slot
// fall inside a doctor's declared weekly availability. The window is
// half-open: the end time itself is not bookable.
func CheckAvailability(days []string, start, end string, date time.Time, slot string) error {
	weekday := date.Weekday().String()
	if !containsDay(days, weekday) {
		return ErrUnavailableDay
	}

	requested, err := minuteOfDay(slot)
	if err != nil {
		return ErrBadTimeFormat
	}
	windowStart, err := minuteOfDay(start)
	if err != nil {
		return ErrUnavailableTime
	}
	windowEnd, err := minuteOfDay(end)
	if err != nil {
		return ErrUnavailableTime
	}

	if requested < windowStart || requested >= windowEnd {
		return ErrUnavailableTime
	}
	return nil
}

func containsDay(days []string, weekday string) bool {
	for _, d := range days {
		if strings.EqualFold(strings.TrimSpace(d), weekday) {
			return true
		}
	}
	return false
}

func minuteOfDay(slot string) (int, error) {
	if !ValidTimeSlot(slot) {
		return 0, ErrBadTimeFormat
	}
	parts := strings.SplitN(slot, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}

package availability

import (
	"fmt"
	"time"

	"clinicbook/pkg/model"
)

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DateKey renders the local calendar day of t. Two instants share a key iff
// they fall on the same day in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(model.DateKeyLayout)
}

func SameDay(a, b time.Time, loc *time.Location) bool {
	return DateKey(a, loc) == DateKey(b, loc)
}

// ParseDate reads a date key as local midnight in loc.
func ParseDate(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(model.DateKeyLayout, key, loc)
}

// Label renders a minute-of-day as a slot label, e.g. 570 -> "09:30 AM".
func Label(minuteOfDay int) string {
	h, m := minuteOfDay/60, minuteOfDay%60
	return time.Date(2000, time.January, 1, h, m, 0, 0, time.UTC).Format(model.SlotLabelLayout)
}

// ParseLabel is the inverse of Label.
func ParseLabel(label string) (int, error) {
	t, err := time.Parse(model.SlotLabelLayout, label)
	if err != nil {
		return 0, fmt.Errorf("invalid slot label %q: %w", label, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

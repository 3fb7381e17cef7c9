package schedule

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// localLayouts are wall-clock forms written by the clinic API. They carry no
// zone and are read in the clinic's location.
var localLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// To24Hour converts "H:MM AM" / "H:MM PM" into zero padded "HH:MM".
func To24Hour(time12 string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(time12))

	pm := false
	switch {
	case strings.HasSuffix(s, "AM"):
	case strings.HasSuffix(s, "PM"):
		pm = true
	default:
		return "", formatErr("time", time12, "missing AM/PM suffix")
	}

	clock := strings.TrimSpace(s[:len(s)-2])
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok || len(mm) != 2 {
		return "", formatErr("time", time12, "expected H:MM")
	}
	hour, ok := atoiDigits(hh)
	if !ok || hour < 1 || hour > 12 {
		return "", formatErr("time", time12, "hour must be 1-12")
	}
	minute, ok := atoiDigits(mm)
	if !ok || minute > 59 {
		return "", formatErr("time", time12, "minute must be 00-59")
	}

	if hour == 12 {
		hour = 0
	}
	if pm {
		hour += 12
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// To12Hour converts "HH:MM" into "H:MM AM" / "H:MM PM".
func To12Hour(time24 string) (string, error) {
	hour, minute, err := parse24(time24)
	if err != nil {
		return "", err
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix), nil
}

// CombineDateAndTime joins a calendar date and a 24-hour clock time into
// "YYYY-MM-DD HH:MM". A missing or unparsable date falls back to the
// clock's current date and is not an error.
func CombineDateAndTime(date, time24 string, clock Clock) (string, error) {
	hour, minute, err := parse24(time24)
	if err != nil {
		return "", err
	}
	day, err := DayKeyOf(date)
	if err != nil {
		day = clock.now().Format(DateLayout)
	}
	return fmt.Sprintf("%s %02d:%02d", day, hour, minute), nil
}

// DayKeyOf extracts "YYYY-MM-DD" from either "YYYY-MM-DD HH:MM" or
// "YYYY-MM-DDTHH:MM...".
func DayKeyOf(dateTime string) (string, error) {
	s := strings.TrimSpace(dateTime)
	if len(s) < len(DateLayout) {
		return "", formatErr("date", dateTime, "expected YYYY-MM-DD")
	}
	if len(s) > len(DateLayout) && s[10] != ' ' && s[10] != 'T' {
		return "", formatErr("date", dateTime, "expected space or T after date")
	}
	key := s[:len(DateLayout)]
	if _, err := time.Parse(DateLayout, key); err != nil {
		return "", formatErr("date", dateTime, "not a calendar date")
	}
	return key, nil
}

// ParseDateTime reads an appointment date-time in any accepted wire form.
// Zone-less values are interpreted in loc (time.Local when nil).
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	v := strings.TrimSpace(s)
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, formatErr("date_time", s, "unrecognized date-time")
}

// FormatDateTime renders t in the canonical wire form.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

func parse24(time24 string) (int, int, error) {
	s := strings.TrimSpace(time24)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, 0, formatErr("time", time24, "expected HH:MM")
	}
	hour, ok := atoiDigits(hh)
	if !ok || hour > 23 {
		return 0, 0, formatErr("time", time24, "hour must be 00-23")
	}
	minute, ok := atoiDigits(mm)
	if !ok || minute > 59 {
		return 0, 0, formatErr("time", time24, "minute must be 00-59")
	}
	return hour, minute, nil
}

// atoiDigits accepts only ASCII digits, no sign.
func atoiDigits(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

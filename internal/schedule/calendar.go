package schedule

import (
	"fmt"
	"strings"
	"time"
)

type Mode string

const (
	ModeMonth Mode = "month"
	ModeDay   Mode = "day"
)

// Day view hours, matching the clinic's opening times.
const (
	SlotMinHour  = 9
	SlotMaxHour  = 16
	SlotDuration = time.Hour
)

// ParseMode accepts the short names and the calendar widget's view names.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month", "daygridmonth":
		return ModeMonth, nil
	case "day", "resourcetimegridday", "timegridday":
		return ModeDay, nil
	default:
		return "", formatErr("view", s, "must be month or day")
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthRange is the calendar month containing t.
func MonthRange(t time.Time) DateRange {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return DateRange{Start: start, End: start.AddDate(0, 1, 0)}
}

// MonthGridRange is the visible month grid: six whole weeks starting on the
// Sunday on or before the first of the month.
func MonthGridRange(t time.Time) DateRange {
	first := MonthRange(t).Start
	start := first.AddDate(0, 0, -int(first.Weekday()))
	return DateRange{Start: start, End: start.AddDate(0, 0, 42)}
}

func DayRange(t time.Time) DateRange {
	start := startOfDay(t)
	return DateRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// RangeFor is the window rendered for mode when the calendar is anchored at t.
func RangeFor(mode Mode, t time.Time) DateRange {
	if mode == ModeDay {
		return DayRange(t)
	}
	return MonthGridRange(t)
}

// Shift moves the anchor by step months or days. Month steps land on the
// first of the month so short months do not overflow.
func Shift(mode Mode, t time.Time, step int) time.Time {
	if mode == ModeDay {
		return startOfDay(t).AddDate(0, 0, step)
	}
	return MonthRange(t).Start.AddDate(0, step, 0)
}

func Title(mode Mode, t time.Time) string {
	if mode == ModeDay {
		return t.Format("January 2, 2006")
	}
	return t.Format("January 2006")
}

// Slot is one selectable cell of the day view.
type Slot struct {
	Start   time.Time `json:"start"`
	Time24  string    `json:"time_24"`
	Time12  string    `json:"time_12"`
	DayKey  string    `json:"day_key"`
	Minutes int       `json:"minutes"`
}

func DaySlots(day time.Time) []Slot {
	base := startOfDay(day)
	var out []Slot
	for t := base.Add(SlotMinHour * time.Hour); t.Before(base.Add(SlotMaxHour * time.Hour)); t = t.Add(SlotDuration) {
		h24 := fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
		h12, _ := To12Hour(h24)
		out = append(out, Slot{
			Start:   t,
			Time24:  h24,
			Time12:  h12,
			DayKey:  t.Format(DateLayout),
			Minutes: int(SlotDuration / time.Minute),
		})
	}
	return out
}

// ParseDay reads a "YYYY-MM-DD" (or "YYYY-MM") anchor in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	v := strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, v, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01", v, loc); err == nil {
		return t, nil
	}
	if key, err := DayKeyOf(v); err == nil {
		return time.ParseInLocation(DateLayout, key, loc)
	}
	return time.Time{}, formatErr("date", s, "expected YYYY-MM-DD")
}

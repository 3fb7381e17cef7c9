package schedule

import (
	"fmt"
	"sort"
)

const UnassignedResource = "unassigned"

// SelectVisible keeps the appointments whose date-time falls inside r.
// Input order is preserved. Records whose date-time does not parse are
// treated as outside every range.
func SelectVisible(all []Appointment, r DateRange) []Appointment {
	visible, _ := SelectVisibleCounted(all, r)
	return visible
}

// SelectVisibleCounted is SelectVisible that also reports how many records
// were dropped because their date-time was malformed.
func SelectVisibleCounted(all []Appointment, r DateRange) ([]Appointment, int) {
	loc := r.Start.Location()
	out := make([]Appointment, 0, len(all))
	skipped := 0
	for _, a := range all {
		t, err := ParseDateTime(a.DateTime, loc)
		if err != nil {
			skipped++
			continue
		}
		if r.Contains(t) {
			out = append(out, a)
		}
	}
	return out, skipped
}

// ApplyFilter keeps appointments matching both dimensions of f. With no
// restriction at all the input slice is returned as is.
func ApplyFilter(visible []Appointment, f FilterState) []Appointment {
	if f.IsEmpty() {
		return visible
	}
	out := make([]Appointment, 0, len(visible))
	for _, a := range visible {
		if len(f.PatientIDs) > 0 && !f.PatientIDs.Has(a.PatientID) {
			continue
		}
		if len(f.DoctorIDs) > 0 && !f.DoctorIDs.Has(a.DoctorID) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func CountByDay(events []CalendarEvent) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.DayKey]++
	}
	return counts
}

// DayBadge is the month-view summary for a single day cell.
type DayBadge struct {
	DayKey string `json:"day_key"`
	Count  int    `json:"count"`
	Label  string `json:"label"`
}

func Badges(counts map[string]int) []DayBadge {
	out := make([]DayBadge, 0, len(counts))
	for day, n := range counts {
		if n == 0 {
			continue
		}
		label := fmt.Sprintf("%d appointments", n)
		if n == 1 {
			label = "1 appointment"
		}
		out = append(out, DayBadge{DayKey: day, Count: n, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayKey < out[j].DayKey })
	return out
}

// Column is one day-view resource column.
type Column struct {
	Room   Room            `json:"room"`
	Events []CalendarEvent `json:"events"`
}

// GroupByResource buckets events into the room columns in registry order.
// Events for a room outside the registry go to a trailing unassigned column,
// which is omitted when empty.
func GroupByResource(events []CalendarEvent) []Column {
	cols := make([]Column, 0, len(rooms)+1)
	index := make(map[string]int, len(rooms))
	for _, r := range rooms {
		index[r.ID] = len(cols)
		cols = append(cols, Column{Room: r, Events: []CalendarEvent{}})
	}

	var orphans []CalendarEvent
	for _, ev := range events {
		if i, ok := index[ev.ResourceKey]; ok {
			cols[i].Events = append(cols[i].Events, ev)
			continue
		}
		orphans = append(orphans, ev)
	}
	if len(orphans) > 0 {
		cols = append(cols, Column{
			Room:   Room{ID: UnassignedResource, Title: "Unassigned"},
			Events: orphans,
		})
	}

	for i := range cols {
		evs := cols[i].Events
		sort.SliceStable(evs, func(a, b int) bool { return evs[a].Start.Before(evs[b].Start) })
	}
	return cols
}

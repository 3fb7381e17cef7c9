package schedule

import (
	"strconv"
	"time"
)

// Project maps an appointment onto a calendar event. It never fails: a
// date-time that does not parse is replaced by the clock's current time and
// the event is marked Degraded, so one bad record cannot blank the calendar.
func Project(a Appointment, loc *time.Location, clock Clock) CalendarEvent {
	urgency := a.Urgency.Normalize()
	ev := CalendarEvent{
		ID:          a.ID,
		Title:       RoomTitle(a.RoomNumber),
		ResourceKey: strconv.Itoa(a.RoomNumber),
		Extended: Extended{
			PatientID: a.PatientID,
			DoctorID:  a.DoctorID,
			Urgency:   urgency,
			Color:     urgency.Color(),
		},
	}

	start, err := ParseDateTime(a.DateTime, loc)
	if err != nil {
		start = clock.now()
		if loc != nil {
			start = start.In(loc)
		}
		ev.Degraded = true
	}
	ev.Start = start
	ev.DayKey = start.Format(DateLayout)
	return ev
}

func ProjectAll(appointments []Appointment, loc *time.Location, clock Clock) []CalendarEvent {
	out := make([]CalendarEvent, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, Project(a, loc, clock))
	}
	return out
}

// Annotate returns a copy of events with participant display names filled
// in from dir. Unknown ids keep an empty name.
func Annotate(events []CalendarEvent, dir Directory) []CalendarEvent {
	out := make([]CalendarEvent, len(events))
	for i, ev := range events {
		if p, ok := dir[ev.Extended.PatientID]; ok {
			ev.Extended.PatientName = p.Name
		}
		if p, ok := dir[ev.Extended.DoctorID]; ok {
			ev.Extended.DoctorName = p.Name
		}
		out[i] = ev
	}
	return out
}

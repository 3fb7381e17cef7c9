package viewmodel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

var fixedNow = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sampleSnapshot() Snapshot {
	return Snapshot{
		Appointments: []schedule.Appointment{
			{ID: "a1", RoomNumber: 1, DateTime: "2025-04-10 09:00", PatientID: "p1", DoctorID: "d1", Urgency: 3},
			{ID: "a2", RoomNumber: 4, DateTime: "2025-04-10 13:00", PatientID: "p2", DoctorID: "d1"},
			{ID: "a3", RoomNumber: 2, DateTime: "2025-04-22 10:00", PatientID: "p1", DoctorID: "c1", Urgency: 2},
			{ID: "a4", RoomNumber: 9, DateTime: "2025-04-10 15:00", PatientID: "p2", DoctorID: "c1"},
			{ID: "bad", RoomNumber: 3, DateTime: "next tuesday", PatientID: "p1", DoctorID: "d1"},
			{ID: "june", RoomNumber: 3, DateTime: "2025-06-01 09:00", PatientID: "p1", DoctorID: "d1"},
		},
		People: []schedule.Person{
			{ID: "p1", Name: "Alice Park", Status: schedule.StatusPatient},
			{ID: "p2", Name: "Ben Cho", Status: schedule.StatusPatient},
			{ID: "d1", Name: "Dr. Natalie Osei", Status: schedule.StatusDoctor},
			{ID: "c1", Name: "Sam Rivera", Status: schedule.StatusCaretaker},
		},
	}
}

func TestComputeMonth(t *testing.T) {
	v := Compute(sampleSnapshot(), Request{Mode: schedule.ModeMonth, Anchor: fixedNow}, time.UTC, fixedClock)

	assert.Equal(t, schedule.ModeMonth, v.Mode)
	assert.Equal(t, "April 2025", v.Title)
	assert.Equal(t, "2025-04-10", v.Anchor)
	assert.Equal(t, time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC), v.Range.Start)
	assert.Equal(t, time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), v.Range.End)

	require.Len(t, v.Events, 4)
	assert.Equal(t, 1, v.Skipped)
	assert.Equal(t, map[string]int{"2025-04-10": 3, "2025-04-22": 1}, v.DayCounts)
	assert.Equal(t, []schedule.DayBadge{
		{DayKey: "2025-04-10", Count: 3, Label: "3 appointments"},
		{DayKey: "2025-04-22", Count: 1, Label: "1 appointment"},
	}, v.Badges)
	assert.Nil(t, v.Columns)
	assert.Nil(t, v.Slots)
	assert.Equal(t, fixedNow, v.UpdatedAt)

	assert.Equal(t, "Alice Park", v.Events[0].Extended.PatientName)
	assert.Equal(t, "Dr. Natalie Osei", v.Events[0].Extended.DoctorName)
	assert.Equal(t, "#ffc4c4", v.Events[0].Extended.Color)
}

func TestComputeDay(t *testing.T) {
	v := Compute(sampleSnapshot(), Request{Mode: schedule.ModeDay, Anchor: fixedNow}, time.UTC, fixedClock)

	assert.Equal(t, "April 10, 2025", v.Title)
	require.Len(t, v.Events, 3)
	require.Len(t, v.Slots, 7)
	assert.Equal(t, "09:00", v.Slots[0].Time24)

	require.Len(t, v.Columns, schedule.MaxRoom+1)
	assert.Len(t, v.Columns[0].Events, 1)
	assert.Len(t, v.Columns[3].Events, 1)
	assert.Equal(t, schedule.UnassignedResource, v.Columns[schedule.MaxRoom].Room.ID)
	assert.Equal(t, "a4", v.Columns[schedule.MaxRoom].Events[0].ID)
}

func TestComputeFilter(t *testing.T) {
	req := Request{
		Mode:   schedule.ModeMonth,
		Anchor: fixedNow,
		Filter: schedule.NewFilter([]string{"p1"}, nil),
	}
	v := Compute(sampleSnapshot(), req, time.UTC, fixedClock)

	require.Len(t, v.Events, 2)
	for _, ev := range v.Events {
		assert.Equal(t, "p1", ev.Extended.PatientID)
	}
	assert.Equal(t, req.Filter, v.Filter)
}

func TestComputeIsPure(t *testing.T) {
	snap := sampleSnapshot()
	req := Request{Mode: schedule.ModeDay, Anchor: fixedNow}
	assert.Equal(t, Compute(snap, req, time.UTC, fixedClock), Compute(snap, req, time.UTC, fixedClock))
	assert.Equal(t, sampleSnapshot(), snap)
}

func TestComputeEmptySnapshot(t *testing.T) {
	v := Compute(Snapshot{}, Request{Anchor: fixedNow}, nil, fixedClock)
	assert.Equal(t, schedule.ModeMonth, v.Mode)
	assert.NotNil(t, v.Events)
	assert.Empty(t, v.Events)
	assert.Empty(t, v.Badges)
}

type stubSource struct {
	appts     []schedule.Appointment
	people    []schedule.Person
	apptsErr  error
	peopleErr error
}

func (s stubSource) ListAppointments(context.Context) ([]schedule.Appointment, error) {
	return s.appts, s.apptsErr
}

func (s stubSource) ListPeople(context.Context) ([]schedule.Person, error) {
	return s.people, s.peopleErr
}

func TestFetch(t *testing.T) {
	snap := sampleSnapshot()
	got, err := Fetch(context.Background(), stubSource{appts: snap.Appointments, people: snap.People})
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	boom := errors.New("boom")
	_, err = Fetch(context.Background(), stubSource{peopleErr: boom})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list people")
}

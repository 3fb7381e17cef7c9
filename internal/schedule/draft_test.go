package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() AppointmentDraft {
	return AppointmentDraft{Room: "3", Date: "2025-04-03", Time: "9:00 AM", PatientID: "p1", DoctorID: "d1"}
}

func TestDraftBuild(t *testing.T) {
	a, err := validDraft().Build(nil)
	require.NoError(t, err)
	assert.Equal(t, Appointment{RoomNumber: 3, DateTime: "2025-04-03 09:00", PatientID: "p1", DoctorID: "d1", Urgency: UrgencyLow}, a)

	d := validDraft()
	d.ID = "a7"
	d.Room = float64(5)
	d.Time = "1:30 PM"
	d.Urgency = 3
	d.Notes = "  follow up  "
	a, err = d.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, "a7", a.ID)
	assert.Equal(t, 5, a.RoomNumber)
	assert.Equal(t, "2025-04-03 13:30", a.DateTime)
	assert.Equal(t, UrgencyHigh, a.Urgency)
	assert.Equal(t, "follow up", a.Notes)
}

func TestDraftBuild_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*AppointmentDraft)
		field string
	}{
		{"no room", func(d *AppointmentDraft) { d.Room = nil }, "room"},
		{"room not a number", func(d *AppointmentDraft) { d.Room = "abc" }, "room"},
		{"room out of range", func(d *AppointmentDraft) { d.Room = "8" }, "room"},
		{"no date", func(d *AppointmentDraft) { d.Date = "" }, "date"},
		{"bad date", func(d *AppointmentDraft) { d.Date = "April 3" }, "date"},
		{"date with trailing text", func(d *AppointmentDraft) { d.Date = "2025-04-03 junk" }, "date"},
		{"date with time", func(d *AppointmentDraft) { d.Date = "2025-04-03 09:00" }, "date"},
		{"month only", func(d *AppointmentDraft) { d.Date = "2025-04" }, "date"},
		{"24 hour time", func(d *AppointmentDraft) { d.Time = "09:00" }, "time"},
		{"no patient", func(d *AppointmentDraft) { d.PatientID = " " }, "patient_id"},
		{"no doctor", func(d *AppointmentDraft) { d.DoctorID = "" }, "doctor_id"},
		{"urgency too high", func(d *AppointmentDraft) { d.Urgency = 4 }, "urgency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.edit(&d)
			_, err := d.Build(nil)

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestCheckParticipants(t *testing.T) {
	dir := NewDirectory(samplePeople())

	assert.NoError(t, CheckParticipants(Appointment{PatientID: "p1", DoctorID: "d1"}, dir))
	assert.NoError(t, CheckParticipants(Appointment{PatientID: "p2", DoctorID: "c1"}, dir))

	var fe *FormatError
	require.ErrorAs(t, CheckParticipants(Appointment{PatientID: "d1", DoctorID: "d1"}, dir), &fe)
	assert.Equal(t, "patient_id", fe.Field)
	require.ErrorAs(t, CheckParticipants(Appointment{PatientID: "p1", DoctorID: "p2"}, dir), &fe)
	assert.Equal(t, "doctor_id", fe.Field)
	require.ErrorAs(t, CheckParticipants(Appointment{PatientID: "p1", DoctorID: "nobody"}, dir), &fe)
	assert.Equal(t, "doctor_id", fe.Field)
}

func TestDraftFromAppointment_RoundTrip(t *testing.T) {
	stored := Appointment{ID: "a1", RoomNumber: 4, DateTime: "2025-04-03T14:05:00", PatientID: "p1", DoctorID: "d1", Urgency: UrgencyMedium, Notes: "bring chart"}

	d, err := DraftFromAppointment(stored, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2:05 PM", d.Time)
	assert.Equal(t, "2025-04-03", d.Date)

	rebuilt, err := d.Build(nil)
	require.NoError(t, err)
	stored.DateTime = "2025-04-03 14:05"
	assert.Equal(t, stored, rebuilt)

	_, err = DraftFromAppointment(Appointment{DateTime: "whenever"}, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

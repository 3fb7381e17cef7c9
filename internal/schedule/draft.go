package schedule

import (
	"strconv"
	"strings"
	"time"
)

// AppointmentDraft is what the appointment form submits: a room picked from
// the day view, the visible date, a 12-hour slot time and the selected
// participants. An empty ID means create.
type AppointmentDraft struct {
	ID        string `json:"id,omitempty"`
	Room      any    `json:"room"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Urgency   int    `json:"urgency"`
	Notes     string `json:"notes,omitempty"`
}

// Build validates the draft and converts it to the record sent to the
// clinic API. The date is required here even though CombineDateAndTime
// would tolerate its absence.
func (d AppointmentDraft) Build(clock Clock) (Appointment, error) {
	if d.Room == nil {
		return Appointment{}, formatErr("room", "", "is required")
	}
	room, err := NormalizeRoomNumber(d.Room)
	if err != nil {
		return Appointment{}, err
	}
	if err := CheckRoomRange(room); err != nil {
		return Appointment{}, err
	}

	day := strings.TrimSpace(d.Date)
	if day == "" {
		return Appointment{}, formatErr("date", "", "is required")
	}
	if _, err := time.Parse(DateLayout, day); err != nil {
		return Appointment{}, formatErr("date", d.Date, "expected YYYY-MM-DD")
	}
	time24, err := To24Hour(d.Time)
	if err != nil {
		return Appointment{}, err
	}
	dateTime, err := CombineDateAndTime(day, time24, clock)
	if err != nil {
		return Appointment{}, err
	}

	patientID := strings.TrimSpace(d.PatientID)
	if patientID == "" {
		return Appointment{}, formatErr("patient_id", "", "is required")
	}
	doctorID := strings.TrimSpace(d.DoctorID)
	if doctorID == "" {
		return Appointment{}, formatErr("doctor_id", "", "is required")
	}

	urgency := Urgency(d.Urgency).Normalize()
	if !urgency.Valid() {
		return Appointment{}, formatErr("urgency", strconv.Itoa(d.Urgency), "must be 1, 2 or 3")
	}

	return Appointment{
		ID:         strings.TrimSpace(d.ID),
		RoomNumber: room,
		DateTime:   dateTime,
		PatientID:  patientID,
		DoctorID:   doctorID,
		Urgency:    urgency,
		Notes:      strings.TrimSpace(d.Notes),
	}, nil
}

// CheckParticipants verifies the patient and doctor ids against the
// directory and their roles.
func CheckParticipants(a Appointment, dir Directory) error {
	patient, ok := dir[a.PatientID]
	if !ok {
		return formatErr("patient_id", a.PatientID, "unknown person")
	}
	if patient.Role() != RolePatient {
		return formatErr("patient_id", a.PatientID, "is not a patient")
	}
	doctor, ok := dir[a.DoctorID]
	if !ok {
		return formatErr("doctor_id", a.DoctorID, "unknown person")
	}
	if doctor.Role() == RolePatient {
		return formatErr("doctor_id", a.DoctorID, "is a patient")
	}
	return nil
}

// DraftFromAppointment pre-fills the edit form from a stored record.
func DraftFromAppointment(a Appointment, loc *time.Location) (AppointmentDraft, error) {
	t, err := ParseDateTime(a.DateTime, loc)
	if err != nil {
		return AppointmentDraft{}, err
	}
	time12, err := To12Hour(t.Format("15:04"))
	if err != nil {
		return AppointmentDraft{}, err
	}
	return AppointmentDraft{
		ID:        a.ID,
		Room:      strconv.Itoa(a.RoomNumber),
		Date:      t.Format(DateLayout),
		Time:      time12,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Urgency:   int(a.Urgency.Normalize()),
		Notes:     a.Notes,
	}, nil
}

package clinicapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

// The clinic API is loose about field names. Reads accept every spelling
// seen in the wild; writes always use the canonical snake_case names.
var (
	appointmentKeys = struct {
		id, room, dateTime, patient, doctor, urgency, notes []string
	}{
		id:       []string{"id", "_id", "appointment_id"},
		room:     []string{"room_number", "room", "roomNumber"},
		dateTime: []string{"date_time", "dateTime", "datetime", "date"},
		patient:  []string{"patient_id", "patient", "patientId"},
		doctor:   []string{"doctor_id", "doctor", "doctorId", "caretaker_id", "caretaker"},
		urgency:  []string{"urgency", "priority"},
		notes:    []string{"notes", "note"},
	}
	personKeys = struct {
		id, name, status, email, phone, address []string
	}{
		id:      []string{"id", "_id", "person_id"},
		name:    []string{"name"},
		status:  []string{"status", "role"},
		email:   []string{"email"},
		phone:   []string{"phone_number", "phone", "phoneNumber"},
		address: []string{"address"},
	}
)

type appointmentPayload struct {
	RoomNumber int    `json:"room_number"`
	DateTime   string `json:"date_time"`
	PatientID  string `json:"patient_id"`
	DoctorID   string `json:"doctor_id"`
	Urgency    int    `json:"urgency"`
	Notes      string `json:"notes"`
}

func newAppointmentPayload(a schedule.Appointment) appointmentPayload {
	return appointmentPayload{
		RoomNumber: a.RoomNumber,
		DateTime:   a.DateTime,
		PatientID:  a.PatientID,
		DoctorID:   a.DoctorID,
		Urgency:    int(a.Urgency.Normalize()),
		Notes:      a.Notes,
	}
}

type personPayload struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

func newPersonPayload(p schedule.Person) personPayload {
	return personPayload{
		Name:        p.Name,
		Status:      p.Status,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
	}
}

type object map[string]json.RawMessage

func (o object) pick(keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := o[k]; ok && !isNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

// str reads a string or number field as text.
func (o object) str(keys []string) string {
	raw, ok := o.pick(keys)
	if !ok {
		return ""
	}
	v, err := scalar(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// num reads a number or numeric string. ok is false when the field is
// absent or not an integer.
func (o object) num(keys []string) (int, bool) {
	raw, present := o.pick(keys)
	if !present {
		return 0, false
	}
	v, err := scalar(raw)
	if err != nil {
		return 0, false
	}
	n, err := schedule.NormalizeRoomNumber(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func scalar(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case string, json.Number:
		return v, nil
	default:
		return nil, fmt.Errorf("not a scalar: %s", raw)
	}
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// decodeAppointment never rejects a record for a bad field; an unreadable
// room or urgency decodes to zero and is handled downstream.
func decodeAppointment(o object) schedule.Appointment {
	room, _ := o.num(appointmentKeys.room)
	urgency, _ := o.num(appointmentKeys.urgency)
	return schedule.Appointment{
		ID:         o.str(appointmentKeys.id),
		RoomNumber: room,
		DateTime:   o.str(appointmentKeys.dateTime),
		PatientID:  o.str(appointmentKeys.patient),
		DoctorID:   o.str(appointmentKeys.doctor),
		Urgency:    schedule.Urgency(urgency).Normalize(),
		Notes:      o.str(appointmentKeys.notes),
	}
}

func decodePerson(o object) schedule.Person {
	return schedule.Person{
		ID:          o.str(personKeys.id),
		Name:        o.str(personKeys.name),
		Status:      strings.ToLower(o.str(personKeys.status)),
		Email:       o.str(personKeys.email),
		PhoneNumber: o.str(personKeys.phone),
		Address:     o.str(personKeys.address),
	}
}

// decodeList accepts a bare array or an object wrapping the array under one
// of the given keys.
func decodeList(body []byte, wrappers ...string) ([]object, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []object
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}

	var wrapped object
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	raw, ok := wrapped.pick(append(wrappers, "data", "items", "results"))
	if !ok {
		return nil, nil
	}
	var items []object
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return items, nil
}

// decodeObject returns nil for an empty body or an empty object.
func decodeObject(body []byte, wrappers ...string) (object, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || isNull(trimmed) {
		return nil, nil
	}
	var o object
	if err := json.Unmarshal(trimmed, &o); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if raw, ok := o.pick(wrappers); ok && len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '{' {
		var inner object
		if err := json.Unmarshal(raw, &inner); err == nil {
			o = inner
		}
	}
	if len(o) == 0 {
		return nil, nil
	}
	return o, nil
}

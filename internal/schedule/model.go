package schedule

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusPatient   = "patient"
	StatusDoctor    = "doctor"
	StatusCaretaker = "caretaker"
)

type Role string

const (
	RolePatient   Role = "patient"
	RoleCaretaker Role = "caretaker"
)

// Person is a read-only snapshot of a directory entry owned by the clinic API.
type Person struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// Role classifies the person into one of the two scheduler roles.
// Anything that is not a patient is treated as a caretaker.
func (p Person) Role() Role {
	if p.Status == StatusPatient {
		return RolePatient
	}
	return RoleCaretaker
}

type Urgency int

const (
	UrgencyLow    Urgency = 1
	UrgencyMedium Urgency = 2
	UrgencyHigh   Urgency = 3
)

// Normalize maps an unset urgency to low.
func (u Urgency) Normalize() Urgency {
	if u == 0 {
		return UrgencyLow
	}
	return u
}

func (u Urgency) Valid() bool {
	return u >= UrgencyLow && u <= UrgencyHigh
}

func (u Urgency) Label() string {
	switch u.Normalize() {
	case UrgencyLow:
		return "low"
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Color is the event background used by the day view.
func (u Urgency) Color() string {
	switch u.Normalize() {
	case UrgencyMedium:
		return "#ffe9a8"
	case UrgencyHigh:
		return "#ffc4c4"
	default:
		return "#d0f0ff"
	}
}

// Appointment mirrors the clinic API record. DateTime is kept as the raw
// wire string so malformed values survive until the pipeline decides what
// to do with them.
type Appointment struct {
	ID         string  `json:"id"`
	RoomNumber int     `json:"room_number"`
	DateTime   string  `json:"date_time"`
	PatientID  string  `json:"patient_id"`
	DoctorID   string  `json:"doctor_id"`
	Urgency    Urgency `json:"urgency"`
	Notes      string  `json:"notes,omitempty"`
}

type Extended struct {
	PatientID   string  `json:"patient_id"`
	DoctorID    string  `json:"doctor_id"`
	Urgency     Urgency `json:"urgency"`
	PatientName string  `json:"patient_name,omitempty"`
	DoctorName  string  `json:"doctor_name,omitempty"`
	Color       string  `json:"color"`
}

// CalendarEvent is the displayable projection of an Appointment.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	DayKey      string    `json:"day_key"`
	ResourceKey string    `json:"resource_key"`
	Extended    Extended  `json:"extended"`
	Degraded    bool      `json:"degraded,omitempty"`
}

// IDSet is a set of person ids.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the members in sorted order.
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s IDSet) clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// FilterState restricts the rendered appointments. An empty set places no
// restriction on its dimension.
type FilterState struct {
	PatientIDs IDSet
	DoctorIDs  IDSet
}

func NewFilter(patientIDs, doctorIDs []string) FilterState {
	return FilterState{
		PatientIDs: NewIDSet(patientIDs...),
		DoctorIDs:  NewIDSet(doctorIDs...),
	}
}

func (f FilterState) IsEmpty() bool {
	return len(f.PatientIDs) == 0 && len(f.DoctorIDs) == 0
}

// Toggle returns a copy of the filter with id added to or removed from the
// set for role, the way a checkbox in the filter panel behaves.
func (f FilterState) Toggle(role Role, id string) FilterState {
	next := FilterState{PatientIDs: f.PatientIDs.clone(), DoctorIDs: f.DoctorIDs.clone()}
	set := next.DoctorIDs
	if role == RolePatient {
		set = next.PatientIDs
	}
	if set.Has(id) {
		delete(set, id)
	} else {
		set[id] = struct{}{}
	}
	return next
}

// Clear returns the unrestricted filter.
func (f FilterState) Clear() FilterState {
	return FilterState{PatientIDs: IDSet{}, DoctorIDs: IDSet{}}
}

type filterJSON struct {
	PatientIDs []string `json:"patient_ids"`
	DoctorIDs  []string `json:"doctor_ids"`
}

func (f FilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(filterJSON{PatientIDs: f.PatientIDs.Slice(), DoctorIDs: f.DoctorIDs.Slice()})
}

func (f *FilterState) UnmarshalJSON(data []byte) error {
	var raw filterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = NewFilter(raw.PatientIDs, raw.DoctorIDs)
	return nil
}

// DateRange is the half-open visible window [Start, End).
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Clock supplies the current time. A nil Clock reads the wall clock.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

package api

import (
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

type PersonRequest struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type PeopleResponse struct {
	Patients   []schedule.Person `json:"patients"`
	Caretakers []schedule.Person `json:"caretakers"`
}

type AppointmentResponse struct {
	Appointment schedule.Appointment `json:"appointment"`
	// Draft is the edit form prefill; absent when date_time is unreadable.
	Draft *schedule.AppointmentDraft `json:"draft,omitempty"`
}

type RoomsResponse struct {
	Rooms []schedule.Room `json:"rooms"`
}

type SlotsResponse struct {
	Date  string          `json:"date"`
	Slots []schedule.Slot `json:"slots"`
}

type ErrorResponse struct {
	Error          string `json:"error"`
	Details        string `json:"details,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

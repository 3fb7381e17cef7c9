package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

func (s *server) getAppointment(w http.ResponseWriter, r *http.Request) {
	a, err := s.cfg.Upstream.GetAppointment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.appointmentResponse(a))
}

func (s *server) createAppointment(w http.ResponseWriter, r *http.Request) {
	var d schedule.AppointmentDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.ID = ""
	s.saveAppointment(w, r, d, http.StatusCreated)
}

func (s *server) updateAppointment(w http.ResponseWriter, r *http.Request) {
	var d schedule.AppointmentDraft
	if !decodeBody(w, r, &d) {
		return
	}
	d.ID = chi.URLParam(r, "id")
	s.saveAppointment(w, r, d, http.StatusOK)
}

func (s *server) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Upstream.DeleteAppointment(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	s.afterWrite(r.Context(), false)
	w.WriteHeader(http.StatusNoContent)
}

// saveAppointment builds the record from the form draft, checks both
// participants against the directory and writes it upstream.
func (s *server) saveAppointment(w http.ResponseWriter, r *http.Request, d schedule.AppointmentDraft, status int) {
	a, err := d.Build(s.now)
	if err != nil {
		handleError(w, err)
		return
	}

	people, err := s.cfg.Source.ListPeople(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	if err := schedule.CheckParticipants(a, schedule.NewDirectory(people)); err != nil {
		handleError(w, err)
		return
	}

	saved, err := s.cfg.Upstream.SaveAppointment(r.Context(), a)
	if err != nil {
		handleError(w, err)
		return
	}
	s.afterWrite(r.Context(), false)
	writeJSON(w, status, s.appointmentResponse(saved))
}

func (s *server) appointmentResponse(a schedule.Appointment) AppointmentResponse {
	resp := AppointmentResponse{Appointment: a}
	if d, err := schedule.DraftFromAppointment(a, s.cfg.Location); err == nil {
		resp.Draft = &d
	}
	return resp
}

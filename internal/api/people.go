package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

func (s *server) listPeople(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	people, err := s.cfg.Source.ListPeople(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	patients, caretakers := schedule.SplitByRole(schedule.SearchByName(people, q.Get("q")))

	switch strings.ToLower(q.Get("role")) {
	case "":
	case string(schedule.RolePatient):
		caretakers = nil
	case string(schedule.RoleCaretaker), schedule.StatusDoctor:
		patients = nil
	default:
		handleError(w, &schedule.FormatError{Field: "role", Value: q.Get("role"), Reason: "must be patient or caretaker"})
		return
	}

	writeJSON(w, http.StatusOK, PeopleResponse{
		Patients:   orEmpty(patients),
		Caretakers: orEmpty(caretakers),
	})
}

func (s *server) createPerson(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodePerson(w, r)
	if !ok {
		return
	}
	created, err := s.cfg.Upstream.CreatePerson(r.Context(), p)
	if err != nil {
		handleError(w, err)
		return
	}
	s.afterWrite(r.Context(), true)
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) updatePerson(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodePerson(w, r)
	if !ok {
		return
	}
	p.ID = chi.URLParam(r, "id")
	updated, err := s.cfg.Upstream.UpdatePerson(r.Context(), p)
	if err != nil {
		handleError(w, err)
		return
	}
	s.afterWrite(r.Context(), true)
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) deletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Upstream.DeletePerson(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}
	s.afterWrite(r.Context(), true)
	w.WriteHeader(http.StatusNoContent)
}

// decodePerson reads the profile form, formats the phone number the way the
// form does while typing, and validates.
func (s *server) decodePerson(w http.ResponseWriter, r *http.Request) (schedule.Person, bool) {
	var req PersonRequest
	if !decodeBody(w, r, &req) {
		return schedule.Person{}, false
	}
	p := schedule.Person{
		Name:        strings.TrimSpace(req.Name),
		Status:      strings.ToLower(strings.TrimSpace(req.Status)),
		Email:       strings.TrimSpace(req.Email),
		PhoneNumber: schedule.FormatPhoneNumber(req.PhoneNumber),
		Address:     strings.TrimSpace(req.Address),
	}
	if err := schedule.ValidatePerson(p); err != nil {
		handleError(w, err)
		return schedule.Person{}, false
	}
	return p, true
}

func orEmpty(people []schedule.Person) []schedule.Person {
	if people == nil {
		return []schedule.Person{}
	}
	return people
}

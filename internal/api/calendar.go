package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/viewmodel"
)

func (s *server) listRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RoomsResponse{Rooms: schedule.Rooms()})
}

// getCalendar renders one stateless view. Filters accept repeated params or
// comma-separated ids.
func (s *server) getCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode, err := schedule.ParseMode(q.Get("view"))
	if err != nil {
		handleError(w, err)
		return
	}
	anchor, ok := s.anchor(w, q.Get("date"))
	if !ok {
		return
	}
	filter := schedule.NewFilter(splitIDs(q["patient_id"]), splitIDs(q["doctor_id"]))

	snap, err := viewmodel.Fetch(r.Context(), s.cfg.Source)
	if err != nil {
		s.logger.Warn("calendar fetch failed", zap.Error(err), zap.String("request_id", GetRequestID(r.Context())))
		handleError(w, err)
		return
	}

	v := viewmodel.Compute(snap, viewmodel.Request{Mode: mode, Anchor: anchor, Filter: filter}, s.cfg.Location, s.cfg.Clock)
	if v.Skipped > 0 {
		s.logger.Warn("appointments with unreadable date_time left out",
			zap.Int("skipped", v.Skipped),
			zap.String("request_id", GetRequestID(r.Context())),
		)
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) getSlots(w http.ResponseWriter, r *http.Request) {
	day, ok := s.anchor(w, r.URL.Query().Get("date"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SlotsResponse{
		Date:  day.Format(schedule.DateLayout),
		Slots: schedule.DaySlots(day),
	})
}

func (s *server) anchor(w http.ResponseWriter, date string) (t time.Time, ok bool) {
	if date == "" {
		return s.now(), true
	}
	t, err := schedule.ParseDay(date, s.cfg.Location)
	if err != nil {
		handleError(w, err)
		return t, false
	}
	return t, true
}

func splitIDs(values []string) []string {
	var out []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

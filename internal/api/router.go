package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/live"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/logging"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/metrics"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/viewmodel"
)

// Upstream is the write side of the clinic API.
type Upstream interface {
	Pinger
	CreatePerson(ctx context.Context, p schedule.Person) (schedule.Person, error)
	UpdatePerson(ctx context.Context, p schedule.Person) (schedule.Person, error)
	DeletePerson(ctx context.Context, id string) error
	GetAppointment(ctx context.Context, id string) (schedule.Appointment, error)
	SaveAppointment(ctx context.Context, a schedule.Appointment) (schedule.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

// Invalidator drops cached people after a people write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type RouterConfig struct {
	Upstream Upstream
	// Source serves every read; usually the cache-backed view of Upstream.
	Source    viewmodel.Source
	Cache     Invalidator
	CachePing Pinger
	Hub       *live.Hub

	Logger         *zap.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Location *time.Location
	Clock    schedule.Clock
	Env      string
	Version  string
}

type server struct {
	cfg    RouterConfig
	logger *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	logger := logging.OrNop(cfg.Logger).Named("api")
	s := &server{cfg: cfg, logger: logger}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger, cfg.HTTPMetrics))

	health := NewHealthHandler(cfg.Upstream, cfg.CachePing, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/rooms", s.listRooms)
		r.Get("/calendar", s.getCalendar)
		r.Get("/calendar/slots", s.getSlots)

		r.Get("/people", s.listPeople)
		r.Post("/people", s.createPerson)
		r.Put("/people/{id}", s.updatePerson)
		r.Delete("/people/{id}", s.deletePerson)

		r.Post("/appointments", s.createAppointment)
		r.Get("/appointments/{id}", s.getAppointment)
		r.Put("/appointments/{id}", s.updateAppointment)
		r.Delete("/appointments/{id}", s.deleteAppointment)
	})

	if cfg.Hub != nil {
		r.Get("/ws", live.Handler(cfg.Hub))
	}

	return r
}

// afterWrite invalidates before notifying so live sessions refetch fresh
// people.
func (s *server) afterWrite(ctx context.Context, peopleChanged bool) {
	if peopleChanged && s.cfg.Cache != nil {
		s.cfg.Cache.Invalidate(ctx)
	}
	if s.cfg.Hub != nil {
		s.cfg.Hub.NotifyChanged()
	}
}

func (s *server) now() time.Time {
	if s.cfg.Clock == nil {
		return time.Now().In(s.cfg.Location)
	}
	return s.cfg.Clock().In(s.cfg.Location)
}

package live

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/logging"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/metrics"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/viewmodel"
)

type HubConfig struct {
	Location *time.Location
	Clock    schedule.Clock
	Metrics  *metrics.ViewMetrics
	Logger   *zap.Logger
}

// Hub tracks the open sessions so writes made through the dashboard can
// refresh every connected calendar.
type Hub struct {
	source viewmodel.Source
	cfg    HubConfig
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

func NewHub(source viewmodel.Source, cfg HubConfig) *Hub {
	logger := logging.OrNop(cfg.Logger).Named("live")
	cfg.Logger = logger
	return &Hub{
		source:   source,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[*Session]struct{}),
	}
}

func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
}

// NotifyChanged asks every session to refetch. It does not wait.
func (h *Hub) NotifyChanged() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.sessions {
		go s.refresh()
	}
}

func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) newCalendar(onChange func(viewmodel.View)) *viewmodel.Calendar {
	return viewmodel.New(h.source, viewmodel.Options{
		Location: h.cfg.Location,
		Clock:    h.cfg.Clock,
		Logger:   h.logger,
		Metrics:  h.cfg.Metrics,
		OnChange: onChange,
	})
}

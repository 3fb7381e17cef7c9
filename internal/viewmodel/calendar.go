package viewmodel

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/logging"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/metrics"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

// ErrStale is returned to a caller whose response arrived after a newer
// request was issued. Its result was discarded.
var ErrStale = errors.New("stale calendar response")

type Options struct {
	Location *time.Location
	Clock    schedule.Clock
	Logger   *zap.Logger
	Metrics  *metrics.ViewMetrics
	// OnChange receives every applied view, in token order.
	OnChange func(View)
}

// Calendar is the stateful side of the dashboard: the current request and
// the last applied view. Every operation issues a new token and only the
// response carrying the latest token is applied.
type Calendar struct {
	source   Source
	loc      *time.Location
	clock    schedule.Clock
	logger   *zap.Logger
	metrics  *metrics.ViewMetrics
	onChange func(View)

	mu       sync.Mutex
	latest   uint64
	req      Request
	view     View
	snapshot Snapshot

	notifyMu sync.Mutex
	notified uint64
}

func New(source Source, opts Options) *Calendar {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	c := &Calendar{
		source:   source,
		loc:      loc,
		clock:    opts.Clock,
		logger:   logging.OrNop(opts.Logger).Named("calendar"),
		metrics:  opts.Metrics,
		onChange: opts.OnChange,
	}
	c.req = Request{Mode: schedule.ModeMonth, Anchor: now(c.clock).In(loc)}
	c.view = Compute(Snapshot{}, c.req, loc, c.clock)
	return c
}

// Current returns the last applied view.
func (c *Calendar) Current() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Calendar) Request() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.req
}

// Pending is a request change already applied to the calendar under its
// token. Fetch loads the data for it.
type Pending struct {
	c     *Calendar
	token uint64
	req   Request
}

func (p Pending) Token() uint64    { return p.token }
func (p Pending) Request() Request { return p.req }

// Fetch loads the data for the staged request and applies the result unless
// a newer change was staged meanwhile, in which case it returns ErrStale.
func (p Pending) Fetch(ctx context.Context) (View, error) {
	return p.c.resolve(ctx, p.token, p.req)
}

func (c *Calendar) Navigate(ctx context.Context, mode schedule.Mode, date time.Time) (View, error) {
	return c.StageNavigate(mode, date).Fetch(ctx)
}

func (c *Calendar) Next(ctx context.Context) (View, error) {
	return c.StageNext().Fetch(ctx)
}

func (c *Calendar) Prev(ctx context.Context) (View, error) {
	return c.StagePrev().Fetch(ctx)
}

func (c *Calendar) Today(ctx context.Context) (View, error) {
	return c.StageToday().Fetch(ctx)
}

func (c *Calendar) SetFilter(ctx context.Context, f schedule.FilterState) (View, error) {
	return c.StageFilter(f).Fetch(ctx)
}

func (c *Calendar) ToggleFilter(ctx context.Context, role schedule.Role, id string) (View, error) {
	return c.StageToggle(role, id).Fetch(ctx)
}

func (c *Calendar) Refresh(ctx context.Context) (View, error) {
	return c.StageRefresh().Fetch(ctx)
}

// StageNavigate switches mode and anchor. An empty mode or a zero date keeps
// the current one.
func (c *Calendar) StageNavigate(mode schedule.Mode, date time.Time) Pending {
	return c.stage(func(r Request) Request {
		if mode != "" {
			r.Mode = mode
		}
		if !date.IsZero() {
			r.Anchor = date
		}
		return r
	})
}

func (c *Calendar) StageNext() Pending {
	return c.stage(func(r Request) Request {
		r.Anchor = schedule.Shift(r.Mode, r.Anchor, 1)
		return r
	})
}

func (c *Calendar) StagePrev() Pending {
	return c.stage(func(r Request) Request {
		r.Anchor = schedule.Shift(r.Mode, r.Anchor, -1)
		return r
	})
}

func (c *Calendar) StageToday() Pending {
	return c.stage(func(r Request) Request {
		r.Anchor = now(c.clock).In(c.loc)
		return r
	})
}

func (c *Calendar) StageFilter(f schedule.FilterState) Pending {
	return c.stage(func(r Request) Request {
		r.Filter = f
		return r
	})
}

// StageToggle flips one id in the current filter.
func (c *Calendar) StageToggle(role schedule.Role, id string) Pending {
	return c.stage(func(r Request) Request {
		r.Filter = r.Filter.Toggle(role, id)
		return r
	})
}

func (c *Calendar) StageRefresh() Pending {
	return c.stage(func(r Request) Request { return r })
}

// stage applies next to the current request and assigns it a new token.
// Changes take effect in the order stage is called, whatever order their
// fetches complete in.
func (c *Calendar) stage(next func(Request) Request) Pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	c.req = next(c.req)
	return Pending{c: c, token: c.latest, req: c.req}
}

// resolve fetches and applies the view for token. When the fetch fails the
// last good snapshot is recomputed for req: the new range is shown with
// stale data, UpdatedAt keeps the time of the last successful fetch and
// Error is set. Callers must treat such a view as not fresh.
func (c *Calendar) resolve(ctx context.Context, token uint64, req Request) (View, error) {
	snap, fetchErr := Fetch(ctx, c.source)

	c.mu.Lock()
	if token != c.latest {
		c.mu.Unlock()
		c.metrics.ObserveRefresh(string(req.Mode), metrics.RefreshStale)
		c.logger.Debug("discarding stale response", zap.Uint64("token", token))
		return View{}, ErrStale
	}

	if fetchErr != nil {
		// Keep showing what we had, recomputed for the new request.
		v := Compute(c.snapshot, req, c.loc, c.clock)
		v.UpdatedAt = c.view.UpdatedAt
		v.Token = token
		v.Error = fetchErr.Error()
		c.view = v
		c.mu.Unlock()

		c.metrics.ObserveRefresh(string(req.Mode), metrics.RefreshFailed)
		c.logger.Warn("calendar refresh failed", zap.Uint64("token", token), zap.Error(fetchErr))
		c.notify(v)
		return v, fetchErr
	}

	v := Compute(snap, req, c.loc, c.clock)
	v.Token = token
	c.snapshot = snap
	c.view = v
	c.mu.Unlock()

	c.metrics.ObserveApplied(string(req.Mode), len(v.Events), v.Skipped)
	if v.Skipped > 0 {
		c.logger.Warn("appointments with unreadable date_time left out",
			zap.Int("skipped", v.Skipped),
			zap.String("range_start", v.Range.Start.Format(schedule.DateLayout)),
		)
	}
	c.notify(v)
	return v, nil
}

func (c *Calendar) notify(v View) {
	if c.onChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if v.Token <= c.notified {
		return
	}
	c.notified = v.Token
	c.onChange(v)
}

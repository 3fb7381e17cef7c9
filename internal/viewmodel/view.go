package viewmodel

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

// Source is where a calendar gets its data.
type Source interface {
	ListAppointments(ctx context.Context) ([]schedule.Appointment, error)
	ListPeople(ctx context.Context) ([]schedule.Person, error)
}

// Snapshot is one consistent read of the source.
type Snapshot struct {
	Appointments []schedule.Appointment
	People       []schedule.Person
}

// Fetch reads appointments and people concurrently. Either failure cancels
// the other and fails the whole snapshot.
func Fetch(ctx context.Context, src Source) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appts, err := src.ListAppointments(gctx)
		if err != nil {
			return fmt.Errorf("list appointments: %w", err)
		}
		snap.Appointments = appts
		return nil
	})
	g.Go(func() error {
		people, err := src.ListPeople(gctx)
		if err != nil {
			return fmt.Errorf("list people: %w", err)
		}
		snap.People = people
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Request is what the user is looking at.
type Request struct {
	Mode   schedule.Mode
	Anchor time.Time
	Filter schedule.FilterState
}

// View is an immutable render of one request against one snapshot.
type View struct {
	Token     uint64                   `json:"token"`
	Mode      schedule.Mode            `json:"mode"`
	Anchor    string                   `json:"anchor"`
	Range     schedule.DateRange       `json:"range"`
	Title     string                   `json:"title"`
	Filter    schedule.FilterState     `json:"filter"`
	Events    []schedule.CalendarEvent `json:"events"`
	DayCounts map[string]int           `json:"day_counts"`
	Badges    []schedule.DayBadge      `json:"badges"`
	Columns   []schedule.Column        `json:"columns,omitempty"`
	Slots     []schedule.Slot          `json:"slots,omitempty"`
	Skipped   int                      `json:"skipped"`
	Error     string                   `json:"error,omitempty"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// Compute runs the whole pipeline. It is pure: the same inputs always give
// the same view.
func Compute(snap Snapshot, req Request, loc *time.Location, clock schedule.Clock) View {
	if loc == nil {
		loc = time.Local
	}
	mode := req.Mode
	if mode == "" {
		mode = schedule.ModeMonth
	}
	anchor := req.Anchor.In(loc)
	r := schedule.RangeFor(mode, anchor)

	visible, skipped := schedule.SelectVisibleCounted(snap.Appointments, r)
	filtered := schedule.ApplyFilter(visible, req.Filter)
	events := schedule.Annotate(schedule.ProjectAll(filtered, loc, clock), schedule.NewDirectory(snap.People))
	counts := schedule.CountByDay(events)

	v := View{
		Mode:      mode,
		Anchor:    anchor.Format(schedule.DateLayout),
		Range:     r,
		Title:     schedule.Title(mode, anchor),
		Filter:    req.Filter,
		Events:    events,
		DayCounts: counts,
		Badges:    schedule.Badges(counts),
		Skipped:   skipped,
		UpdatedAt: now(clock).In(loc),
	}
	if mode == schedule.ModeDay {
		v.Columns = schedule.GroupByResource(events)
		v.Slots = schedule.DaySlots(anchor)
	}
	return v
}

func now(clock schedule.Clock) time.Time {
	if clock == nil {
		return time.Now()
	}
	return clock()
}

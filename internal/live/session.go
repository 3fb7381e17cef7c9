package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	ws "github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/viewmodel"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// Session is one browser connection with its own calendar state.
type Session struct {
	id     string
	hub    *Hub
	conn   *ws.Conn
	cal    *viewmodel.Calendar
	logger *zap.Logger

	ctx  context.Context
	send chan []byte
	done chan struct{}
}

func newSession(hub *Hub, conn *ws.Conn) *Session {
	s := &Session{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
		ctx:  context.Background(),
	}
	s.logger = hub.logger.With(zap.String("session", s.id))
	s.cal = hub.newCalendar(s.pushView)
	return s
}

// Run blocks until the connection closes.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.ctx = ctx

	s.hub.Register(s)
	defer s.hub.Unregister(s)
	defer close(s.done)

	s.logger.Info("live session opened")
	defer s.logger.Info("live session closed")

	go s.writePump(ctx)

	s.push(Message{Type: MsgHello, Session: s.id})
	go s.await(ctx, CmdRefresh, s.cal.StageRefresh())

	s.readPump(ctx)
}

// readPump applies each command's request change in arrival order and
// leaves the fetch to its own goroutine, so a slow fetch never blocks newer
// navigation.
func (s *Session) readPump(ctx context.Context) {
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != ws.MessageText {
			continue
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.pushError(&schedule.FormatError{Field: "command", Reason: "invalid JSON"})
			continue
		}
		p, err := s.stage(cmd)
		if err != nil {
			s.report(cmd.Type, err)
			continue
		}
		go s.await(ctx, cmd.Type, p)
	}
}

func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.send:
			if err := s.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) stage(cmd Command) (viewmodel.Pending, error) {
	switch cmd.Type {
	case CmdNavigate:
		return s.navigate(cmd)
	case CmdNext:
		return s.cal.StageNext(), nil
	case CmdPrev:
		return s.cal.StagePrev(), nil
	case CmdToday:
		return s.cal.StageToday(), nil
	case CmdRefresh:
		return s.cal.StageRefresh(), nil
	case CmdFilter:
		f := schedule.FilterState{}.Clear()
		if cmd.Filter != nil {
			f = *cmd.Filter
		}
		return s.cal.StageFilter(f), nil
	case CmdToggle:
		return s.toggle(cmd)
	case CmdClear:
		return s.cal.StageFilter(schedule.FilterState{}.Clear()), nil
	default:
		return viewmodel.Pending{}, &schedule.FormatError{Field: "type", Value: cmd.Type, Reason: "unknown command"}
	}
}

func (s *Session) await(ctx context.Context, typ string, p viewmodel.Pending) {
	_, err := p.Fetch(ctx)
	s.report(typ, err)
}

func (s *Session) report(typ string, err error) {
	switch {
	case err == nil, errors.Is(err, viewmodel.ErrStale):
	case errors.Is(err, schedule.ErrInvalidFormat):
		s.pushError(err)
	default:
		// Fetch failures already reached the client inside the view.
		s.logger.Debug("command failed", zap.String("type", typ), zap.Error(err))
	}
}

func (s *Session) navigate(cmd Command) (viewmodel.Pending, error) {
	var mode schedule.Mode
	var err error
	if cmd.View != "" {
		if mode, err = schedule.ParseMode(cmd.View); err != nil {
			return viewmodel.Pending{}, err
		}
	}
	var date time.Time
	if cmd.Date != "" {
		date, err = schedule.ParseDay(cmd.Date, s.hub.cfg.Location)
		if err != nil {
			return viewmodel.Pending{}, err
		}
	}
	return s.cal.StageNavigate(mode, date), nil
}

func (s *Session) toggle(cmd Command) (viewmodel.Pending, error) {
	if cmd.ID == "" {
		return viewmodel.Pending{}, &schedule.FormatError{Field: "id", Reason: "required"}
	}
	var role schedule.Role
	switch schedule.Role(cmd.Role) {
	case schedule.RolePatient:
		role = schedule.RolePatient
	case schedule.RoleCaretaker, schedule.StatusDoctor:
		role = schedule.RoleCaretaker
	default:
		return viewmodel.Pending{}, &schedule.FormatError{Field: "role", Value: cmd.Role, Reason: "must be patient or caretaker"}
	}
	return s.cal.StageToggle(role, cmd.ID), nil
}

func (s *Session) refresh() {
	if _, err := s.cal.Refresh(s.ctx); err != nil && !errors.Is(err, viewmodel.ErrStale) {
		s.logger.Debug("refresh failed", zap.Error(err))
	}
}

func (s *Session) pushView(v viewmodel.View) {
	s.push(Message{Type: MsgView, View: &v})
}

func (s *Session) pushError(err error) {
	s.push(Message{Type: MsgError, Error: err.Error()})
}

// push never blocks. A client that stops reading loses messages rather than
// stalling its calendar.
func (s *Session) push(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("marshal live message", zap.Error(err))
		return
	}
	select {
	case <-s.done:
	case s.send <- data:
	default:
		s.logger.Warn("live send buffer full, dropping message", zap.String("type", msg.Type))
	}
}

// Handler upgrades the request and runs a session until the socket closes.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			hub.logger.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		newSession(hub, conn).Run(r.Context())
		_ = conn.Close(ws.StatusNormalClosure, "")
	}
}

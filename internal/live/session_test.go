package live

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

var fixedNow = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

type memorySource struct {
	mu    sync.Mutex
	appts []schedule.Appointment
}

func (m *memorySource) ListAppointments(context.Context) ([]schedule.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]schedule.Appointment(nil), m.appts...), nil
}

func (m *memorySource) ListPeople(context.Context) ([]schedule.Person, error) {
	return []schedule.Person{
		{ID: "p1", Name: "Alice Park", Status: schedule.StatusPatient},
		{ID: "d1", Name: "Dr. Natalie Osei", Status: schedule.StatusDoctor},
	}, nil
}

func (m *memorySource) add(a schedule.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appts = append(m.appts, a)
}

type harness struct {
	hub  *Hub
	src  *memorySource
	conn *ws.Conn
	ctx  context.Context
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	src := &memorySource{appts: []schedule.Appointment{
		{ID: "a1", RoomNumber: 1, DateTime: "2025-04-10 09:00", PatientID: "p1", DoctorID: "d1"},
		{ID: "a2", RoomNumber: 2, DateTime: "2025-04-15 10:00", PatientID: "p2", DoctorID: "d1"},
	}}
	hub := NewHub(src, HubConfig{
		Location: time.UTC,
		Clock:    func() time.Time { return fixedNow },
	})
	srv := httptest.NewServer(Handler(hub))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(ws.StatusNormalClosure, "") })

	return &harness{hub: hub, src: src, conn: conn, ctx: ctx}
}

func (h *harness) read(t *testing.T) Message {
	t.Helper()
	var msg Message
	require.NoError(t, wsjson.Read(h.ctx, h.conn, &msg))
	return msg
}

func (h *harness) send(t *testing.T, cmd Command) {
	t.Helper()
	require.NoError(t, wsjson.Write(h.ctx, h.conn, cmd))
}

func TestSessionHelloAndInitialView(t *testing.T) {
	h := newHarness(t)

	hello := h.read(t)
	assert.Equal(t, MsgHello, hello.Type)
	assert.NotEmpty(t, hello.Session)
	assert.Equal(t, 1, h.hub.SessionCount())

	msg := h.read(t)
	require.Equal(t, MsgView, msg.Type)
	require.NotNil(t, msg.View)
	assert.Equal(t, uint64(1), msg.View.Token)
	assert.Equal(t, "April 2025", msg.View.Title)
	assert.Len(t, msg.View.Events, 2)
}

func TestSessionCommands(t *testing.T) {
	h := newHarness(t)
	h.read(t)
	h.read(t)

	h.send(t, Command{Type: CmdNavigate, View: "day", Date: "2025-04-10"})
	msg := h.read(t)
	require.Equal(t, MsgView, msg.Type)
	assert.Equal(t, schedule.ModeDay, msg.View.Mode)
	assert.Len(t, msg.View.Events, 1)
	assert.Len(t, msg.View.Columns, schedule.MaxRoom)

	h.send(t, Command{Type: CmdNext})
	msg = h.read(t)
	assert.Equal(t, "April 11, 2025", msg.View.Title)
	assert.Empty(t, msg.View.Events)

	h.send(t, Command{Type: CmdNavigate, View: "month"})
	msg = h.read(t)
	assert.Equal(t, "April 2025", msg.View.Title)

	h.send(t, Command{Type: CmdToggle, Role: "patient", ID: "p1"})
	msg = h.read(t)
	require.Len(t, msg.View.Events, 1)
	assert.Equal(t, "a1", msg.View.Events[0].ID)
	assert.True(t, msg.View.Filter.PatientIDs.Has("p1"))

	h.send(t, Command{Type: CmdClear})
	msg = h.read(t)
	assert.Len(t, msg.View.Events, 2)
	assert.True(t, msg.View.Filter.IsEmpty())
}

func TestSessionBurstAppliesCommandsInArrivalOrder(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, MsgHello, h.read(t).Type)

	burst := []Command{
		{Type: CmdNavigate, View: "day", Date: "2025-04-10"},
		{Type: CmdNext},
		{Type: CmdNext},
		{Type: CmdToggle, Role: "patient", ID: "p1"},
		{Type: CmdToggle, Role: "doctor", ID: "d1"},
	}
	for _, cmd := range burst {
		h.send(t, cmd)
	}

	// The initial refresh holds token 1, so the burst ends on token 6.
	want := uint64(1 + len(burst))
	var last *Message
	for last == nil || last.View.Token < want {
		msg := h.read(t)
		require.Equal(t, MsgView, msg.Type, msg.Error)
		if last != nil {
			assert.Greater(t, msg.View.Token, last.View.Token)
		}
		last = &msg
	}

	assert.Equal(t, want, last.View.Token)
	assert.Equal(t, schedule.ModeDay, last.View.Mode)
	assert.Equal(t, "April 12, 2025", last.View.Title)
	assert.True(t, last.View.Filter.PatientIDs.Has("p1"))
	assert.True(t, last.View.Filter.DoctorIDs.Has("d1"))
}

func TestSessionRejectsBadCommands(t *testing.T) {
	h := newHarness(t)
	h.read(t)
	h.read(t)

	h.send(t, Command{Type: "teleport"})
	msg := h.read(t)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "unknown command")

	h.send(t, Command{Type: CmdNavigate, View: "week"})
	msg = h.read(t)
	assert.Equal(t, MsgError, msg.Type)

	require.NoError(t, h.conn.Write(h.ctx, ws.MessageText, []byte("{not json")))
	msg = h.read(t)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "invalid JSON")
}

func TestHubNotifyChangedRefreshesSessions(t *testing.T) {
	h := newHarness(t)
	h.read(t)
	first := h.read(t)
	require.Len(t, first.View.Events, 2)

	h.src.add(schedule.Appointment{ID: "a3", RoomNumber: 5, DateTime: "2025-04-20 11:00", PatientID: "p1", DoctorID: "d1"})
	h.hub.NotifyChanged()

	msg := h.read(t)
	require.Equal(t, MsgView, msg.Type)
	assert.Greater(t, msg.View.Token, first.View.Token)
	assert.Len(t, msg.View.Events, 3)
}

func TestHubUnregistersClosedSessions(t *testing.T) {
	h := newHarness(t)
	h.read(t)
	require.Equal(t, 1, h.hub.SessionCount())

	require.NoError(t, h.conn.Close(ws.StatusNormalClosure, "bye"))
	assert.Eventually(t, func() bool { return h.hub.SessionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

package live

import (
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/viewmodel"
)

// Inbound command types.
const (
	CmdNavigate = "navigate"
	CmdNext     = "next"
	CmdPrev     = "prev"
	CmdToday    = "today"
	CmdFilter   = "filter"
	CmdToggle   = "toggle"
	CmdClear    = "clear"
	CmdRefresh  = "refresh"
)

// Outbound message types.
const (
	MsgHello = "hello"
	MsgView  = "view"
	MsgError = "error"
)

// Command is one message from the browser.
//
//	{"type":"navigate","view":"day","date":"2025-04-10"}
//	{"type":"filter","filter":{"patient_ids":["p1"],"doctor_ids":[]}}
//	{"type":"toggle","role":"patient","id":"p1"}
type Command struct {
	Type   string                `json:"type"`
	View   string                `json:"view,omitempty"`
	Date   string                `json:"date,omitempty"`
	Filter *schedule.FilterState `json:"filter,omitempty"`
	Role   string                `json:"role,omitempty"`
	ID     string                `json:"id,omitempty"`
}

type Message struct {
	Type    string          `json:"type"`
	Session string          `json:"session,omitempty"`
	View    *viewmodel.View `json:"view,omitempty"`
	Error   string          `json:"error,omitempty"`
}

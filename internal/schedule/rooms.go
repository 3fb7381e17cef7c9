package schedule

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MinRoom = 1
	MaxRoom = 7
)

// Room is one schedulable location and one day-view column.
type Room struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
}

var rooms = func() []Room {
	out := make([]Room, 0, MaxRoom-MinRoom+1)
	for n := MinRoom; n <= MaxRoom; n++ {
		out = append(out, Room{ID: strconv.Itoa(n), Number: n, Title: RoomTitle(n)})
	}
	return out
}()

// Rooms returns the fixed room sequence in display order.
func Rooms() []Room {
	out := make([]Room, len(rooms))
	copy(out, rooms)
	return out
}

func RoomTitle(n int) string {
	return fmt.Sprintf("Room %d", n)
}

func IsValidRoom(id string) bool {
	for _, r := range rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}

// NormalizeRoomNumber parses a room identifier into an integer. It does not
// check the range; see CheckRoomRange.
func NormalizeRoomNumber(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		if uint64(n) > math.MaxInt {
			return 0, formatErr("room", strconv.FormatUint(uint64(n), 10), "out of integer range")
		}
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, formatErr("room", strconv.FormatUint(n, 10), "out of integer range")
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, formatErr("room", strconv.FormatFloat(n, 'f', -1, 64), "not an integer")
		}
		if n >= math.MaxInt || n < math.MinInt {
			return 0, formatErr("room", strconv.FormatFloat(n, 'f', -1, 64), "out of integer range")
		}
		return int(n), nil
	case json.Number:
		return parseRoomString(n.String())
	case string:
		return parseRoomString(n)
	default:
		return 0, formatErr("room", fmt.Sprint(v), "unsupported room type")
	}
}

func parseRoomString(s string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 0)
	if err != nil {
		return 0, formatErr("room", s, "not a base-10 integer")
	}
	return int(n), nil
}

// CheckRoomRange is the optional range validation layered on top of
// NormalizeRoomNumber.
func CheckRoomRange(n int) error {
	if n < MinRoom || n > MaxRoom {
		return formatErr("room", strconv.Itoa(n), fmt.Sprintf("must be between %d and %d", MinRoom, MaxRoom))
	}
	return nil
}

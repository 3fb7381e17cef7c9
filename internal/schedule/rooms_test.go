package schedule

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRooms(t *testing.T) {
	got := Rooms()
	require.Len(t, got, 7)
	for i, r := range got {
		n := i + 1
		assert.Equal(t, n, r.Number)
		assert.Equal(t, RoomTitle(n), r.Title)
		assert.True(t, IsValidRoom(r.ID))
	}
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "Room 7", got[6].Title)

	got[0].Title = "Broom closet"
	assert.Equal(t, "Room 1", Rooms()[0].Title)
}

func TestIsValidRoom(t *testing.T) {
	for _, id := range []string{"0", "8", "", " 1", "01", "one"} {
		assert.False(t, IsValidRoom(id), id)
	}
}

func TestNormalizeRoomNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"string", "5", 5},
		{"padded string", " 5 ", 5},
		{"leading zero", "08", 8},
		{"int", 3, 3},
		{"int64", int64(6), 6},
		{"float from json", float64(2), 2},
		{"json number", json.Number("4"), 4},
		{"out of range is still parsed", "9", 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRoomNumber(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRoomNumber_Invalid(t *testing.T) {
	for _, in := range []any{"abc", "", "3.5", 2.5, true, nil, uint64(math.MaxUint64), uint64(math.MaxInt64) + 1, 1e19, "99999999999999999999"} {
		_, err := NormalizeRoomNumber(in)
		require.Error(t, err, "%v", in)
		assert.ErrorIs(t, err, ErrInvalidFormat)
	}
}

func TestCheckRoomRange(t *testing.T) {
	assert.NoError(t, CheckRoomRange(1))
	assert.NoError(t, CheckRoomRange(7))
	assert.ErrorIs(t, CheckRoomRange(0), ErrInvalidFormat)
	assert.ErrorIs(t, CheckRoomRange(8), ErrInvalidFormat)
}

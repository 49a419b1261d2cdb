package stays_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/stays"
)

func night(id, room, email, date string, status stays.Status, diners int) stays.Night {
	return stays.Night{
		ID:          id,
		RoomID:      "room-" + room,
		RoomNumber:  room,
		HotelID:     "h1",
		UserEmail:   email,
		NumOfDiners: diners,
		DateKey:     date,
		Status:      status,
	}
}

func TestGroup_StrictContiguity(t *testing.T) {
	rows := []stays.Night{
		night("a", "101", "g@x.io", "2025-01-01", stays.StatusConfirmed, 2),
		night("b", "101", "g@x.io", "2025-01-02", stays.StatusConfirmed, 2),
		night("c", "101", "g@x.io", "2025-01-04", stays.StatusConfirmed, 2),
	}
	got := stays.Group(rows)
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].StayID)
	assert.Equal(t, 2, got[0].Nights)
	assert.Equal(t, "2025-01-01", got[0].StartDateKey)
	assert.Equal(t, "2025-01-02", got[0].LastNightKey)
	assert.Equal(t, "2025-01-03", got[0].EndDateKey)
	assert.Equal(t, []string{"a", "b"}, got[0].ReservationIDs)

	assert.Equal(t, 1, got[1].Nights)
	assert.Equal(t, "2025-01-04", got[1].StartDateKey)
	assert.Equal(t, "2025-01-05", got[1].EndDateKey)
}

func TestGroup_CrossesMonthAndYear(t *testing.T) {
	rows := []stays.Night{
		night("b", "7", "g@x.io", "2025-01-01", stays.StatusPending, 1),
		night("a", "7", "g@x.io", "2024-12-31", stays.StatusPending, 1),
	}
	got := stays.Group(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].StayID, "first night after sorting")
	assert.Equal(t, "2025-01-02", got[0].EndDateKey)
}

func TestGroup_BucketsAndDedupes(t *testing.T) {
	rows := []stays.Night{
		night("a", "101", "G@X.io ", "2025-02-01", stays.StatusConfirmed, 1),
		night("dup", "101", "g@x.io", "2025-02-01", stays.StatusCancelled, 9),
		night("b", "101", "g@x.io", "2025-02-02", stays.StatusConfirmed, 3),
		night("other-guest", "101", "h@x.io", "2025-02-03", stays.StatusConfirmed, 1),
		night("other-room", "102", "g@x.io", "2025-02-03", stays.StatusConfirmed, 1),
		night("bad", "101", "g@x.io", "02/04/2025", stays.StatusConfirmed, 1),
	}
	got := stays.Group(rows)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"a", "b"}, got[0].ReservationIDs, "first seen wins per date")
	assert.Equal(t, 3, got[0].Guests, "guests is the max, not the sum")
	assert.Equal(t, "other-guest", got[1].StayID)
	assert.Equal(t, "other-room", got[2].StayID)
}

func TestGroup_SortsByRoomNumberThenStart(t *testing.T) {
	rows := []stays.Night{
		night("r10", "10", "a@x.io", "2025-01-01", stays.StatusConfirmed, 1),
		night("r2-late", "2", "a@x.io", "2025-01-09", stays.StatusConfirmed, 1),
		night("r2-early", "2", "b@x.io", "2025-01-03", stays.StatusConfirmed, 1),
		night("suite", "PH", "c@x.io", "2025-01-01", stays.StatusConfirmed, 1),
	}
	var ids []string
	for _, b := range stays.Group(rows) {
		ids = append(ids, b.StayID)
	}
	assert.Equal(t, []string{"r2-early", "r2-late", "r10", "suite"}, ids)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, stays.Group(nil))
}

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		in   []stays.Status
		want stays.Status
	}{
		{[]stays.Status{stays.StatusConfirmed, stays.StatusPending}, stays.StatusConfirmed},
		{[]stays.Status{stays.StatusCancelled, stays.StatusCancelled}, stays.StatusCancelled},
		{[]stays.Status{stays.StatusCompleted, stays.StatusCompleted}, stays.StatusCompleted},
		{[]stays.Status{stays.StatusCancelled, stays.StatusPending}, stays.StatusPending},
		{[]stays.Status{stays.StatusCancelled, stays.StatusCompleted}, stays.StatusCompleted},
		{[]stays.Status{"confirmed"}, stays.StatusConfirmed},
		{nil, stays.StatusCompleted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stays.AggregateStatus(tt.in), "%v", tt.in)
	}
}

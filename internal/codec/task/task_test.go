package task_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/codec/task"
)

func TestDecode_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"plain text", "Clean room 204"},
		{"prefix but not json", "TASK|not json"},
		{"json array", "TASK|[1,2,3]"},
		{"json string", `TASK|"hello"`},
		{"json null", "TASK|null"},
		{"trailing junk", `TASK|{"title":"x"} extra`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, task.Record{Version: 1, Title: tt.msg}, task.Decode(tt.msg))
		})
	}
}

func TestDecode_TruncatesTitle(t *testing.T) {
	long := strings.Repeat("é", 200)
	r := task.Decode(long)
	assert.Equal(t, task.MaxTitleLength, len([]rune(r.Title)))

	r = task.Decode(`TASK|{"title":"` + long + `"}`)
	assert.Equal(t, task.MaxTitleLength, len([]rune(r.Title)))
}

func TestDecode_FieldValidation(t *testing.T) {
	msg := `TASK|{"v":1,"title":"  Fix AC  ","kind":"teleport","roomId":12,"roomNumber":"204",` +
		`"dueAt":"2025-07-01T09:00:00Z","notes":[` +
		`{"at":"2025-06-30T10:00:00Z","by":"mia","text":"ordered part"},` +
		`{"at":"garbage","text":"dropped"},` +
		`{"at":"2025-06-30T11:00:00Z","text":"   "},` +
		`"not an object"]}`

	r := task.Decode(msg)
	assert.Equal(t, "Fix AC", r.Title)
	assert.Equal(t, task.Kind(""), r.Kind, "unknown kinds are dropped")
	assert.Equal(t, "", r.RoomID, "wrong-typed fields are dropped")
	assert.Equal(t, "204", r.RoomNumber)
	require.NotNil(t, r.DueAt)
	require.Len(t, r.Notes, 1)
	assert.Equal(t, "ordered part", r.Notes[0].Text)
	assert.Equal(t, "mia", r.Notes[0].By)
}

func TestDecode_MissingTitle(t *testing.T) {
	assert.Equal(t, "Untitled task", task.Decode(`TASK|{"kind":"MAINTENANCE"}`).Title)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	due := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	in := task.Record{
		Version:       1,
		Title:         "Replace towels",
		Description:   "Guest asked twice",
		Kind:          task.KindHousekeeping,
		HotelID:       "h1",
		RoomID:        "r1",
		RoomNumber:    "101",
		ReservationID: "res-9",
		DueAt:         &due,
		CreatedBy:     "desk@hotel.example",
		Notes:         []task.Note{{At: due.Add(-time.Hour), By: "desk", Text: "on it"}},
	}
	msg := task.Encode(in)
	require.True(t, task.IsTask(msg))
	assert.Equal(t, in, task.Decode(msg))

	// stable on re-encode
	assert.Equal(t, msg, task.Encode(task.Decode(msg)))
}

func TestEncode_DropsInvalidKind(t *testing.T) {
	msg := task.Encode(task.Record{Title: "x", Kind: "nope"})
	assert.Equal(t, `TASK|{"v":1,"title":"x"}`, msg)
}

func TestAppendNote_UpgradesPlainText(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	out := task.AppendNote("Call guest in 305", task.Note{At: at, Text: "no answer"})
	require.True(t, task.IsTask(out))

	r := task.Decode(out)
	assert.Equal(t, "Call guest in 305", r.Title)
	require.Len(t, r.Notes, 1)
	assert.Equal(t, "no answer", r.Notes[0].Text)
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, task.KindMaintenance, task.ParseKind(" maintenance "))
	assert.Equal(t, task.Kind(""), task.ParseKind("urgent"))
}

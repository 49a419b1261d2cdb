// Package task stores staff tasks in notification messages as
//
//	TASK|{"v":1,"title":"...",...}
//
// Messages written before tasks existed are plain text; Decode turns them
// into a title-only task so every historical message stays displayable.
package task

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"frontdesk/internal/codec/tags"
)

const (
	Prefix         = "TASK|"
	Version        = 1
	MaxTitleLength = 140
)

type Kind string

const (
	KindGeneral      Kind = "GENERAL"
	KindHousekeeping Kind = "HOUSEKEEPING"
	KindMaintenance  Kind = "MAINTENANCE"
	KindGuestRequest Kind = "GUEST_REQUEST"
	KindFrontDesk    Kind = "FRONT_DESK"
)

// ParseKind returns "" for anything outside the enumeration.
func ParseKind(s string) Kind {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(s))); k {
	case KindGeneral, KindHousekeeping, KindMaintenance, KindGuestRequest, KindFrontDesk:
		return k
	}
	return ""
}

type Note struct {
	At   time.Time `json:"at"`
	By   string    `json:"by,omitempty"`
	Text string    `json:"text"`
}

type Record struct {
	Version       int        `json:"v"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Kind          Kind       `json:"kind,omitempty"`
	HotelID       string     `json:"hotelId,omitempty"`
	RoomID        string     `json:"roomId,omitempty"`
	RoomNumber    string     `json:"roomNumber,omitempty"`
	ReservationID string     `json:"reservationId,omitempty"`
	DueAt         *time.Time `json:"dueAt,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"`
	Notes         []Note     `json:"notes,omitempty"`
}

// wire is the exact JSON written after the prefix.
type wireNote struct {
	At   string `json:"at"`
	By   string `json:"by,omitempty"`
	Text string `json:"text"`
}

type wire struct {
	V             int        `json:"v"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Kind          string     `json:"kind,omitempty"`
	HotelID       string     `json:"hotelId,omitempty"`
	RoomID        string     `json:"roomId,omitempty"`
	RoomNumber    string     `json:"roomNumber,omitempty"`
	ReservationID string     `json:"reservationId,omitempty"`
	DueAt         string     `json:"dueAt,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"`
	Notes         []wireNote `json:"notes,omitempty"`
}

// Encode writes the prefix and a single JSON object.
func Encode(r Record) string {
	w := wire{
		V:             Version,
		Title:         truncate(strings.TrimSpace(r.Title)),
		Description:   strings.TrimSpace(r.Description),
		Kind:          string(ParseKind(string(r.Kind))),
		HotelID:       r.HotelID,
		RoomID:        r.RoomID,
		RoomNumber:    r.RoomNumber,
		ReservationID: r.ReservationID,
		CreatedBy:     r.CreatedBy,
	}
	if r.DueAt != nil {
		w.DueAt = tags.FormatTime(*r.DueAt)
	}
	for _, n := range r.Notes {
		text := strings.TrimSpace(n.Text)
		if text == "" || n.At.IsZero() {
			continue
		}
		w.Notes = append(w.Notes, wireNote{At: tags.FormatTime(n.At), By: n.By, Text: text})
	}
	// wire holds only strings, ints and slices of the same
	raw, _ := json.Marshal(w)
	return Prefix + string(raw)
}

// Decode is total: any string yields a usable record.
func Decode(msg string) Record {
	fallback := Record{Version: Version, Title: truncate(msg)}
	if !strings.HasPrefix(msg, Prefix) {
		return fallback
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(msg[len(Prefix):]), &doc); err != nil || doc == nil {
		return fallback
	}

	r := Record{Version: Version}
	if v := tags.Float(doc, "v"); v != nil && *v >= 1 {
		r.Version = int(*v)
	}
	r.Title = truncate(strings.TrimSpace(str(doc, "title")))
	if r.Title == "" {
		r.Title = "Untitled task"
	}
	r.Description = str(doc, "description")
	r.Kind = ParseKind(str(doc, "kind"))
	r.HotelID = str(doc, "hotelId")
	r.RoomID = str(doc, "roomId")
	r.RoomNumber = str(doc, "roomNumber")
	r.ReservationID = str(doc, "reservationId")
	r.CreatedBy = str(doc, "createdBy")
	r.DueAt = tags.ParseTime(str(doc, "dueAt"))

	if raw, ok := doc["notes"].([]any); ok {
		for _, item := range raw {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			text := strings.TrimSpace(str(obj, "text"))
			at := tags.ParseTime(str(obj, "at"))
			if text == "" || at == nil {
				continue
			}
			r.Notes = append(r.Notes, Note{At: *at, By: str(obj, "by"), Text: text})
		}
	}
	return r
}

// IsTask reports whether msg is in the structured form.
func IsTask(msg string) bool { return strings.HasPrefix(msg, Prefix) }

// AppendNote adds a note and re-encodes. Plain-text messages come out in
// the structured form with their old text as the title.
func AppendNote(msg string, n Note) string {
	r := Decode(msg)
	r.Notes = append(r.Notes, n)
	return Encode(r)
}

func str(m map[string]any, key string) string {
	if s := tags.String(m, key); s != nil {
		return *s
	}
	return ""
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxTitleLength {
		return s
	}
	return string([]rune(s)[:MaxTitleLength])
}

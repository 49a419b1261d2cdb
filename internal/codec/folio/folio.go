// Package folio marks orders that represent a posted room night.
//
//	FD:ROOM_CHARGE|reservationId=r1|date=2025-01-02|rate=120|currency=EUR|hotelId=h1|roomNumber=101
//
// The marker exists for machine matching: charge posting checks it before
// creating a second order for the same night, and revenue reports use it to
// split room income from menu income.
package folio

import (
	"strings"

	"frontdesk/internal/codec/tags"
)

const Prefix = "FD:ROOM_CHARGE"

const (
	KeyReservationID = "reservationId"
	KeyDate          = "date"
	KeyRate          = "rate"
	KeyCurrency      = "currency"
	KeyHotelID       = "hotelId"
	KeyRoomNumber    = "roomNumber"
)

type Stream string

const (
	StreamRoom Stream = "ROOM"
	StreamMenu Stream = "MENU"
)

type RoomCharge struct {
	ReservationID string  `json:"reservationId"`
	DateKey       string  `json:"date"`
	Rate          float64 `json:"rate"`
	Currency      string  `json:"currency"`
	HotelID       string  `json:"hotelId"`
	RoomNumber    string  `json:"roomNumber"`
}

// BuildNote renders the marker. Empty values are still written so the key
// set is fixed.
func BuildNote(c RoomCharge) string {
	parts := []string{
		Prefix,
		KeyReservationID + "=" + tags.EncodeText(c.ReservationID),
		KeyDate + "=" + tags.EncodeText(c.DateKey),
		KeyRate + "=" + tags.FormatMoney(c.Rate),
		KeyCurrency + "=" + tags.EncodeText(strings.ToUpper(c.Currency)),
		KeyHotelID + "=" + tags.EncodeText(c.HotelID),
		KeyRoomNumber + "=" + tags.EncodeText(c.RoomNumber),
	}
	return strings.Join(parts, "|")
}

// ParseNote returns nil unless note is a marker: the exact prefix, alone or
// followed by "|". A longer word such as "FD:ROOM_CHARGEX" is not a marker.
// Segments without "=" are skipped; missing keys are simply absent.
func ParseNote(note string) map[string]string {
	if !isMarker(note) {
		return nil
	}
	out := map[string]string{}
	for _, seg := range strings.Split(note[len(Prefix):], "|") {
		k, v, ok := strings.Cut(seg, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = tags.DecodeText(v)
	}
	return out
}

// ChargeFromNote is the typed view of ParseNote. A missing or negative rate
// reads as 0.
func ChargeFromNote(note string) (RoomCharge, bool) {
	m := ParseNote(note)
	if m == nil {
		return RoomCharge{}, false
	}
	return RoomCharge{
		ReservationID: m[KeyReservationID],
		DateKey:       m[KeyDate],
		Rate:          tags.RoundMoney(tags.NumberOr(m[KeyRate], 0)),
		Currency:      m[KeyCurrency],
		HotelID:       m[KeyHotelID],
		RoomNumber:    m[KeyRoomNumber],
	}, true
}

// HasCharge reports whether any note already marks reservationID for
// dateKey. Rate and currency are not part of the key. The date is matched
// as well as the reservation, so a reservation spanning several nights can
// carry one charge per night; with one reservation row per night this is
// the same as matching on reservationId alone.
func HasCharge(notes []string, reservationID, dateKey string) bool {
	for _, n := range notes {
		m := ParseNote(n)
		if m == nil {
			continue
		}
		if m[KeyReservationID] == reservationID && m[KeyDate] == dateKey {
			return true
		}
	}
	return false
}

func Classify(note string) Stream {
	if isMarker(note) {
		return StreamRoom
	}
	return StreamMenu
}

// isMarker accepts the bare prefix or the prefix followed by a segment, so
// "FD:ROOM_CHARGES" is not mistaken for a marker.
func isMarker(note string) bool {
	if !strings.HasPrefix(note, Prefix) {
		return false
	}
	rest := note[len(Prefix):]
	return rest == "" || rest[0] == '|'
}

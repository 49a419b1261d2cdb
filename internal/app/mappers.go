package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	"frontdesk/internal/codec/housekeeping"
	"frontdesk/internal/codec/roomrate"
	"frontdesk/internal/codec/settings"
	"frontdesk/internal/codec/task"
	"frontdesk/internal/codec/tracking"
	"frontdesk/internal/domain"
	"frontdesk/internal/stays"
)

const dateLayout = stays.DateLayout

/********** read models **********/

type RoomView struct {
	ID                  string              `json:"id"`
	HotelID             string              `json:"hotelId"`
	Number              string              `json:"number"`
	Housekeeping        housekeeping.Record `json:"housekeeping"`
	DaysSinceCleaned    *int                `json:"daysSinceCleaned"`
	OverrideNightlyRate *float64            `json:"overrideNightlyRate"`
	EffectiveRate       float64             `json:"effectiveRate"`
	Currency            string              `json:"currency"`
	Notes               []string            `json:"notes"`
}

type TaskView struct {
	ID        string      `json:"id"`
	HotelID   string      `json:"hotelId"`
	CreatedAt time.Time   `json:"createdAt"`
	Task      task.Record `json:"task"`
	// Structured is false for plain-text notifications shown as tasks.
	Structured bool `json:"structured"`
}

type Registration struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Summary   string         `json:"summary"`
	Event     tracking.Event `json:"event"`
}

/********** mappers **********/

// mapRoom decodes both tag namespaces of a room. Notes are what is left
// after HK: and RATE: tokens are taken out.
func mapRoom(r domain.Room, s settings.Settings, now time.Time) RoomView {
	hk := housekeeping.Parse(r.Tags)
	rate := roomrate.Parse(hk.Notes)
	notes := rate.Notes
	if notes == nil {
		notes = []string{}
	}
	return RoomView{
		ID:                  r.ID,
		HotelID:             r.HotelID,
		Number:              r.Number,
		Housekeeping:        hk.Record,
		DaysSinceCleaned:    housekeeping.DaysSince(hk.Record.LastCleanedAt, now),
		OverrideNightlyRate: rate.Rate.OverrideNightlyRate,
		EffectiveRate:       roomrate.EffectiveRate(s.BaseNightlyRate, rate.Rate.OverrideNightlyRate),
		Currency:            s.Currency,
		Notes:               notes,
	}
}

func mapNight(r domain.Reservation) stays.Night {
	return stays.Night{
		ID:          r.ID,
		RoomID:      r.RoomID,
		RoomNumber:  r.RoomNumber,
		HotelID:     r.HotelID,
		UserEmail:   r.UserEmail,
		GuestName:   r.GuestName,
		GuestPhone:  r.GuestPhone,
		NumOfDiners: r.NumOfDiners,
		DateKey:     r.Date.UTC().Format(dateLayout),
		Status:      stays.Status(strings.ToUpper(r.Status)),
	}
}

func mapTask(n domain.Notification) TaskView {
	return TaskView{
		ID:         n.ID,
		HotelID:    n.HotelID,
		CreatedAt:  n.CreatedAt,
		Task:       task.Decode(n.Message),
		Structured: task.IsTask(n.Message),
	}
}

func mapRegistration(a domain.AuditLog) Registration {
	d := tracking.Decode(a.Message)
	return Registration{
		ID:        a.ID,
		CreatedAt: a.CreatedAt,
		Summary:   d.Summary,
		Event:     tracking.EventFromTags(d.Tags),
	}
}

/********** tiny helpers **********/

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}

// ParseDateKey reads a YYYY-MM-DD query value as a UTC midnight.
func ParseDateKey(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalidf("date %q must be YYYY-MM-DD", s)
	}
	return d, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

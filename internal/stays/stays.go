// Package stays folds one-row-per-night reservations into stay blocks for
// the room board. Blocks are a read model; nothing here is persisted.
package stays

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Night is one reservation row.
type Night struct {
	ID          string `json:"id"`
	RoomID      string `json:"roomId"`
	RoomNumber  string `json:"roomNumber"`
	HotelID     string `json:"hotelId"`
	UserEmail   string `json:"userEmail"`
	GuestName   string `json:"guestName,omitempty"`
	GuestPhone  string `json:"guestPhone,omitempty"`
	NumOfDiners int    `json:"numOfDiners"`
	DateKey     string `json:"date"`
	Status      Status `json:"status"`
}

type Block struct {
	StayID         string   `json:"stayId"`
	RoomID         string   `json:"roomId"`
	RoomNumber     string   `json:"roomNumber"`
	HotelID        string   `json:"hotelId"`
	UserEmail      string   `json:"userEmail"`
	GuestName      string   `json:"guestName,omitempty"`
	GuestPhone     string   `json:"guestPhone,omitempty"`
	Guests         int      `json:"guests"`
	Nights         int      `json:"nights"`
	StartDateKey   string   `json:"startDate"`
	LastNightKey   string   `json:"lastNight"`
	EndDateKey     string   `json:"endDate"`
	Status         Status   `json:"status"`
	Reservations   []Night  `json:"reservations"`
	ReservationIDs []string `json:"reservationIds"`
}

type bucketKey struct {
	room  string
	email string
}

type dated struct {
	night Night
	day   time.Time
}

// Group buckets rows by room and guest, keeps the first row seen per date,
// then cuts each bucket into runs of consecutive days. Rows whose date does
// not parse are dropped.
func Group(rows []Night) []Block {
	buckets := map[bucketKey][]dated{}
	seen := map[bucketKey]map[string]bool{}
	var order []bucketKey

	for _, r := range rows {
		day, err := time.Parse(DateLayout, strings.TrimSpace(r.DateKey))
		if err != nil {
			continue
		}
		r.DateKey = day.Format(DateLayout)
		k := bucketKey{room: r.RoomID, email: strings.ToLower(strings.TrimSpace(r.UserEmail))}
		if seen[k] == nil {
			seen[k] = map[string]bool{}
			order = append(order, k)
		}
		if seen[k][r.DateKey] {
			continue
		}
		seen[k][r.DateKey] = true
		buckets[k] = append(buckets[k], dated{night: r, day: day})
	}

	var out []Block
	for _, k := range order {
		ns := buckets[k]
		sort.SliceStable(ns, func(i, j int) bool { return ns[i].night.DateKey < ns[j].night.DateKey })

		start := 0
		for i := 1; i <= len(ns); i++ {
			if i < len(ns) && ns[i].day.Equal(ns[i-1].day.AddDate(0, 0, 1)) {
				continue
			}
			out = append(out, build(ns[start:i]))
			start = i
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := compareRoomNumbers(out[i].RoomNumber, out[j].RoomNumber); c != 0 {
			return c < 0
		}
		return out[i].StartDateKey < out[j].StartDateKey
	})
	return out
}

func build(run []dated) Block {
	first, last := run[0], run[len(run)-1]
	b := Block{
		StayID:       first.night.ID,
		RoomID:       first.night.RoomID,
		RoomNumber:   first.night.RoomNumber,
		HotelID:      first.night.HotelID,
		UserEmail:    first.night.UserEmail,
		Nights:       len(run),
		StartDateKey: first.night.DateKey,
		LastNightKey: last.night.DateKey,
		EndDateKey:   last.day.AddDate(0, 0, 1).Format(DateLayout),
	}
	statuses := make([]Status, 0, len(run))
	for _, d := range run {
		n := d.night
		if n.NumOfDiners > b.Guests {
			b.Guests = n.NumOfDiners
		}
		if b.GuestName == "" {
			b.GuestName = n.GuestName
		}
		if b.GuestPhone == "" {
			b.GuestPhone = n.GuestPhone
		}
		statuses = append(statuses, n.Status)
		b.Reservations = append(b.Reservations, n)
		b.ReservationIDs = append(b.ReservationIDs, n.ID)
	}
	b.Status = AggregateStatus(statuses)
	return b
}

// AggregateStatus: CANCELLED only when every night is cancelled, then any
// CONFIRMED, then any PENDING, else COMPLETED. An empty list is COMPLETED.
func AggregateStatus(statuses []Status) Status {
	allCancelled := len(statuses) > 0
	var confirmed, pending bool
	for _, s := range statuses {
		switch Status(strings.ToUpper(string(s))) {
		case StatusCancelled:
			continue
		case StatusConfirmed:
			confirmed = true
		case StatusPending:
			pending = true
		}
		allCancelled = false
	}
	switch {
	case allCancelled:
		return StatusCancelled
	case confirmed:
		return StatusConfirmed
	case pending:
		return StatusPending
	}
	return StatusCompleted
}

// compareRoomNumbers orders "2" before "10"; non-numeric numbers fall back
// to string order after the numeric ones.
func compareRoomNumbers(a, b string) int {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	switch {
	case errA == nil && errB == nil:
		return na - nb
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

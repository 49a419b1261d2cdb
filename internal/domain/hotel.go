package domain

import "time"

type Hotel struct {
	ID   string
	Name string
	// Description holds the human description plus the settings block.
	Description string
}

type Room struct {
	ID      string
	HotelID string
	Number  string
	// Tags is the room's free-text array; housekeeping and rate state live here.
	Tags []string
}

// Reservation is one booked night of one room.
type Reservation struct {
	ID          string
	HotelID     string
	RoomID      string
	RoomNumber  string
	UserEmail   string
	GuestName   string
	GuestPhone  string
	NumOfDiners int
	Date        time.Time
	Status      string
}

const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// Order is a folio line. Room nights carry a charge marker in Note.
type Order struct {
	ID            string
	HotelID       string
	ReservationID string
	Total         float64
	Paid          bool
	Note          string
	CreatedAt     time.Time
}

type AuditLog struct {
	ID        string
	Subject   string // customer email for registration events
	Message   string
	CreatedAt time.Time
}

// Notification doubles as the task store.
type Notification struct {
	ID        string
	HotelID   string
	Message   string
	CreatedAt time.Time
}

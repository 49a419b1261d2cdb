package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
	UpdateHotelDescription(ctx context.Context, id, description string) error
}

type RoomRepository interface {
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context, hotelID string) ([]Room, error)
	UpdateRoomTags(ctx context.Context, id string, tags []string) error
}

type ReservationRepository interface {
	GetReservation(ctx context.Context, id string) (Reservation, error)
	// ListReservations returns nights with from <= date < to.
	ListReservations(ctx context.Context, hotelID string, from, to time.Time) ([]Reservation, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o Order) error
	ListOrdersByReservation(ctx context.Context, reservationID string) ([]Order, error)
	// ListOrders returns orders created with from <= created_at < to.
	ListOrders(ctx context.Context, hotelID string, from, to time.Time) ([]Order, error)
}

type AuditLogRepository interface {
	AppendAuditLog(ctx context.Context, a AuditLog) error
	ListAuditLogs(ctx context.Context, subject string) ([]AuditLog, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n Notification) error
	GetNotification(ctx context.Context, id string) (Notification, error)
	UpdateNotificationMessage(ctx context.Context, id, message string) error
	ListNotifications(ctx context.Context, hotelID string) ([]Notification, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

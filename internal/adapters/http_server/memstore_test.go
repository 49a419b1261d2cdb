package httpserver_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"frontdesk/internal/domain"
)

// memStore implements every repository port in memory.
type memStore struct {
	mu            sync.Mutex
	hotels        map[string]domain.Hotel
	rooms         map[string]domain.Room
	reservations  []domain.Reservation
	orders        []domain.Order
	audit         []domain.AuditLog
	notifications []domain.Notification
}

func newMemStore() *memStore {
	return &memStore{hotels: map[string]domain.Hotel{}, rooms: map[string]domain.Room{}}
}

func (m *memStore) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (m *memStore) ListHotels(context.Context) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Hotel
	for _, h := range m.hotels {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateHotelDescription(_ context.Context, id, d string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hotels[id]
	if !ok {
		return domain.ErrNotFound
	}
	h.Description = d
	m.hotels[id] = h
	return nil
}

func (m *memStore) GetRoom(_ context.Context, id string) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	r.Tags = append([]string(nil), r.Tags...)
	return r, nil
}

func (m *memStore) ListRooms(_ context.Context, hotelID string) ([]domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Room
	for _, r := range m.rooms {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memStore) UpdateRoomTags(_ context.Context, id string, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Tags = tags
	m.rooms[id] = r
	return nil
}

func (m *memStore) GetReservation(_ context.Context, id string) (domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Reservation{}, domain.ErrNotFound
}

func (m *memStore) ListReservations(_ context.Context, hotelID string, from, to time.Time) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, r := range m.reservations {
		if r.HotelID == hotelID && !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) CreateOrder(_ context.Context, o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return nil
}

func (m *memStore) ListOrdersByReservation(_ context.Context, id string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.ReservationID == id {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) ListOrders(_ context.Context, hotelID string, from, to time.Time) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if o.HotelID == hotelID && !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) AppendAuditLog(_ context.Context, a domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, a)
	return nil
}

func (m *memStore) ListAuditLogs(_ context.Context, subject string) ([]domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuditLog
	for _, a := range m.audit {
		if a.Subject == subject {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) CreateNotification(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *memStore) GetNotification(_ context.Context, id string) (domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.Notification{}, domain.ErrNotFound
}

func (m *memStore) UpdateNotificationMessage(_ context.Context, id, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Message = msg
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) ListNotifications(_ context.Context, hotelID string) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.notifications {
		if n.HotelID == hotelID {
			out = append(out, n)
		}
	}
	return out, nil
}

package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"frontdesk/internal/domain"
)

// ---- fakes ----

// fakeStore implements every repository port in memory.
type fakeStore struct {
	hotels        map[string]domain.Hotel
	rooms         map[string]domain.Room
	reservations  []domain.Reservation
	orders        []domain.Order
	audit         []domain.AuditLog
	notifications []domain.Notification

	failCreateOrder bool
	roomWrites      int
}

func newStore() *fakeStore {
	return &fakeStore{hotels: map[string]domain.Hotel{}, rooms: map[string]domain.Room{}}
}

func (f *fakeStore) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}
func (f *fakeStore) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	for _, h := range f.hotels {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (f *fakeStore) UpdateHotelDescription(ctx context.Context, id, d string) error {
	h, ok := f.hotels[id]
	if !ok {
		return domain.ErrNotFound
	}
	h.Description = d
	f.hotels[id] = h
	return nil
}

func (f *fakeStore) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	r.Tags = append([]string(nil), r.Tags...)
	return r, nil
}
func (f *fakeStore) ListRooms(ctx context.Context, hotelID string) ([]domain.Room, error) {
	var out []domain.Room
	for _, r := range f.rooms {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
func (f *fakeStore) UpdateRoomTags(ctx context.Context, id string, tags []string) error {
	r, ok := f.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Tags = tags
	f.rooms[id] = r
	f.roomWrites++
	return nil
}

func (f *fakeStore) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	for _, r := range f.reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Reservation{}, domain.ErrNotFound
}
func (f *fakeStore) ListReservations(ctx context.Context, hotelID string, from, to time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.HotelID == hotelID && !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, o domain.Order) error {
	if f.failCreateOrder {
		return errors.New("db down")
	}
	f.orders = append(f.orders, o)
	return nil
}
func (f *fakeStore) ListOrdersByReservation(ctx context.Context, id string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.ReservationID == id {
			out = append(out, o)
		}
	}
	return out, nil
}
func (f *fakeStore) ListOrders(ctx context.Context, hotelID string, from, to time.Time) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if o.HotelID == hotelID && !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) AppendAuditLog(ctx context.Context, a domain.AuditLog) error {
	f.audit = append(f.audit, a)
	return nil
}
func (f *fakeStore) ListAuditLogs(ctx context.Context, subject string) ([]domain.AuditLog, error) {
	var out []domain.AuditLog
	for _, a := range f.audit {
		if a.Subject == subject {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateNotification(ctx context.Context, n domain.Notification) error {
	f.notifications = append(f.notifications, n)
	return nil
}
func (f *fakeStore) GetNotification(ctx context.Context, id string) (domain.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.Notification{}, domain.ErrNotFound
}
func (f *fakeStore) UpdateNotificationMessage(ctx context.Context, id, msg string) error {
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].Message = msg
			return nil
		}
	}
	return domain.ErrNotFound
}
func (f *fakeStore) ListNotifications(ctx context.Context, hotelID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.notifications {
		if n.HotelID == hotelID {
			out = append(out, n)
		}
	}
	return out, nil
}

// fakeCache round-trips through JSON like the Redis adapter does.
type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

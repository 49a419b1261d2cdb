package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"frontdesk/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id)
	}
	return err
}

// Repo implements every repository port on one connection pool.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- hotels ----

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	var h domain.Hotel
	err := r.db.QueryRowContext(ctx, getHotelSQL, id).Scan(&h.ID, &h.Name, &h.Description)
	if err != nil {
		return domain.Hotel{}, notFound(err, "hotel", id)
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Description); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateHotelDescription(ctx context.Context, id, description string) error {
	_, err := r.db.ExecContext(ctx, updateHotelDescriptionSQL, description, id)
	return err
}

// ---- rooms ----

type scanner interface{ Scan(dest ...any) error }

func scanRoom(s scanner) (domain.Room, error) {
	var rm domain.Room
	var tagsJSON []byte
	if err := s.Scan(&rm.ID, &rm.HotelID, &rm.Number, &tagsJSON); err != nil {
		return domain.Room{}, err
	}
	// a malformed array reads as no tags rather than failing the board
	_ = json.Unmarshal(tagsJSON, &rm.Tags)
	return rm, nil
}

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if err != nil {
		return domain.Room{}, notFound(err, "room", id)
	}
	return rm, nil
}

func (r *Repo) ListRooms(ctx context.Context, hotelID string) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateRoomTags(ctx context.Context, id string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	_, err := r.db.ExecContext(ctx, updateRoomTagsSQL, string(b), id)
	return err
}

// ---- reservations ----

func scanReservation(s scanner) (domain.Reservation, error) {
	var rv domain.Reservation
	var name, phone sql.NullString
	if err := s.Scan(
		&rv.ID,
		&rv.HotelID,
		&rv.RoomID,
		&rv.RoomNumber,
		&rv.UserEmail,
		&name,
		&phone,
		&rv.NumOfDiners,
		&rv.Date,
		&rv.Status,
	); err != nil {
		return domain.Reservation{}, err
	}
	rv.GuestName = name.String
	rv.GuestPhone = phone.String
	return rv, nil
}

func (r *Repo) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	rv, err := scanReservation(r.db.QueryRowContext(ctx, getReservationSQL, id))
	if err != nil {
		return domain.Reservation{}, notFound(err, "reservation", id)
	}
	return rv, nil
}

func (r *Repo) ListReservations(ctx context.Context, hotelID string, from, to time.Time) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, listReservationsSQL, hotelID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ---- orders ----

func (r *Repo) CreateOrder(ctx context.Context, o domain.Order) error {
	_, err := r.db.ExecContext(ctx, insertOrderSQL,
		o.ID,
		o.HotelID,
		valStr(o.ReservationID),
		o.Total,
		o.Paid,
		valStr(o.Note),
		o.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) queryOrders(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var resID, note sql.NullString
		if err := rows.Scan(&o.ID, &o.HotelID, &resID, &o.Total, &o.Paid, &note, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.ReservationID = resID.String
		o.Note = note.String
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) ListOrdersByReservation(ctx context.Context, reservationID string) ([]domain.Order, error) {
	return r.queryOrders(ctx, listOrdersByReservationSQL, reservationID)
}

func (r *Repo) ListOrders(ctx context.Context, hotelID string, from, to time.Time) ([]domain.Order, error) {
	return r.queryOrders(ctx, listOrdersSQL, hotelID, from.UTC(), to.UTC())
}

// ---- audit logs ----

func (r *Repo) AppendAuditLog(ctx context.Context, a domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx, insertAuditLogSQL, a.ID, a.Subject, a.Message, a.CreatedAt.UTC())
	return err
}

func (r *Repo) ListAuditLogs(ctx context.Context, subject string) ([]domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, listAuditLogsSQL, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditLog
	for rows.Next() {
		var a domain.AuditLog
		if err := rows.Scan(&a.ID, &a.Subject, &a.Message, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ---- notifications ----

func (r *Repo) CreateNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.db.ExecContext(ctx, insertNotificationSQL, n.ID, n.HotelID, n.Message, n.CreatedAt.UTC())
	return err
}

func (r *Repo) GetNotification(ctx context.Context, id string) (domain.Notification, error) {
	var n domain.Notification
	err := r.db.QueryRowContext(ctx, getNotificationSQL, id).Scan(&n.ID, &n.HotelID, &n.Message, &n.CreatedAt)
	if err != nil {
		return domain.Notification{}, notFound(err, "notification", id)
	}
	return n, nil
}

func (r *Repo) UpdateNotificationMessage(ctx context.Context, id, message string) error {
	_, err := r.db.ExecContext(ctx, updateNotificationMessageSQL, message, id)
	return err
}

func (r *Repo) ListNotifications(ctx context.Context, hotelID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, listNotificationsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.HotelID, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

var (
	_ domain.HotelRepository        = (*Repo)(nil)
	_ domain.RoomRepository         = (*Repo)(nil)
	_ domain.ReservationRepository  = (*Repo)(nil)
	_ domain.OrderRepository        = (*Repo)(nil)
	_ domain.AuditLogRepository     = (*Repo)(nil)
	_ domain.NotificationRepository = (*Repo)(nil)
)

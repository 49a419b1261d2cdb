package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"frontdesk/internal/adapters/observability"
	"frontdesk/internal/codec/folio"
	"frontdesk/internal/codec/roomrate"
	"frontdesk/internal/domain"
)

type FolioService struct {
	hotels       domain.HotelRepository
	rooms        domain.RoomRepository
	reservations domain.ReservationRepository
	orders       domain.OrderRepository
	now          func() time.Time
}

func NewFolioService(h domain.HotelRepository, r domain.RoomRepository, res domain.ReservationRepository, o domain.OrderRepository) *FolioService {
	return &FolioService{hotels: h, rooms: r, reservations: res, orders: o, now: time.Now}
}

func (s *FolioService) WithClock(now func() time.Time) *FolioService {
	s.now = now
	return s
}

type PostResult struct {
	HotelID string `json:"hotelId"`
	Date    string `json:"date"`
	Posted  int    `json:"posted"`
	// Skipped nights already carry a charge for the date.
	Skipped int `json:"skipped"`
	// Unpriced nights have neither a room override nor a hotel base rate.
	Unpriced int `json:"unpriced"`
	Failed   int `json:"failed"`
}

// PostRoomCharges creates one order per non-cancelled reservation night of
// date. Nights that already have a matching charge marker are skipped, so
// running it twice for the same date posts nothing the second time.
func (s *FolioService) PostRoomCharges(ctx context.Context, hotelID string, date time.Time) (PostResult, error) {
	day := dayStart(date)
	res := PostResult{HotelID: hotelID, Date: day.Format(dateLayout)}

	rec, err := loadSettings(ctx, s.hotels, hotelID)
	if err != nil {
		return res, err
	}
	rooms, err := s.rooms.ListRooms(ctx, hotelID)
	if err != nil {
		return res, fmt.Errorf("list rooms for hotel %s: %w", hotelID, err)
	}
	overrides := make(map[string]*float64, len(rooms))
	for _, r := range rooms {
		overrides[r.ID] = roomrate.Parse(r.Tags).Rate.OverrideNightlyRate
	}
	nights, err := s.reservations.ListReservations(ctx, hotelID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return res, fmt.Errorf("list reservations for hotel %s: %w", hotelID, err)
	}

	var errs []error
	for _, n := range nights {
		if strings.EqualFold(n.Status, domain.ReservationCancelled) {
			continue
		}
		outcome, err := s.postNight(ctx, n, res.Date, rec.Settings.BaseNightlyRate, rec.Settings.Currency, overrides[n.RoomID])
		observability.ObserveRoomCharge(outcome)
		switch outcome {
		case "posted":
			res.Posted++
		case "skipped":
			res.Skipped++
		case "unpriced":
			res.Unpriced++
			log.Warn().Str("reservation", n.ID).Str("room", n.RoomNumber).Msg("no nightly rate configured; charge not posted")
		default:
			res.Failed++
			errs = append(errs, err)
			log.Warn().Err(err).Str("reservation", n.ID).Msg("room charge failed")
		}
	}
	log.Info().
		Str("hotel", hotelID).
		Str("date", res.Date).
		Int("posted", res.Posted).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("room charges posted")
	return res, errors.Join(errs...)
}

func (s *FolioService) postNight(ctx context.Context, n domain.Reservation, dateKey string, base float64, currency string, override *float64) (string, error) {
	existing, err := s.orders.ListOrdersByReservation(ctx, n.ID)
	if err != nil {
		return "failed", fmt.Errorf("list orders for reservation %s: %w", n.ID, err)
	}
	notes := make([]string, 0, len(existing))
	for _, o := range existing {
		notes = append(notes, o.Note)
	}
	if folio.HasCharge(notes, n.ID, dateKey) {
		return "skipped", nil
	}

	rate := roomrate.EffectiveRate(base, override)
	if rate <= 0 {
		return "unpriced", nil
	}
	o := domain.Order{
		ID:            uuid.NewString(),
		HotelID:       n.HotelID,
		ReservationID: n.ID,
		Total:         rate,
		Note: folio.BuildNote(folio.RoomCharge{
			ReservationID: n.ID,
			DateKey:       dateKey,
			Rate:          rate,
			Currency:      currency,
			HotelID:       n.HotelID,
			RoomNumber:    n.RoomNumber,
		}),
		CreatedAt: s.now().UTC(),
	}
	if err := s.orders.CreateOrder(ctx, o); err != nil {
		return "failed", fmt.Errorf("create room charge for reservation %s: %w", n.ID, err)
	}
	return "posted", nil
}

type Revenue struct {
	HotelID  string  `json:"hotelId"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Currency string  `json:"currency"`
	Room     float64 `json:"room"`
	Menu     float64 `json:"menu"`
	Total    float64 `json:"total"`
	Orders   int     `json:"orders"`
}

// Revenue sums orders created in [from, to] (whole days) per stream.
func (s *FolioService) Revenue(ctx context.Context, hotelID string, from, to time.Time) (Revenue, error) {
	from, to = dayStart(from), dayStart(to)
	if to.Before(from) {
		return Revenue{}, invalidf("to must not be before from")
	}
	rec, err := loadSettings(ctx, s.hotels, hotelID)
	if err != nil {
		return Revenue{}, err
	}
	orders, err := s.orders.ListOrders(ctx, hotelID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return Revenue{}, fmt.Errorf("list orders for hotel %s: %w", hotelID, err)
	}

	room, menu := decimal.Zero, decimal.Zero
	for _, o := range orders {
		amount := decimal.NewFromFloat(o.Total)
		if folio.Classify(o.Note) == folio.StreamRoom {
			room = room.Add(amount)
		} else {
			menu = menu.Add(amount)
		}
	}
	return Revenue{
		HotelID:  hotelID,
		From:     from.Format(dateLayout),
		To:       to.Format(dateLayout),
		Currency: rec.Settings.Currency,
		Room:     room.Round(2).InexactFloat64(),
		Menu:     menu.Round(2).InexactFloat64(),
		Total:    room.Add(menu).Round(2).InexactFloat64(),
		Orders:   len(orders),
	}, nil
}

type CheckoutStatus struct {
	ReservationID     string  `json:"reservationId"`
	Allowed           bool    `json:"allowed"`
	RequiresPaidFolio bool    `json:"requiresPaidFolio"`
	UnpaidOrders      int     `json:"unpaidOrders"`
	Outstanding       float64 `json:"outstanding"`
}

// CheckoutAllowed blocks checkout on unpaid orders only when the hotel has
// checkoutRequiresPaidFolio set.
func (s *FolioService) CheckoutAllowed(ctx context.Context, reservationID string) (CheckoutStatus, error) {
	r, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return CheckoutStatus{}, err
	}
	rec, err := loadSettings(ctx, s.hotels, r.HotelID)
	if err != nil {
		return CheckoutStatus{}, err
	}
	orders, err := s.orders.ListOrdersByReservation(ctx, r.ID)
	if err != nil {
		return CheckoutStatus{}, fmt.Errorf("list orders for reservation %s: %w", r.ID, err)
	}

	out := CheckoutStatus{ReservationID: r.ID, RequiresPaidFolio: rec.Settings.CheckoutRequiresPaidFolio}
	outstanding := decimal.Zero
	for _, o := range orders {
		if o.Paid {
			continue
		}
		out.UnpaidOrders++
		outstanding = outstanding.Add(decimal.NewFromFloat(o.Total))
	}
	out.Outstanding = outstanding.Round(2).InexactFloat64()
	out.Allowed = !out.RequiresPaidFolio || out.UnpaidOrders == 0
	return out, nil
}

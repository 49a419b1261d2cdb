package app

import (
	"context"
	"fmt"
	"time"

	"frontdesk/internal/domain"
	"frontdesk/internal/stays"
)

const maxStayNights = 60

type StayService struct {
	reservations domain.ReservationRepository
	cache        domain.Cache
	cacheTTL     time.Duration
}

func NewStayService(r domain.ReservationRepository, c domain.Cache, ttl time.Duration) *StayService {
	return &StayService{reservations: r, cache: c, cacheTTL: ttl}
}

// List groups the reservation nights in [from, from+nights) into stay
// blocks. Stays that run past either edge are cut at the window.
func (s *StayService) List(ctx context.Context, hotelID string, from time.Time, nights int) ([]stays.Block, error) {
	if nights < 1 || nights > maxStayNights {
		return nil, invalidf("nights must be between 1 and %d", maxStayNights)
	}
	from = dayStart(from)
	key := fmt.Sprintf("stays:%s:%s:%d", hotelID, from.Format(dateLayout), nights)

	var out []stays.Block
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	rows, err := s.reservations.ListReservations(ctx, hotelID, from, from.AddDate(0, 0, nights))
	if err != nil {
		return nil, fmt.Errorf("list reservations for hotel %s: %w", hotelID, err)
	}
	ns := make([]stays.Night, 0, len(rows))
	for _, r := range rows {
		ns = append(ns, mapNight(r))
	}
	out = stays.Group(ns)
	if out == nil {
		out = []stays.Block{}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"frontdesk/internal/codec/settings"
	"frontdesk/internal/domain"
)

type SettingsService struct {
	hotels   domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewSettingsService(h domain.HotelRepository, c domain.Cache, ttl time.Duration) *SettingsService {
	return &SettingsService{hotels: h, cache: c, cacheTTL: ttl}
}

func settingsKey(hotelID string) string { return "settings:" + hotelID }

// Get reads through the cache; the description is only decoded on a miss.
func (s *SettingsService) Get(ctx context.Context, hotelID string) (settings.Record, error) {
	key := settingsKey(hotelID)
	var rec settings.Record
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &rec); ok {
			return rec, nil
		}
	}
	rec, err := loadSettings(ctx, s.hotels, hotelID)
	if err != nil {
		return settings.Record{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rec, int(s.cacheTTL.Seconds()))
	}
	return rec, nil
}

// Update validates user input, then applies the patch to a freshly read
// description and writes it back.
func (s *SettingsService) Update(ctx context.Context, hotelID string, p settings.Patch) (settings.Record, error) {
	if err := validateSettingsPatch(p); err != nil {
		return settings.Record{}, err
	}
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return settings.Record{}, err
	}
	desc := settings.ApplyPatch(h.Description, p)
	if err := s.hotels.UpdateHotelDescription(ctx, h.ID, desc); err != nil {
		return settings.Record{}, fmt.Errorf("update hotel %s description: %w", h.ID, err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, settingsKey(h.ID))
	}
	log.Info().Str("hotel", h.ID).Msg("hotel settings updated")
	return settings.Parse(desc), nil
}

func loadSettings(ctx context.Context, hotels domain.HotelRepository, hotelID string) (settings.Record, error) {
	h, err := hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return settings.Record{}, err
	}
	return settings.Parse(h.Description), nil
}

var hourTags = map[string]bool{
	settings.TagBreakfastHours:   true,
	settings.TagRestaurantHours:  true,
	settings.TagRoomServiceHours: true,
}

func validateSettingsPatch(p settings.Patch) error {
	if v := p.BaseNightlyRate; v != nil && (!finite(*v) || *v < 0) {
		return invalidf("baseNightlyRate must be a non-negative number")
	}
	if v := p.Currency; v != nil && !settings.ValidCurrency(*v) {
		return invalidf("currency %q must be 3-5 letters", *v)
	}
	for name, v := range map[string]*string{"checkInTime": p.CheckInTime, "checkOutTime": p.CheckOutTime} {
		if v != nil && strings.TrimSpace(*v) != "" && !settings.ValidTimeOfDay(*v) {
			return invalidf("%s %q must be HH:MM", name, *v)
		}
	}
	if h := p.OpeningHours; h != nil {
		for name, v := range map[string]*string{"breakfast": h.Breakfast, "restaurant": h.Restaurant, "roomService": h.RoomService} {
			if v != nil && !settings.ValidHours(*v) {
				return invalidf("%s hours %q must look like 07:00-10:30 or 24/7", name, *v)
			}
		}
	}
	for k, v := range p.Tags {
		if hourTags[strings.ToUpper(strings.TrimSpace(k))] && !settings.ValidHours(v) {
			return invalidf("tag %s %q must look like 07:00-10:30 or 24/7", k, v)
		}
	}
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"frontdesk/internal/adapters/observability"
	"frontdesk/internal/codec/housekeeping"
	"frontdesk/internal/codec/roomrate"
	"frontdesk/internal/codec/settings"
	"frontdesk/internal/codec/tags"
	"frontdesk/internal/domain"
)

// HousekeepingService runs staff actions against a room's tag array. Each
// action re-reads the room right before writing.
type HousekeepingService struct {
	rooms  domain.RoomRepository
	hotels domain.HotelRepository
	now    func() time.Time
}

func NewHousekeepingService(r domain.RoomRepository, h domain.HotelRepository) *HousekeepingService {
	return &HousekeepingService{rooms: r, hotels: h, now: time.Now}
}

// WithClock replaces the time source used for cleaning stamps.
func (s *HousekeepingService) WithClock(now func() time.Time) *HousekeepingService {
	s.now = now
	return s
}

// Board lists a hotel's rooms with decoded housekeeping and rate state.
func (s *HousekeepingService) Board(ctx context.Context, hotelID string) ([]RoomView, error) {
	rec, err := loadSettings(ctx, s.hotels, hotelID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListRooms(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms for hotel %s: %w", hotelID, err)
	}
	now := s.now()
	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, mapRoom(r, rec.Settings, now))
	}
	return out, nil
}

func (s *HousekeepingService) MarkClean(ctx context.Context, roomID string) (RoomView, error) {
	now := s.now()
	return s.update(ctx, roomID, "clean", func(t []string) []string {
		return housekeeping.ApplyPatch(t, housekeeping.MarkClean(now))
	})
}

func (s *HousekeepingService) MarkDirty(ctx context.Context, roomID string) (RoomView, error) {
	return s.update(ctx, roomID, "dirty", func(t []string) []string {
		return housekeeping.ApplyPatch(t, housekeeping.MarkDirty())
	})
}

func (s *HousekeepingService) ToggleCleaningList(ctx context.Context, roomID string) (RoomView, error) {
	return s.update(ctx, roomID, "cleaning_list", func(t []string) []string {
		cur := housekeeping.Parse(t).Record.InCleaningList
		return housekeeping.ApplyPatch(t, housekeeping.ToggleCleaningList(cur))
	})
}

// SetStatus requires a reason for MAINTENANCE and OUT_OF_ORDER.
func (s *HousekeepingService) SetStatus(ctx context.Context, roomID, status, reason string) (RoomView, error) {
	st, ok := housekeeping.ParseStatus(status)
	if !ok {
		return RoomView{}, invalidf("unknown housekeeping status %q", status)
	}
	reason = strings.TrimSpace(reason)
	if housekeeping.NeedsReason(st) && reason == "" {
		return RoomView{}, invalidf("status %s needs a reason", st)
	}
	return s.update(ctx, roomID, "status", func(t []string) []string {
		return housekeeping.ApplyPatch(t, housekeeping.SetStatus(st, reason))
	})
}

// SetRate sets a positive override or clears it with nil.
func (s *HousekeepingService) SetRate(ctx context.Context, roomID string, rate *float64) (RoomView, error) {
	if rate != nil && (!finite(*rate) || *rate <= 0) {
		return RoomView{}, invalidf("override rate must be a positive number or cleared")
	}
	return s.update(ctx, roomID, "rate", func(t []string) []string {
		return roomrate.ApplyPatch(t, roomrate.Patch{OverrideNightlyRate: tags.SetPtr(rate)})
	})
}

func (s *HousekeepingService) update(ctx context.Context, roomID, action string, edit func([]string) []string) (RoomView, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return RoomView{}, err
	}
	next := edit(room.Tags)
	if err := s.rooms.UpdateRoomTags(ctx, room.ID, next); err != nil {
		return RoomView{}, fmt.Errorf("update room %s tags: %w", room.ID, err)
	}
	room.Tags = next
	observability.ObserveHousekeeping(action)
	log.Info().Str("room", room.ID).Str("hotel", room.HotelID).Str("action", action).Msg("housekeeping action applied")

	rec, err := loadSettings(ctx, s.hotels, room.HotelID)
	if errors.Is(err, domain.ErrNotFound) {
		rec = settings.Record{Settings: settings.Defaults()}
	} else if err != nil {
		return RoomView{}, err
	}
	return mapRoom(room, rec.Settings, s.now()), nil
}

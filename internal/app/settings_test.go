package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"frontdesk/internal/app"
	"frontdesk/internal/codec/settings"
	"frontdesk/internal/domain"
)

func TestSettings_GetCachesUntilUpdate(t *testing.T) {
	st := newStore()
	st.hotels["h1"] = domain.Hotel{ID: "h1", Description: "Cozy place\nCURRENCY=USD"}
	cache := &fakeCache{}
	svc := app.NewSettingsService(st, cache, time.Minute)
	ctx := context.Background()

	rec, err := svc.Get(ctx, "h1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Settings.Currency != "USD" || rec.BaseText != "Cozy place\nCURRENCY=USD" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// direct write behind the service's back; cached copy still served
	st.hotels["h1"] = domain.Hotel{ID: "h1", Description: "CURRENCY=GBP"}
	rec, _ = svc.Get(ctx, "h1")
	if rec.Settings.Currency != "USD" {
		t.Fatalf("expected cached USD, got %s", rec.Settings.Currency)
	}

	rec, err = svc.Update(ctx, "h1", settings.Patch{BaseNightlyRate: ptr(99.5)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(cache.dels) != 1 || cache.dels[0] != "settings:h1" {
		t.Fatalf("update must evict the cache, dels=%v", cache.dels)
	}
	if rec.Settings.Currency != "GBP" || rec.Settings.BaseNightlyRate != 99.5 {
		t.Fatalf("update must start from the stored description: %+v", rec.Settings)
	}
	if !strings.Contains(st.hotels["h1"].Description, "[[HOTEL_SETTINGS_JSON]]") {
		t.Fatalf("description not upgraded: %q", st.hotels["h1"].Description)
	}

	rec, _ = svc.Get(ctx, "h1")
	if rec.Settings.BaseNightlyRate != 99.5 {
		t.Fatalf("Get after update: %+v", rec.Settings)
	}
}

func TestSettings_UpdateValidation(t *testing.T) {
	st := newStore()
	st.hotels["h1"] = domain.Hotel{ID: "h1", Description: "x"}
	svc := app.NewSettingsService(st, nil, time.Minute)

	bad := []settings.Patch{
		{Currency: ptr("$$")},
		{BaseNightlyRate: ptr(-1.0)},
		{CheckInTime: ptr("3pm")},
		{OpeningHours: &settings.OpeningHoursPatch{Breakfast: ptr("mornings")}},
		{Tags: map[string]string{"restaurant_hours": "late"}},
	}
	for i, p := range bad {
		if _, err := svc.Update(context.Background(), "h1", p); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("patch %d: err = %v, want invalid input", i, err)
		}
	}
	if st.hotels["h1"].Description != "x" {
		t.Fatalf("rejected patches must not write")
	}

	ok := settings.Patch{
		CheckInTime:  ptr(""),
		OpeningHours: &settings.OpeningHoursPatch{Breakfast: ptr("07:00-10:30")},
		Tags:         map[string]string{"parking": "free"},
	}
	if _, err := svc.Update(context.Background(), "h1", ok); err != nil {
		t.Fatalf("valid patch rejected: %v", err)
	}
}

func TestSettings_NotFound(t *testing.T) {
	svc := app.NewSettingsService(newStore(), nil, time.Minute)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

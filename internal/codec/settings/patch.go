package settings

import (
	"regexp"
	"strings"
)

type OpeningHoursPatch struct {
	Breakfast   *string `json:"breakfast,omitempty"`
	Restaurant  *string `json:"restaurant,omitempty"`
	RoomService *string `json:"roomService,omitempty"`
}

// Patch is one settings edit. Nil fields are left alone. In Tags an empty
// value clears the tag.
type Patch struct {
	BaseNightlyRate           *float64           `json:"baseNightlyRate,omitempty"`
	Currency                  *string            `json:"currency,omitempty"`
	AutoPostRoomCharges       *bool              `json:"autoPostRoomCharges,omitempty"`
	CheckoutRequiresPaidFolio *bool              `json:"checkoutRequiresPaidFolio,omitempty"`
	CheckInTime               *string            `json:"checkInTime,omitempty"`
	CheckOutTime              *string            `json:"checkOutTime,omitempty"`
	HotelAddress              *string            `json:"hotelAddress,omitempty"`
	HotelPhone                *string            `json:"hotelPhone,omitempty"`
	HotelEmail                *string            `json:"hotelEmail,omitempty"`
	HotelWebsite              *string            `json:"hotelWebsite,omitempty"`
	VATNumber                 *string            `json:"vatNumber,omitempty"`
	OpeningHours              *OpeningHoursPatch `json:"openingHours,omitempty"`
	Tags                      map[string]string  `json:"tags,omitempty"`

	// Older forms sent the address in parts; they are joined into HotelAddress.
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`
}

// ApplyPatch parses text, layers the patch on top and serializes the result.
func ApplyPatch(text string, p Patch) string {
	r := Parse(text)
	return Serialize(Apply(r, p))
}

// Apply layers p onto a parsed record.
func Apply(r Record, p Patch) Record {
	s := r.Settings
	if p.BaseNightlyRate != nil {
		s.BaseNightlyRate = normalizeMoney(p.BaseNightlyRate, s.BaseNightlyRate)
	}
	if p.Currency != nil {
		s.Currency = normalizeCurrency(*p.Currency, s.Currency)
	}
	if p.AutoPostRoomCharges != nil {
		s.AutoPostRoomCharges = *p.AutoPostRoomCharges
	}
	if p.CheckoutRequiresPaidFolio != nil {
		s.CheckoutRequiresPaidFolio = *p.CheckoutRequiresPaidFolio
	}
	s.CheckInTime = normalizeText(p.CheckInTime, s.CheckInTime)
	s.CheckOutTime = normalizeText(p.CheckOutTime, s.CheckOutTime)
	s.HotelAddress = normalizeText(p.HotelAddress, s.HotelAddress)
	s.HotelPhone = normalizeText(p.HotelPhone, s.HotelPhone)
	s.HotelEmail = normalizeText(p.HotelEmail, s.HotelEmail)
	s.HotelWebsite = normalizeText(p.HotelWebsite, s.HotelWebsite)
	s.VATNumber = normalizeText(p.VATNumber, s.VATNumber)
	if addr := joinAddress(p.Street, p.City, p.PostalCode, p.Country); addr != "" {
		s.HotelAddress = addr
	}

	bag := make(map[string]string, len(r.Tags)+len(p.Tags))
	for k, v := range r.Tags {
		bag[k] = v
	}
	for k, v := range p.Tags {
		if key := normalizeTagKey(k); key != "" {
			bag[key] = strings.TrimSpace(v)
		}
	}
	// tag edits to hours keys flow into the typed view first
	s.OpeningHours = hoursFromTags(bag)
	if h := p.OpeningHours; h != nil {
		s.OpeningHours.Breakfast = normalizeText(h.Breakfast, s.OpeningHours.Breakfast)
		s.OpeningHours.Restaurant = normalizeText(h.Restaurant, s.OpeningHours.Restaurant)
		s.OpeningHours.RoomService = normalizeText(h.RoomService, s.OpeningHours.RoomService)
	}
	hoursIntoTags(bag, s.OpeningHours)

	return Record{Settings: s, Tags: bag, BaseText: r.BaseText}
}

func joinAddress(parts ...*string) string {
	var out []string
	for _, p := range parts {
		if p == nil {
			continue
		}
		if t := strings.TrimSpace(*p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ", ")
}

var (
	hoursRe     = regexp.MustCompile(`^\d{1,2}:\d{2}\s*-\s*\d{1,2}:\d{2}(\s*,\s*\d{1,2}:\d{2}\s*-\s*\d{1,2}:\d{2})*$`)
	timeOfDayRe = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)
)

// ValidHours is the caller-side gate for opening-hours input:
// "HH:MM-HH:MM[, HH:MM-HH:MM...]", "24/7" or "24h". Empty clears and is valid.
func ValidHours(s string) bool {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "24/7", "24h":
		return true
	}
	return hoursRe.MatchString(s)
}

// ValidTimeOfDay accepts "HH:MM" on a 24 hour clock.
func ValidTimeOfDay(s string) bool { return timeOfDayRe.MatchString(strings.TrimSpace(s)) }

// ValidCurrency reports whether s normalizes to a 3-5 letter code.
func ValidCurrency(s string) bool {
	return currencyRe.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

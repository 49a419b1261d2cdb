// Package settings keeps a hotel's structured settings inside its free-text
// description field.
//
// The current encoding is a JSON block between [[HOTEL_SETTINGS_JSON]]
// markers appended after the human description. Older descriptions may use
// one of the legacy marker pairs or plain KEY=VALUE lines; all of them are
// read, only the current block is written.
package settings

import (
	"encoding/json"
	"regexp"
	"strings"

	"frontdesk/internal/codec/tags"
)

const blockVersion = 1

const (
	fieldBaseNightlyRate           = "baseNightlyRate"
	fieldCurrency                  = "currency"
	fieldAutoPostRoomCharges       = "autoPostRoomCharges"
	fieldCheckoutRequiresPaidFolio = "checkoutRequiresPaidFolio"
	fieldCheckInTime               = "checkInTime"
	fieldCheckOutTime              = "checkOutTime"
	fieldHotelAddress              = "hotelAddress"
	fieldHotelPhone                = "hotelPhone"
	fieldHotelEmail                = "hotelEmail"
	fieldHotelWebsite              = "hotelWebsite"
	fieldVATNumber                 = "vatNumber"
)

// Opening hours only live in the tag bag.
const (
	TagBreakfastHours   = "BREAKFAST_HOURS"
	TagRestaurantHours  = "RESTAURANT_HOURS"
	TagRoomServiceHours = "ROOM_SERVICE_HOURS"
)

type OpeningHours struct {
	Breakfast   string `json:"breakfast"`
	Restaurant  string `json:"restaurant"`
	RoomService string `json:"roomService"`
}

type Settings struct {
	BaseNightlyRate           float64      `json:"baseNightlyRate"`
	Currency                  string       `json:"currency"`
	AutoPostRoomCharges       bool         `json:"autoPostRoomCharges"`
	CheckoutRequiresPaidFolio bool         `json:"checkoutRequiresPaidFolio"`
	CheckInTime               string       `json:"checkInTime"`
	CheckOutTime              string       `json:"checkOutTime"`
	HotelAddress              string       `json:"hotelAddress"`
	HotelPhone                string       `json:"hotelPhone"`
	HotelEmail                string       `json:"hotelEmail"`
	HotelWebsite              string       `json:"hotelWebsite"`
	VATNumber                 string       `json:"vatNumber"`
	OpeningHours              OpeningHours `json:"openingHours"`
}

// Record is the decoded description field.
type Record struct {
	Settings Settings          `json:"settings"`
	Tags     map[string]string `json:"tags"`
	// BaseText is the description without the managed block.
	BaseText string `json:"baseText"`
}

const DefaultCurrency = "EUR"

func Defaults() Settings {
	return Settings{
		Currency:     DefaultCurrency,
		CheckInTime:  "15:00",
		CheckOutTime: "11:00",
	}
}

// blockSettings is the JSON shape inside the block. Opening hours are not
// part of it.
type blockSettings struct {
	BaseNightlyRate           float64 `json:"baseNightlyRate"`
	Currency                  string  `json:"currency"`
	AutoPostRoomCharges       bool    `json:"autoPostRoomCharges"`
	CheckoutRequiresPaidFolio bool    `json:"checkoutRequiresPaidFolio"`
	CheckInTime               string  `json:"checkInTime"`
	CheckOutTime              string  `json:"checkOutTime"`
	HotelAddress              string  `json:"hotelAddress"`
	HotelPhone                string  `json:"hotelPhone"`
	HotelEmail                string  `json:"hotelEmail"`
	HotelWebsite              string  `json:"hotelWebsite"`
	VATNumber                 string  `json:"vatNumber"`
}

type block struct {
	V        int               `json:"v"`
	Settings blockSettings     `json:"settings"`
	Tags     map[string]string `json:"tags"`
}

// Parse never fails. Precedence is defaults < legacy lines < JSON block;
// opening hours come from the merged tag bag and currency is re-checked
// after the merge.
func Parse(text string) Record {
	body, base, found := extractBlock(text)

	lines := parseLegacyLines(base)
	bag := legacyTags(lines)
	s := overlay(Defaults(), legacySettings(lines))

	if found {
		var doc map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &doc); err == nil {
			s = overlay(s, tags.Object(doc, "settings"))
			for k, v := range tags.Object(doc, "tags") {
				if str, ok := v.(string); ok {
					if key := normalizeTagKey(k); key != "" {
						bag[key] = str
					}
				}
			}
		}
	}

	s.Currency = normalizeCurrency(s.Currency, DefaultCurrency)
	s.OpeningHours = hoursFromTags(bag)
	return Record{Settings: s, Tags: bag, BaseText: base}
}

// Serialize writes the trimmed base text, a blank line and a fresh block in
// the current format.
func Serialize(r Record) string {
	bag := make(map[string]string, len(r.Tags)+3)
	for k, v := range r.Tags {
		if key := normalizeTagKey(k); key != "" {
			bag[key] = v
		}
	}
	hoursIntoTags(bag, r.Settings.OpeningHours)

	s := r.Settings
	doc := block{
		V: blockVersion,
		Settings: blockSettings{
			BaseNightlyRate:           tags.RoundMoney(s.BaseNightlyRate),
			Currency:                  normalizeCurrency(s.Currency, DefaultCurrency),
			AutoPostRoomCharges:       s.AutoPostRoomCharges,
			CheckoutRequiresPaidFolio: s.CheckoutRequiresPaidFolio,
			CheckInTime:               s.CheckInTime,
			CheckOutTime:              s.CheckOutTime,
			HotelAddress:              s.HotelAddress,
			HotelPhone:                s.HotelPhone,
			HotelEmail:                s.HotelEmail,
			HotelWebsite:              s.HotelWebsite,
			VATNumber:                 s.VATNumber,
		},
		Tags: bag,
	}
	// map keys are sorted by encoding/json; the struct cannot fail to encode
	raw, _ := json.Marshal(doc)

	out := current.wrap(string(raw))
	if base := strings.TrimSpace(r.BaseText); base != "" {
		out = base + "\n\n" + out
	}
	return out
}

// overlay applies one raw layer on top of s, field by field. Missing or
// wrong-typed values keep the value from s.
func overlay(s Settings, raw map[string]any) Settings {
	if raw == nil {
		return s
	}
	s.BaseNightlyRate = normalizeMoney(tags.Float(raw, fieldBaseNightlyRate), s.BaseNightlyRate)
	s.Currency = normalizeCurrency(deref(tags.String(raw, fieldCurrency), s.Currency), s.Currency)
	s.AutoPostRoomCharges = derefBool(tags.Bool(raw, fieldAutoPostRoomCharges), s.AutoPostRoomCharges)
	s.CheckoutRequiresPaidFolio = derefBool(tags.Bool(raw, fieldCheckoutRequiresPaidFolio), s.CheckoutRequiresPaidFolio)
	s.CheckInTime = normalizeText(tags.String(raw, fieldCheckInTime), s.CheckInTime)
	s.CheckOutTime = normalizeText(tags.String(raw, fieldCheckOutTime), s.CheckOutTime)
	s.HotelAddress = normalizeText(tags.String(raw, fieldHotelAddress), s.HotelAddress)
	s.HotelPhone = normalizeText(tags.String(raw, fieldHotelPhone), s.HotelPhone)
	s.HotelEmail = normalizeText(tags.String(raw, fieldHotelEmail), s.HotelEmail)
	s.HotelWebsite = normalizeText(tags.String(raw, fieldHotelWebsite), s.HotelWebsite)
	s.VATNumber = normalizeText(tags.String(raw, fieldVATNumber), s.VATNumber)
	return s
}

var currencyRe = regexp.MustCompile(`^[A-Z]{3,5}$`)

func normalizeCurrency(v, fallback string) string {
	c := strings.ToUpper(strings.TrimSpace(v))
	if currencyRe.MatchString(c) {
		return c
	}
	return fallback
}

func normalizeMoney(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return tags.RoundMoney(*v)
}

func normalizeText(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return strings.TrimSpace(*v)
}

func normalizeTagKey(k string) string { return strings.ToUpper(strings.TrimSpace(k)) }

func hoursFromTags(bag map[string]string) OpeningHours {
	return OpeningHours{
		Breakfast:   strings.TrimSpace(bag[TagBreakfastHours]),
		Restaurant:  strings.TrimSpace(bag[TagRestaurantHours]),
		RoomService: strings.TrimSpace(bag[TagRoomServiceHours]),
	}
}

// hoursIntoTags always writes all three keys. An empty value shadows a
// legacy line of the same key that still sits in the base text.
func hoursIntoTags(bag map[string]string, h OpeningHours) {
	bag[TagBreakfastHours] = strings.TrimSpace(h.Breakfast)
	bag[TagRestaurantHours] = strings.TrimSpace(h.Restaurant)
	bag[TagRoomServiceHours] = strings.TrimSpace(h.RoomService)
}

func deref(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

func derefBool(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

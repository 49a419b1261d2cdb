package settings

import (
	"regexp"
	"strings"

	"frontdesk/internal/codec/tags"
)

// Legacy flat lines: KEY=VALUE or KEY: VALUE anywhere in the description.
// Keys need at least three characters.
var legacyLine = regexp.MustCompile(`^\s*([A-Z][A-Z0-9_]{2,})\s*(?:=|:)\s*(.*?)\s*$`)

// settingAliases maps a settings field (its JSON name) to the legacy keys
// that may carry it. Earlier aliases win over later ones.
var settingAliases = map[string][]string{
	fieldBaseNightlyRate:           {"BASE_NIGHTLY_RATE", "BASE_RATE", "NIGHTLY_RATE", "ROOM_RATE"},
	fieldCurrency:                  {"CURRENCY"},
	fieldAutoPostRoomCharges:       {"AUTO_POST_ROOM_CHARGES", "AUTO_POST_CHARGES"},
	fieldCheckoutRequiresPaidFolio: {"CHECKOUT_REQUIRES_PAID_FOLIO", "REQUIRE_PAID_FOLIO"},
	fieldCheckInTime:               {"CHECK_IN_TIME", "CHECKIN_TIME", "CHECK_IN"},
	fieldCheckOutTime:              {"CHECK_OUT_TIME", "CHECKOUT_TIME", "CHECK_OUT"},
	fieldHotelAddress:              {"HOTEL_ADDRESS", "ADDRESS"},
	fieldHotelPhone:                {"HOTEL_PHONE", "PHONE"},
	fieldHotelEmail:                {"HOTEL_EMAIL", "EMAIL"},
	fieldHotelWebsite:              {"HOTEL_WEBSITE", "WEBSITE"},
	fieldVATNumber:                 {"VAT_NUMBER", "VAT"},
}

// aliasKeys is the set of every legacy key that maps onto a settings field.
var aliasKeys = func() map[string]struct{} {
	set := make(map[string]struct{}, 32)
	for _, keys := range settingAliases {
		for _, k := range keys {
			set[k] = struct{}{}
		}
	}
	return set
}()

// parseLegacyLines collects KEY=VALUE lines; later lines win.
func parseLegacyLines(base string) map[string]string {
	out := map[string]string{}
	for _, line := range tags.Split(base) {
		m := legacyLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out[m[1]] = m[2]
	}
	return out
}

// legacySettings turns legacy lines into a raw settings object shaped like
// the JSON block, so both layers go through the same normalization.
func legacySettings(lines map[string]string) map[string]any {
	raw := map[string]any{}
	for field, keys := range settingAliases {
		for _, k := range keys {
			if v, ok := lines[k]; ok && strings.TrimSpace(v) != "" {
				raw[field] = v
				break
			}
		}
	}
	return raw
}

// legacyTags keeps the legacy lines that are not settings fields: opening
// hours and anything else a hotel put there.
func legacyTags(lines map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range lines {
		if _, known := aliasKeys[k]; known {
			continue
		}
		out[k] = v
	}
	return out
}

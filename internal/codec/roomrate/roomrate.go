// Package roomrate stores a per-room nightly rate override as a single
// RATE:OVERRIDE token in the room's tag array. No token means the room
// inherits the hotel base rate.
package roomrate

import "frontdesk/internal/codec/tags"

const Prefix = "RATE:"

const keyOverride = "OVERRIDE"

type Record struct {
	OverrideNightlyRate *float64 `json:"overrideNightlyRate"`
}

type Parsed struct {
	Rate  Record
	Notes []string
	// Unknown RATE: tokens are carried through untouched.
	Unknown []string
}

type Patch struct {
	OverrideNightlyRate tags.Update[float64]
}

func Parse(tokens []string) Parsed {
	owned, rest := tags.Partition(tokens, Prefix)
	p := Parsed{Notes: rest}
	for _, tok := range owned {
		if tok.Key != keyOverride {
			p.Unknown = append(p.Unknown, tok.Raw)
			continue
		}
		if f := tags.ParseNumber(tok.Value); f != nil && *f >= 0 {
			v := tags.RoundMoney(*f)
			p.Rate.OverrideNightlyRate = &v
		} else {
			p.Rate.OverrideNightlyRate = nil
		}
	}
	return p
}

// ApplyPatch sets (rounded to cents, clamped at zero) or removes the
// override. An untouched patch only canonicalizes the tokens.
func ApplyPatch(tokens []string, patch Patch) []string {
	p := Parse(tokens)
	rate := patch.OverrideNightlyRate.Apply(p.Rate.OverrideNightlyRate)
	if rate != nil {
		v := tags.RoundMoney(*rate)
		rate = &v
	}
	return Serialize(p.Notes, Record{OverrideNightlyRate: rate}, p.Unknown)
}

func Serialize(notes []string, rec Record, unknown []string) []string {
	var owned []string
	if rec.OverrideNightlyRate != nil {
		owned = append(owned, tags.Format(Prefix, keyOverride, tags.FormatMoney(*rec.OverrideNightlyRate)))
	}
	owned = append(owned, unknown...)
	return tags.Rebuild(notes, owned)
}

// EffectiveRate is the override when present, else the hotel base rate.
func EffectiveRate(base float64, override *float64) float64 {
	if override != nil {
		return *override
	}
	return base
}

// Package housekeeping stores a room's cleaning state as HK: tokens inside
// the room's free-text tag array.
//
//	HK:STATUS=DIRTY
//	HK:IN_LIST=1
//	HK:CLEANED_AT=2025-01-02T09:30:00.000Z
//	HK:REASON=Broken%20AC
package housekeeping

import (
	"strings"
	"time"

	"frontdesk/internal/codec/tags"
)

const Prefix = "HK:"

const (
	keyStatus    = "STATUS"
	keyInList    = "IN_LIST"
	keyCleanedAt = "CLEANED_AT"
	keyReason    = "REASON"
)

type Status string

const (
	StatusClean       Status = "CLEAN"
	StatusDirty       Status = "DIRTY"
	StatusMaintenance Status = "MAINTENANCE"
	StatusOutOfOrder  Status = "OUT_OF_ORDER"
)

// ParseStatus normalizes s; ok is false for unknown values.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusClean, StatusDirty, StatusMaintenance, StatusOutOfOrder:
		return st, true
	}
	return StatusClean, false
}

type Record struct {
	Status         Status     `json:"status"`
	InCleaningList bool       `json:"inCleaningList"`
	LastCleanedAt  *time.Time `json:"lastCleanedAt"`
	Reason         *string    `json:"reason"`
}

// Parsed is the decoded view of a tag array.
type Parsed struct {
	Record Record
	// Notes are all non-HK tokens, in order.
	Notes []string
	// Unknown are HK tokens with keys this version does not understand.
	Unknown []string
}

type Patch struct {
	Status         *Status
	InCleaningList *bool
	LastCleanedAt  tags.Update[time.Time]
	Reason         tags.Update[string]
}

// Parse never fails; missing or garbled tokens fall back to the defaults.
func Parse(tokens []string) Parsed {
	owned, rest := tags.Partition(tokens, Prefix)
	p := Parsed{Record: Record{Status: StatusClean}, Notes: rest}
	for _, tok := range owned {
		switch tok.Key {
		case keyStatus:
			// a status this version does not know is carried as unknown
			// and reads as the default
			if st, ok := ParseStatus(tok.Value); ok {
				p.Record.Status = st
			} else {
				p.Unknown = append(p.Unknown, tok.Raw)
			}
		case keyInList:
			p.Record.InCleaningList = tags.BoolOr(tok.Value, false)
		case keyCleanedAt:
			p.Record.LastCleanedAt = tags.ParseTime(tok.Value)
		case keyReason:
			r := tags.DecodeText(tok.Value)
			p.Record.Reason = &r
		default:
			p.Unknown = append(p.Unknown, tok.Raw)
		}
	}
	return p
}

// ApplyPatch returns a new tag array with the patch applied. Fields the
// patch does not touch keep their current value.
func ApplyPatch(tokens []string, patch Patch) []string {
	p := Parse(tokens)
	rec := p.Record
	unknown := p.Unknown
	if patch.Status != nil {
		st, _ := ParseStatus(string(*patch.Status))
		rec.Status = st
		unknown = withoutStatus(unknown)
	}
	if patch.InCleaningList != nil {
		rec.InCleaningList = *patch.InCleaningList
	}
	rec.LastCleanedAt = patch.LastCleanedAt.Apply(rec.LastCleanedAt)
	rec.Reason = patch.Reason.Apply(rec.Reason)
	return Serialize(p.Notes, rec, unknown)
}

// Serialize writes the record after the untouched tokens, followed by any
// unknown HK tokens. STATUS is always written unless unknown already holds
// an unrecognized STATUS token.
func Serialize(notes []string, rec Record, unknown []string) []string {
	st := rec.Status
	if st == "" {
		st = StatusClean
	}
	var owned []string
	if len(withoutStatus(unknown)) == len(unknown) {
		owned = append(owned, tags.Format(Prefix, keyStatus, string(st)))
	}
	if rec.InCleaningList {
		owned = append(owned, tags.Format(Prefix, keyInList, "1"))
	}
	if rec.LastCleanedAt != nil {
		owned = append(owned, tags.Format(Prefix, keyCleanedAt, tags.FormatTime(*rec.LastCleanedAt)))
	}
	if rec.Reason != nil {
		owned = append(owned, tags.Format(Prefix, keyReason, tags.EncodeText(*rec.Reason)))
	}
	owned = append(owned, unknown...)
	return tags.Rebuild(notes, owned)
}

func withoutStatus(unknown []string) []string {
	out := make([]string, 0, len(unknown))
	for _, raw := range unknown {
		if tok, ok := tags.ParseToken(raw, Prefix); ok && tok.Key == keyStatus {
			continue
		}
		out = append(out, raw)
	}
	return out
}

// DaysSince returns whole days elapsed since the last cleaning, or nil when
// the room has never been marked clean.
func DaysSince(lastCleanedAt *time.Time, now time.Time) *int {
	if lastCleanedAt == nil {
		return nil
	}
	d := int(now.Sub(*lastCleanedAt).Hours() / 24)
	if d < 0 {
		d = 0
	}
	return &d
}

// DeriveCleaningListMembership is the single rule deciding whether a room
// belongs on the cleaning list after a status change.
func DeriveCleaningListMembership(st Status) bool { return st == StatusDirty }

// NeedsReason reports statuses that should carry a reason.
func NeedsReason(st Status) bool { return st == StatusMaintenance || st == StatusOutOfOrder }

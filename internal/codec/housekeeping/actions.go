package housekeeping

import (
	"time"

	"frontdesk/internal/codec/tags"
)

// MarkClean stamps the cleaning time and takes the room off the cleaning list.
func MarkClean(now time.Time) Patch {
	st := StatusClean
	return Patch{
		Status:         &st,
		InCleaningList: ptr(DeriveCleaningListMembership(st)),
		LastCleanedAt:  tags.Set(now.UTC()),
	}
}

// MarkDirty leaves LastCleanedAt alone.
func MarkDirty() Patch {
	st := StatusDirty
	return Patch{Status: &st, InCleaningList: ptr(DeriveCleaningListMembership(st))}
}

func ToggleCleaningList(current bool) Patch {
	return Patch{InCleaningList: ptr(!current)}
}

// SetStatus is the status-modal action. A blank reason clears any stored one.
func SetStatus(st Status, reason string) Patch {
	p := Patch{Status: &st, InCleaningList: ptr(DeriveCleaningListMembership(st))}
	if reason == "" {
		p.Reason = tags.Clear[string]()
	} else {
		p.Reason = tags.Set(reason)
	}
	return p
}

func ptr[T any](v T) *T { return &v }

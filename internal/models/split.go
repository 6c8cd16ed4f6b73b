package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitType identifies the strategy that produced an entry's splits.
type SplitType string

const (
	// SplitTypeNone marks an entry whose splits have not been computed yet.
	SplitTypeNone       SplitType = "NONE"
	SplitTypeEqual      SplitType = "EQUAL"
	SplitTypePercentage SplitType = "PERCENTAGE"
	SplitTypeManual     SplitType = "MANUAL"
)

// Valid reports whether t is one of the allocation strategies.
func (t SplitType) Valid() bool {
	switch t {
	case SplitTypeEqual, SplitTypePercentage, SplitTypeManual:
		return true
	}
	return false
}

// Entry represents one recorded expense in a group.
type Entry struct {
	// ID is the unique identifier for the entry (UUID format). Immutable.
	ID string

	// GroupID is the group that owns this entry. Set once at creation.
	GroupID string

	// Title is the human-readable description (e.g., "Groceries").
	Title string

	// Amount is the entry total. Always equals the sum of Splits amounts
	// once splits have been computed.
	Amount decimal.Decimal

	// SplitType records how Splits was last produced.
	SplitType SplitType

	// Splits holds one obligation per participating member, in allocation order.
	Splits []Split

	// CreatedBy is the user ID that recorded the entry.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the entry was created.
	CreatedAt int64

	// Version is bumped by the store on every save and used for
	// optimistic concurrency control.
	Version int64
}

// Split represents one member's obligation for one entry.
type Split struct {
	// UserID is the member who owes this share. Unique within an entry.
	UserID string

	// Amount is the member's share of the entry total.
	Amount decimal.Decimal

	// Paid is true once the member has settled this share.
	Paid bool

	// PaidDate is when the share was settled. Nil unless Paid.
	PaidDate *time.Time
}

// SplitFor returns the index of userID's split, or -1.
func (e *Entry) SplitFor(userID string) int {
	for i := range e.Splits {
		if e.Splits[i].UserID == userID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the entry so callers can mutate splits
// without touching a shared value.
func (e *Entry) Clone() *Entry {
	c := *e
	if e.Splits != nil {
		c.Splits = make([]Split, len(e.Splits))
		for i, s := range e.Splits {
			if s.PaidDate != nil {
				t := *s.PaidDate
				s.PaidDate = &t
			}
			c.Splits[i] = s
		}
	}
	return &c
}

// Package api defines the request and response messages of the splitledger
// RPC services. Every operation has its own typed request; requests that can
// be checked without touching storage implement Validate, which the server
// runs before the handler.
//
// Money fields are decimal.Decimal and travel as JSON strings ("12.50").
package api

import (
	"github.com/shopspring/decimal"
)

// Split is one member's obligation on an entry.
type Split struct {
	UserID   string          `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Paid     bool            `json:"paid"`
	PaidDate string          `json:"paid_date,omitempty"` // RFC 3339, empty unless paid
}

// Entry is a recorded expense with its splits.
type Entry struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	SplitType string          `json:"split_type"`
	Splits    []Split         `json:"splits"`
	CreatedBy string          `json:"created_by"`
	CreatedAt int64           `json:"created_at"`
	Version   int64           `json:"version"`
}

// Member is a group member with a display name when one is known.
type Member struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}

// Group is a set of members sharing entries.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	OwnerID   string   `json:"owner_id"`
	Members   []Member `json:"members"`
	Public    bool     `json:"public"`
	CreatedAt int64    `json:"created_at"`
}

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

// MemberBalance is one member's position across a group's entries.
type MemberBalance struct {
	UserID      string          `json:"user_id"`
	TotalShare  decimal.Decimal `json:"total_share"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Balance     decimal.Decimal `json:"balance"`
}

// EntryResponse is returned by every operation that creates or mutates an entry.
type EntryResponse struct {
	Entry *Entry `json:"entry"`
}

// GroupResponse is returned by every operation that creates or mutates a group.
type GroupResponse struct {
	Group *Group `json:"group"`
}

// Empty is the response of operations that return nothing.
type Empty struct{}

package api

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errTitleRequired = errors.New("title required")

// CreateEntryRequest records a new expense in a group. Splits are computed
// afterwards with one of the SplitService operations.
type CreateEntryRequest struct {
	GroupID string          `json:"group_id"`
	Title   string          `json:"title"`
	Amount  decimal.Decimal `json:"amount"`
}

func (r *CreateEntryRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	if strings.TrimSpace(r.Title) == "" {
		return errTitleRequired
	}
	if r.Amount.IsNegative() {
		return errors.New("amount cannot be negative")
	}
	return nil
}

// GetEntryRequest fetches one entry with its splits.
type GetEntryRequest struct {
	EntryID string `json:"entry_id"`
}

func (r *GetEntryRequest) Validate() error {
	if r.EntryID == "" {
		return errEntryIDRequired
	}
	return nil
}

// ListEntriesRequest lists the entries of group_id, oldest first.
type ListEntriesRequest struct {
	GroupID string `json:"group_id"`
}

func (r *ListEntriesRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	return nil
}

// ListEntriesResponse holds the entries of a group.
type ListEntriesResponse struct {
	Entries []*Entry `json:"entries"`
}

// UpdateEntryRequest renames an entry. Amount and splits change only
// through the SplitService.
type UpdateEntryRequest struct {
	EntryID string `json:"entry_id"`
	Title   string `json:"title"`
}

func (r *UpdateEntryRequest) Validate() error {
	if r.EntryID == "" {
		return errEntryIDRequired
	}
	if strings.TrimSpace(r.Title) == "" {
		return errTitleRequired
	}
	return nil
}

// DeleteEntryRequest removes an entry and its splits.
type DeleteEntryRequest struct {
	EntryID string `json:"entry_id"`
}

func (r *DeleteEntryRequest) Validate() error {
	if r.EntryID == "" {
		return errEntryIDRequired
	}
	return nil
}

package api

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	errEntryIDRequired = errors.New("entry_id required")
	errGroupIDRequired = errors.New("group_id required")
	errUserIDRequired  = errors.New("user_id required")
	errUserIDsRequired = errors.New("user_ids required")
)

// CreateEqualSplitsRequest divides total_amount equally among user_ids.
type CreateEqualSplitsRequest struct {
	EntryID     string          `json:"entry_id"`
	UserIDs     []string        `json:"user_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func (r *CreateEqualSplitsRequest) Validate() error {
	if r.EntryID == "" {
		return errEntryIDRequired
	}
	if len(r.UserIDs) == 0 {
		return errUserIDsRequired
	}
	return nil
}

// CreatePercentageSplitsRequest divides total_amount by percentages,
// which line up with user_ids.
type CreatePercentageSplitsRequest struct {
	EntryID     string            `json:"entry_id"`
	UserIDs     []string          `json:"user_ids"`
	Percentages []decimal.Decimal `json:"percentages"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
}

func (r *CreatePercentageSplitsRequest) Validate() error {
	if r.EntryID == "" {
		return errEntryIDRequired
	}
	if len(r.UserIDs) == 0 {
		return errUserIDsRequired
	}
	if len(r.Percentages) == 0 {
		return errors.New("percentages required")
	}
	return nil
}

// CreateManualSplitsRequest assigns amounts, which line up with user_ids.
// The entry total becomes the sum of amounts.
type CreateManualSplitsRequest struct {
	EntryID string            `json:"entry_id"`
	UserIDs []string          `json:"user_ids"`
	Amounts []decimal.Decimal `json:"amounts"`
}

func (r *CreateManualSplitsRequest) Validate() error {
	if r.EntryID == "" {
		return errEntryIDRequired
	}
	if len(r.UserIDs) == 0 {
		return errUserIDsRequired
	}
	if len(r.Amounts) == 0 {
		return errors.New("amounts required")
	}
	return nil
}

// MarkSplitPaidRequest flags user_id's split on entry_id as paid.
// PaidDate is optional; the server uses the current time when empty.
type MarkSplitPaidRequest struct {
	EntryID  string `json:"entry_id"`
	UserID   string `json:"user_id"`
	PaidDate string `json:"paid_date,omitempty"`
}

func (r *MarkSplitPaidRequest) Validate() error {
	if r.EntryID == "" {
		return errEntryIDRequired
	}
	if r.UserID == "" {
		return errUserIDRequired
	}
	return nil
}

// MarkSplitUnpaidRequest reverts a payment recorded by mistake.
type MarkSplitUnpaidRequest struct {
	EntryID string `json:"entry_id"`
	UserID  string `json:"user_id"`
}

func (r *MarkSplitUnpaidRequest) Validate() error {
	if r.EntryID == "" {
		return errEntryIDRequired
	}
	if r.UserID == "" {
		return errUserIDRequired
	}
	return nil
}

// GetBalanceRequest asks for user_id's balance within group_id.
type GetBalanceRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

func (r *GetBalanceRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	if r.UserID == "" {
		return errUserIDRequired
	}
	return nil
}

// GetBalanceResponse carries a non-positive balance: the negated sum of the
// user's unpaid splits. Zero means fully settled.
type GetBalanceResponse struct {
	UserID  string          `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// GetMyBalanceRequest asks for the caller's balance within group_id.
type GetMyBalanceRequest struct {
	GroupID string `json:"group_id"`
}

func (r *GetMyBalanceRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	return nil
}

// GetMyBalanceResponse is the caller's balance together with their profile.
type GetMyBalanceResponse struct {
	UserID   string          `json:"user_id"`
	Balance  decimal.Decimal `json:"balance"`
	UserInfo *User           `json:"user_info,omitempty"`
}

// ListUnpaidSplitsRequest lists user_id's unpaid splits across group_id.
type ListUnpaidSplitsRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

func (r *ListUnpaidSplitsRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	if r.UserID == "" {
		return errUserIDRequired
	}
	return nil
}

// UnpaidSplit is an unpaid split together with the entry it belongs to.
type UnpaidSplit struct {
	EntryID    string `json:"entry_id"`
	EntryTitle string `json:"entry_title"`
	Split
}

// ListUnpaidSplitsResponse lists unpaid splits in entry order.
type ListUnpaidSplitsResponse struct {
	Splits []UnpaidSplit `json:"splits"`
}

// GetGroupBalancesRequest asks for one balance row per member of group_id.
type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

func (r *GetGroupBalancesRequest) Validate() error {
	if r.GroupID == "" {
		return errGroupIDRequired
	}
	return nil
}

// GetGroupBalancesResponse holds balance rows sorted by user id.
type GetGroupBalancesResponse struct {
	Balances []MemberBalance `json:"balances"`
}

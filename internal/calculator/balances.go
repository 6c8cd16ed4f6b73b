package calculator

import (
	"iter"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// MemberBalance summarizes one member's obligations across a group's entries.
type MemberBalance struct {
	UserID      string
	TotalShare  decimal.Decimal // Sum of every split assigned to the member
	TotalPaid   decimal.Decimal // Portion of TotalShare already settled
	Outstanding decimal.Decimal // Portion of TotalShare still unpaid
	Balance     decimal.Decimal // -Outstanding; zero when fully settled
}

// Balance returns userID's outstanding debt across entries as a non-positive
// number: the negated sum of the user's unpaid splits. Zero means settled.
//
// Entries carry no payer, so this is the amount the user still owes on their
// own shares rather than a net position against other members.
func Balance(entries []*models.Entry, userID string) decimal.Decimal {
	owed := decimal.Zero
	for s := range UnpaidSplits(entries, userID) {
		owed = owed.Add(s.Amount)
	}
	return owed.Neg()
}

// UnpaidSplits yields every unpaid split belonging to userID, in entry order
// and then split order. The sequence is recomputed on each iteration.
func UnpaidSplits(entries []*models.Entry, userID string) iter.Seq[models.Split] {
	return func(yield func(models.Split) bool) {
		for _, e := range entries {
			for _, s := range e.Splits {
				if s.UserID != userID || s.Paid {
					continue
				}
				if !yield(s) {
					return
				}
			}
		}
	}
}

// GroupBalances computes a MemberBalance for every user holding a split in
// entries, sorted by user ID.
func GroupBalances(entries []*models.Entry) []MemberBalance {
	balances := make(map[string]*MemberBalance)

	for _, e := range entries {
		for _, s := range e.Splits {
			bal, exists := balances[s.UserID]
			if !exists {
				bal = &MemberBalance{
					UserID:      s.UserID,
					TotalShare:  decimal.Zero,
					TotalPaid:   decimal.Zero,
					Outstanding: decimal.Zero,
				}
				balances[s.UserID] = bal
			}
			bal.TotalShare = bal.TotalShare.Add(s.Amount)
			if s.Paid {
				bal.TotalPaid = bal.TotalPaid.Add(s.Amount)
			} else {
				bal.Outstanding = bal.Outstanding.Add(s.Amount)
			}
		}
	}

	result := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.Balance = bal.Outstanding.Neg()
		result = append(result, *bal)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result
}

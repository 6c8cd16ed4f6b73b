package calculator

import (
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// MarkPaid flags userID's split on entry as paid at paidAt.
// Marking an already paid split again only moves its PaidDate.
func MarkPaid(entry *models.Entry, userID string, paidAt time.Time) error {
	i := entry.SplitFor(userID)
	if i < 0 {
		return &models.NotFoundError{Kind: "participant", ID: userID}
	}
	entry.Splits[i].Paid = true
	entry.Splits[i].PaidDate = &paidAt
	return nil
}

// MarkUnpaid reverts userID's split to unpaid and clears its PaidDate.
func MarkUnpaid(entry *models.Entry, userID string) error {
	i := entry.SplitFor(userID)
	if i < 0 {
		return &models.NotFoundError{Kind: "participant", ID: userID}
	}
	entry.Splits[i].Paid = false
	entry.Splits[i].PaidDate = nil
	return nil
}

package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// AllocationRequest carries the inputs for one allocation strategy.
// Percentages is read only for PERCENTAGE, Amounts only for MANUAL and
// Total is ignored for MANUAL.
type AllocationRequest struct {
	Type        models.SplitType
	UserIDs     []string
	Total       decimal.Decimal
	Percentages []decimal.Decimal
	Amounts     []decimal.Decimal
}

// Allocation is the result of a successful allocation.
type Allocation struct {
	Type   models.SplitType
	Total  decimal.Decimal
	Splits []models.Split
}

// Allocate runs the strategy named by req.Type.
func Allocate(req AllocationRequest) (Allocation, error) {
	var (
		splits []models.Split
		total  = req.Total
		err    error
	)
	switch req.Type {
	case models.SplitTypeEqual:
		splits, err = EqualSplit(req.UserIDs, req.Total)
	case models.SplitTypePercentage:
		splits, err = PercentageSplit(req.UserIDs, req.Percentages, req.Total)
	case models.SplitTypeManual:
		splits, total, err = ManualSplit(req.UserIDs, req.Amounts)
	default:
		return Allocation{}, models.Invalid("split_type", "unknown split type %q", req.Type)
	}
	if err != nil {
		return Allocation{}, err
	}
	return Allocation{Type: req.Type, Total: total, Splits: splits}, nil
}

// Apply replaces the entry's splits, split type and amount with the allocation.
// Any payment state on the previous splits is discarded.
func Apply(entry *models.Entry, a Allocation) {
	entry.Splits = a.Splits
	entry.SplitType = a.Type
	entry.Amount = a.Total
}

package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// unitPlaces is the number of decimal places in the smallest currency unit.
const unitPlaces = 2

var (
	// Unit is the smallest currency unit (one cent).
	Unit = decimal.New(1, -unitPlaces)

	// PercentageTolerance is how far percentages may drift from 100.
	PercentageTolerance = decimal.RequireFromString("0.01")

	hundred = decimal.NewFromInt(100)
)

// EqualSplit divides total equally among userIDs.
//
// The total is handled in whole cents. Any remainder is handed out one cent
// at a time to members in input order, so the first members may carry one
// cent more than the rest and the shares always sum to total.
func EqualSplit(userIDs []string, total decimal.Decimal) ([]models.Split, error) {
	if err := validateMembers(userIDs); err != nil {
		return nil, err
	}
	cents, err := toCents("total_amount", total)
	if err != nil {
		return nil, err
	}

	n := int64(len(userIDs))
	base, remainder := cents/n, cents%n

	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}

	splits := buildSplits(userIDs, shares)
	mustBalance(splits, total)
	return splits, nil
}

// PercentageSplit divides total according to percentages, which must line up
// with userIDs and sum to 100 within PercentageTolerance.
//
// Each share is rounded half-up to the cent. Rounding drift is corrected one
// cent at a time starting from the last member and moving backwards.
func PercentageSplit(userIDs []string, percentages []decimal.Decimal, total decimal.Decimal) ([]models.Split, error) {
	if err := validateMembers(userIDs); err != nil {
		return nil, err
	}
	if len(percentages) != len(userIDs) {
		return nil, models.Invalid("percentages", "got %d percentages for %d members", len(percentages), len(userIDs))
	}
	_, err := toCents("total_amount", total)
	if err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for i, p := range percentages {
		if p.IsNegative() {
			return nil, models.Invalid("percentages", "percentage for %s is negative", userIDs[i])
		}
		sum = sum.Add(p)
	}
	if sum.Sub(hundred).Abs().GreaterThan(PercentageTolerance) {
		return nil, models.Invalid("percentages", "percentages sum to %s, want 100", sum.String())
	}

	shares := make([]int64, len(userIDs))
	allocated := decimal.Zero
	for i, p := range percentages {
		// Round is half away from zero, which is half-up for non-negative shares.
		share := p.Mul(total).Div(hundred).Round(unitPlaces)
		c, ok := centsOf(share)
		if !ok {
			return nil, models.Invalid("total_amount", "%s is too large to split", total.String())
		}
		shares[i] = c
		allocated = allocated.Add(share)
	}

	drift, ok := centsOf(total.Sub(allocated))
	if !ok {
		return nil, models.Invalid("total_amount", "%s is too large to split", total.String())
	}
	correct(shares, drift)

	splits := buildSplits(userIDs, shares)
	mustBalance(splits, total)
	return splits, nil
}

// ManualSplit pairs each member with an explicit amount. The returned total
// is the sum of amounts; there is no independently supplied total.
func ManualSplit(userIDs []string, amounts []decimal.Decimal) ([]models.Split, decimal.Decimal, error) {
	if err := validateMembers(userIDs); err != nil {
		return nil, decimal.Zero, err
	}
	if len(amounts) != len(userIDs) {
		return nil, decimal.Zero, models.Invalid("amounts", "got %d amounts for %d members", len(amounts), len(userIDs))
	}

	total := decimal.Zero
	splits := make([]models.Split, len(userIDs))
	for i, id := range userIDs {
		if amounts[i].IsNegative() {
			return nil, decimal.Zero, models.Invalid("amounts", "amount for %s is negative", id)
		}
		splits[i] = models.Split{UserID: id, Amount: amounts[i]}
		total = total.Add(amounts[i])
	}

	mustBalance(splits, total)
	return splits, total, nil
}

// correct spreads drift cents over shares starting from the last member.
// A negative drift never takes a share below zero. Whole passes over the
// members are applied in bulk, then the last partial pass one cent at a time.
func correct(shares []int64, drift int64) {
	for drift != 0 {
		step := int64(1)
		if drift < 0 {
			step = -1
		}
		adjustable := func(s int64) bool { return step > 0 || s > 0 }

		var eligible int64
		lowest := int64(math.MaxInt64)
		for _, s := range shares {
			if adjustable(s) {
				eligible++
				lowest = min(lowest, s)
			}
		}
		if eligible == 0 {
			panic(fmt.Sprintf("calculator: cannot absorb %d cents of rounding drift", drift))
		}

		passes := drift * step / eligible
		if step < 0 {
			passes = min(passes, lowest)
		}
		if passes > 0 {
			for i, s := range shares {
				if adjustable(s) {
					shares[i] += step * passes
				}
			}
			drift -= step * passes * eligible
			continue
		}

		for i := len(shares) - 1; i >= 0 && drift != 0; i-- {
			if adjustable(shares[i]) {
				shares[i] += step
				drift -= step
			}
		}
	}
}

// validateMembers rejects empty lists, blank IDs and duplicates.
func validateMembers(userIDs []string) error {
	if len(userIDs) == 0 {
		return models.Invalid("user_ids", "must have at least one member")
	}
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id == "" {
			return models.Invalid("user_ids", "member id cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return models.Invalid("user_ids", "duplicate member %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// toCents converts a non-negative amount with at most two decimal places to cents.
func toCents(field string, amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, models.Invalid(field, "cannot be negative")
	}
	if !amount.Equal(amount.Truncate(unitPlaces)) {
		return 0, models.Invalid(field, "%s is finer than the currency unit %s", amount.String(), Unit.String())
	}
	cents, ok := centsOf(amount)
	if !ok {
		return 0, models.Invalid(field, "%s is too large to split", amount.String())
	}
	return cents, nil
}

// centsOf converts a whole-cent amount to cents, reporting false when the
// result does not fit in an int64.
func centsOf(amount decimal.Decimal) (int64, bool) {
	c := amount.Shift(unitPlaces)
	if !c.BigInt().IsInt64() {
		return 0, false
	}
	return c.IntPart(), true
}

func buildSplits(userIDs []string, cents []int64) []models.Split {
	splits := make([]models.Split, len(userIDs))
	for i, id := range userIDs {
		splits[i] = models.Split{UserID: id, Amount: decimal.New(cents[i], -unitPlaces)}
	}
	return splits
}

// mustBalance panics when splits do not add up to total. That can only
// happen through a bug in this package, never through user input.
func mustBalance(splits []models.Split, total decimal.Decimal) {
	if sum := SumSplits(splits); !sum.Equal(total) {
		panic(fmt.Sprintf("calculator: splits sum to %s, entry total is %s", sum.String(), total.String()))
	}
}

// SumSplits adds up the amounts of splits.
func SumSplits(splits []models.Split) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Amount)
	}
	return sum
}

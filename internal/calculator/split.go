package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SplitType is the policy for dividing an expense's amount across members.
type SplitType string

const (
	SplitEqual      SplitType = "EQUAL"
	SplitExact      SplitType = "EXACT"
	SplitPercentage SplitType = "PERCENTAGE"
	SplitShares     SplitType = "SHARES"
)

// DefaultPlaces is the number of decimal places of the currency's minor unit.
const DefaultPlaces int32 = 2

var hundred = decimal.NewFromInt(100)

// ShareInput is a caller-supplied share. Value is interpreted by split type:
// an amount for EXACT, a percentage for PERCENTAGE, a weight for SHARES.
type ShareInput struct {
	MemberID string
	Value    decimal.Decimal
}

// BuildShares turns a split request into concrete per-member share amounts.
//
// EQUAL splits amount across participants. PERCENTAGE and SHARES split it in
// proportion to each input's value. In all three, each share is rounded down
// to places decimals and the leftover minor units are handed out one at a
// time to members in ascending ID order, so the shares always sum to amount.
// EXACT takes the inputs as-is and requires them to sum to amount.
func BuildShares(splitType SplitType, amount decimal.Decimal, participants []string, inputs []ShareInput, places int32) ([]Share, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive, got %s", ErrInvalidAmount, amount)
	}
	if !amount.Equal(amount.Truncate(places)) {
		return nil, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, amount, places)
	}

	switch splitType {
	case SplitEqual:
		if len(participants) == 0 {
			return nil, ErrNoParticipants
		}
		if err := checkDuplicates(participants); err != nil {
			return nil, err
		}
		weights := make([]decimal.Decimal, len(participants))
		for i := range weights {
			weights[i] = decimal.NewFromInt(1)
		}
		return distribute(amount, participants, weights, places), nil

	case SplitExact:
		members, values, err := unpackInputs(inputs)
		if err != nil {
			return nil, err
		}
		shares := make([]Share, len(members))
		total := decimal.Zero
		for i, m := range members {
			if values[i].IsNegative() {
				return nil, fmt.Errorf("%w: share for %s is negative", ErrInvalidAmount, m)
			}
			if !values[i].Equal(values[i].Truncate(places)) {
				return nil, fmt.Errorf("%w: share %s has more than %d decimal places", ErrInvalidAmount, values[i], places)
			}
			shares[i] = Share{MemberID: m, Amount: values[i]}
			total = total.Add(values[i])
		}
		if !total.Equal(amount) {
			return nil, fmt.Errorf("%w: shares total %s, expense is %s", ErrInconsistentShareSum, total, amount)
		}
		return shares, nil

	case SplitPercentage:
		members, values, err := unpackInputs(inputs)
		if err != nil {
			return nil, err
		}
		total := decimal.Zero
		for i, v := range values {
			if v.IsNegative() {
				return nil, fmt.Errorf("%w: percentage for %s is negative", ErrInvalidAmount, members[i])
			}
			total = total.Add(v)
		}
		if !total.Equal(hundred) {
			return nil, fmt.Errorf("%w: percentages total %s, want 100", ErrInconsistentShareSum, total)
		}
		return distribute(amount, members, values, places), nil

	case SplitShares:
		members, values, err := unpackInputs(inputs)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			if !v.IsPositive() {
				return nil, fmt.Errorf("%w: weight for %s must be positive", ErrInvalidAmount, members[i])
			}
		}
		return distribute(amount, members, values, places), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedSplitType, splitType)
}

// distribute splits amount proportionally to weights (which must sum to a
// positive value) and assigns the rounding remainder in ascending member order.
func distribute(amount decimal.Decimal, members []string, weights []decimal.Decimal, places int32) []Share {
	totalWeight := decimal.Zero
	for _, w := range weights {
		totalWeight = totalWeight.Add(w)
	}

	shares := make([]Share, len(members))
	allocated := decimal.Zero
	for i, m := range members {
		portion := amount.Mul(weights[i]).Div(totalWeight).RoundDown(places)
		shares[i] = Share{MemberID: m, Amount: portion}
		allocated = allocated.Add(portion)
	}

	unit := decimal.New(1, -places)
	remaining := amount.Sub(allocated).Div(unit).IntPart()
	if remaining == 0 {
		return shares
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return shares[order[a]].MemberID < shares[order[b]].MemberID
	})
	for k := 0; remaining > 0; k = (k + 1) % len(order) {
		idx := order[k]
		if weights[idx].IsZero() {
			continue
		}
		shares[idx].Amount = shares[idx].Amount.Add(unit)
		remaining--
	}
	return shares
}

func unpackInputs(inputs []ShareInput) ([]string, []decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, nil, ErrNoParticipants
	}
	members := make([]string, len(inputs))
	values := make([]decimal.Decimal, len(inputs))
	for i, in := range inputs {
		members[i] = in.MemberID
		values[i] = in.Value
	}
	if err := checkDuplicates(members); err != nil {
		return nil, nil, err
	}
	return members, values, nil
}

func checkDuplicates(members []string) error {
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if seen[m] {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, m)
		}
		seen[m] = true
	}
	return nil
}

// ValidateShares checks an expense before it is stored: positive amount,
// payer and every share holder in members, no negative shares, and shares
// summing exactly to the amount.
func ValidateShares(members []string, expense ExpenseForBalance) error {
	if !expense.Amount.IsPositive() {
		return fmt.Errorf("%w: expense amount must be positive, got %s", ErrInvalidAmount, expense.Amount)
	}

	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m] = true
	}
	if !known[expense.PayerID] {
		return &MemberError{MemberID: expense.PayerID, Source: fmt.Sprintf("expense %s payer", expense.ID)}
	}

	total := decimal.Zero
	for _, s := range expense.Shares {
		if !known[s.MemberID] {
			return &MemberError{MemberID: s.MemberID, Source: fmt.Sprintf("expense %s share", expense.ID)}
		}
		if s.Amount.IsNegative() {
			return fmt.Errorf("%w: share for %s is negative", ErrInvalidAmount, s.MemberID)
		}
		total = total.Add(s.Amount)
	}
	if !total.Equal(expense.Amount) {
		return fmt.Errorf("%w: shares total %s, expense is %s", ErrInconsistentShareSum, total, expense.Amount)
	}
	return nil
}

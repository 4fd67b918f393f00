package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Balances maps a member ID to their signed net balance.
// Positive = owed money, Negative = owes money.
type Balances map[string]decimal.Decimal

// Sum returns the total of all balances. It is zero for a consistent group.
func (b Balances) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// Clone returns an independent copy of the balances.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Share is one member's portion of an expense.
type Share struct {
	MemberID string
	Amount   decimal.Decimal
}

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	ID      string
	PayerID string
	Amount  decimal.Decimal
	Shares  []Share
}

// PaymentForBalance represents a direct payment with the minimal information needed for balance calculations.
type PaymentForBalance struct {
	ID     string
	FromID string // Who paid (debtor settling up)
	ToID   string // Who received (creditor being paid)
	Amount decimal.Decimal
}

// ComputeBalances folds a group's expenses and payments into one net balance
// per member.
//
// Algorithm:
//   - Every member starts at zero, so members with no activity still appear
//   - For each expense: payer gets +amount, each share holder gets -share
//   - For each payment: sender gets +amount, receiver gets -amount
//
// Any payer, share holder or payment party outside members fails with a
// *MemberError; no balance is ever created outside the member set. The
// shares of an expense are assumed to sum to its amount (see ValidateShares).
func ComputeBalances(members []string, expenses []ExpenseForBalance, payments []PaymentForBalance) (Balances, error) {
	balances := make(Balances, len(members))
	for _, m := range members {
		balances[m] = decimal.Zero
	}

	credit := func(member, source string, amount decimal.Decimal) error {
		current, ok := balances[member]
		if !ok {
			return &MemberError{MemberID: member, Source: source}
		}
		balances[member] = current.Add(amount)
		return nil
	}

	for _, e := range expenses {
		if err := credit(e.PayerID, fmt.Sprintf("expense %s payer", e.ID), e.Amount); err != nil {
			return nil, err
		}
		for _, s := range e.Shares {
			if err := credit(s.MemberID, fmt.Sprintf("expense %s share", e.ID), s.Amount.Neg()); err != nil {
				return nil, err
			}
		}
	}

	for _, p := range payments {
		if err := credit(p.FromID, fmt.Sprintf("payment %s sender", p.ID), p.Amount); err != nil {
			return nil, err
		}
		if err := credit(p.ToID, fmt.Sprintf("payment %s recipient", p.ID), p.Amount.Neg()); err != nil {
			return nil, err
		}
	}

	return balances, nil
}

package calculator

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Settlement is a recommended transfer that clears part of the group's debt.
type Settlement struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

type position struct {
	member string
	amount decimal.Decimal
}

// Simplify reduces a balance map to a short list of transfers using greedy
// matching: the largest remaining debtor pays the largest remaining creditor
// until one side runs out.
//
// Creditors and debtors are ordered by amount descending, ties by member ID
// ascending, so the output is deterministic. Zero balances never produce a
// transfer. An empty or fully settled map yields an empty, non-nil slice.
func Simplify(balances Balances) []Settlement {
	var creditors, debtors []position
	for member, bal := range balances {
		switch bal.Sign() {
		case 1:
			creditors = append(creditors, position{member: member, amount: bal})
		case -1:
			debtors = append(debtors, position{member: member, amount: bal.Neg()})
		}
	}
	sortPositions(creditors)
	sortPositions(debtors)

	settlements := make([]Settlement, 0, max(len(creditors)+len(debtors)-1, 0))
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		settled := decimal.Min(creditors[i].amount, debtors[j].amount)

		settlements = append(settlements, Settlement{
			From:   debtors[j].member,
			To:     creditors[i].member,
			Amount: settled,
		})

		creditors[i].amount = creditors[i].amount.Sub(settled)
		debtors[j].amount = debtors[j].amount.Sub(settled)

		if creditors[i].amount.IsZero() {
			i++
		}
		if debtors[j].amount.IsZero() {
			j++
		}
	}

	return settlements
}

func sortPositions(p []position) {
	slices.SortFunc(p, func(a, b position) int {
		if c := b.amount.Cmp(a.amount); c != 0 {
			return c
		}
		return strings.Compare(a.member, b.member)
	})
}

// ApplySettlements replays settlements onto a copy of balances: the sender's
// balance rises and the receiver's falls by the transferred amount.
func ApplySettlements(balances Balances, settlements []Settlement) Balances {
	out := balances.Clone()
	for _, s := range settlements {
		out[s.From] = out[s.From].Add(s.Amount)
		out[s.To] = out[s.To].Sub(s.Amount)
	}
	return out
}

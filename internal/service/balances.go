package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// BalanceQuery answers "who owes whom" for a group. It is shared by the
// Connect GroupService and the REST router.
type BalanceQuery struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewBalanceQuery creates a BalanceQuery. m may be nil.
func NewBalanceQuery(store storage.Store, m *metrics.Metrics) *BalanceQuery {
	return &BalanceQuery{store: store, metrics: m}
}

// Get computes every member's net balance and the simplified settle-up plan
// for groupID. userID must be a member of the group.
func (q *BalanceQuery) Get(ctx context.Context, groupID, userID string) (*api.GetGroupBalancesResponse, error) {
	resp, err := q.get(ctx, groupID, userID)
	settlements := 0
	if resp != nil {
		settlements = len(resp.Simplified)
	}
	q.metrics.ObserveBalanceQuery(settlements, err)
	return resp, err
}

func (q *BalanceQuery) get(ctx context.Context, groupID, userID string) (*api.GetGroupBalancesResponse, error) {
	snap, err := q.store.GroupSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !snap.Group.HasMember(userID) {
		return nil, errNotMember(groupID)
	}

	expenses := make([]calculator.ExpenseForBalance, len(snap.Expenses))
	for i, e := range snap.Expenses {
		shares := make([]calculator.Share, len(e.Shares))
		for j, s := range e.Shares {
			shares[j] = calculator.Share{MemberID: s.UserID, Amount: s.Amount}
		}
		expenses[i] = calculator.ExpenseForBalance{
			ID:      e.ID,
			PayerID: e.PaidBy,
			Amount:  e.Amount,
			Shares:  shares,
		}
	}

	payments := make([]calculator.PaymentForBalance, len(snap.Payments))
	for i, p := range snap.Payments {
		payments[i] = calculator.PaymentForBalance{
			ID:     p.ID,
			FromID: p.FromUserID,
			ToID:   p.ToUserID,
			Amount: p.Amount,
		}
	}

	balances, err := calculator.ComputeBalances(snap.Group.Members, expenses, payments)
	if err != nil {
		// Writes validate membership, so this is stored-data corruption.
		return nil, fmt.Errorf("%w: group %s: %v", ErrInconsistentLedger, groupID, err)
	}
	if sum := balances.Sum(); !sum.IsZero() {
		return nil, fmt.Errorf("%w: group %s balances sum to %s", ErrInconsistentLedger, groupID, sum)
	}

	settlements := calculator.Simplify(balances)
	if left := unsettled(balances, settlements); len(left) > 0 {
		slog.Warn("Settlement plan leaves residual", "group_id", groupID, "members", left)
	}
	simplified := make([]api.Settlement, len(settlements))
	for i, s := range settlements {
		simplified[i] = api.Settlement{FromUserID: s.From, ToUserID: s.To, Amount: s.Amount}
	}

	slog.Debug("Computed group balances",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"payments_count", len(payments),
		"settlements_count", len(simplified),
	)

	return &api.GetGroupBalancesResponse{
		Balances:   balances,
		Simplified: simplified,
	}, nil
}

// unsettled replays settlements over balances and returns, sorted, the
// members left with a non-zero balance.
func unsettled(balances calculator.Balances, settlements []calculator.Settlement) []string {
	var left []string
	for id, v := range calculator.ApplySettlements(balances, settlements) {
		if !v.IsZero() {
			left = append(left, id)
		}
	}
	slices.Sort(left)
	return left
}

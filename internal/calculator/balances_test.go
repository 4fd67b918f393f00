package calculator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeBalances(t *testing.T) {
	members := []string{"A", "B", "C"}

	tests := []struct {
		name     string
		expenses []ExpenseForBalance
		payments []PaymentForBalance
		want     map[string]string
	}{
		{
			name: "single equal expense",
			expenses: []ExpenseForBalance{
				{ID: "e1", PayerID: "A", Amount: d("90"),
					Shares: []Share{{"A", d("30")}, {"B", d("30")}, {"C", d("30")}}},
			},
			want: map[string]string{"A": "60", "B": "-30", "C": "-30"},
		},
		{
			name: "no activity keeps every member at zero",
			want: map[string]string{"A": "0", "B": "0", "C": "0"},
		},
		{
			name: "expenses from different payers net out",
			expenses: []ExpenseForBalance{
				{ID: "e1", PayerID: "A", Amount: d("30"),
					Shares: []Share{{"A", d("15")}, {"B", d("15")}}},
				{ID: "e2", PayerID: "B", Amount: d("30"),
					Shares: []Share{{"A", d("15")}, {"B", d("15")}}},
			},
			want: map[string]string{"A": "0", "B": "0", "C": "0"},
		},
		{
			name: "payer not among shares",
			expenses: []ExpenseForBalance{
				{ID: "e1", PayerID: "C", Amount: d("20"),
					Shares: []Share{{"A", d("12.5")}, {"B", d("7.5")}}},
			},
			want: map[string]string{"A": "-12.5", "B": "-7.5", "C": "20"},
		},
		{
			name: "payment reduces the sender's debt",
			expenses: []ExpenseForBalance{
				{ID: "e1", PayerID: "A", Amount: d("90"),
					Shares: []Share{{"A", d("30")}, {"B", d("30")}, {"C", d("30")}}},
			},
			payments: []PaymentForBalance{
				{ID: "p1", FromID: "B", ToID: "A", Amount: d("30")},
			},
			want: map[string]string{"A": "30", "B": "0", "C": "-30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(members, tt.expenses, tt.payments)
			if err != nil {
				t.Fatalf("ComputeBalances() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d balances, want %d", len(got), len(tt.want))
			}
			for member, want := range tt.want {
				bal, ok := got[member]
				if !ok {
					t.Errorf("missing balance for %s", member)
					continue
				}
				if !bal.Equal(d(want)) {
					t.Errorf("%s balance = %s, want %s", member, bal, want)
				}
			}
			if !got.Sum().IsZero() {
				t.Errorf("balances sum to %s, want 0", got.Sum())
			}
		})
	}
}

func TestComputeBalances_UnknownMember(t *testing.T) {
	members := []string{"A", "B"}

	tests := []struct {
		name     string
		expenses []ExpenseForBalance
		payments []PaymentForBalance
		wantID   string
	}{
		{
			name:     "unknown payer",
			expenses: []ExpenseForBalance{{ID: "e1", PayerID: "X", Amount: d("10"), Shares: []Share{{"A", d("10")}}}},
			wantID:   "X",
		},
		{
			name:     "unknown share holder",
			expenses: []ExpenseForBalance{{ID: "e1", PayerID: "A", Amount: d("10"), Shares: []Share{{"Y", d("10")}}}},
			wantID:   "Y",
		},
		{
			name:     "unknown payment recipient",
			payments: []PaymentForBalance{{ID: "p1", FromID: "A", ToID: "Z", Amount: d("5")}},
			wantID:   "Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(members, tt.expenses, tt.payments)
			if !errors.Is(err, ErrUnknownMember) {
				t.Fatalf("expected ErrUnknownMember, got %v", err)
			}
			if got != nil {
				t.Errorf("expected nil balances on error, got %v", got)
			}
			var memberErr *MemberError
			if !errors.As(err, &memberErr) {
				t.Fatalf("expected *MemberError, got %T", err)
			}
			if memberErr.MemberID != tt.wantID {
				t.Errorf("MemberID = %q, want %q", memberErr.MemberID, tt.wantID)
			}
		})
	}
}

// randomExpenses builds expenses whose shares always sum to the amount.
func randomExpenses(r *rand.Rand, members []string, n int) []ExpenseForBalance {
	expenses := make([]ExpenseForBalance, n)
	for i := range expenses {
		amount := decimal.New(int64(r.Intn(100000)+1), -2)
		count := r.Intn(len(members)) + 1
		perm := r.Perm(len(members))
		participants := make([]string, count)
		for k := 0; k < count; k++ {
			participants[k] = members[perm[k]]
		}
		shares, err := BuildShares(SplitEqual, amount, participants, nil, DefaultPlaces)
		if err != nil {
			panic(err)
		}
		expenses[i] = ExpenseForBalance{
			ID:      string(rune('a' + i%26)),
			PayerID: members[r.Intn(len(members))],
			Amount:  amount,
			Shares:  shares,
		}
	}
	return expenses
}

func TestComputeBalances_Conservation(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	members := []string{"ann", "bob", "cat", "dan", "eve"}

	for round := 0; round < 50; round++ {
		expenses := randomExpenses(r, members, r.Intn(20)+1)
		balances, err := ComputeBalances(members, expenses, nil)
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		if !balances.Sum().IsZero() {
			t.Fatalf("round %d: balances sum to %s", round, balances.Sum())
		}
	}
}

func TestComputeBalances_OrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	members := []string{"ann", "bob", "cat", "dan"}
	expenses := randomExpenses(r, members, 15)

	want, err := ComputeBalances(members, expenses, nil)
	if err != nil {
		t.Fatal(err)
	}

	for round := 0; round < 10; round++ {
		shuffled := make([]ExpenseForBalance, len(expenses))
		copy(shuffled, expenses)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := ComputeBalances(members, shuffled, nil)
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range members {
			if !got[m].Equal(want[m]) {
				t.Errorf("round %d: %s = %s, want %s", round, m, got[m], want[m])
			}
		}
	}
}

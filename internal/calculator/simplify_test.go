package calculator

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func balancesOf(kv map[string]string) Balances {
	b := make(Balances, len(kv))
	for k, v := range kv {
		b[k] = d(v)
	}
	return b
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]string
		want     []Settlement
	}{
		{
			name:     "one creditor two debtors with tie",
			balances: map[string]string{"A": "60", "B": "-30", "C": "-30"},
			want: []Settlement{
				{From: "B", To: "A", Amount: d("30")},
				{From: "C", To: "A", Amount: d("30")},
			},
		},
		{
			name:     "larger debtor pays first",
			balances: map[string]string{"A": "100", "B": "-60", "C": "-40"},
			want: []Settlement{
				{From: "B", To: "A", Amount: d("60")},
				{From: "C", To: "A", Amount: d("40")},
			},
		},
		{
			name:     "two by two pairs by id",
			balances: map[string]string{"A": "50", "B": "50", "C": "-50", "D": "-50"},
			want: []Settlement{
				{From: "C", To: "A", Amount: d("50")},
				{From: "D", To: "B", Amount: d("50")},
			},
		},
		{
			name:     "debtor split across creditors",
			balances: map[string]string{"A": "70", "B": "30", "C": "-100"},
			want: []Settlement{
				{From: "C", To: "A", Amount: d("70")},
				{From: "C", To: "B", Amount: d("30")},
			},
		},
		{
			name:     "zero balances are ignored",
			balances: map[string]string{"A": "0.01", "B": "0", "C": "-0.01"},
			want: []Settlement{
				{From: "C", To: "A", Amount: d("0.01")},
			},
		},
		{
			name:     "all settled",
			balances: map[string]string{"A": "0", "B": "0"},
			want:     []Settlement{},
		},
		{
			name:     "empty group",
			balances: map[string]string{},
			want:     []Settlement{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(balancesOf(tt.balances))
			if got == nil {
				t.Fatal("Simplify() returned nil, want non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d settlements %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("settlement %d = %s->%s %s, want %s->%s %s", i,
						got[i].From, got[i].To, got[i].Amount,
						tt.want[i].From, tt.want[i].To, tt.want[i].Amount)
				}
			}
		})
	}
}

func TestSimplify_EndToEnd(t *testing.T) {
	members := []string{"A", "B", "C"}
	shares, err := BuildShares(SplitEqual, d("90"), members, nil, DefaultPlaces)
	if err != nil {
		t.Fatal(err)
	}
	balances, err := ComputeBalances(members, []ExpenseForBalance{{ID: "e1", PayerID: "A", Amount: d("90"), Shares: shares}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := Simplify(balances)
	if len(got) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(got))
	}
	if got[0].From != "B" || got[1].From != "C" {
		t.Errorf("unexpected order: %v", got)
	}
	for _, s := range got {
		if s.To != "A" || !s.Amount.Equal(d("30")) {
			t.Errorf("unexpected settlement %s->%s %s", s.From, s.To, s.Amount)
		}
	}
}

func randomBalances(r *rand.Rand, n int) Balances {
	b := make(Balances, n)
	total := decimal.Zero
	for i := 0; i < n-1; i++ {
		v := decimal.New(int64(r.Intn(20001)-10000), -2)
		b[string(rune('A'+i))] = v
		total = total.Add(v)
	}
	b[string(rune('A'+n-1))] = total.Neg()
	return b
}

func TestSimplify_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for round := 0; round < 200; round++ {
		balances := randomBalances(r, r.Intn(12)+1)
		settlements := Simplify(balances)

		creditors, debtors := 0, 0
		positive := decimal.Zero
		for _, v := range balances {
			switch v.Sign() {
			case 1:
				creditors++
				positive = positive.Add(v)
			case -1:
				debtors++
			}
		}

		if bound := creditors + debtors - 1; creditors+debtors > 0 && len(settlements) > bound {
			t.Fatalf("round %d: %d settlements exceeds bound %d", round, len(settlements), bound)
		}

		settled := decimal.Zero
		for _, s := range settlements {
			if !s.Amount.IsPositive() {
				t.Fatalf("round %d: non-positive settlement %v", round, s)
			}
			settled = settled.Add(s.Amount)
		}
		if !settled.Equal(positive) {
			t.Fatalf("round %d: settled %s, want %s", round, settled, positive)
		}

		for member, v := range ApplySettlements(balances, settlements) {
			if !v.IsZero() {
				t.Fatalf("round %d: %s left with %s after replay", round, member, v)
			}
		}
	}
}

func TestApplySettlements_DoesNotMutate(t *testing.T) {
	balances := balancesOf(map[string]string{"A": "10", "B": "-10"})
	after := ApplySettlements(balances, []Settlement{{From: "B", To: "A", Amount: d("10")}})

	if !balances["A"].Equal(d("10")) {
		t.Errorf("input mutated: A = %s", balances["A"])
	}
	if !after["A"].IsZero() || !after["B"].IsZero() {
		t.Errorf("expected zeros after replay, got %v", after)
	}
}

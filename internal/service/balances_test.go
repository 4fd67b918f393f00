package service

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
)

func TestUnsettled(t *testing.T) {
	balances := calculator.Balances{
		"alice": decimal.RequireFromString("60"),
		"bob":   decimal.RequireFromString("-30"),
		"carol": decimal.RequireFromString("-30"),
	}

	tests := []struct {
		name        string
		settlements []calculator.Settlement
		want        []string
	}{
		{
			name:        "simplified plan settles everyone",
			settlements: calculator.Simplify(balances),
		},
		{
			name: "partial plan",
			settlements: []calculator.Settlement{
				{From: "bob", To: "alice", Amount: decimal.RequireFromString("30")},
			},
			want: []string{"alice", "carol"},
		},
		{
			name: "no plan",
			want: []string{"alice", "bob", "carol"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unsettled(balances, tt.settlements); !slices.Equal(got, tt.want) {
				t.Errorf("unsettled() = %v, want %v", got, tt.want)
			}
		})
	}
}

package models

import "github.com/shopspring/decimal"

// Payment represents money actually exchanged between two members, outside
// expense splitting. Payments feed into group balances.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal

	// GroupID is the group this payment belongs to. Empty for payments
	// outside any group, which never affect group balances.
	GroupID string

	// Description is an optional note for the payment.
	Description string

	// Date is the Unix timestamp when the payment was recorded.
	Date int64
}

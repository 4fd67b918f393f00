package models

import "github.com/shopspring/decimal"

// Recurrence patterns for recurring expenses.
const (
	RecurrenceDaily   = "DAILY"
	RecurrenceWeekly  = "WEEKLY"
	RecurrenceMonthly = "MONTHLY"
)

// Expense represents money one member paid on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is a human-readable label (e.g., "Groceries").
	Description string

	// Amount is the total paid. Always positive.
	Amount decimal.Decimal

	// PaidBy is the user ID of the payer.
	PaidBy string

	// GroupID is the group this expense belongs to.
	GroupID string

	// SplitType is how Amount was divided: EQUAL, EXACT, PERCENTAGE or SHARES.
	SplitType string

	// Shares are the resolved per-member amounts. They sum to Amount.
	Shares []ExpenseShare

	// Date is the Unix timestamp of the expense.
	Date int64

	// IsRecurring marks expenses that repeat on RecurrencePattern.
	IsRecurring bool

	// RecurrencePattern is DAILY, WEEKLY or MONTHLY when IsRecurring is set.
	RecurrencePattern string
}

// ExpenseShare is one member's portion of an expense.
type ExpenseShare struct {
	UserID string
	Amount decimal.Decimal
}

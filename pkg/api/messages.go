// Package api defines the splitledger.v1 RPC surface: message types, the
// JSON codec they travel in, and Connect handler and client constructors.
//
// Amounts are decimal strings on the wire ("12.50"), never floats.
package api

import "github.com/shopspring/decimal"

// User is the public view of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Password    string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Group is a set of members sharing expenses.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	CreatedBy   string   `json:"created_by"`
	Members     []string `json:"members"`
	CreatedAt   int64    `json:"created_at"`

	// MemberNames maps member ID to display name. Only GetGroup fills it.
	MemberNames map[string]string `json:"member_names,omitempty"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct {
	Offset int `json:"offset,omitempty" validate:"gte=0"`
	Limit  int `json:"limit,omitempty" validate:"gte=0,lte=500"`
}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type DeleteGroupResponse struct{}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

// Settlement is a recommended transfer from a debtor to a creditor.
type Settlement struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// GetGroupBalancesResponse carries every member's signed balance
// (positive = is owed) and the simplified settle-up plan.
type GetGroupBalancesResponse struct {
	Balances   map[string]decimal.Decimal `json:"balances"`
	Simplified []Settlement               `json:"simplified"`
}

// Share is one member's resolved portion of an expense.
type Share struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

type Expense struct {
	ID                string          `json:"id"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	PaidBy            string          `json:"paid_by"`
	GroupID           string          `json:"group_id"`
	SplitType         string          `json:"split_type"`
	Shares            []Share         `json:"shares"`
	Date              int64           `json:"date"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurrencePattern string          `json:"recurrence_pattern,omitempty"`
}

// ShareInput is a requested share. Value is an amount for EXACT, a
// percentage for PERCENTAGE and a weight for SHARES.
type ShareInput struct {
	UserID string          `json:"user_id" validate:"required"`
	Value  decimal.Decimal `json:"value"`
}

// CreateExpenseRequest records an expense paid by the caller. For EQUAL
// splits Participants narrows the split; when empty every member shares.
type CreateExpenseRequest struct {
	Description       string          `json:"description" validate:"required,max=200"`
	Amount            decimal.Decimal `json:"amount" validate:"positive_decimal"`
	GroupID           string          `json:"group_id" validate:"required"`
	SplitType         string          `json:"split_type,omitempty" validate:"omitempty,oneof=EQUAL EXACT PERCENTAGE SHARES"`
	Participants      []string        `json:"participants,omitempty" validate:"dive,required"`
	Shares            []ShareInput    `json:"shares,omitempty" validate:"dive"`
	IsRecurring       bool            `json:"is_recurring,omitempty"`
	RecurrencePattern string          `json:"recurrence_pattern,omitempty" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id" validate:"required"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// ListExpensesRequest lists a group's expenses, or the caller's own paid
// expenses when GroupID is empty.
type ListExpensesRequest struct {
	GroupID string `json:"group_id,omitempty"`
	Offset  int    `json:"offset,omitempty" validate:"gte=0"`
	Limit   int    `json:"limit,omitempty" validate:"gte=0,lte=500"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id" validate:"required"`
}

type DeleteExpenseResponse struct{}

type Payment struct {
	ID          string          `json:"id"`
	FromUserID  string          `json:"from_user_id"`
	ToUserID    string          `json:"to_user_id"`
	Amount      decimal.Decimal `json:"amount"`
	GroupID     string          `json:"group_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Date        int64           `json:"date"`
}

type CreatePaymentRequest struct {
	FromUserID  string          `json:"from_user_id" validate:"required"`
	ToUserID    string          `json:"to_user_id" validate:"required,nefield=FromUserID"`
	Amount      decimal.Decimal `json:"amount" validate:"positive_decimal"`
	GroupID     string          `json:"group_id,omitempty"`
	Description string          `json:"description,omitempty" validate:"max=200"`
}

type CreatePaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type GetPaymentRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

type GetPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is wrapped by every lookup that finds no row.
var ErrNotFound = errors.New("not found")

// Page bounds a list query. A zero Limit means DefaultLimit.
type Page struct {
	Offset int
	Limit  int
}

// DefaultLimit is the page size used when none is given.
const DefaultLimit = 100

// GroupSnapshot is a consistent view of everything a balance query needs,
// read in a single transaction.
type GroupSnapshot struct {
	Group    *models.Group
	Expenses []*models.Expense
	Payments []*models.Payment
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to user; unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore

	// CreateGroup persists a new group. The group.ID and CreatedAt fields
	// are populated by the store, and the creator is added as a member.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its member list.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser lists the groups userID is a member of.
	ListGroupsForUser(ctx context.Context, userID string, page Page) ([]*models.Group, error)

	// AddGroupMember adds userID to the group. Adding an existing member is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// DeleteGroup removes a group together with its expenses and payments.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateExpense persists an expense and its shares atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	ListExpensesByGroup(ctx context.Context, groupID string, page Page) ([]*models.Expense, error)
	ListExpensesByPayer(ctx context.Context, userID string, page Page) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error

	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// GroupSnapshot reads the group, all of its expenses and all of its
	// payments in one transaction.
	GroupSnapshot(ctx context.Context, groupID string) (*GroupSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}

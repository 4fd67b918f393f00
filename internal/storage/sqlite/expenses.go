package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = "id, description, amount, paid_by, group_id, split_type, date, is_recurring, recurrence_pattern"

// CreateExpense persists a new expense and its shares in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.Date == 0 {
		expense.Date = time.Now().Unix()
	}

	var pattern any
	if expense.RecurrencePattern != "" {
		pattern = expense.RecurrencePattern
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount, expense.PaidBy, expense.GroupID,
		expense.SplitType, expense.Date, expense.IsRecurring, pattern,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, share := range expense.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, user_id, amount) VALUES (?, ?, ?)",
			expense.ID, share.UserID, share.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expenses, err := listExpenses(ctx, s.db,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`,
		expenseID,
	)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return expenses[0], nil
}

// ListExpensesByGroup retrieves a page of a group's expenses, oldest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string, page storage.Page) ([]*models.Expense, error) {
	limit, offset := limitOffset(page)
	return listExpenses(ctx, s.db,
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = ? ORDER BY date, id LIMIT ? OFFSET ?`,
		groupID, limit, offset,
	)
}

// ListExpensesByPayer retrieves a page of the expenses a user paid, oldest first.
func (s *SQLiteStore) ListExpensesByPayer(ctx context.Context, userID string, page storage.Page) ([]*models.Expense, error) {
	limit, offset := limitOffset(page)
	return listExpenses(ctx, s.db,
		`SELECT `+expenseColumns+` FROM expenses WHERE paid_by = ? ORDER BY date, id LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
}

// DeleteExpense removes an expense and its shares.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// listExpenses runs an expense query and attaches the shares of every row.
func listExpenses(ctx context.Context, q querier, query string, args ...any) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var pattern sql.NullString
		if err := rows.Scan(&expense.ID, &expense.Description, &expense.Amount, &expense.PaidBy, &expense.GroupID,
			&expense.SplitType, &expense.Date, &expense.IsRecurring, &pattern); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if pattern.Valid {
			expense.RecurrencePattern = pattern.String
		}
		expenses = append(expenses, expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := attachShares(ctx, q, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// shareBatchSize bounds the ids bound into one IN clause. SQLite caps a
// statement at 32766 variables.
var shareBatchSize = 500

func attachShares(ctx context.Context, q querier, expenses []*models.Expense) error {
	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}

	for start := 0; start < len(ids); start += shareBatchSize {
		end := min(start+shareBatchSize, len(ids))
		if err := attachShareBatch(ctx, q, byID, ids[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func attachShareBatch(ctx context.Context, q querier, byID map[string]*models.Expense, ids []string) error {
	rows, err := q.QueryContext(ctx,
		`SELECT expense_id, user_id, amount FROM expense_shares
		 WHERE expense_id IN (`+placeholders(len(ids))+`) ORDER BY rowid`,
		anyArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var share models.ExpenseShare
		if err := rows.Scan(&expenseID, &share.UserID, &share.Amount); err != nil {
			return fmt.Errorf("failed to scan expense share: %w", err)
		}
		if e, ok := byID[expenseID]; ok {
			e.Shares = append(e.Shares, share)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense shares: %w", err)
	}
	return nil
}

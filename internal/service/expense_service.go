package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store  storage.Store
	places int32
}

var _ api.ExpenseServiceHandler = (*ExpenseService)(nil)

// NewExpenseService creates an ExpenseService. places is the number of
// decimal places of the currency's minor unit.
func NewExpenseService(store storage.Store, places int32) *ExpenseService {
	return &ExpenseService{store: store, places: places}
}

// CreateExpense records an expense paid by the caller and split across
// group members.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("CreateExpense request received",
		"group_id", msg.GroupID,
		"amount", msg.Amount,
		"split_type", msg.SplitType,
	)

	if err := validateRequest(msg); err != nil {
		return nil, connectError(err)
	}
	if msg.IsRecurring && msg.RecurrencePattern == "" {
		return nil, connectError(fmt.Errorf("%w: recurrence_pattern is required for recurring expenses", ErrInvalidArgument))
	}
	if !msg.IsRecurring && msg.RecurrencePattern != "" {
		return nil, connectError(fmt.Errorf("%w: recurrence_pattern set on a non-recurring expense", ErrInvalidArgument))
	}

	group, err := memberGroup(ctx, s.store, msg.GroupID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	splitType := calculator.SplitType(msg.SplitType)
	if splitType == "" {
		splitType = calculator.SplitEqual
	}
	participants := msg.Participants
	if splitType == calculator.SplitEqual && len(participants) == 0 {
		participants = group.Members
	}
	inputs := make([]calculator.ShareInput, len(msg.Shares))
	for i, in := range msg.Shares {
		inputs[i] = calculator.ShareInput{MemberID: in.UserID, Value: in.Value}
	}

	shares, err := calculator.BuildShares(splitType, msg.Amount, participants, inputs, s.places)
	if err != nil {
		slog.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, connectError(err)
	}
	if err := calculator.ValidateShares(group.Members, calculator.ExpenseForBalance{
		PayerID: userID,
		Amount:  msg.Amount,
		Shares:  shares,
	}); err != nil {
		slog.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, connectError(err)
	}

	expense := &models.Expense{
		Description:       msg.Description,
		Amount:            msg.Amount,
		PaidBy:            userID,
		GroupID:           group.ID,
		SplitType:         string(splitType),
		Shares:            make([]models.ExpenseShare, len(shares)),
		IsRecurring:       msg.IsRecurring,
		RecurrencePattern: msg.RecurrencePattern,
	}
	for i, sh := range shares {
		expense.Shares[i] = models.ExpenseShare{UserID: sh.MemberID, Amount: sh.Amount}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// GetExpense retrieves one expense from a group the caller belongs to.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}
	if _, err := memberGroup(ctx, s.store, expense.GroupID, userID); err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses lists a group's expenses, or the caller's own paid expenses
// when no group is given.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	page := storage.Page{Offset: req.Msg.Offset, Limit: req.Msg.Limit}
	var expenses []*models.Expense
	if req.Msg.GroupID != "" {
		if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
			return nil, connectError(err)
		}
		expenses, err = s.store.ListExpensesByGroup(ctx, req.Msg.GroupID, page)
	} else {
		expenses, err = s.store.ListExpensesByPayer(ctx, userID, page)
	}
	if err != nil {
		slog.Error("ListExpenses failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense. Only its payer may delete it.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}
	if expense.PaidBy != userID {
		return nil, connectError(fmt.Errorf("%w: only the payer can delete an expense", ErrPermissionDenied))
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		return nil, connectError(err)
	}

	slog.Info("Expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

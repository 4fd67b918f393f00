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

// PaymentService implements the Connect PaymentService.
type PaymentService struct {
	store  storage.Store
	places int32
}

var _ api.PaymentServiceHandler = (*PaymentService)(nil)

// NewPaymentService creates a PaymentService. Amounts finer than places
// decimals are rejected.
func NewPaymentService(store storage.Store, places int32) *PaymentService {
	return &PaymentService{store: store, places: places}
}

// CreatePayment records money the caller paid to another user. When a group
// is given both parties must belong to it and the payment feeds its balances.
func (s *PaymentService) CreatePayment(ctx context.Context, req *connect.Request[api.CreatePaymentRequest]) (*connect.Response[api.CreatePaymentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	slog.Info("CreatePayment request received",
		"group_id", msg.GroupID,
		"to_user_id", msg.ToUserID,
		"amount", msg.Amount,
	)

	if err := validateRequest(msg); err != nil {
		return nil, connectError(err)
	}
	if msg.FromUserID != userID {
		return nil, connectError(fmt.Errorf("%w: payments can only be recorded from yourself", ErrPermissionDenied))
	}
	if !msg.Amount.Equal(msg.Amount.Truncate(s.places)) {
		return nil, connectError(fmt.Errorf("%w: %s has more than %d decimal places", calculator.ErrInvalidAmount, msg.Amount, s.places))
	}

	if msg.GroupID != "" {
		group, err := memberGroup(ctx, s.store, msg.GroupID, userID)
		if err != nil {
			return nil, connectError(err)
		}
		if !group.HasMember(msg.ToUserID) {
			return nil, connectError(fmt.Errorf("%w: recipient %s is not a member of group %s", ErrInvalidArgument, msg.ToUserID, group.ID))
		}
	} else {
		to, err := s.store.GetUserByID(ctx, msg.ToUserID)
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		if to == nil {
			return nil, connectError(fmt.Errorf("user %s: %w", msg.ToUserID, storage.ErrNotFound))
		}
	}

	payment := &models.Payment{
		FromUserID:  userID,
		ToUserID:    msg.ToUserID,
		Amount:      msg.Amount,
		GroupID:     msg.GroupID,
		Description: msg.Description,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("CreatePayment failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Payment created", "payment_id", payment.ID)
	return connect.NewResponse(&api.CreatePaymentResponse{Payment: paymentToAPI(payment)}), nil
}

// GetPayment retrieves one payment. Group payments are visible to the
// group's members; others only to the two parties.
func (s *PaymentService) GetPayment(ctx context.Context, req *connect.Request[api.GetPaymentRequest]) (*connect.Response[api.GetPaymentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	payment, err := s.store.GetPayment(ctx, req.Msg.PaymentID)
	if err != nil {
		return nil, connectError(err)
	}
	if payment.GroupID != "" {
		if _, err := memberGroup(ctx, s.store, payment.GroupID, userID); err != nil {
			return nil, connectError(err)
		}
	} else if userID != payment.FromUserID && userID != payment.ToUserID {
		return nil, connectError(fmt.Errorf("payment %s: %w", payment.ID, storage.ErrNotFound))
	}

	return connect.NewResponse(&api.GetPaymentResponse{Payment: paymentToAPI(payment)}), nil
}

// ListPayments lists a group's payments, oldest first.
func (s *PaymentService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, connectError(err)
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = paymentToAPI(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

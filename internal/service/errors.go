package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	// ErrInvalidArgument wraps every request validation failure.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPermissionDenied is returned when the caller may not act on a resource.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInconsistentLedger means stored data no longer satisfies the
	// balance invariants, e.g. a share held by a non-member.
	ErrInconsistentLedger = errors.New("inconsistent ledger")
)

// CodeOf maps a service, calculator, auth or storage error to a Connect code.
func CodeOf(err error) connect.Code {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return connectErr.Code()
	case errors.Is(err, ErrInconsistentLedger):
		return connect.CodeInternal
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, calculator.ErrUnknownMember),
		errors.Is(err, calculator.ErrInconsistentShareSum),
		errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrDuplicateMember),
		errors.Is(err, calculator.ErrUnsupportedSplitType):
		return connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ErrPermissionDenied):
		return connect.CodePermissionDenied
	case errors.Is(err, auth.ErrEmailExists):
		return connect.CodeAlreadyExists
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return connect.CodeUnauthenticated
	default:
		return connect.CodeInternal
	}
}

// connectError wraps err in a *connect.Error with the code from CodeOf.
func connectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	return connect.NewError(CodeOf(err), err)
}

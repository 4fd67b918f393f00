package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMember is returned when an expense, share or payment references
	// someone outside the group's member set.
	ErrUnknownMember = errors.New("unknown group member")

	// ErrInconsistentShareSum is returned when an expense's shares do not add
	// up to its amount.
	ErrInconsistentShareSum = errors.New("shares do not sum to expense amount")

	// ErrInvalidAmount is returned for a non-positive amount or one finer
	// than the currency's minor unit.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNoParticipants is returned when a split has nobody to split across.
	ErrNoParticipants = errors.New("must have at least one participant")

	// ErrDuplicateMember is returned when a member appears twice in a split.
	ErrDuplicateMember = errors.New("member listed more than once")

	// ErrUnsupportedSplitType is returned for a split type BuildShares does not know.
	ErrUnsupportedSplitType = errors.New("unsupported split type")
)

// MemberError reports which member was unknown and where it was referenced.
// It matches ErrUnknownMember with errors.Is.
type MemberError struct {
	MemberID string
	Source   string // e.g. "expense e1 payer", "payment p2 recipient"
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("%s: %q referenced by %s", ErrUnknownMember, e.MemberID, e.Source)
}

func (e *MemberError) Unwrap() error {
	return ErrUnknownMember
}

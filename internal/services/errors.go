package services

import "errors"

// Domain errors surfaced to handlers. Repository sentinels
// (repositories.ErrNotFound, repositories.ErrConflict) pass through wrapped;
// these cover the states only the business layer knows about.
var (
	// ErrValidation indicates a request that is structurally valid JSON but
	// semantically unusable: empty checkout items, unknown payment method,
	// unrecognized order status.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState rejects a state transition the entity cannot take,
	// such as a payment status other than "paid" or paying a finalized
	// checkout.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrAlreadyFinalized means the checkout's one-way finalization flag was
	// already set; exactly one caller ever gets past it.
	ErrAlreadyFinalized = errors.New("checkout already finalized")

	// ErrForbidden rejects access to a resource the requester does not own.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyGuestCart rejects merging a guest cart that has no lines.
	ErrEmptyGuestCart = errors.New("guest cart is empty")
)

package fault

import "errors"

// Typed failures shared across the exchange engine. Handlers map these to
// HTTP statuses; engine packages return them directly so callers can use
// errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrNotOwner            = errors.New("caller is not the owner")
	ErrNotAuthorized       = errors.New("caller not authorized")
	ErrNotApproved         = errors.New("exchange lacks transfer approval")
	ErrAlreadyListed       = errors.New("certificate already listed")
	ErrAlreadySold         = errors.New("listing already sold")
	ErrAlreadyMinted       = errors.New("request already minted")
	ErrInactiveBundle      = errors.New("bundle is not active")
	ErrExpired             = errors.New("certificate expired")
	ErrInvalidRange        = errors.New("value out of range")
	ErrPaymentFailed       = errors.New("payment transfer failed")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

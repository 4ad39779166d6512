package domain

import "errors"

// Error kinds. Every concrete error below unwraps to exactly one of them, and the
// transport layer maps kinds to status codes.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrEmptyOrder        = kindError(ErrValidation, "order must contain items")
	ErrInvalidStatus     = kindError(ErrValidation, "invalid status")
	ErrInvalidLineItem   = kindError(ErrValidation, "order references an unknown menu item")
	ErrInvalidQuantity   = kindError(ErrValidation, "quantity must be positive")
	ErrOrderNotFound     = kindError(ErrNotFound, "order not found")
	ErrTableNotFound     = kindError(ErrNotFound, "table not found")
	ErrCustomerNotFound  = kindError(ErrNotFound, "customer not found")
	ErrMenuItemNotFound  = kindError(ErrNotFound, "menu item not found")
	ErrVipConfigNotFound = kindError(ErrNotFound, "vip config not found")
	ErrScopeMismatch     = kindError(ErrForbidden, "access denied")
	ErrVipUnavailable    = kindError(ErrConflict, "VIP Membership is not available for this restaurant")
	ErrNoActiveOrders    = kindError(ErrConflict, "no active orders to checkout")
	ErrInvalidTransition = kindError(ErrConflict, "invalid status transition")
	ErrStatusConflict    = kindError(ErrConflict, "order status changed concurrently")
	ErrRequestInFlight   = kindError(ErrConflict, "a request with this idempotency key is in progress")
)

type kindErr struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &kindErr{kind: kind, msg: msg}
}

func (e *kindErr) Error() string { return e.msg }

func (e *kindErr) Unwrap() error { return e.kind }

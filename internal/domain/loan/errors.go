package loan

import "errors"

var (
	ErrNotFound          = errors.New("loan not found")
	ErrConflict          = errors.New("loan state changed, please retry")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrPendingLoanExists = errors.New("borrower already has an open loan application")
	ErrInvalidInput      = errors.New("invalid loan input")
)

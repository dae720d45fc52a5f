package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	// GetByLoanID returns ErrNotFound when no active row matches.
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetOpenLoanByBorrowerID returns the newest non-terminal loan of the borrower, or ErrNotFound.
	GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*Loan, error)
	// UpdateStatus applies u only if the stored status equals u.From.
	// Returns ErrConflict when it does not, ErrNotFound when the loan is gone.
	UpdateStatus(ctx context.Context, u StatusUpdate) error
}

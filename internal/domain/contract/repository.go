package contract

import (
	"context"

	"loan-origination/internal/domain/loan"
)

type Repository interface {
	// Create a new contract (DB uniqueness ensures at most one per loan)
	Create(ctx context.Context, c *Contract) error

	// GetByLoanID returns the active contract of a loan (numeric FK) or ErrNotFound.
	GetByLoanID(ctx context.Context, loanID uint64) (*Contract, error)

	// UpdateStatus moves the contract forward and records the document URL when non-empty.
	// Returns ErrBackwards if status ranks below the stored one.
	UpdateStatus(ctx context.Context, contractID string, status loan.ContractStatus, documentURL string) error
}

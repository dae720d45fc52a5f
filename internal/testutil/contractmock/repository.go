package contractmock

import (
	"context"

	domain "loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies contract.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, c *domain.Contract) error
	GetByLoanIDFn  func(ctx context.Context, loanID uint64) (*domain.Contract, error)
	UpdateStatusFn func(ctx context.Context, contractID string, status loan.ContractStatus, documentURL string) error
}

func (m *Repo) Create(ctx context.Context, c *domain.Contract) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID uint64) (*domain.Contract, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) UpdateStatus(ctx context.Context, contractID string, status loan.ContractStatus, documentURL string) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, contractID, status, documentURL)
	}
	return nil
}

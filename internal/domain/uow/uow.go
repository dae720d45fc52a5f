package uow

import (
	"context"

	"loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/loan"
	"loan-origination/internal/domain/transition"
)

// Repos are bound to the same transaction.
type Repos struct {
	Loans       loan.Repository
	Contracts   contract.Repository
	Transitions transition.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

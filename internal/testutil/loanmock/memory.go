package loanmock

import (
	"context"
	"sync"

	domain "loan-origination/internal/domain/loan"
)

// Memory is a mutex-guarded in-memory store with real compare-and-swap
// semantics on UpdateStatus. Reads hand out copies.
type Memory struct {
	mu    sync.Mutex
	loans map[string]domain.Loan
	// Writes counts successful UpdateStatus calls.
	Writes int
}

func NewMemory(loans ...domain.Loan) *Memory {
	m := &Memory{loans: make(map[string]domain.Loan, len(loans))}
	for _, l := range loans {
		m.loans[l.LoanID] = l
	}
	return m
}

// Repo exposes the store through the function-backed mock so tests can wrap single methods.
func (m *Memory) Repo() *Repo {
	return &Repo{
		GetByLoanIDFn:  m.Get,
		UpdateStatusFn: m.UpdateStatus,
		CreateFn: func(_ context.Context, l *domain.Loan) error {
			m.Put(*l)
			return nil
		},
	}
}

func (m *Memory) Put(l domain.Loan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[l.LoanID] = l
}

func (m *Memory) Get(_ context.Context, loanID string) (*domain.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.loans[loanID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (m *Memory) UpdateStatus(_ context.Context, u domain.StatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.loans[u.LoanID]
	if !ok {
		return domain.ErrNotFound
	}
	if l.Status != u.From {
		return domain.ErrConflict
	}
	l.Status = u.To
	if u.ContractStatus != "" {
		l.ContractStatus = u.ContractStatus
	}
	if u.AssessmentScore != nil {
		l.AssessmentScore = *u.AssessmentScore
	}
	m.loans[u.LoanID] = l
	m.Writes++
	return nil
}

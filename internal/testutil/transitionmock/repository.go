package transitionmock

import (
	"context"
	"sync"

	domain "loan-origination/internal/domain/transition"
)

var _ domain.Repository = (*Repo)(nil)

// Repo records every created transition; ListByLoanID filters the recording.
type Repo struct {
	mu       sync.Mutex
	Created  []domain.Transition
	CreateFn func(ctx context.Context, t *domain.Transition) error
}

func (m *Repo) Create(ctx context.Context, t *domain.Transition) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, t); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Created = append(m.Created, *t)
	m.mu.Unlock()
	return nil
}

func (m *Repo) ListByLoanID(_ context.Context, loanID uint64) ([]domain.Transition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transition
	for _, t := range m.Created {
		if t.LoanID == loanID {
			out = append(out, t)
		}
	}
	return out, nil
}

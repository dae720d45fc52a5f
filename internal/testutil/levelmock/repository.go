package levelmock

import (
	"context"

	domain "loan-origination/internal/domain/approvallevel"
)

var _ domain.Repository = (*Repo)(nil)

// Repo serves Levels unless ListFn is set; Calls counts List invocations.
type Repo struct {
	Levels       []domain.Level
	ListFn       func(ctx context.Context) ([]domain.Level, error)
	ReplaceAllFn func(ctx context.Context, levels []domain.Level) error
	Calls        int
}

func (m *Repo) List(ctx context.Context) ([]domain.Level, error) {
	m.Calls++
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return m.Levels, nil
}

func (m *Repo) ReplaceAll(ctx context.Context, levels []domain.Level) error {
	if m.ReplaceAllFn != nil {
		return m.ReplaceAllFn(ctx, levels)
	}
	m.Levels = levels
	return nil
}

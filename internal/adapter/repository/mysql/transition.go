package mysql

import (
	"context"

	transitionDomain "loan-origination/internal/domain/transition"

	"gorm.io/gorm"
)

type TransitionRepository struct{ db *gorm.DB }

func NewTransitionRepository(db *gorm.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

func (r *TransitionRepository) Create(ctx context.Context, t *transitionDomain.Transition) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransitionRepository) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]transitionDomain.Transition, error) {
	var out []transitionDomain.Transition
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

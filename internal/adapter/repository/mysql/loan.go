package mysql

import (
	"context"
	"errors"
	"time"

	loanDomain "loan-origination/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

var terminalStatuses = []loanDomain.Status{
	loanDomain.StatusDisbursed, loanDomain.StatusRejected, loanDomain.StatusArchived,
}

func (r *LoanRepository) GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND status NOT IN ?", borrowerID, terminalStatuses).
		Order("status_updated_at DESC, id DESC").
		First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

// UpdateStatus is a single conditional UPDATE; the WHERE on the prior status
// is the optimistic-concurrency guard.
func (r *LoanRepository) UpdateStatus(ctx context.Context, u loanDomain.StatusUpdate) error {
	updates := map[string]any{
		"status":            u.To,
		"status_updated_at": time.Now().UTC(),
	}
	if u.ContractStatus != "" {
		updates["contract_status"] = u.ContractStatus
	}
	if u.AssessmentScore != nil {
		updates["assessment_score"] = *u.AssessmentScore
	}

	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("loan_id = ? AND status = ?", u.LoanID, u.From).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: tell a vanished loan apart from a lost race.
	var n int64
	if err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Where("loan_id = ?", u.LoanID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return loanDomain.ErrNotFound
	}
	return loanDomain.ErrConflict
}

func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

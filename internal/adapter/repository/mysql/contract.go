package mysql

import (
	"context"

	contractDomain "loan-origination/internal/domain/contract"
	loanDomain "loan-origination/internal/domain/loan"

	"gorm.io/gorm"
)

type ContractRepository struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) *ContractRepository { return &ContractRepository{db: db} }

func (r *ContractRepository) Create(ctx context.Context, c *contractDomain.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*contractDomain.Contract, error) {
	var out contractDomain.Contract
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanNumericID).First(&out)
	if res.Error != nil {
		return nil, notFound(res.Error, contractDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, contractID string, status loanDomain.ContractStatus, documentURL string) error {
	var cur contractDomain.Contract
	if err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).First(&cur).Error; err != nil {
		return notFound(err, contractDomain.ErrNotFound)
	}
	if status.Rank() < cur.Status.Rank() {
		return contractDomain.ErrBackwards
	}
	updates := map[string]any{"status": status}
	if documentURL != "" {
		updates["document_url"] = documentURL
	}
	return r.db.WithContext(ctx).Model(&cur).Updates(updates).Error
}

package mysql

import (
	"context"

	levelDomain "loan-origination/internal/domain/approvallevel"

	"gorm.io/gorm"
)

type ApprovalLevelRepository struct{ db *gorm.DB }

func NewApprovalLevelRepository(db *gorm.DB) *ApprovalLevelRepository {
	return &ApprovalLevelRepository{db: db}
}

func (r *ApprovalLevelRepository) List(ctx context.Context) ([]levelDomain.Level, error) {
	var out []levelDomain.Level
	err := r.db.WithContext(ctx).Order("max_amount ASC").Find(&out).Error
	return out, err
}

// ReplaceAll clears the table and inserts levels in one transaction.
func (r *ApprovalLevelRepository) ReplaceAll(ctx context.Context, levels []levelDomain.Level) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&levelDomain.Level{}).Error; err != nil {
			return err
		}
		if len(levels) == 0 {
			return nil
		}
		return tx.Create(&levels).Error
	})
}

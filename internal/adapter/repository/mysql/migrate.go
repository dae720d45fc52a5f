package mysql

import (
	"loan-origination/internal/domain/approvallevel"
	"loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/loan"
	"loan-origination/internal/domain/transition"

	"gorm.io/gorm"
)

// Models lists every table owned by this service.
func Models() []any {
	return []any{&loan.Loan{}, &contract.Contract{}, &transition.Transition{}, &approvallevel.Level{}}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

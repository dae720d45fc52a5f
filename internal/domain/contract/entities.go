package contract

import (
	"errors"
	"time"

	"loan-origination/internal/domain/loan"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("contract not found")
	// ErrBackwards is returned when a status update would move a contract down its lifecycle.
	ErrBackwards = errors.New("contract status cannot move backwards")
)

// Table: contracts
type Contract struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	ContractID string `gorm:"column:contract_id;type:char(32);not null;uniqueIndex:ux_contracts_contract_id"`
	// FK to loans.id (numeric); one contract per loan. Rows are hard deleted
	// so a removed contract never blocks its replacement.
	LoanID         uint64              `gorm:"column:loan_id;not null;uniqueIndex:ux_contracts_loan"`
	LoanAmount     decimal.Decimal     `gorm:"column:loan_amount;type:decimal(18,2);not null"`
	InterestAmount decimal.Decimal     `gorm:"column:interest_amount;type:decimal(18,2);not null"`
	FeeAmount      decimal.Decimal     `gorm:"column:fee_amount;type:decimal(18,2);not null"`
	TotalRepayment decimal.Decimal     `gorm:"column:total_repayment;type:decimal(18,2);not null"`
	MonthlyPayment decimal.Decimal     `gorm:"column:monthly_payment;type:decimal(18,2);not null"`
	TermMonths     int                 `gorm:"column:term_months;not null"`
	Status         loan.ContractStatus `gorm:"column:status;size:32;not null"`
	DocumentURL    string              `gorm:"column:document_url;type:text"`
	GeneratedBy    string              `gorm:"column:generated_by;type:char(32)"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Contract) TableName() string { return "contracts" }

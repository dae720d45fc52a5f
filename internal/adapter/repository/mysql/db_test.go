package mysql

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"loan-origination/internal/domain/loan"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates a per-test in-memory sqlite DB with the full schema.
// The shared cache keeps every pooled connection on the same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func makeLoan(loanID, borrowerID string) *loan.Loan {
	return &loan.Loan{
		LoanID:          loanID,
		BorrowerID:      borrowerID,
		RequestedAmount: decimal.NewFromInt(1_000_000),
		InterestRate:    decimal.RequireFromString("0.2200"),
		TermMonths:      12,
		Status:          loan.StatusSubmitted,
		ContractStatus:  loan.ContractNotGenerated,
		StatusUpdatedAt: time.Now().UTC(),
	}
}

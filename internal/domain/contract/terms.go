package contract

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidTerms = errors.New("invalid contract terms")

// DefaultFeeRate is the one-off origination fee charged on the principal.
var DefaultFeeRate = decimal.RequireFromString("0.02")

// Terms are the repayment figures printed on a loan contract.
type Terms struct {
	Principal      decimal.Decimal `json:"principal"`
	Interest       decimal.Decimal `json:"interest"`
	Fee            decimal.Decimal `json:"fee"`
	TotalRepayment decimal.Decimal `json:"total_repayment"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TermMonths     int             `json:"term_months"`
}

// ComputeTerms uses flat interest: principal × annualRate × months/12, plus a
// fee of principal × feeRate, spread evenly over the term. Money is rounded to 2dp.
func ComputeTerms(principal, annualRate, feeRate decimal.Decimal, months int) (Terms, error) {
	if months <= 0 || !principal.IsPositive() || annualRate.IsNegative() || feeRate.IsNegative() {
		return Terms{}, ErrInvalidTerms
	}
	m := decimal.NewFromInt(int64(months))
	interest := principal.Mul(annualRate).Mul(m).Div(decimal.NewFromInt(12)).Round(2)
	fee := principal.Mul(feeRate).Round(2)
	total := principal.Add(interest).Add(fee)
	return Terms{
		Principal:      principal.Round(2),
		Interest:       interest,
		Fee:            fee,
		TotalRepayment: total.Round(2),
		MonthlyPayment: total.Div(m).Round(2),
		TermMonths:     months,
	}, nil
}

// Apply copies t onto c.
func (t Terms) Apply(c *Contract) {
	c.LoanAmount = t.Principal
	c.InterestAmount = t.Interest
	c.FeeAmount = t.Fee
	c.TotalRepayment = t.TotalRepayment
	c.MonthlyPayment = t.MonthlyPayment
	c.TermMonths = t.TermMonths
}

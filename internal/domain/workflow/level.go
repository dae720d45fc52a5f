package workflow

import (
	"sort"

	"loan-origination/internal/domain/approvallevel"

	"github.com/shopspring/decimal"
)

// SelectLevel picks the lowest level whose MaxAmount covers amount.
// Amounts above every bracket get the highest level; an empty table yields nil.
func SelectLevel(levels []approvallevel.Level, amount decimal.Decimal) *approvallevel.Level {
	if len(levels) == 0 {
		return nil
	}
	sorted := make([]approvallevel.Level, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxAmount.LessThan(sorted[j].MaxAmount)
	})
	for i := range sorted {
		if sorted[i].MaxAmount.GreaterThanOrEqual(amount) {
			return &sorted[i]
		}
	}
	return &sorted[len(sorted)-1]
}

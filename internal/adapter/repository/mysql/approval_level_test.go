package mysql

import (
	"context"
	"testing"

	levelDomain "loan-origination/internal/domain/approvallevel"

	"github.com/shopspring/decimal"
)

func TestApprovalLevelRepository_ReplaceAllAndList(t *testing.T) {
	repo := NewApprovalLevelRepository(openTestDB(t))
	ctx := context.Background()

	first := []levelDomain.Level{
		{ID: "board", Name: "Board", MaxAmount: decimal.NewFromInt(100_000_000), Authority: levelDomain.AuthorityCommittee, CommitteeRequired: true},
		{ID: "branch", Name: "Branch", MaxAmount: decimal.NewFromInt(1_000_000), Authority: levelDomain.AuthorityManager},
	}
	if err := repo.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "branch" || got[1].ID != "board" {
		t.Fatalf("unexpected levels (want ascending by max_amount): %+v", got)
	}

	second := []levelDomain.Level{
		{ID: "ceo", Name: "CEO", MaxAmount: decimal.NewFromInt(10_000_000), Authority: levelDomain.AuthorityCEO},
	}
	if err := repo.ReplaceAll(ctx, second); err != nil {
		t.Fatalf("ReplaceAll second: %v", err)
	}
	got, _ = repo.List(ctx)
	if len(got) != 1 || got[0].ID != "ceo" || !got[0].MaxAmount.Equal(decimal.NewFromInt(10_000_000)) {
		t.Fatalf("unexpected levels after replace: %+v", got)
	}
}

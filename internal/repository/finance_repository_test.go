package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

func TestFinanceLedgerSortingAndFilters(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	seedScenario(t, st)
	repo := FinanceRepository{Store: st}

	all := repo.Ledger(ctx, LedgerFilter{})
	require.Len(t, all, 3)
	// Soonest due first.
	assert.Equal(t, "m1", all[0].MilestoneID)
	assert.Equal(t, "m2", all[1].MilestoneID)
	assert.Equal(t, "m3", all[2].MilestoneID)
	assert.Equal(t, "Nguyễn Văn An", all[0].ClientName)
	assert.True(t, all[2].EffectiveOverdue)
	assert.False(t, all[0].EffectiveOverdue, "paid milestones are never overdue")

	unpaid := repo.Ledger(ctx, LedgerFilter{Status: domain.PaymentUnpaid})
	require.Len(t, unpaid, 1)
	assert.Equal(t, "m3", unpaid[0].MilestoneID)

	from := domain.Date("2023-07-01")
	to := domain.Date("2023-12-31")
	windowed := repo.Ledger(ctx, LedgerFilter{From: &from, To: &to})
	require.Len(t, windowed, 1)
	assert.Equal(t, "m2", windowed[0].MilestoneID)
}

func TestFinanceSummary(t *testing.T) {
	st := store.New()
	seedScenario(t, st)
	repo := FinanceRepository{Store: st}

	s := repo.Summary(context.Background())
	assert.Equal(t, int64(300_000_000), s.TotalCollected)
	assert.Equal(t, int64(200_000_000), s.TotalOutstanding)
}

func TestFinanceByProject(t *testing.T) {
	st := store.New()
	seedScenario(t, st)
	repo := FinanceRepository{Store: st}

	cards := repo.ByProject(context.Background())
	require.Len(t, cards, 1)
	card := cards[0]
	assert.Equal(t, int64(500_000_000), card.TotalValue)
	assert.Equal(t, int64(300_000_000), card.Collected)
	assert.Equal(t, int64(200_000_000), card.Remaining)
	assert.Equal(t, 60, card.CollectionProgress)
	assert.True(t, card.Balanced)
	assert.Len(t, card.Milestones, 3)
}

package repository

import (
	"context"
	"sort"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

// FinanceRepository flattens payment milestones across projects into a ledger
// the finance view filters and exports.
type FinanceRepository struct {
	Store *store.Store
}

type LedgerEntry struct {
	ProjectID        string
	ProjectName      string
	ContractCode     string
	ClientName       string
	MilestoneID      string
	Name             string
	Amount           int64
	DueDate          domain.Date
	Status           domain.PaymentStatus
	EffectiveOverdue bool
}

// LedgerFilter narrows the ledger. Zero values match everything.
type LedgerFilter struct {
	Status domain.PaymentStatus
	From   *domain.Date
	To     *domain.Date
}

type FinanceSummary struct {
	TotalCollected   int64
	TotalOutstanding int64
}

// ProjectLedger groups milestones under their contract, with the per-project
// collection figures the finance view shows on each card.
type ProjectLedger struct {
	ProjectID          string
	ProjectName        string
	ContractCode       string
	ClientName         string
	TotalValue         int64
	Collected          int64
	Remaining          int64
	CollectionProgress int
	Balanced           bool
	Milestones         []LedgerEntry
}

// Ledger lists milestones across all projects sorted by due date.
func (r FinanceRepository) Ledger(ctx context.Context, f LedgerFilter) []LedgerEntry {
	clients, projects := r.Store.Snapshot()
	today := domain.Today()
	names := clientNames(clients)

	items := []LedgerEntry{}
	for _, p := range projects {
		for _, m := range p.Payments {
			if f.Status != "" && m.Status != f.Status {
				continue
			}
			if f.From != nil && m.DueDate.Before(*f.From) {
				continue
			}
			if f.To != nil && f.To.Before(m.DueDate) {
				continue
			}
			items = append(items, ledgerEntry(p, m, names, today))
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].DueDate.Before(items[j].DueDate) })
	return items
}

func (r FinanceRepository) Summary(ctx context.Context) FinanceSummary {
	var out FinanceSummary
	for _, p := range r.Store.Projects() {
		out.TotalCollected += domain.CollectedTotal(p)
		out.TotalOutstanding += domain.OutstandingTotal(p)
	}
	return out
}

// ByProject returns one ledger card per contract, in creation order.
func (r FinanceRepository) ByProject(ctx context.Context) []ProjectLedger {
	clients, projects := r.Store.Snapshot()
	today := domain.Today()
	names := clientNames(clients)

	out := make([]ProjectLedger, 0, len(projects))
	for _, p := range projects {
		card := ProjectLedger{
			ProjectID:          p.ID,
			ProjectName:        p.Name,
			ContractCode:       p.ContractCode,
			ClientName:         names[p.ClientID],
			TotalValue:         p.TotalValue,
			Collected:          domain.CollectedTotal(p),
			CollectionProgress: domain.CollectionProgress(p),
			Balanced:           domain.IsBalanced(p),
		}
		card.Remaining = card.TotalValue - card.Collected
		for _, m := range p.Payments {
			card.Milestones = append(card.Milestones, ledgerEntry(p, m, names, today))
		}
		out = append(out, card)
	}
	return out
}

func ledgerEntry(p domain.Project, m domain.PaymentMilestone, names map[string]string, today domain.Date) LedgerEntry {
	return LedgerEntry{
		ProjectID:        p.ID,
		ProjectName:      p.Name,
		ContractCode:     p.ContractCode,
		ClientName:       names[p.ClientID],
		MilestoneID:      m.ID,
		Name:             m.Name,
		Amount:           m.Amount,
		DueDate:          m.DueDate,
		Status:           m.Status,
		EffectiveOverdue: domain.IsMilestoneOverdue(m, today),
	}
}

func clientNames(clients []domain.Client) map[string]string {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return names
}

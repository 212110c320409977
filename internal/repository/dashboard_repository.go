package repository

import (
	"context"
	"sort"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

// DashboardRepository computes the landing-page projections. Everything here
// is derived from the current collections on each call; the dataset is a few
// dozen records, so there is nothing to cache.
type DashboardRepository struct {
	Store *store.Store
}

type DashboardSummary struct {
	ActiveProjects int
	OverdueStages  int
	TotalCollected int64
	TotalPending   int64
}

type OverdueStageItem struct {
	ProjectID    string
	ProjectName  string
	ContractCode string
	StageID      string
	StageName    string
	Deadline     domain.Date
}

type DuePaymentItem struct {
	ProjectID    string
	ProjectName  string
	ContractCode string
	MilestoneID  string
	Name         string
	Amount       int64
	DueDate      domain.Date
	Status       domain.PaymentStatus
	Late         bool
}

type ProgressItem struct {
	ProjectID            string
	ProjectName          string
	ContractCode         string
	CurrentStage         string
	CurrentStageDeadline *domain.Date
	ContractDeadline     *domain.Date
	ContractOverdue      bool
	Progress             int
}

type LeadCount struct {
	Lead   string
	Active int
}

func (r DashboardRepository) Summary(ctx context.Context) DashboardSummary {
	today := domain.Today()
	var out DashboardSummary
	for _, p := range r.Store.Projects() {
		if !domain.IsComplete(p) {
			out.ActiveProjects++
		}
		for _, s := range p.Stages {
			if domain.IsStageOverdue(s, today) {
				out.OverdueStages++
			}
		}
		out.TotalCollected += domain.CollectedTotal(p)
		out.TotalPending += domain.OutstandingTotal(p)
	}
	return out
}

func (r DashboardRepository) OverdueStages(ctx context.Context) []OverdueStageItem {
	today := domain.Today()
	items := []OverdueStageItem{}
	for _, p := range r.Store.Projects() {
		for _, s := range p.Stages {
			if !domain.IsStageOverdue(s, today) {
				continue
			}
			items = append(items, OverdueStageItem{
				ProjectID:    p.ID,
				ProjectName:  p.Name,
				ContractCode: p.ContractCode,
				StageID:      s.ID,
				StageName:    s.Name,
				Deadline:     *s.Deadline,
			})
		}
	}
	return items
}

// DuePayments lists uncollected milestones across all projects, soonest due
// first, capped at limit (0 means no cap).
func (r DashboardRepository) DuePayments(ctx context.Context, limit int) []DuePaymentItem {
	today := domain.Today()
	items := []DuePaymentItem{}
	for _, p := range r.Store.Projects() {
		for _, m := range p.Payments {
			if m.Status == domain.PaymentPaid {
				continue
			}
			items = append(items, DuePaymentItem{
				ProjectID:    p.ID,
				ProjectName:  p.Name,
				ContractCode: p.ContractCode,
				MilestoneID:  m.ID,
				Name:         m.Name,
				Amount:       m.Amount,
				DueDate:      m.DueDate,
				Status:       m.Status,
				Late:         domain.IsMilestoneOverdue(m, today),
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].DueDate.Before(items[j].DueDate) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// ProgressOverview reports stage progress for active projects, capped at
// limit (0 means no cap).
func (r DashboardRepository) ProgressOverview(ctx context.Context, limit int) []ProgressItem {
	today := domain.Today()
	items := []ProgressItem{}
	for _, p := range r.Store.Projects() {
		if domain.IsComplete(p) {
			continue
		}
		item := ProgressItem{
			ProjectID:        p.ID,
			ProjectName:      p.Name,
			ContractCode:     p.ContractCode,
			ContractDeadline: p.ContractDeadline,
			Progress:         domain.Progress(p),
		}
		if cur := domain.CurrentStage(p); cur != nil {
			item.CurrentStage = cur.Name
			item.CurrentStageDeadline = cur.Deadline
		}
		if p.ContractDeadline != nil && p.ContractDeadline.Before(today) {
			item.ContractOverdue = true
		}
		items = append(items, item)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// LeadCounts groups active projects by lead architect, busiest first.
func (r DashboardRepository) LeadCounts(ctx context.Context) []LeadCount {
	counts := map[string]int{}
	for _, p := range r.Store.Projects() {
		if domain.IsComplete(p) {
			continue
		}
		lead := p.LeadName
		if lead == "" {
			lead = "Chưa phân"
		}
		counts[lead]++
	}
	out := make([]LeadCount, 0, len(counts))
	for lead, n := range counts {
		out = append(out, LeadCount{Lead: lead, Active: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Active != out[j].Active {
			return out[i].Active > out[j].Active
		}
		return out[i].Lead < out[j].Lead
	})
	return out
}

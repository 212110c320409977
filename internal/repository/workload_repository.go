package repository

import (
	"context"
	"math"
	"sort"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

// WorkloadRepository groups projects by lead architect and lists the fixed
// per-discipline staff of each active project.
type WorkloadRepository struct {
	Store *store.Store
}

type WorkloadProject struct {
	ProjectID          string
	ProjectName        string
	ContractCode       string
	CurrentStage       string
	Progress           int
	Architect          string
	StructuralEngineer string
	MEEngineer         string
	PlumbingEngineer   string
}

type LeadWorkload struct {
	Lead           string
	Active         []WorkloadProject
	CompletedCount int
	TotalProjects  int
	AvgProgress    int
	OverdueCount   int
}

// ByLead returns one group per lead, most active projects first.
func (r WorkloadRepository) ByLead(ctx context.Context) []LeadWorkload {
	today := domain.Today()
	groups := map[string]*LeadWorkload{}
	progressSums := map[string]int{}

	for _, p := range r.Store.Projects() {
		lead := p.LeadName
		if lead == "" {
			lead = "Chưa phân công"
		}
		g, ok := groups[lead]
		if !ok {
			g = &LeadWorkload{Lead: lead}
			groups[lead] = g
		}

		progress := domain.Progress(p)
		if domain.IsComplete(p) {
			g.CompletedCount++
		} else {
			item := WorkloadProject{
				ProjectID:          p.ID,
				ProjectName:        p.Name,
				ContractCode:       p.ContractCode,
				Progress:           progress,
				Architect:          p.Architect,
				StructuralEngineer: p.StructuralEngineer,
				MEEngineer:         p.MEEngineer,
				PlumbingEngineer:   p.PlumbingEngineer,
			}
			if cur := domain.CurrentStage(p); cur != nil {
				item.CurrentStage = cur.Name
			}
			g.Active = append(g.Active, item)
		}
		g.TotalProjects++
		progressSums[lead] += progress
		if domain.HasOverdueStage(p, today) {
			g.OverdueCount++
		}
	}

	out := make([]LeadWorkload, 0, len(groups))
	for lead, g := range groups {
		g.AvgProgress = int(math.Round(float64(progressSums[lead]) / float64(g.TotalProjects)))
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Active) != len(out[j].Active) {
			return len(out[i].Active) > len(out[j].Active)
		}
		return out[i].Lead < out[j].Lead
	})
	return out
}

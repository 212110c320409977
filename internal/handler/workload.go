package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/repository"
)

type WorkloadHandler struct {
	Repo repository.WorkloadRepository
}

func (h WorkloadHandler) RegisterRoutes(r chi.Router) {
	r.Get("/workload", h.byLead)
}

func (h WorkloadHandler) byLead(w http.ResponseWriter, r *http.Request) {
	groups := h.Repo.ByLead(r.Context())
	resp := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		active := make([]map[string]any, 0, len(g.Active))
		for _, p := range g.Active {
			active = append(active, map[string]any{
				"projectId":          p.ProjectID,
				"projectName":        p.ProjectName,
				"contractCode":       p.ContractCode,
				"currentStage":       p.CurrentStage,
				"progress":           p.Progress,
				"architect":          p.Architect,
				"structuralEngineer": p.StructuralEngineer,
				"meEngineer":         p.MEEngineer,
				"plumbingEngineer":   p.PlumbingEngineer,
			})
		}
		resp = append(resp, map[string]any{
			"lead":           g.Lead,
			"active":         active,
			"completedCount": g.CompletedCount,
			"totalProjects":  g.TotalProjects,
			"avgProgress":    g.AvgProgress,
			"overdueCount":   g.OverdueCount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

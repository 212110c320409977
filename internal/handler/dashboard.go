package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/repository"
)

type DashboardHandler struct {
	Repo repository.DashboardRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/summary", h.summary)
	r.Get("/dashboard/overdue-stages", h.overdueStages)
	r.Get("/dashboard/due-payments", h.duePayments)
	r.Get("/dashboard/progress", h.progress)
	r.Get("/dashboard/leads", h.leads)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	s := h.Repo.Summary(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"activeProjects": s.ActiveProjects,
		"overdueStages":  s.OverdueStages,
		"totalCollected": s.TotalCollected,
		"totalPending":   s.TotalPending,
	})
}

func (h DashboardHandler) overdueStages(w http.ResponseWriter, r *http.Request) {
	items := h.Repo.OverdueStages(r.Context())
	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, map[string]any{
			"projectId":    it.ProjectID,
			"projectName":  it.ProjectName,
			"contractCode": it.ContractCode,
			"stageId":      it.StageID,
			"stageName":    it.StageName,
			"deadline":     it.Deadline.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h DashboardHandler) duePayments(w http.ResponseWriter, r *http.Request) {
	items := h.Repo.DuePayments(r.Context(), limitQuery(r, 10))
	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, map[string]any{
			"projectId":    it.ProjectID,
			"projectName":  it.ProjectName,
			"contractCode": it.ContractCode,
			"milestoneId":  it.MilestoneID,
			"name":         it.Name,
			"amount":       it.Amount,
			"dueDate":      it.DueDate.String(),
			"status":       it.Status,
			"late":         it.Late,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h DashboardHandler) progress(w http.ResponseWriter, r *http.Request) {
	items := h.Repo.ProgressOverview(r.Context(), limitQuery(r, 0))
	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, map[string]any{
			"projectId":            it.ProjectID,
			"projectName":          it.ProjectName,
			"contractCode":         it.ContractCode,
			"currentStage":         it.CurrentStage,
			"currentStageDeadline": dateString(it.CurrentStageDeadline),
			"contractDeadline":     dateString(it.ContractDeadline),
			"contractOverdue":      it.ContractOverdue,
			"progress":             it.Progress,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h DashboardHandler) leads(w http.ResponseWriter, r *http.Request) {
	items := h.Repo.LeadCounts(r.Context())
	resp := make([]map[string]any, 0, len(items))
	for _, it := range items {
		resp = append(resp, map[string]any{
			"lead":   it.Lead,
			"active": it.Active,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func limitQuery(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

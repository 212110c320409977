package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/repository"
)

type ProjectHandler struct {
	Repo        repository.ProjectRepository
	Clients     repository.ClientRepository
	ArchiveRoot string
}

func (h ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Get("/projects", h.list)
	r.Post("/projects", h.create)
	r.Get("/projects/{id}", h.detail)
	r.Patch("/projects/{id}", h.patch)
	r.Post("/projects/{id}/rebalance", h.rebalance)
	r.Put("/projects/{id}/stages/{stageID}/status", h.setStageStatus)
	r.Put("/projects/{id}/stages/{stageID}/deadline", h.setStageDeadline)
	r.Post("/projects/{id}/payments", h.addMilestone)
	r.Patch("/projects/{id}/payments/{milestoneID}", h.updateMilestone)
	r.Delete("/projects/{id}/payments/{milestoneID}", h.deleteMilestone)
	r.Get("/projects/{id}/files", h.listFiles)
	r.Post("/projects/{id}/files", h.uploadFile)
}

func (h ProjectHandler) list(w http.ResponseWriter, r *http.Request) {
	projects := h.Repo.List(r.Context(), domain.ProjectType(r.URL.Query().Get("type")))
	clients := h.Clients.List(r.Context(), "")
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	today := domain.Today()
	resp := make([]map[string]any, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, map[string]any{
			"id":           p.ID,
			"contractCode": p.ContractCode,
			"name":         p.Name,
			"clientId":     p.ClientID,
			"clientName":   names[p.ClientID],
			"leadName":     p.LeadName,
			"projectType":  p.ProjectType,
			"contractType": p.ContractType,
			"totalValue":   p.TotalValue,
			"progress":     domain.Progress(p),
			"isComplete":   domain.IsComplete(p),
			"hasOverdue":   domain.HasOverdueStage(p, today),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type createProjectRequest struct {
	ClientID            string `json:"clientId"`
	ContractCode        string `json:"contractCode"`
	Name                string `json:"name"`
	LeadName            string `json:"leadName"`
	ContractSigningDate string `json:"contractSigningDate"`
	ContractDeadline    string `json:"contractDeadline"`
	ContractType        string `json:"contractType"`
	ProjectType         string `json:"projectType"`
	TotalValue          int64  `json:"totalValue"`
	Architect           string `json:"architect"`
	StructuralEngineer  string `json:"structuralEngineer"`
	MEEngineer          string `json:"meEngineer"`
	PlumbingEngineer    string `json:"plumbingEngineer"`
}

func (h ProjectHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ClientID == "" {
		// The wizard blocks submission until a client is chosen.
		writeError(w, http.StatusBadRequest, "vui lòng chọn khách hàng")
		return
	}
	if req.ContractCode == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "contractCode and name are required")
		return
	}
	if req.TotalValue < 0 {
		writeError(w, http.StatusBadRequest, "totalValue must not be negative")
		return
	}
	signing, err := optionalDate(req.ContractSigningDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contractSigningDate")
		return
	}
	deadline, err := optionalDate(req.ContractDeadline)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contractDeadline")
		return
	}

	p, err := h.Repo.Create(r.Context(), repository.CreateProjectParams{
		ClientID:            req.ClientID,
		ContractCode:        req.ContractCode,
		Name:                req.Name,
		LeadName:            req.LeadName,
		ContractSigningDate: signing,
		ContractDeadline:    deadline,
		ContractType:        contractTypeOrDefault(req.ContractType),
		ProjectType:         projectTypeOrDefault(req.ProjectType),
		TotalValue:          req.TotalValue,
		Architect:           req.Architect,
		StructuralEngineer:  req.StructuralEngineer,
		MEEngineer:          req.MEEngineer,
		PlumbingEngineer:    req.PlumbingEngineer,
	})
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.projectPayload(*p))
}

func (h ProjectHandler) detail(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, h.projectPayload(*p))
}

type projectPatchRequest struct {
	ContractCode        *string `json:"contractCode"`
	Name                *string `json:"name"`
	LeadName            *string `json:"leadName"`
	ContractSigningDate *string `json:"contractSigningDate"`
	ContractDeadline    *string `json:"contractDeadline"`
	ContractType        *string `json:"contractType"`
	ProjectType         *string `json:"projectType"`
	TotalValue          *int64  `json:"totalValue"`
	Architect           *string `json:"architect"`
	StructuralEngineer  *string `json:"structuralEngineer"`
	MEEngineer          *string `json:"meEngineer"`
	PlumbingEngineer    *string `json:"plumbingEngineer"`
}

func (h ProjectHandler) patch(w http.ResponseWriter, r *http.Request) {
	var req projectPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	patch := repository.ProjectPatch{
		ContractCode:       req.ContractCode,
		Name:               req.Name,
		LeadName:           req.LeadName,
		TotalValue:         req.TotalValue,
		Architect:          req.Architect,
		StructuralEngineer: req.StructuralEngineer,
		MEEngineer:         req.MEEngineer,
		PlumbingEngineer:   req.PlumbingEngineer,
	}
	if req.TotalValue != nil && *req.TotalValue < 0 {
		writeError(w, http.StatusBadRequest, "totalValue must not be negative")
		return
	}
	if req.ContractSigningDate != nil {
		d, err := domain.ParseDate(*req.ContractSigningDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid contractSigningDate")
			return
		}
		patch.ContractSigningDate = &d
	}
	if req.ContractDeadline != nil {
		d, err := domain.ParseDate(*req.ContractDeadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid contractDeadline")
			return
		}
		patch.ContractDeadline = &d
	}
	if req.ContractType != nil {
		ct := contractTypeOrDefault(*req.ContractType)
		patch.ContractType = &ct
	}
	if req.ProjectType != nil {
		pt := projectTypeOrDefault(*req.ProjectType)
		patch.ProjectType = &pt
	}

	p, err := h.Repo.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeRepoError(w, "update project", err)
		return
	}
	writeJSON(w, http.StatusOK, h.projectPayload(*p))
}

func (h ProjectHandler) rebalance(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.Rebalance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRepoError(w, "rebalance", err)
		return
	}
	writeJSON(w, http.StatusOK, h.projectPayload(*p))
}

func (h ProjectHandler) setStageStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	status := domain.StageStatus(req.Status)
	switch status {
	case domain.StageNotStarted, domain.StageInProgress, domain.StageDone:
	default:
		writeError(w, http.StatusBadRequest, "invalid stage status")
		return
	}
	p, err := h.Repo.SetStageStatus(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "stageID"), status)
	if err != nil {
		h.writeRepoError(w, "update stage", err)
		return
	}
	writeJSON(w, http.StatusOK, h.projectPayload(*p))
}

func (h ProjectHandler) setStageDeadline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Deadline string `json:"deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	d, err := domain.ParseDate(req.Deadline)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deadline")
		return
	}
	p, err := h.Repo.SetStageDeadline(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "stageID"), d)
	if err != nil {
		h.writeRepoError(w, "update stage deadline", err)
		return
	}
	writeJSON(w, http.StatusOK, h.projectPayload(*p))
}

func (h ProjectHandler) addMilestone(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.AddMilestone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRepoError(w, "add milestone", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.projectPayload(*p))
}

func (h ProjectHandler) updateMilestone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    *string `json:"name"`
		Amount  *int64  `json:"amount"`
		DueDate *string `json:"dueDate"`
		Status  *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	patch := repository.MilestonePatch{Name: req.Name, Amount: req.Amount}
	if req.Amount != nil && *req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}
	if req.DueDate != nil {
		d, err := domain.ParseDate(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid dueDate")
			return
		}
		patch.DueDate = &d
	}
	if req.Status != nil {
		status := domain.PaymentStatus(*req.Status)
		switch status {
		case domain.PaymentUnpaid, domain.PaymentPaid, domain.PaymentOverdue:
		default:
			writeError(w, http.StatusBadRequest, "invalid payment status")
			return
		}
		patch.Status = &status
	}
	p, err := h.Repo.UpdateMilestone(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "milestoneID"), patch)
	if err != nil {
		h.writeRepoError(w, "update milestone", err)
		return
	}
	writeJSON(w, http.StatusOK, h.projectPayload(*p))
}

func (h ProjectHandler) deleteMilestone(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.DeleteMilestone(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "milestoneID"))
	if err != nil {
		h.writeRepoError(w, "delete milestone", err)
		return
	}
	writeJSON(w, http.StatusOK, h.projectPayload(*p))
}

func (h ProjectHandler) listFiles(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, filesPayload(*p))
}

// uploadFile records metadata only: the bytes are discarded and the stored
// path points at the studio file server, imitating where the lead would have
// archived the document.
func (h ProjectHandler) uploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	_ = file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}
	params := repository.AttachFileParams{
		Name:        header.Filename,
		ContentType: contentType,
		ArchiveRoot: h.ArchiveRoot,
	}
	if stageID := r.FormValue("stageId"); stageID != "" {
		params.StageID = &stageID
	}

	p, err := h.Repo.AttachFile(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		h.writeRepoError(w, "attach file", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.projectPayload(*p))
}

func (h ProjectHandler) writeRepoError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, op+": not found")
	case errors.Is(err, repository.ErrLastMilestone):
		writeError(w, http.StatusConflict, "đợt quyết toán cuối không thể xóa")
	default:
		writeErrorWithErr(w, http.StatusInternalServerError, op, err)
	}
}

func (h ProjectHandler) projectPayload(p domain.Project) map[string]any {
	today := domain.Today()

	stages := make([]map[string]any, 0, len(p.Stages))
	for _, s := range p.Stages {
		hasFile := false
		for _, f := range p.Files {
			if f.StageID != nil && *f.StageID == s.ID {
				hasFile = true
				break
			}
		}
		stages = append(stages, map[string]any{
			"id":       s.ID,
			"name":     s.Name,
			"status":   s.Status,
			"deadline": dateString(s.Deadline),
			"overdue":  domain.IsStageOverdue(s, today),
			"hasFile":  hasFile,
		})
	}

	payments := make([]map[string]any, 0, len(p.Payments))
	for i, m := range p.Payments {
		payments = append(payments, map[string]any{
			"id":               m.ID,
			"name":             m.Name,
			"amount":           m.Amount,
			"dueDate":          m.DueDate.String(),
			"status":           m.Status,
			"effectiveOverdue": domain.IsMilestoneOverdue(m, today),
			"isFinal":          i == len(p.Payments)-1,
		})
	}

	var currentStage any
	if cur := domain.CurrentStage(p); cur != nil {
		currentStage = cur.Name
	}

	return map[string]any{
		"id":                  p.ID,
		"clientId":            p.ClientID,
		"contractCode":        p.ContractCode,
		"name":                p.Name,
		"leadName":            p.LeadName,
		"contractSigningDate": dateString(p.ContractSigningDate),
		"contractDeadline":    dateString(p.ContractDeadline),
		"contractType":        p.ContractType,
		"projectType":         p.ProjectType,
		"totalValue":          p.TotalValue,
		"architect":           p.Architect,
		"structuralEngineer":  p.StructuralEngineer,
		"meEngineer":          p.MEEngineer,
		"plumbingEngineer":    p.PlumbingEngineer,
		"stages":              stages,
		"payments":            payments,
		"files":               filesPayload(p),
		"createdAt":           p.CreatedAt,

		"progress":           domain.Progress(p),
		"isComplete":         domain.IsComplete(p),
		"currentStage":       currentStage,
		"allocatedTotal":     domain.AllocatedTotal(p),
		"balanceDifference":  domain.BalanceDifference(p),
		"isBalanced":         domain.IsBalanced(p),
		"collectedTotal":     domain.CollectedTotal(p),
		"outstandingTotal":   domain.OutstandingTotal(p),
		"collectionProgress": domain.CollectionProgress(p),
		"hasOverdueStage":    domain.HasOverdueStage(p, today),
	}
}

func filesPayload(p domain.Project) []map[string]any {
	out := make([]map[string]any, 0, len(p.Files))
	for _, f := range p.Files {
		var stageID any
		if f.StageID != nil {
			stageID = *f.StageID
		}
		out = append(out, map[string]any{
			"id":         f.ID,
			"name":       f.Name,
			"type":       f.Type,
			"path":       f.Path,
			"uploadedAt": f.UploadedAt,
			"stageId":    stageID,
		})
	}
	return out
}

func contractTypeOrDefault(raw string) domain.ContractType {
	switch domain.ContractType(raw) {
	case domain.ContractDesign, domain.ContractBuild, domain.ContractTurnkey:
		return domain.ContractType(raw)
	}
	return domain.ContractDesign
}

func projectTypeOrDefault(raw string) domain.ProjectType {
	switch domain.ProjectType(raw) {
	case domain.ProjectHighRise, domain.ProjectLowRise, domain.ProjectInterior:
		return domain.ProjectType(raw)
	}
	return domain.ProjectLowRise
}

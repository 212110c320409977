package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/repository"
)

type ClientHandler struct {
	Repo     repository.ClientRepository
	Projects repository.ProjectRepository
}

func (h ClientHandler) RegisterRoutes(r chi.Router) {
	r.Get("/clients", h.list)
	r.Post("/clients", h.create)
	r.Put("/clients/{id}", h.update)
	r.Delete("/clients/{id}", h.delete)
}

type clientRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Zalo         string `json:"zalo"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
	NextFollowUp string `json:"nextFollowUp"`
}

func (h ClientHandler) list(w http.ResponseWriter, r *http.Request) {
	clients := h.Repo.List(r.Context(), r.URL.Query().Get("q"))
	projects := h.Projects.List(r.Context(), "")

	// First project per client, for the "Dự án" / "+ Tạo dự án" column.
	linked := map[string]domain.Project{}
	for _, p := range projects {
		if _, ok := linked[p.ClientID]; !ok {
			linked[p.ClientID] = p
		}
	}

	resp := make([]map[string]any, 0, len(clients))
	for _, c := range clients {
		item := map[string]any{
			"id":           c.ID,
			"name":         c.Name,
			"phone":        c.Phone,
			"zalo":         c.Zalo,
			"type":         c.Type,
			"status":       c.Status,
			"notes":        c.Notes,
			"nextFollowUp": dateString(c.NextFollowUp),
			"createdAt":    c.CreatedAt,
		}
		if p, ok := linked[c.ID]; ok {
			item["project"] = map[string]any{"id": p.ID, "name": p.Name, "contractCode": p.ContractCode}
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ClientHandler) create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}
	followUp, err := optionalDate(req.NextFollowUp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid nextFollowUp")
		return
	}
	c, err := h.Repo.Create(r.Context(), repository.CreateClientParams{
		Name:         req.Name,
		Phone:        req.Phone,
		Zalo:         req.Zalo,
		Type:         clientTypeOrDefault(req.Type),
		Status:       clientStatusOrDefault(req.Status),
		Notes:        req.Notes,
		NextFollowUp: followUp,
	})
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, clientPayload(*c))
}

func (h ClientHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}
	followUp, err := optionalDate(req.NextFollowUp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid nextFollowUp")
		return
	}
	next := *existing
	next.Name = req.Name
	next.Phone = req.Phone
	next.Zalo = req.Zalo
	next.Type = clientTypeOrDefault(req.Type)
	next.Status = clientStatusOrDefault(req.Status)
	next.Notes = req.Notes
	next.NextFollowUp = followUp

	saved, err := h.Repo.Update(r.Context(), next)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "update client", err)
		return
	}
	writeJSON(w, http.StatusOK, clientPayload(*saved))
}

func (h ClientHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "delete client", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func clientPayload(c domain.Client) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"name":         c.Name,
		"phone":        c.Phone,
		"zalo":         c.Zalo,
		"type":         c.Type,
		"status":       c.Status,
		"notes":        c.Notes,
		"nextFollowUp": dateString(c.NextFollowUp),
		"createdAt":    c.CreatedAt,
	}
}

func clientTypeOrDefault(raw string) domain.ClientType {
	switch domain.ClientType(raw) {
	case domain.ClientTownhouse, domain.ClientVilla, domain.ClientRenovation, domain.ClientInterior:
		return domain.ClientType(raw)
	}
	return domain.ClientTownhouse
}

func clientStatusOrDefault(raw string) domain.ClientStatus {
	switch domain.ClientStatus(raw) {
	case domain.ClientNew, domain.ClientConsulting, domain.ClientSigned, domain.ClientCancelled:
		return domain.ClientStatus(raw)
	}
	return domain.ClientNew
}

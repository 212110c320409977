package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/ports"
)

// HealthHandler exposes a liveness probe with dataset counts.
type HealthHandler struct {
	State ports.StateProbe
}

func (h HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	if err := h.State.Health(ctx); err != nil {
		status = "degraded"
	}
	clients, projects := h.State.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"clients":  clients,
		"projects": projects,
	})
}

package handler

import (
	"net/http"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
)

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (*domain.Date, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// optionalDate converts a JSON field that may be empty into an optional Date.
// Empty strings mean "not set"; they are never stored as sentinels.
func optionalDate(raw string) (*domain.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func dateString(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

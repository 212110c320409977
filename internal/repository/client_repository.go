package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

type ClientRepository struct {
	Store *store.Store
}

type CreateClientParams struct {
	Name         string
	Phone        string
	Zalo         string
	Type         domain.ClientType
	Status       domain.ClientStatus
	Notes        string
	NextFollowUp *domain.Date
}

// List returns clients, optionally narrowed by a name or phone search term.
func (r ClientRepository) List(ctx context.Context, q string) []domain.Client {
	clients := r.Store.Clients()
	if q == "" {
		return clients
	}
	needle := strings.ToLower(q)
	out := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(c.Phone, q) {
			out = append(out, c)
		}
	}
	return out
}

func (r ClientRepository) Get(ctx context.Context, id string) (*domain.Client, error) {
	for _, c := range r.Store.Clients() {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r ClientRepository) Create(ctx context.Context, in CreateClientParams) (*domain.Client, error) {
	c := domain.Client{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Phone:        in.Phone,
		Zalo:         in.Zalo,
		Type:         in.Type,
		Status:       in.Status,
		Notes:        in.Notes,
		NextFollowUp: in.NextFollowUp,
		CreatedAt:    time.Now(),
	}
	err := r.Store.MutateClients(func(clients []domain.Client) ([]domain.Client, error) {
		return append(clients, c), nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update replaces the stored client with the given value, matched by ID.
func (r ClientRepository) Update(ctx context.Context, c domain.Client) (*domain.Client, error) {
	var out domain.Client
	err := r.Store.MutateClients(func(clients []domain.Client) ([]domain.Client, error) {
		for i := range clients {
			if clients[i].ID == c.ID {
				c.CreatedAt = clients[i].CreatedAt
				clients[i] = c
				out = c
				return clients, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the client. Projects referencing it keep their ClientID;
// the orphaned reference is deliberate (no cascade).
func (r ClientRepository) Delete(ctx context.Context, id string) error {
	return r.Store.MutateClients(func(clients []domain.Client) ([]domain.Client, error) {
		for i := range clients {
			if clients[i].ID == id {
				return append(clients[:i], clients[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

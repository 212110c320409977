// Package store owns the authoritative in-memory collections. There is no
// database by design: the whole dataset is a few dozen records living for the
// lifetime of the process, and every mutation replaces the affected slice
// wholesale so readers always see a consistent snapshot.
package store

import (
	"context"
	"sync"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	clients  []domain.Client
	projects []domain.Project
}

func New() *Store {
	return &Store{}
}

// Clients returns a copy of the client list.
func (s *Store) Clients() []domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Client(nil), s.clients...)
}

// Projects returns a deep copy of the project list.
func (s *Store) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	return out
}

// Snapshot returns both collections from the same locked read, for views that
// join clients and projects.
func (s *Store) Snapshot() ([]domain.Client, []domain.Project) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clients := append([]domain.Client(nil), s.clients...)
	projects := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, p.Clone())
	}
	return clients, projects
}

// MutateClients runs fn on a copy of the client list and installs its result
// atomically. Returning an error leaves the stored list untouched.
func (s *Store) MutateClients(fn func([]domain.Client) ([]domain.Client, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(append([]domain.Client(nil), s.clients...))
	if err != nil {
		return err
	}
	s.clients = next
	return nil
}

// MutateProjects is the project-side counterpart of MutateClients.
func (s *Store) MutateProjects(fn func([]domain.Project) ([]domain.Project, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		copied = append(copied, p.Clone())
	}
	next, err := fn(copied)
	if err != nil {
		return err
	}
	s.projects = next
	return nil
}

// Health always succeeds while the process is up; the store has no external
// dependency to probe.
func (s *Store) Health(ctx context.Context) error {
	return ctx.Err()
}

// Counts reports dataset sizes for the health endpoint.
func (s *Store) Counts() (clients, projects int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients), len(s.projects)
}

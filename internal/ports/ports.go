package ports

import "context"

// StateProbe is implemented by the in-memory store so the health endpoint can
// report on the resident dataset without importing it.
type StateProbe interface {
	Health(ctx context.Context) error
	Counts() (clients, projects int)
}

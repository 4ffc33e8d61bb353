package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
)

// ErrMemoryNotFound indicates the requested memory does not exist.
var ErrMemoryNotFound = errors.New("memory not found")

// MemoryStore defines the driven port for memory persistence.
// Update and Delete return ErrMemoryNotFound if the memory does not exist.
type MemoryStore interface {
	// Create inserts a memory, assigning an ID and creation time when unset,
	// and returns the stored record.
	Create(ctx context.Context, memory model.Memory) (model.Memory, error)

	// GetByID returns nil, nil if no memory has the given ID.
	GetByID(ctx context.Context, id string) (*model.Memory, error)

	// ListAll returns every memory, newest first.
	ListAll(ctx context.Context) ([]model.Memory, error)

	Update(ctx context.Context, memory model.Memory) error
	Delete(ctx context.Context, id string) error

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error
}

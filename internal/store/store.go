// Package store provides the memory storage interface and SQLite implementation.
package store

import (
	"context"
	"time"

	"github.com/beano/memory-man/internal/model"
)

// PutParams holds parameters for storing a memory.
type PutParams struct {
	Project    string
	Category   string
	Content    string
	Tags       []string
	Importance int
}

// UpdateParams holds the partial update for a memory. Nil fields are left
// unchanged.
type UpdateParams struct {
	Project    *string
	Category   *string
	Content    *string
	Tags       *[]string
	Importance *int
}

// QueryParams holds filters for querying memories.
type QueryParams struct {
	Project         string
	Category        string
	Tags            []string
	Text            string
	Limit           int
	IncludeArchived bool
}

// ProjectInfo summarizes one project for listings.
type ProjectInfo struct {
	Name        string    `json:"project"`
	MemoryCount int       `json:"memory_count"`
	LastUpdated time.Time `json:"last_updated"`
}

// ProjectVocab is the known-project vocabulary the classifier matches against.
type ProjectVocab struct {
	Name        string
	Tags        []string
	LastUpdated time.Time
}

// Store defines the memory storage contract.
type Store interface {
	// Put validates and stores a new memory, returning it with its id.
	Put(ctx context.Context, p PutParams) (*model.Memory, error)

	// Get retrieves a memory by id and records the access.
	Get(ctx context.Context, id string) (*model.Memory, error)

	// Update applies a partial update and returns the updated memory.
	Update(ctx context.Context, id string, p UpdateParams) (*model.Memory, error)

	// Archive moves an active memory to the archived state.
	Archive(ctx context.Context, id, reason string) (*model.Memory, error)

	// Unarchive restores an archived memory to the active state.
	Unarchive(ctx context.Context, id string) (*model.Memory, error)

	// Delete permanently removes a memory. Irreversible.
	Delete(ctx context.Context, id string) error

	// Query returns matching memories, ranked, with the limit always enforced.
	Query(ctx context.Context, p QueryParams) ([]model.Memory, error)

	// Search is Query plus the read-through access touch on every hit.
	Search(ctx context.Context, p QueryParams) ([]model.Memory, error)

	// Touch records an access on each given memory.
	Touch(ctx context.Context, ids ...string) error

	// ListProjects returns the distinct projects, most recently updated first.
	ListProjects(ctx context.Context) ([]ProjectInfo, error)

	// ListActive returns every active memory, optionally scoped to a project.
	ListActive(ctx context.Context, project string) ([]model.Memory, error)

	// Close closes the store.
	Close() error
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
	"github.com/ericfisherdev/memorybox/internal/domain/port/driven"
)

// storedTimeLayout is fixed-width so created_at sorts lexicographically.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

// Compile-time interface satisfaction check.
var _ driven.MemoryStore = (*MemoryRepo)(nil)

// MemoryRepo is the SQLite implementation of the MemoryStore port interface.
type MemoryRepo struct {
	db  *DB
	now func() time.Time
}

// NewMemoryRepo creates a new MemoryRepo backed by the given DB.
func NewMemoryRepo(db *DB) *MemoryRepo {
	return &MemoryRepo{db: db, now: time.Now}
}

// Create inserts a new memory. A UUID is generated when memory.ID is empty and
// CreatedAt defaults to the current time.
func (r *MemoryRepo) Create(ctx context.Context, memory model.Memory) (model.Memory, error) {
	const query = `INSERT INTO memories (id, title, description, image_url, created_at) VALUES (?, ?, ?, ?, ?)`

	if memory.ID == "" {
		memory.ID = uuid.NewString()
	}
	if memory.CreatedAt.IsZero() {
		memory.CreatedAt = r.now()
	}
	memory.CreatedAt = memory.CreatedAt.UTC()

	_, err := r.db.Writer.ExecContext(ctx, query,
		memory.ID,
		memory.Title,
		memory.Description,
		memory.ImageURL,
		memory.CreatedAt.Format(storedTimeLayout),
	)
	if err != nil {
		return model.Memory{}, fmt.Errorf("create memory %s: %w", memory.ID, err)
	}

	return memory, nil
}

// GetByID retrieves a memory by ID. Returns nil, nil if the memory does not exist.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (*model.Memory, error) {
	const query = `SELECT id, title, description, image_url, created_at FROM memories WHERE id = ?`

	memory, err := scanMemory(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get memory %s: %w", id, err)
	}

	return memory, nil
}

// ListAll returns all memories ordered newest first.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]model.Memory, error) {
	const query = `SELECT id, title, description, image_url, created_at FROM memories ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	memories := []model.Memory{}
	for rows.Next() {
		memory, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memories = append(memories, *memory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memories: %w", err)
	}

	return memories, nil
}

// Update replaces the title, description and image URL of an existing memory.
// CreatedAt is never changed.
func (r *MemoryRepo) Update(ctx context.Context, memory model.Memory) error {
	const query = `UPDATE memories SET title = ?, description = ?, image_url = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, memory.Title, memory.Description, memory.ImageURL, memory.ID)
	if err != nil {
		return fmt.Errorf("update memory %s: %w", memory.ID, err)
	}

	return requireAffected(result, "update", memory.ID)
}

// Delete removes a memory by ID.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM memories WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete memory %s: %w", id, err)
	}

	return requireAffected(result, "delete", id)
}

// Ping satisfies the MemoryStore interface.
func (r *MemoryRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func requireAffected(result sql.Result, op, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s memory %s: %w", op, id, driven.ErrMemoryNotFound)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMemory(s scanner) (*model.Memory, error) {
	var memory model.Memory
	var createdAt string

	err := s.Scan(&memory.ID, &memory.Title, &memory.Description, &memory.ImageURL, &createdAt)
	if err != nil {
		return nil, err
	}

	memory.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &memory, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		storedTimeLayout,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

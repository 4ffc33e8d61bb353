package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
	"github.com/ericfisherdev/memorybox/internal/domain/port/driven"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// --- MemoryStore mock ---

type mockMemoryStore struct {
	memories map[string]model.Memory
	nextID   int
	clock    time.Time

	pingErr   error
	createErr error
	listErr   error
	getErr    error

	updateCalls int
}

func newMockMemoryStore() *mockMemoryStore {
	return &mockMemoryStore{
		memories: make(map[string]model.Memory),
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *mockMemoryStore) Create(_ context.Context, memory model.Memory) (model.Memory, error) {
	if m.createErr != nil {
		return model.Memory{}, m.createErr
	}
	m.nextID++
	memory.ID = "mem-" + strconv.Itoa(m.nextID)
	memory.CreatedAt = m.clock.Add(time.Duration(m.nextID) * time.Minute)
	m.memories[memory.ID] = memory
	return memory, nil
}

func (m *mockMemoryStore) GetByID(_ context.Context, id string) (*model.Memory, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	memory, ok := m.memories[id]
	if !ok {
		return nil, nil
	}
	return &memory, nil
}

func (m *mockMemoryStore) ListAll(_ context.Context) ([]model.Memory, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Memory, 0, len(m.memories))
	for _, memory := range m.memories {
		out = append(out, memory)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockMemoryStore) Update(_ context.Context, memory model.Memory) error {
	m.updateCalls++
	if _, ok := m.memories[memory.ID]; !ok {
		return driven.ErrMemoryNotFound
	}
	m.memories[memory.ID] = memory
	return nil
}

func (m *mockMemoryStore) Delete(_ context.Context, id string) error {
	if _, ok := m.memories[id]; !ok {
		return driven.ErrMemoryNotFound
	}
	delete(m.memories, id)
	return nil
}

func (m *mockMemoryStore) Ping(_ context.Context) error {
	return m.pingErr
}

// --- MediaHost mock ---

type mockMediaHost struct {
	configured bool
	uploadErr  error
	uploaded   []model.Image
}

func (m *mockMediaHost) Configured() bool {
	return m.configured
}

func (m *mockMediaHost) Upload(_ context.Context, image model.Image) (string, error) {
	if !m.configured {
		return "", driven.ErrMediaHostNotConfigured
	}
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploaded = append(m.uploaded, image)
	return "https://images.example.com/" + image.Filename, nil
}

// --- TokenCodec mock ---

// mockTokenCodec issues tokens of the form "token-for:<username>" and accepts
// only tokens it would have issued.
type mockTokenCodec struct {
	issueErr  error
	verifyErr error
	issued    []string
}

const mockTokenPrefix = "token-for:"

func (m *mockTokenCodec) Issue(username string) (string, error) {
	if m.issueErr != nil {
		return "", m.issueErr
	}
	m.issued = append(m.issued, username)
	return mockTokenPrefix + username, nil
}

func (m *mockTokenCodec) Verify(token string) (model.TokenClaims, error) {
	if m.verifyErr != nil {
		return model.TokenClaims{}, m.verifyErr
	}
	if len(token) <= len(mockTokenPrefix) || token[:len(mockTokenPrefix)] != mockTokenPrefix {
		return model.TokenClaims{}, errors.Join(driven.ErrTokenMalformed, errors.New("unrecognized token"))
	}
	return model.TokenClaims{Username: token[len(mockTokenPrefix):]}, nil
}

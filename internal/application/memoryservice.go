package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
	"github.com/ericfisherdev/memorybox/internal/domain/port/driven"
)

// Sentinel errors returned by MemoryService.
var (
	// ErrNoImage indicates an upload without image data.
	ErrNoImage = errors.New("no file uploaded")

	// ErrInvalidTitle indicates an update that sets the title to the empty string.
	ErrInvalidTitle = errors.New("title must not be empty")

	// ErrMediaHostNotConfigured indicates an image operation while the media
	// host has no account credentials.
	ErrMediaHostNotConfigured = errors.New("media host is not configured")

	// ErrMemoryNotFound indicates the requested memory does not exist.
	ErrMemoryNotFound = errors.New("memory not found")
)

// UploadInput carries a new memory. Empty Title and Description take their
// defaults.
type UploadInput struct {
	Title       string
	Description string
	Image       *model.Image
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Image       *model.Image
}

// MemoryService coordinates memory persistence with the media host. It depends
// only on port interfaces.
type MemoryService struct {
	store  driven.MemoryStore
	media  driven.MediaHost
	logger *slog.Logger
}

// NewMemoryService creates a new MemoryService with the required dependencies.
func NewMemoryService(store driven.MemoryStore, media driven.MediaHost, logger *slog.Logger) *MemoryService {
	return &MemoryService{
		store:  store,
		media:  media,
		logger: logger,
	}
}

// List returns every memory, newest first.
func (s *MemoryService) List(ctx context.Context) ([]model.Memory, error) {
	memories, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	return memories, nil
}

// Get returns a single memory. Returns ErrMemoryNotFound if it does not exist.
func (s *MemoryService) Get(ctx context.Context, id string) (*model.Memory, error) {
	memory, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get memory %s: %w", id, err)
	}
	if memory == nil {
		return nil, ErrMemoryNotFound
	}
	return memory, nil
}

// Upload sends the image to the media host and stores a new memory pointing
// at it. The image is validated and the media host checked before any
// network call.
func (s *MemoryService) Upload(ctx context.Context, in UploadInput) (*model.Memory, error) {
	if in.Image.Empty() {
		return nil, ErrNoImage
	}
	if !s.media.Configured() {
		return nil, ErrMediaHostNotConfigured
	}

	s.logger.InfoContext(ctx, "uploading image", "filename", in.Image.Filename, "size", len(in.Image.Data))

	imageURL, err := s.uploadImage(ctx, *in.Image)
	if err != nil {
		return nil, err
	}

	title := in.Title
	if title == "" {
		title = model.DefaultMemoryTitle
	}

	created, err := s.store.Create(ctx, model.Memory{
		Title:       title,
		Description: in.Description,
		ImageURL:    imageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("save memory: %w", err)
	}

	s.logger.InfoContext(ctx, "memory created", "id", created.ID)

	return &created, nil
}

// Update applies the provided fields to an existing memory. An unknown id is
// reported before any field is validated, and a new image is uploaded only
// after the memory is known to exist.
func (s *MemoryService) Update(ctx context.Context, id string, in UpdateInput) (*model.Memory, error) {
	memory, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil && *in.Title == "" {
		return nil, ErrInvalidTitle
	}

	if in.Title != nil {
		memory.Title = *in.Title
	}
	if in.Description != nil {
		memory.Description = *in.Description
	}

	if in.Image != nil {
		if in.Image.Empty() {
			return nil, ErrNoImage
		}
		if !s.media.Configured() {
			return nil, ErrMediaHostNotConfigured
		}

		imageURL, err := s.uploadImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		memory.ImageURL = imageURL
	}

	if err := s.store.Update(ctx, *memory); err != nil {
		if errors.Is(err, driven.ErrMemoryNotFound) {
			return nil, ErrMemoryNotFound
		}
		return nil, fmt.Errorf("update memory %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "memory updated", "id", id)

	return memory, nil
}

// Delete removes a memory record. The hosted image is left in place.
func (s *MemoryService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, driven.ErrMemoryNotFound) {
			return ErrMemoryNotFound
		}
		return fmt.Errorf("delete memory %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "memory deleted", "id", id)
	return nil
}

// Healthy reports whether the memory store is reachable.
func (s *MemoryService) Healthy(ctx context.Context) bool {
	if err := s.store.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "memory store unreachable", "error", err)
		return false
	}
	return true
}

func (s *MemoryService) uploadImage(ctx context.Context, image model.Image) (string, error) {
	imageURL, err := s.media.Upload(ctx, image)
	if errors.Is(err, driven.ErrMediaHostNotConfigured) {
		return "", ErrMediaHostNotConfigured
	}
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return imageURL, nil
}

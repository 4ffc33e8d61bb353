package httphandler

import (
	"errors"
	"net/http"

	"github.com/ericfisherdev/memorybox/internal/application"
)

const mediaHostNotConfiguredMessage = "Cloudinary is not configured. Please set MEMORYBOX_CLOUDINARY_CLOUD_NAME, " +
	"MEMORYBOX_CLOUDINARY_API_KEY, and MEMORYBOX_CLOUDINARY_API_SECRET."

// ListMemories returns every memory, newest first.
func (h *Handler) ListMemories(w http.ResponseWriter, r *http.Request) {
	memories, err := h.memories.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list memories", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]MemoryResponse, 0, len(memories))
	for _, m := range memories {
		resp = append(resp, toMemoryResponse(m))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetMemory returns a single memory by ID.
func (h *Handler) GetMemory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	memory, err := h.memories.Get(r.Context(), id)
	if err != nil {
		h.writeMemoryError(w, r, "get", id, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemoryResponse(*memory))
}

// UploadMemory stores a new memory from a multipart form with an "image" file
// part and optional "title" and "description" fields.
func (h *Handler) UploadMemory(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	in := application.UploadInput{Image: form.image}
	if form.title != nil {
		in.Title = *form.title
	}
	if form.description != nil {
		in.Description = *form.description
	}

	memory, err := h.memories.Upload(r.Context(), in)
	if err != nil {
		h.metrics.observeUpload("error")
		h.writeMemoryError(w, r, "upload", "", err)
		return
	}

	h.metrics.observeUpload("success")
	username, _ := IdentityFromContext(r.Context())
	h.logger.Info("memory uploaded", "id", memory.ID, "username", username)

	writeJSON(w, http.StatusOK, toMemoryResponse(*memory))
}

// UpdateMemory applies the fields present in a multipart form to an existing
// memory. Absent fields are left unchanged.
func (h *Handler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	memory, err := h.memories.Update(r.Context(), id, application.UpdateInput{
		Title:       form.title,
		Description: form.description,
		Image:       form.image,
	})
	if err != nil {
		h.writeMemoryError(w, r, "update", id, err)
		return
	}

	if form.image != nil {
		h.metrics.observeUpload("success")
	}

	writeJSON(w, http.StatusOK, toMemoryResponse(*memory))
}

// DeleteMemory removes a memory by ID.
func (h *Handler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.memories.Delete(r.Context(), id); err != nil {
		h.writeMemoryError(w, r, "delete", id, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		Message: "Memory deleted successfully",
		ID:      id,
	})
}

// parseForm reads the memory form and writes the error response itself when
// the body cannot be used.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (*memoryForm, bool) {
	form, err := h.readMemoryForm(w, r)
	switch {
	case err == nil:
		return form, true
	case errors.Is(err, errUploadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, errBadMultipart):
		h.logger.Debug("malformed multipart body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "invalid multipart form")
	default:
		h.logger.Error("failed to read upload", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
	return nil, false
}

// writeMemoryError maps MemoryService errors to HTTP responses.
func (h *Handler) writeMemoryError(w http.ResponseWriter, r *http.Request, op, id string, err error) {
	switch {
	case errors.Is(err, application.ErrMemoryNotFound):
		writeError(w, http.StatusNotFound, "Memory not found")
	case errors.Is(err, application.ErrNoImage):
		writeError(w, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, application.ErrInvalidTitle):
		writeError(w, http.StatusBadRequest, "Title must not be empty")
	case errors.Is(err, application.ErrMediaHostNotConfigured):
		h.logger.Warn("media host not configured", "op", op)
		writeError(w, http.StatusInternalServerError, mediaHostNotConfiguredMessage)
	default:
		h.logger.Error("memory operation failed", "op", op, "id", id, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

package httphandler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
)

const (
	imageField       = "image"
	titleField       = "title"
	descriptionField = "description"
)

// errUploadTooLarge indicates the request body exceeded the upload limit.
var errUploadTooLarge = errors.New("upload too large")

// errBadMultipart indicates a multipart body that could not be parsed.
var errBadMultipart = errors.New("malformed multipart body")

// memoryForm holds the parsed parts of a memory upload or update. Nil fields
// were absent from the request.
type memoryForm struct {
	title       *string
	description *string
	image       *model.Image
}

// readMemoryForm parses a multipart/form-data body with the image in the
// "image" part. A non-multipart body is treated as a form with no parts.
// Zero-length file parts are ignored.
func (h *Handler) readMemoryForm(w http.ResponseWriter, r *http.Request) (*memoryForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	err := r.ParseMultipartForm(h.maxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		return &memoryForm{}, nil
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, errUploadTooLarge
		}
		return nil, fmt.Errorf("%w: %v", errBadMultipart, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := &memoryForm{
		title:       formValue(r.MultipartForm, titleField),
		description: formValue(r.MultipartForm, descriptionField),
	}

	files := r.MultipartForm.File[imageField]
	if len(files) == 0 || files[0].Size == 0 {
		return form, nil
	}

	image, err := readImage(files[0])
	if err != nil {
		return nil, err
	}
	form.image = image

	return form, nil
}

func formValue(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func readImage(fh *multipart.FileHeader) (*model.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open image part: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read image part: %w", err)
	}

	return &model.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

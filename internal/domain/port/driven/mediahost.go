package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
)

// ErrMediaHostNotConfigured is returned by MediaHost.Upload when the adapter
// has no account credentials.
var ErrMediaHostNotConfigured = errors.New("media host not configured")

// MediaHost defines the driven port for the external image host.
type MediaHost interface {
	// Configured returns true when the host has the credentials it needs to
	// accept uploads.
	Configured() bool

	// Upload stores the image and returns its public HTTPS URL.
	Upload(ctx context.Context, image model.Image) (string, error)
}

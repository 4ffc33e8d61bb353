// Package cloudinary implements the MediaHost port on top of the Cloudinary
// upload API.
package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/ericfisherdev/memorybox/internal/domain/model"
	"github.com/ericfisherdev/memorybox/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.MediaHost = (*Client)(nil)

// Config holds the Cloudinary account credentials. All three fields must be
// set for uploads to be accepted.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// Folder is an optional destination folder for uploaded assets.
	Folder string
}

// Configured returns true when every credential field is non-empty.
func (c Config) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// uploadFunc is the subset of the Cloudinary SDK the client depends on.
type uploadFunc func(ctx context.Context, file any, params uploader.UploadParams) (*uploader.UploadResult, error)

// Client uploads images to Cloudinary.
type Client struct {
	folder string
	upload uploadFunc
	logger *slog.Logger
}

// NewClient creates a Client. An unconfigured Config yields a usable Client
// whose Configured method returns false and whose uploads fail with
// driven.ErrMediaHostNotConfigured.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	c := &Client{folder: cfg.Folder, logger: logger}
	if !cfg.Configured() {
		return c, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}

	c.upload = cld.Upload.Upload
	return c, nil
}

// Configured satisfies the MediaHost interface.
func (c *Client) Configured() bool {
	return c.upload != nil
}

// Upload sends the image bytes to Cloudinary as an image resource and returns
// the secure URL of the stored asset.
func (c *Client) Upload(ctx context.Context, image model.Image) (string, error) {
	if !c.Configured() {
		return "", driven.ErrMediaHostNotConfigured
	}
	if image.Empty() {
		return "", errors.New("upload image: no data")
	}

	params := uploader.UploadParams{
		ResourceType: "image",
		Folder:       c.folder,
	}

	result, err := c.upload(ctx, bytes.NewReader(image.Data), params)
	if err != nil {
		return "", fmt.Errorf("upload image %q: %w", image.Filename, err)
	}
	if result == nil {
		return "", fmt.Errorf("upload image %q: empty response", image.Filename)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("upload image %q: cloudinary: %s", image.Filename, result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("upload image %q: response has no secure_url", image.Filename)
	}

	c.logger.Debug("image uploaded",
		"filename", image.Filename,
		"public_id", result.PublicID,
		"bytes", result.Bytes,
	)

	return result.SecureURL, nil
}

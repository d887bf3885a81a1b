// Package media stores product images and hands back their public URLs.
package media

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned when no object storage is configured.
var ErrDisabled = errors.New("image uploads are not configured")

// Uploader stores an object and returns the URL it is publicly served from.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error)
}

type disabled struct{}

// Disabled is the Uploader used when S3_BUCKET is empty.
func Disabled() Uploader { return disabled{} }

func (disabled) Upload(context.Context, string, string, io.ReadSeeker) (string, error) {
	return "", ErrDisabled
}

package objectstore

import (
	"context"
	"io"
)

// DefaultPhotoURL is served for doctors who never uploaded a photo.
const DefaultPhotoURL = "https://static.healthbridge.example/avatars/default.png"

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Noop discards uploads and hands back the default photo URL. Used
// when no object store is configured.
type Noop struct{}

func (Noop) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	return DefaultPhotoURL, nil
}

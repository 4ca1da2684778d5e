package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
)

var ErrUnsupportedContentType = errors.New("unsupported image content type")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores public objects such as sponsor logos.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// ExtensionForContentType maps the accepted raster image types to a file
// extension. SVG is refused since it can carry script.
func ExtensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
}

// ObjectKey builds a unique key such as "sponsors/12/3f6c...png". A fresh
// ObjectKey is unique per upload, so a replaced logo never reuses a URL.
func ObjectKey(prefix string, ownerID int, ext string) string {
	return path.Join(prefix, fmt.Sprint(ownerID), uuid.NewString()+ext)
}

package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
)

// MemoryUploader keeps objects in a map. Used by tests and when no bucket is configured.
type MemoryUploader struct {
	mu      sync.Mutex
	base    *url.URL
	objects map[string][]byte
}

func NewMemoryUploader(publicBaseURL string) *MemoryUploader {
	base, _ := url.Parse(publicBaseURL)
	if base != nil && base.Path == "" {
		base.Path = "/"
	}
	return &MemoryUploader{base: base, objects: make(map[string][]byte)}
}

func (m *MemoryUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload body: %w", err)
	}
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return &UploadResult{Key: key, Location: m.GetPublicURL(key)}, nil
}

func (m *MemoryUploader) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryUploader) GetPublicURL(key string) string {
	return publicURL(m.base, key)
}

// Object returns the stored bytes for key.
func (m *MemoryUploader) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionForContentType(t *testing.T) {
	ext, err := ExtensionForContentType("image/png")
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	_, err = ExtensionForContentType("application/pdf")
	assert.True(t, errors.Is(err, ErrUnsupportedContentType))
	_, err = ExtensionForContentType("image/svg+xml")
	assert.True(t, errors.Is(err, ErrUnsupportedContentType))
}

func TestObjectKeyIsUnique(t *testing.T) {
	a := ObjectKey("sponsors", 3, ".png")
	b := ObjectKey("sponsors", 3, ".png")
	assert.True(t, strings.HasPrefix(a, "sponsors/3/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
}

func TestMemoryUploader(t *testing.T) {
	u := NewMemoryUploader("https://cdn.example.com")
	res, err := u.Upload(context.Background(), "sponsors/1/logo.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/sponsors/1/logo.png", res.Location)

	data, ok := u.Object("sponsors/1/logo.png")
	require.True(t, ok)
	assert.Equal(t, "png", string(data))

	require.NoError(t, u.Delete(context.Background(), "sponsors/1/logo.png"))
	_, ok = u.Object("sponsors/1/logo.png")
	assert.False(t, ok)
}

func TestPublicURLWithBasePath(t *testing.T) {
	u := NewMemoryUploader("https://cdn.example.com/assets/")
	assert.Equal(t, "https://cdn.example.com/assets/sponsors/1/a.png", u.GetPublicURL("/sponsors/1/a.png"))
	assert.Equal(t, "", u.GetPublicURL(""))
}

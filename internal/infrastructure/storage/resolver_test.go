package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/123shiju/ecommerce-client/internal/infrastructure/config"
)

func TestURLImageResolver(t *testing.T) {
	r, err := NewURLImageResolver("http://localhost:5000/")
	require.NoError(t, err)

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{name: "relative path", ref: "uploads/phone.png", want: "http://localhost:5000/uploads/phone.png"},
		{name: "leading slash", ref: "/uploads/phone.png", want: "http://localhost:5000/uploads/phone.png"},
		{name: "absolute url untouched", ref: "https://cdn.example.com/a.png", want: "https://cdn.example.com/a.png"},
		{name: "empty", ref: "  ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveImage(context.Background(), tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewURLImageResolver_RejectsRelativeBase(t *testing.T) {
	_, err := NewURLImageResolver("/static")
	assert.Error(t, err)
}

func TestNewS3ImageResolver_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ImageResolver(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3ImageResolver(&config.ImagesConfig{S3AccessKey: "k", S3SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials returns error", func(t *testing.T) {
		_, err := NewS3ImageResolver(&config.ImagesConfig{S3Bucket: "products"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "credentials are required")
	})
}

func TestS3ImageResolver_ResolveImage(t *testing.T) {
	r, err := NewS3ImageResolver(&config.ImagesConfig{
		S3Endpoint:     "http://localhost:9000",
		S3Bucket:       "products",
		S3AccessKey:    "test-key",
		S3SecretKey:    "test-secret",
		S3UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)), WithPresignExpiration(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "products", r.Bucket())

	t.Run("signs object keys", func(t *testing.T) {
		signed, err := r.ResolveImage(context.Background(), "/images/phone.png")
		require.NoError(t, err)

		u, err := url.Parse(signed)
		require.NoError(t, err)
		assert.Equal(t, "localhost:9000", u.Host)
		assert.True(t, strings.HasPrefix(u.Path, "/products/images/phone.png"), u.Path)
		assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
		assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	})

	t.Run("absolute urls pass through", func(t *testing.T) {
		got, err := r.ResolveImage(context.Background(), "https://cdn.example.com/a.png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/a.png", got)
	})
}

// Package storage turns product image references into URLs a browser can load.
package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// URLImageResolver serves images from the backend's static upload path
type URLImageResolver struct {
	base *url.URL
}

// NewURLImageResolver creates a resolver rooted at baseURL
func NewURLImageResolver(baseURL string) (*URLImageResolver, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("image base url must be absolute")
	}
	return &URLImageResolver{base: u}, nil
}

// ResolveImage returns absolute references unchanged and joins relative
// ones onto the base URL. An empty reference stays empty.
func (r *URLImageResolver) ResolveImage(_ context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}
	if isAbsolute(ref) {
		return ref, nil
	}
	return r.base.JoinPath(strings.TrimLeft(ref, "/")).String(), nil
}

func isAbsolute(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && u.Scheme != "" && u.Host != ""
}

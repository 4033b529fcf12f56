package source

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTP downloads the images.
//
// An identifier is either a URL, with its double slash possibly squashed
// to one as in "http:/example.org/a.jpg", a base64 encoded URL, or a path
// relative to BaseURL.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTP creates an HTTP source resolving the relative identifiers against
// baseURL.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{BaseURL: baseURL}
}

// Fetch downloads the image.
func (hs *HTTP) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	url, ok := hs.url(identifier)
	if !ok {
		return nil, notFound(identifier, nil)
	}

	debug("Downloading %v", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := hs.client().Do(req)
	if err != nil {
		debug("Download error: %q : %#v.", url, err)
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, notFound(identifier, fmt.Errorf("GET %s: %s", url, resp.Status))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	if resp.ContentLength > 0 {
		b := bytes.NewBuffer(make([]byte, 0, resp.ContentLength))
		_, err = b.ReadFrom(resp.Body)
		return b.Bytes(), err
	}
	return io.ReadAll(resp.Body)
}

func (hs *HTTP) url(identifier string) (string, bool) {
	if isURL(identifier) {
		if !strings.Contains(identifier, "://") {
			identifier = strings.Replace(identifier, ":/", "://", 1)
		}
		return identifier, true
	}

	if b, err := base64.StdEncoding.DecodeString(identifier); err == nil && isURL(string(b)) {
		return string(b), true
	}

	if hs.BaseURL == "" {
		return "", false
	}
	return strings.TrimSuffix(hs.BaseURL, "/") + "/" + strings.TrimPrefix(identifier, "/"), true
}

func (hs *HTTP) client() *http.Client {
	if hs.Client == nil {
		return http.DefaultClient
	}
	return hs.Client
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http:/") || strings.HasPrefix(s, "https:/")
}

package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when a source has no document under the name.
var ErrNotFound = errors.New("not found")

// maxDocumentSize caps how much of a remote document is read.
const maxDocumentSize = 32 << 20

// Source fetches raw data documents by slash-separated name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads documents from a filesystem tree.
type DirSource struct {
	FS fs.FS
}

// NewDirSource returns a source rooted at dir.
func NewDirSource(dir string) DirSource {
	return DirSource{FS: os.DirFS(dir)}
}

func (s DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	data, err := fs.ReadFile(s.FS, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// HTTPSource fetches documents relative to a deployed site's base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource returns a source for the site at baseURL. A nil client gets
// a default with a 30 second timeout.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{base: u, client: client}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target := s.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(name, "/")})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", name, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", name, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

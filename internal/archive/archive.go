// Package archive downloads light-curve files from the MAST archive.
package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ItIsUday/artron/internal/model"
)

// DefaultBaseURL is the MAST portal.
const DefaultBaseURL = "https://mast.stsci.edu"

const downloadPath = "/api/v0.1/Download/file"

// Result describes a completed download.
type Result struct {
	Identifier string `json:"identifier"`
	Path       string `json:"path"`
	Bytes      int64  `json:"bytes"`
}

// Downloader fetches the file named by a resource identifier into destDir.
// Each call is independent of every other call.
type Downloader interface {
	Download(ctx context.Context, identifier, destDir string) (Result, error)
}

// MASTClient implements Downloader against the MAST download API.
type MASTClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Compile-time check that MASTClient implements Downloader.
var _ Downloader = (*MASTClient)(nil)

// NewMASTClient creates a client for the MAST instance at baseURL
// (DefaultBaseURL when empty). A nil httpClient uses http.DefaultClient.
func NewMASTClient(baseURL string, httpClient *http.Client) *MASTClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MASTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "artron",
		httpClient: httpClient,
	}
}

// DownloadURL returns the HTTP URL that serves identifier.
func (c *MASTClient) DownloadURL(identifier string) string {
	return c.baseURL + downloadPath + "?" + url.Values{"uri": {identifier}}.Encode()
}

// Download streams the file into destDir under the identifier's base name.
// The file is written atomically: a failed transfer leaves no partial file.
func (c *MASTClient) Download(ctx context.Context, identifier, destDir string) (Result, error) {
	name := path.Base(identifier)
	if name == "." || name == "/" || name == "" {
		return Result{}, fmt.Errorf("identifier %q has no file name", identifier)
	}

	u := c.DownloadURL(identifier)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, &model.HTTPError{
			StatusCode: resp.StatusCode,
			URL:        u,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if destDir == "" {
		destDir = "."
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create destination: %w", err)
	}

	dest := filepath.Join(destDir, name)
	cr := &countingReader{r: resp.Body}
	if err := atomic.WriteFile(dest, cr); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", dest, err)
	}
	return Result{Identifier: identifier, Path: dest, Bytes: cr.n}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

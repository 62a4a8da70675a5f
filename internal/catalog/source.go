package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ItIsUday/artron/internal/model"
)

// DefaultURL is the ExoFOP TOI list as CSV.
const DefaultURL = "https://exofop.ipac.caltech.edu/tess/download_toi.php?sort=toi&output=csv"

// Source loads the raw catalog, reading through a Cache.
type Source struct {
	url        string
	cache      Cache
	httpClient *http.Client
	logger     *slog.Logger

	// Refresh skips the cache read; the fetched catalog still replaces it.
	Refresh bool
}

// NewSource creates a source for url. A nil cache disables caching; a nil
// client uses http.DefaultClient.
func NewSource(url string, cache Cache, client *http.Client, logger *slog.Logger) *Source {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{url: url, cache: cache, httpClient: client, logger: logger}
}

// URL returns the remote catalog location.
func (s *Source) URL() string { return s.url }

// Load returns the cached catalog when present, otherwise downloads it and
// stores it in the cache verbatim.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if s.cache != nil && !s.Refresh {
		data, ok, err := s.cache.Get(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			s.logger.Info("loading catalog from cache", "cache", s.cache.Location(), "bytes", len(data))
			return data, nil
		}
	}

	s.logger.Info("downloading catalog", "url", s.url)
	data, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, data); err != nil {
			return nil, err
		}
		s.logger.Info("cached catalog", "cache", s.cache.Location(), "bytes", len(data))
	}
	return data, nil
}

// Table loads the catalog and parses it with the given column labels.
func (s *Source) Table(ctx context.Context, cols Columns) (model.Table, error) {
	data, err := s.Load(ctx)
	if err != nil {
		return model.Table{}, err
	}
	return ParseBytes(data, cols)
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			URL:        s.url,
			Message:    strings.TrimSpace(truncate(string(body), 200)),
		}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

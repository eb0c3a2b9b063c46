package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/owid/catalog-go/catalog/path"
)

// maxPayloadBytes caps a single remote payload read.
const maxPayloadBytes = 512 << 20

// HTTPStore fetches payloads from a remote catalog over HTTP. The
// remote serves CSV payloads at <base>/<payload path>.csv.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// HTTPStoreOptions configures an HTTPStore.
type HTTPStoreOptions struct {
	// Client overrides the default HTTP client (30s timeout).
	Client *http.Client
	Logger *zap.Logger
}

// NewHTTPStore creates a store for the catalog served at baseURL.
func NewHTTPStore(baseURL string, opts *HTTPStoreOptions) (*HTTPStore, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("remote catalog URL is required")
	}
	if opts == nil {
		opts = &HTTPStoreOptions{}
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}, nil
}

// Payload downloads the payload bytes for the locator.
func (s *HTTPStore) Payload(ctx context.Context, loc path.Locator) ([]byte, error) {
	rel, err := PayloadPath(loc)
	if err != nil {
		return nil, err
	}
	url := s.baseURL + "/" + rel + ".csv"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building payload request: %w", err)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("reading payload body: %w", err)
	}

	s.logger.Debug("downloaded payload",
		zap.String("path", loc.String()),
		zap.String("url", url),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))

	return data, nil
}

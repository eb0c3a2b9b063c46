// Package search provides a remote free-text search backend speaking
// the Algolia-style query-by-POST protocol. The client falls back to
// its local index when this backend fails, so errors here are
// returned, never swallowed.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/owid/catalog-go/catalog/client"
	"github.com/owid/catalog-go/catalog/metadata"
	"github.com/owid/catalog-go/catalog/path"
	"github.com/owid/catalog-go/catalog/store"
)

// HTTPSearcher queries a hosted search index over HTTP.
type HTTPSearcher struct {
	baseURL string
	index   string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

var _ client.Searcher = (*HTTPSearcher)(nil)

// Config configures an HTTPSearcher.
type Config struct {
	// BaseURL is the search service root, e.g. https://search.example.org.
	BaseURL string
	// Index is the index name queried under /1/indexes/<index>/query.
	Index string
	// APIKey is sent as X-API-Key when non-empty.
	APIKey string
	// Client overrides the default HTTP client (10s timeout).
	Client *http.Client
	Logger *zap.Logger
}

// NewHTTPSearcher creates a searcher for the given service.
func NewHTTPSearcher(cfg Config) (*HTTPSearcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("search service URL is required")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("search index name is required")
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSearcher{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		index:   cfg.Index,
		apiKey:  cfg.APIKey,
		client:  httpClient,
		logger:  logger,
	}, nil
}

type queryRequest struct {
	Query       string `json:"query"`
	Kind        string `json:"kind,omitempty"`
	HitsPerPage int    `json:"hitsPerPage,omitempty"`
}

type queryResponse struct {
	Hits []hit `json:"hits"`
}

type hit struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`

	Title           string   `json:"title"`
	Unit            string   `json:"unit,omitempty"`
	ShortUnit       string   `json:"short_unit,omitempty"`
	Description     string   `json:"description,omitempty"`
	ProcessingLevel string   `json:"processing_level,omitempty"`
	TopicTags       []string `json:"topic_tags,omitempty"`
}

// Search queries the remote index. Hits whose paths do not parse are
// skipped with a warning rather than failing the whole response.
func (s *HTTPSearcher) Search(ctx context.Context, query string, kind path.Kind, limit int) ([]store.Match, error) {
	reqBody := queryRequest{Query: query, HitsPerPage: limit}
	if kind != path.KindAny {
		reqBody.Kind = kind.String()
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	url := fmt.Sprintf("%s/1/indexes/%s/query", s.baseURL, s.index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying search service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search service returned %s", resp.Status)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	matches := make([]store.Match, 0, len(decoded.Hits))
	for _, h := range decoded.Hits {
		loc, err := path.Parse(h.Path)
		if err != nil {
			s.logger.Warn("skipping search hit with invalid path",
				zap.String("path", h.Path), zap.Error(err))
			continue
		}
		rec := metadata.Record{
			Path:            loc.String(),
			Kind:            loc.Kind,
			Title:           h.Title,
			Unit:            h.Unit,
			ShortUnit:       h.ShortUnit,
			Description:     metadata.Description{Short: h.Description},
			ProcessingLevel: metadata.ProcessingLevel(h.ProcessingLevel),
		}
		if len(h.TopicTags) > 0 {
			rec.Presentation = &metadata.Presentation{TopicTags: h.TopicTags}
		}
		matches = append(matches, store.Match{Record: rec, Score: h.Score})
	}
	return matches, nil
}

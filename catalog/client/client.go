// Package client is the entry point for catalog consumers: it
// resolves human-readable catalog paths to metadata and lazily loaded
// data, and searches the catalog across charts, tables and indicators.
//
// A Client is constructed explicitly and passed to whoever needs it;
// there is no package-level shared instance. Construct once per
// session and reuse:
//
//	c, err := client.New(client.Options{Store: st, Payloads: payloads})
//	if err != nil { ... }
//
//	res, err := c.Fetch(ctx, "garden/un/2024-07-12/un_wpp/population", false)
//	if err != nil { ... }
//	fmt.Println(res.Metadata().Title) // no data downloaded yet
//
//	tbl, err := res.Get(ctx) // first access triggers the download
package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/owid/catalog-go/catalog/metadata"
	"github.com/owid/catalog-go/catalog/path"
	"github.com/owid/catalog-go/catalog/store"
	"github.com/owid/catalog-go/internal/storage"
)

// Searcher is a pluggable free-text search backend. The local store
// satisfies searches on its own; a remote backend (an Algolia-style
// HTTP index) can be plugged in to rank against the full catalog.
type Searcher interface {
	Search(ctx context.Context, query string, kind path.Kind, limit int) ([]store.Match, error)
}

// Options configures a Client.
type Options struct {
	// Store is the metadata index. Required.
	Store *store.Store
	// Payloads delivers raw data bytes for resolved locators. Required.
	Payloads storage.PayloadStore
	// Searcher overrides the store's built-in search. Optional; when
	// it fails the client degrades to the local store.
	Searcher Searcher
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Client resolves catalog paths and searches catalog metadata.
type Client struct {
	store    *store.Store
	payloads storage.PayloadStore
	searcher Searcher
	logger   *zap.Logger

	charts     *SubClient
	tables     *SubClient
	indicators *SubClient
}

// New creates a Client. Store and Payloads are required.
func New(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("client requires a metadata store")
	}
	if opts.Payloads == nil {
		return nil, fmt.Errorf("client requires a payload store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		store:    opts.Store,
		payloads: opts.Payloads,
		searcher: opts.Searcher,
		logger:   logger,
	}
	c.charts = &SubClient{client: c, kind: path.KindChart}
	c.tables = &SubClient{client: c, kind: path.KindTable}
	c.indicators = &SubClient{client: c, kind: path.KindIndicator}
	return c, nil
}

// Charts returns the chart-scoped sub-client.
func (c *Client) Charts() *SubClient { return c.charts }

// Tables returns the table-scoped sub-client.
func (c *Client) Tables() *SubClient { return c.tables }

// Indicators returns the indicator-scoped sub-client.
func (c *Client) Indicators() *SubClient { return c.indicators }

// Fetch resolves a catalog path to its metadata and a lazy payload.
// With loadData false the backing store is not touched; the payload
// loads on first access. With loadData true the payload is retrieved
// before Fetch returns.
func (c *Client) Fetch(ctx context.Context, rawPath string, loadData bool) (*Result, error) {
	return c.fetch(ctx, rawPath, loadData, path.KindAny)
}

// FetchLocator is Fetch for an already parsed locator.
func (c *Client) FetchLocator(ctx context.Context, loc path.Locator, loadData bool) (*Result, error) {
	return c.fetchLocator(ctx, loc, loadData)
}

// Paths lists the normalized paths of all indexed entries of a kind,
// in lexical order. KindAny lists every entry.
func (c *Client) Paths(kind path.Kind) []string {
	return c.store.Paths(kind)
}

// Search queries all resource kinds. Failures of a remote search
// backend degrade to the local index; "no results" is an empty set,
// never an error.
func (c *Client) Search(ctx context.Context, query string, limit int) *ResponseSet {
	return c.search(ctx, query, path.KindAny, limit)
}

func (c *Client) fetch(ctx context.Context, rawPath string, loadData bool, want path.Kind) (*Result, error) {
	loc, err := path.Parse(rawPath)
	if err != nil {
		return nil, err
	}
	if want != path.KindAny && loc.Kind != want {
		return nil, &path.InvalidPathError{
			Path:   rawPath,
			Reason: fmt.Sprintf("expected a %s path, got a %s path", want, loc.Kind),
		}
	}
	return c.fetchLocator(ctx, loc, loadData)
}

func (c *Client) fetchLocator(ctx context.Context, loc path.Locator, loadData bool) (*Result, error) {
	rec, err := c.store.Lookup(loc)
	if err != nil {
		return nil, err
	}

	res := newResult(loc, rec, c.payloads, c.logger)
	if loadData {
		if err := res.Load(ctx); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *Client) search(ctx context.Context, query string, kind path.Kind, limit int) *ResponseSet {
	if c.searcher != nil {
		matches, err := c.searcher.Search(ctx, query, kind, limit)
		if err == nil {
			return &ResponseSet{Query: query, Matches: matches}
		}
		c.logger.Warn("remote search failed, falling back to local index",
			zap.String("query", query), zap.Error(err))
	}

	matches := c.store.Search(query, store.SearchOptions{Kind: kind, Limit: limit})
	return &ResponseSet{Query: query, Matches: matches}
}

// SubClient scopes search and fetch to one resource kind.
type SubClient struct {
	client *Client
	kind   path.Kind
}

// Search queries entries of this sub-client's kind.
func (s *SubClient) Search(ctx context.Context, query string, limit int) *ResponseSet {
	return s.client.search(ctx, query, s.kind, limit)
}

// Fetch resolves a path of this sub-client's kind. Paths of another
// kind fail with an InvalidPathError.
func (s *SubClient) Fetch(ctx context.Context, rawPath string, loadData bool) (*Result, error) {
	return s.client.fetch(ctx, rawPath, loadData, s.kind)
}

// ResponseSet is an ordered set of search matches, best first.
type ResponseSet struct {
	Query   string
	Matches []store.Match
}

// Empty reports whether the search produced no matches.
func (r *ResponseSet) Empty() bool {
	return len(r.Matches) == 0
}

// Len returns the number of matches.
func (r *ResponseSet) Len() int {
	return len(r.Matches)
}

// Records returns the matched metadata records in rank order.
func (r *ResponseSet) Records() []metadata.Record {
	out := make([]metadata.Record, len(r.Matches))
	for i, m := range r.Matches {
		out[i] = m.Record
	}
	return out
}

package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/owid/catalog-go/catalog/metadata"
	"github.com/owid/catalog-go/catalog/path"
	"github.com/owid/catalog-go/catalog/table"
	"github.com/owid/catalog-go/internal/storage"
)

// Result pairs an eagerly resolved metadata record with a lazily
// loaded data payload. Metadata is always available without touching
// the backing store; the payload is retrieved at most once per Result,
// on the first Get or Load, and the outcome (data or error) is held
// for the Result's lifetime. Concurrent callers share the in-flight
// load instead of re-issuing it.
type Result struct {
	locator   path.Locator
	meta      metadata.Record
	payloads  storage.PayloadStore
	logger    *zap.Logger
	requestID string

	mu      sync.RWMutex
	loaded  bool
	data    *table.Table
	loadErr error
	group   singleflight.Group
}

func newResult(loc path.Locator, rec metadata.Record, payloads storage.PayloadStore, logger *zap.Logger) *Result {
	return &Result{
		locator:   loc,
		meta:      rec,
		payloads:  payloads,
		logger:    logger,
		requestID: uuid.NewString(),
	}
}

// Locator returns the normalized locator this result was fetched for.
func (r *Result) Locator() path.Locator {
	return r.locator
}

// Metadata returns the entry's metadata record. It never triggers a
// payload download.
func (r *Result) Metadata() metadata.Record {
	return r.meta.Clone()
}

// Loaded reports whether the payload load has completed, successfully
// or not.
func (r *Result) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Load retrieves the payload if it has not been retrieved yet. Safe to
// call repeatedly and concurrently; only the first call reaches the
// backing store.
func (r *Result) Load(ctx context.Context) error {
	_, err := r.Get(ctx)
	return err
}

// Get returns the data payload, loading it on first access. A failed
// load is terminal for this Result: subsequent calls return the same
// DataUnavailableError, and the caller retries by fetching anew.
func (r *Result) Get(ctx context.Context) (*table.Table, error) {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return r.data, r.loadErr
	}
	r.mu.RUnlock()

	// Collapse concurrent first accesses into one retrieval.
	_, err, _ := r.group.Do("payload", func() (interface{}, error) {
		r.mu.RLock()
		done := r.loaded
		r.mu.RUnlock()
		if done {
			return nil, nil
		}

		data, err := r.load(ctx)

		r.mu.Lock()
		r.data = data
		r.loadErr = err
		r.loaded = true
		r.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data, r.loadErr
}

// Values returns the indicator's own column from the payload, loading
// it on first access. Only valid for indicator results.
func (r *Result) Values(ctx context.Context) ([]string, error) {
	if r.locator.Kind != path.KindIndicator {
		return nil, &DataUnavailableError{
			Path: r.locator.String(),
			Err:  fmt.Errorf("values are only available for indicators, not %s entries", r.locator.Kind),
		}
	}
	tbl, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	values, err := tbl.Column(r.locator.Column)
	if err != nil {
		return nil, &DataUnavailableError{Path: r.locator.String(), Err: err}
	}
	return values, nil
}

func (r *Result) load(ctx context.Context) (*table.Table, error) {
	start := time.Now()

	data, err := r.payloads.Payload(ctx, r.locator)
	if err != nil {
		r.logger.Debug("payload retrieval failed",
			zap.String("request_id", r.requestID),
			zap.String("path", r.locator.String()),
			zap.Error(err))
		return nil, &DataUnavailableError{Path: r.locator.String(), Err: err}
	}

	if err := storage.VerifyChecksum(data, r.meta.Checksum); err != nil {
		return nil, &DataUnavailableError{Path: r.locator.String(), Err: err}
	}

	tbl, err := table.Decode(data)
	if err != nil {
		return nil, &DataUnavailableError{Path: r.locator.String(), Err: err}
	}

	r.logger.Debug("payload loaded",
		zap.String("request_id", r.requestID),
		zap.String("path", r.locator.String()),
		zap.Int("rows", tbl.NumRows()),
		zap.Duration("elapsed", time.Since(start)))

	return tbl, nil
}

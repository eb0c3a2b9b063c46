package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/owid/catalog-go/catalog/path"
)

// payloadExtensions are tried in order when resolving a local payload file.
var payloadExtensions = []string{".csv", ".json"}

// LocalStore serves payloads from a catalog directory on disk laid out
// as <root>/<channel>/<namespace>/<version>/<dataset>/<table>.csv and
// <root>/charts/<slug>.csv.
type LocalStore struct {
	root   string
	logger *zap.Logger
}

// NewLocalStore creates a store rooted at dir. The directory must exist.
func NewLocalStore(dir string, logger *zap.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog directory %s is not a directory", dir)
	}
	return &LocalStore{root: dir, logger: logger}, nil
}

// Payload reads the payload file for the locator, trying each known
// extension in order.
func (s *LocalStore) Payload(ctx context.Context, loc path.Locator) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rel, err := PayloadPath(loc)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, ext := range payloadExtensions {
		file := filepath.Join(s.root, filepath.FromSlash(rel)+ext)
		data, err := os.ReadFile(file)
		if err == nil {
			s.logger.Debug("read local payload",
				zap.String("path", loc.String()),
				zap.String("file", file),
				zap.Int("bytes", len(data)))
			return data, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("no payload file for %s under %s: %w", loc.String(), s.root, lastErr)
}

// Package storage provides the backing stores that deliver raw
// payload bytes for resolved catalog locators. Metadata never flows
// through here; a payload store is only consulted when a caller
// actually loads data.
package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/owid/catalog-go/catalog/path"
)

// PayloadStore fetches the raw tabular bytes for a resolved locator.
type PayloadStore interface {
	Payload(ctx context.Context, loc path.Locator) ([]byte, error)
}

// PayloadPath maps a locator to its relative location in the catalog
// layout. Charts live under charts/<slug>; tables and indicators share
// the table's five-segment directory path.
func PayloadPath(loc path.Locator) (string, error) {
	switch loc.Kind {
	case path.KindChart:
		return "charts/" + loc.Slug, nil
	case path.KindTable, path.KindIndicator:
		return loc.TablePrefix().String(), nil
	default:
		return "", fmt.Errorf("no payload location for kind %s", loc.Kind)
	}
}

// VerifyChecksum checks payload bytes against an expected hex MD5.
// An empty expected checksum passes; provenance records follow the
// DVC convention of optional md5 fields.
func VerifyChecksum(data []byte, expected string) error {
	if expected == "" {
		return nil
	}
	sum := md5.Sum(data)
	actual := hex.EncodeToString(sum[:])
	if actual != expected {
		return fmt.Errorf("payload checksum mismatch: got %s, want %s", actual, expected)
	}
	return nil
}

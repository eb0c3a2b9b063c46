package client

import (
	"errors"
	"fmt"

	"github.com/owid/catalog-go/catalog/path"
	"github.com/owid/catalog-go/catalog/store"
)

// DataUnavailableError reports an entry whose metadata resolved but
// whose payload could not be retrieved or decoded. It is distinct from
// a not-found path: the entry exists, loading it failed, and the
// caller may retry with a fresh fetch.
type DataUnavailableError struct {
	Path string
	Err  error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable for %q: %v", e.Path, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// IsInvalidPath reports whether err is a malformed-path error.
func IsInvalidPath(err error) bool {
	var target *path.InvalidPathError
	return errors.As(err, &target)
}

// IsNotFound reports whether err means the path resolved to no
// catalog entry.
func IsNotFound(err error) bool {
	var target *store.NotFoundError
	return errors.As(err, &target)
}

// IsDataUnavailable reports whether err means metadata resolved but
// the payload could not be loaded.
func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}

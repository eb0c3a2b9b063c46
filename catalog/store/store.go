// Package store holds the in-process metadata index: a read-only map
// from normalized catalog paths to metadata records, populated once at
// load time and queried by exact lookup or ranked search.
package store

import (
	"fmt"
	"sort"

	"github.com/owid/catalog-go/catalog/metadata"
	"github.com/owid/catalog-go/catalog/path"
)

// Store is the queryable metadata index. It is immutable after New
// returns and safe for concurrent readers without locking.
type Store struct {
	records map[string]metadata.Record
	paths   []string                 // all normalized paths, sorted
	byKind  map[path.Kind][]string   // normalized paths per kind, sorted
}

// NotFoundError reports a well-formed path with no catalog entry.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no catalog entry for %q", e.Path)
}

// New builds a store from an index document. Every entry's path must
// parse under the catalog grammar and be unique.
func New(idx *Index) (*Store, error) {
	records, err := idx.build()
	if err != nil {
		return nil, err
	}

	s := &Store{
		records: records,
		byKind:  make(map[path.Kind][]string),
	}
	for p, rec := range records {
		s.paths = append(s.paths, p)
		s.byKind[rec.Kind] = append(s.byKind[rec.Kind], p)
	}
	sort.Strings(s.paths)
	for _, paths := range s.byKind {
		sort.Strings(paths)
	}
	return s, nil
}

// Lookup returns the metadata record for an exact locator. The record
// is a copy; mutating it does not affect the store.
func (s *Store) Lookup(loc path.Locator) (metadata.Record, error) {
	rec, ok := s.records[loc.String()]
	if !ok {
		return metadata.Record{}, &NotFoundError{Path: loc.String()}
	}
	return rec.Clone(), nil
}

// Contains reports whether the store has an entry for the locator.
func (s *Store) Contains(loc path.Locator) bool {
	_, ok := s.records[loc.String()]
	return ok
}

// Len returns the number of indexed entries.
func (s *Store) Len() int {
	return len(s.paths)
}

// Paths returns the normalized paths of all entries of the given kind,
// sorted. KindAny returns every path. Used for suggestion candidates.
func (s *Store) Paths(kind path.Kind) []string {
	if kind == path.KindAny {
		return append([]string(nil), s.paths...)
	}
	return append([]string(nil), s.byKind[kind]...)
}

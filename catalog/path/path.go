// Package path parses catalog paths into normalized locators.
//
// Three grammars are accepted:
//
//   - Chart:     life-expectancy
//   - Table:     garden/un/2024-07-12/un_wpp/population
//   - Indicator: garden/un/2024-07-12/un_wpp/population#population
//
// Parsing is a pure function: the same input always yields the same
// Locator, and String on a valid Locator round-trips to the input.
package path

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies which of the three path grammars a locator belongs to.
type Kind int

const (
	// KindAny matches every kind. It is the zero value so that an
	// unset kind filter means "no filtering".
	KindAny Kind = iota
	KindChart
	KindTable
	KindIndicator
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindChart:
		return "chart"
	case KindTable:
		return "table"
	case KindIndicator:
		return "indicator"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the kind as its string name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// MarshalYAML encodes the kind as its string name.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Locator is a normalized catalog path. Exactly one of Slug (charts) or
// the Channel/Namespace/Version/Dataset/Table tuple (tables, indicators)
// is populated; Column is set only for indicators.
type Locator struct {
	Kind      Kind   `json:"kind"`
	Slug      string `json:"slug,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Version   string `json:"version,omitempty"`
	Dataset   string `json:"dataset,omitempty"`
	Table     string `json:"table,omitempty"`
	Column    string `json:"column,omitempty"`
}

// InvalidPathError reports a string that matches none of the path grammars.
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid catalog path %q: %s", e.Path, e.Reason)
}

// Parse parses a raw catalog path into a Locator.
//
// A path containing a slash must have exactly five slash-separated
// segments (table grammar). A '#' suffix on a table path selects a
// column (indicator grammar). Anything else is treated as a chart slug.
func Parse(raw string) (Locator, error) {
	if raw == "" {
		return Locator{}, &InvalidPathError{Path: raw, Reason: "empty path"}
	}

	// Indicator: table path, literal '#', column short name.
	if table, column, found := strings.Cut(raw, "#"); found {
		loc, err := parseTable(raw, table)
		if err != nil {
			return Locator{}, err
		}
		if column == "" {
			return Locator{}, &InvalidPathError{Path: raw, Reason: "missing column after '#'"}
		}
		if !validSegment(column) {
			return Locator{}, &InvalidPathError{Path: raw, Reason: fmt.Sprintf("invalid column short name %q", column)}
		}
		loc.Kind = KindIndicator
		loc.Column = column
		return loc, nil
	}

	if strings.Contains(raw, "/") {
		return parseTable(raw, raw)
	}

	// Chart slug.
	if !validSlug(raw) {
		return Locator{}, &InvalidPathError{Path: raw, Reason: "not a valid chart slug or table path"}
	}
	return Locator{Kind: KindChart, Slug: raw}, nil
}

// parseTable parses the five-segment table grammar. raw is the original
// input used in error messages; tablePath is the table portion.
func parseTable(raw, tablePath string) (Locator, error) {
	segments := strings.Split(tablePath, "/")
	if len(segments) != 5 {
		return Locator{}, &InvalidPathError{
			Path:   raw,
			Reason: fmt.Sprintf("expected 5 segments (channel/namespace/version/dataset/table), got %d", len(segments)),
		}
	}

	names := [5]string{"channel", "namespace", "version", "dataset", "table"}
	for i, seg := range segments {
		if seg == "" {
			return Locator{}, &InvalidPathError{Path: raw, Reason: "missing " + names[i] + " segment"}
		}
		if !validSegment(seg) {
			return Locator{}, &InvalidPathError{Path: raw, Reason: fmt.Sprintf("invalid %s segment %q", names[i], seg)}
		}
	}

	return Locator{
		Kind:      KindTable,
		Channel:   segments[0],
		Namespace: segments[1],
		Version:   segments[2],
		Dataset:   segments[3],
		Table:     segments[4],
	}, nil
}

// String returns the canonical path form of the locator. Parsing the
// result of String yields an equal Locator.
func (l Locator) String() string {
	switch l.Kind {
	case KindChart:
		return l.Slug
	case KindTable:
		return l.tablePath()
	case KindIndicator:
		return l.tablePath() + "#" + l.Column
	default:
		return ""
	}
}

// TablePrefix returns the table locator underlying an indicator. For
// table locators it returns the locator itself; for charts the zero value.
func (l Locator) TablePrefix() Locator {
	if l.Kind != KindTable && l.Kind != KindIndicator {
		return Locator{}
	}
	return Locator{
		Kind:      KindTable,
		Channel:   l.Channel,
		Namespace: l.Namespace,
		Version:   l.Version,
		Dataset:   l.Dataset,
		Table:     l.Table,
	}
}

func (l Locator) tablePath() string {
	return strings.Join([]string{l.Channel, l.Namespace, l.Version, l.Dataset, l.Table}, "/")
}

// validSegment reports whether s is a valid table-path segment or column
// short name: ASCII letters, digits, '_', '-' and '.'.
func validSegment(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return true
}

// validSlug reports whether s is a valid chart slug: lowercase letters,
// digits, '_' and '-'.
func validSlug(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

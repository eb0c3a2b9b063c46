// Package metadata defines the typed metadata records attached to
// catalog entries: charts, tables and individual indicators.
package metadata

import "github.com/owid/catalog-go/catalog/path"

// ProcessingLevel describes how much transformation a value went
// through between the producer's data and the catalog.
type ProcessingLevel string

const (
	ProcessingMinor ProcessingLevel = "minor"
	ProcessingMajor ProcessingLevel = "major"
)

// Valid reports whether the level is one of the known values.
func (p ProcessingLevel) Valid() bool {
	return p == ProcessingMinor || p == ProcessingMajor
}

// License identifies the license an entry is distributed under.
type License struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Origin records where the underlying data came from.
type Origin struct {
	Producer      string   `json:"producer" yaml:"producer"`
	Title         string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	CitationFull  string   `json:"citation_full,omitempty" yaml:"citation_full,omitempty"`
	URLMain       string   `json:"url_main,omitempty" yaml:"url_main,omitempty"`
	URLDownload   string   `json:"url_download,omitempty" yaml:"url_download,omitempty"`
	DateAccessed  string   `json:"date_accessed,omitempty" yaml:"date_accessed,omitempty"`
	DatePublished string   `json:"date_published,omitempty" yaml:"date_published,omitempty"`
	License       *License `json:"license,omitempty" yaml:"license,omitempty"`
}

// Description groups the description variants an entry can carry.
type Description struct {
	Short        string   `json:"short,omitempty" yaml:"short,omitempty"`
	Key          []string `json:"key,omitempty" yaml:"key,omitempty"`
	Processing   string   `json:"processing,omitempty" yaml:"processing,omitempty"`
	FromProducer string   `json:"from_producer,omitempty" yaml:"from_producer,omitempty"`
}

// Empty reports whether no description variant is set.
func (d Description) Empty() bool {
	return d.Short == "" && len(d.Key) == 0 && d.Processing == "" && d.FromProducer == ""
}

// Presentation holds display configuration for an entry.
type Presentation struct {
	Title            string         `json:"title,omitempty" yaml:"title,omitempty"`
	Attribution      string         `json:"attribution,omitempty" yaml:"attribution,omitempty"`
	AttributionShort string         `json:"attribution_short,omitempty" yaml:"attribution_short,omitempty"`
	TopicTags        []string       `json:"topic_tags,omitempty" yaml:"topic_tags,omitempty"`
	GrapherConfig    map[string]any `json:"grapher_config,omitempty" yaml:"grapher_config,omitempty"`
}

// clone returns a deep copy of the presentation, nil for nil.
func (p *Presentation) clone() *Presentation {
	if p == nil {
		return nil
	}
	out := *p
	if p.TopicTags != nil {
		out.TopicTags = append([]string(nil), p.TopicTags...)
	}
	if p.GrapherConfig != nil {
		cfg := make(map[string]any, len(p.GrapherConfig))
		for k, v := range p.GrapherConfig {
			cfg[k] = v
		}
		out.GrapherConfig = cfg
	}
	return &out
}

// Record is the metadata for a single catalog entry. It is the sole
// descriptive contract handed to downstream consumers; data payloads
// are delivered separately.
type Record struct {
	Path            string          `json:"path" yaml:"path"`
	Kind            path.Kind       `json:"kind" yaml:"kind"`
	Title           string          `json:"title" yaml:"title"`
	Description     Description     `json:"description,omitempty" yaml:"description,omitempty"`
	Unit            string          `json:"unit,omitempty" yaml:"unit,omitempty"`
	ShortUnit       string          `json:"short_unit,omitempty" yaml:"short_unit,omitempty"`
	License         *License        `json:"license,omitempty" yaml:"license,omitempty"`
	ProcessingLevel ProcessingLevel `json:"processing_level,omitempty" yaml:"processing_level,omitempty"`
	Origins         []Origin        `json:"origins,omitempty" yaml:"origins,omitempty"`
	Presentation    *Presentation   `json:"presentation,omitempty" yaml:"presentation,omitempty"`

	// Checksum is the hex MD5 of the entry's payload, when known.
	// Stores use it to verify retrieved bytes.
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`

	// Columns lists the column short names of a table entry.
	Columns []string `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// DisplayTitle returns the public-facing title: the presentation title
// when set, otherwise the plain title.
func (r Record) DisplayTitle() string {
	if r.Presentation != nil && r.Presentation.Title != "" {
		return r.Presentation.Title
	}
	return r.Title
}

// Clone returns a deep copy of the record so callers can hold results
// without sharing state with the store.
func (r Record) Clone() Record {
	out := r
	if r.License != nil {
		lic := *r.License
		out.License = &lic
	}
	if r.Origins != nil {
		out.Origins = make([]Origin, len(r.Origins))
		for i, o := range r.Origins {
			out.Origins[i] = o
			if o.License != nil {
				lic := *o.License
				out.Origins[i].License = &lic
			}
		}
	}
	out.Presentation = r.Presentation.clone()
	if r.Description.Key != nil {
		out.Description.Key = append([]string(nil), r.Description.Key...)
	}
	if r.Columns != nil {
		out.Columns = append([]string(nil), r.Columns...)
	}
	return out
}

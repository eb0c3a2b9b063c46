package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/owid/catalog-go/catalog/metadata"
	"github.com/owid/catalog-go/catalog/path"
)

// Index is the catalog index document a store is built from. It can
// be decoded from JSON or YAML, or assembled from a SQLite catalog
// database.
type Index struct {
	Version  string    `json:"version,omitempty" yaml:"version,omitempty"`
	Charts   []Chart   `json:"charts,omitempty" yaml:"charts,omitempty"`
	Datasets []Dataset `json:"datasets,omitempty" yaml:"datasets,omitempty"`
}

// Chart describes a published chart by slug.
type Chart struct {
	Slug     string          `json:"slug" yaml:"slug"`
	Metadata metadata.Record `json:"metadata" yaml:"metadata"`
}

// Dataset groups the tables produced by one ETL step.
type Dataset struct {
	Channel   string `json:"channel" yaml:"channel"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Version   string `json:"version" yaml:"version"`
	ShortName string `json:"short_name" yaml:"short_name"`

	// Metadata describes the dataset itself (title, citation).
	Metadata metadata.Record `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Common holds defaults inherited by every table and column in
	// the dataset unless overridden.
	Common *metadata.Record `json:"common,omitempty" yaml:"common,omitempty"`

	Tables []Table `json:"tables" yaml:"tables"`
}

// Table is a single table within a dataset.
type Table struct {
	ShortName string          `json:"short_name" yaml:"short_name"`
	Metadata  metadata.Record `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Common holds defaults inherited by this table's columns.
	Common *metadata.Record `json:"common,omitempty" yaml:"common,omitempty"`

	Columns []Column `json:"columns" yaml:"columns"`
}

// Column is a single indicator column within a table.
type Column struct {
	ShortName string          `json:"short_name" yaml:"short_name"`
	Metadata  metadata.Record `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// LoadIndexFile reads an index document from a .json, .yml or .yaml file.
func LoadIndexFile(file string) (*Index, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading index file: %w", err)
	}

	var idx Index
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		if err := json.Unmarshal(data, &idx); err != nil {
			return nil, fmt.Errorf("decoding index %s: %w", file, err)
		}
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &idx); err != nil {
			return nil, fmt.Errorf("decoding index %s: %w", file, err)
		}
	default:
		return nil, fmt.Errorf("unsupported index format %q", filepath.Ext(file))
	}
	return &idx, nil
}

// build flattens the index into records keyed by normalized path,
// applying common-block inheritance along the way.
func (idx *Index) build() (map[string]metadata.Record, error) {
	records := make(map[string]metadata.Record)

	add := func(p string, rec metadata.Record) error {
		if _, dup := records[p]; dup {
			return fmt.Errorf("duplicate catalog entry %q", p)
		}
		records[p] = rec
		return nil
	}

	for _, chart := range idx.Charts {
		loc, err := path.Parse(chart.Slug)
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", chart.Slug, err)
		}
		if loc.Kind != path.KindChart {
			return nil, fmt.Errorf("chart slug %q parses as %s", chart.Slug, loc.Kind)
		}
		rec := chart.Metadata.Clone()
		rec.Path = loc.String()
		rec.Kind = path.KindChart
		if err := add(rec.Path, rec); err != nil {
			return nil, err
		}
	}

	for _, ds := range idx.Datasets {
		dsCommon := metadata.Record{}
		if ds.Common != nil {
			dsCommon = *ds.Common
		}

		for _, tbl := range ds.Tables {
			tablePath := strings.Join([]string{ds.Channel, ds.Namespace, ds.Version, ds.ShortName, tbl.ShortName}, "/")
			loc, err := path.Parse(tablePath)
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", tablePath, err)
			}
			if loc.Kind != path.KindTable {
				return nil, fmt.Errorf("table path %q parses as %s", tablePath, loc.Kind)
			}

			tableRec := tbl.Metadata.MergeOver(dsCommon)
			tableRec.Path = loc.String()
			tableRec.Kind = path.KindTable
			tableRec.Columns = make([]string, 0, len(tbl.Columns))

			colCommon := dsCommon
			if tbl.Common != nil {
				colCommon = tbl.Common.MergeOver(dsCommon)
			}

			for _, col := range tbl.Columns {
				colPath := tablePath + "#" + col.ShortName
				colLoc, err := path.Parse(colPath)
				if err != nil {
					return nil, fmt.Errorf("column %q: %w", colPath, err)
				}

				colRec := col.Metadata.MergeOver(colCommon)
				colRec.Path = colLoc.String()
				colRec.Kind = path.KindIndicator
				colRec.Columns = nil
				// Indicators load the table's payload, so they verify
				// against the table's checksum.
				if colRec.Checksum == "" {
					colRec.Checksum = tableRec.Checksum
				}
				if err := add(colRec.Path, colRec); err != nil {
					return nil, err
				}

				tableRec.Columns = append(tableRec.Columns, col.ShortName)
			}

			if err := add(tableRec.Path, tableRec); err != nil {
				return nil, err
			}
		}
	}

	return records, nil
}

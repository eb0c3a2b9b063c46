package store

import (
	"database/sql"
	"fmt"
	"strings"

	// SQLite driver for local catalog index databases.
	_ "github.com/mattn/go-sqlite3"

	"github.com/owid/catalog-go/catalog/metadata"
)

// LoadSQLiteIndex reads an index document from a local catalog index
// database. The expected schema:
//
//	charts(slug, title, description_short, topic_tags)
//	datasets(id, channel, namespace, version, short_name, title, license_name, license_url)
//	dataset_tables(id, dataset_id, short_name, title, checksum)
//	table_columns(table_id, short_name, title, unit, short_unit, description_short, processing_level)
//
// topic_tags is a comma-separated list.
func LoadSQLiteIndex(file string) (*Index, error) {
	db, err := sql.Open("sqlite3", file+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening catalog index db: %w", err)
	}
	defer db.Close()

	idx := &Index{}

	if idx.Charts, err = readCharts(db); err != nil {
		return nil, err
	}
	if idx.Datasets, err = readDatasets(db); err != nil {
		return nil, err
	}
	return idx, nil
}

func readCharts(db *sql.DB) ([]Chart, error) {
	rows, err := db.Query(`SELECT slug, title, description_short, topic_tags FROM charts ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("querying charts: %w", err)
	}
	defer rows.Close()

	var charts []Chart
	for rows.Next() {
		var slug string
		var title, short, tags sql.NullString
		if err := rows.Scan(&slug, &title, &short, &tags); err != nil {
			return nil, fmt.Errorf("scanning chart row: %w", err)
		}

		rec := metadata.Record{
			Title:       title.String,
			Description: metadata.Description{Short: short.String},
		}
		if tags.String != "" {
			rec.Presentation = &metadata.Presentation{TopicTags: splitTags(tags.String)}
		}
		charts = append(charts, Chart{Slug: slug, Metadata: rec})
	}
	return charts, rows.Err()
}

func readDatasets(db *sql.DB) ([]Dataset, error) {
	rows, err := db.Query(`SELECT id, channel, namespace, version, short_name, title, license_name, license_url
		FROM datasets ORDER BY channel, namespace, version, short_name`)
	if err != nil {
		return nil, fmt.Errorf("querying datasets: %w", err)
	}
	defer rows.Close()

	var datasets []Dataset
	var ids []int64
	for rows.Next() {
		var id int64
		var ds Dataset
		var title, licName, licURL sql.NullString
		if err := rows.Scan(&id, &ds.Channel, &ds.Namespace, &ds.Version, &ds.ShortName, &title, &licName, &licURL); err != nil {
			return nil, fmt.Errorf("scanning dataset row: %w", err)
		}
		ds.Metadata.Title = title.String
		if licName.String != "" || licURL.String != "" {
			ds.Common = &metadata.Record{
				License: &metadata.License{Name: licName.String, URL: licURL.String},
			}
		}
		datasets = append(datasets, ds)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		tables, err := readTables(db, id)
		if err != nil {
			return nil, err
		}
		datasets[i].Tables = tables
	}
	return datasets, nil
}

func readTables(db *sql.DB, datasetID int64) ([]Table, error) {
	rows, err := db.Query(`SELECT id, short_name, title, checksum FROM dataset_tables WHERE dataset_id = ? ORDER BY short_name`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tables []Table
	var ids []int64
	for rows.Next() {
		var id int64
		var tbl Table
		var title, checksum sql.NullString
		if err := rows.Scan(&id, &tbl.ShortName, &title, &checksum); err != nil {
			return nil, fmt.Errorf("scanning table row: %w", err)
		}
		tbl.Metadata.Title = title.String
		tbl.Metadata.Checksum = checksum.String
		tables = append(tables, tbl)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		columns, err := readColumns(db, id)
		if err != nil {
			return nil, err
		}
		tables[i].Columns = columns
	}
	return tables, nil
}

func readColumns(db *sql.DB, tableID int64) ([]Column, error) {
	rows, err := db.Query(`SELECT short_name, title, unit, short_unit, description_short, processing_level
		FROM table_columns WHERE table_id = ? ORDER BY short_name`, tableID)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var title, unit, shortUnit, short, level sql.NullString
		if err := rows.Scan(&col.ShortName, &title, &unit, &shortUnit, &short, &level); err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		col.Metadata = metadata.Record{
			Title:           title.String,
			Unit:            unit.String,
			ShortUnit:       shortUnit.String,
			Description:     metadata.Description{Short: short.String},
			ProcessingLevel: metadata.ProcessingLevel(level.String),
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func splitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

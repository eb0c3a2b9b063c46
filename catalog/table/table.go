// Package table holds the tabular payload model returned by data
// fetches: named columns over string-valued rows, decoded from the
// CSV or JSON bytes a backing store returns.
package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// Table is an immutable tabular payload.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a table from column names and rows. Every row must have
// one cell per column.
func New(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table requires at least one column")
	}
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if col == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		index[col] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}
	return &Table{columns: columns, index: index, rows: rows}, nil
}

// Decode sniffs the payload format and decodes it. JSON payloads start
// with '{'; everything else is treated as CSV with a header row.
func Decode(data []byte) (*Table, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FromJSON(data)
	}
	return FromCSV(data)
}

// FromCSV decodes a CSV payload whose first record is the header.
func FromCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decoding csv payload: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv payload has no header row")
	}
	return New(records[0], records[1:])
}

// jsonPayload is the columns/rows JSON layout served by the catalog.
type jsonPayload struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// FromJSON decodes a {"columns": [...], "rows": [[...], ...]} payload.
func FromJSON(data []byte) (*Table, error) {
	var payload jsonPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding json payload: %w", err)
	}
	return New(payload.Columns, payload.Rows)
}

// EncodeCSV writes the table as CSV, header row first.
func (t *Table) EncodeCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.columns); err != nil {
		return fmt.Errorf("encoding csv payload: %w", err)
	}
	if err := writer.WriteAll(t.rows); err != nil {
		return fmt.Errorf("encoding csv payload: %w", err)
	}
	return nil
}

// EncodeJSON writes the table in the columns/rows JSON layout.
func (t *Table) EncodeJSON(w io.Writer) error {
	rows := t.rows
	if rows == nil {
		rows = [][]string{}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(jsonPayload{Columns: t.columns, Rows: rows}); err != nil {
		return fmt.Errorf("encoding json payload: %w", err)
	}
	return nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Rows returns a copy of all data rows.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Column returns the values of a single column by short name.
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q in table", name)
	}
	out := make([]string, len(t.rows))
	for j, row := range t.rows {
		out[j] = row[i]
	}
	return out, nil
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Project returns a new table containing only the named columns, in
// the given order. Used by indicator fetches to narrow a table to the
// identifying columns plus one value column.
func (t *Table) Project(names ...string) (*Table, error) {
	indexes := make([]int, len(names))
	for i, name := range names {
		idx, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("no column %q in table", name)
		}
		indexes[i] = idx
	}
	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		out := make([]string, len(indexes))
		for i, idx := range indexes {
			out[i] = row[idx]
		}
		rows[r] = out
	}
	return New(append([]string(nil), names...), rows)
}

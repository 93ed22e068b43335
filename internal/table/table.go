// Package table implements the columnar structure the pipeline reshapes UIS
// CSV exports with: an ordered list of named columns, each an ordered
// sequence of string cells. Empty cells stand for missing values.
package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
)

// Column is one named column of cell values.
type Column struct {
	Name  string
	Cells []string
}

// Table is an ordered collection of equally long columns.
type Table struct {
	Columns []Column
}

// NumRows returns the row count. All columns are kept the same length.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// Drop removes the named column if present.
func (t *Table) Drop(name string) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
			return
		}
	}
}

// AppendRows concatenates another table's rows onto t, aligning columns by
// name. Cells for columns missing on either side are left empty, so chunks
// downloaded with slightly different headers still merge.
func (t *Table) AppendRows(other Table) {
	oldRows := t.NumRows()
	for i := range t.Columns {
		col := &t.Columns[i]
		if oc := other.Column(col.Name); oc != nil {
			col.Cells = append(col.Cells, oc.Cells...)
		} else {
			col.Cells = append(col.Cells, make([]string, other.NumRows())...)
		}
	}
	for _, oc := range other.Columns {
		if t.Column(oc.Name) != nil {
			continue
		}
		cells := make([]string, oldRows, oldRows+len(oc.Cells))
		cells = append(cells, oc.Cells...)
		t.Columns = append(t.Columns, Column{Name: oc.Name, Cells: cells})
	}
}

// row materializes row i across all columns.
func (t *Table) row(i int) []string {
	cells := make([]string, len(t.Columns))
	for c := range t.Columns {
		cells[c] = t.Columns[c].Cells[i]
	}
	return cells
}

// --------------------------------------------------------------------------
// CSV I/O
// --------------------------------------------------------------------------

// ReadCSV parses a UIS CSV export. The export is encoded as ISO-8859-1; it
// is transcoded to UTF-8 while reading. The first record is the header.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("parse csv: missing header row")
	}

	header := records[0]
	t := Table{Columns: make([]Column, len(header))}
	for c, name := range header {
		cells := make([]string, len(records)-1)
		for i, record := range records[1:] {
			cells[i] = record[c]
		}
		t.Columns[c] = Column{Name: name, Cells: cells}
	}
	return t, nil
}

// WriteCSV serializes the table as UTF-8 CSV with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(t.Columns))
	for c := range t.Columns {
		header[c] = t.Columns[c].Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := 0; i < t.NumRows(); i++ {
		if err := cw.Write(t.row(i)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

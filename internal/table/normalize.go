package table

import "strings"

// codeColumnSuffix names the sibling code column emitted by SplitColumns.
const codeColumnSuffix = " code"

// TimeColumn and ValueColumn are the two columns added by the wide-to-long
// expansion.
const (
	TimeColumn  = "Time Period"
	ValueColumn = "Value"
)

// splittableColumns is the fixed set of dimension columns whose cells follow
// the "code:label" convention in UIS exports. Columns outside this set pass
// through untouched.
var splittableColumns = []string{
	"Age",
	"Country / region of origin",
	"Destination region",
	"Field of education",
	"Funding flow",
	"Grade",
	"Immigration status",
	"Infrastructure",
	"Level of education",
	"Level of educational attainment",
	"Location",
	"Orientation",
	"Reference area",
	"School subject",
	"Sex",
	"Socioeconomic background",
	"Source of funding",
	"Statistical unit",
	"Teaching experience",
	"Time Period",
	"Type of contract",
	"Type of education",
	"Type of expenditure",
	"Type of institution",
	"Unit of measure",
	"Wealth quintile",
}

// SplitColumns splits every known dimension column's "code:label" cells into
// a label column and, when withCode is set, a "<name> code" sibling. A cell
// without a colon is label-only with an empty code. Split columns come
// first, in the fixed set's order, followed by the pass-through columns in
// their original order.
func SplitColumns(t Table, withCode bool) Table {
	split := make(map[string]bool)
	var out Table
	for _, name := range splittableColumns {
		col := t.Column(name)
		if col == nil {
			continue
		}
		split[name] = true

		labels := make([]string, len(col.Cells))
		codes := make([]string, len(col.Cells))
		for i, cell := range col.Cells {
			code, label, found := strings.Cut(cell, ":")
			if !found {
				labels[i] = cell
			} else {
				labels[i] = label
				codes[i] = code
			}
		}
		out.Columns = append(out.Columns, Column{Name: name, Cells: labels})
		if withCode {
			out.Columns = append(out.Columns, Column{Name: name + codeColumnSuffix, Cells: codes})
		}
	}
	for _, col := range t.Columns {
		if !split[col.Name] {
			out.Columns = append(out.Columns, col)
		}
	}
	return out
}

// ExpandTimeColumns reshapes wide to long: every column whose name is a bare
// integer is a calendar year; each source row emits one output row per year
// column, carrying the year into timeCol and the cell into valueCol. Output
// order is stable by source row, then by year-column discovery order.
func ExpandTimeColumns(t Table, timeCol, valueCol string) Table {
	var yearCols, copyCols []int
	for c := range t.Columns {
		if isYear(t.Columns[c].Name) {
			yearCols = append(yearCols, c)
		} else {
			copyCols = append(copyCols, c)
		}
	}

	out := Table{Columns: make([]Column, 0, len(copyCols)+2)}
	for _, c := range copyCols {
		out.Columns = append(out.Columns, Column{Name: t.Columns[c].Name})
	}
	out.Columns = append(out.Columns, Column{Name: timeCol}, Column{Name: valueCol})

	for i := 0; i < t.NumRows(); i++ {
		for _, y := range yearCols {
			for k, c := range copyCols {
				out.Columns[k].Cells = append(out.Columns[k].Cells, t.Columns[c].Cells[i])
			}
			out.Columns[len(copyCols)].Cells = append(out.Columns[len(copyCols)].Cells, t.Columns[y].Name)
			out.Columns[len(copyCols)+1].Cells = append(out.Columns[len(copyCols)+1].Cells, t.Columns[y].Cells[i])
		}
	}
	return out
}

// Normalize runs the full reshape on a raw export: the source Time Period
// column is dropped (its codes are already embedded in every year cell),
// dimension columns are split, year columns are expanded to rows, and rows
// whose value is empty after trimming are filtered out.
func Normalize(t Table, withCode bool) Table {
	t.Drop(TimeColumn)
	t = SplitColumns(t, withCode)
	t = ExpandTimeColumns(t, TimeColumn, ValueColumn)
	return filterEmptyValues(t)
}

func filterEmptyValues(t Table) Table {
	value := t.Column(ValueColumn)
	if value == nil {
		return t
	}
	keep := make([]int, 0, len(value.Cells))
	for i, cell := range value.Cells {
		if strings.TrimSpace(cell) != "" {
			keep = append(keep, i)
		}
	}
	out := Table{Columns: make([]Column, len(t.Columns))}
	for c := range t.Columns {
		cells := make([]string, len(keep))
		for k, i := range keep {
			cells[k] = t.Columns[c].Cells[i]
		}
		out.Columns[c] = Column{Name: t.Columns[c].Name, Cells: cells}
	}
	return out
}

func isYear(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

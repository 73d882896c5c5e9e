// Package dataset provides the observational data table consumed by the
// evidence analyzer. Columns are variables; rows are samples in observation
// order (temporal tests assume row order is time order).
package dataset

import (
	"fmt"
	"math"
)

// Table is dense column-major numeric data ready for statistical analysis
type Table struct {
	columns []string
	index   map[string]int
	data    [][]float64 // data[i] is the column for columns[i]
	nRows   int
}

// NewTable builds a table from column names and columns of equal length
func NewTable(columns []string, data [][]float64) (*Table, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("dataset: %d column names for %d columns", len(columns), len(data))
	}
	index := make(map[string]int, len(columns))
	nRows := 0
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", name)
		}
		index[name] = i
		if i == 0 {
			nRows = len(data[i])
		} else if len(data[i]) != nRows {
			return nil, fmt.Errorf("dataset: column %q has %d rows, expected %d", name, len(data[i]), nRows)
		}
	}
	return &Table{columns: columns, index: index, data: data, nRows: nRows}, nil
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the sample count
func (t *Table) NumRows() int { return t.nRows }

// NumColumns returns the variable count
func (t *Table) NumColumns() int { return len(t.columns) }

// HasColumn reports whether a column exists (exact name match)
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of a column's values, false if absent
func (t *Table) Column(name string) ([]float64, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, t.nRows)
	copy(out, t.data[i])
	return out, true
}

// PairedColumns returns two columns with rows containing NaN in either
// column removed, keeping the pair aligned.
func (t *Table) PairedColumns(a, b string) (x, y []float64, ok bool) {
	ia, okA := t.index[a]
	ib, okB := t.index[b]
	if !okA || !okB {
		return nil, nil, false
	}
	for r := 0; r < t.nRows; r++ {
		va, vb := t.data[ia][r], t.data[ib][r]
		if math.IsNaN(va) || math.IsNaN(vb) {
			continue
		}
		x = append(x, va)
		y = append(y, vb)
	}
	return x, y, true
}

// CompleteRows returns the named columns restricted to rows where every one
// of them is non-NaN. Result is column-major in the order requested.
func (t *Table) CompleteRows(names []string) ([][]float64, bool) {
	idx := make([]int, len(names))
	for i, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, false
		}
		idx[i] = j
	}

	out := make([][]float64, len(names))
	for r := 0; r < t.nRows; r++ {
		complete := true
		for _, j := range idx {
			if math.IsNaN(t.data[j][r]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for i, j := range idx {
			out[i] = append(out[i], t.data[j][r])
		}
	}
	return out, true
}

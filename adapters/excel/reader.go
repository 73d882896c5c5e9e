// Package excel loads observational data from xlsx workbooks into the
// column-major table the analyzer consumes.
package excel

import (
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gocausal/domain/dataset"
	"gocausal/internal/errors"
)

// FromFile reads the named sheet (or the first sheet when name is empty)
// into a Table. Row one is the header; non-numeric cells become NaN so
// pairwise analyses can drop them.
func FromFile(path, sheet string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, "read sheet")
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput("sheet needs a header row and at least one data row")
	}

	header := make([]string, 0, len(rows[0]))
	for _, cell := range rows[0] {
		header = append(header, strings.TrimSpace(cell))
	}

	data := make([][]float64, len(header))
	for _, row := range rows[1:] {
		for i := range header {
			v := math.NaN()
			if i < len(row) {
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err == nil {
					v = parsed
				}
			}
			data[i] = append(data[i], v)
		}
	}

	return dataset.NewTable(header, data)
}

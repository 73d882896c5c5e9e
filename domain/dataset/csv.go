package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// FromCSV reads a table from CSV with a header row. Cells that do not parse
// as numbers become NaN and are excluded per-pair by the analyzer.
func FromCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read CSV header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	data := make([][]float64, len(columns))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read CSV row: %w", err)
		}
		for i := range columns {
			v := math.NaN()
			if i < len(record) {
				if parsed, perr := strconv.ParseFloat(strings.TrimSpace(record[i]), 64); perr == nil {
					v = parsed
				}
			}
			data[i] = append(data[i], v)
		}
	}

	return NewTable(columns, data)
}

// FromCSVFile reads a table from a CSV file on disk
func FromCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()
	return FromCSV(f)
}

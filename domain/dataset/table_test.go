package dataset

import (
	"math"
	"strings"
	"testing"
)

func TestNewTableValidation(t *testing.T) {
	if _, err := NewTable([]string{"a", "b"}, [][]float64{{1, 2}}); err == nil {
		t.Error("mismatched columns should fail")
	}
	if _, err := NewTable([]string{"a", "a"}, [][]float64{{1}, {2}}); err == nil {
		t.Error("duplicate column names should fail")
	}
	if _, err := NewTable([]string{"a", "b"}, [][]float64{{1, 2}, {3}}); err == nil {
		t.Error("ragged columns should fail")
	}
}

func TestPairedColumnsDropsNaNRows(t *testing.T) {
	table, err := NewTable(
		[]string{"x", "y"},
		[][]float64{
			{1, math.NaN(), 3, 4},
			{10, 20, math.NaN(), 40},
		},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	x, y, ok := table.PairedColumns("x", "y")
	if !ok {
		t.Fatal("expected paired columns")
	}
	if len(x) != 2 || len(y) != 2 {
		t.Fatalf("expected 2 complete rows, got %d/%d", len(x), len(y))
	}
	if x[0] != 1 || y[0] != 10 || x[1] != 4 || y[1] != 40 {
		t.Errorf("unexpected paired values: %v %v", x, y)
	}
}

func TestPairedColumnsMissingColumn(t *testing.T) {
	table, _ := NewTable([]string{"x"}, [][]float64{{1, 2}})
	if _, _, ok := table.PairedColumns("x", "missing"); ok {
		t.Error("missing column should report !ok")
	}
}

func TestFromCSV(t *testing.T) {
	csv := "x, y, label\n1, 10, apple\n2, 20, banana\n3, , cherry\n"
	table, err := FromCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}

	if table.NumColumns() != 3 || table.NumRows() != 3 {
		t.Fatalf("unexpected shape: %dx%d", table.NumRows(), table.NumColumns())
	}

	label, _ := table.Column("label")
	for i, v := range label {
		if !math.IsNaN(v) {
			t.Errorf("non-numeric cell %d should be NaN, got %v", i, v)
		}
	}

	y, _ := table.Column("y")
	if !math.IsNaN(y[2]) {
		t.Error("empty cell should be NaN")
	}
	if y[0] != 10 || y[1] != 20 {
		t.Errorf("unexpected y values: %v", y)
	}
}

func TestCompleteRows(t *testing.T) {
	table, _ := NewTable(
		[]string{"a", "b", "c"},
		[][]float64{
			{1, 2, 3},
			{4, math.NaN(), 6},
			{7, 8, 9},
		},
	)

	cols, ok := table.CompleteRows([]string{"a", "b", "c"})
	if !ok {
		t.Fatal("expected columns")
	}
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	for i, col := range cols {
		if len(col) != 2 {
			t.Errorf("column %d should keep 2 complete rows, got %d", i, len(col))
		}
	}
	if cols[0][0] != 1 || cols[1][0] != 4 || cols[2][0] != 7 {
		t.Errorf("unexpected first complete row: %v %v %v", cols[0][0], cols[1][0], cols[2][0])
	}

	if _, ok := table.CompleteRows([]string{"a", "missing"}); ok {
		t.Error("missing column should report !ok")
	}
}

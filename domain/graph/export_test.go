package graph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportRoundTrip(t *testing.T) {
	g := New()
	g.MarkAsRoot(v("A"), "exogenous")
	g.AddEdge(v("A"), v("B"), 0.8, "A drives B", nil, "")
	g.AddEdge(v("B"), v("C"), 0.6, "B drives C", nil, "")

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := g.SaveJSON(path); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	export, err := ParseExport(data)
	if err != nil {
		t.Fatalf("ParseExport failed: %v", err)
	}

	if len(export.Variables) != 3 {
		t.Errorf("expected 3 variables, got %d", len(export.Variables))
	}
	if len(export.Edges) != 2 {
		t.Errorf("expected 2 edges, got %d", len(export.Edges))
	}
	if len(export.Roots) != 1 || export.Roots[0] != "A" {
		t.Errorf("unexpected roots: %v", export.Roots)
	}
	if export.Statistics.NumEdges != 2 || export.Statistics.NumRoots != 1 {
		t.Errorf("unexpected statistics: %+v", export.Statistics)
	}
	if avg := export.Statistics.AvgConfidence; avg < 0.699 || avg > 0.701 {
		t.Errorf("expected avg confidence 0.70, got %.3f", avg)
	}
}

func TestEdgesSummaryEmpty(t *testing.T) {
	g := New()
	if g.EdgesSummary() != "No edges yet" {
		t.Errorf("unexpected empty summary: %q", g.EdgesSummary())
	}
}

func TestFormatEdgesWithConfidenceOrdering(t *testing.T) {
	g := New()
	g.AddEdge(v("A"), v("B"), 0.5, "", nil, "")
	g.AddEdge(v("B"), v("C"), 0.9, "", nil, "")

	formatted := g.FormatEdgesWithConfidence()
	posHigh := strings.Index(formatted, "B -> C")
	posLow := strings.Index(formatted, "A -> B")
	if posHigh < 0 || posLow < 0 {
		t.Fatalf("both edges should appear: %q", formatted)
	}
	if posHigh > posLow {
		t.Errorf("edges should be ordered by descending confidence: %q", formatted)
	}
}

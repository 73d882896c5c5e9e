package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gocausal/domain/causal"
)

// Export is the portable wire format of a discovered graph
type Export struct {
	Variables  []ExportVariable `json:"variables"`
	Edges      []ExportEdge     `json:"edges"`
	Roots      []string         `json:"roots"`
	Statistics ExportStatistics `json:"statistics"`
}

// ExportVariable is one variable in the wire format
type ExportVariable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExportEdge is one accepted edge in the wire format
type ExportEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
	Mechanism  string  `json:"mechanism"`
}

// ExportStatistics summarizes the exported graph
type ExportStatistics struct {
	NumVariables  int     `json:"n_variables"`
	NumEdges      int     `json:"n_edges"`
	NumRoots      int     `json:"n_roots"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// ToExport converts the graph to its wire format
func (g *CausalGraph) ToExport() Export {
	vars := g.AllVariables()
	exportVars := make([]ExportVariable, 0, len(vars))
	for _, v := range vars {
		exportVars = append(exportVars, ExportVariable{Name: v.Name, Description: v.Description})
	}

	exportEdges := make([]ExportEdge, 0, len(g.edges))
	for _, e := range g.edges {
		exportEdges = append(exportEdges, ExportEdge{
			Source:     e.Source.Name,
			Target:     e.Target.Name,
			Confidence: e.Confidence,
			Mechanism:  e.Mechanism,
		})
	}

	roots := make([]string, 0, len(g.rootOrder))
	roots = append(roots, g.rootOrder...)

	return Export{
		Variables: exportVars,
		Edges:     exportEdges,
		Roots:     roots,
		Statistics: ExportStatistics{
			NumVariables:  len(vars),
			NumEdges:      len(g.edges),
			NumRoots:      len(g.rootOrder),
			AvgConfidence: g.AverageConfidence(),
		},
	}
}

// SaveJSON writes the wire format as indented JSON
func (g *CausalGraph) SaveJSON(filename string) error {
	data, err := json.MarshalIndent(g.ToExport(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graph export: %w", err)
	}
	return os.WriteFile(filename, data, 0o644)
}

// ParseExport reads the wire format back
func ParseExport(data []byte) (Export, error) {
	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return Export{}, fmt.Errorf("parse graph export: %w", err)
	}
	return export, nil
}

// EdgesSummary lists accepted edges one per line, for prompt context
func (g *CausalGraph) EdgesSummary() string {
	if len(g.edges) == 0 {
		return "No edges yet"
	}
	var lines []string
	for _, e := range g.edges {
		lines = append(lines, fmt.Sprintf("  %s -> %s (confidence: %.2f)", e.Source.Name, e.Target.Name, e.Confidence))
	}
	return strings.Join(lines, "\n")
}

// FormatEdgesWithConfidence lists edges by descending confidence with mechanisms
func (g *CausalGraph) FormatEdgesWithConfidence() string {
	if len(g.edges) == 0 {
		return "No edges"
	}
	sorted := make([]causal.CausalEdge, len(g.edges))
	copy(sorted, g.edges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Confidence > sorted[j].Confidence })

	var lines []string
	for _, e := range sorted {
		lines = append(lines, fmt.Sprintf("%s -> %s: %.2f (%s)", e.Source.Name, e.Target.Name, e.Confidence, e.Mechanism))
	}
	return strings.Join(lines, "\n")
}

// Summarize renders a text summary of the graph used as prompt context
func (g *CausalGraph) Summarize() string {
	var b strings.Builder
	b.WriteString("Causal Graph Summary:\n")
	fmt.Fprintf(&b, "  Variables: %d\n", len(g.nodeOrder))
	fmt.Fprintf(&b, "  Edges: %d\n", len(g.edges))
	fmt.Fprintf(&b, "  Root causes: %d\n", len(g.rootOrder))
	fmt.Fprintf(&b, "  Average confidence: %.2f\n", g.AverageConfidence())

	if len(g.rootOrder) > 0 {
		b.WriteString("\nRoot Causes:\n")
		for _, name := range g.rootOrder {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}
	if len(g.edges) > 0 {
		b.WriteString("\nCausal Relationships:\n")
		b.WriteString(g.EdgesSummary())
	}
	return b.String()
}

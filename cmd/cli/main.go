// Command cli is the causal discovery command line: discover runs the full
// pipeline over a variable set and optional observational data, explain
// elaborates one edge of a saved graph, gen-data writes synthetic data with
// a known causal structure.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gocausal/adapters/excel"
	"gocausal/adapters/llm"
	"gocausal/adapters/stats"
	"gocausal/ai"
	"gocausal/app"
	"gocausal/domain/causal"
	"gocausal/domain/dataset"
	"gocausal/domain/graph"
	"gocausal/internal/config"
	"gocausal/internal/report"
	"gocausal/internal/testkit"
	"gocausal/ports"
)

var (
	discoverDataPath  string
	discoverSheet     string
	discoverVarsPath  string
	discoverOutDir    string
	discoverNoResolve bool
	discoverNoRefine  bool

	genDataOut   string
	genDataCount int
	genDataSeed  int64
	genDataChain bool

	explainGraphPath string
	explainSource    string
	explainTarget    string
)

var rootCmd = &cobra.Command{
	Use:   "gocausal",
	Short: "Hybrid causal discovery from domain knowledge and data",
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run causal discovery over a variable set",
	RunE:  runDiscover,
}

var genDataCmd = &cobra.Command{
	Use:   "gen-data",
	Short: "Generate synthetic data with a known causal structure",
	RunE:  runGenData,
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain one edge of a previously discovered graph",
	RunE:  runExplain,
}

func init() {
	discoverCmd.Flags().StringVar(&discoverDataPath, "data", "", "observational data file (.csv or .xlsx)")
	discoverCmd.Flags().StringVar(&discoverSheet, "sheet", "", "worksheet name for xlsx input")
	discoverCmd.Flags().StringVar(&discoverVarsPath, "vars", "", "JSON file of variables [{name, description}] (required)")
	discoverCmd.Flags().StringVar(&discoverOutDir, "out", ".", "output directory for graph and report files")
	discoverCmd.Flags().BoolVar(&discoverNoResolve, "no-resolve", false, "skip conflict resolution for deferred edges")
	discoverCmd.Flags().BoolVar(&discoverNoRefine, "no-refine", false, "skip iterative refinement")
	_ = discoverCmd.MarkFlagRequired("vars")

	genDataCmd.Flags().StringVar(&genDataOut, "out", "data.csv", "output CSV path")
	genDataCmd.Flags().IntVar(&genDataCount, "n", 200, "number of samples")
	genDataCmd.Flags().Int64Var(&genDataSeed, "seed", 42, "random seed")
	genDataCmd.Flags().BoolVar(&genDataChain, "chain", false, "generate the temporal chain model instead")

	explainCmd.Flags().StringVar(&explainGraphPath, "graph", "graph.json", "graph export file from a discover run")
	explainCmd.Flags().StringVar(&explainSource, "source", "", "source variable name (required)")
	explainCmd.Flags().StringVar(&explainTarget, "target", "", "target variable name (required)")
	_ = explainCmd.MarkFlagRequired("source")
	_ = explainCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(discoverCmd, genDataCmd, explainCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Discovery.ResolveConflicts = !discoverNoResolve
	cfg.Discovery.IterativeRefinement = !discoverNoRefine

	variables, err := loadVariables(discoverVarsPath)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return err
	}

	var analyzer ports.EvidenceAnalyzer
	if discoverDataPath != "" {
		table, err := loadTable(discoverDataPath, discoverSheet)
		if err != nil {
			return err
		}
		analyzer = stats.NewAnalyzer(table, cfg.Discovery.SignificanceLevel)
		log.Printf("[CLI] loaded %d rows x %d columns from %s", table.NumRows(), table.NumColumns(), discoverDataPath)
	} else {
		log.Printf("[CLI] no data file given, discovery runs on elicited knowledge alone")
	}

	service, err := app.NewDiscoveryService(client, analyzer, cfg.Discovery)
	if err != nil {
		return err
	}

	result, err := service.Discover(context.Background(), variables)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(discoverOutDir, 0o755); err != nil {
		return err
	}
	graphPath := filepath.Join(discoverOutDir, "graph.json")
	if err := result.Graph.SaveJSON(graphPath); err != nil {
		return err
	}
	reportPath := filepath.Join(discoverOutDir, "report.json")
	if err := result.Report.Save(reportPath); err != nil {
		return err
	}
	mdPath := filepath.Join(discoverOutDir, "report.md")
	if err := report.SaveMarkdown(result.Report, mdPath); err != nil {
		return err
	}
	htmlPath := filepath.Join(discoverOutDir, "report.html")
	if err := report.SaveHTML(result.Report, htmlPath); err != nil {
		return err
	}

	fmt.Printf("Discovered %d edges over %d variables (avg confidence %.2f)\n",
		result.Graph.NumEdges(), len(variables), result.Graph.AverageConfidence())
	fmt.Printf("Wrote %s, %s, %s, %s\n", graphPath, reportPath, mdPath, htmlPath)
	return nil
}

func runGenData(cmd *cobra.Command, args []string) error {
	gen := testkit.NewSEMGenerator(testkit.SEMGeneratorConfig{
		SampleCount: genDataCount,
		NoiseStd:    0.5,
		Seed:        genDataSeed,
	})

	var (
		table *dataset.Table
		err   error
	)
	if genDataChain {
		table, err = gen.GenerateChain()
	} else {
		table, err = gen.Generate()
	}
	if err != nil {
		return err
	}
	if err := writeCSV(table, genDataOut); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows to %s\n", table.NumRows(), genDataOut)
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(explainGraphPath)
	if err != nil {
		return err
	}
	export, err := graph.ParseExport(data)
	if err != nil {
		return err
	}

	edge, err := findExportedEdge(export, explainSource, explainTarget)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return err
	}
	extractor := ai.NewKnowledgeExtractor(client, cfg.Discovery)

	explanation, err := extractor.ExplainRelationship(context.Background(), edge)
	if err != nil {
		return err
	}

	fmt.Printf("%s -> %s\n\n", edge.Source.Name, edge.Target.Name)
	fmt.Printf("Mechanism: %s\n", explanation.Mechanism)
	fmt.Printf("Time scale: %s\n", explanation.TimeScale)
	fmt.Printf("Nature: %s\n", explanation.Nature)
	if len(explanation.PotentialConfounders) > 0 {
		fmt.Printf("Potential confounders: %s\n", strings.Join(explanation.PotentialConfounders, ", "))
	}
	if explanation.BoundaryConditions != "" {
		fmt.Printf("Boundary conditions: %s\n", explanation.BoundaryConditions)
	}
	fmt.Printf("Confidence level: %d/5\n", explanation.ConfidenceLevel)
	if explanation.Justification != "" {
		fmt.Printf("Justification: %s\n", explanation.Justification)
	}
	return nil
}

// findExportedEdge resolves an edge from the wire format by variable name,
// carrying descriptions over when the export has them.
func findExportedEdge(export graph.Export, source, target string) (causal.CausalEdge, error) {
	descriptions := make(map[string]string, len(export.Variables))
	for _, v := range export.Variables {
		descriptions[strings.ToLower(v.Name)] = v.Description
	}
	for _, e := range export.Edges {
		if strings.EqualFold(e.Source, source) && strings.EqualFold(e.Target, target) {
			return causal.CausalEdge{
				Source:     causal.NewVariable(e.Source, descriptions[strings.ToLower(e.Source)]),
				Target:     causal.NewVariable(e.Target, descriptions[strings.ToLower(e.Target)]),
				Confidence: e.Confidence,
				Mechanism:  e.Mechanism,
			}, nil
		}
	}
	return causal.CausalEdge{}, fmt.Errorf("no edge %s -> %s in %s", source, target, explainGraphPath)
}

func loadVariables(path string) ([]causal.Variable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var variables []causal.Variable
	if err := json.Unmarshal(data, &variables); err != nil {
		return nil, fmt.Errorf("parse variables file: %w", err)
	}
	if len(variables) < 2 {
		return nil, fmt.Errorf("variables file must list at least 2 variables")
	}
	return variables, nil
}

func loadTable(path, sheet string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return excel.FromFile(path, sheet)
	default:
		return dataset.FromCSVFile(path)
	}
}

func writeCSV(table *dataset.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	columns := table.Columns()
	if err := w.Write(columns); err != nil {
		return err
	}
	for i := 0; i < table.NumRows(); i++ {
		record := make([]string, len(columns))
		for j, name := range columns {
			col, _ := table.Column(name)
			record[j] = strconv.FormatFloat(col[i], 'f', 6, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

package app

import (
	"context"
	"fmt"
	"log"
	"sort"

	"gocausal/ai"
	"gocausal/domain/causal"
	"gocausal/domain/core"
	"gocausal/domain/graph"
	"gocausal/ports"
)

// DiscoveryService orchestrates one discovery run: build, resolve deferred
// edges, validate, refine, report. Downstream failures degrade the result
// instead of aborting it; a run that started always produces a graph and a
// report.
type DiscoveryService struct {
	extractor *ai.KnowledgeExtractor
	analyzer  ports.EvidenceAnalyzer
	builder   *GraphBuilder
	resolver  *ConflictResolver
	validator *GraphValidator
	config    causal.DiscoveryConfig
}

// Result bundles the artifacts of one discovery run
type Result struct {
	RunID      core.RunID
	Graph      *graph.CausalGraph
	Validation *causal.ValidationReport
	Report     *causal.Report
}

func NewDiscoveryService(client ports.CompletionClient, analyzer ports.EvidenceAnalyzer, config causal.DiscoveryConfig) (*DiscoveryService, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	extractor := ai.NewKnowledgeExtractor(client, config)
	return &DiscoveryService{
		extractor: extractor,
		analyzer:  analyzer,
		builder:   NewGraphBuilder(extractor, analyzer, config),
		resolver:  NewConflictResolver(client, analyzer),
		validator: NewGraphValidator(analyzer, extractor, config),
		config:    config,
	}, nil
}

// Discover runs the full pipeline over the variable set
func (s *DiscoveryService) Discover(ctx context.Context, variables []causal.Variable) (*Result, error) {
	if len(variables) < 2 {
		return nil, fmt.Errorf("discovery needs at least 2 variables, got %d", len(variables))
	}

	runID := core.RunID(core.NewID())
	log.Printf("[DiscoveryService] run %s: starting discovery over %d variables", runID, len(variables))
	g, err := s.builder.Build(ctx, variables)
	if err != nil {
		return nil, err
	}

	if s.config.ResolveConflicts {
		deferred := g.DeferredEdges()
		if len(deferred) > 0 {
			log.Printf("[DiscoveryService] resolving %d deferred edges", len(deferred))
			resolutions := s.resolver.ResolveConflicts(ctx, g, deferred)
			g.ApplyResolutions(resolutions)
		}
	}

	validation := s.validator.Validate(ctx, g, variables)
	if s.config.IterativeRefinement && !validation.IsSatisfactory() {
		validation = s.validator.Refine(ctx, g, variables, validation)
	}

	report := s.GenerateReport(ctx, runID, g, validation, variables)
	return &Result{RunID: runID, Graph: g, Validation: validation, Report: report}, nil
}

// ExplainEdge produces a detailed explanation of one accepted edge
func (s *DiscoveryService) ExplainEdge(ctx context.Context, edge causal.CausalEdge) (causal.Explanation, error) {
	return s.extractor.ExplainRelationship(ctx, edge)
}

// GenerateReport assembles the discovery report from the finished graph
func (s *DiscoveryService) GenerateReport(ctx context.Context, runID core.RunID, g *graph.CausalGraph, validation *causal.ValidationReport, variables []causal.Variable) *causal.Report {
	report := causal.NewReport()

	report.AddSection("summary", map[string]interface{}{
		"run_id":         runID.String(),
		"n_variables":    len(variables),
		"n_edges":        g.NumEdges(),
		"n_roots":        len(g.Roots()),
		"avg_confidence": g.AverageConfidence(),
	})

	vars := make([]map[string]string, 0, len(variables))
	for _, v := range variables {
		vars = append(vars, map[string]string{"name": v.Name, "description": v.Description})
	}
	report.AddSection("variables", vars)

	roots := make([]map[string]string, 0)
	for _, root := range g.Roots() {
		roots = append(roots, map[string]string{
			"name":      root.Name,
			"reasoning": g.RootReasoning(root),
		})
	}
	report.AddSection("roots", roots)

	edges := g.Edges()
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Confidence > edges[j].Confidence
	})
	relationships := make([]map[string]interface{}, 0, len(edges))
	for _, e := range edges {
		entry := map[string]interface{}{
			"source":     e.Source.Name,
			"target":     e.Target.Name,
			"confidence": e.Confidence,
			"mechanism":  e.Mechanism,
		}
		if e.StatisticalSupport != nil {
			entry["statistical_support"] = *e.StatisticalSupport
		}
		relationships = append(relationships, entry)
	}
	report.AddSection("edges", relationships)

	if validation != nil {
		report.AddSection("validation", validation.ToDict())
	}

	report.AddSection("uncertainty", s.uncertaintySection(g))

	rejected := g.RejectedEdges()
	limit := len(rejected)
	if limit > 10 {
		limit = 10
	}
	rejectedEntries := make([]map[string]string, 0, limit)
	for _, flagged := range rejected[:limit] {
		rejectedEntries = append(rejectedEntries, map[string]string{
			"edge":   flagged.Edge.String(),
			"reason": flagged.Reason,
		})
	}
	report.AddSection("rejected", rejectedEntries)

	if s.extractor != nil {
		if narrative, err := s.extractor.ExplainGraph(ctx, g); err == nil {
			report.AddSection("narrative", narrative)
		} else {
			log.Printf("[DiscoveryService] graph narrative unavailable: %v", err)
		}
	}

	return report
}

func (s *DiscoveryService) uncertaintySection(g *graph.CausalGraph) map[string]interface{} {
	lowConfidence := make([]string, 0)
	for _, e := range g.Edges() {
		if e.Confidence < 0.5 {
			lowConfidence = append(lowConfidence, e.String())
		}
	}

	uncertainRoots := make([]map[string]interface{}, 0)
	names := make([]string, 0)
	for name := range g.UncertainRoots() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		uncertainRoots = append(uncertainRoots, map[string]interface{}{
			"name":       name,
			"confidence": g.UncertainRoots()[name],
		})
	}

	unresolved := make([]map[string]string, 0)
	for _, flagged := range g.DeferredEdges() {
		unresolved = append(unresolved, map[string]string{
			"edge":   flagged.Edge.String(),
			"reason": flagged.Reason,
		})
	}

	return map[string]interface{}{
		"low_confidence_edges": lowConfidence,
		"uncertain_roots":      uncertainRoots,
		"unresolved_conflicts": unresolved,
	}
}

package app

import (
	"context"
	"fmt"
	"log"

	"gocausal/ai"
	"gocausal/domain/causal"
	"gocausal/domain/graph"
	"gocausal/ports"
)

const (
	maxStatisticalChecks  = 10
	maxLogicalPathChecks  = 5
	maxRefinementsPerIter = 5
)

// GraphValidator runs the validation suite over a finished graph and, when
// asked, applies bounded corrective refinements until the suite passes or
// the iteration budget runs out.
type GraphValidator struct {
	analyzer  ports.EvidenceAnalyzer
	extractor *ai.KnowledgeExtractor
	config    causal.DiscoveryConfig
}

func NewGraphValidator(analyzer ports.EvidenceAnalyzer, extractor *ai.KnowledgeExtractor, config causal.DiscoveryConfig) *GraphValidator {
	return &GraphValidator{analyzer: analyzer, extractor: extractor, config: config}
}

// Validate runs all five tests and returns a fresh report
func (v *GraphValidator) Validate(ctx context.Context, g *graph.CausalGraph, variables []causal.Variable) *causal.ValidationReport {
	report := causal.NewValidationReport()
	report.AddTest("structural_consistency", v.testStructural(g))
	report.AddTest("confidence_calibration", v.testConfidence(g))
	report.AddTest("statistical_consistency", v.testStatistical(ctx, g))
	report.AddTest("logical_consistency", v.testLogical(ctx, g))
	report.AddTest("completeness", v.testCompleteness(g, variables))
	log.Printf("[GraphValidator] validation complete: satisfactory=%v, violations=%d",
		report.IsSatisfactory(), len(report.Issues()))
	return report
}

// testStructural checks that the graph has roots, no isolated nodes, and no
// root-marked nodes with incoming edges. Each violation docks 0.2.
func (v *GraphValidator) testStructural(g *graph.CausalGraph) causal.TestResult {
	var violations []causal.Violation

	if len(g.Roots()) == 0 {
		violations = append(violations, causal.Violation{
			Kind:     causal.ViolationNoRoots,
			Details:  "no root causes identified",
			Severity: causal.SeverityHigh,
		})
	}

	for _, node := range g.AllVariables() {
		if len(g.Parents(node)) == 0 && len(g.Children(node)) == 0 {
			violations = append(violations, causal.Violation{
				Kind:     causal.ViolationIsolatedNode,
				Details:  fmt.Sprintf("%s has no causal connections", node.Name),
				Severity: causal.SeverityMedium,
			})
		}
	}

	for _, root := range g.Roots() {
		if len(g.Parents(root)) > 0 {
			violations = append(violations, causal.Violation{
				Kind:     causal.ViolationRootWithParents,
				Details:  fmt.Sprintf("%s is marked as root but has incoming edges", root.Name),
				Severity: causal.SeverityMedium,
			})
		}
	}

	score := 1.0 - 0.2*float64(len(violations))
	if score < 0 {
		score = 0
	}
	return causal.TestResult{Passed: len(violations) == 0, Score: score, Violations: violations}
}

// testConfidence checks the confidence distribution: the mean must reach 0.5
// and at most 30% of edges may sit below 0.4. Edges below 0.3 are flagged
// individually so refinement can remove them. Score is the mean, capped at 1.
func (v *GraphValidator) testConfidence(g *graph.CausalGraph) causal.TestResult {
	edges := g.Edges()
	if len(edges) == 0 {
		return causal.TestResult{Passed: true, Score: 1.0}
	}

	var violations []causal.Violation
	sum := 0.0
	below := 0
	for i := range edges {
		sum += edges[i].Confidence
		if edges[i].Confidence < 0.4 {
			below++
		}
		if edges[i].Confidence < 0.3 {
			e := edges[i]
			violations = append(violations, causal.Violation{
				Kind:     causal.ViolationLowConfidence,
				Details:  fmt.Sprintf("%s has confidence %.2f", e, e.Confidence),
				Severity: causal.SeverityLow,
				Edge:     &e,
			})
		}
	}

	mean := sum / float64(len(edges))
	fraction := float64(below) / float64(len(edges))
	if mean < 0.5 {
		violations = append(violations, causal.Violation{
			Kind:     causal.ViolationLowMeanConfidence,
			Details:  fmt.Sprintf("mean edge confidence %.2f is below 0.5", mean),
			Severity: causal.SeverityMedium,
		})
	}
	if fraction > 0.3 {
		violations = append(violations, causal.Violation{
			Kind:     causal.ViolationManyLowConfidence,
			Details:  fmt.Sprintf("%.0f%% of edges have confidence below 0.4", fraction*100),
			Severity: causal.SeverityHigh,
		})
	}

	score := mean
	if score > 1 {
		score = 1
	}
	return causal.TestResult{Passed: mean >= 0.5 && fraction <= 0.3, Score: score, Violations: violations}
}

// testStatistical re-checks the first edges against the data for conditional
// independence given the target's other parents. Edges whose target has no
// other parents are skipped; an edge is flagged only when the independence
// conclusion is strongly supported (p < 0.01).
func (v *GraphValidator) testStatistical(ctx context.Context, g *graph.CausalGraph) causal.TestResult {
	if v.analyzer == nil {
		return causal.TestResult{Passed: true, Score: 1.0}
	}

	edges := g.Edges()
	if len(edges) > maxStatisticalChecks {
		edges = edges[:maxStatisticalChecks]
	}

	var violations []causal.Violation
	checked := 0
	for i := range edges {
		e := edges[i]
		conditioning := otherParents(g, e.Source, e.Target)
		if len(conditioning) == 0 {
			continue
		}
		profile, err := v.analyzer.ComputeProfile(ctx, e.Source, e.Target, conditioning)
		if err != nil {
			log.Printf("[GraphValidator] statistical check for %s failed: %v", e, err)
			continue
		}
		checked++
		ci := profile.CondIndependence
		if ci != nil && ci.Independent && ci.PValue < 0.01 {
			p := ci.PValue
			violations = append(violations, causal.Violation{
				Kind:     causal.ViolationConditionalIndependence,
				Details:  fmt.Sprintf("%s appears conditionally independent", e),
				Severity: causal.SeverityHigh,
				Edge:     &e,
				PValue:   &p,
			})
		}
	}

	score := 1.0
	if checked > 0 {
		score = 1.0 - float64(len(violations))/float64(checked)
	}
	return causal.TestResult{Passed: len(violations) == 0, Score: score, Violations: violations}
}

// testLogical asks the model whether the longest discovered chains are
// plausible. Only chains of three or more variables are worth asking about.
func (v *GraphValidator) testLogical(ctx context.Context, g *graph.CausalGraph) causal.TestResult {
	if v.extractor == nil {
		return causal.TestResult{Passed: true, Score: 1.0}
	}

	var chains [][]causal.Variable
	for _, path := range g.AllPaths(3) {
		if len(path) >= 3 {
			chains = append(chains, path)
		}
		if len(chains) == maxLogicalPathChecks {
			break
		}
	}
	if len(chains) == 0 {
		return causal.TestResult{Passed: true, Score: 1.0}
	}

	var violations []causal.Violation
	total := 0.0
	for _, chain := range chains {
		score, reasoning := v.extractor.AssessPlausibility(ctx, chain)
		total += score
		if score < 0.5 {
			violations = append(violations, causal.Violation{
				Kind:     causal.ViolationImplausiblePath,
				Details:  fmt.Sprintf("chain %s rated %.2f: %s", formatChain(chain), score, reasoning),
				Severity: causal.SeverityMedium,
			})
		}
	}
	return causal.TestResult{
		Passed:     len(violations) == 0,
		Score:      total / float64(len(chains)),
		Violations: violations,
	}
}

// testCompleteness checks that the graph covers the variable set
func (v *GraphValidator) testCompleteness(g *graph.CausalGraph, variables []causal.Variable) causal.TestResult {
	if len(variables) == 0 {
		return causal.TestResult{Passed: true, Score: 1.0}
	}

	inGraph := make(map[string]bool)
	for _, node := range g.AllVariables() {
		inGraph[node.Name] = true
	}

	var violations []causal.Violation
	missing := 0
	for _, variable := range variables {
		if !inGraph[variable.Name] {
			missing++
			violations = append(violations, causal.Violation{
				Kind:     causal.ViolationDisconnected,
				Details:  fmt.Sprintf("%s is not connected to the graph", variable.Name),
				Severity: causal.SeverityMedium,
			})
		}
	}

	// a connected graph over n variables needs at least n-1 edges
	minEdges := len(variables) - 1
	if minEdges < 1 {
		minEdges = 1
	}
	if g.NumEdges() < minEdges {
		violations = append(violations, causal.Violation{
			Kind:     causal.ViolationTooSparse,
			Details:  fmt.Sprintf("%d edges cannot span %d variables", g.NumEdges(), len(variables)),
			Severity: causal.SeverityHigh,
		})
	}

	coverage := float64(len(variables)-missing) / float64(len(variables))
	return causal.TestResult{
		Passed:     missing == 0 && g.NumEdges() >= minEdges,
		Score:      coverage,
		Violations: violations,
	}
}

// otherParents lists the target's parents excluding the edge's own source
func otherParents(g *graph.CausalGraph, source, target causal.Variable) []causal.Variable {
	var out []causal.Variable
	for _, p := range g.Parents(target) {
		if !p.Equal(source) {
			out = append(out, p)
		}
	}
	return out
}

// Refine re-validates and applies bounded corrective edits until the suite
// is satisfactory, the iteration budget is exhausted, or an iteration
// proposes nothing. Returns the final report.
func (v *GraphValidator) Refine(ctx context.Context, g *graph.CausalGraph, variables []causal.Variable, report *causal.ValidationReport) *causal.ValidationReport {
	for iteration := 0; iteration < v.config.MaxRefinementIterations; iteration++ {
		if report.IsSatisfactory() {
			return report
		}
		refinements := proposeRefinements(report)
		if len(refinements) == 0 {
			log.Printf("[GraphValidator] no applicable refinements, stopping after iteration %d", iteration)
			return report
		}
		applied := applyRefinements(g, refinements)
		log.Printf("[GraphValidator] refinement iteration %d applied %d edits", iteration+1, applied)
		if applied == 0 {
			return report
		}
		report = v.Validate(ctx, g, variables)
	}
	return report
}

// proposeRefinements maps violations onto corrective edits, at most
// maxRefinementsPerIter per call. Low-confidence edges are removed; edges
// contradicted by conditional independence have their confidence halved.
func proposeRefinements(report *causal.ValidationReport) []causal.Refinement {
	var refinements []causal.Refinement
	seen := make(map[string]bool)
	add := func(r causal.Refinement) bool {
		key := string(r.Type) + "|" + r.Source + "|" + r.Target
		if seen[key] {
			return true
		}
		seen[key] = true
		refinements = append(refinements, r)
		return len(refinements) < maxRefinementsPerIter
	}

	for _, violation := range report.Issues() {
		if violation.Edge == nil {
			continue
		}
		var r causal.Refinement
		switch violation.Kind {
		case causal.ViolationLowConfidence:
			r = causal.Refinement{
				Type:   causal.RefinementRemoveEdge,
				Source: violation.Edge.Source.Name,
				Target: violation.Edge.Target.Name,
			}
		case causal.ViolationConditionalIndependence:
			halved := violation.Edge.Confidence / 2
			if halved < 0.2 {
				halved = 0.2
			}
			r = causal.Refinement{
				Type:       causal.RefinementModifyConfidence,
				Source:     violation.Edge.Source.Name,
				Target:     violation.Edge.Target.Name,
				Confidence: halved,
			}
		default:
			continue
		}
		if !add(r) {
			break
		}
	}
	return refinements
}

func applyRefinements(g *graph.CausalGraph, refinements []causal.Refinement) int {
	applied := 0
	for _, r := range refinements {
		switch r.Type {
		case causal.RefinementRemoveEdge:
			if g.RemoveEdge(r.Source, r.Target) {
				applied++
			}
		case causal.RefinementModifyConfidence:
			if g.SetEdgeConfidence(r.Source, r.Target, r.Confidence) {
				applied++
			}
		}
	}
	return applied
}

func formatChain(chain []causal.Variable) string {
	out := ""
	for i, v := range chain {
		if i > 0 {
			out += " -> "
		}
		out += v.Name
	}
	return out
}

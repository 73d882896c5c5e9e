// Package app wires the elicitation, evidence, and graph layers into the
// discovery pipeline: build, resolve, validate, refine, report.
package app

import (
	"container/heap"
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"gocausal/ai"
	"gocausal/domain/causal"
	"gocausal/domain/evidence"
	"gocausal/domain/graph"
	"gocausal/ports"
)

// maxExpansions bounds the best-first loop against degenerate re-queueing
const maxExpansions = 100

// queueItem is a frontier entry. Priority is the confidence that led the
// variable into the frontier; seq breaks ties in insertion order so the
// heap never compares variables themselves.
type queueItem struct {
	variable causal.Variable
	priority float64
	seq      int
	index    int
}

type frontier []*queueItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority > f[j].priority
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}
func (f *frontier) Push(x interface{}) {
	item := x.(*queueItem)
	item.index = len(*f)
	*f = append(*f, item)
}
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

// GraphBuilder constructs the causal DAG by best-first expansion from the
// elicited root causes. The analyzer is optional; without one, edges are
// judged on elicited confidence alone.
type GraphBuilder struct {
	extractor *ai.KnowledgeExtractor
	analyzer  ports.EvidenceAnalyzer
	config    causal.DiscoveryConfig
}

func NewGraphBuilder(extractor *ai.KnowledgeExtractor, analyzer ports.EvidenceAnalyzer, config causal.DiscoveryConfig) *GraphBuilder {
	return &GraphBuilder{extractor: extractor, analyzer: analyzer, config: config}
}

// Build runs root identification and then best-first expansion until the
// frontier is exhausted or the expansion cap is hit.
func (b *GraphBuilder) Build(ctx context.Context, variables []causal.Variable) (*graph.CausalGraph, error) {
	g := graph.New()
	pq := &frontier{}
	heap.Init(pq)
	seq := 0
	push := func(v causal.Variable, priority float64) {
		heap.Push(pq, &queueItem{variable: v, priority: priority, seq: seq})
		seq++
	}

	roots, err := b.extractor.IdentifyRootCauses(ctx, variables)
	if err != nil {
		log.Printf("[GraphBuilder] root identification failed, falling back to unguided seeding: %v", err)
	}
	for _, root := range roots {
		if root.Confidence > b.config.ConfidenceThreshold {
			g.MarkAsRoot(root.Variable, root.Reasoning)
			push(root.Variable, root.Confidence)
		} else {
			g.AddUncertainRoot(root.Variable, root.Confidence)
		}
	}

	// No confident roots: mark the first two variables as fallback roots so
	// expansion still explores the set.
	if pq.Len() == 0 {
		log.Printf("[GraphBuilder] no confident root causes, seeding frontier from input order")
		for i, v := range variables {
			if i >= 2 {
				break
			}
			g.MarkAsRoot(v, "Fallback: no confident roots")
			push(v, 0.0)
		}
	}

	expansions := 0
	for pq.Len() > 0 {
		if expansions >= maxExpansions {
			log.Printf("[GraphBuilder] expansion cap reached after %d pops, stopping", maxExpansions)
			break
		}
		expansions++

		item := heap.Pop(pq).(*queueItem)
		node := item.variable
		if g.IsVisited(node) {
			continue
		}
		g.MarkVisited(node)

		proposals, err := b.extractor.GetCausalRelationships(ctx, node, g, variables)
		if err != nil {
			log.Printf("[GraphBuilder] expansion of %q failed, treating as no effects: %v", node.Name, err)
			continue
		}

		for _, proposal := range proposals {
			decision := b.evaluateEdge(ctx, g, proposal)
			switch decision.Action {
			case causal.ActionAdd:
				edge := decision.Edge
				edge.Confidence = decision.Confidence
				edge.Evidence = decision.Evidence
				g.AddCausalEdge(edge)
				push(edge.Target, decision.Confidence)
			case causal.ActionDefer:
				flagged := decision.Edge
				flagged.Evidence = decision.Evidence
				g.AddDeferredEdge(flagged, decision.Reason)
			case causal.ActionReject:
				g.AddRejectedEdge(decision.Edge, decision.Reason)
			}
		}
	}

	log.Printf("[GraphBuilder] built graph: %d edges, %d roots, %d deferred, %d rejected",
		g.NumEdges(), len(g.Roots()), len(g.DeferredEdges()), len(g.RejectedEdges()))
	return g, nil
}

// evaluateEdge applies the acceptance policy in strict order: cycle check,
// low-confidence gate, statistical conflict gate, then the blended score
// against the acceptance threshold.
func (b *GraphBuilder) evaluateEdge(ctx context.Context, g *graph.CausalGraph, edge causal.CausalEdge) causal.EdgeDecision {
	if g.WouldCreateCycle(edge.Source, edge.Target) {
		return causal.EdgeDecision{
			Edge:       edge,
			Action:     causal.ActionReject,
			Reason:     "would create cycle",
			Confidence: 1.0,
		}
	}

	if edge.Confidence < 0.3 {
		return causal.EdgeDecision{
			Edge:       edge,
			Action:     causal.ActionDefer,
			Reason:     fmt.Sprintf("low llm confidence (%.2f)", edge.Confidence),
			Confidence: edge.Confidence,
		}
	}

	var profile *evidence.Profile
	if b.analyzer != nil {
		conditioning := conditioningFor(g, b.analyzer, edge.Source, edge.Target)
		p, err := b.analyzer.ComputeProfile(ctx, edge.Source, edge.Target, conditioning)
		if err != nil {
			log.Printf("[GraphBuilder] evidence profile for %s failed: %v", edge, err)
		} else {
			profile = p
		}
	}

	if profile != nil {
		compat := evidence.CheckCompatibility(profile)
		if compat.HasStrongConflict() {
			return causal.EdgeDecision{
				Edge:       edge,
				Action:     causal.ActionDefer,
				Reason:     "statistical evidence conflicts: " + describeSignals(compat.Signals),
				Confidence: edge.Confidence,
				Evidence:   profile,
			}
		}
	}

	combined := edge.Confidence
	if profile != nil {
		support := statisticalSupport(profile)
		edge.StatisticalSupport = &support
		combined = 0.6*edge.Confidence + 0.4*support
	}

	if combined > 0.6 {
		return causal.EdgeDecision{
			Edge:       edge,
			Action:     causal.ActionAdd,
			Reason:     "accepted",
			Confidence: combined,
			Evidence:   profile,
		}
	}
	return causal.EdgeDecision{
		Edge:       edge,
		Action:     causal.ActionDefer,
		Reason:     fmt.Sprintf("combined confidence too low (%.2f)", combined),
		Confidence: combined,
		Evidence:   profile,
	}
}

// statisticalSupport maps the available profile measures onto coarse support
// buckets and averages them.
func statisticalSupport(profile *evidence.Profile) float64 {
	var buckets []float64

	absCorr := math.Abs(profile.Correlation)
	switch {
	case absCorr > 0.5:
		buckets = append(buckets, 0.7)
	case absCorr > 0.3:
		buckets = append(buckets, 0.5)
	default:
		buckets = append(buckets, 0.2)
	}

	if profile.Granger != nil {
		switch {
		case profile.Granger.ForwardSignificant:
			buckets = append(buckets, 0.8)
		case profile.Granger.ReverseDirection:
			buckets = append(buckets, 0.1)
		default:
			buckets = append(buckets, 0.4)
		}
	}

	if profile.Effect != nil {
		if math.Abs(profile.Effect.Coefficient) > 0.5 {
			buckets = append(buckets, 0.7)
		} else {
			buckets = append(buckets, 0.4)
		}
	}

	sum := 0.0
	for _, v := range buckets {
		sum += v
	}
	return sum / float64(len(buckets))
}

func describeSignals(signals []evidence.Signal) string {
	var parts []string
	for _, s := range signals {
		if s.Severity == evidence.SeverityStrongConflict {
			parts = append(parts, s.Message)
		}
	}
	return strings.Join(parts, "; ")
}

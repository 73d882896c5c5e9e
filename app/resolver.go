package app

import (
	"context"
	"log"

	"gocausal/ai"
	"gocausal/domain/causal"
	"gocausal/domain/evidence"
	"gocausal/domain/graph"
	"gocausal/ports"
)

// ConflictResolver gives each deferred edge one reconsideration dialogue:
// the model sees its original claim, the conflict reason, and a prose
// rendering of the statistical evidence, then issues a final verdict.
type ConflictResolver struct {
	client   ports.CompletionClient
	analyzer ports.EvidenceAnalyzer
}

func NewConflictResolver(client ports.CompletionClient, analyzer ports.EvidenceAnalyzer) *ConflictResolver {
	return &ConflictResolver{client: client, analyzer: analyzer}
}

// ResolveConflicts produces one Resolution per deferred edge. A failed
// dialogue resolves to REJECT at zero confidence; resolution never aborts
// the run.
func (r *ConflictResolver) ResolveConflicts(ctx context.Context, g *graph.CausalGraph, deferred []causal.FlaggedEdge) []causal.Resolution {
	resolutions := make([]causal.Resolution, 0, len(deferred))
	for _, flagged := range deferred {
		resolutions = append(resolutions, r.resolveOne(ctx, g, flagged))
	}
	return resolutions
}

func (r *ConflictResolver) resolveOne(ctx context.Context, g *graph.CausalGraph, flagged causal.FlaggedEdge) causal.Resolution {
	edge := flagged.Edge
	profile := edge.Evidence
	if profile == nil && r.analyzer != nil {
		p, err := r.analyzer.ComputeProfile(ctx, edge.Source, edge.Target, nil)
		if err != nil {
			log.Printf("[ConflictResolver] evidence profile for %s failed: %v", edge, err)
		} else {
			profile = p
		}
	}

	narrative := "No statistical evidence available."
	if profile != nil {
		narrative = evidence.RenderNarrative(profile)
	}

	prompt := ai.BuildConflictPrompt(edge, flagged.Reason, narrative, g)
	response, err := r.client.Complete(ctx, ports.CompletionRequest{
		Prompt:      prompt,
		Temperature: 0.2,
	})
	if err != nil {
		log.Printf("[ConflictResolver] dialogue for %s failed, rejecting: %v", edge, err)
		return causal.Resolution{
			Edge:             edge,
			Decision:         causal.ResolutionReject,
			Explanation:      "conflict resolution unavailable",
			OriginalEvidence: profile,
		}
	}

	decision, confidence, explanation, alternative := ai.ParseResolution(response)

	// A resolution cannot override the acyclicity invariant.
	if decision == causal.ResolutionAdd && g.WouldCreateCycle(edge.Source, edge.Target) {
		decision = causal.ResolutionReject
		explanation = "resolved edge would create a cycle; " + explanation
	}

	log.Printf("[ConflictResolver] %s resolved as %s (conf=%.2f)", edge, decision, confidence)
	return causal.Resolution{
		Edge:                  edge,
		Decision:              decision,
		RevisedConfidence:     confidence,
		Explanation:           explanation,
		AlternativeHypothesis: alternative,
		OriginalEvidence:      profile,
	}
}

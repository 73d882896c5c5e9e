package ai

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"gocausal/domain/causal"
	"gocausal/domain/core"
	"gocausal/domain/graph"
	apperrors "gocausal/internal/errors"
	"gocausal/ports"
)

// KnowledgeExtractor elicits causal knowledge from a completion model using
// self-consistency sampling: every question is asked nSamples times at a
// nonzero temperature and the answers are aggregated by majority vote.
type KnowledgeExtractor struct {
	client      ports.CompletionClient
	temperature float64
	nSamples    int
}

func NewKnowledgeExtractor(client ports.CompletionClient, cfg causal.DiscoveryConfig) *KnowledgeExtractor {
	return &KnowledgeExtractor{
		client:      client,
		temperature: cfg.Temperature,
		nSamples:    cfg.NSamples,
	}
}

// sample fans out nSamples concurrent completions for one prompt. Individual
// failures are logged and skipped; an error is returned only when every
// sample failed.
func (e *KnowledgeExtractor) sample(ctx context.Context, prompt string) ([]string, error) {
	var (
		mu        sync.Mutex
		responses []string
		lastErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.nSamples; i++ {
		g.Go(func() error {
			resp, err := e.client.Complete(gctx, ports.CompletionRequest{
				Prompt:      prompt,
				Temperature: e.temperature,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("[KnowledgeExtractor] sample failed: %v", err)
				lastErr = err
				return nil
			}
			responses = append(responses, resp)
			return nil
		})
	}
	_ = g.Wait()

	if len(responses) == 0 {
		return nil, apperrors.ExternalServiceError("completion", lastErr)
	}
	log.Printf("[KnowledgeExtractor] collected %d/%d samples prompt=%s set=%s",
		len(responses), e.nSamples,
		core.NewPromptHash(prompt).String()[:12],
		core.ComputeSampleSetHash(responses).String()[:12])
	return responses, nil
}

// IdentifyRootCauses returns the variables a majority of samples named as
// root causes, with confidence equal to the agreement frequency.
func (e *KnowledgeExtractor) IdentifyRootCauses(ctx context.Context, variables []causal.Variable) ([]causal.RootNode, error) {
	prompt := BuildRootPrompt(variables)
	responses, err := e.sample(ctx, prompt)
	if err != nil {
		return nil, err
	}

	samples := make([][]causal.Variable, 0, len(responses))
	for _, resp := range responses {
		samples = append(samples, ParseRootNames(resp, variables))
	}
	roots := aggregateRootSamples(samples, e.nSamples)
	log.Printf("[KnowledgeExtractor] root elicitation yielded %d roots from %d samples", len(roots), len(responses))
	return roots, nil
}

// GetCausalRelationships returns the direct effects of node among the
// remaining (unvisited) variables that a majority of samples agreed on.
func (e *KnowledgeExtractor) GetCausalRelationships(ctx context.Context, node causal.Variable, g *graph.CausalGraph, allVariables []causal.Variable) ([]causal.CausalEdge, error) {
	var remaining []causal.Variable
	for _, v := range allVariables {
		if v.Equal(node) || g.IsVisited(v) {
			continue
		}
		remaining = append(remaining, v)
	}
	if len(remaining) == 0 {
		return nil, nil
	}

	prompt := BuildExpansionPrompt(node, g, remaining)
	responses, err := e.sample(ctx, prompt)
	if err != nil {
		return nil, err
	}

	samples := make([][]EdgeProposal, 0, len(responses))
	for _, resp := range responses {
		samples = append(samples, ParseEdgeProposals(resp, remaining))
	}
	edges := aggregateEdgeSamples(node, samples, e.nSamples)
	log.Printf("[KnowledgeExtractor] expansion of %q yielded %d edges from %d samples", node.Name, len(edges), len(responses))
	return edges, nil
}

// AssessPlausibility rates a causal chain in [0,1] with a single completion.
// Failures come back as the neutral 0.5 so validation keeps going.
func (e *KnowledgeExtractor) AssessPlausibility(ctx context.Context, path []causal.Variable) (float64, string) {
	resp, err := e.client.Complete(ctx, ports.CompletionRequest{
		Prompt:      BuildPlausibilityPrompt(path),
		Temperature: e.temperature,
	})
	if err != nil {
		log.Printf("[KnowledgeExtractor] plausibility check failed: %v", err)
		return 0.5, "assessment unavailable"
	}
	return ParsePlausibility(resp)
}

// ExplainRelationship produces a structured explanation of one edge.
func (e *KnowledgeExtractor) ExplainRelationship(ctx context.Context, edge causal.CausalEdge) (causal.Explanation, error) {
	resp, err := e.client.Complete(ctx, ports.CompletionRequest{
		Prompt:      BuildExplainPrompt(edge),
		Temperature: e.temperature,
	})
	if err != nil {
		return causal.Explanation{}, apperrors.Wrap(err, "explanation request failed")
	}
	return ParseExplanation(resp), nil
}

// ExplainGraph produces a narrative account of the whole graph.
func (e *KnowledgeExtractor) ExplainGraph(ctx context.Context, g *graph.CausalGraph) (string, error) {
	resp, err := e.client.Complete(ctx, ports.CompletionRequest{
		Prompt:      BuildGraphExplanationPrompt(g),
		Temperature: e.temperature,
	})
	if err != nil {
		return "", apperrors.Wrap(err, "graph explanation request failed")
	}
	return resp, nil
}

package ai

import (
	"fmt"

	"gocausal/domain/causal"
	"gocausal/domain/core"
)

// Self-consistency aggregation: an answer counts only when at least half of
// the samples agree on it. Frequency of agreement feeds the confidence score.

func majority(count, nSamples int) bool {
	return 2*count >= nSamples
}

func aggregateRootSamples(samples [][]causal.Variable, nSamples int) []causal.RootNode {
	counts := map[string]int{}
	var order []causal.Variable
	for _, sample := range samples {
		for _, v := range sample {
			if counts[v.Name] == 0 {
				order = append(order, v)
			}
			counts[v.Name]++
		}
	}

	var roots []causal.RootNode
	for _, v := range order {
		count := counts[v.Name]
		if !majority(count, nSamples) {
			continue
		}
		roots = append(roots, causal.RootNode{
			Variable:   v,
			Confidence: float64(count) / float64(nSamples),
			Reasoning:  fmt.Sprintf("Identified as root cause in %d/%d samples", count, nSamples),
		})
	}
	return roots
}

type edgeTally struct {
	target      causal.Variable
	count       int
	confidences []float64
	mechanism   string
	mechanisms  []string
}

func aggregateEdgeSamples(source causal.Variable, samples [][]EdgeProposal, nSamples int) []causal.CausalEdge {
	tallies := map[string]*edgeTally{}
	var order []string
	for _, sample := range samples {
		// a sample proposing the same target twice still counts once
		seen := map[string]bool{}
		for _, p := range sample {
			if seen[p.Target.Name] {
				continue
			}
			seen[p.Target.Name] = true
			t, ok := tallies[p.Target.Name]
			if !ok {
				t = &edgeTally{target: p.Target, mechanism: p.Mechanism}
				tallies[p.Target.Name] = t
				order = append(order, p.Target.Name)
			}
			t.count++
			t.confidences = append(t.confidences, p.Confidence)
			if p.Mechanism != "" && p.Mechanism != t.mechanism {
				t.mechanisms = append(t.mechanisms, p.Mechanism)
			}
		}
	}

	var edges []causal.CausalEdge
	for _, name := range order {
		t := tallies[name]
		if !majority(t.count, nSamples) {
			continue
		}
		frequency := float64(t.count) / float64(nSamples)
		meanConf := 0.0
		for _, c := range t.confidences {
			meanConf += c
		}
		meanConf /= float64(len(t.confidences))

		edges = append(edges, causal.CausalEdge{
			Source:                  source,
			Target:                  t.target,
			Confidence:              (frequency + meanConf) / 2,
			Mechanism:               t.mechanism,
			AlternativeExplanations: distinctCapped(t.mechanisms, 3),
			CreatedAt:               core.Now(),
		})
	}
	return edges
}

func distinctCapped(items []string, limit int) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

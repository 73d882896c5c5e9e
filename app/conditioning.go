package app

import (
	"fmt"
	"strings"

	"gocausal/domain/causal"
	"gocausal/domain/core"
	"gocausal/domain/evidence"
	"gocausal/domain/graph"
	"gocausal/ports"
)

// SuggestConditioningSets proposes variable sets to hold fixed when testing
// the source -> target link. Graph structure comes first: common parents are
// potential confounders, on-path nodes are potential mediators. Data-driven
// candidates from correlation screening fill in when the graph is silent.
func SuggestConditioningSets(g *graph.CausalGraph, analyzer ports.EvidenceAnalyzer, source, target causal.Variable) []evidence.ConditioningSet {
	var suggestions []evidence.ConditioningSet

	if confounders := g.CommonParents(source, target); len(confounders) > 0 {
		suggestions = append(suggestions, evidence.ConditioningSet{
			Variables: keysOf(confounders),
			Rationale: fmt.Sprintf("common parents of %s and %s (potential confounders)", source.Name, target.Name),
			Priority:  "high",
		})
	}

	if mediators := g.PathVariables(source, target); len(mediators) > 0 {
		suggestions = append(suggestions, evidence.ConditioningSet{
			Variables: keysOf(mediators),
			Rationale: fmt.Sprintf("variables on paths %s -> %s (potential mediators)", source.Name, target.Name),
			Priority:  "medium",
		})
	}

	if analyzer != nil {
		screened := analyzer.CorrelatedWithBoth(source, target, 0.3, 5)
		fresh := excludeSuggested(screened, suggestions)
		if len(fresh) > 0 {
			suggestions = append(suggestions, evidence.ConditioningSet{
				Variables: keysOf(fresh),
				Rationale: "correlated with both endpoints in the data",
				Priority:  "medium",
			})
		}
	}

	return suggestions
}

// conditioningFor picks the variables of the highest-priority suggestion
func conditioningFor(g *graph.CausalGraph, analyzer ports.EvidenceAnalyzer, source, target causal.Variable) []causal.Variable {
	suggestions := SuggestConditioningSets(g, analyzer, source, target)
	if len(suggestions) == 0 {
		return nil
	}
	best := suggestions[0]
	for _, s := range suggestions[1:] {
		if s.Priority == "high" && best.Priority != "high" {
			best = s
		}
	}
	out := make([]causal.Variable, 0, len(best.Variables))
	for _, key := range best.Variables {
		out = append(out, causal.NewVariable(string(key), ""))
	}
	return out
}

func keysOf(variables []causal.Variable) []core.VariableKey {
	keys := make([]core.VariableKey, len(variables))
	for i, v := range variables {
		keys[i] = v.Key()
	}
	return keys
}

func excludeSuggested(candidates []causal.Variable, suggestions []evidence.ConditioningSet) []causal.Variable {
	taken := map[string]bool{}
	for _, s := range suggestions {
		for _, key := range s.Variables {
			taken[strings.ToLower(string(key))] = true
		}
	}
	var out []causal.Variable
	for _, c := range candidates {
		if !taken[strings.ToLower(c.Name)] {
			out = append(out, c)
		}
	}
	return out
}

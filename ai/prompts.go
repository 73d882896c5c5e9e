package ai

import (
	"fmt"
	"strings"

	"gocausal/domain/causal"
	"gocausal/domain/graph"
)

func describeVariables(variables []causal.Variable) string {
	var lines []string
	for _, v := range variables {
		lines = append(lines, fmt.Sprintf("- %s: %s", v.Name, v.Description))
	}
	return strings.Join(lines, "\n")
}

// BuildRootPrompt asks the model to name variables with no cause inside the set
func BuildRootPrompt(variables []causal.Variable) string {
	return fmt.Sprintf(`You are a causal reasoning expert. Analyze these variables and identify which ones are ROOT CAUSES (not caused by any other variables in this set).

Variables:
%s

Think step-by-step:
1. For each variable, consider what could cause it
2. Check if potential causes are in the variable set
3. Only select variables with no causes in the set

Response format:
<reasoning>
[Your step-by-step analysis]
</reasoning>

<root_causes>
[Variable names only, one per line]
</root_causes>
`, describeVariables(variables))
}

// BuildExpansionPrompt asks for the direct effects of the current node among
// the not-yet-visited variables, with per-effect confidence and mechanism.
func BuildExpansionPrompt(node causal.Variable, g *graph.CausalGraph, remaining []causal.Variable) string {
	existing := g.EdgesSummary()
	if existing == "No edges yet" {
		existing = "None yet"
	}
	remainingDesc := describeVariables(remaining)
	if remainingDesc == "" {
		remainingDesc = "None"
	}

	return fmt.Sprintf(`Current causal graph construction state:

Current Node: %s
Description: %s

Already discovered relationships:
%s

Remaining variables to consider:
%s

Task: Determine which remaining variables are DIRECTLY caused by %s.

Consider:
1. Direct vs indirect effects (only include direct)
2. Temporal ordering (cause must precede effect)
3. Mechanism plausibility
4. Alternative explanations (common cause, reverse causation)

For each potential effect, provide:
- Variable name
- Confidence (0-1)
- Causal mechanism (brief)

Response format:
<analysis>
[Your reasoning for each variable]
</analysis>

<direct_effects>
Variable: [name]
Confidence: [0-1]
Mechanism: [brief explanation]
---
[Repeat for each direct effect]
</direct_effects>
`, node.Name, node.Description, existing, remainingDesc, node.Name)
}

// BuildConflictPrompt presents a deferred edge, the reason it was deferred,
// and the statistical narrative, and requests a structured reconsideration.
func BuildConflictPrompt(edge causal.CausalEdge, conflictReason, statisticalEvidence string, g *graph.CausalGraph) string {
	return fmt.Sprintf(`You previously suggested a causal relationship with confidence %.2f:
%s -> %s

Your reasoning: %s

However, there is a conflict: %s

Statistical Evidence:
%s

Current graph structure:
%s

Please reconsider this relationship. Provide:

1. DECISION: Should this edge be:
   - ADDED (you're confident despite statistical noise)
   - REJECTED (statistical evidence convincingly refutes it)
   - MODIFIED (different relationship, e.g., reverse direction or mediated)

2. REVISED CONFIDENCE (0-1): Your updated confidence

3. EXPLANATION: Reconcile your domain knowledge with statistical evidence
   - If ADDED: Why statistical evidence is misleading or incomplete
   - If REJECTED: What you initially overlooked
   - If MODIFIED: What the actual relationship is

4. ALTERNATIVE HYPOTHESIS (if any):
   - Could there be a confounder?
   - Is the relationship indirect?
   - Is there reverse causation?

Response format:
<decision>ADD|REJECT|MODIFY</decision>
<confidence>0.XX</confidence>
<explanation>
[Your detailed reasoning]
</explanation>
<alternative>
[If applicable, alternative causal structure]
</alternative>
`, edge.Confidence, edge.Source.Name, edge.Target.Name, edge.Mechanism, conflictReason, statisticalEvidence, g.Summarize())
}

// BuildPlausibilityPrompt asks the model to rate a causal chain in [0,1]
func BuildPlausibilityPrompt(path []causal.Variable) string {
	names := make([]string, len(path))
	for i, v := range path {
		names[i] = v.Name
	}
	return fmt.Sprintf(`The discovered causal graph implies this causal chain:
%s

Descriptions:
%s

Does this causal chain make logical sense?
- Consider: temporal ordering, mechanism plausibility, domain knowledge
- Rate plausibility: 0-1
- If implausible (< 0.5), explain why

<plausibility>0.XX</plausibility>
<reasoning>...</reasoning>
`, strings.Join(names, " -> "), describeVariables(path))
}

// BuildExplainPrompt requests a detailed tagged explanation of one edge
func BuildExplainPrompt(edge causal.CausalEdge) string {
	return fmt.Sprintf(`Explain the causal relationship: %s -> %s

Variable Descriptions:
%s: %s
%s: %s

Provide:
1. Causal mechanism (how does source affect target?)
2. Time scale (immediate, short-term, long-term?)
3. Nature (linear, threshold, complex?)
4. Potential confounders
5. Boundary conditions (when does this hold?)
6. Confidence level (1-5) with justification

Format your response as:
<mechanism>...</mechanism>
<time_scale>...</time_scale>
<nature>...</nature>
<confounders>...</confounders>
<boundary_conditions>...</boundary_conditions>
<confidence>...</confidence>
<justification>...</justification>
`, edge.Source.Name, edge.Target.Name, edge.Source.Name, edge.Source.Description, edge.Target.Name, edge.Target.Description)
}

// BuildGraphExplanationPrompt requests a narrative account of the final graph
func BuildGraphExplanationPrompt(g *graph.CausalGraph) string {
	names := make([]string, 0)
	for _, v := range g.AllVariables() {
		names = append(names, v.Name)
	}
	return fmt.Sprintf(`Generate a comprehensive explanation of this causal graph:

Variables: %s

Edges:
%s

Provide:
1. Overall structure summary
2. Key causal pathways
3. Root causes and ultimate effects
4. Any interesting patterns or insights
5. Caveats and uncertainties

Write in clear, accessible language suitable for a general audience.
`, strings.Join(names, ", "), g.FormatEdgesWithConfidence())
}

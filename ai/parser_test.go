package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocausal/domain/causal"
)

var testVars = []causal.Variable{
	causal.NewVariable("Smoking", "cigarettes per day"),
	causal.NewVariable("Exercise", "hours per week"),
	causal.NewVariable("BMI", "body mass index"),
}

func TestParseRootNames(t *testing.T) {
	response := `<reasoning>
Smoking and Exercise are lifestyle choices, while BMI is an outcome.
</reasoning>

<root_causes>
- Smoking
- exercise
- Cholesterol
</root_causes>`

	roots := ParseRootNames(response, testVars)
	assert.Len(t, roots, 2, "unknown variables are dropped, matching is case-insensitive")
	assert.Equal(t, "Smoking", roots[0].Name)
	assert.Equal(t, "Exercise", roots[1].Name)
}

func TestParseRootNamesMissingSection(t *testing.T) {
	assert.Nil(t, ParseRootNames("no tags here", testVars))
}

func TestParseEdgeProposals(t *testing.T) {
	response := `<analysis>thinking...</analysis>

<direct_effects>
Variable: BMI
Confidence: 0.8
Mechanism: nicotine suppresses appetite
---
Variable: Exercise
Mechanism: smokers exercise less
---
Variable: Unknown
Confidence: 0.9
</direct_effects>`

	proposals := ParseEdgeProposals(response, testVars)
	assert.Len(t, proposals, 2)
	assert.Equal(t, "BMI", proposals[0].Target.Name)
	assert.InDelta(t, 0.8, proposals[0].Confidence, 1e-9)
	assert.Equal(t, "nicotine suppresses appetite", proposals[0].Mechanism)
	assert.InDelta(t, 0.3, proposals[1].Confidence, 1e-9, "missing confidence defaults to 0.3")
}

func TestParseEdgeProposalsClampsConfidence(t *testing.T) {
	response := `<direct_effects>
Variable: BMI
Confidence: 1.7
</direct_effects>`

	proposals := ParseEdgeProposals(response, testVars)
	assert.Len(t, proposals, 1)
	assert.Equal(t, 1.0, proposals[0].Confidence)
}

func TestParseResolution(t *testing.T) {
	response := `<decision>ADD</decision>
<confidence>0.72</confidence>
<explanation>The statistical sample is too small.</explanation>
<alternative></alternative>`

	decision, conf, explanation, alternative := ParseResolution(response)
	assert.Equal(t, causal.ResolutionAdd, decision)
	assert.InDelta(t, 0.72, conf, 1e-9)
	assert.Equal(t, "The statistical sample is too small.", explanation)
	assert.Empty(t, alternative)
}

func TestParseResolutionModifyBecomesAdd(t *testing.T) {
	response := `<decision>MODIFY</decision>
<confidence>0.5</confidence>
<explanation>mediated</explanation>
<alternative>Smoking -> Exercise -> BMI</alternative>`

	decision, _, _, alternative := ParseResolution(response)
	assert.Equal(t, causal.ResolutionAdd, decision)
	assert.Equal(t, "Smoking -> Exercise -> BMI", alternative)
}

func TestParseResolutionGarbageIsReject(t *testing.T) {
	decision, conf, _, _ := ParseResolution("the model rambled with no tags")
	assert.Equal(t, causal.ResolutionReject, decision)
	assert.Equal(t, 0.0, conf)
}

func TestParsePlausibility(t *testing.T) {
	score, reasoning := ParsePlausibility("<plausibility>0.85</plausibility>\n<reasoning>makes sense</reasoning>")
	assert.InDelta(t, 0.85, score, 1e-9)
	assert.Equal(t, "makes sense", reasoning)

	score, _ = ParsePlausibility("no tags")
	assert.InDelta(t, 0.5, score, 1e-9, "missing score is the neutral midpoint")
}

func TestParseExplanation(t *testing.T) {
	response := `<mechanism>nicotine effect</mechanism>
<time_scale>long-term</time_scale>
<nature>roughly linear</nature>
<confounders>
- socioeconomic status
- age
</confounders>
<boundary_conditions>adults only</boundary_conditions>
<confidence>4</confidence>
<justification>well studied</justification>`

	exp := ParseExplanation(response)
	assert.Equal(t, "nicotine effect", exp.Mechanism)
	assert.Equal(t, 4, exp.ConfidenceLevel)
	assert.Equal(t, []string{"socioeconomic status", "age"}, exp.PotentialConfounders)
}

func TestParseExplanationDefaultsConfidenceLevel(t *testing.T) {
	exp := ParseExplanation("<mechanism>m</mechanism><confidence>nine</confidence>")
	assert.Equal(t, 3, exp.ConfidenceLevel)
}

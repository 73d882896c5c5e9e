package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocausal/domain/causal"
	"gocausal/domain/graph"
	"gocausal/internal/testkit"
)

func extractorConfig(nSamples int) causal.DiscoveryConfig {
	cfg := causal.DefaultDiscoveryConfig()
	cfg.NSamples = nSamples
	return cfg
}

func TestIdentifyRootCauses(t *testing.T) {
	client := testkit.NewScriptedClient().
		On("ROOT CAUSES", `<root_causes>
Smoking
Exercise
</root_causes>`)

	extractor := NewKnowledgeExtractor(client, extractorConfig(3))
	roots, err := extractor.IdentifyRootCauses(context.Background(), testVars)
	require.NoError(t, err)

	assert.Len(t, roots, 2)
	assert.Equal(t, "Smoking", roots[0].Variable.Name)
	assert.InDelta(t, 1.0, roots[0].Confidence, 1e-9, "unanimous agreement scores 1.0")
	assert.Equal(t, 3, client.CallCount(), "one completion per sample")
}

func TestIdentifyRootCausesAllSamplesFail(t *testing.T) {
	client := testkit.NewScriptedClient() // no rules, no default: every call errors

	extractor := NewKnowledgeExtractor(client, extractorConfig(3))
	_, err := extractor.IdentifyRootCauses(context.Background(), testVars)
	assert.Error(t, err)
}

func TestGetCausalRelationshipsSkipsVisited(t *testing.T) {
	client := testkit.NewScriptedClient().
		On("DIRECTLY caused", `<direct_effects>
Variable: BMI
Confidence: 0.8
Mechanism: appetite suppression
</direct_effects>`)

	extractor := NewKnowledgeExtractor(client, extractorConfig(1))
	g := graph.New()
	g.MarkVisited(testVars[1]) // Exercise already expanded

	edges, err := extractor.GetCausalRelationships(context.Background(), testVars[0], g, testVars)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "BMI", edges[0].Target.Name)

	prompt := client.Calls()[0]
	assert.NotContains(t, prompt, "Exercise: ", "visited variables stay out of the remaining list")
}

func TestGetCausalRelationshipsNoRemaining(t *testing.T) {
	client := testkit.NewScriptedClient()
	extractor := NewKnowledgeExtractor(client, extractorConfig(1))

	g := graph.New()
	for _, v := range testVars {
		g.MarkVisited(v)
	}

	edges, err := extractor.GetCausalRelationships(context.Background(), testVars[0], g, testVars)
	require.NoError(t, err)
	assert.Empty(t, edges)
	assert.Zero(t, client.CallCount(), "no candidates means no completion")
}

func TestAssessPlausibilityFailureIsNeutral(t *testing.T) {
	client := testkit.NewScriptedClient()
	extractor := NewKnowledgeExtractor(client, extractorConfig(1))

	score, reasoning := extractor.AssessPlausibility(context.Background(), testVars)
	assert.InDelta(t, 0.5, score, 1e-9)
	assert.NotEmpty(t, reasoning)
}

func TestSelfConsistencyMajorityAcrossSamples(t *testing.T) {
	// 5 samples: 3 propose the edge, 2 return nothing usable
	client := testkit.NewScriptedClient().
		On("DIRECTLY caused",
			`<direct_effects>
Variable: BMI
Confidence: 0.9
Mechanism: m
</direct_effects>`,
			`<direct_effects>
Variable: BMI
Confidence: 0.7
Mechanism: m
</direct_effects>`,
			`<direct_effects>
Variable: BMI
Confidence: 0.8
Mechanism: m
</direct_effects>`,
			`no structured answer`,
			`no structured answer`,
		)

	extractor := NewKnowledgeExtractor(client, extractorConfig(5))
	g := graph.New()
	edges, err := extractor.GetCausalRelationships(context.Background(), testVars[0], g, testVars)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	// frequency 3/5 = 0.6, mean confidence 0.8, combined (0.6+0.8)/2 = 0.7
	assert.InDelta(t, 0.7, edges[0].Confidence, 1e-9)
}

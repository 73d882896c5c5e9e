package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocausal/domain/causal"
	"gocausal/domain/evidence"
	"gocausal/domain/graph"
	"gocausal/internal/testkit"
)

func TestResolveConflictsAdd(t *testing.T) {
	client := testkit.NewScriptedClient().
		On("Please reconsider", `<decision>ADD</decision>
<confidence>0.65</confidence>
<explanation>The correlation is attenuated by measurement noise.</explanation>
<alternative></alternative>`)

	resolver := NewConflictResolver(client, nil)
	g := graph.New()
	deferred := []causal.FlaggedEdge{{
		Edge:   causal.CausalEdge{Source: smoking, Target: bmi, Confidence: 0.5, Mechanism: "m"},
		Reason: "statistical evidence conflicts",
	}}

	resolutions := resolver.ResolveConflicts(context.Background(), g, deferred)
	require.Len(t, resolutions, 1)
	assert.Equal(t, causal.ResolutionAdd, resolutions[0].Decision)
	assert.InDelta(t, 0.65, resolutions[0].RevisedConfidence, 1e-9)

	g.ApplyResolutions(resolutions)
	assert.Equal(t, 1, g.NumEdges())
	assert.Empty(t, g.DeferredEdges())
}

func TestResolveConflictsFailureRejects(t *testing.T) {
	client := testkit.NewScriptedClient() // every completion fails

	resolver := NewConflictResolver(client, nil)
	g := graph.New()
	deferred := []causal.FlaggedEdge{{
		Edge:   causal.CausalEdge{Source: smoking, Target: bmi, Confidence: 0.5},
		Reason: "conflict",
	}}

	resolutions := resolver.ResolveConflicts(context.Background(), g, deferred)
	require.Len(t, resolutions, 1)
	assert.Equal(t, causal.ResolutionReject, resolutions[0].Decision)
	assert.Equal(t, 0.0, resolutions[0].RevisedConfidence)

	g.ApplyResolutions(resolutions)
	assert.Equal(t, 0, g.NumEdges())
	assert.Len(t, g.RejectedEdges(), 1)
}

func TestResolveConflictsAddCannotCreateCycle(t *testing.T) {
	client := testkit.NewScriptedClient().
		On("Please reconsider", `<decision>ADD</decision>
<confidence>0.9</confidence>
<explanation>confident</explanation>`)

	resolver := NewConflictResolver(client, nil)
	g := graph.New()
	g.AddEdge(bmi, smoking, 0.8, "", nil, "")

	deferred := []causal.FlaggedEdge{{
		Edge:   causal.CausalEdge{Source: smoking, Target: bmi, Confidence: 0.5},
		Reason: "conflict",
	}}

	resolutions := resolver.ResolveConflicts(context.Background(), g, deferred)
	require.Len(t, resolutions, 1)
	assert.Equal(t, causal.ResolutionReject, resolutions[0].Decision,
		"acyclicity overrides the model's verdict")
}

func TestResolveConflictsRendersEvidenceNarrative(t *testing.T) {
	client := testkit.NewScriptedClient().
		On("Please reconsider", `<decision>REJECT</decision>
<confidence>0.1</confidence>
<explanation>spurious</explanation>`)

	resolver := NewConflictResolver(client, nil)
	g := graph.New()
	deferred := []causal.FlaggedEdge{{
		Edge: causal.CausalEdge{
			Source:     smoking,
			Target:     bmi,
			Confidence: 0.5,
			Evidence: &evidence.Profile{
				Source:      smoking.Key(),
				Target:      bmi.Key(),
				Correlation: 0.02,
			},
		},
		Reason: "conflict",
	}}

	resolver.ResolveConflicts(context.Background(), g, deferred)
	require.Len(t, client.Calls(), 1)
	assert.Contains(t, client.Calls()[0], "Pearson correlation: 0.020")
}

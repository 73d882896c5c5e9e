package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocausal/ai"
	"gocausal/domain/causal"
	"gocausal/domain/evidence"
	"gocausal/domain/graph"
	"gocausal/internal/testkit"
	"gocausal/ports"
)

var (
	smoking  = causal.NewVariable("Smoking", "cigarettes per day")
	exercise = causal.NewVariable("Exercise", "hours per week")
	bmi      = causal.NewVariable("BMI", "body mass index")
	lifeVars = []causal.Variable{smoking, exercise, bmi}
)

func singleSampleConfig() causal.DiscoveryConfig {
	cfg := causal.DefaultDiscoveryConfig()
	cfg.NSamples = 1
	return cfg
}

// fakeAnalyzer returns a fixed profile for every pair
type fakeAnalyzer struct {
	profile    *evidence.Profile
	correlated []causal.Variable
	onProfile  func()
}

func (f *fakeAnalyzer) ComputeProfile(ctx context.Context, source, target causal.Variable, conditioning []causal.Variable) (*evidence.Profile, error) {
	if f.onProfile != nil {
		f.onProfile()
	}
	p := *f.profile
	p.Source = source.Key()
	p.Target = target.Key()
	return &p, nil
}

func (f *fakeAnalyzer) CorrelatedWithBoth(source, target causal.Variable, threshold float64, limit int) []causal.Variable {
	return f.correlated
}

var _ ports.EvidenceAnalyzer = (*fakeAnalyzer)(nil)

func TestBuildLifestyleScenario(t *testing.T) {
	client := testkit.NewScriptedClient().
		On("ROOT CAUSES", `<root_causes>
Smoking
Exercise
</root_causes>`).
		On("caused by Smoking", `<direct_effects>
Variable: BMI
Confidence: 0.8
Mechanism: nicotine suppresses appetite
</direct_effects>`).
		On("caused by Exercise", `<direct_effects>
Variable: BMI
Confidence: 0.6
Mechanism: energy expenditure
</direct_effects>`).
		Default("no structured answer")

	cfg := singleSampleConfig()
	builder := NewGraphBuilder(ai.NewKnowledgeExtractor(client, cfg), nil, cfg)

	g, err := builder.Build(context.Background(), lifeVars)
	require.NoError(t, err)

	assert.Len(t, g.Roots(), 2)
	assert.Equal(t, 2, g.NumEdges())
	// each edge's confidence is (frequency + elicited)/2 with one sample
	assert.InDelta(t, 0.85, g.AverageConfidence(), 1e-9)

	parents := g.Parents(bmi)
	require.Len(t, parents, 2)
	assert.True(t, g.IsRoot(smoking))
	assert.True(t, g.IsRoot(exercise))
	assert.False(t, g.IsRoot(bmi))
}

func TestBuildVisitedFilterPreventsBackEdges(t *testing.T) {
	a := causal.NewVariable("A", "first")
	b := causal.NewVariable("B", "second")

	client := testkit.NewScriptedClient().
		On("ROOT CAUSES", `<root_causes>
A
</root_causes>`).
		On("caused by A", `<direct_effects>
Variable: B
Confidence: 0.9
Mechanism: forward
</direct_effects>`).
		On("caused by B", `<direct_effects>
Variable: A
Confidence: 0.9
Mechanism: backward
</direct_effects>`).
		Default("no structured answer")

	cfg := singleSampleConfig()
	builder := NewGraphBuilder(ai.NewKnowledgeExtractor(client, cfg), nil, cfg)

	g, err := builder.Build(context.Background(), []causal.Variable{a, b})
	require.NoError(t, err)

	assert.Equal(t, 1, g.NumEdges(), "only the forward edge survives")

	// B's remaining set excludes the visited A, so the reverse proposal is
	// filtered before evaluation and nothing lands in rejected. The
	// accepted relation stays acyclic either way.
	assert.False(t, g.HasPath(b, a))
}

func TestBuildDefersLowCombinedConfidence(t *testing.T) {
	client := testkit.NewScriptedClient().
		On("ROOT CAUSES", `<root_causes>
Smoking
</root_causes>`).
		On("caused by Smoking", `<direct_effects>
Variable: BMI
Confidence: 0.2
Mechanism: weak hunch
</direct_effects>`).
		Default("no structured answer")

	cfg := singleSampleConfig()
	builder := NewGraphBuilder(ai.NewKnowledgeExtractor(client, cfg), nil, cfg)

	g, err := builder.Build(context.Background(), lifeVars)
	require.NoError(t, err)

	// aggregated confidence (1.0 + 0.2)/2 = 0.6, not above the threshold
	assert.Equal(t, 0, g.NumEdges())
	require.Len(t, g.DeferredEdges(), 1)
	assert.Contains(t, g.DeferredEdges()[0].Reason, "combined confidence too low")
}

func TestBuildFallsBackWithoutRoots(t *testing.T) {
	client := testkit.NewScriptedClient().Default("no structured answer")

	cfg := singleSampleConfig()
	builder := NewGraphBuilder(ai.NewKnowledgeExtractor(client, cfg), nil, cfg)

	g, err := builder.Build(context.Background(), lifeVars)
	require.NoError(t, err)

	// the first two variables become fallback roots and get expanded
	require.Len(t, g.Roots(), 2)
	assert.True(t, g.IsRoot(smoking))
	assert.True(t, g.IsRoot(exercise))
	assert.Contains(t, g.RootReasoning(smoking), "Fallback")
	assert.Equal(t, 0, g.NumEdges())
	assert.True(t, g.IsVisited(smoking))
	assert.True(t, g.IsVisited(exercise))
	assert.False(t, g.IsVisited(bmi))
}

func TestEvaluateEdgeBlendsStatisticalSupport(t *testing.T) {
	analyzer := &fakeAnalyzer{profile: &evidence.Profile{
		Correlation: 0.6, // bucket 0.7
		Granger:     &evidence.GrangerResult{ForwardPValues: []float64{0.01}, ForwardSignificant: true}, // bucket 0.8
		Effect:      &evidence.InterventionEffect{Coefficient: 0.7, PValue: 0.001},                      // bucket 0.7
	}}

	cfg := singleSampleConfig()
	builder := NewGraphBuilder(nil, analyzer, cfg)

	g := graph.New()
	proposal := causal.CausalEdge{Source: smoking, Target: bmi, Confidence: 0.9, Mechanism: "m"}
	decision := builder.evaluateEdge(context.Background(), g, proposal)

	require.Equal(t, causal.ActionAdd, decision.Action)
	// 0.6*0.9 + 0.4*mean(0.7, 0.8, 0.7)
	expected := 0.6*0.9 + 0.4*(0.7+0.8+0.7)/3
	assert.InDelta(t, expected, decision.Confidence, 1e-9)
	require.NotNil(t, decision.Edge.StatisticalSupport)
	assert.InDelta(t, (0.7+0.8+0.7)/3, *decision.Edge.StatisticalSupport, 1e-9)
}

func TestEvaluateEdgeDefersOnStrongConflict(t *testing.T) {
	analyzer := &fakeAnalyzer{profile: &evidence.Profile{
		Correlation:      0.5,
		CondIndependence: &evidence.ConditionalIndependenceTest{Independent: true, PValue: 0.4},
	}}

	cfg := singleSampleConfig()
	builder := NewGraphBuilder(nil, analyzer, cfg)

	g := graph.New()
	proposal := causal.CausalEdge{Source: smoking, Target: bmi, Confidence: 0.95, Mechanism: "m"}
	decision := builder.evaluateEdge(context.Background(), g, proposal)

	assert.Equal(t, causal.ActionDefer, decision.Action)
	assert.Contains(t, decision.Reason, "conditionally independent")
	assert.NotNil(t, decision.Evidence)
}

func TestEvaluateEdgeRejectsCycleBeforeAnythingElse(t *testing.T) {
	cfg := singleSampleConfig()
	builder := NewGraphBuilder(nil, nil, cfg)

	g := graph.New()
	g.AddEdge(bmi, smoking, 0.9, "", nil, "")

	proposal := causal.CausalEdge{Source: smoking, Target: bmi, Confidence: 0.95}
	decision := builder.evaluateEdge(context.Background(), g, proposal)

	assert.Equal(t, causal.ActionReject, decision.Action)
	assert.Equal(t, 1.0, decision.Confidence)
	assert.Contains(t, decision.Reason, "cycle")
}

func TestEvaluateEdgeDefersLowElicitedConfidence(t *testing.T) {
	cfg := singleSampleConfig()
	builder := NewGraphBuilder(nil, nil, cfg)

	proposal := causal.CausalEdge{Source: smoking, Target: bmi, Confidence: 0.25}
	decision := builder.evaluateEdge(context.Background(), graph.New(), proposal)

	assert.Equal(t, causal.ActionDefer, decision.Action)
	assert.Contains(t, decision.Reason, "low llm confidence")
}

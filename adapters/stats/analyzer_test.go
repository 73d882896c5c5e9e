package stats

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocausal/domain/causal"
	"gocausal/domain/dataset"
	"gocausal/internal/testkit"
)

func semTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := testkit.NewSEMGenerator(testkit.DefaultSEMConfig()).Generate()
	require.NoError(t, err)
	return table
}

func TestPearsonKnownValues(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, pearson(x, []float64{2, 4, 6, 8, 10}), 1e-9)
	assert.InDelta(t, -1.0, pearson(x, []float64{10, 8, 6, 4, 2}), 1e-9)
	assert.Equal(t, 0.0, pearson(x, []float64{3, 3, 3, 3, 3}), "zero variance is undefined, reported as 0")
	assert.Equal(t, 0.0, pearson([]float64{1, 2}, []float64{1, 2}), "too few points")
}

func TestSpearmanMonotoneNonlinear(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = math.Exp(v)
	}
	assert.InDelta(t, 1.0, spearman(x, y), 1e-9, "rank correlation is 1 for any monotone map")
}

func TestRanksWithTies(t *testing.T) {
	got := ranks([]float64{10, 20, 20, 30})
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, got)
}

func TestComputeProfileMissingColumn(t *testing.T) {
	table := semTable(t)
	analyzer := NewAnalyzer(table, 0.05)

	profile, err := analyzer.ComputeProfile(context.Background(),
		causal.NewVariable("Smoking", ""), causal.NewVariable("Cholesterol", ""), nil)
	require.NoError(t, err, "missing columns must not fail the call")
	assert.Equal(t, 0.0, profile.Correlation)
	assert.Nil(t, profile.Effect)
	assert.Equal(t, "Smoking", string(profile.Source))
}

func TestComputeProfileRecoversStructure(t *testing.T) {
	table := semTable(t)
	analyzer := NewAnalyzer(table, 0.05)

	profile, err := analyzer.ComputeProfile(context.Background(),
		causal.NewVariable("Smoking", ""), causal.NewVariable("BMI", ""), nil)
	require.NoError(t, err)

	// BMI = 0.8*Smoking - 0.6*Exercise + noise, so the marginal
	// correlation and regression slope are clearly positive
	assert.Greater(t, profile.Correlation, 0.4)
	assert.Greater(t, profile.RankCorrelation, 0.4)
	require.NotNil(t, profile.Effect)
	assert.InDelta(t, 0.8, profile.Effect.Coefficient, 0.2)
	assert.Less(t, profile.Effect.PValue, 0.05)
	require.NotNil(t, profile.SourceDist)
	assert.Equal(t, "normal", profile.SourceDist.DistributionType)
	assert.NotNil(t, profile.MutualInfo)
	assert.NotNil(t, profile.DistanceCorr)
}

func TestComputeProfileConditioning(t *testing.T) {
	table := semTable(t)
	analyzer := NewAnalyzer(table, 0.05)

	// conditioning on Exercise must not kill the Smoking -> BMI link
	profile, err := analyzer.ComputeProfile(context.Background(),
		causal.NewVariable("Smoking", ""), causal.NewVariable("BMI", ""),
		[]causal.Variable{causal.NewVariable("Exercise", "")})
	require.NoError(t, err)

	require.NotNil(t, profile.PartialCorr)
	assert.Greater(t, *profile.PartialCorr, 0.4)
	require.NotNil(t, profile.CondIndependence)
	assert.False(t, profile.CondIndependence.Independent)
	assert.Less(t, profile.CondIndependence.PValue, 0.05)
}

func TestIndependenceDetectedForUnrelatedVariables(t *testing.T) {
	// Smoking and Exercise are independent exogenous variables; BMI is a
	// collider between them, so marginally they are uncorrelated
	table := semTable(t)
	analyzer := NewAnalyzer(table, 0.05)

	profile, err := analyzer.ComputeProfile(context.Background(),
		causal.NewVariable("Smoking", ""), causal.NewVariable("Exercise", ""), nil)
	require.NoError(t, err)
	assert.Less(t, math.Abs(profile.Correlation), 0.2)
}

func TestGrangerRecognizesTemporalChain(t *testing.T) {
	cfg := testkit.DefaultSEMConfig()
	cfg.SampleCount = 300
	table, err := testkit.NewSEMGenerator(cfg).GenerateChain()
	require.NoError(t, err)

	analyzer := NewAnalyzer(table, 0.05)
	profile, err := analyzer.ComputeProfile(context.Background(),
		causal.NewVariable("X", ""), causal.NewVariable("Y", ""), nil)
	require.NoError(t, err)

	require.NotNil(t, profile.Granger, "300 rows is enough for temporal analysis")
	assert.True(t, profile.Granger.ForwardSignificant, "Y follows X by one step")
	assert.NotEmpty(t, profile.LaggedCorr)
}

func TestCorrelatedWithBoth(t *testing.T) {
	table := semTable(t)
	analyzer := NewAnalyzer(table, 0.05)

	// BMI correlates with both of its causes, so it is the only
	// conditioning candidate for the Smoking-Exercise pair
	candidates := analyzer.CorrelatedWithBoth(
		causal.NewVariable("Smoking", ""), causal.NewVariable("Exercise", ""), 0.3, 3)
	require.Len(t, candidates, 1)
	assert.Equal(t, "BMI", candidates[0].Name)

	none := analyzer.CorrelatedWithBoth(
		causal.NewVariable("Smoking", ""), causal.NewVariable("BMI", ""), 0.99, 3)
	assert.Empty(t, none)
}

func TestNewAnalyzerClampsAlpha(t *testing.T) {
	table := semTable(t)
	analyzer := NewAnalyzer(table, -1)
	assert.InDelta(t, 0.05, analyzer.alpha, 1e-9)
}

// Package evidence holds the statistical evidence model for a variable pair:
// the profile computed from observational data and the compatibility signals
// derived from it.
package evidence

import (
	"fmt"

	"gocausal/domain/core"
)

// GrangerResult captures a temporal-precedence test for both directions
type GrangerResult struct {
	ForwardPValues     []float64 `json:"forward_pvalues"`
	ReversePValues     []float64 `json:"reverse_pvalues"`
	OptimalLag         int       `json:"optimal_lag"`
	ForwardSignificant bool      `json:"forward_significant"`
	ReverseDirection   bool      `json:"reverse_direction"`
}

// Summary reports the best p-value in each direction
func (g GrangerResult) Summary() string {
	return fmt.Sprintf("Forward: p=%.4f, Reverse: p=%.4f", minFloat(g.ForwardPValues), minFloat(g.ReversePValues))
}

// MinForwardP returns the smallest forward p-value, 1.0 if none
func (g GrangerResult) MinForwardP() float64 { return minFloat(g.ForwardPValues) }

// MinReverseP returns the smallest reverse p-value, 1.0 if none
func (g GrangerResult) MinReverseP() float64 { return minFloat(g.ReversePValues) }

func minFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 1.0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// InterventionEffect is a regression-based estimate of the causal effect
type InterventionEffect struct {
	Coefficient float64 `json:"coefficient"`
	CILower     float64 `json:"ci_lower"`
	CIUpper     float64 `json:"ci_upper"`
	PValue      float64 `json:"p_value"`
}

// DistributionAnalysis summarizes a variable's marginal distribution
type DistributionAnalysis struct {
	Mean             float64 `json:"mean"`
	Std              float64 `json:"std"`
	Skewness         float64 `json:"skewness"`
	Kurtosis         float64 `json:"kurtosis"`
	DistributionType string  `json:"distribution_type"` // normal, right_skewed, left_skewed, other, unknown
}

// ConditionalIndependenceTest is the outcome of a partial-correlation based
// independence test given a conditioning set.
type ConditionalIndependenceTest struct {
	Independent   bool    `json:"independent"`
	PValue        float64 `json:"p_value"`
	TestStatistic float64 `json:"test_statistic"`
	Summary       string  `json:"summary"`
}

// LagCorrelation is the cross-correlation at one lag
type LagCorrelation struct {
	Lag         int     `json:"lag"`
	Correlation float64 `json:"correlation"`
}

// Profile bundles every statistical measure computed for one variable pair
// (and optional conditioning set). A value object: computed on demand, never
// persisted on the graph. Fields the data could not support stay nil/zero.
type Profile struct {
	Source core.VariableKey `json:"source"`
	Target core.VariableKey `json:"target"`

	Correlation     float64  `json:"correlation"`
	RankCorrelation float64  `json:"rank_correlation"`
	PartialCorr     *float64 `json:"partial_correlation,omitempty"`

	CondIndependence *ConditionalIndependenceTest `json:"cond_independence_test,omitempty"`
	MutualInfo       *float64                     `json:"mutual_information,omitempty"`
	Granger          *GrangerResult               `json:"granger_causality,omitempty"`
	LaggedCorr       []LagCorrelation             `json:"time_lagged_correlation,omitempty"`
	DistanceCorr     *float64                     `json:"dcor,omitempty"`

	SourceDist   *DistributionAnalysis `json:"source_dist,omitempty"`
	TargetDist   *DistributionAnalysis `json:"target_dist,omitempty"`
	JointPattern string                `json:"joint_pattern,omitempty"` // strong_linear, moderate_linear, weak_or_nonlinear

	Effect *InterventionEffect `json:"intervention_effect,omitempty"`
}

// ConditioningSet is a suggested set of variables to hold fixed when
// testing independence between two others.
type ConditioningSet struct {
	Variables []core.VariableKey `json:"variables"`
	Rationale string             `json:"rationale"`
	Priority  string             `json:"priority"` // high, medium
}

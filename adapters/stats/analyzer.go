// Package stats implements the evidence analyzer over an observational
// table. Every sub-statistic degrades independently: what the data cannot
// support stays absent on the profile, and missing columns never fail the
// call.
package stats

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gocausal/domain/causal"
	"gocausal/domain/dataset"
	"gocausal/domain/evidence"
)

// Analyzer computes evidence profiles from an observational table
type Analyzer struct {
	table *dataset.Table
	alpha float64
}

// NewAnalyzer creates an analyzer over the given data. alpha is the
// significance level for hypothesis tests.
func NewAnalyzer(table *dataset.Table, alpha float64) *Analyzer {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}
	return &Analyzer{table: table, alpha: alpha}
}

// ComputeProfile computes the full evidence bundle for source -> target.
// Missing columns return a partially-populated profile, not an error.
func (a *Analyzer) ComputeProfile(ctx context.Context, source, target causal.Variable, conditioning []causal.Variable) (*evidence.Profile, error) {
	profile := &evidence.Profile{Source: source.Key(), Target: target.Key()}

	if !a.table.HasColumn(source.Name) || !a.table.HasColumn(target.Name) {
		return profile, nil
	}

	x, y, _ := a.table.PairedColumns(source.Name, target.Name)

	profile.Correlation = pearson(x, y)
	profile.RankCorrelation = spearman(x, y)

	if len(conditioning) > 0 {
		if pc, ok := a.partialCorrelation(source, target, conditioning); ok {
			profile.PartialCorr = &pc
			test := a.independenceTest(pc, len(conditioning))
			profile.CondIndependence = &test
		}
	}

	if mi, ok := mutualInformation(x, y); ok {
		profile.MutualInfo = &mi
	}

	if a.hasTemporalStructure() {
		if granger, ok := a.grangerTest(x, y); ok {
			profile.Granger = granger
		}
		profile.LaggedCorr = crossCorrelation(x, y, 10)
	}

	if dc, ok := distanceCorrelation(x, y); ok {
		profile.DistanceCorr = &dc
	}

	profile.SourceDist = analyzeDistribution(x)
	profile.TargetDist = analyzeDistribution(y)
	profile.JointPattern = jointPattern(profile.Correlation)

	if effect, ok := estimateInterventionEffect(x, y); ok {
		profile.Effect = effect
	}

	return profile, nil
}

// CorrelatedWithBoth finds variables whose absolute correlation with both
// endpoints exceeds the threshold, in column order, capped at limit.
func (a *Analyzer) CorrelatedWithBoth(source, target causal.Variable, threshold float64, limit int) []causal.Variable {
	var out []causal.Variable
	for _, col := range a.table.Columns() {
		if col == source.Name || col == target.Name {
			continue
		}
		x1, y1, ok := a.table.PairedColumns(col, source.Name)
		if !ok {
			continue
		}
		x2, y2, ok := a.table.PairedColumns(col, target.Name)
		if !ok {
			continue
		}
		if math.Abs(pearson(x1, y1)) > threshold && math.Abs(pearson(x2, y2)) > threshold {
			out = append(out, causal.NewVariable(col, ""))
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// partialCorrelation is the correlation of residuals after regressing both
// endpoints on the conditioning set.
func (a *Analyzer) partialCorrelation(source, target causal.Variable, conditioning []causal.Variable) (float64, bool) {
	names := []string{source.Name, target.Name}
	for _, c := range conditioning {
		names = append(names, c.Name)
	}
	cols, ok := a.table.CompleteRows(names)
	if !ok || len(cols[0]) < len(conditioning)+4 {
		return 0, false
	}

	x, y, z := cols[0], cols[1], cols[2:]
	_, _, residX, errX := olsFit(x, z)
	_, _, residY, errY := olsFit(y, z)
	if errX != nil || errY != nil {
		return 0, false
	}
	pc := pearson(residX, residY)
	if math.IsNaN(pc) {
		return 0, false
	}
	return pc, true
}

// independenceTest applies Fisher's z-transformation to a partial
// correlation. Independent iff the two-tailed p-value exceeds alpha.
func (a *Analyzer) independenceTest(partialCorr float64, k int) evidence.ConditionalIndependenceTest {
	n := a.table.NumRows()
	if n-k-3 <= 0 || math.Abs(partialCorr) >= 1 {
		return evidence.ConditionalIndependenceTest{
			Independent: false, PValue: 1.0, TestStatistic: 0.0, Summary: "Test failed",
		}
	}

	z := 0.5 * math.Log((1+partialCorr)/(1-partialCorr))
	se := 1.0 / math.Sqrt(float64(n-k-3))
	testStat := z / se
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	pValue := 2 * (1 - normal.CDF(math.Abs(testStat)))

	verdict := "dependent"
	independent := pValue > a.alpha
	if independent {
		verdict = "independent"
	}
	return evidence.ConditionalIndependenceTest{
		Independent:   independent,
		PValue:        pValue,
		TestStatistic: testStat,
		Summary:       summaryLine(pValue, verdict),
	}
}

func summaryLine(p float64, verdict string) string {
	return fmt.Sprintf("p=%.4f, %s", p, verdict)
}

// pearson returns the Pearson correlation, 0.0 when undefined
func pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 3 {
		return 0.0
	}
	r, err := stats.Pearson(x, y)
	if err != nil || math.IsNaN(r) {
		return 0.0
	}
	return r
}

// spearman is the Pearson correlation of average ranks, 0.0 when undefined
func spearman(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 3 {
		return 0.0
	}
	return pearson(ranks(x), ranks(y))
}

// ranks assigns average ranks, sharing the mean rank across ties
func ranks(data []float64) []float64 {
	n := len(data)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	out := make([]float64, n)
	i := 0
	for i < n {
		j := i
		for j+1 < n && data[idx[j+1]] == data[idx[i]] {
			j++
		}
		avgRank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avgRank
		}
		i = j + 1
	}
	return out
}

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gocausal/domain/evidence"
)

// hasTemporalStructure is the heuristic gate for temporal tests: rows are
// assumed to be in observation order when there are enough of them.
func (a *Analyzer) hasTemporalStructure() bool {
	return a.table.NumRows() > 20
}

// grangerTest tests whether lagged values of x improve the prediction of y
// beyond y's own lags, at every lag up to min(10, n/10), and likewise for
// the reverse direction.
func (a *Analyzer) grangerTest(x, y []float64) (*evidence.GrangerResult, bool) {
	n := len(x)
	if n < 20 {
		return nil, false
	}
	maxLag := n / 10
	if maxLag > 10 {
		maxLag = 10
	}
	if maxLag < 2 {
		return nil, false
	}

	forward := grangerPValues(x, y, maxLag)
	reverse := grangerPValues(y, x, maxLag)
	if len(forward) == 0 || len(reverse) == 0 {
		return nil, false
	}

	optimalLag := 1
	best := forward[0]
	for i, p := range forward {
		if p < best {
			best = p
			optimalLag = i + 1
		}
	}

	return &evidence.GrangerResult{
		ForwardPValues:     forward,
		ReversePValues:     reverse,
		OptimalLag:         optimalLag,
		ForwardSignificant: minOf(forward) < a.alpha,
		ReverseDirection:   minOf(reverse) < a.alpha,
	}, true
}

// grangerPValues returns the F-test p-value for "x Granger-causes y" at
// each lag 1..maxLag. Lags that cannot be fit are reported as p=1.
func grangerPValues(x, y []float64, maxLag int) []float64 {
	pvalues := make([]float64, 0, maxLag)
	for lag := 1; lag <= maxLag; lag++ {
		pvalues = append(pvalues, grangerPValueAtLag(x, y, lag))
	}
	return pvalues
}

func grangerPValueAtLag(x, y []float64, lag int) float64 {
	n := len(y) - lag
	params := 2*lag + 1
	if n <= params+1 {
		return 1.0
	}

	response := y[lag:]
	yLags := make([][]float64, lag)
	xLags := make([][]float64, lag)
	for l := 1; l <= lag; l++ {
		yLags[l-1] = y[lag-l : len(y)-l]
		xLags[l-1] = x[lag-l : len(x)-l]
	}

	_, _, restrictedResid, err := olsFit(response, yLags)
	if err != nil {
		return 1.0
	}
	unrestricted := append(append([][]float64{}, yLags...), xLags...)
	_, _, unrestrictedResid, err := olsFit(response, unrestricted)
	if err != nil {
		return 1.0
	}

	rssR := rss(restrictedResid)
	rssU := rss(unrestrictedResid)
	df2 := float64(n - params)
	if rssU <= 0 || df2 <= 0 {
		return 1.0
	}

	f := ((rssR - rssU) / float64(lag)) / (rssU / df2)
	if f < 0 || math.IsNaN(f) {
		return 1.0
	}
	fDist := distuv.F{D1: float64(lag), D2: df2}
	return 1 - fDist.CDF(f)
}

// crossCorrelation computes the correlation of x against y shifted forward
// by each lag 0..maxLag.
func crossCorrelation(x, y []float64, maxLag int) []evidence.LagCorrelation {
	var out []evidence.LagCorrelation
	for lag := 0; lag <= maxLag; lag++ {
		if lag >= len(x) {
			break
		}
		var corr float64
		if lag == 0 {
			corr = pearson(x, y)
		} else {
			corr = pearson(x[:len(x)-lag], y[lag:])
		}
		out = append(out, evidence.LagCorrelation{Lag: lag, Correlation: corr})
	}
	return out
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

package stats

import (
	"math"

	"github.com/montanaflynn/stats"

	"gocausal/domain/evidence"
)

// analyzeDistribution summarizes a variable's marginal distribution
func analyzeDistribution(data []float64) *evidence.DistributionAnalysis {
	if len(data) < 2 {
		return &evidence.DistributionAnalysis{DistributionType: "unknown"}
	}

	mean, err1 := stats.Mean(data)
	std, err2 := stats.StandardDeviationSample(data)
	if err1 != nil || err2 != nil || std == 0 {
		return &evidence.DistributionAnalysis{Mean: mean, DistributionType: "unknown"}
	}

	skew := sampleSkewness(data, mean, std)
	kurt := sampleExcessKurtosis(data, mean, std)

	return &evidence.DistributionAnalysis{
		Mean:             mean,
		Std:              std,
		Skewness:         skew,
		Kurtosis:         kurt,
		DistributionType: inferDistributionType(skew, kurt),
	}
}

func sampleSkewness(data []float64, mean, std float64) float64 {
	n := float64(len(data))
	sum := 0.0
	for _, v := range data {
		d := (v - mean) / std
		sum += d * d * d
	}
	return sum / n
}

func sampleExcessKurtosis(data []float64, mean, std float64) float64 {
	n := float64(len(data))
	sum := 0.0
	for _, v := range data {
		d := (v - mean) / std
		sum += d * d * d * d
	}
	return sum/n - 3.0
}

func inferDistributionType(skew, kurt float64) string {
	switch {
	case math.Abs(skew) < 0.5 && math.Abs(kurt) < 1:
		return "normal"
	case skew > 1:
		return "right_skewed"
	case skew < -1:
		return "left_skewed"
	default:
		return "other"
	}
}

// jointPattern buckets the joint relationship by linear correlation strength
func jointPattern(corr float64) string {
	switch abs := math.Abs(corr); {
	case abs > 0.7:
		return "strong_linear"
	case abs > 0.4:
		return "moderate_linear"
	default:
		return "weak_or_nonlinear"
	}
}

// mutualInformation discretizes both variables into quantile bins and
// computes MI in nats over the joint histogram.
func mutualInformation(x, y []float64) (float64, bool) {
	if len(x) != len(y) || len(x) < 10 {
		return 0, false
	}
	const numBins = 10
	xBins := quantileBins(x, numBins)
	yBins := quantileBins(y, numBins)

	n := float64(len(x))
	joint := make(map[[2]int]float64)
	margX := make(map[int]float64)
	margY := make(map[int]float64)
	for i := range x {
		joint[[2]int{xBins[i], yBins[i]}]++
		margX[xBins[i]]++
		margY[yBins[i]]++
	}

	mi := 0.0
	for cell, count := range joint {
		pxy := count / n
		px := margX[cell[0]] / n
		py := margY[cell[1]] / n
		mi += pxy * math.Log(pxy/(px*py))
	}
	if mi < 0 {
		mi = 0
	}
	return mi, true
}

// quantileBins assigns each value the index of its quantile bucket
func quantileBins(data []float64, numBins int) []int {
	edges := make([]float64, 0, numBins-1)
	for b := 1; b < numBins; b++ {
		q, err := stats.Percentile(data, float64(b)/float64(numBins)*100)
		if err == nil {
			edges = append(edges, q)
		}
	}

	bins := make([]int, len(data))
	for i, v := range data {
		bin := 0
		for _, edge := range edges {
			if v > edge {
				bin++
			}
		}
		bins[i] = bin
	}
	return bins
}

// distanceCorrelation is the double-centered distance covariance estimate,
// normalized by the distance variances.
func distanceCorrelation(x, y []float64) (float64, bool) {
	n := len(x)
	if n != len(y) || n < 4 {
		return 0, false
	}

	ax := centeredDistances(x)
	ay := centeredDistances(y)

	var dcov, dvarX, dvarY float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dcov += ax[i][j] * ay[i][j]
			dvarX += ax[i][j] * ax[i][j]
			dvarY += ay[i][j] * ay[i][j]
		}
	}
	norm := float64(n * n)
	dcov /= norm
	dvarX /= norm
	dvarY /= norm

	denom := math.Sqrt(dvarX * dvarY)
	if denom == 0 {
		return 0, false
	}
	dc := math.Sqrt(math.Abs(dcov)) / math.Sqrt(denom)
	if math.IsNaN(dc) {
		return 0, false
	}
	return dc, true
}

func centeredDistances(data []float64) [][]float64 {
	n := len(data)
	d := make([][]float64, n)
	rowMeans := make([]float64, n)
	grand := 0.0
	for i := 0; i < n; i++ {
		d[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			d[i][j] = math.Abs(data[i] - data[j])
			rowMeans[i] += d[i][j]
		}
		rowMeans[i] /= float64(n)
		grand += rowMeans[i]
	}
	grand /= float64(n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d[i][j] = d[i][j] - rowMeans[i] - rowMeans[j] + grand
		}
	}
	return d
}

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gocausal/domain/evidence"
)

// estimateInterventionEffect fits y = a + b*x and reports the slope with a
// normal-approximation confidence interval and a t-test p-value.
func estimateInterventionEffect(x, y []float64) (*evidence.InterventionEffect, bool) {
	n := len(x)
	if n != len(y) || n < 4 {
		return nil, false
	}

	coefs, _, residuals, err := olsFit(y, [][]float64{x})
	if err != nil {
		return nil, false
	}
	coef := coefs[1]

	resStd := 0.0
	for _, r := range residuals {
		resStd += r * r
	}
	resStd = math.Sqrt(resStd / float64(n))
	se := resStd / math.Sqrt(float64(n))
	if se == 0 {
		return &evidence.InterventionEffect{Coefficient: coef, CILower: coef, CIUpper: coef, PValue: 0.0}, true
	}

	tStat := coef / se
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	pValue := 2 * (1 - tDist.CDF(math.Abs(tStat)))

	return &evidence.InterventionEffect{
		Coefficient: coef,
		CILower:     coef - 1.96*se,
		CIUpper:     coef + 1.96*se,
		PValue:      pValue,
	}, true
}

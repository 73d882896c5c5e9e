package stats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// olsFit regresses y on the given predictor columns with an intercept,
// returning coefficients (intercept first), fitted values, and residuals.
func olsFit(y []float64, predictors [][]float64) (coefs, fitted, residuals []float64, err error) {
	n := len(y)
	p := len(predictors) + 1
	if n < p {
		return nil, nil, nil, fmt.Errorf("ols: %d observations for %d parameters", n, p)
	}
	for _, col := range predictors {
		if len(col) != n {
			return nil, nil, nil, fmt.Errorf("ols: predictor length %d, expected %d", len(col), n)
		}
	}

	design := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1.0)
		for j, col := range predictors {
			design.Set(i, j+1, col[i])
		}
	}
	response := mat.NewDense(n, 1, nil)
	for i, v := range y {
		response.Set(i, 0, v)
	}

	var qr mat.QR
	qr.Factorize(design)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, response); err != nil {
		return nil, nil, nil, fmt.Errorf("ols: solve: %w", err)
	}

	coefs = make([]float64, p)
	for j := 0; j < p; j++ {
		coefs[j] = beta.At(j, 0)
	}

	fitted = make([]float64, n)
	residuals = make([]float64, n)
	for i := 0; i < n; i++ {
		pred := coefs[0]
		for j, col := range predictors {
			pred += coefs[j+1] * col[i]
		}
		fitted[i] = pred
		residuals[i] = y[i] - pred
	}
	return coefs, fitted, residuals, nil
}

// rss is the residual sum of squares
func rss(residuals []float64) float64 {
	sum := 0.0
	for _, r := range residuals {
		sum += r * r
	}
	return sum
}

// Package testkit provides test fixtures: a scripted completion client and
// a synthetic data generator whose causal structure is known in advance.
package testkit

import (
	"math/rand"

	"gocausal/domain/dataset"
)

// SEMGeneratorConfig configures the structural-equation data generator
type SEMGeneratorConfig struct {
	SampleCount int     `json:"sample_count"`
	NoiseStd    float64 `json:"noise_std"`
	Seed        int64   `json:"seed"`
}

// DefaultSEMConfig returns sensible defaults for synthetic generation
func DefaultSEMConfig() SEMGeneratorConfig {
	return SEMGeneratorConfig{
		SampleCount: 200,
		NoiseStd:    0.5,
		Seed:        42,
	}
}

// SEMGenerator samples data from a linear structural-equation model over a
// fixed three-variable ground truth: Smoking and Exercise are exogenous,
// BMI = 0.8*Smoking - 0.6*Exercise + noise.
type SEMGenerator struct {
	config SEMGeneratorConfig
	rng    *rand.Rand
}

// NewSEMGenerator creates a generator with a deterministic seed
func NewSEMGenerator(config SEMGeneratorConfig) *SEMGenerator {
	return &SEMGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate samples the model and returns a table with columns
// Smoking, Exercise, BMI.
func (g *SEMGenerator) Generate() (*dataset.Table, error) {
	n := g.config.SampleCount
	smoking := make([]float64, n)
	exercise := make([]float64, n)
	bmi := make([]float64, n)

	for i := 0; i < n; i++ {
		smoking[i] = g.rng.NormFloat64()
		exercise[i] = g.rng.NormFloat64()
		bmi[i] = 0.8*smoking[i] - 0.6*exercise[i] + g.config.NoiseStd*g.rng.NormFloat64()
	}

	return dataset.NewTable(
		[]string{"Smoking", "Exercise", "BMI"},
		[][]float64{smoking, exercise, bmi},
	)
}

// GenerateChain samples a temporal chain X -> Y -> Z where each effect
// follows its cause by one observation, for exercising precedence tests.
func (g *SEMGenerator) GenerateChain() (*dataset.Table, error) {
	n := g.config.SampleCount
	x := make([]float64, n)
	y := make([]float64, n)
	z := make([]float64, n)

	for i := 0; i < n; i++ {
		x[i] = g.rng.NormFloat64()
		if i == 0 {
			y[i] = g.config.NoiseStd * g.rng.NormFloat64()
			z[i] = g.config.NoiseStd * g.rng.NormFloat64()
			continue
		}
		y[i] = 0.9*x[i-1] + g.config.NoiseStd*g.rng.NormFloat64()
		z[i] = 0.9*y[i-1] + g.config.NoiseStd*g.rng.NormFloat64()
	}

	return dataset.NewTable(
		[]string{"X", "Y", "Z"},
		[][]float64{x, y, z},
	)
}

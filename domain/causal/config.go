package causal

import "gocausal/internal/errors"

// DiscoveryConfig controls one discovery run
type DiscoveryConfig struct {
	ResolveConflicts        bool    `json:"resolve_conflicts"`
	IterativeRefinement     bool    `json:"iterative_refinement"`
	MaxRefinementIterations int     `json:"max_refinement_iterations"`
	SignificanceLevel       float64 `json:"significance_level"`
	ConfidenceThreshold     float64 `json:"confidence_threshold"`
	Temperature             float64 `json:"temperature"`
	NSamples                int     `json:"n_samples"`
}

// DefaultDiscoveryConfig returns the standard configuration
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		ResolveConflicts:        true,
		IterativeRefinement:     true,
		MaxRefinementIterations: 3,
		SignificanceLevel:       0.05,
		ConfidenceThreshold:     0.5,
		Temperature:             0.3,
		NSamples:                5,
	}
}

// Validate checks configuration bounds
func (c DiscoveryConfig) Validate() error {
	if c.NSamples < 1 {
		return errors.InvalidInput("n_samples must be at least 1")
	}
	if c.SignificanceLevel <= 0 || c.SignificanceLevel >= 1 {
		return errors.InvalidInput("significance_level must be in (0, 1)")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return errors.InvalidInput("confidence_threshold must be in [0, 1]")
	}
	if c.MaxRefinementIterations < 0 {
		return errors.InvalidInput("max_refinement_iterations must be non-negative")
	}
	return nil
}

package ports

import (
	"context"

	"gocausal/domain/causal"
	"gocausal/domain/evidence"
)

// EvidenceAnalyzer is the statistics boundary: pure function of
// (variable pair, conditioning set, data). Missing columns must not fail
// the call; they yield a partially-populated profile. Sub-statistics that
// cannot be computed from the data stay absent on the profile.
type EvidenceAnalyzer interface {
	// ComputeProfile computes the evidence bundle for source -> target,
	// optionally conditioning on the given variables.
	ComputeProfile(ctx context.Context, source, target causal.Variable, conditioning []causal.Variable) (*evidence.Profile, error)

	// CorrelatedWithBoth finds variables correlated above the threshold
	// with both endpoints, for conditioning-set suggestions.
	CorrelatedWithBoth(source, target causal.Variable, threshold float64, limit int) []causal.Variable
}

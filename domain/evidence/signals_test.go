package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCompatibilityCleanProfile(t *testing.T) {
	profile := &Profile{Correlation: 0.6}
	compat := CheckCompatibility(profile)

	assert.True(t, compat.Compatible)
	assert.Empty(t, compat.Signals)
}

func TestCheckCompatibilityWeakCorrelationIsWarningOnly(t *testing.T) {
	profile := &Profile{Correlation: 0.02}
	compat := CheckCompatibility(profile)

	assert.True(t, compat.Compatible, "a warning alone must not make the edge incompatible")
	assert.Len(t, compat.Signals, 1)
	assert.Equal(t, SignalWeakCorrelation, compat.Signals[0].Kind)
	assert.Equal(t, SeverityWarning, compat.Signals[0].Severity)
}

func TestCheckCompatibilityConditionalIndependence(t *testing.T) {
	profile := &Profile{
		Correlation:      0.4,
		CondIndependence: &ConditionalIndependenceTest{Independent: true, PValue: 0.42},
	}
	compat := CheckCompatibility(profile)

	assert.False(t, compat.Compatible)
	assert.True(t, compat.HasStrongConflict())
	assert.Equal(t, SignalConditionalIndependence, compat.Signals[0].Kind)
	if assert.NotNil(t, compat.Signals[0].PValue) {
		assert.InDelta(t, 0.42, *compat.Signals[0].PValue, 1e-9)
	}
}

func TestCheckCompatibilityReverseCausality(t *testing.T) {
	profile := &Profile{
		Correlation: 0.5,
		Granger:     &GrangerResult{ReverseDirection: true},
	}
	compat := CheckCompatibility(profile)

	assert.False(t, compat.Compatible)
	assert.Equal(t, SignalReverseCausality, compat.Signals[0].Kind)
}

func TestCheckCompatibilityNegligibleEffect(t *testing.T) {
	profile := &Profile{
		Correlation: 0.4,
		Effect:      &InterventionEffect{Coefficient: 0.003},
	}
	compat := CheckCompatibility(profile)

	assert.True(t, compat.Compatible, "negligible effect is a warning, not a conflict")
	assert.Equal(t, SignalNegligibleEffect, compat.Signals[0].Kind)
}

func TestCheckCompatibilityMixedSignals(t *testing.T) {
	profile := &Profile{
		Correlation:      0.02,
		CondIndependence: &ConditionalIndependenceTest{Independent: true, PValue: 0.3},
		Effect:           &InterventionEffect{Coefficient: 0.001},
	}
	compat := CheckCompatibility(profile)

	assert.False(t, compat.Compatible)
	assert.Len(t, compat.Signals, 3)
}

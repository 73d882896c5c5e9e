package evidence

import (
	"fmt"
	"math"
)

// SignalKind classifies compatibility signals
type SignalKind string

const (
	SignalWeakCorrelation         SignalKind = "weak_correlation"
	SignalConditionalIndependence SignalKind = "conditional_independence"
	SignalReverseCausality        SignalKind = "reverse_causality"
	SignalNegligibleEffect        SignalKind = "negligible_effect"
)

// SignalSeverity grades a signal: warnings alone never make an edge
// incompatible, strong conflicts do.
type SignalSeverity string

const (
	SeverityWarning        SignalSeverity = "warning"
	SeverityStrongConflict SignalSeverity = "strong_conflict"
)

// Signal is one typed finding from the compatibility test
type Signal struct {
	Kind     SignalKind     `json:"kind"`
	Severity SignalSeverity `json:"severity"`
	Message  string         `json:"message"`
	PValue   *float64       `json:"p_value,omitempty"`
}

// Compatibility is the assessment of a proposed edge against its profile
type Compatibility struct {
	Compatible bool     `json:"compatible"`
	Signals    []Signal `json:"signals"`
	Evidence   *Profile `json:"evidence,omitempty"`
}

// HasStrongConflict reports whether any strong-conflict signal is present
func (c Compatibility) HasStrongConflict() bool {
	for _, s := range c.Signals {
		if s.Severity == SeverityStrongConflict {
			return true
		}
	}
	return false
}

// CheckCompatibility tests a proposed causal direction against its evidence
// profile. Compatible iff no strong-conflict signal is present.
func CheckCompatibility(profile *Profile) Compatibility {
	var signals []Signal

	if math.Abs(profile.Correlation) < 0.05 {
		signals = append(signals, Signal{
			Kind:     SignalWeakCorrelation,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Very weak correlation (%.3f)", profile.Correlation),
		})
	}

	if profile.CondIndependence != nil && profile.CondIndependence.Independent {
		p := profile.CondIndependence.PValue
		signals = append(signals, Signal{
			Kind:     SignalConditionalIndependence,
			Severity: SeverityStrongConflict,
			Message:  "Variables are conditionally independent",
			PValue:   &p,
		})
	}

	if profile.Granger != nil && profile.Granger.ReverseDirection {
		signals = append(signals, Signal{
			Kind:     SignalReverseCausality,
			Severity: SeverityStrongConflict,
			Message:  "Temporal precedence test suggests reverse direction",
		})
	}

	if profile.Effect != nil && math.Abs(profile.Effect.Coefficient) < 0.01 {
		signals = append(signals, Signal{
			Kind:     SignalNegligibleEffect,
			Severity: SeverityWarning,
			Message:  "Estimated causal effect is very small",
		})
	}

	c := Compatibility{Signals: signals, Evidence: profile}
	c.Compatible = !c.HasStrongConflict()
	return c
}

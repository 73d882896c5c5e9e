package causal

import (
	"fmt"

	"gocausal/domain/core"
)

// ViolationKind classifies validation violations
type ViolationKind string

const (
	ViolationNoRoots                 ViolationKind = "no_roots"
	ViolationIsolatedNode            ViolationKind = "isolated_node"
	ViolationRootWithParents         ViolationKind = "root_with_parents"
	ViolationLowConfidence           ViolationKind = "low_confidence"
	ViolationLowMeanConfidence       ViolationKind = "low_mean_confidence"
	ViolationManyLowConfidence       ViolationKind = "many_low_confidence"
	ViolationConditionalIndependence ViolationKind = "conditional_independence"
	ViolationImplausiblePath         ViolationKind = "implausible_path"
	ViolationTooSparse               ViolationKind = "too_sparse"
	ViolationDisconnected            ViolationKind = "disconnected"
)

// Severity grades how serious a violation is
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Violation is one finding from a validation test
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Details  string        `json:"details"`
	Severity Severity      `json:"severity"`
	Edge     *CausalEdge   `json:"edge,omitempty"`
	PValue   *float64      `json:"p_value,omitempty"`
}

// TestResult is the outcome of one validation test: pass/fail, a score in
// roughly [0,1], and the violations found.
type TestResult struct {
	Passed     bool        `json:"passed"`
	Score      float64     `json:"score"`
	Violations []Violation `json:"violations"`
}

func (r TestResult) String() string {
	status := "FAILED"
	if r.Passed {
		status = "PASSED"
	}
	return fmt.Sprintf("TestResult(%s, score=%.2f, violations=%d)", status, r.Score, len(r.Violations))
}

// ValidationReport maps test names to results. Built fresh on each
// validation call, read-only afterward. Test order is preserved for
// deterministic reporting.
type ValidationReport struct {
	Order     []string              `json:"-"`
	Tests     map[string]TestResult `json:"tests"`
	Timestamp core.Timestamp        `json:"timestamp"`
}

// NewValidationReport creates an empty report
func NewValidationReport() *ValidationReport {
	return &ValidationReport{
		Tests:     make(map[string]TestResult),
		Timestamp: core.Now(),
	}
}

// AddTest records a test result, preserving insertion order
func (r *ValidationReport) AddTest(name string, result TestResult) {
	if _, exists := r.Tests[name]; !exists {
		r.Order = append(r.Order, name)
	}
	r.Tests[name] = result
}

// IsSatisfactory reports whether every test passed. An empty report is
// never satisfactory.
func (r *ValidationReport) IsSatisfactory() bool {
	if len(r.Tests) == 0 {
		return false
	}
	for _, result := range r.Tests {
		if !result.Passed {
			return false
		}
	}
	return true
}

// Issues collects all violations across tests in test order
func (r *ValidationReport) Issues() []Violation {
	var issues []Violation
	for _, name := range r.Order {
		issues = append(issues, r.Tests[name].Violations...)
	}
	return issues
}

// ToDict converts the report to its portable representation
func (r *ValidationReport) ToDict() map[string]interface{} {
	tests := make(map[string]interface{}, len(r.Tests))
	for name, result := range r.Tests {
		tests[name] = map[string]interface{}{
			"passed":       result.Passed,
			"score":        result.Score,
			"n_violations": len(result.Violations),
		}
	}
	return map[string]interface{}{
		"timestamp":    r.Timestamp.String(),
		"satisfactory": r.IsSatisfactory(),
		"tests":        tests,
	}
}

package causal

import (
	"fmt"

	"gocausal/domain/core"
	"gocausal/domain/evidence"
)

// CausalEdge is a directed arc source -> target with a confidence score in
// [0,1] and a free-text mechanism. One edge is a proposed or accepted causal
// link; the builder keeps the accepted set free of duplicates and cycles.
type CausalEdge struct {
	Source                  Variable                  `json:"source"`
	Target                  Variable                  `json:"target"`
	Confidence              float64                   `json:"confidence"`
	Mechanism               string                    `json:"mechanism"`
	AlternativeExplanations []string                  `json:"alternative_explanations,omitempty"`
	StatisticalSupport      *float64                  `json:"statistical_support,omitempty"`
	Evidence                *evidence.Profile         `json:"evidence,omitempty"`
	CreatedAt               core.Timestamp            `json:"created_at"`
	UncertaintyReason       string                    `json:"uncertainty_reason,omitempty"`
}

func (e CausalEdge) String() string {
	return fmt.Sprintf("%s -> %s (conf=%.2f)", e.Source.Name, e.Target.Name, e.Confidence)
}

// SamePair reports whether two edges connect the same ordered pair
func (e CausalEdge) SamePair(other CausalEdge) bool {
	return e.Source.Name == other.Source.Name && e.Target.Name == other.Target.Name
}

// RootNode is a candidate root cause with its elicited confidence and the
// consensus reasoning behind it.
type RootNode struct {
	Variable   Variable `json:"variable"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// FlaggedEdge pairs an edge with the reason it was rejected or deferred
type FlaggedEdge struct {
	Edge   CausalEdge `json:"edge"`
	Reason string     `json:"reason"`
}

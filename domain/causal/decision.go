package causal

import "gocausal/domain/evidence"

// EdgeAction is the closed set of dispositions for a proposed edge
type EdgeAction string

const (
	ActionAdd    EdgeAction = "ADD"
	ActionDefer  EdgeAction = "DEFER"
	ActionReject EdgeAction = "REJECT"
)

// EdgeDecision wraps a proposed edge with its disposition. Produced by edge
// evaluation, consumed immediately, never stored on the graph.
type EdgeDecision struct {
	Edge       CausalEdge
	Action     EdgeAction
	Reason     string
	Confidence float64
	Evidence   *evidence.Profile
}

// ResolutionDecision is the closed set of outcomes for a deferred edge.
// MODIFY from the model is normalized to ADD before a Resolution is built,
// so only two variants exist downstream.
type ResolutionDecision string

const (
	ResolutionAdd    ResolutionDecision = "ADD"
	ResolutionReject ResolutionDecision = "REJECT"
)

// Resolution is the outcome of conflict resolution for one deferred edge.
// Consumed to mutate the graph, then discarded.
type Resolution struct {
	Edge                  CausalEdge
	Decision              ResolutionDecision
	RevisedConfidence     float64
	Explanation           string
	AlternativeHypothesis string
	OriginalEvidence      *evidence.Profile
}

// RefinementType is the closed set of corrective edits the validator may apply
type RefinementType string

const (
	RefinementRemoveEdge       RefinementType = "REMOVE_EDGE"
	RefinementModifyConfidence RefinementType = "MODIFY_CONFIDENCE"
)

// Refinement is one bounded corrective edit proposed by the refinement loop
type Refinement struct {
	Type       RefinementType
	Source     string
	Target     string
	Confidence float64 // new confidence for MODIFY_CONFIDENCE
}

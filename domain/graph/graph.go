// Package graph implements the causal DAG built up during discovery: the
// accepted edge set plus the side-channels for roots, uncertain roots,
// rejected and deferred proposals, and the visited set.
//
// The accepted-edge relation stays acyclic at all times. AddEdge itself does
// not check cycles or duplicates; every caller must gate additions through
// WouldCreateCycle first.
package graph

import (
	"gocausal/domain/causal"
	"gocausal/domain/core"
	"gocausal/domain/evidence"
)

// CausalGraph is the mutable artifact of one discovery run. Single-owner:
// it is threaded Builder -> Resolver -> Validator through one linear
// pipeline and never shared.
type CausalGraph struct {
	edges []causal.CausalEdge

	// Derived adjacency over the accepted-edge relation, for path queries
	children map[string][]string
	parents  map[string][]string

	nodes     map[string]causal.Variable
	nodeOrder []string

	roots          map[string]causal.Variable
	rootOrder      []string
	rootReasoning  map[string]string
	uncertainRoots map[string]float64

	rejected []causal.FlaggedEdge
	deferred []causal.FlaggedEdge

	visited map[string]bool
}

// New creates an empty causal graph
func New() *CausalGraph {
	return &CausalGraph{
		children:       make(map[string][]string),
		parents:        make(map[string][]string),
		nodes:          make(map[string]causal.Variable),
		roots:          make(map[string]causal.Variable),
		rootReasoning:  make(map[string]string),
		uncertainRoots: make(map[string]float64),
		visited:        make(map[string]bool),
	}
}

func (g *CausalGraph) registerNode(v causal.Variable) {
	if _, ok := g.nodes[v.Name]; !ok {
		g.nodes[v.Name] = v
		g.nodeOrder = append(g.nodeOrder, v.Name)
	}
}

// AddEdge appends an accepted edge and registers both endpoints as nodes.
// Callers must have passed WouldCreateCycle; this method does not re-check.
func (g *CausalGraph) AddEdge(source, target causal.Variable, confidence float64, mechanism string, ev *evidence.Profile, notes string) {
	g.AddCausalEdge(causal.CausalEdge{
		Source:            source,
		Target:            target,
		Confidence:        confidence,
		Mechanism:         mechanism,
		Evidence:          ev,
		CreatedAt:         core.Now(),
		UncertaintyReason: notes,
	})
}

// AddCausalEdge appends an already-assembled accepted edge, preserving its
// statistical support, alternatives, and evidence.
func (g *CausalGraph) AddCausalEdge(edge causal.CausalEdge) {
	if edge.CreatedAt.IsZero() {
		edge.CreatedAt = core.Now()
	}
	g.edges = append(g.edges, edge)

	g.registerNode(edge.Source)
	g.registerNode(edge.Target)
	g.children[edge.Source.Name] = append(g.children[edge.Source.Name], edge.Target.Name)
	g.parents[edge.Target.Name] = append(g.parents[edge.Target.Name], edge.Source.Name)
}

// MarkAsRoot records a variable as a root cause. Idempotent: calling twice
// for the same variable overwrites the reasoning.
func (g *CausalGraph) MarkAsRoot(v causal.Variable, reasoning string) {
	if _, ok := g.roots[v.Name]; !ok {
		g.rootOrder = append(g.rootOrder, v.Name)
	}
	g.roots[v.Name] = v
	g.rootReasoning[v.Name] = reasoning
	g.registerNode(v)
}

// AddUncertainRoot records a root candidate below the seeding threshold
func (g *CausalGraph) AddUncertainRoot(v causal.Variable, confidence float64) {
	g.uncertainRoots[v.Name] = confidence
}

// AddRejectedEdge records a rejected proposal with its reason
func (g *CausalGraph) AddRejectedEdge(edge causal.CausalEdge, reason string) {
	g.rejected = append(g.rejected, causal.FlaggedEdge{Edge: edge, Reason: reason})
}

// AddDeferredEdge records a proposal whose disposition awaits conflict resolution
func (g *CausalGraph) AddDeferredEdge(edge causal.CausalEdge, reason string) {
	g.deferred = append(g.deferred, causal.FlaggedEdge{Edge: edge, Reason: reason})
}

// MarkVisited marks a variable as expanded
func (g *CausalGraph) MarkVisited(v causal.Variable) {
	g.visited[v.Name] = true
}

// IsVisited reports whether a variable has been expanded
func (g *CausalGraph) IsVisited(v causal.Variable) bool {
	return g.visited[v.Name]
}

// Edges returns the accepted edges in insertion order
func (g *CausalGraph) Edges() []causal.CausalEdge {
	out := make([]causal.CausalEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NumEdges returns the accepted edge count
func (g *CausalGraph) NumEdges() int { return len(g.edges) }

// Roots returns root variables in the order they were marked
func (g *CausalGraph) Roots() []causal.Variable {
	out := make([]causal.Variable, 0, len(g.rootOrder))
	for _, name := range g.rootOrder {
		out = append(out, g.roots[name])
	}
	return out
}

// IsRoot reports whether a variable was marked as a root
func (g *CausalGraph) IsRoot(v causal.Variable) bool {
	_, ok := g.roots[v.Name]
	return ok
}

// RootReasoning returns the consensus justification for a root, "" if none
func (g *CausalGraph) RootReasoning(v causal.Variable) string {
	return g.rootReasoning[v.Name]
}

// UncertainRoots returns root candidates that missed the seeding threshold
func (g *CausalGraph) UncertainRoots() map[string]float64 {
	out := make(map[string]float64, len(g.uncertainRoots))
	for k, v := range g.uncertainRoots {
		out[k] = v
	}
	return out
}

// RejectedEdges returns the rejected proposals with reasons
func (g *CausalGraph) RejectedEdges() []causal.FlaggedEdge {
	out := make([]causal.FlaggedEdge, len(g.rejected))
	copy(out, g.rejected)
	return out
}

// DeferredEdges returns the deferred proposals with reasons
func (g *CausalGraph) DeferredEdges() []causal.FlaggedEdge {
	out := make([]causal.FlaggedEdge, len(g.deferred))
	copy(out, g.deferred)
	return out
}

// AllVariables returns every variable touched by an edge or marked as a
// root, in first-seen order.
func (g *CausalGraph) AllVariables() []causal.Variable {
	out := make([]causal.Variable, 0, len(g.nodeOrder))
	for _, name := range g.nodeOrder {
		out = append(out, g.nodes[name])
	}
	return out
}

// EdgesFrom returns accepted edges originating at a variable
func (g *CausalGraph) EdgesFrom(v causal.Variable) []causal.CausalEdge {
	var out []causal.CausalEdge
	for _, e := range g.edges {
		if e.Source.Name == v.Name {
			out = append(out, e)
		}
	}
	return out
}

// EdgesTo returns accepted edges pointing at a variable
func (g *CausalGraph) EdgesTo(v causal.Variable) []causal.CausalEdge {
	var out []causal.CausalEdge
	for _, e := range g.edges {
		if e.Target.Name == v.Name {
			out = append(out, e)
		}
	}
	return out
}

// Parents returns the direct causes of a variable
func (g *CausalGraph) Parents(v causal.Variable) []causal.Variable {
	var out []causal.Variable
	for _, name := range g.parents[v.Name] {
		out = append(out, g.nodes[name])
	}
	return out
}

// Children returns the direct effects of a variable
func (g *CausalGraph) Children(v causal.Variable) []causal.Variable {
	var out []causal.Variable
	for _, name := range g.children[v.Name] {
		out = append(out, g.nodes[name])
	}
	return out
}

// CommonParents returns variables that are parents of both arguments
func (g *CausalGraph) CommonParents(a, b causal.Variable) []causal.Variable {
	inA := make(map[string]bool)
	for _, name := range g.parents[a.Name] {
		inA[name] = true
	}
	var out []causal.Variable
	seen := make(map[string]bool)
	for _, name := range g.parents[b.Name] {
		if inA[name] && !seen[name] {
			seen[name] = true
			out = append(out, g.nodes[name])
		}
	}
	return out
}

// AverageConfidence is the mean confidence over accepted edges, 0.0 if empty
func (g *CausalGraph) AverageConfidence() float64 {
	if len(g.edges) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, e := range g.edges {
		sum += e.Confidence
	}
	return sum / float64(len(g.edges))
}

// SetEdgeConfidence updates the confidence of the accepted edge for the
// given pair, reporting whether the edge existed.
func (g *CausalGraph) SetEdgeConfidence(source, target string, confidence float64) bool {
	for i := range g.edges {
		if g.edges[i].Source.Name == source && g.edges[i].Target.Name == target {
			g.edges[i].Confidence = confidence
			return true
		}
	}
	return false
}

// RemoveEdge prunes the accepted edge for the given pair, rebuilding the
// derived adjacency. Reports whether an edge was removed.
func (g *CausalGraph) RemoveEdge(source, target string) bool {
	idx := -1
	for i := range g.edges {
		if g.edges[i].Source.Name == source && g.edges[i].Target.Name == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	g.edges = append(g.edges[:idx], g.edges[idx+1:]...)
	g.rebuildAdjacency()
	return true
}

func (g *CausalGraph) rebuildAdjacency() {
	g.children = make(map[string][]string)
	g.parents = make(map[string][]string)
	for _, e := range g.edges {
		g.children[e.Source.Name] = append(g.children[e.Source.Name], e.Target.Name)
		g.parents[e.Target.Name] = append(g.parents[e.Target.Name], e.Source.Name)
	}
}

// ApplyResolutions folds conflict resolutions into the graph: ADD becomes
// an accepted edge at the revised confidence with the explanation attached
// as notes, REJECT is recorded to the rejected list. The deferred list is
// always cleared afterward; deferred edges get exactly one resolution
// attempt.
func (g *CausalGraph) ApplyResolutions(resolutions []causal.Resolution) {
	for _, r := range resolutions {
		switch r.Decision {
		case causal.ResolutionAdd:
			g.AddEdge(r.Edge.Source, r.Edge.Target, r.RevisedConfidence, r.Edge.Mechanism, r.OriginalEvidence, r.Explanation)
		case causal.ResolutionReject:
			g.AddRejectedEdge(r.Edge, r.Explanation)
		}
	}
	g.deferred = nil
}

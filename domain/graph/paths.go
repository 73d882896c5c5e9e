package graph

import "gocausal/domain/causal"

// HasPath reports whether a directed path exists from source to target over
// the accepted-edge relation.
func (g *CausalGraph) HasPath(source, target causal.Variable) bool {
	if _, ok := g.nodes[source.Name]; !ok {
		return false
	}
	if _, ok := g.nodes[target.Name]; !ok {
		return false
	}
	if source.Name == target.Name {
		return true
	}

	seen := map[string]bool{source.Name: true}
	stack := []string{source.Name}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.children[cur] {
			if next == target.Name {
				return true
			}
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// WouldCreateCycle reports whether adding source -> target would close a
// directed cycle, i.e. a path target -> ... -> source already exists. This
// is the single structural guard every edge addition passes through.
func (g *CausalGraph) WouldCreateCycle(source, target causal.Variable) bool {
	_, haveSource := g.nodes[source.Name]
	_, haveTarget := g.nodes[target.Name]
	if !haveSource || !haveTarget {
		return false
	}
	return g.HasPath(target, source)
}

// PathVariables returns the union of intermediate nodes over all simple
// paths from source to target. Used as mediator candidates for
// conditioning-set suggestions.
func (g *CausalGraph) PathVariables(source, target causal.Variable) []causal.Variable {
	if _, ok := g.nodes[source.Name]; !ok {
		return nil
	}
	if _, ok := g.nodes[target.Name]; !ok {
		return nil
	}

	intermediate := make(map[string]bool)
	onPath := map[string]bool{source.Name: true}
	// trail carries the nodes strictly before cur on the current path
	var walk func(cur string, trail []string)
	walk = func(cur string, trail []string) {
		if cur == target.Name {
			for i, name := range trail {
				if i == 0 { // trail[0] is source
					continue
				}
				intermediate[name] = true
			}
			return
		}
		for _, next := range g.children[cur] {
			if onPath[next] {
				continue
			}
			onPath[next] = true
			walk(next, append(trail, cur))
			delete(onPath, next)
		}
	}
	walk(source.Name, nil)
	var out []causal.Variable
	for _, name := range g.nodeOrder {
		if intermediate[name] {
			out = append(out, g.nodes[name])
		}
	}
	return out
}

// AllPaths enumerates simple paths up to maxLength edges between every
// ordered node pair, in node order.
func (g *CausalGraph) AllPaths(maxLength int) [][]causal.Variable {
	var all [][]causal.Variable
	for _, sourceName := range g.nodeOrder {
		onPath := map[string]bool{sourceName: true}
		var walk func(cur string, trail []string)
		walk = func(cur string, trail []string) {
			if len(trail) > 1 {
				path := make([]causal.Variable, len(trail))
				for i, name := range trail {
					path[i] = g.nodes[name]
				}
				all = append(all, path)
			}
			if len(trail)-1 >= maxLength {
				return
			}
			for _, next := range g.children[cur] {
				if onPath[next] {
					continue
				}
				onPath[next] = true
				walk(next, append(trail, next))
				delete(onPath, next)
			}
		}
		walk(sourceName, []string{sourceName})
	}
	return all
}

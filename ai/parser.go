package ai

import (
	"regexp"
	"strconv"
	"strings"

	"gocausal/domain/causal"
)

// Model output is parsed leniently. A missing or malformed section never
// produces an error; it yields the conservative zero-value for that section
// so one bad sample cannot sink an elicitation round.

var (
	confidenceLinePat = regexp.MustCompile(`(?i)confidence:\s*([0-9]*\.?[0-9]+)`)
	variableLinePat   = regexp.MustCompile(`(?i)variable:\s*(.+)`)
	mechanismLinePat  = regexp.MustCompile(`(?i)mechanism:\s*(.+)`)
)

func extractTag(response, tag string) string {
	pat := regexp.MustCompile(`(?is)<` + regexp.QuoteMeta(tag) + `>(.*?)</` + regexp.QuoteMeta(tag) + `>`)
	m := pat.FindStringSubmatch(response)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func parseFloatClamped(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ParseRootNames returns the variable names listed in <root_causes>,
// resolved against the known variable set. Unknown names are dropped.
func ParseRootNames(response string, variables []causal.Variable) []causal.Variable {
	section := extractTag(response, "root_causes")
	if section == "" {
		return nil
	}
	var roots []causal.Variable
	seen := map[string]bool{}
	for _, line := range strings.Split(section, "\n") {
		name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-* "))
		if name == "" {
			continue
		}
		v, ok := causal.MatchVariable(name, variables)
		if !ok || seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		roots = append(roots, v)
	}
	return roots
}

// EdgeProposal is one candidate effect from a single expansion sample.
type EdgeProposal struct {
	Target     causal.Variable
	Confidence float64
	Mechanism  string
}

// ParseEdgeProposals parses the <direct_effects> section. Entries are
// separated by "---". Entries naming unknown variables are dropped; a
// missing confidence defaults to 0.3.
func ParseEdgeProposals(response string, candidates []causal.Variable) []EdgeProposal {
	section := extractTag(response, "direct_effects")
	if section == "" {
		return nil
	}
	var proposals []EdgeProposal
	for _, block := range strings.Split(section, "---") {
		m := variableLinePat.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		target, ok := causal.MatchVariable(strings.TrimSpace(m[1]), candidates)
		if !ok {
			continue
		}
		p := EdgeProposal{Target: target, Confidence: 0.3}
		if cm := confidenceLinePat.FindStringSubmatch(block); cm != nil {
			p.Confidence = parseFloatClamped(cm[1], 0.3)
		}
		if mm := mechanismLinePat.FindStringSubmatch(block); mm != nil {
			p.Mechanism = strings.TrimSpace(mm[1])
		}
		proposals = append(proposals, p)
	}
	return proposals
}

// ParseResolution parses the dialogue response for a deferred edge.
// An unrecognized decision token is treated as REJECT.
func ParseResolution(response string) (decision causal.ResolutionDecision, confidence float64, explanation, alternative string) {
	raw := strings.ToUpper(extractTag(response, "decision"))
	switch {
	case strings.Contains(raw, "ADD"):
		decision = causal.ResolutionAdd
	case strings.Contains(raw, "MODIFY"):
		// A modified relationship is recorded as an addition with the
		// proposed structure captured in the explanation text.
		decision = causal.ResolutionAdd
	default:
		decision = causal.ResolutionReject
	}
	confidence = parseFloatClamped(extractTag(response, "confidence"), 0.0)
	explanation = extractTag(response, "explanation")
	alternative = extractTag(response, "alternative")
	return decision, confidence, explanation, alternative
}

// ParsePlausibility returns the <plausibility> score and its reasoning.
// A missing or malformed score comes back as 0.5, the neutral midpoint.
func ParsePlausibility(response string) (float64, string) {
	score := parseFloatClamped(extractTag(response, "plausibility"), 0.5)
	return score, extractTag(response, "reasoning")
}

// ParseExplanation parses the tagged edge-explanation response.
func ParseExplanation(response string) causal.Explanation {
	level := 3
	if raw := extractTag(response, "confidence"); raw != "" {
		if n, err := strconv.Atoi(strings.Fields(raw)[0]); err == nil && n >= 1 && n <= 5 {
			level = n
		}
	}
	return causal.Explanation{
		Mechanism:            extractTag(response, "mechanism"),
		TimeScale:            extractTag(response, "time_scale"),
		Nature:               extractTag(response, "nature"),
		PotentialConfounders: splitListItems(extractTag(response, "confounders")),
		BoundaryConditions:   extractTag(response, "boundary_conditions"),
		ConfidenceLevel:      level,
		Justification:        extractTag(response, "justification"),
	}
}

func splitListItems(section string) []string {
	var items []string
	for _, line := range strings.Split(section, "\n") {
		item := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-* "))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

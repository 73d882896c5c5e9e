package evidence

import (
	"fmt"
	"math"
	"strings"
)

// RenderNarrative turns a profile into the prose presented to the model
// during conflict resolution. Each measure carries a plain-language
// bucketed interpretation.
func RenderNarrative(profile *Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Statistical Evidence for %s -> %s:\n\n", profile.Source, profile.Target)

	fmt.Fprintf(&b, "Correlation Analysis:\n")
	fmt.Fprintf(&b, "- Pearson correlation: %.3f\n", profile.Correlation)
	fmt.Fprintf(&b, "- Spearman correlation: %.3f\n", profile.RankCorrelation)
	fmt.Fprintf(&b, "- Interpretation: %s\n\n", InterpretCorrelation(profile.Correlation))

	if profile.PartialCorr != nil {
		fmt.Fprintf(&b, "Conditional Analysis:\n")
		fmt.Fprintf(&b, "- Partial correlation: %.3f\n", *profile.PartialCorr)
		fmt.Fprintf(&b, "- Interpretation: %s\n\n", InterpretConditional(profile))
	}

	if profile.Granger != nil {
		fmt.Fprintf(&b, "Temporal Analysis:\n")
		fmt.Fprintf(&b, "- Temporal precedence (%s->%s): p=%.4f\n", profile.Source, profile.Target, profile.Granger.MinForwardP())
		fmt.Fprintf(&b, "- Reverse direction: p=%.4f\n", profile.Granger.MinReverseP())
		fmt.Fprintf(&b, "- Interpretation: %s\n\n", InterpretGranger(profile.Granger))
	}

	if profile.Effect != nil {
		fmt.Fprintf(&b, "Effect Estimation:\n")
		fmt.Fprintf(&b, "- Estimated causal effect: %.3f\n", profile.Effect.Coefficient)
		fmt.Fprintf(&b, "- 95%% CI: [%.3f, %.3f]\n", profile.Effect.CILower, profile.Effect.CIUpper)
		fmt.Fprintf(&b, "- Interpretation: %s\n", InterpretEffect(profile.Effect))
	}

	return b.String()
}

// InterpretCorrelation buckets correlation strength into plain language
func InterpretCorrelation(corr float64) string {
	sign := "positive"
	if corr < 0 {
		sign = "negative"
	}
	switch abs := math.Abs(corr); {
	case abs > 0.7:
		return fmt.Sprintf("Strong %s correlation", sign)
	case abs > 0.4:
		return fmt.Sprintf("Moderate %s correlation", sign)
	case abs > 0.2:
		return fmt.Sprintf("Weak %s correlation", sign)
	default:
		return "Very weak or no correlation"
	}
}

// InterpretConditional explains the conditional-independence result
func InterpretConditional(profile *Profile) string {
	if profile.CondIndependence == nil {
		return "No conditional test performed"
	}
	if profile.CondIndependence.Independent {
		return "Variables are conditionally independent (relationship may be spurious)"
	}
	return "Variables remain dependent after conditioning (supports causal link)"
}

// InterpretGranger explains the temporal-precedence result
func InterpretGranger(result *GrangerResult) string {
	switch {
	case result.ForwardSignificant && !result.ReverseDirection:
		return "Strong support for forward causation"
	case result.ReverseDirection && !result.ForwardSignificant:
		return "Suggests reverse causation"
	case result.ForwardSignificant && result.ReverseDirection:
		return "Bidirectional relationship or common cause"
	default:
		return "No clear temporal precedence"
	}
}

// InterpretEffect explains the intervention-effect estimate
func InterpretEffect(effect *InterventionEffect) string {
	if effect.PValue > 0.05 {
		return "Effect not statistically significant"
	}
	switch abs := math.Abs(effect.Coefficient); {
	case abs > 0.5:
		return fmt.Sprintf("Large effect size (coef=%.3f)", effect.Coefficient)
	case abs > 0.2:
		return fmt.Sprintf("Moderate effect size (coef=%.3f)", effect.Coefficient)
	default:
		return fmt.Sprintf("Small effect size (coef=%.3f)", effect.Coefficient)
	}
}

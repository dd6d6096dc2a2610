package guard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chronokv/chronokv/internal/model"
)

// Evaluate runs a single guard against a proposed value and returns its
// verdict plus a human-readable reason. Dispatch is a switch over
// model.GuardKind — the tagged-variant shape spec.md's design notes call
// for (no reflection, no interface-per-variant needed for three cases).
func Evaluate(g model.Guard, value string) (model.GuardVerdict, string) {
	switch g.Kind {
	case model.GuardRangeInt:
		return evaluateRangeInt(g, value)
	case model.GuardEnum:
		return evaluateEnum(g, value)
	case model.GuardLength:
		return evaluateLength(g, value)
	default:
		return model.Accept, ""
	}
}

// Alternatives synthesizes candidate replacement values for a value a guard
// did not accept.
func Alternatives(g model.Guard, value string) []model.Alternative {
	switch g.Kind {
	case model.GuardRangeInt:
		return alternativesRangeInt(g, value)
	case model.GuardEnum:
		return alternativesEnum(g, value)
	case model.GuardLength:
		return alternativesLength(g, value)
	default:
		return nil
	}
}

func evaluateRangeInt(g model.Guard, value string) (model.GuardVerdict, string) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return model.Reject, fmt.Sprintf("%q is not a valid integer", value)
	}
	if v < g.RangeIntMin {
		return model.CounterOffer, fmt.Sprintf("value %d is below the minimum %d", v, g.RangeIntMin)
	}
	if v > g.RangeIntMax {
		return model.CounterOffer, fmt.Sprintf("value %d is above the maximum %d", v, g.RangeIntMax)
	}
	return model.Accept, ""
}

func alternativesRangeInt(g model.Guard, value string) []model.Alternative {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		mid := g.RangeIntMin + (g.RangeIntMax-g.RangeIntMin)/2
		return []model.Alternative{
			{Value: strconv.FormatInt(g.RangeIntMin, 10), Explanation: "Minimum allowed value"},
			{Value: strconv.FormatInt(mid, 10), Explanation: "Midpoint of allowed range"},
			{Value: strconv.FormatInt(g.RangeIntMax, 10), Explanation: "Maximum allowed value"},
		}
	}

	span := g.RangeIntMax - g.RangeIntMin
	if v < g.RangeIntMin {
		alts := []model.Alternative{
			{Value: strconv.FormatInt(g.RangeIntMin, 10), Explanation: "Minimum allowed value"},
		}
		if g.RangeIntMax > g.RangeIntMin {
			conservative := g.RangeIntMin + span/4
			alts = append(alts, model.Alternative{
				Value:       strconv.FormatInt(conservative, 10),
				Explanation: "Conservative value within range",
			})
		}
		return alts
	}

	// v > g.RangeIntMax
	alts := []model.Alternative{
		{Value: strconv.FormatInt(g.RangeIntMax, 10), Explanation: "Maximum allowed value"},
	}
	if g.RangeIntMax > g.RangeIntMin {
		conservative := g.RangeIntMax - span/4
		alts = append(alts, model.Alternative{
			Value:       strconv.FormatInt(conservative, 10),
			Explanation: "Conservative value within range",
		})
	}
	return alts
}

func evaluateEnum(g model.Guard, value string) (model.GuardVerdict, string) {
	for _, allowed := range g.EnumValues {
		if allowed == value {
			return model.Accept, ""
		}
	}
	return model.CounterOffer, fmt.Sprintf("value %q is not one of the allowed values: %s", value, strings.Join(g.EnumValues, ", "))
}

func alternativesEnum(g model.Guard, value string) []model.Alternative {
	var alts []model.Alternative
	seen := make(map[string]bool)
	lowerValue := strings.ToLower(value)

	// Pass 1: case-insensitive exact matches.
	for _, allowed := range g.EnumValues {
		if seen[allowed] {
			continue
		}
		if strings.EqualFold(allowed, value) {
			alts = append(alts, model.Alternative{Value: allowed, Explanation: "Case-corrected"})
			seen[allowed] = true
		}
	}

	// Pass 2: substring similarity, either direction.
	for _, allowed := range g.EnumValues {
		if seen[allowed] {
			continue
		}
		lowerAllowed := strings.ToLower(allowed)
		if strings.Contains(lowerValue, lowerAllowed) || strings.Contains(lowerAllowed, lowerValue) {
			alts = append(alts, model.Alternative{Value: allowed, Explanation: "Similar to proposed value"})
			seen[allowed] = true
		}
	}

	// Pass 3: fall back to the first few allowed values.
	if len(alts) == 0 {
		for i, allowed := range g.EnumValues {
			if i >= 3 {
				break
			}
			alts = append(alts, model.Alternative{Value: allowed, Explanation: "Allowed value"})
		}
	}

	return alts
}

func evaluateLength(g model.Guard, value string) (model.GuardVerdict, string) {
	n := len(value)
	if n < g.LengthMin {
		return model.CounterOffer, fmt.Sprintf("value length %d is below the minimum %d", n, g.LengthMin)
	}
	if n > g.LengthMax {
		return model.CounterOffer, fmt.Sprintf("value length %d is above the maximum %d", n, g.LengthMax)
	}
	return model.Accept, ""
}

func alternativesLength(g model.Guard, value string) []model.Alternative {
	n := len(value)

	if n < g.LengthMin {
		padded := value + strings.Repeat("*", g.LengthMin-n)
		return []model.Alternative{
			{Value: padded, Explanation: "Padded to minimum length"},
		}
	}

	// n > g.LengthMax
	alts := []model.Alternative{
		{Value: value[:g.LengthMax], Explanation: "Truncated to maximum length"},
	}
	if g.LengthMax > 5 {
		conservativeLen := g.LengthMax * 4 / 5
		alts = append(alts, model.Alternative{
			Value:       value[:conservativeLen],
			Explanation: "Conservative truncation",
		})
	}
	return alts
}

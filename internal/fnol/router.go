package fnol

import (
	"errors"
	"strconv"
	"strings"
)

// Route labels
const (
	RouteManualReview  = "Manual review"
	RouteInvestigation = "Investigation Flag"
	RouteFastTrack     = "Fast-track"
	RouteStandard      = "Standard Processing"
)

// FastTrackThreshold is the estimated damage below which a clean claim is fast-tracked
const FastTrackThreshold = 25000.0

// fraudIndicators are matched as lower-case substrings of the incident description
var fraudIndicators = []string{"fraud", "inconsistent", "staged"}

// RoutingDecision is the recommended handling of a claim
type RoutingDecision struct {
	Route     string `json:"recommendedRoute"`
	Reasoning string `json:"reasoning"`
}

// Route applies the routing rules in priority order and returns the first that matches
func Route(fields CanonicalFieldSet, missing []string) RoutingDecision {
	if len(missing) > 0 {
		return RoutingDecision{
			Route:     RouteManualReview,
			Reasoning: "Mandatory fields missing: " + strings.Join(missing, ", "),
		}
	}

	if HasFraudIndicator(fields[FieldIncidentDescription]) {
		return RoutingDecision{
			Route:     RouteInvestigation,
			Reasoning: "Incident description contains potential fraud indicators",
		}
	}

	damage, _ := ParseDamage(fields[FieldEstimatedDamage])
	if damage < FastTrackThreshold {
		return RoutingDecision{
			Route:     RouteFastTrack,
			Reasoning: "Estimated damage below 25,000",
		}
	}

	return RoutingDecision{
		Route:     RouteStandard,
		Reasoning: "Estimated damage exceeds fast-track threshold",
	}
}

// HasFraudIndicator reports whether description mentions any fraud keyword
func HasFraudIndicator(description string) bool {
	lower := strings.ToLower(description)
	for _, word := range fraudIndicators {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// ParseDamage parses an estimated damage amount as a decimal number.
// Anything unparseable, including an empty value or a hexadecimal float,
// yields 0 with ok=false. Out-of-range values saturate to +/-Inf.
func ParseDamage(value string) (amount float64, ok bool) {
	value = strings.TrimSpace(value)
	if isHexLiteral(value) {
		return 0, false
	}

	amount, err := strconv.ParseFloat(value, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return amount, true
}

// isHexLiteral reports a 0x/0X prefix after an optional sign
func isHexLiteral(value string) bool {
	value = strings.TrimLeft(value, "+-")
	return len(value) >= 2 && value[0] == '0' && (value[1] == 'x' || value[1] == 'X')
}

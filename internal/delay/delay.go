// Package delay holds the pure delay-analysis functions. No I/O and no
// external state, so the functions are safe to call from inside workflow
// code.
package delay

import (
	"fmt"
)

// Severity classifies a delay for reporting. It never affects control flow.
type Severity string

const (
	SeverityNone     Severity = "NONE"
	SeverityMinimal  Severity = "MINIMAL"
	SeverityLow      Severity = "LOW"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Compute returns the delay in whole minutes relative to the baseline,
// clamped at zero.
func Compute(currentMinutes, baselineMinutes int) (int, error) {
	if baselineMinutes <= 0 {
		return 0, fmt.Errorf("baseline must be positive, got %d", baselineMinutes)
	}
	if currentMinutes < 0 {
		return 0, fmt.Errorf("current travel time must be non-negative, got %d", currentMinutes)
	}
	d := currentMinutes - baselineMinutes
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

// ExceedsThreshold reports whether the delay is strictly greater than the
// threshold. A delay equal to the threshold does not trigger notification.
func ExceedsThreshold(delayMinutes, thresholdMinutes int) (bool, error) {
	if delayMinutes < 0 {
		return false, fmt.Errorf("delay must be non-negative, got %d", delayMinutes)
	}
	if thresholdMinutes <= 0 {
		return false, fmt.Errorf("threshold must be positive, got %d", thresholdMinutes)
	}
	return delayMinutes > thresholdMinutes, nil
}

// Classify maps a delay to its severity band.
func Classify(delayMinutes int) Severity {
	switch {
	case delayMinutes <= 0:
		return SeverityNone
	case delayMinutes <= 10:
		return SeverityMinimal
	case delayMinutes < 20:
		return SeverityLow
	case delayMinutes <= 30:
		return SeverityModerate
	case delayMinutes <= 60:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// Drift reports whether the recomputed delay disagrees with the
// provider-supplied figure by more than one minute. The recomputed value is
// authoritative either way; callers log the drift and move on.
func Drift(recomputed, reported int) bool {
	diff := recomputed - reported
	if diff < 0 {
		diff = -diff
	}
	return diff > 1
}

package engine

// severityPoints maps each severity to its contribution to the risk score.
// Unknown severities contribute nothing.
var severityPoints = map[Severity]int{
	SeverityCritical: 10,
	SeverityHigh:     7,
	SeverityMedium:   4,
	SeverityLow:      2,
}

// RiskScore sums the severity-weighted points across all findings.
func RiskScore(findings []Finding) int {
	score := 0
	for _, f := range findings {
		score += severityPoints[f.Severity]
	}
	return score
}

// ClassifyRisk maps a risk score to a discrete risk level.
// Boundaries are inclusive: 20 is CRITICAL, 10 is HIGH, 5 is MEDIUM.
func ClassifyRisk(score int) Severity {
	switch {
	case score >= 20:
		return SeverityCritical
	case score >= 10:
		return SeverityHigh
	case score >= 5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

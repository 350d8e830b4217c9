package model

// Severity is the log level attached to a request event.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityDebug    Severity = "DEBUG"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// severityOrder is the fixed column order used by every report.
var severityOrder = [...]Severity{
	SeverityInfo,
	SeverityDebug,
	SeverityWarning,
	SeverityError,
	SeverityCritical,
}

// Severities returns all severities in display order.
func Severities() []Severity {
	out := make([]Severity, len(severityOrder))
	copy(out, severityOrder[:])
	return out
}

// ParseSeverity maps an exact level literal to a Severity.
// Matching is case-sensitive: "warning" and "WARN" are not severities.
func ParseSeverity(s string) (Severity, bool) {
	for _, lvl := range severityOrder {
		if string(lvl) == s {
			return lvl, true
		}
	}
	return "", false
}

func (s Severity) String() string { return string(s) }

package diag

// Severity represents the severity of a diagnostic record.
// Lower ordinals are more severe. The zero value means the severity
// was never set, which is distinct from every defined level.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return "unset"
	}
}

// Valid reports whether s is one of the defined severity levels.
func (s Severity) Valid() bool {
	return s >= SeverityError && s <= SeverityHint
}

// AtLeast reports whether s is at least as severe as threshold.
// An unset severity is never at least as severe as anything.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Valid() && s <= threshold
}

// ParseSeverity parses a severity name. It accepts the common short
// forms tools use in their output.
func ParseSeverity(name string) (Severity, bool) {
	switch name {
	case "error", "err":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "information", "info":
		return SeverityInformation, true
	case "hint":
		return SeverityHint, true
	default:
		return 0, false
	}
}

// SeverityMap translates tool-native severity labels into Severity values.
// Interpretation of a tool's labels belongs to its transformer; the map is
// carried on the specification so transformers can share one table.
type SeverityMap map[string]Severity

// Map returns the severity mapped to key, or fallback when the key
// has no mapping.
func (m SeverityMap) Map(key string, fallback Severity) Severity {
	if sev, ok := m[key]; ok {
		return sev
	}
	return fallback
}

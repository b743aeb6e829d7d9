package domain

// RiskLevel grades a matched danger pattern.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Warning is a single advisory finding about generated code.
type Warning struct {
	Level   RiskLevel
	Message string
}

// Inspection is advisory only; it never blocks execution.
type Inspection struct {
	ParseError string
	Warnings   []Warning
}

// Clean reports whether the inspection found nothing to show.
func (i Inspection) Clean() bool {
	return i.ParseError == "" && len(i.Warnings) == 0
}

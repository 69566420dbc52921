package model

import "strings"

// ErrorKind classifies a validation failure
type ErrorKind string

const (
	ErrorInvalidFormat         ErrorKind = "invalid_format"
	ErrorMissingField          ErrorKind = "missing_field"
	ErrorOutOfRange            ErrorKind = "out_of_range"
	ErrorDuplicate             ErrorKind = "duplicate"
	ErrorInvalidReference      ErrorKind = "invalid_reference"
	ErrorDataInconsistency     ErrorKind = "data_inconsistency"
	ErrorBusinessRuleViolation ErrorKind = "business_rule_violation"
)

// Severity ranks how serious a validation failure is
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Level returns the numeric rank of the severity, higher is more severe
func (s Severity) Level() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// MoreSevereThan compares two severities by rank
func (s Severity) MoreSevereThan(other Severity) bool {
	return s.Level() > other.Level()
}

// Gender is the enumerated gender domain
type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderOther   Gender = "OTHER"
	GenderUnknown Gender = ""
)

// genderDisplayNames maps symbolic values to display names
var genderDisplayNames = map[Gender]string{
	GenderMale:   "Male",
	GenderFemale: "Female",
	GenderOther:  "Other",
}

// DisplayName returns the human-readable form of the gender
func (g Gender) DisplayName() string {
	return genderDisplayNames[g]
}

// GenderFromString parses free text into a Gender. Matching is
// case-insensitive against both the display name and the symbolic name.
// Unrecognized text maps to GenderUnknown rather than raising an error.
func GenderFromString(value string) Gender {
	for g, display := range genderDisplayNames {
		if strings.EqualFold(value, display) || strings.EqualFold(value, string(g)) {
			return g
		}
	}
	return GenderUnknown
}

// StudentStatus is the enumerated enrollment status domain
type StudentStatus string

const (
	StatusActive    StudentStatus = "ACTIVE"
	StatusInactive  StudentStatus = "INACTIVE"
	StatusSuspended StudentStatus = "SUSPENDED"
	StatusGraduated StudentStatus = "GRADUATED"
	StatusUnknown   StudentStatus = ""
)

// statusDisplayNames maps symbolic values to display names
var statusDisplayNames = map[StudentStatus]string{
	StatusActive:    "Active",
	StatusInactive:  "Inactive",
	StatusSuspended: "Suspended",
	StatusGraduated: "Graduated",
}

// DisplayName returns the human-readable form of the status
func (s StudentStatus) DisplayName() string {
	return statusDisplayNames[s]
}

// StatusFromString parses free text into a StudentStatus, case-insensitive
// on display or symbolic name. Unrecognized text maps to StatusUnknown.
func StatusFromString(value string) StudentStatus {
	for s, display := range statusDisplayNames {
		if strings.EqualFold(value, display) || strings.EqualFold(value, string(s)) {
			return s
		}
	}
	return StatusUnknown
}

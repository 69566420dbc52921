package model

import "time"

// ValidationError describes one failure raised by a validation rule.
// Immutable once constructed.
type ValidationError struct {
	ErrorType      ErrorKind `json:"error_type"`
	ErrorField     string    `json:"error_field"`
	ErrorMessage   string    `json:"error_message"`
	InvalidValue   string    `json:"invalid_value"`
	ValidationRule string    `json:"validation_rule"`
	Severity       Severity  `json:"severity"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewValidationError constructs a ValidationError stamped with the current time
func NewValidationError(kind ErrorKind, field, message, invalidValue, rule string, severity Severity) ValidationError {
	return ValidationError{
		ErrorType:      kind,
		ErrorField:     field,
		ErrorMessage:   message,
		InvalidValue:   invalidValue,
		ValidationRule: rule,
		Severity:       severity,
		Timestamp:      time.Now(),
	}
}

// ValidationResult aggregates the outcome of one chain pass over a record.
// The validity flag is true iff the error list is empty; AddError is the only
// mutation point so the invariant cannot be broken from outside.
type ValidationResult struct {
	RawData             *RawStudent       `json:"raw_data"`
	IsValid             bool              `json:"is_valid"`
	Errors              []ValidationError `json:"errors"`
	ValidationTimestamp time.Time         `json:"validation_timestamp"`
}

// NewValidationResult starts a result for one record, valid until proven otherwise
func NewValidationResult(raw *RawStudent) *ValidationResult {
	return &ValidationResult{
		RawData:             raw,
		IsValid:             true,
		Errors:              []ValidationError{},
		ValidationTimestamp: time.Now(),
	}
}

// AddError appends a failure and flips the validity flag
func (r *ValidationResult) AddError(err ValidationError) {
	r.Errors = append(r.Errors, err)
	r.IsValid = false
}

// HasErrors reports whether any rule recorded a failure
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorCount returns the number of recorded failures
func (r *ValidationResult) ErrorCount() int {
	return len(r.Errors)
}

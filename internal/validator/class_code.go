package validator

import (
	"regexp"

	"github.com/bxt04/studentpipe/internal/model"
)

// classCodePattern: two letters + two digits + one letter + two digits,
// e.g. SE01K01
var classCodePattern = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z]\d{2}$`)

// ClassCodeRule checks the class code format
type ClassCodeRule struct{}

// Name implements Rule
func (ClassCodeRule) Name() string { return "ClassCodeFormatRule" }

// Check implements Rule
func (r ClassCodeRule) Check(rec *model.RawStudent, res *model.ValidationResult) {
	if isBlank(rec.ClassCode) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "class_code",
			"Class code is required", rec.ClassCode, r.Name(), model.SeverityHigh))
		return
	}

	if !classCodePattern.MatchString(rec.ClassCode) {
		res.AddError(model.NewValidationError(model.ErrorInvalidFormat, "class_code",
			"Class code must match format: 2 letters + 2 digits + 1 letter + 2 digits (e.g., SE01K01)",
			rec.ClassCode, r.Name(), model.SeverityHigh))
	}
}

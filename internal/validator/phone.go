package validator

import (
	"regexp"
	"strings"

	"github.com/bxt04/studentpipe/internal/model"
)

// phonePattern matches a leading 0 or +84 followed by exactly 9 digits
var phonePattern = regexp.MustCompile(`^(0|\+84)\d{9}$`)

// PhoneRule checks the phone number after stripping separators
type PhoneRule struct{}

// Name implements Rule
func (PhoneRule) Name() string { return "PhoneFormatRule" }

// Check implements Rule
func (r PhoneRule) Check(rec *model.RawStudent, res *model.ValidationResult) {
	if isBlank(rec.Phone) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "phone",
			"Phone number is required", rec.Phone, r.Name(), model.SeverityHigh))
		return
	}

	// Spaces and dashes are formatting noise, not defects
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(rec.Phone)

	if !phonePattern.MatchString(cleaned) {
		res.AddError(model.NewValidationError(model.ErrorInvalidFormat, "phone",
			"Phone number must be 10 digits starting with 0 or +84 (e.g., 0901234567)",
			rec.Phone, r.Name(), model.SeverityHigh))
	}
}

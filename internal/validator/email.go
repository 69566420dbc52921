package validator

import (
	"regexp"

	"github.com/bxt04/studentpipe/internal/model"
)

// emailMaxLength bounds the stored email column
const emailMaxLength = 255

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// EmailRule checks email presence, format and length
type EmailRule struct{}

// Name implements Rule
func (EmailRule) Name() string { return "EmailFormatRule" }

// Check implements Rule
func (r EmailRule) Check(rec *model.RawStudent, res *model.ValidationResult) {
	if isBlank(rec.Email) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "email",
			"Email is required", rec.Email, r.Name(), model.SeverityCritical))
		return
	}

	if !emailPattern.MatchString(rec.Email) {
		res.AddError(model.NewValidationError(model.ErrorInvalidFormat, "email",
			"Email format is invalid (e.g., user@domain.com)",
			rec.Email, r.Name(), model.SeverityHigh))
	}

	if len(rec.Email) > emailMaxLength {
		res.AddError(model.NewValidationError(model.ErrorOutOfRange, "email",
			"Email is too long (max 255 characters)",
			rec.Email, r.Name(), model.SeverityMedium))
	}
}

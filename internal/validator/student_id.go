package validator

import (
	"regexp"

	"github.com/bxt04/studentpipe/internal/model"
)

// studentIDPattern accepts any two uppercase letters followed by an
// eight-digit sequence, e.g. SV20210001.
var studentIDPattern = regexp.MustCompile(`^[A-Z]{2}\d{8}$`)

// StudentIDRule checks the student identifier format
type StudentIDRule struct{}

// Name implements Rule
func (StudentIDRule) Name() string { return "StudentIdFormatRule" }

// Check implements Rule
func (r StudentIDRule) Check(rec *model.RawStudent, res *model.ValidationResult) {
	if isBlank(rec.StudentID) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "student_id",
			"Student ID is required", rec.StudentID, r.Name(), model.SeverityCritical))
		return
	}

	if !studentIDPattern.MatchString(rec.StudentID) {
		res.AddError(model.NewValidationError(model.ErrorInvalidFormat, "student_id",
			"Student ID must match format: 2 letters + 8 digits (e.g., SV20210001)",
			rec.StudentID, r.Name(), model.SeverityHigh))
	}
}

package validator

import "github.com/bxt04/studentpipe/internal/model"

// RequiredFieldsRule checks the presence of the plain required fields.
// Each missing field yields its own failure with a field-specific severity.
type RequiredFieldsRule struct{}

// Name implements Rule
func (RequiredFieldsRule) Name() string { return "RequiredFieldsRule" }

// Check implements Rule
func (r RequiredFieldsRule) Check(rec *model.RawStudent, res *model.ValidationResult) {
	if isBlank(rec.FullName) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "full_name",
			"Full name is required", rec.FullName, r.Name(), model.SeverityCritical))
	}

	if isBlank(rec.Gender) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "gender",
			"Gender is required", rec.Gender, r.Name(), model.SeverityHigh))
	}

	if isBlank(rec.Major) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "major",
			"Major is required", rec.Major, r.Name(), model.SeverityMedium))
	}

	if isBlank(rec.Faculty) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "faculty",
			"Faculty is required", rec.Faculty, r.Name(), model.SeverityMedium))
	}

	if isBlank(rec.Status) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "status",
			"Status is required", rec.Status, r.Name(), model.SeverityMedium))
	}
}

package validator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bxt04/studentpipe/internal/model"
)

// GPA bounds, inclusive on both ends
var (
	minGPA = decimal.NewFromFloat(0.0)
	maxGPA = decimal.NewFromFloat(4.0)
)

// GPARule checks that GPA parses as a decimal and lies in [0.0, 4.0]
type GPARule struct{}

// Name implements Rule
func (GPARule) Name() string { return "GPARangeRule" }

// Check implements Rule
func (r GPARule) Check(rec *model.RawStudent, res *model.ValidationResult) {
	if isBlank(rec.GPA) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "gpa",
			"GPA is required", rec.GPA, r.Name(), model.SeverityHigh))
		return
	}

	gpa, err := decimal.NewFromString(strings.TrimSpace(rec.GPA))
	if err != nil {
		res.AddError(model.NewValidationError(model.ErrorInvalidFormat, "gpa",
			"GPA must be a number (e.g., 3.45)", rec.GPA, r.Name(), model.SeverityHigh))
		return
	}

	if gpa.LessThan(minGPA) {
		res.AddError(model.NewValidationError(model.ErrorOutOfRange, "gpa",
			"GPA cannot be less than 0.0", rec.GPA, r.Name(), model.SeverityHigh))
	} else if gpa.GreaterThan(maxGPA) {
		res.AddError(model.NewValidationError(model.ErrorOutOfRange, "gpa",
			"GPA cannot be greater than 4.0", rec.GPA, r.Name(), model.SeverityHigh))
	}
}

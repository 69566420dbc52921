package validator

import (
	"fmt"
	"time"

	"github.com/bxt04/studentpipe/internal/model"
)

// Student age bounds in whole years
const (
	minStudentAge = 17
	maxStudentAge = 30
)

// DateOfBirthRule checks date format, future dates, and the age range
type DateOfBirthRule struct{}

// Name implements Rule
func (DateOfBirthRule) Name() string { return "DateOfBirthRule" }

// Check implements Rule
func (r DateOfBirthRule) Check(rec *model.RawStudent, res *model.ValidationResult) {
	if isBlank(rec.DateOfBirth) {
		res.AddError(model.NewValidationError(model.ErrorMissingField, "date_of_birth",
			"Date of birth is required", rec.DateOfBirth, r.Name(), model.SeverityCritical))
		return
	}

	dob, err := time.Parse(model.DateFormat, rec.DateOfBirth)
	if err != nil {
		res.AddError(model.NewValidationError(model.ErrorInvalidFormat, "date_of_birth",
			"Date of birth must be in format yyyy-MM-dd (e.g., 2003-05-15)",
			rec.DateOfBirth, r.Name(), model.SeverityHigh))
		return
	}

	now := time.Now()
	if dob.After(now) {
		res.AddError(model.NewValidationError(model.ErrorBusinessRuleViolation, "date_of_birth",
			"Date of birth cannot be in the future",
			rec.DateOfBirth, r.Name(), model.SeverityHigh))
		return
	}

	age := ageInYears(dob, now)
	if age < minStudentAge {
		res.AddError(model.NewValidationError(model.ErrorOutOfRange, "date_of_birth",
			fmt.Sprintf("Student is too young (age: %d, minimum: %d)", age, minStudentAge),
			rec.DateOfBirth, r.Name(), model.SeverityHigh))
	} else if age > maxStudentAge {
		res.AddError(model.NewValidationError(model.ErrorOutOfRange, "date_of_birth",
			fmt.Sprintf("Student is too old (age: %d, maximum: %d)", age, maxStudentAge),
			rec.DateOfBirth, r.Name(), model.SeverityMedium))
	}
}

// ageInYears computes the number of whole years between dob and now
func ageInYears(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	// Birthday not reached yet this year
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

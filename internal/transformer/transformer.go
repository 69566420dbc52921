package transformer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bxt04/studentpipe/internal/model"
)

// Transform converts a validated raw record plus a resolved class id into a
// typed Student entity. Records reaching this point already passed the
// validation chain, so a parse failure signals a pipeline inconsistency and
// is returned as an error instead of producing a partial entity.
func Transform(raw *model.RawStudent, classID int) (*model.Student, error) {
	dob, err := model.ParseDate(raw.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("transform student %s: invalid date of birth %q: %w", raw.StudentID, raw.DateOfBirth, err)
	}

	var enrollment model.Date
	if !isBlank(raw.EnrollmentDate) {
		enrollment, err = model.ParseDate(raw.EnrollmentDate)
		if err != nil {
			return nil, fmt.Errorf("transform student %s: invalid enrollment date %q: %w", raw.StudentID, raw.EnrollmentDate, err)
		}
	}

	gpa, err := decimal.NewFromString(strings.TrimSpace(raw.GPA))
	if err != nil {
		return nil, fmt.Errorf("transform student %s: invalid gpa %q: %w", raw.StudentID, raw.GPA, err)
	}

	credits := 0
	if !isBlank(raw.TotalCredits) {
		credits, err = strconv.Atoi(strings.TrimSpace(raw.TotalCredits))
		if err != nil {
			return nil, fmt.Errorf("transform student %s: invalid total credits %q: %w", raw.StudentID, raw.TotalCredits, err)
		}
	}

	// Enum text outside the domain maps to the unknown value, never an
	// error; the chain already flagged anything the business cares about.
	return &model.Student{
		StudentID:      raw.StudentID,
		FullName:       raw.FullName,
		DateOfBirth:    dob,
		Gender:         model.GenderFromString(raw.Gender),
		Email:          raw.Email,
		Phone:          raw.Phone,
		Address:        raw.Address,
		City:           raw.City,
		Province:       raw.Province,
		PostalCode:     raw.PostalCode,
		ClassID:        classID,
		EnrollmentDate: enrollment,
		GPA:            gpa,
		TotalCredits:   credits,
		Status:         model.StatusFromString(raw.Status),
	}, nil
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

package validator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bxt04/studentpipe/internal/model"
)

type fakeLookup map[string]int

func (f fakeLookup) ClassID(code string) (int, bool) {
	id, ok := f[code]
	return id, ok
}

var classes = fakeLookup{"CS21A01": 1, "SE22A01": 2}

// validRecord returns a record every rule accepts. The date of birth is
// derived from the clock so the age check stays inside its window.
func validRecord() *model.RawStudent {
	dob := time.Now().AddDate(-20, 0, 0).Format(model.DateFormat)
	return &model.RawStudent{
		StudentID:      "SV20210001",
		FullName:       "Nguyen Van An",
		DateOfBirth:    dob,
		Gender:         "MALE",
		Email:          "an.nguyen@example.edu.vn",
		Phone:          "0901234567",
		Address:        "12 Ly Thuong Kiet",
		City:           "Hanoi",
		Province:       "Hanoi",
		PostalCode:     "100000",
		ClassCode:      "CS21A01",
		Major:          "Computer Science",
		Faculty:        "Information Technology",
		AcademicYear:   "2021-2025",
		EnrollmentDate: "2021-09-05",
		GPA:            "3.45",
		TotalCredits:   "120",
		Status:         "ACTIVE",
	}
}

func findErrors(res *model.ValidationResult, field string) []model.ValidationError {
	var out []model.ValidationError
	for _, e := range res.Errors {
		if e.ErrorField == field {
			out = append(out, e)
		}
	}
	return out
}

func TestChainValidRecord(t *testing.T) {
	rec := validRecord()
	res := NewStudentChain(classes).Run(rec)

	require.True(t, res.IsValid)
	require.Empty(t, res.Errors)
	require.False(t, res.HasErrors())
	require.Same(t, rec, res.RawData)
}

func TestChainRuleCount(t *testing.T) {
	assert.Equal(t, 8, NewStudentChain(classes).Len())
	assert.Equal(t, 7, NewStudentChain(nil).Len())
}

func TestChainCollectsAllFailures(t *testing.T) {
	rec := validRecord()
	rec.StudentID = "bad"
	rec.Email = "not-an-email"
	rec.GPA = "4.5"

	res := NewStudentChain(classes).Run(rec)

	require.False(t, res.IsValid)
	require.Equal(t, 3, res.ErrorCount())

	// Failure order follows rule order
	assert.Equal(t, "student_id", res.Errors[0].ErrorField)
	assert.Equal(t, "email", res.Errors[1].ErrorField)
	assert.Equal(t, "gpa", res.Errors[2].ErrorField)
}

func TestChainValidityMatchesErrorList(t *testing.T) {
	records := []*model.RawStudent{
		validRecord(),
		{},
		{StudentID: "SV20210001"},
	}
	chain := NewStudentChain(classes)

	for _, rec := range records {
		res := chain.Run(rec)
		assert.Equal(t, len(res.Errors) == 0, res.IsValid)
	}
}

func TestChainRepeatableOutcome(t *testing.T) {
	rec := validRecord()
	rec.Email = "broken"
	rec.GPA = "-1"
	chain := NewStudentChain(classes)

	first := chain.Run(rec)
	second := chain.Run(rec)

	require.Equal(t, first.IsValid, second.IsValid)
	require.Equal(t, first.ErrorCount(), second.ErrorCount())
	for i := range first.Errors {
		assert.Equal(t, first.Errors[i].ErrorType, second.Errors[i].ErrorType)
		assert.Equal(t, first.Errors[i].ErrorField, second.Errors[i].ErrorField)
		assert.Equal(t, first.Errors[i].ErrorMessage, second.Errors[i].ErrorMessage)
		assert.Equal(t, first.Errors[i].Severity, second.Errors[i].Severity)
	}
}

func TestRequiredFieldsRule(t *testing.T) {
	rec := validRecord()
	rec.FullName = "   "
	rec.Gender = ""
	rec.Major = ""
	rec.Faculty = ""
	rec.Status = ""

	res := NewStudentChain(classes).Run(rec)

	require.False(t, res.IsValid)
	require.Len(t, findErrors(res, "full_name"), 1)
	assert.Equal(t, model.SeverityCritical, findErrors(res, "full_name")[0].Severity)
	assert.Equal(t, model.SeverityHigh, findErrors(res, "gender")[0].Severity)
	assert.Equal(t, model.SeverityMedium, findErrors(res, "major")[0].Severity)
	assert.Equal(t, model.SeverityMedium, findErrors(res, "faculty")[0].Severity)
	assert.Equal(t, model.SeverityMedium, findErrors(res, "status")[0].Severity)
	for _, e := range res.Errors {
		assert.Equal(t, model.ErrorMissingField, e.ErrorType)
	}
}

func TestStudentIDRule(t *testing.T) {
	cases := []struct {
		id    string
		kind  model.ErrorKind
		valid bool
	}{
		{"SV20210001", "", true},
		{"AB12345678", "", true},
		{"", model.ErrorMissingField, false},
		{"sv20210001", model.ErrorInvalidFormat, false},
		{"SV2021001", model.ErrorInvalidFormat, false},
		{"SV202100011", model.ErrorInvalidFormat, false},
		{"S120210001", model.ErrorInvalidFormat, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("id=%q", tc.id), func(t *testing.T) {
			rec := validRecord()
			rec.StudentID = tc.id
			res := NewStudentChain(classes).Run(rec)

			errs := findErrors(res, "student_id")
			if tc.valid {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tc.kind, errs[0].ErrorType)
			assert.Equal(t, "StudentIdFormatRule", errs[0].ValidationRule)
		})
	}
}

func TestEmailRule(t *testing.T) {
	t.Run("missing is critical", func(t *testing.T) {
		rec := validRecord()
		rec.Email = ""
		errs := findErrors(NewStudentChain(classes).Run(rec), "email")
		require.Len(t, errs, 1)
		assert.Equal(t, model.ErrorMissingField, errs[0].ErrorType)
		assert.Equal(t, model.SeverityCritical, errs[0].Severity)
	})

	t.Run("malformed", func(t *testing.T) {
		rec := validRecord()
		rec.Email = "no-at-sign.example.com"
		errs := findErrors(NewStudentChain(classes).Run(rec), "email")
		require.Len(t, errs, 1)
		assert.Equal(t, model.ErrorInvalidFormat, errs[0].ErrorType)
	})

	t.Run("overlong address raises both failures", func(t *testing.T) {
		local := make([]byte, 260)
		for i := range local {
			local[i] = 'a'
		}
		rec := validRecord()
		rec.Email = string(local) + "@@"

		errs := findErrors(NewStudentChain(classes).Run(rec), "email")
		require.Len(t, errs, 2)
		assert.Equal(t, model.ErrorInvalidFormat, errs[0].ErrorType)
		assert.Equal(t, model.ErrorOutOfRange, errs[1].ErrorType)
	})
}

func TestPhoneRule(t *testing.T) {
	valid := []string{"0901234567", "+84901234567", "090-123-4567", "090 123 4567"}
	for _, phone := range valid {
		rec := validRecord()
		rec.Phone = phone
		res := NewStudentChain(classes).Run(rec)
		assert.Empty(t, findErrors(res, "phone"), "phone %q should pass", phone)
	}

	invalid := []string{"12345", "84901234567", "090123456", "09012345678"}
	for _, phone := range invalid {
		rec := validRecord()
		rec.Phone = phone
		errs := findErrors(NewStudentChain(classes).Run(rec), "phone")
		require.Len(t, errs, 1, "phone %q should fail", phone)
		assert.Equal(t, model.ErrorInvalidFormat, errs[0].ErrorType)
	}
}

func TestDateOfBirthRule(t *testing.T) {
	run := func(dob string) []model.ValidationError {
		rec := validRecord()
		rec.DateOfBirth = dob
		return findErrors(NewStudentChain(classes).Run(rec), "date_of_birth")
	}

	t.Run("missing", func(t *testing.T) {
		errs := run("")
		require.Len(t, errs, 1)
		assert.Equal(t, model.ErrorMissingField, errs[0].ErrorType)
		assert.Equal(t, model.SeverityCritical, errs[0].Severity)
	})

	t.Run("wrong format", func(t *testing.T) {
		errs := run("15/05/2003")
		require.Len(t, errs, 1)
		assert.Equal(t, model.ErrorInvalidFormat, errs[0].ErrorType)
	})

	t.Run("future date", func(t *testing.T) {
		future := time.Now().AddDate(1, 0, 0).Format(model.DateFormat)
		errs := run(future)
		require.Len(t, errs, 1)
		assert.Equal(t, model.ErrorBusinessRuleViolation, errs[0].ErrorType)
	})

	t.Run("too young", func(t *testing.T) {
		young := time.Now().AddDate(-16, 0, 0).Format(model.DateFormat)
		errs := run(young)
		require.Len(t, errs, 1)
		assert.Equal(t, model.ErrorOutOfRange, errs[0].ErrorType)
		assert.Equal(t, model.SeverityHigh, errs[0].Severity)
	})

	t.Run("too old", func(t *testing.T) {
		old := time.Now().AddDate(-31, 0, -1).Format(model.DateFormat)
		errs := run(old)
		require.Len(t, errs, 1)
		assert.Equal(t, model.ErrorOutOfRange, errs[0].ErrorType)
		assert.Equal(t, model.SeverityMedium, errs[0].Severity)
	})

	t.Run("age window boundaries", func(t *testing.T) {
		exactly17 := time.Now().AddDate(-17, 0, 0).Format(model.DateFormat)
		assert.Empty(t, run(exactly17))

		exactly30 := time.Now().AddDate(-30, 0, 0).Format(model.DateFormat)
		assert.Empty(t, run(exactly30))
	})
}

func TestGPARule(t *testing.T) {
	cases := []struct {
		gpa     string
		kind    model.ErrorKind
		message string
	}{
		{"0.0", "", ""},
		{"0.00", "", ""},
		{"0", "", ""},
		{"4.0", "", ""},
		{"4.00", "", ""},
		{"2.75", "", ""},
		{"3.50", "", ""},
		{"", model.ErrorMissingField, "GPA is required"},
		{"abc", model.ErrorInvalidFormat, "GPA must be a number (e.g., 3.45)"},
		{"-0.01", model.ErrorOutOfRange, "GPA cannot be less than 0.0"},
		{"4.01", model.ErrorOutOfRange, "GPA cannot be greater than 4.0"},
		{"4.50", model.ErrorOutOfRange, "GPA cannot be greater than 4.0"},
		{"10", model.ErrorOutOfRange, "GPA cannot be greater than 4.0"},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("gpa=%q", tc.gpa), func(t *testing.T) {
			rec := validRecord()
			rec.GPA = tc.gpa
			errs := findErrors(NewStudentChain(classes).Run(rec), "gpa")

			if tc.kind == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tc.kind, errs[0].ErrorType)
			assert.Equal(t, tc.message, errs[0].ErrorMessage)
		})
	}
}

func TestClassCodeRule(t *testing.T) {
	rec := validRecord()
	rec.ClassCode = "NOPE"
	errs := findErrors(NewStudentChain(classes).Run(rec), "class_code")
	require.Len(t, errs, 1)
	assert.Equal(t, model.ErrorInvalidFormat, errs[0].ErrorType)

	rec.ClassCode = ""
	errs = findErrors(NewStudentChain(classes).Run(rec), "class_code")
	require.Len(t, errs, 1)
	assert.Equal(t, model.ErrorMissingField, errs[0].ErrorType)
}

func TestClassReferenceRule(t *testing.T) {
	t.Run("known code resolves", func(t *testing.T) {
		res := NewStudentChain(classes).Run(validRecord())
		assert.Empty(t, findErrors(res, "class_code"))
	})

	t.Run("well formed but unknown", func(t *testing.T) {
		rec := validRecord()
		rec.ClassCode = "ZZ99Z99"
		errs := findErrors(NewStudentChain(classes).Run(rec), "class_code")
		require.Len(t, errs, 1)
		assert.Equal(t, model.ErrorInvalidReference, errs[0].ErrorType)
		assert.Equal(t, "ClassReferenceRule", errs[0].ValidationRule)
		assert.Contains(t, errs[0].ErrorMessage, "ZZ99Z99")
	})

	t.Run("malformed code left to the format rule", func(t *testing.T) {
		rec := validRecord()
		rec.ClassCode = "bad"
		errs := findErrors(NewStudentChain(classes).Run(rec), "class_code")
		require.Len(t, errs, 1)
		assert.Equal(t, model.ErrorInvalidFormat, errs[0].ErrorType)
	})
}

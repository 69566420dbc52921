package validator

import (
	"fmt"

	"github.com/bxt04/studentpipe/internal/model"
)

// ClassReferenceRule checks that a well-formed class code actually exists in
// the destination store. Blank or malformed codes are left to
// ClassCodeRule; this rule only judges codes that could plausibly resolve.
// Rejecting unknown codes here keeps the load stage free of fallback
// policy: a record that reaches it always carries a resolvable code.
type ClassReferenceRule struct {
	Lookup ClassLookup
}

// Name implements Rule
func (ClassReferenceRule) Name() string { return "ClassReferenceRule" }

// Check implements Rule
func (r ClassReferenceRule) Check(rec *model.RawStudent, res *model.ValidationResult) {
	if isBlank(rec.ClassCode) || !classCodePattern.MatchString(rec.ClassCode) {
		return
	}

	if _, ok := r.Lookup.ClassID(rec.ClassCode); !ok {
		res.AddError(model.NewValidationError(model.ErrorInvalidReference, "class_code",
			fmt.Sprintf("Class code %s does not exist", rec.ClassCode),
			rec.ClassCode, r.Name(), model.SeverityHigh))
	}
}

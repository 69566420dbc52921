package validator

import (
	"strings"

	"github.com/bxt04/studentpipe/internal/model"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

// Rule is one independent check over a raw record. A rule appends any
// failures it finds to the shared result; it never stops the chain.
type Rule interface {
	// Name identifies the rule in ValidationError.ValidationRule
	Name() string
	// Check inspects the record and records failures on the result
	Check(rec *model.RawStudent, res *model.ValidationResult)
}

// ClassLookup resolves a class code to its id. Satisfied by the loader's
// read-through cache.
type ClassLookup interface {
	ClassID(code string) (int, bool)
}

// Chain is a fixed, ordered list of rules. Every rule runs on every record
// regardless of earlier failures, so a record with several defects is
// diagnosed completely in a single pass instead of round-tripping through
// the pipeline once per defect.
type Chain struct {
	rules []Rule
}

// NewChain builds a chain from an arbitrary ordered list of rules
func NewChain(rules ...Rule) Chain {
	return Chain{rules: rules}
}

// NewStudentChain builds the default student validation chain. The class
// reference rule is appended only when a lookup is available; unit chains
// without store access run the seven format rules alone.
func NewStudentChain(lookup ClassLookup) Chain {
	rules := []Rule{
		RequiredFieldsRule{},
		StudentIDRule{},
		EmailRule{},
		PhoneRule{},
		DateOfBirthRule{},
		GPARule{},
		ClassCodeRule{},
	}
	if lookup != nil {
		rules = append(rules, ClassReferenceRule{Lookup: lookup})
	}

	logger.Debug().Int("rules", len(rules)).Msg("Validation chain built")
	return Chain{rules: rules}
}

// Run traverses the whole chain over one record and returns the aggregated
// outcome. The failure list order matches the rule order.
func (c Chain) Run(rec *model.RawStudent) *model.ValidationResult {
	res := model.NewValidationResult(rec)
	for _, rule := range c.rules {
		rule.Check(rec, res)
	}
	return res
}

// Len returns the number of rules in the chain
func (c Chain) Len() int {
	return len(c.rules)
}

// isBlank reports whether a field is absent or whitespace-only
func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

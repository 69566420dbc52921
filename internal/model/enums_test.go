package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenderFromString(t *testing.T) {
	assert.Equal(t, GenderMale, GenderFromString("MALE"))
	assert.Equal(t, GenderMale, GenderFromString("male"))
	assert.Equal(t, GenderFemale, GenderFromString("Female"))
	assert.Equal(t, GenderOther, GenderFromString("other"))
	assert.Equal(t, GenderUnknown, GenderFromString("nonbinary"))
	assert.Equal(t, GenderUnknown, GenderFromString(""))
}

func TestStatusFromString(t *testing.T) {
	assert.Equal(t, StatusActive, StatusFromString("active"))
	assert.Equal(t, StatusGraduated, StatusFromString("Graduated"))
	assert.Equal(t, StatusSuspended, StatusFromString("SUSPENDED"))
	assert.Equal(t, StatusInactive, StatusFromString("inactive"))
	assert.Equal(t, StatusUnknown, StatusFromString("expelled"))
	assert.Equal(t, StatusUnknown, StatusFromString(""))
}

func TestDisplayNames(t *testing.T) {
	assert.Equal(t, "Male", GenderMale.DisplayName())
	assert.Equal(t, "Active", StatusActive.DisplayName())
	assert.Empty(t, GenderUnknown.DisplayName())
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityCritical.MoreSevereThan(SeverityHigh))
	assert.True(t, SeverityHigh.MoreSevereThan(SeverityMedium))
	assert.True(t, SeverityMedium.MoreSevereThan(SeverityLow))
	assert.False(t, SeverityLow.MoreSevereThan(SeverityLow))
	assert.False(t, SeverityLow.MoreSevereThan(SeverityCritical))
	assert.Equal(t, 0, Severity("bogus").Level())
}

func TestValidationResultInvariant(t *testing.T) {
	res := NewValidationResult(&RawStudent{StudentID: "SV20210001"})
	assert.True(t, res.IsValid)
	assert.False(t, res.HasErrors())

	res.AddError(NewValidationError(ErrorMissingField, "email", "Email is required", "", "EmailFormatRule", SeverityCritical))
	assert.False(t, res.IsValid)
	assert.True(t, res.HasErrors())
	assert.Equal(t, 1, res.ErrorCount())
}

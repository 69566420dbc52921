package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2003-05-15")
	require.NoError(t, err)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2003-05-15"`, string(out))

	var back Date
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "2003-05-15", back.String())
}

func TestDateUnmarshalNull(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())
}

func TestDateUnmarshalRejectsOtherLayouts(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"15/05/2003"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"2003-05-15T00:00:00Z"`), &d))
}

func TestNewDateTruncatesClock(t *testing.T) {
	d := NewDate(time.Date(2021, 9, 5, 13, 45, 2, 0, time.UTC))
	assert.Equal(t, "2021-09-05", d.String())
	assert.Zero(t, d.Hour())
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("2003-13-40")
	assert.Error(t, err)
}

package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flir-lint/flir/internal/sourcemap"
)

func TestNewViolation(t *testing.T) {
	v := NewViolation("script.R", 4, 9, "browser", "test message", SeverityWarning)

	assert.Equal(t, "browser", v.RuleCode)
	assert.Equal(t, "test message", v.Message)
	assert.Equal(t, SeverityWarning, v.Severity)
	assert.Equal(t, 4, v.Start)
	assert.Equal(t, 9, v.End)
	assert.Nil(t, v.Replacement)
}

func TestViolation_WithMethods(t *testing.T) {
	v := NewViolation("script.R", 0, 1, "rule", "msg", SeverityError).
		WithDetail("extra detail").
		WithDocURL("https://example.com/doc").
		WithReplacement("TRUE")

	assert.Equal(t, "extra detail", v.Detail)
	assert.Equal(t, "https://example.com/doc", v.DocURL)
	require.NotNil(t, v.Replacement)
	assert.Equal(t, "TRUE", *v.Replacement)
}

func TestViolation_Location(t *testing.T) {
	sm := sourcemap.New([]byte("x <- 1\nif (x == NA) y"))
	v := NewViolation("script.R", 11, 18, "equals_na", "msg", SeverityWarning)

	loc := v.Location(sm)
	assert.Equal(t, NewRangeLocation("script.R", 2, 5, 2, 12), loc)
	assert.False(t, loc.IsPointLocation())
}

func TestViolation_JSON(t *testing.T) {
	v := NewViolation("script.R", 0, 3, "any_is_na", "slow", SeverityWarning).
		WithDocURL("https://example.com")

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"warning"`)

	var parsed Violation
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, v, parsed)
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("Info")
	require.NoError(t, err)
	assert.Equal(t, SeverityInfo, s)

	_, err = ParseSeverity("fatal")
	require.Error(t, err)
	assert.Equal(t, "severity(42)", Severity(42).String())
}

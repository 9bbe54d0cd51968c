package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubRule struct {
	meta RuleMetadata
}

func (r stubRule) Metadata() RuleMetadata    { return r.meta }
func (stubRule) Check(LintInput) []Violation { return nil }

func newStub(code, category string, enabled bool) stubRule {
	return stubRule{meta: RuleMetadata{Code: code, Category: category, EnabledByDefault: enabled}}
}

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(newStub("any_is_na", CategoryPerformance, true))
	reg.Register(newStub("any_duplicated", CategoryPerformance, true))
	reg.Register(newStub("class_equals", CategorySuspicious, true))
	reg.Register(newStub("experimental", CategoryReadability, false))
	return reg
}

func codesOf(rs []Rule) []string {
	var codes []string
	for _, r := range rs {
		codes = append(codes, r.Metadata().Code)
	}
	return codes
}

func TestRegistry_Register(t *testing.T) {
	reg := testRegistry()

	assert.Equal(t, []string{"any_duplicated", "any_is_na", "class_equals", "experimental"}, reg.Codes())
	_, ok := reg.Get("class_equals")
	assert.True(t, ok)
	_, ok = reg.Get("nope")
	assert.False(t, ok)

	assert.Panics(t, func() { reg.Register(newStub("any_is_na", "", true)) })
}

func TestRegistry_Resolve(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name    string
		sel     Selection
		want    []string
		unknown []string
	}{
		{
			name: "absent select uses defaults",
			sel:  Selection{},
			want: []string{"any_duplicated", "any_is_na", "class_equals"},
		},
		{
			name: "explicit empty select runs nothing",
			sel:  Selection{SelectSet: true},
		},
		{
			name: "rule and category",
			sel:  Selection{Select: []string{"any_is_na", "SUSP"}, SelectSet: true},
			want: []string{"any_is_na", "class_equals"},
		},
		{
			name: "ALL includes opt-in rules",
			sel:  Selection{Select: []string{"ALL"}, SelectSet: true},
			want: []string{"any_duplicated", "any_is_na", "class_equals", "experimental"},
		},
		{
			name: "ignore removes",
			sel:  Selection{Ignore: []string{"any_duplicated"}},
			want: []string{"any_is_na", "class_equals"},
		},
		{
			name:    "unknown entries reported",
			sel:     Selection{Select: []string{"PERF", "bogus"}, SelectSet: true, Ignore: []string{"also_bogus"}},
			want:    []string{"any_duplicated", "any_is_na"},
			unknown: []string{"bogus", "also_bogus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unknown := reg.Resolve(tt.sel)
			assert.Equal(t, tt.want, codesOf(got))
			assert.Equal(t, tt.unknown, unknown)
		})
	}
}

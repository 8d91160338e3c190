package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolver(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"literal values pass through unchanged":  testLiteralPassthrough,
		"step reference resolves recorded field": testStepReference,
		"forward reference is rejected":          testForwardReference,
		"missing field fails resolution":         testMissingField,
		"input reference resolves and fails":     testInputReference,
		"nested values resolve recursively":      testNestedValues,
		"resolution is pure":                     testPurity,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}

func testLiteralPassthrough(t *testing.T) {
	params := ParseParams(map[string]any{
		"name":    "alice",
		"count":   float64(3),
		"enabled": true,
	})
	resolved, err := Resolve(params, NewContext(nil))
	require.NoError(t, err)
	require.Equal(t, "alice", resolved["name"])
	require.Equal(t, float64(3), resolved["count"])
	require.Equal(t, true, resolved["enabled"])
}

func testStepReference(t *testing.T) {
	ctx := NewContext(nil)
	ctx.AddResult("step-0", map[string]any{
		"response": map[string]any{
			"data": map[string]any{"token": "abc", "count": float64(7)},
		},
	})
	params := ParseParams(map[string]any{
		"authToken": "${steps.step-0.response.data.token}",
		"limit":     "${steps.step-0.response.data.count}",
	})
	resolved, err := Resolve(params, ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", resolved["authToken"])
	require.Equal(t, float64(7), resolved["limit"])
}

func testForwardReference(t *testing.T) {
	params := ParseParams(map[string]any{
		"userId": "${steps.step-5.id}",
	})
	_, err := Resolve(params, NewContext(nil))
	require.Error(t, err)
	resErr, ok := err.(ResolutionError)
	require.True(t, ok)
	require.Equal(t, UNRESOLVED_REFERENCE, resErr.Kind)
	require.Equal(t, "step-5", resErr.StepId)
	require.Equal(t, "${steps.step-5.id}", resErr.Placeholder)
}

func testMissingField(t *testing.T) {
	ctx := NewContext(nil)
	ctx.AddResult("step-0", map[string]any{"name": "x"})
	params := ParseParams(map[string]any{
		"userId": "${steps.step-0.id}",
	})
	_, err := Resolve(params, ctx)
	require.Error(t, err)
	resErr, ok := err.(ResolutionError)
	require.True(t, ok)
	require.Equal(t, MISSING_FIELD, resErr.Kind)
	require.Equal(t, "step-0", resErr.StepId)
}

func testInputReference(t *testing.T) {
	ctx := NewContext(map[string]any{"apiKey": "secret"})
	params := ParseParams(map[string]any{"key": "${input.apiKey}"})
	resolved, err := Resolve(params, ctx)
	require.NoError(t, err)
	require.Equal(t, "secret", resolved["key"])

	params = ParseParams(map[string]any{"key": "${input.missing}"})
	_, err = Resolve(params, ctx)
	require.Error(t, err)
	resErr, ok := err.(ResolutionError)
	require.True(t, ok)
	require.Equal(t, MISSING_INPUT, resErr.Kind)
}

func testNestedValues(t *testing.T) {
	ctx := NewContext(map[string]any{"region": "eu"})
	ctx.AddResult("step-0", map[string]any{"id": "u1"})
	params := ParseParams(map[string]any{
		"body": map[string]any{
			"userId": "${steps.step-0.id}",
			"tags":   []any{"${input.region}", "static"},
		},
	})
	resolved, err := Resolve(params, ctx)
	require.NoError(t, err)
	body := resolved["body"].(map[string]any)
	require.Equal(t, "u1", body["userId"])
	require.Equal(t, []any{"eu", "static"}, body["tags"])
}

func testPurity(t *testing.T) {
	ctx := NewContext(map[string]any{"a": "1"})
	ctx.AddResult("s", map[string]any{"v": "x"})
	params := ParseParams(map[string]any{
		"p": "${steps.s.v}",
		"q": "${input.a}",
	})
	first, err := Resolve(params, ctx)
	require.NoError(t, err)
	second, err := Resolve(params, ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)

	bad := ParseParams(map[string]any{"p": "${steps.none.v}"})
	_, err1 := Resolve(bad, ctx)
	_, err2 := Resolve(bad, ctx)
	require.Equal(t, err1, err2)
}

func TestParseValue(t *testing.T) {
	ref, ok := ParseValue("${steps.step-1.response.data.token}").(StepRef)
	require.True(t, ok)
	require.Equal(t, "step-1", ref.StepId)
	require.Equal(t, "response.data.token", ref.FieldPath)

	in, ok := ParseValue("${input.userId}").(InputRef)
	require.True(t, ok)
	require.Equal(t, "userId", in.Name)

	// partial placeholders stay literal
	_, ok = ParseValue("prefix ${steps.step-1.id}").(Literal)
	require.True(t, ok)
	_, ok = ParseValue("${steps.step-1}").(Literal)
	require.True(t, ok)
	_, ok = ParseValue(42).(Literal)
	require.True(t, ok)
}

package resolver

import "regexp"

var stepRefPattern = regexp.MustCompile(`^\$\{steps\.([^.{}]+)\.(.+)\}$`)
var inputRefPattern = regexp.MustCompile(`^\$\{input\.([^.{}]+)\}$`)

type Value interface {
	resolve(ctx *Context) (any, error)
}

type Literal struct {
	Value any
}

type StepRef struct {
	StepId    string
	FieldPath string
	Raw       string
}

type InputRef struct {
	Name string
	Raw  string
}

type MapValue struct {
	Entries map[string]Value
}

type ListValue struct {
	Items []Value
}

// ParseValue classifies a raw parameter value. Only a string that is
// entirely a placeholder becomes a reference, anything else stays literal.
func ParseValue(v any) Value {
	switch val := v.(type) {
	case string:
		if m := stepRefPattern.FindStringSubmatch(val); m != nil {
			return StepRef{StepId: m[1], FieldPath: m[2], Raw: val}
		}
		if m := inputRefPattern.FindStringSubmatch(val); m != nil {
			return InputRef{Name: m[1], Raw: val}
		}
		return Literal{Value: val}
	case map[string]any:
		entries := make(map[string]Value, len(val))
		for k, item := range val {
			entries[k] = ParseValue(item)
		}
		return MapValue{Entries: entries}
	case []any:
		items := make([]Value, 0, len(val))
		for _, item := range val {
			items = append(items, ParseValue(item))
		}
		return ListValue{Items: items}
	default:
		return Literal{Value: v}
	}
}

func ParseParams(params map[string]any) map[string]Value {
	parsed := make(map[string]Value, len(params))
	for k, v := range params {
		parsed[k] = ParseValue(v)
	}
	return parsed
}

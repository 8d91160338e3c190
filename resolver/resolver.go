package resolver

import (
	"fmt"

	"github.com/oliveagle/jsonpath"
)

type ErrorKind string

const UNRESOLVED_REFERENCE ErrorKind = "UnresolvedReference"
const MISSING_FIELD ErrorKind = "MissingField"
const MISSING_INPUT ErrorKind = "MissingInput"

type ResolutionError struct {
	Kind        ErrorKind
	Placeholder string
	StepId      string
}

func (e ResolutionError) Error() string {
	switch e.Kind {
	case UNRESOLVED_REFERENCE:
		return fmt.Sprintf("unresolved reference %s, step %s has no recorded result", e.Placeholder, e.StepId)
	case MISSING_FIELD:
		return fmt.Sprintf("missing field %s in result of step %s", e.Placeholder, e.StepId)
	case MISSING_INPUT:
		return fmt.Sprintf("missing workflow input %s", e.Placeholder)
	}
	return fmt.Sprintf("resolution error %s", e.Placeholder)
}

// Context holds the results of completed steps keyed by step id plus the
// workflow level inputs. It grows monotonically during a run.
type Context struct {
	inputs  map[string]any
	results map[string]any
}

func NewContext(inputs map[string]any) *Context {
	if inputs == nil {
		inputs = make(map[string]any)
	}
	return &Context{
		inputs:  inputs,
		results: make(map[string]any),
	}
}

func (c *Context) AddResult(stepId string, result any) {
	c.results[stepId] = result
}

func (c *Context) Data() map[string]any {
	steps := make(map[string]any, len(c.results))
	for k, v := range c.results {
		steps[k] = v
	}
	return map[string]any{
		"input": c.inputs,
		"steps": steps,
	}
}

func Resolve(params map[string]Value, ctx *Context) (map[string]any, error) {
	resolved := make(map[string]any, len(params))
	for name, value := range params {
		out, err := value.resolve(ctx)
		if err != nil {
			return nil, err
		}
		resolved[name] = out
	}
	return resolved, nil
}

func (l Literal) resolve(ctx *Context) (any, error) {
	return l.Value, nil
}

func (r StepRef) resolve(ctx *Context) (any, error) {
	result, ok := ctx.results[r.StepId]
	if !ok {
		return nil, ResolutionError{Kind: UNRESOLVED_REFERENCE, Placeholder: r.Raw, StepId: r.StepId}
	}
	value, err := jsonpath.JsonPathLookup(result, "$."+r.FieldPath)
	if err != nil {
		return nil, ResolutionError{Kind: MISSING_FIELD, Placeholder: r.Raw, StepId: r.StepId}
	}
	return value, nil
}

func (r InputRef) resolve(ctx *Context) (any, error) {
	value, ok := ctx.inputs[r.Name]
	if !ok {
		return nil, ResolutionError{Kind: MISSING_INPUT, Placeholder: r.Raw}
	}
	return value, nil
}

func (m MapValue) resolve(ctx *Context) (any, error) {
	out := make(map[string]any, len(m.Entries))
	for k, v := range m.Entries {
		resolved, err := v.resolve(ctx)
		if err != nil {
			return nil, err
		}
		out[k] = resolved
	}
	return out, nil
}

func (l ListValue) resolve(ctx *Context) (any, error) {
	out := make([]any, 0, len(l.Items))
	for _, v := range l.Items {
		resolved, err := v.resolve(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

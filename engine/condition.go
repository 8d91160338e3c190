package engine

import (
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"
)

// EvaluateCondition runs a javascript expression against the resolution
// context, bound to $. The result follows javascript truthiness.
func EvaluateCondition(expression string, data map[string]any) (bool, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return false, err
	}
	script := fmt.Sprintf("var $ = %s;\n(%s)", encoded, expression)
	vm := goja.New()
	val, err := vm.RunString(script)
	if err != nil {
		return false, fmt.Errorf("error evaluating condition %w", err)
	}
	return val.ToBoolean(), nil
}

func ValidateCondition(expression string) error {
	if len(expression) == 0 {
		return fmt.Errorf("condition expression can not be empty")
	}
	_, err := goja.Compile("condition", fmt.Sprintf("(%s)", expression), false)
	if err != nil {
		return fmt.Errorf("condition should be a valid javascript expression: %w", err)
	}
	return nil
}

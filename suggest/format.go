package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowly-io/flowly/model"
)

func orDefault(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func formatParameters(params []model.EndpointParameter) string {
	if len(params) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		requirement := "optional"
		if p.Required {
			requirement = "required"
		}
		in := p.In
		if in == "" {
			in = "query"
		}
		parts = append(parts, fmt.Sprintf("%s (%s, %s)", p.Name, in, requirement))
	}
	return strings.Join(parts, ", ")
}

func formatEndpoints(endpoints []model.Endpoint, withParams bool) string {
	parts := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		desc := fmt.Sprintf("ID: %s\nMethod: %s\nPath: %s\nSummary: %s\nDescription: %s",
			ep.Id, ep.Method, ep.Path, orDefault(ep.Summary), orDefault(ep.Description))
		if withParams {
			desc += fmt.Sprintf("\nParameters: %s", formatParameters(ep.Parameters))
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func formatEndpointIndex(endpoints []model.Endpoint) string {
	parts := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		parts = append(parts, fmt.Sprintf("- %s: %s %s", ep.Id, ep.Method, ep.Path))
	}
	return strings.Join(parts, "\n")
}

func formatWorkflow(workflow model.Workflow, endpoints []model.Endpoint) string {
	endpointMap := make(map[string]model.Endpoint, len(endpoints))
	for _, ep := range endpoints {
		endpointMap[ep.Id] = ep
	}
	steps := make([]string, 0, len(workflow.Steps))
	for _, step := range workflow.Steps {
		ep, ok := endpointMap[step.EndpointId]
		if !ok {
			continue
		}
		params, _ := json.MarshalIndent(step.Parameters, "", "    ")
		desc := fmt.Sprintf("Step %d: %s\n  Endpoint: %s %s\n  Reasoning: %s\n  Parameters: %s",
			step.Order, step.Id, ep.Method, ep.Path, orDefault(step.Reasoning), string(params))
		if step.ConditionalLogic != nil {
			desc += fmt.Sprintf("\n  Conditional: %s", step.ConditionalLogic.Condition)
		}
		steps = append(steps, desc)
	}
	return fmt.Sprintf("Workflow Name: %s\nDescription: %s\n\nSteps:\n%s\n\nAvailable Endpoints:\n%s",
		orDefault(workflow.Name), orDefault(workflow.Description), strings.Join(steps, "\n"), formatEndpointIndex(endpoints))
}

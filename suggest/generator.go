package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowly-io/flowly/model"
)

const generateSystemPrompt = `You are an API workflow expert. Given a natural language description of a desired flow or outcome, analyze which API endpoints should be used and in what order.

Your task is to:
1. Understand the user's intent from their natural language description
2. Select the most relevant endpoints from the available list
3. Determine the optimal order to call these endpoints
4. Provide parameter mappings and dependencies between steps

Return your response as a JSON object with this structure:
{
  "workflowName": "A clear name for this workflow",
  "workflowDescription": "A brief description of what this workflow does",
  "selectedEndpoints": [
    {
      "endpointId": "the endpoint ID",
      "order": 0,
      "reasoning": "why this endpoint was chosen and placed at this position",
      "parameters": {
        "paramName": "description of what value should be provided"
      },
      "dependsOn": ["list of previous step IDs this depends on"]
    }
  ],
  "explanation": "A detailed explanation of the workflow logic and data flow"
}`

type selectedEndpoint struct {
	EndpointId string         `json:"endpointId"`
	Order      int            `json:"order"`
	Reasoning  string         `json:"reasoning"`
	Parameters map[string]any `json:"parameters"`
	DependsOn  []string       `json:"dependsOn"`
}

type generatedWorkflow struct {
	WorkflowName        string             `json:"workflowName"`
	WorkflowDescription string             `json:"workflowDescription"`
	SelectedEndpoints   []selectedEndpoint `json:"selectedEndpoints"`
	Explanation         string             `json:"explanation"`
}

type WorkflowGenerator struct {
	provider ChatProvider
}

func NewWorkflowGenerator(provider ChatProvider) *WorkflowGenerator {
	return &WorkflowGenerator{provider: provider}
}

// GenerateFromNL turns a natural language description into a workflow over
// the given endpoints.
func (g *WorkflowGenerator) GenerateFromNL(ctx context.Context, req model.GenerateWorkflowRequest) (*model.GenerateWorkflowResponse, error) {
	userPrompt := fmt.Sprintf("User's desired flow/outcome:\n%q\n\nAvailable API endpoints:\n%s\n\nAnalyze this and create an optimal workflow.",
		req.Description, formatEndpoints(req.Endpoints, true))

	content, err := g.provider.Complete(ctx, generateSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	var generated generatedWorkflow
	if err := json.Unmarshal([]byte(content), &generated); err != nil {
		return nil, fmt.Errorf("error parsing model response, %w", err)
	}
	if len(generated.SelectedEndpoints) == 0 {
		return nil, fmt.Errorf("model response is missing required 'selectedEndpoints' array")
	}

	steps := make([]model.WorkflowStep, 0, len(generated.SelectedEndpoints))
	reasoning := make([]model.AIReasoning, 0, len(generated.SelectedEndpoints))
	for _, ep := range generated.SelectedEndpoints {
		step := model.WorkflowStep{
			Id:         fmt.Sprintf("step-%d", ep.Order),
			EndpointId: ep.EndpointId,
			Order:      ep.Order,
			Reasoning:  ep.Reasoning,
			Parameters: ep.Parameters,
		}
		if len(ep.DependsOn) > 0 {
			step.ConditionalLogic = &model.ConditionalLogic{
				Condition: fmt.Sprintf("depends on %s", strings.Join(ep.DependsOn, ", ")),
			}
		}
		steps = append(steps, step)
		reasoning = append(reasoning, model.AIReasoning{
			EndpointId: ep.EndpointId,
			Reasoning:  ep.Reasoning,
		})
	}
	return &model.GenerateWorkflowResponse{
		Workflow: model.Workflow{
			Name:        generated.WorkflowName,
			Description: generated.WorkflowDescription,
			Steps:       steps,
			SpecId:      req.SpecId,
		},
		Explanation: generated.Explanation,
		AIReasoning: reasoning,
	}, nil
}

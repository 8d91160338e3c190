package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowly-io/flowly/model"
)

const buildSystemPrompt = `You are an API workflow construction expert. Given suggested workflow ideas, learned patterns, and available endpoints, construct complete, executable workflows.

Your task is to:
1. Take each suggested workflow idea
2. Apply the learned patterns to structure the workflow
3. Select specific endpoints and their order
4. Define parameter mappings between steps
5. Create a complete, executable workflow specification

Return your response as a JSON object with this structure:
{
  "workflows": [
    {
      "flow_id": "the suggestion id this workflow is based on",
      "workflow": {
        "name": "Workflow name",
        "description": "What this workflow does",
        "steps": [
          {
            "id": "step-0",
            "endpointId": "endpoint-id",
            "order": 0,
            "reasoning": "Why this endpoint and position",
            "parameters": {
              "paramName": "description of what value should be provided"
            },
            "conditionalLogic": {
              "condition": "optional condition"
            }
          }
        ],
        "specId": "spec-id"
      },
      "applied_patterns": ["list of pattern types applied"]
    }
  ]
}`

type builtWorkflows struct {
	Workflows []model.BuiltWorkflow `json:"workflows"`
}

type AutoBuilder struct {
	provider ChatProvider
}

func NewAutoBuilder(provider ChatProvider) *AutoBuilder {
	return &AutoBuilder{provider: provider}
}

// Build constructs executable workflows from flow suggestions by applying
// previously learned patterns.
func (b *AutoBuilder) Build(ctx context.Context, req model.AutoBuildRequest) (*model.AutoBuildResponse, error) {
	patterns, err := json.MarshalIndent(req.LearnedPatterns, "", "  ")
	if err != nil {
		return nil, err
	}
	userPrompt := fmt.Sprintf("Suggested Workflows:\n%s\n\nLearned Patterns:\n%s\n\nAvailable API Endpoints:\n%s\n\nBuild complete workflows by applying the learned patterns to the suggestions.",
		formatSuggestions(req.SuggestedFlows), string(patterns), formatEndpoints(req.Endpoints, true))

	content, err := b.provider.Complete(ctx, buildSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	var built builtWorkflows
	if err := json.Unmarshal([]byte(content), &built); err != nil {
		return nil, fmt.Errorf("error parsing model response, %w", err)
	}
	if len(built.Workflows) == 0 {
		return nil, fmt.Errorf("model response is missing required 'workflows' array")
	}
	for i := range built.Workflows {
		if built.Workflows[i].Workflow.SpecId == "" {
			built.Workflows[i].Workflow.SpecId = req.SpecId
		}
	}
	return &model.AutoBuildResponse{Workflows: built.Workflows}, nil
}

func formatSuggestions(suggestions []model.SuggestedFlow) string {
	parts := make([]string, 0, len(suggestions))
	for _, flow := range suggestions {
		parts = append(parts, fmt.Sprintf("ID: %s\nName: %s\nDescription: %s\nUse Case: %s\nCategory: %s\nComplexity: %s\nSuggested Endpoints: %s",
			flow.Id, flow.Name, flow.Description, orDefault(flow.UseCase), orDefault(flow.Category),
			orDefault(flow.Complexity), strings.Join(flow.Endpoints, ", ")))
	}
	return strings.Join(parts, "\n\n")
}

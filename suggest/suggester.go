package suggest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowly-io/flowly/model"
)

const suggestSystemPrompt = `You are an API workflow expert. Given a list of API endpoints, analyze them and suggest practical, useful workflows that can be created.

Your task is to:
1. Understand what the API does based on its endpoints
2. Identify common use cases and workflows that users might want to create
3. Suggest 5-8 diverse workflows covering different complexity levels and use cases
4. For each workflow, specify which endpoints would be used and in what general order

Return your response as a JSON object with this structure:
{
  "suggestedFlows": [
    {
      "id": "unique-flow-id",
      "name": "Clear, concise workflow name",
      "description": "One sentence description of what this workflow does",
      "useCase": "Detailed explanation of when and why a user would use this workflow",
      "endpoints": ["endpoint-id-1", "endpoint-id-2"],
      "category": "CRUD|Integration|Analytics|Notification|Automation|Data Processing",
      "complexity": "simple|moderate|complex"
    }
  ],
  "apiSummary": "A brief summary of what this API is designed to do based on the endpoints"
}`

type suggestedFlows struct {
	SuggestedFlows []model.SuggestedFlow `json:"suggestedFlows"`
	ApiSummary     string                `json:"apiSummary"`
}

type FlowSuggester struct {
	provider ChatProvider
}

func NewFlowSuggester(provider ChatProvider) *FlowSuggester {
	return &FlowSuggester{provider: provider}
}

// SuggestFlows analyzes an endpoint catalog and proposes workflows worth
// building on top of it.
func (s *FlowSuggester) SuggestFlows(ctx context.Context, req model.SuggestFlowsRequest) (*model.SuggestFlowsResponse, error) {
	userPrompt := fmt.Sprintf("Available API endpoints:\n%s\n\nAnalyze this API and suggest practical workflows.",
		formatEndpoints(req.Endpoints, false))

	content, err := s.provider.Complete(ctx, suggestSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	var suggested suggestedFlows
	if err := json.Unmarshal([]byte(content), &suggested); err != nil {
		return nil, fmt.Errorf("error parsing model response, %w", err)
	}
	if len(suggested.SuggestedFlows) == 0 {
		return nil, fmt.Errorf("model response is missing required 'suggestedFlows' array")
	}
	summary := suggested.ApiSummary
	if summary == "" {
		summary = "API analysis complete"
	}
	return &model.SuggestFlowsResponse{
		SuggestedFlows: suggested.SuggestedFlows,
		ApiSummary:     summary,
		SpecId:         req.SpecId,
	}, nil
}

package suggest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowly-io/flowly/model"
)

const learnSystemPrompt = `You are an API workflow pattern recognition expert. Given a reference workflow and its endpoints, analyze it to extract reusable patterns.

Your task is to:
1. Identify the structural pattern (sequential, parallel, conditional, etc.)
2. Extract parameter mapping strategies (how data flows between steps)
3. Recognize interaction patterns (CRUD operations, chains, etc.)
4. Determine what makes this workflow effective

Return your response as a JSON object with this structure:
{
  "patterns": {
    "structure": {
      "type": "sequential|parallel|conditional|hybrid",
      "description": "How steps are organized and executed"
    },
    "parameters": {
      "mappingStrategy": "Description of how parameters are passed between steps",
      "commonMappings": ["list of common parameter mappings like 'output.id -> input.userId'"]
    },
    "interactions": {
      "pattern": "CRUD|Chain|Fan-out|Fan-in|Pipeline",
      "description": "How endpoints interact with each other"
    }
  },
  "confidence": 0.95
}`

type learnedPatterns struct {
	Patterns   *model.WorkflowPattern `json:"patterns"`
	Confidence *float64               `json:"confidence"`
}

type PatternLearner struct {
	provider ChatProvider
}

func NewPatternLearner(provider ChatProvider) *PatternLearner {
	return &PatternLearner{provider: provider}
}

// Learn extracts reusable structure and parameter-mapping patterns from a
// reference workflow.
func (l *PatternLearner) Learn(ctx context.Context, req model.LearnPatternRequest) (*model.LearnPatternResponse, error) {
	userPrompt := fmt.Sprintf("Reference workflow to analyze:\n\n%s\n\nExtract reusable patterns from this workflow.",
		formatWorkflow(req.ReferenceWorkflow, req.ReferenceEndpoints))

	content, err := l.provider.Complete(ctx, learnSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	var learned learnedPatterns
	if err := json.Unmarshal([]byte(content), &learned); err != nil {
		return nil, fmt.Errorf("error parsing model response, %w", err)
	}
	if learned.Patterns == nil {
		return nil, fmt.Errorf("model response is missing required 'patterns' object")
	}
	confidence := 0.8
	if learned.Confidence != nil {
		confidence = *learned.Confidence
	}
	return &model.LearnPatternResponse{
		Patterns:   *learned.Patterns,
		Confidence: confidence,
	}, nil
}

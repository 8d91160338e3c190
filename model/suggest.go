package model

type GenerateWorkflowRequest struct {
	Description string     `json:"description"`
	Endpoints   []Endpoint `json:"endpoints"`
	SpecId      string     `json:"specId"`
}

type AIReasoning struct {
	EndpointId string `json:"endpointId"`
	Reasoning  string `json:"reasoning"`
}

type GenerateWorkflowResponse struct {
	Workflow    Workflow      `json:"workflow"`
	Explanation string        `json:"explanation"`
	AIReasoning []AIReasoning `json:"aiReasoning"`
}

type SuggestFlowsRequest struct {
	Endpoints []Endpoint `json:"endpoints"`
	SpecId    string     `json:"specId"`
}

type SuggestedFlow struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	UseCase     string   `json:"useCase"`
	Endpoints   []string `json:"endpoints"`
	Category    string   `json:"category"`
	Complexity  string   `json:"complexity"`
}

type SuggestFlowsResponse struct {
	SuggestedFlows []SuggestedFlow `json:"suggestedFlows"`
	ApiSummary     string          `json:"apiSummary"`
	SpecId         string          `json:"specId"`
}

type LearnPatternRequest struct {
	ReferenceWorkflow  Workflow   `json:"referenceWorkflow"`
	ReferenceEndpoints []Endpoint `json:"referenceEndpoints"`
}

type WorkflowPattern struct {
	Structure    map[string]any `json:"structure"`
	Parameters   map[string]any `json:"parameters"`
	Interactions map[string]any `json:"interactions"`
}

type LearnPatternResponse struct {
	Patterns   WorkflowPattern `json:"patterns"`
	Confidence float64         `json:"confidence"`
}

type AutoBuildRequest struct {
	SuggestedFlows  []SuggestedFlow `json:"suggestedFlows"`
	LearnedPatterns map[string]any  `json:"learnedPatterns"`
	Endpoints       []Endpoint      `json:"endpoints"`
	SpecId          string          `json:"specId"`
}

type BuiltWorkflow struct {
	FlowId          string   `json:"flow_id"`
	Workflow        Workflow `json:"workflow"`
	AppliedPatterns []string `json:"applied_patterns"`
}

type AutoBuildResponse struct {
	Workflows []BuiltWorkflow `json:"workflows"`
}

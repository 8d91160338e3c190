package model

import "time"

type Workflow struct {
	Id          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	SpecId      string         `json:"specId,omitempty"`
	Steps       []WorkflowStep `json:"steps"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type WorkflowStep struct {
	Id               string            `json:"id"`
	EndpointId       string            `json:"endpointId"`
	Order            int               `json:"order"`
	Reasoning        string            `json:"reasoning,omitempty"`
	Parameters       map[string]any    `json:"parameters,omitempty"`
	ConditionalLogic *ConditionalLogic `json:"conditionalLogic,omitempty"`
}

type ConditionalLogic struct {
	Condition  string `json:"condition,omitempty"`
	NextStepId string `json:"nextStepId,omitempty"`
}

type WorkflowRunRequest struct {
	WorkflowId string         `json:"workflowId"`
	Input      map[string]any `json:"input,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

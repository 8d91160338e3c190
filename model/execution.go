package model

import "time"

type ExecutionStatus string

const EXECUTION_IDLE ExecutionStatus = "idle"
const EXECUTION_RUNNING ExecutionStatus = "running"
const EXECUTION_COMPLETED ExecutionStatus = "completed"
const EXECUTION_FAILED ExecutionStatus = "failed"
const EXECUTION_PAUSED ExecutionStatus = "paused"

type StepStatus string

const STEP_PENDING StepStatus = "pending"
const STEP_RUNNING StepStatus = "running"
const STEP_SUCCESS StepStatus = "success"
const STEP_ERROR StepStatus = "error"

type ExecutionState struct {
	Id               string          `json:"id"`
	WorkflowId       string          `json:"workflowId"`
	Status           ExecutionStatus `json:"status"`
	Steps            []StepResult    `json:"steps"`
	CurrentStepIndex int             `json:"currentStepIndex"`
	StartTime        *time.Time      `json:"startTime,omitempty"`
	EndTime          *time.Time      `json:"endTime,omitempty"`
	HaltReason       string          `json:"haltReason,omitempty"`
}

type StepResult struct {
	StepId    string     `json:"stepId"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Result    any        `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
}

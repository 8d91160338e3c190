package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowly-io/flowly/analytics"
	"github.com/flowly-io/flowly/logger"
	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/resolver"
	"go.uber.org/zap"
)

type InvocationResult struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

// Invoker performs the actual endpoint call for a step. Implementations
// make a single attempt, there is no retry in the engine.
type Invoker interface {
	Invoke(ctx context.Context, endpointId string, params map[string]any) (*InvocationResult, error)
}

type Listener func(state model.ExecutionState)

// Executor drives one run of a flow. One Executor owns one ExecutionState,
// a re-run needs a fresh Executor.
type Executor struct {
	flow     *Flow
	invoker  Invoker
	mu       sync.Mutex
	state    *model.ExecutionState
	listener Listener
	started  bool
}

func NewExecutor(flow *Flow, invoker Invoker, runId string) *Executor {
	steps := make([]model.StepResult, 0, len(flow.Steps))
	for _, step := range flow.Steps {
		steps = append(steps, model.StepResult{
			StepId: step.Id,
			Status: model.STEP_PENDING,
		})
	}
	return &Executor{
		flow:    flow,
		invoker: invoker,
		state: &model.ExecutionState{
			Id:               runId,
			WorkflowId:       flow.Id,
			Status:           model.EXECUTION_IDLE,
			Steps:            steps,
			CurrentStepIndex: 0,
		},
	}
}

func (e *Executor) OnTransition(listener Listener) {
	e.listener = listener
}

func (e *Executor) Id() string {
	return e.state.Id
}

// Snapshot returns a copy safe for concurrent readers.
func (e *Executor) Snapshot() model.ExecutionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Executor) snapshot() model.ExecutionState {
	copied := *e.state
	copied.Steps = make([]model.StepResult, len(e.state.Steps))
	copy(copied.Steps, e.state.Steps)
	return copied
}

func (e *Executor) Execute(ctx context.Context, input map[string]any, globalParams map[string]any) model.ExecutionState {
	e.mu.Lock()
	if e.started {
		defer e.mu.Unlock()
		return e.snapshot()
	}
	e.started = true
	now := time.Now()
	e.state.Status = model.EXECUTION_RUNNING
	e.state.StartTime = &now
	e.mu.Unlock()
	e.notify()
	logger.Info("starting workflow run", zap.String("workflow", e.flow.Name), zap.String("run", e.state.Id))

	globals := resolver.ParseParams(globalParams)
	resCtx := resolver.NewContext(input)

	for i := range e.flow.Steps {
		step := e.flow.Steps[i]
		if err := ctx.Err(); err != nil {
			e.markPaused()
			return e.Snapshot()
		}
		if len(step.Condition) > 0 {
			ok, err := EvaluateCondition(step.Condition, resCtx.Data())
			if err != nil {
				e.markStepError(i, fmt.Sprintf("error evaluating condition: %v", err))
				e.markFailed()
				return e.Snapshot()
			}
			if !ok {
				e.halt(fmt.Sprintf("condition on step %s evaluated false", step.Id))
				return e.Snapshot()
			}
		}
		e.markStepRunning(i)

		params := step.Params
		if len(params) == 0 {
			params = globals
		}
		resolved, err := resolver.Resolve(params, resCtx)
		if err != nil {
			logger.Error("parameter resolution failed", zap.String("workflow", e.flow.Name), zap.String("step", step.Id), zap.Error(err))
			e.markStepError(i, err.Error())
			e.markFailed()
			return e.Snapshot()
		}
		result, err := e.invoker.Invoke(ctx, step.EndpointId, resolved)
		if err != nil {
			logger.Error("step invocation failed", zap.String("workflow", e.flow.Name), zap.String("step", step.Id), zap.Error(err))
			e.markStepError(i, err.Error())
			e.markFailed()
			return e.Snapshot()
		}
		resCtx.AddResult(step.Id, result.Data)
		e.markStepSuccess(i, result.Data)
	}
	e.markCompleted()
	return e.Snapshot()
}

func (e *Executor) notify() {
	if e.listener == nil {
		return
	}
	e.listener(e.Snapshot())
}

func (e *Executor) markStepRunning(index int) {
	e.mu.Lock()
	now := time.Now()
	e.state.Steps[index].Status = model.STEP_RUNNING
	e.state.Steps[index].StartTime = &now
	e.state.CurrentStepIndex = index
	e.mu.Unlock()
	e.notify()
}

func (e *Executor) markStepSuccess(index int, result any) {
	e.mu.Lock()
	now := time.Now()
	e.state.Steps[index].Status = model.STEP_SUCCESS
	e.state.Steps[index].EndTime = &now
	e.state.Steps[index].Result = result
	stepId := e.state.Steps[index].StepId
	e.mu.Unlock()
	e.notify()
	analytics.RecordStepSuccess(e.flow.Id, e.state.Id, stepId, result)
}

func (e *Executor) markStepError(index int, message string) {
	e.mu.Lock()
	now := time.Now()
	e.state.Steps[index].Status = model.STEP_ERROR
	if e.state.Steps[index].StartTime != nil {
		e.state.Steps[index].EndTime = &now
	}
	e.state.Steps[index].Error = message
	stepId := e.state.Steps[index].StepId
	e.mu.Unlock()
	e.notify()
	analytics.RecordStepFailure(e.flow.Id, e.state.Id, stepId, message)
}

func (e *Executor) markCompleted() {
	e.mu.Lock()
	now := time.Now()
	e.state.Status = model.EXECUTION_COMPLETED
	e.state.EndTime = &now
	e.mu.Unlock()
	e.notify()
	logger.Info("workflow run completed", zap.String("workflow", e.flow.Name), zap.String("run", e.state.Id))
}

func (e *Executor) markFailed() {
	e.mu.Lock()
	now := time.Now()
	e.state.Status = model.EXECUTION_FAILED
	e.state.EndTime = &now
	e.mu.Unlock()
	e.notify()
	logger.Info("workflow run failed", zap.String("workflow", e.flow.Name), zap.String("run", e.state.Id))
}

func (e *Executor) markPaused() {
	e.mu.Lock()
	now := time.Now()
	e.state.Status = model.EXECUTION_PAUSED
	e.state.EndTime = &now
	e.state.HaltReason = "run cancelled"
	e.mu.Unlock()
	e.notify()
	logger.Info("workflow run cancelled", zap.String("workflow", e.flow.Name), zap.String("run", e.state.Id))
}

func (e *Executor) halt(reason string) {
	e.mu.Lock()
	now := time.Now()
	e.state.Status = model.EXECUTION_COMPLETED
	e.state.EndTime = &now
	e.state.HaltReason = reason
	e.mu.Unlock()
	e.notify()
	logger.Info("workflow run halted", zap.String("workflow", e.flow.Name), zap.String("run", e.state.Id), zap.String("reason", reason))
}

package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/flowly-io/flowly/model"
	"github.com/stretchr/testify/require"
)

type invocation struct {
	endpointId string
	params     map[string]any
}

type fakeInvoker struct {
	results map[string]*InvocationResult
	errs    map[string]error
	calls   []invocation
}

func newFakeInvoker() *fakeInvoker {
	return &fakeInvoker{
		results: make(map[string]*InvocationResult),
		errs:    make(map[string]error),
	}
}

func (f *fakeInvoker) Invoke(ctx context.Context, endpointId string, params map[string]any) (*InvocationResult, error) {
	f.calls = append(f.calls, invocation{endpointId: endpointId, params: params})
	if err, ok := f.errs[endpointId]; ok {
		return nil, err
	}
	if res, ok := f.results[endpointId]; ok {
		return res, nil
	}
	return &InvocationResult{Status: 200, Data: map[string]any{}}, nil
}

func twoStepWorkflow() *model.Workflow {
	return &model.Workflow{
		Id:   "wf-1",
		Name: "users and orders",
		Steps: []model.WorkflowStep{
			{Id: "step-0", EndpointId: "get-users", Order: 0},
			{Id: "step-1", EndpointId: "post-orders", Order: 1, Parameters: map[string]any{
				"userId": "${steps.step-0.id}",
			}},
		},
	}
}

func TestExecutor(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"cross step binding resolves prior result":   testCrossStepBinding,
		"missing field fails run before invocation":  testMissingFieldFailsRun,
		"invocation error fails run":                 testInvocationError,
		"all steps succeed completes run":            testRunCompletes,
		"failure leaves remaining steps pending":     testFailFast,
		"step parameters win over globals":           testParameterPrecedence,
		"globals used when step declares none":       testGlobalFallback,
		"false condition halts the run":              testConditionHalt,
		"true condition continues":                   testConditionContinue,
		"condition error fails the run":              testConditionError,
		"cancellation between steps pauses run":      testCancellation,
		"re-run starts from a fresh state":           testFreshRun,
		"listener observes every transition":         testListener,
		"steps execute in ascending order":           testOrdering,
		"duplicate order keeps declaration sequence": testDuplicateOrder,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}

func testCrossStepBinding(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.results["get-users"] = &InvocationResult{Status: 200, Data: map[string]any{"id": "u1"}}
	invoker.results["post-orders"] = &InvocationResult{Status: 201, Data: map[string]any{"orderId": "o1"}}

	exec := NewExecutor(Convert(twoStepWorkflow()), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, nil)

	require.Equal(t, model.EXECUTION_COMPLETED, state.Status)
	require.Len(t, invoker.calls, 2)
	require.Equal(t, map[string]any{"userId": "u1"}, invoker.calls[1].params)
}

func testMissingFieldFailsRun(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.results["get-users"] = &InvocationResult{Status: 200, Data: map[string]any{"name": "x"}}

	exec := NewExecutor(Convert(twoStepWorkflow()), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, nil)

	require.Equal(t, model.EXECUTION_FAILED, state.Status)
	require.Equal(t, model.STEP_ERROR, state.Steps[1].Status)
	require.Contains(t, state.Steps[1].Error, "missing field")
	// step 1 never reached the invoker
	require.Len(t, invoker.calls, 1)
	require.NotNil(t, state.EndTime)
}

func testInvocationError(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.errs["get-users"] = fmt.Errorf("endpoint get-users returned status 500")

	wf := &model.Workflow{
		Id:    "wf-1",
		Name:  "single",
		Steps: []model.WorkflowStep{{Id: "step-0", EndpointId: "get-users", Order: 0}},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, nil)

	require.Equal(t, model.EXECUTION_FAILED, state.Status)
	require.Equal(t, model.STEP_ERROR, state.Steps[0].Status)
	require.Equal(t, 0, state.CurrentStepIndex)
	require.NotNil(t, state.EndTime)
}

func testRunCompletes(t *testing.T) {
	invoker := newFakeInvoker()
	wf := &model.Workflow{
		Id:   "wf-1",
		Name: "three",
		Steps: []model.WorkflowStep{
			{Id: "a", EndpointId: "e1", Order: 0},
			{Id: "b", EndpointId: "e2", Order: 1},
			{Id: "c", EndpointId: "e3", Order: 2},
		},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, nil)

	require.Equal(t, model.EXECUTION_COMPLETED, state.Status)
	for _, step := range state.Steps {
		require.Equal(t, model.STEP_SUCCESS, step.Status)
	}
	last := state.Steps[len(state.Steps)-1]
	require.False(t, state.EndTime.Before(*last.EndTime))
}

func testFailFast(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.errs["e2"] = fmt.Errorf("connection refused")
	wf := &model.Workflow{
		Id:   "wf-1",
		Name: "three",
		Steps: []model.WorkflowStep{
			{Id: "a", EndpointId: "e1", Order: 0},
			{Id: "b", EndpointId: "e2", Order: 1},
			{Id: "c", EndpointId: "e3", Order: 2},
		},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, nil)

	require.Equal(t, model.EXECUTION_FAILED, state.Status)
	require.Equal(t, model.STEP_SUCCESS, state.Steps[0].Status)
	require.Equal(t, model.STEP_ERROR, state.Steps[1].Status)
	require.Equal(t, model.STEP_PENDING, state.Steps[2].Status)
	require.Len(t, invoker.calls, 2)
}

func testParameterPrecedence(t *testing.T) {
	invoker := newFakeInvoker()
	wf := &model.Workflow{
		Id:   "wf-1",
		Name: "precedence",
		Steps: []model.WorkflowStep{
			{Id: "a", EndpointId: "e1", Order: 0, Parameters: map[string]any{"limit": float64(5)}},
		},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, map[string]any{"limit": float64(100), "extra": "x"})

	require.Equal(t, model.EXECUTION_COMPLETED, state.Status)
	// the step declared its own parameters, the global map is ignored entirely
	require.Equal(t, map[string]any{"limit": float64(5)}, invoker.calls[0].params)
}

func testGlobalFallback(t *testing.T) {
	invoker := newFakeInvoker()
	wf := &model.Workflow{
		Id:    "wf-1",
		Name:  "fallback",
		Steps: []model.WorkflowStep{{Id: "a", EndpointId: "e1", Order: 0}},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, map[string]any{"limit": float64(100)})

	require.Equal(t, model.EXECUTION_COMPLETED, state.Status)
	require.Equal(t, map[string]any{"limit": float64(100)}, invoker.calls[0].params)
}

func testConditionHalt(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.results["e1"] = &InvocationResult{Status: 200, Data: map[string]any{"count": float64(0)}}
	wf := &model.Workflow{
		Id:   "wf-1",
		Name: "gated",
		Steps: []model.WorkflowStep{
			{Id: "a", EndpointId: "e1", Order: 0},
			{Id: "b", EndpointId: "e2", Order: 1, ConditionalLogic: &model.ConditionalLogic{Condition: "$.steps.a.count > 0"}},
			{Id: "c", EndpointId: "e3", Order: 2},
		},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, nil)

	require.Equal(t, model.EXECUTION_COMPLETED, state.Status)
	require.Contains(t, state.HaltReason, "step b")
	require.Equal(t, model.STEP_PENDING, state.Steps[1].Status)
	require.Equal(t, model.STEP_PENDING, state.Steps[2].Status)
	require.Len(t, invoker.calls, 1)
}

func testConditionContinue(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.results["e1"] = &InvocationResult{Status: 200, Data: map[string]any{"count": float64(3)}}
	wf := &model.Workflow{
		Id:   "wf-1",
		Name: "gated",
		Steps: []model.WorkflowStep{
			{Id: "a", EndpointId: "e1", Order: 0},
			{Id: "b", EndpointId: "e2", Order: 1, ConditionalLogic: &model.ConditionalLogic{Condition: "$.steps.a.count > 0"}},
		},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, nil)

	require.Equal(t, model.EXECUTION_COMPLETED, state.Status)
	require.Equal(t, model.STEP_SUCCESS, state.Steps[1].Status)
	require.Empty(t, state.HaltReason)
}

func testConditionError(t *testing.T) {
	invoker := newFakeInvoker()
	wf := &model.Workflow{
		Id:   "wf-1",
		Name: "gated",
		Steps: []model.WorkflowStep{
			{Id: "a", EndpointId: "e1", Order: 0, ConditionalLogic: &model.ConditionalLogic{Condition: "syntax error ("}},
		},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, nil)

	require.Equal(t, model.EXECUTION_FAILED, state.Status)
	require.Equal(t, model.STEP_ERROR, state.Steps[0].Status)
	require.Len(t, invoker.calls, 0)
}

func testCancellation(t *testing.T) {
	invoker := newFakeInvoker()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec := NewExecutor(Convert(twoStepWorkflow()), invoker, "run-1")
	state := exec.Execute(ctx, nil, nil)

	require.Equal(t, model.EXECUTION_PAUSED, state.Status)
	require.Equal(t, model.STEP_PENDING, state.Steps[0].Status)
	require.Len(t, invoker.calls, 0)
}

func testFreshRun(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.results["get-users"] = &InvocationResult{Status: 200, Data: map[string]any{"id": "u1"}}
	flow := Convert(twoStepWorkflow())

	first := NewExecutor(flow, invoker, "run-1")
	state := first.Execute(context.Background(), nil, nil)
	require.Equal(t, model.EXECUTION_COMPLETED, state.Status)

	// calling Execute again on the same executor does not re-run anything
	again := first.Execute(context.Background(), nil, nil)
	require.Equal(t, state.Status, again.Status)
	require.Len(t, invoker.calls, 2)

	second := NewExecutor(flow, invoker, "run-2")
	fresh := second.Snapshot()
	require.Equal(t, model.EXECUTION_IDLE, fresh.Status)
	for _, step := range fresh.Steps {
		require.Equal(t, model.STEP_PENDING, step.Status)
		require.Nil(t, step.Result)
	}
}

func testListener(t *testing.T) {
	invoker := newFakeInvoker()
	wf := &model.Workflow{
		Id:    "wf-1",
		Name:  "single",
		Steps: []model.WorkflowStep{{Id: "a", EndpointId: "e1", Order: 0}},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	var seen []model.ExecutionStatus
	exec.OnTransition(func(state model.ExecutionState) {
		seen = append(seen, state.Status)
	})
	exec.Execute(context.Background(), nil, nil)

	// start, step running, step success, completed
	require.Equal(t, []model.ExecutionStatus{
		model.EXECUTION_RUNNING,
		model.EXECUTION_RUNNING,
		model.EXECUTION_RUNNING,
		model.EXECUTION_COMPLETED,
	}, seen)
}

func testOrdering(t *testing.T) {
	invoker := newFakeInvoker()
	wf := &model.Workflow{
		Id:   "wf-1",
		Name: "ordering",
		Steps: []model.WorkflowStep{
			{Id: "c", EndpointId: "e3", Order: 2},
			{Id: "a", EndpointId: "e1", Order: 0},
			{Id: "b", EndpointId: "e2", Order: 1},
		},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	state := exec.Execute(context.Background(), nil, nil)

	require.Equal(t, model.EXECUTION_COMPLETED, state.Status)
	require.Equal(t, "e1", invoker.calls[0].endpointId)
	require.Equal(t, "e2", invoker.calls[1].endpointId)
	require.Equal(t, "e3", invoker.calls[2].endpointId)
	for i := 0; i < len(state.Steps)-1; i++ {
		require.False(t, state.Steps[i].EndTime.After(*state.Steps[i+1].StartTime))
	}
}

func testDuplicateOrder(t *testing.T) {
	invoker := newFakeInvoker()
	wf := &model.Workflow{
		Id:   "wf-1",
		Name: "duplicate order",
		Steps: []model.WorkflowStep{
			{Id: "first", EndpointId: "e1", Order: 1},
			{Id: "second", EndpointId: "e2", Order: 1},
		},
	}
	exec := NewExecutor(Convert(wf), invoker, "run-1")
	exec.Execute(context.Background(), nil, nil)

	require.Equal(t, "e1", invoker.calls[0].endpointId)
	require.Equal(t, "e2", invoker.calls[1].endpointId)
}

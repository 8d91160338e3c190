package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/flowly-io/flowly/cache"
	"github.com/flowly-io/flowly/engine"
	"github.com/flowly-io/flowly/metadata"
	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/persistence"
	"github.com/flowly-io/flowly/persistence/inmem"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	mu      sync.Mutex
	results map[string]*engine.InvocationResult
	calls   []string
}

func newFakeInvoker() *fakeInvoker {
	return &fakeInvoker{results: make(map[string]*engine.InvocationResult)}
}

func (f *fakeInvoker) Invoke(ctx context.Context, endpointId string, params map[string]any) (*engine.InvocationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, endpointId)
	if res, ok := f.results[endpointId]; ok {
		return res, nil
	}
	return &engine.InvocationResult{Status: 200, Data: map[string]any{}}, nil
}

func setupService(t *testing.T, inv engine.Invoker) *WorkflowExecutionService {
	t.Helper()
	storage := inmem.NewInMemMetadataStorage()
	metaSvc := metadata.NewMetadataService(storage, cache.NewDefinitionCache(time.Minute))
	archive := inmem.NewInMemExecutionArchive()
	execCache := cache.NewExecutionCache(time.Minute)
	wg := &sync.WaitGroup{}
	svc := NewWorkflowExecutionService(metaSvc, inv, archive, execCache, 10, wg)
	require.NoError(t, svc.Start())
	t.Cleanup(func() {
		svc.Stop()
		wg.Wait()
	})

	require.NoError(t, storage.SaveEndpoint(model.Endpoint{Id: "get-users", Method: "GET", Path: "/users"}))
	require.NoError(t, storage.SaveEndpoint(model.Endpoint{Id: "post-orders", Method: "POST", Path: "/orders"}))
	wf := model.Workflow{
		Id:   "wf-1",
		Name: "users and orders",
		Steps: []model.WorkflowStep{
			{Id: "step-0", EndpointId: "get-users", Order: 0},
			{Id: "step-1", EndpointId: "post-orders", Order: 1, Parameters: map[string]any{
				"userId": "${steps.step-0.id}",
			}},
		},
	}
	_, err := metaSvc.SaveWorkflow(wf)
	require.NoError(t, err)
	return svc
}

func TestWorkflowExecutionService(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"run workflow returns terminal state":      testRunWorkflowInline,
		"start workflow executes asynchronously":   testStartWorkflowAsync,
		"get execution finds archived run":         testGetArchivedExecution,
		"unknown workflow is rejected":             testUnknownWorkflowRejected,
		"unknown execution reports not found":      testUnknownExecutionNotFound,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}

func testRunWorkflowInline(t *testing.T) {
	inv := newFakeInvoker()
	inv.results["get-users"] = &engine.InvocationResult{Status: 200, Data: map[string]any{"id": "u1"}}
	svc := setupService(t, inv)

	state, err := svc.RunWorkflow(context.Background(), "wf-1", nil, nil)
	require.NoError(t, err)
	require.Equal(t, model.EXECUTION_COMPLETED, state.Status)
	require.Len(t, state.Steps, 2)
	require.Equal(t, []string{"get-users", "post-orders"}, inv.calls)
}

func testStartWorkflowAsync(t *testing.T) {
	inv := newFakeInvoker()
	inv.results["get-users"] = &engine.InvocationResult{Status: 200, Data: map[string]any{"id": "u1"}}
	svc := setupService(t, inv)

	executionId, err := svc.StartWorkflow("wf-1", nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, executionId)

	require.Eventually(t, func() bool {
		state, err := svc.GetExecution(executionId)
		if err != nil {
			return false
		}
		return state.Status == model.EXECUTION_COMPLETED
	}, 2*time.Second, 10*time.Millisecond)
}

func testGetArchivedExecution(t *testing.T) {
	inv := newFakeInvoker()
	inv.results["get-users"] = &engine.InvocationResult{Status: 200, Data: map[string]any{"id": "u1"}}
	svc := setupService(t, inv)

	state, err := svc.RunWorkflow(context.Background(), "wf-1", nil, nil)
	require.NoError(t, err)

	found, err := svc.GetExecution(state.Id)
	require.NoError(t, err)
	require.Equal(t, state.Id, found.Id)
	require.Equal(t, model.EXECUTION_COMPLETED, found.Status)
}

func testUnknownWorkflowRejected(t *testing.T) {
	svc := setupService(t, newFakeInvoker())
	_, err := svc.StartWorkflow("missing", nil, nil)
	require.Error(t, err)
}

func testUnknownExecutionNotFound(t *testing.T) {
	svc := setupService(t, newFakeInvoker())
	_, err := svc.GetExecution("missing")
	require.Error(t, err)
	var notFound persistence.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowly-io/flowly/cache"
	"github.com/flowly-io/flowly/engine"
	"github.com/flowly-io/flowly/logger"
	"github.com/flowly-io/flowly/metadata"
	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ExecutionArchive interface {
	SaveExecution(state model.ExecutionState) error
	GetExecution(id string) (*model.ExecutionState, error)
}

type runRequest struct {
	executor *engine.Executor
	input    map[string]any
	params   map[string]any
}

type WorkflowExecutionService struct {
	metadataService metadata.MetadataService
	invoker         engine.Invoker
	archive         ExecutionArchive
	executionCache  *cache.ExecutionCache
	worker          *util.Worker
	capacity        int
	wg              *sync.WaitGroup
	mu              sync.Mutex
	running         map[string]*engine.Executor
}

func NewWorkflowExecutionService(metadataService metadata.MetadataService, invoker engine.Invoker, archive ExecutionArchive, executionCache *cache.ExecutionCache, capacity int, wg *sync.WaitGroup) *WorkflowExecutionService {
	return &WorkflowExecutionService{
		metadataService: metadataService,
		invoker:         invoker,
		archive:         archive,
		executionCache:  executionCache,
		capacity:        capacity,
		wg:              wg,
		running:         make(map[string]*engine.Executor),
	}
}

func (s *WorkflowExecutionService) Start() error {
	s.worker = util.NewWorker("workflow-executor", s.wg, s.handler, s.capacity)
	s.worker.Start()
	logger.Info("workflow execution service started")
	return nil
}

func (s *WorkflowExecutionService) Stop() error {
	s.worker.Stop()
	return nil
}

func (s *WorkflowExecutionService) Name() string {
	return "workflow-executor"
}

func (s *WorkflowExecutionService) handler(task util.Task) error {
	req, ok := task.(runRequest)
	if !ok {
		return fmt.Errorf("can not handle task of type other than runRequest")
	}
	s.run(context.Background(), req.executor, req.input, req.params)
	return nil
}

func (s *WorkflowExecutionService) run(ctx context.Context, ex *engine.Executor, input map[string]any, params map[string]any) model.ExecutionState {
	state := ex.Execute(ctx, input, params)
	s.executionCache.Save(state)
	if err := s.archive.SaveExecution(state); err != nil {
		logger.Error("error archiving execution", zap.String("executionId", state.Id), zap.Error(err))
	}
	s.mu.Lock()
	delete(s.running, state.Id)
	s.mu.Unlock()
	logger.Info("workflow execution finished", zap.String("workflow", state.WorkflowId),
		zap.String("executionId", state.Id), zap.String("status", string(state.Status)))
	return state
}

// StartWorkflow queues a new execution of the given workflow and returns its
// execution id without waiting for the run to finish.
func (s *WorkflowExecutionService) StartWorkflow(workflowId string, input map[string]any, params map[string]any) (string, error) {
	ex, err := s.newExecutor(workflowId)
	if err != nil {
		return "", err
	}
	s.worker.Sender() <- runRequest{executor: ex, input: input, params: params}
	return ex.Id(), nil
}

// RunWorkflow executes the workflow inline and returns its terminal state.
func (s *WorkflowExecutionService) RunWorkflow(ctx context.Context, workflowId string, input map[string]any, params map[string]any) (model.ExecutionState, error) {
	ex, err := s.newExecutor(workflowId)
	if err != nil {
		return model.ExecutionState{}, err
	}
	return s.run(ctx, ex, input, params), nil
}

func (s *WorkflowExecutionService) newExecutor(workflowId string) (*engine.Executor, error) {
	flow, err := s.metadataService.GetFlow(workflowId)
	if err != nil {
		return nil, err
	}
	runId := uuid.New().String()
	ex := engine.NewExecutor(flow, s.invoker, runId)
	s.mu.Lock()
	s.running[runId] = ex
	s.mu.Unlock()
	return ex, nil
}

// GetExecution reports the state of a run, live or archived.
func (s *WorkflowExecutionService) GetExecution(executionId string) (*model.ExecutionState, error) {
	s.mu.Lock()
	ex, ok := s.running[executionId]
	s.mu.Unlock()
	if ok {
		state := ex.Snapshot()
		return &state, nil
	}
	if state, ok := s.executionCache.Get(executionId); ok {
		return state, nil
	}
	return s.archive.GetExecution(executionId)
}

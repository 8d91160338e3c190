package inmem

import (
	"sync"

	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/persistence"
)

type inMemExecutionArchive struct {
	mu         sync.RWMutex
	executions map[string]model.ExecutionState
}

func NewInMemExecutionArchive() *inMemExecutionArchive {
	return &inMemExecutionArchive{
		executions: make(map[string]model.ExecutionState),
	}
}

func (ea *inMemExecutionArchive) SaveExecution(state model.ExecutionState) error {
	ea.mu.Lock()
	defer ea.mu.Unlock()
	ea.executions[state.Id] = state
	return nil
}

func (ea *inMemExecutionArchive) GetExecution(id string) (*model.ExecutionState, error) {
	ea.mu.RLock()
	defer ea.mu.RUnlock()
	state, ok := ea.executions[id]
	if !ok {
		return nil, persistence.NotFoundError{Kind: "execution", Id: id}
	}
	return &state, nil
}

package inmem

import (
	"sync"

	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/persistence"
)

type inMemMetadataStorage struct {
	mu        sync.RWMutex
	workflows map[string]model.Workflow
	endpoints map[string]model.Endpoint
}

func NewInMemMetadataStorage() *inMemMetadataStorage {
	return &inMemMetadataStorage{
		workflows: make(map[string]model.Workflow),
		endpoints: make(map[string]model.Endpoint),
	}
}

func (ms *inMemMetadataStorage) SaveWorkflow(wf model.Workflow) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.workflows[wf.Id] = wf
	return nil
}

func (ms *inMemMetadataStorage) DeleteWorkflow(id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.workflows, id)
	return nil
}

func (ms *inMemMetadataStorage) GetWorkflow(id string) (*model.Workflow, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	wf, ok := ms.workflows[id]
	if !ok {
		return nil, persistence.NotFoundError{Kind: "workflow", Id: id}
	}
	return &wf, nil
}

func (ms *inMemMetadataStorage) SaveEndpoint(endpoint model.Endpoint) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.endpoints[endpoint.Id] = endpoint
	return nil
}

func (ms *inMemMetadataStorage) DeleteEndpoint(id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.endpoints, id)
	return nil
}

func (ms *inMemMetadataStorage) GetEndpoint(id string) (*model.Endpoint, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	endpoint, ok := ms.endpoints[id]
	if !ok {
		return nil, persistence.NotFoundError{Kind: "endpoint", Id: id}
	}
	return &endpoint, nil
}

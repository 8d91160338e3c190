package metadata

import (
	"fmt"
	"time"

	"github.com/flowly-io/flowly/cache"
	"github.com/flowly-io/flowly/engine"
	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/resolver"
	"github.com/google/uuid"
)

type MetadataService interface {
	SaveWorkflow(wf model.Workflow) (*model.Workflow, error)
	DeleteWorkflow(id string) error
	GetFlow(id string) (*engine.Flow, error)
	ValidateWorkflow(wf model.Workflow) error
	GetMetadataStorage() MetadataStorage
}

type MetadataServiceImpl struct {
	storage         MetadataStorage
	definitionCache *cache.DefinitionCache
}

func NewMetadataService(storage MetadataStorage, definitionCache *cache.DefinitionCache) MetadataService {
	return &MetadataServiceImpl{
		storage:         storage,
		definitionCache: definitionCache,
	}
}

func (s *MetadataServiceImpl) SaveWorkflow(wf model.Workflow) (*model.Workflow, error) {
	if len(wf.Id) == 0 {
		wf.Id = uuid.New().String()
	}
	if err := s.ValidateWorkflow(wf); err != nil {
		return nil, err
	}
	now := time.Now()
	if wf.CreatedAt.IsZero() {
		wf.CreatedAt = now
	}
	wf.UpdatedAt = now
	if err := s.storage.SaveWorkflow(wf); err != nil {
		return nil, err
	}
	s.definitionCache.Save(wf)
	return &wf, nil
}

func (s *MetadataServiceImpl) DeleteWorkflow(id string) error {
	s.definitionCache.Delete(id)
	return s.storage.DeleteWorkflow(id)
}

func (s *MetadataServiceImpl) GetFlow(id string) (*engine.Flow, error) {
	if wf, found := s.definitionCache.Get(id); found {
		return engine.Convert(wf), nil
	}
	wf, err := s.storage.GetWorkflow(id)
	if err != nil {
		return nil, err
	}
	s.definitionCache.Save(*wf)
	return engine.Convert(wf), nil
}

func (s *MetadataServiceImpl) ValidateWorkflow(wf model.Workflow) error {
	if len(wf.Name) == 0 {
		return fmt.Errorf("workflow name can not be empty")
	}
	if len(wf.Steps) == 0 {
		return fmt.Errorf("workflow should have at least one step")
	}
	stepIds := make(map[string]any)
	for _, step := range wf.Steps {
		if len(step.Id) == 0 {
			return fmt.Errorf("step id can not be empty")
		}
		if _, ok := stepIds[step.Id]; ok {
			return fmt.Errorf("step id %s is duplicate", step.Id)
		}
		stepIds[step.Id] = ""
		if len(step.EndpointId) == 0 {
			return fmt.Errorf("stepId=%s, endpointId can not be empty", step.Id)
		}
		if _, err := s.storage.GetEndpoint(step.EndpointId); err != nil {
			return fmt.Errorf("stepId=%s, endpoint %s not registered", step.Id, step.EndpointId)
		}
	}

	// position in execution sequence, used to reject references to steps
	// that run at or after the referencing step
	flow := engine.Convert(&wf)
	position := make(map[string]int, len(flow.Steps))
	for i, step := range flow.Steps {
		position[step.Id] = i
	}
	for i, step := range flow.Steps {
		if err := validateRefs(step.Id, i, step.Params, position); err != nil {
			return err
		}
		if len(step.Condition) > 0 {
			if err := engine.ValidateCondition(step.Condition); err != nil {
				return fmt.Errorf("stepId=%s, %w", step.Id, err)
			}
		}
		if len(step.NextStepId) > 0 {
			if _, ok := position[step.NextStepId]; !ok {
				return fmt.Errorf("stepId=%s, next step %s not defined", step.Id, step.NextStepId)
			}
		}
	}
	return nil
}

func validateRefs(stepId string, stepPos int, params map[string]resolver.Value, position map[string]int) error {
	for _, value := range params {
		if err := validateRef(stepId, stepPos, value, position); err != nil {
			return err
		}
	}
	return nil
}

func validateRef(stepId string, stepPos int, value resolver.Value, position map[string]int) error {
	switch ref := value.(type) {
	case resolver.StepRef:
		refPos, ok := position[ref.StepId]
		if !ok {
			return fmt.Errorf("stepId=%s, parameter references undefined step %s", stepId, ref.StepId)
		}
		if refPos >= stepPos {
			return fmt.Errorf("stepId=%s, parameter references step %s which does not execute earlier", stepId, ref.StepId)
		}
	case resolver.MapValue:
		for _, nested := range ref.Entries {
			if err := validateRef(stepId, stepPos, nested, position); err != nil {
				return err
			}
		}
	case resolver.ListValue:
		for _, nested := range ref.Items {
			if err := validateRef(stepId, stepPos, nested, position); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *MetadataServiceImpl) GetMetadataStorage() MetadataStorage {
	return s.storage
}

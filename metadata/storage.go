package metadata

import "github.com/flowly-io/flowly/model"

type MetadataStorage interface {
	SaveWorkflow(wf model.Workflow) error
	DeleteWorkflow(id string) error
	GetWorkflow(id string) (*model.Workflow, error)
	SaveEndpoint(endpoint model.Endpoint) error
	DeleteEndpoint(id string) error
	GetEndpoint(id string) (*model.Endpoint, error)
}

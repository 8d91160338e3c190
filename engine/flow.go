package engine

import (
	"sort"

	"github.com/flowly-io/flowly/model"
	"github.com/flowly-io/flowly/resolver"
)

// Flow is the executable form of a workflow definition: steps sorted by
// order with parameter placeholders parsed up front.
type Flow struct {
	Id    string
	Name  string
	Steps []Step
}

type Step struct {
	Id         string
	EndpointId string
	Order      int
	Params     map[string]resolver.Value
	Condition  string
	NextStepId string
}

func Convert(wf *model.Workflow) *Flow {
	steps := make([]Step, 0, len(wf.Steps))
	for _, stepDef := range wf.Steps {
		step := Step{
			Id:         stepDef.Id,
			EndpointId: stepDef.EndpointId,
			Order:      stepDef.Order,
			Params:     resolver.ParseParams(stepDef.Parameters),
		}
		if stepDef.ConditionalLogic != nil {
			step.Condition = stepDef.ConditionalLogic.Condition
			step.NextStepId = stepDef.ConditionalLogic.NextStepId
		}
		steps = append(steps, step)
	}
	// duplicate order values keep declaration order
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Order < steps[j].Order
	})
	return &Flow{
		Id:    wf.Id,
		Name:  wf.Name,
		Steps: steps,
	}
}

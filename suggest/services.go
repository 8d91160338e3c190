package suggest

// Services bundles the four AI suggestion services behind one provider.
type Services struct {
	Generator *WorkflowGenerator
	Suggester *FlowSuggester
	Learner   *PatternLearner
	Builder   *AutoBuilder
}

func NewServices(provider ChatProvider) *Services {
	return &Services{
		Generator: NewWorkflowGenerator(provider),
		Suggester: NewFlowSuggester(provider),
		Learner:   NewPatternLearner(provider),
		Builder:   NewAutoBuilder(provider),
	}
}

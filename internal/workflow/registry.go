package workflow

import "context"

// Step names. Suspend markers persist these across process boundaries, so
// renaming a step breaks resume for any session suspended at it.
const (
	StepRouteAction      = "route_action"
	StepParseInput       = "parse_input"
	StepExtractSummarize = "extract_and_summarize"
	StepAskForTone       = "ask_for_tone"
	StepGenerateDraft    = "generate_initial_draft"
	StepRefineDraft      = "refine_draft"
	StepShowInfo         = "show_info"
	StepSaveDraft        = "save_draft"
	StepSwitchSubsession = "switch_subsession"
	StepResetSession     = "reset_session"
	StepHandleUnclear    = "handle_unclear"
)

// StepFunc executes one workflow step against the turn context.
type StepFunc func(ctx context.Context, t *Turn) (Outcome, error)

// Registry maps step names to their implementations.
type Registry struct {
	steps map[string]StepFunc
}

// NewRegistry creates an empty step registry.
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]StepFunc),
	}
}

// Register binds a step name to its implementation, replacing any
// existing binding.
func (r *Registry) Register(name string, fn StepFunc) {
	r.steps[name] = fn
}

// Lookup returns the step bound to name.
func (r *Registry) Lookup(name string) (StepFunc, bool) {
	fn, ok := r.steps[name]
	return fn, ok
}

// Contains reports whether a step is registered under name.
func (r *Registry) Contains(name string) bool {
	_, ok := r.steps[name]
	return ok
}

// DefaultRegistry returns a registry with every built-in step bound.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(StepRouteAction, stepRouteAction)
	r.Register(StepParseInput, stepParseInput)
	r.Register(StepExtractSummarize, stepExtractSummarize)
	r.Register(StepAskForTone, stepAskForTone)
	r.Register(StepGenerateDraft, stepGenerateDraft)
	r.Register(StepRefineDraft, stepRefineDraft)
	r.Register(StepShowInfo, stepShowInfo)
	r.Register(StepSaveDraft, stepSaveDraft)
	r.Register(StepSwitchSubsession, stepSwitchSubsession)
	r.Register(StepResetSession, stepResetSession)
	r.Register(StepHandleUnclear, stepHandleUnclear)
	return r
}

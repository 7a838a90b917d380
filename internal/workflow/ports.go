package workflow

import (
	"context"

	"github.com/JaimeStill/epistle/internal/prompts"
)

// Classifier is the structured-decision port used by the routing step.
// It returns raw model output; the caller parses it into a RouteDecision.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// Generator is the content port used by summarization, drafting, and
// refinement steps.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PromptSource resolves the tunable instructions and immutable
// specification for a workflow stage. The prompt domain system satisfies
// this interface.
type PromptSource interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
	Spec(ctx context.Context, stage prompts.Stage) (string, error)
}

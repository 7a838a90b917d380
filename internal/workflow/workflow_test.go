package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/epistle/internal/ingest"
	"github.com/JaimeStill/epistle/internal/prompts"
	"github.com/JaimeStill/epistle/internal/sessions"
	"github.com/JaimeStill/epistle/internal/workflow"
)

type classifierFunc func(ctx context.Context, prompt string) (string, error)

func (f classifierFunc) Classify(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type resolverFunc func(ctx context.Context, src sessions.SourceDescriptor) (*ingest.Result, error)

func (f resolverFunc) Resolve(ctx context.Context, src sessions.SourceDescriptor) (*ingest.Result, error) {
	return f(ctx, src)
}

type saverFunc func(ctx context.Context, target string, subsession uuid.UUID, content string) (string, error)

func (f saverFunc) Save(ctx context.Context, target string, subsession uuid.UUID, content string) (string, error) {
	return f(ctx, target, subsession, content)
}

// defaultPrompts serves the hardcoded stage instructions and specs.
type defaultPrompts struct{}

func (defaultPrompts) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Instructions(stage)
}

func (defaultPrompts) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

func classify(response string) classifierFunc {
	return func(context.Context, string) (string, error) {
		return response, nil
	}
}

func classifyFail(t *testing.T) classifierFunc {
	return func(context.Context, string) (string, error) {
		t.Helper()
		return "", errors.New("classifier must not be called on this turn")
	}
}

func generate(response string) generatorFunc {
	return func(context.Context, string) (string, error) {
		return response, nil
	}
}

func resolveText() resolverFunc {
	return func(_ context.Context, src sessions.SourceDescriptor) (*ingest.Result, error) {
		return &ingest.Result{RawText: src.Ref}, nil
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRuntime(
	store sessions.Store,
	classifier workflow.Classifier,
	generator workflow.Generator,
) *workflow.Runtime {
	return &workflow.Runtime{
		Config:     workflow.DefaultConfig(),
		Store:      store,
		Locks:      sessions.NewTurnLocks(),
		Classifier: classifier,
		Generator:  generator,
		Sources:    resolveText(),
		Artifacts: saverFunc(func(_ context.Context, target string, id uuid.UUID, _ string) (string, error) {
			return fmt.Sprintf("%s/%s.txt", target, id), nil
		}),
		Prompts: defaultPrompts{},
		Logger:  testLogger(),
	}
}

func newCoordinator(
	store sessions.Store,
	classifier workflow.Classifier,
	generator workflow.Generator,
) *workflow.Coordinator {
	return workflow.NewCoordinator(
		newRuntime(store, classifier, generator),
		workflow.DefaultRegistry(),
	)
}

const summarizeJSON = `{
	"title": "Q3 budget approval",
	"participants": ["alice@example.com", "bob@example.com"],
	"subjects": ["Q3 Budget"],
	"messages": [
		{"from": "alice@example.com", "subject": "Q3 Budget", "body": "Can you approve the Q3 budget?"},
		{"from": "bob@example.com", "subject": "Q3 Budget", "body": "Checking the numbers now."}
	],
	"latest_at": "2026-08-27T09:30:00Z",
	"key_points": ["approve the Q3 budget", "confirm the offsite date"],
	"summary": "Alice asks Bob to approve the Q3 budget and confirm the offsite date."
}`

func routeJSON(action string, fields map[string]string) string {
	out := fmt.Sprintf("{%q: %q", "action", action)
	for k, v := range fields {
		out += fmt.Sprintf(", %q: %q", k, v)
	}
	return out + "}"
}

// seedThread runs the ingest and summarize turns for a fresh session,
// answering the tone question, and returns the session id.
func seedThread(t *testing.T, store sessions.Store) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	first := newCoordinator(store, classify(routeJSON("process_new_email", nil)), generate(summarizeJSON))
	resp, err := first.Turn(ctx, workflow.TurnRequest{Input: "Please help me reply to this: Hi Bob, can you approve the Q3 budget?"})
	if err != nil {
		t.Fatalf("seed turn failed: %v", err)
	}
	if resp.Kind != workflow.KindAwaitingInput {
		t.Fatalf("seed turn kind = %s, want %s", resp.Kind, workflow.KindAwaitingInput)
	}

	id := resp.SessionID
	second := newCoordinator(store, classifyFail(t), generate("Hi Alice,\n\nApproved.\n\nBob"))
	resp, err = second.Turn(ctx, workflow.TurnRequest{SessionID: &id, Input: "friendly"})
	if err != nil {
		t.Fatalf("tone turn failed: %v", err)
	}
	if resp.Kind != workflow.KindReply {
		t.Fatalf("tone turn kind = %s, want %s", resp.Kind, workflow.KindReply)
	}

	return id
}

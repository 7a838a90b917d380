package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/epistle/internal/sessions"
	"github.com/JaimeStill/epistle/internal/workflow"
)

func newTurn() *workflow.Turn {
	return &workflow.Turn{Session: sessions.NewSession()}
}

func TestExecutorRunsToCompletion(t *testing.T) {
	registry := workflow.NewRegistry()
	registry.Register("first", func(context.Context, *workflow.Turn) (workflow.Outcome, error) {
		return workflow.Continue("second"), nil
	})
	registry.Register("second", func(context.Context, *workflow.Turn) (workflow.Outcome, error) {
		return workflow.Complete("done"), nil
	})

	executor := workflow.NewExecutor(registry, workflow.DefaultConfig(), testLogger())

	out, err := executor.Run(context.Background(), newTurn(), "first")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !out.Terminal() {
		t.Error("completed outcome is not terminal")
	}
	if out.Reply() != "done" {
		t.Errorf("reply = %q, want done", out.Reply())
	}
}

func TestExecutorStopsAtSuspension(t *testing.T) {
	marker := sessions.SuspendMarker{
		Step:          "ask",
		Prompt:        "what tone?",
		ExpectedField: "tone",
	}

	registry := workflow.NewRegistry()
	registry.Register("ask", func(context.Context, *workflow.Turn) (workflow.Outcome, error) {
		return workflow.Suspend(marker), nil
	})

	executor := workflow.NewExecutor(registry, workflow.DefaultConfig(), testLogger())

	out, err := executor.Run(context.Background(), newTurn(), "ask")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got := out.Suspended()
	if got == nil {
		t.Fatal("suspension marker was not carried through")
	}
	if got.Step != marker.Step || got.Prompt != marker.Prompt || got.ExpectedField != marker.ExpectedField {
		t.Errorf("marker = %+v, want %+v", *got, marker)
	}
}

func TestExecutorUnknownStep(t *testing.T) {
	executor := workflow.NewExecutor(workflow.NewRegistry(), workflow.DefaultConfig(), testLogger())

	_, err := executor.Run(context.Background(), newTurn(), "missing")
	if !errors.Is(err, workflow.ErrUnknownStep) {
		t.Fatalf("err = %v, want ErrUnknownStep", err)
	}
}

func TestExecutorStepBudget(t *testing.T) {
	registry := workflow.NewRegistry()
	registry.Register("loop", func(context.Context, *workflow.Turn) (workflow.Outcome, error) {
		return workflow.Continue("loop"), nil
	})

	cfg := workflow.Config{MaxSteps: 3, RecentTurns: 10}
	executor := workflow.NewExecutor(registry, cfg, testLogger())

	_, err := executor.Run(context.Background(), newTurn(), "loop")
	if !errors.Is(err, workflow.ErrRoutingLoopExceeded) {
		t.Fatalf("err = %v, want ErrRoutingLoopExceeded", err)
	}
}

func TestExecutorWrapsStepError(t *testing.T) {
	boom := errors.New("boom")
	registry := workflow.NewRegistry()
	registry.Register("fail", func(context.Context, *workflow.Turn) (workflow.Outcome, error) {
		return workflow.Outcome{}, boom
	})

	executor := workflow.NewExecutor(registry, workflow.DefaultConfig(), testLogger())

	_, err := executor.Run(context.Background(), newTurn(), "fail")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped step error", err)
	}
}

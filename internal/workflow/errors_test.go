package workflow_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JaimeStill/epistle/internal/sessions"
	"github.com/JaimeStill/epistle/internal/workflow"
)

func TestCondition(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ingest", workflow.ErrIngestFailed, workflow.ConditionIngestFailed},
		{"classification", workflow.ErrClassificationFailed, workflow.ConditionClassificationFailed},
		{"generation", workflow.ErrGenerationFailed, workflow.ConditionGenerationFailed},
		{"artifact save", workflow.ErrArtifactSaveFailed, workflow.ConditionArtifactSaveFailed},
		{"routing loop", workflow.ErrRoutingLoopExceeded, workflow.ConditionRoutingLoopExceeded},
		{"unknown step on resume", workflow.ErrUnknownStepOnResume, workflow.ConditionUnknownStepOnResume},
		{"turn in flight", sessions.ErrTurnInFlight, workflow.ConditionConcurrentTurnRejected},
		{"version conflict", sessions.ErrVersionConflict, workflow.ConditionVersionConflict},
		{"unknown error", errors.New("boom"), workflow.ConditionInternal},
		{
			"wrapped ingest",
			fmt.Errorf("step parse_input: %w", workflow.ErrIngestFailed),
			workflow.ConditionIngestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflow.Condition(tt.err); got != tt.want {
				t.Errorf("Condition(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty input", workflow.ErrEmptyInput, http.StatusBadRequest},
		{"session not found", sessions.ErrNotFound, http.StatusNotFound},
		{"turn in flight", sessions.ErrTurnInFlight, http.StatusConflict},
		{"version conflict", sessions.ErrVersionConflict, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped turn in flight",
			fmt.Errorf("session x: %w", sessions.ErrTurnInFlight),
			http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflow.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

package workflow

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/epistle/internal/sessions"
)

// Workflow errors. Each maps to a stable condition code surfaced in turn
// responses so callers can react without parsing message text.
var (
	ErrEmptyInput           = errors.New("turn input is empty")
	ErrIngestFailed         = errors.New("failed to read the email source")
	ErrClassificationFailed = errors.New("failed to interpret the request")
	ErrGenerationFailed     = errors.New("failed to generate a response")
	ErrArtifactSaveFailed   = errors.New("failed to save the draft")
	ErrRoutingLoopExceeded  = errors.New("workflow exceeded its step budget")
	ErrUnknownStep          = errors.New("workflow step is not registered")
	ErrUnknownStepOnResume  = errors.New("suspended step is no longer registered")
)

// Condition codes surfaced in error turn responses.
const (
	ConditionIngestFailed           = "ingest_failed"
	ConditionClassificationFailed   = "classification_failed"
	ConditionGenerationFailed       = "generation_failed"
	ConditionArtifactSaveFailed     = "artifact_save_failed"
	ConditionRoutingLoopExceeded    = "routing_loop_exceeded"
	ConditionUnknownStepOnResume    = "unknown_step_on_resume"
	ConditionConcurrentTurnRejected = "concurrent_turn_rejected"
	ConditionVersionConflict        = "version_conflict"
	ConditionInternal               = "internal_error"
)

// Condition maps a workflow error to its condition code.
func Condition(err error) string {
	switch {
	case errors.Is(err, ErrIngestFailed):
		return ConditionIngestFailed
	case errors.Is(err, ErrClassificationFailed):
		return ConditionClassificationFailed
	case errors.Is(err, ErrGenerationFailed):
		return ConditionGenerationFailed
	case errors.Is(err, ErrArtifactSaveFailed):
		return ConditionArtifactSaveFailed
	case errors.Is(err, ErrRoutingLoopExceeded):
		return ConditionRoutingLoopExceeded
	case errors.Is(err, ErrUnknownStepOnResume), errors.Is(err, ErrUnknownStep):
		return ConditionUnknownStepOnResume
	case errors.Is(err, sessions.ErrTurnInFlight):
		return ConditionConcurrentTurnRejected
	case errors.Is(err, sessions.ErrVersionConflict):
		return ConditionVersionConflict
	default:
		return ConditionInternal
	}
}

// userMessage returns the conversational reply recorded in dialogue history
// when a turn fails. It never exposes internal error detail.
func userMessage(err error) string {
	switch Condition(err) {
	case ConditionIngestFailed:
		return "I couldn't read that email source. Check the path or key and try again."
	case ConditionClassificationFailed:
		return "I couldn't work out what you'd like me to do. Could you rephrase that?"
	case ConditionGenerationFailed:
		return "I ran into a problem while writing. Please try that again."
	case ConditionArtifactSaveFailed:
		return "I couldn't save the draft. The draft is still here; try saving again."
	case ConditionRoutingLoopExceeded:
		return "That request kept me going in circles, so I stopped. Try a simpler instruction."
	case ConditionUnknownStepOnResume:
		return "I lost track of where we paused. Let's start that request over."
	default:
		return "Something went wrong on my end. Please try again."
	}
}

// MapHTTPStatus maps turn errors to HTTP status codes. Workflow failures
// inside a completed turn are reported in the response body instead.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, sessions.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, sessions.ErrTurnInFlight) || errors.Is(err, sessions.ErrVersionConflict) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

package workflow

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/epistle/internal/sessions"
)

// TurnRequest is the caller's side of the turn contract. A nil SessionID
// starts a new conversation; SubsessionID optionally switches the active
// thread workspace before the input is routed.
type TurnRequest struct {
	SessionID    *uuid.UUID `json:"session_id,omitempty"`
	SubsessionID *uuid.UUID `json:"subsession_id,omitempty"`
	Input        string     `json:"input"`
}

// ResponseKind discriminates the three turn response shapes.
type ResponseKind string

// Turn response kinds.
const (
	KindReply         ResponseKind = "reply"
	KindAwaitingInput ResponseKind = "awaiting_input"
	KindError         ResponseKind = "error"
)

// TurnResponse is the orchestrator's side of the turn contract. Prompt and
// ExpectedField accompany awaiting_input responses; Condition accompanies
// error responses.
type TurnResponse struct {
	Kind          ResponseKind `json:"kind"`
	SessionID     uuid.UUID    `json:"session_id"`
	SubsessionID  uuid.UUID    `json:"subsession_id,omitzero"`
	Reply         string       `json:"reply,omitempty"`
	Prompt        string       `json:"prompt,omitempty"`
	ExpectedField string       `json:"expected_field,omitempty"`
	Condition     string       `json:"condition,omitempty"`
}

// Turn carries the mutable execution context threaded through steps within
// a single request cycle. Steps read and mutate the session aggregate
// directly; the coordinator persists it once the turn ends.
type Turn struct {
	Runtime *Runtime
	Session *sessions.Session
	Input   string

	// Resumed marks a turn that re-enters a suspended step. Resume holds
	// the step-local data captured at suspension.
	Resumed bool
	Resume  map[string]any

	// Decision is populated by the routing step for downstream steps.
	Decision *RouteDecision
}

// Active returns the session's active subsession, or nil.
func (t *Turn) Active() *sessions.Subsession {
	return t.Session.Active()
}

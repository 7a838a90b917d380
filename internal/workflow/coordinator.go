// Package workflow implements the conversational orchestration engine for
// Epistle: a step registry and executor, a context-aware router over a
// classifier port, and a turn coordinator that suspends and resumes
// multi-step workflows across stateless request cycles.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/epistle/internal/sessions"
)

// Coordinator runs one conversational turn per request cycle. It owns the
// turn lifecycle: session load or creation, single-writer turn locking,
// suspend marker handling, dialogue recording, and persistence with one
// transparent retry on a version conflict.
type Coordinator struct {
	rt       *Runtime
	executor *Executor
	logger   *slog.Logger
}

// NewCoordinator creates a coordinator over the given runtime and
// step registry.
func NewCoordinator(rt *Runtime, registry *Registry) *Coordinator {
	return &Coordinator{
		rt:       rt,
		executor: NewExecutor(registry, rt.Config, rt.Logger),
		logger:   rt.Logger.With("system", "workflow"),
	}
}

// Handler returns the HTTP handler for turn endpoints.
func (c *Coordinator) Handler() *Handler {
	return NewHandler(c, c.logger)
}

// Turn executes one turn of the conversation. Concurrent turns against
// the same session fail fast with ErrTurnInFlight; a version conflict
// during persistence triggers a single rerun against fresh state.
func (c *Coordinator) Turn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, ErrEmptyInput
	}

	session, created, err := c.load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	release, ok := c.rt.Locks.TryAcquire(session.ID.String())
	if !ok {
		return nil, fmt.Errorf("session %s: %w", session.ID, sessions.ErrTurnInFlight)
	}
	defer release()

	resp, err := c.run(ctx, session, req)
	if err == nil || !errors.Is(err, sessions.ErrVersionConflict) || created {
		return resp, err
	}

	// Another writer persisted between our load and save. Rerun the turn
	// once against fresh state; a second conflict surfaces to the caller.
	c.logger.WarnContext(
		ctx, "version conflict, rerunning turn",
		"session", session.ID,
	)

	session, err = c.rt.Store.Load(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return c.run(ctx, session, req)
}

func (c *Coordinator) load(ctx context.Context, id *uuid.UUID) (*sessions.Session, bool, error) {
	if id == nil {
		return sessions.NewSession(), true, nil
	}

	session, err := c.rt.Store.Load(ctx, *id)
	if err != nil {
		return nil, false, err
	}
	return session, false, nil
}

// run executes the turn body against a loaded session: activate the
// requested workspace, record the user input exactly once, execute from
// either the suspended step or the router, record the assistant side, and
// persist the full snapshot.
func (c *Coordinator) run(
	ctx context.Context,
	session *sessions.Session,
	req TurnRequest,
) (*TurnResponse, error) {
	if req.SubsessionID != nil {
		if !session.Activate(*req.SubsessionID) {
			return nil, fmt.Errorf("subsession %s: %w", req.SubsessionID, sessions.ErrNotFound)
		}
	}

	session.Append(sessions.RoleUser, req.Input)

	t := &Turn{
		Runtime: c.rt,
		Session: session,
		Input:   req.Input,
	}

	start, err := c.entryStep(t)

	var out Outcome
	if err == nil {
		out, err = c.executor.Run(ctx, t, start)
	}

	resp := c.conclude(ctx, session, out, err)

	if err := c.rt.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	resp.SessionID = session.ID
	resp.SubsessionID = session.ActiveID
	return resp, nil
}

// entryStep picks where execution begins. A pending suspend marker on the
// active workspace wins; its step-local state moves onto the turn and the
// marker is cleared so a completed resume cannot replay.
func (c *Coordinator) entryStep(t *Turn) (string, error) {
	active := t.Session.Active()
	if active == nil || !active.Suspended() {
		return StepRouteAction, nil
	}

	marker := active.Suspension
	active.Suspension = nil

	if !c.executor.registry.Contains(marker.Step) {
		return "", fmt.Errorf("%w: %s", ErrUnknownStepOnResume, marker.Step)
	}

	t.Resumed = true
	t.Resume = marker.Resume
	return marker.Step, nil
}

// conclude translates the execution outcome into a response and records
// the assistant's side of the dialogue. Failed turns still persist: the
// failure reply becomes part of history and any suspend marker consumed
// by a failed resume stays cleared.
func (c *Coordinator) conclude(
	ctx context.Context,
	session *sessions.Session,
	out Outcome,
	err error,
) *TurnResponse {
	if err != nil {
		condition := Condition(err)
		reply := userMessage(err)

		c.logger.ErrorContext(
			ctx, "turn failed",
			"session", session.ID,
			"condition", condition,
			"error", err,
		)

		session.Append(sessions.RoleAssistant, reply)
		return &TurnResponse{
			Kind:      KindError,
			Reply:     reply,
			Condition: condition,
		}
	}

	if marker := out.Suspended(); marker != nil {
		if active := session.Active(); active != nil {
			active.Suspension = marker
		}
		session.Append(sessions.RoleAssistant, marker.Prompt)
		return &TurnResponse{
			Kind:          KindAwaitingInput,
			Prompt:        marker.Prompt,
			ExpectedField: marker.ExpectedField,
		}
	}

	session.Append(sessions.RoleAssistant, out.Reply())
	return &TurnResponse{
		Kind:  KindReply,
		Reply: out.Reply(),
	}
}

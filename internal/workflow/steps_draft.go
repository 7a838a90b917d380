package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/epistle/internal/sessions"
)

// maxToneLength bounds a tone answer; anything longer is almost certainly
// not a tone and triggers re-elicitation.
const maxToneLength = 80

// stepAskForTone elicits a tone preference before the first draft. On a
// fresh pass it suspends the turn; on resume it treats the pending input
// as the answer, re-suspending when the answer is unusable.
func stepAskForTone(ctx context.Context, t *Turn) (Outcome, error) {
	sub := t.Active()

	if !t.Resumed {
		return Suspend(toneMarker("What tone should the reply take? For example: formal, friendly, or brief.")), nil
	}

	tone := strings.TrimSpace(t.Input)
	if tone == "" || len(tone) > maxToneLength {
		return Suspend(toneMarker("I need a short tone description, like formal or friendly. What tone should I use?")), nil
	}

	sub.Config.Tone = tone
	t.Runtime.Logger.InfoContext(
		ctx, "tone captured",
		"session", t.Session.ID,
		"subsession", sub.ID,
		"tone", tone,
	)

	return Continue(StepGenerateDraft), nil
}

func toneMarker(prompt string) sessions.SuspendMarker {
	return sessions.SuspendMarker{
		Step:          StepAskForTone,
		Prompt:        prompt,
		ExpectedField: "tone",
	}
}

// stepGenerateDraft produces the first reply draft for the active thread.
func stepGenerateDraft(ctx context.Context, t *Turn) (Outcome, error) {
	rt := t.Runtime
	sub := t.Active()

	prompt, err := composeDraftPrompt(ctx, rt, sub)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	content, err := rt.Generator.Generate(ctx, prompt)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	sub.AppendDraft(strings.TrimSpace(content), sub.Config.Tone)
	refreshRollingSummary(sub)

	rt.Logger.InfoContext(
		ctx, "draft generated",
		"session", t.Session.ID,
		"subsession", sub.ID,
		"revision", len(sub.Drafts),
	)

	return Complete(presentDraft(sub, "Here's a draft reply:")), nil
}

// stepRefineDraft revises the current draft against the user's feedback.
// Every revision appends; earlier drafts stay recoverable in history.
func stepRefineDraft(ctx context.Context, t *Turn) (Outcome, error) {
	rt := t.Runtime
	sub := t.Active()

	if sub == nil || sub.CurrentDraft() == nil {
		return Continue(StepHandleUnclear), nil
	}

	feedback := t.Input
	if t.Decision != nil && strings.TrimSpace(t.Decision.Feedback) != "" {
		feedback = t.Decision.Feedback
	}

	prompt, err := composeRefinePrompt(ctx, rt, sub, feedback)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	content, err := rt.Generator.Generate(ctx, prompt)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	sub.AppendDraft(strings.TrimSpace(content), sub.Config.Tone)
	sub.LastFeedback = feedback
	refreshRollingSummary(sub)

	rt.Logger.InfoContext(
		ctx, "draft refined",
		"session", t.Session.ID,
		"subsession", sub.ID,
		"revision", len(sub.Drafts),
	)

	return Complete(presentDraft(sub, "Here's the revised draft:")), nil
}

func presentDraft(sub *sessions.Subsession, lead string) string {
	return fmt.Sprintf("%s\n\n%s", lead, sub.CurrentDraft().Content)
}

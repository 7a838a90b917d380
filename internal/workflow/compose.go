package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/epistle/internal/prompts"
	"github.com/JaimeStill/epistle/internal/sessions"
)

// stagePrompt loads the tunable instructions and immutable specification
// for a workflow stage and joins them with the given body sections.
func stagePrompt(
	ctx context.Context,
	ps PromptSource,
	stage prompts.Stage,
	sections ...string,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	parts := make([]string, 0, len(sections)+2)
	parts = append(parts, instructions)
	for _, section := range sections {
		if section != "" {
			parts = append(parts, section)
		}
	}
	parts = append(parts, spec)

	return strings.Join(parts, "\n\n"), nil
}

func composeRoutePrompt(
	ctx context.Context,
	rt *Runtime,
	candidates []string,
	digest ContextDigest,
	input string,
) (string, error) {
	return stagePrompt(
		ctx, rt.Prompts, prompts.StageRoute,
		"Candidate actions:\n- "+strings.Join(candidates, "\n- "),
		digest.Render(),
		"User message:\n"+input,
	)
}

func composeSummarizePrompt(
	ctx context.Context,
	rt *Runtime,
	rawText string,
) (string, error) {
	return stagePrompt(
		ctx, rt.Prompts, prompts.StageSummarize,
		"Email thread:\n"+rawText,
	)
}

func composeDraftPrompt(
	ctx context.Context,
	rt *Runtime,
	sub *sessions.Subsession,
) (string, error) {
	return stagePrompt(
		ctx, rt.Prompts, prompts.StageDraft,
		threadSection(sub),
		preferenceSection(sub.Config),
	)
}

func composeRefinePrompt(
	ctx context.Context,
	rt *Runtime,
	sub *sessions.Subsession,
	feedback string,
) (string, error) {
	draft := sub.CurrentDraft()

	return stagePrompt(
		ctx, rt.Prompts, prompts.StageRefine,
		threadSection(sub),
		"Current draft:\n"+draft.Content,
		"Feedback:\n"+feedback,
		preferenceSection(sub.Config),
	)
}

func threadSection(sub *sessions.Subsession) string {
	var sb strings.Builder

	sb.WriteString("Thread summary:\n")
	sb.WriteString(sub.Summary)

	if sub.Metadata != nil && len(sub.Metadata.KeyPoints) > 0 {
		sb.WriteString("\n\nPoints the reply must address:\n- ")
		sb.WriteString(strings.Join(sub.Metadata.KeyPoints, "\n- "))
	}

	return sb.String()
}

func preferenceSection(cfg sessions.DraftConfig) string {
	var parts []string
	if cfg.Tone != "" {
		parts = append(parts, "tone: "+cfg.Tone)
	}
	if cfg.Length != "" {
		parts = append(parts, "length: "+cfg.Length)
	}
	if cfg.Language != "" {
		parts = append(parts, "language: "+cfg.Language)
	}
	if len(parts) == 0 {
		return ""
	}
	return "Reply preferences:\n- " + strings.Join(parts, "\n- ")
}

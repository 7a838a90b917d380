package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/epistle/internal/sessions"
	"github.com/JaimeStill/epistle/pkg/formatting"
)

type summarizeMessage struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type summarizeResponse struct {
	Title        string             `json:"title"`
	Participants []string           `json:"participants"`
	Subjects     []string           `json:"subjects"`
	Messages     []summarizeMessage `json:"messages"`
	LatestAt     string             `json:"latest_at"`
	KeyPoints    []string           `json:"key_points"`
	Summary      string             `json:"summary"`
}

// stepParseInput creates a workspace for a new email thread and resolves
// its source content. On resolution failure the workspace is discarded so
// the session never persists an empty thread.
func stepParseInput(ctx context.Context, t *Turn) (Outcome, error) {
	rt := t.Runtime

	src := sourceFromDecision(t.Decision, t.Input)

	previous := t.Session.ActiveID

	sub := t.Session.NewSubsession()
	sub.Source = &src
	if t.Decision != nil {
		applyPreferences(sub, t.Decision)
	}

	result, err := rt.Sources.Resolve(ctx, src)
	if err != nil {
		delete(t.Session.Subsessions, sub.ID)
		t.Session.ActiveID = previous
		return Outcome{}, fmt.Errorf("%w: %w", ErrIngestFailed, err)
	}

	sub.RawText = result.RawText
	sub.PageCount = result.PageCount

	rt.Logger.InfoContext(
		ctx, "thread ingested",
		"session", t.Session.ID,
		"subsession", sub.ID,
		"kind", src.Kind,
		"bytes", len(result.RawText),
	)

	return Continue(StepExtractSummarize), nil
}

// sourceFromDecision builds the source descriptor from the routing
// decision, defaulting to the raw user input as inline content.
func sourceFromDecision(d *RouteDecision, input string) sessions.SourceDescriptor {
	if d == nil || d.SourceKind == "" || d.SourceKind == "inline" {
		ref := input
		if d != nil && d.SourceRef != "" {
			ref = d.SourceRef
		}
		return sessions.SourceDescriptor{Kind: "inline", Ref: ref}
	}

	return sessions.SourceDescriptor{Kind: d.SourceKind, Ref: d.SourceRef}
}

// stepExtractSummarize asks the model for structured thread metadata and
// records it on the active workspace. Routes to tone elicitation when no
// tone preference is known yet, otherwise straight to drafting.
func stepExtractSummarize(ctx context.Context, t *Turn) (Outcome, error) {
	rt := t.Runtime
	sub := t.Active()

	prompt, err := composeSummarizePrompt(ctx, rt, sub.RawText)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	content, err := rt.Generator.Generate(ctx, prompt)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	parsed, err := formatting.Parse[summarizeResponse](content)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	sub.Title = strings.TrimSpace(parsed.Title)
	sub.Summary = strings.TrimSpace(parsed.Summary)
	sub.Messages = threadMessages(parsed.Messages)
	sub.Metadata = &sessions.ThreadMetadata{
		Participants: parsed.Participants,
		Subjects:     parsed.Subjects,
		LatestAt:     parseLatest(parsed.LatestAt),
		KeyPoints:    parsed.KeyPoints,
	}
	refreshRollingSummary(sub)

	rt.Logger.InfoContext(
		ctx, "thread summarized",
		"session", t.Session.ID,
		"subsession", sub.ID,
		"title", sub.Title,
	)

	if sub.Config.Tone == "" {
		return Continue(StepAskForTone), nil
	}
	return Continue(StepGenerateDraft), nil
}

// threadMessages normalizes extracted messages, dropping entries with no
// body text.
func threadMessages(msgs []summarizeMessage) []sessions.ThreadMessage {
	var out []sessions.ThreadMessage
	for _, m := range msgs {
		body := strings.TrimSpace(m.Body)
		if body == "" {
			continue
		}
		out = append(out, sessions.ThreadMessage{
			From:    strings.TrimSpace(m.From),
			Subject: strings.TrimSpace(m.Subject),
			Body:    body,
		})
	}
	return out
}

// parseLatest reads the newest-message timestamp from model output.
// Threads without usable dates yield nil rather than an error.
func parseLatest(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}

// refreshRollingSummary rebuilds the workspace's rolling summary from its
// current state. Rebuilding keeps the summary consistent with persisted
// state without spending a model call on it.
func refreshRollingSummary(sub *sessions.Subsession) {
	var sb strings.Builder

	if sub.Title != "" {
		fmt.Fprintf(&sb, "Thread: %s\n", sub.Title)
	}
	if sub.Summary != "" {
		sb.WriteString(sub.Summary)
		sb.WriteString("\n")
	}
	if n := len(sub.Drafts); n > 0 {
		fmt.Fprintf(&sb, "Drafts so far: %d (current tone: %s)\n", n, sub.CurrentDraft().Tone)
	}
	if sub.LastFeedback != "" {
		fmt.Fprintf(&sb, "Latest feedback: %s\n", sub.LastFeedback)
	}

	sub.RollingSummary = strings.TrimSpace(sb.String())
}

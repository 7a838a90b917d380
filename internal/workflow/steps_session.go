package workflow

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/epistle/internal/artifacts"
	"github.com/JaimeStill/epistle/internal/sessions"
)

// stepShowInfo reports the active workspace's extracted metadata and
// draft status. It reads persisted state only; no model call is involved.
func stepShowInfo(_ context.Context, t *Turn) (Outcome, error) {
	sub := t.Active()
	if sub == nil {
		return Continue(StepHandleUnclear), nil
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Thread: %s\n", valueOr(sub.Title, "(untitled)"))

	if sub.PageCount != nil {
		fmt.Fprintf(&sb, "Source pages: %d\n", *sub.PageCount)
	}
	if len(sub.Messages) > 0 {
		fmt.Fprintf(&sb, "Messages: %d\n", len(sub.Messages))
	}

	if sub.Metadata != nil {
		if len(sub.Metadata.Participants) > 0 {
			fmt.Fprintf(&sb, "Participants: %s\n", strings.Join(sub.Metadata.Participants, ", "))
		}
		if len(sub.Metadata.Subjects) > 0 {
			fmt.Fprintf(&sb, "Subjects: %s\n", strings.Join(sub.Metadata.Subjects, "; "))
		}
		if sub.Metadata.LatestAt != nil {
			fmt.Fprintf(&sb, "Latest message: %s\n", sub.Metadata.LatestAt.Format("2006-01-02 15:04 MST"))
		}
		if len(sub.Metadata.KeyPoints) > 0 {
			sb.WriteString("Key points:\n")
			for _, point := range sub.Metadata.KeyPoints {
				fmt.Fprintf(&sb, "- %s\n", point)
			}
		}
	}

	if sub.Summary != "" {
		fmt.Fprintf(&sb, "\nSummary:\n%s\n", sub.Summary)
	}

	if draft := sub.CurrentDraft(); draft != nil {
		fmt.Fprintf(&sb, "\nDrafts: %d (current tone: %s)\n", len(sub.Drafts), valueOr(draft.Tone, "unset"))
	} else {
		sb.WriteString("\nNo draft yet.\n")
	}

	return Complete(strings.TrimSpace(sb.String())), nil
}

// stepSaveDraft persists the current draft to the requested target,
// falling back to the workspace's last target and then to local disk.
func stepSaveDraft(ctx context.Context, t *Turn) (Outcome, error) {
	rt := t.Runtime
	sub := t.Active()

	if sub == nil || sub.CurrentDraft() == nil {
		return Continue(StepHandleUnclear), nil
	}

	target := sub.SaveTarget
	if t.Decision != nil && t.Decision.SaveTarget != "" {
		target = t.Decision.SaveTarget
	}
	if target == "" {
		target = artifacts.TargetLocal
	}

	location, err := rt.Artifacts.Save(ctx, target, sub.ID, sub.CurrentDraft().Content)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrArtifactSaveFailed, err)
	}

	sub.SaveTarget = target

	rt.Logger.InfoContext(
		ctx, "draft saved",
		"session", t.Session.ID,
		"subsession", sub.ID,
		"target", target,
		"location", location,
	)

	return Complete(fmt.Sprintf("Draft saved to %s (%s).", location, target)), nil
}

// stepSwitchSubsession activates the workspace the user referenced by id
// or title. An unresolvable reference lists the available threads instead
// of guessing.
func stepSwitchSubsession(ctx context.Context, t *Turn) (Outcome, error) {
	ref := ""
	if t.Decision != nil {
		ref = strings.TrimSpace(t.Decision.Subsession)
	}

	target := findSubsession(t.Session, ref)
	if target == nil {
		titles := subsessionTitles(t.Session)
		if len(titles) == 0 {
			return Complete("There are no other threads to switch to."), nil
		}
		return Complete(fmt.Sprintf(
			"I couldn't find that thread. Available threads: %s.",
			strings.Join(titles, "; "),
		)), nil
	}

	t.Session.Activate(target.ID)

	t.Runtime.Logger.InfoContext(
		ctx, "workspace switched",
		"session", t.Session.ID,
		"subsession", target.ID,
	)

	reply := fmt.Sprintf("Switched to thread %q.", valueOr(target.Title, target.ID.String()))
	if target.RollingSummary != "" {
		reply += "\n\n" + target.RollingSummary
	}
	if target.Suspended() {
		reply += "\n\n" + target.Suspension.Prompt
	}

	return Complete(reply), nil
}

// findSubsession resolves a workspace reference as an exact id, an exact
// title, then a unique title fragment.
func findSubsession(s *sessions.Session, ref string) *sessions.Subsession {
	if ref == "" {
		return nil
	}

	if id, err := uuid.Parse(ref); err == nil {
		return s.Subsessions[id]
	}

	lowered := strings.ToLower(ref)
	var fragment *sessions.Subsession
	var fragmentMatches int

	for _, sub := range s.Subsessions {
		title := strings.ToLower(sub.Title)
		if title == lowered {
			return sub
		}
		if title != "" && strings.Contains(title, lowered) {
			fragment = sub
			fragmentMatches++
		}
	}

	if fragmentMatches == 1 {
		return fragment
	}
	return nil
}

func subsessionTitles(s *sessions.Session) []string {
	var titles []string
	for _, sub := range s.Subsessions {
		titles = append(titles, valueOr(sub.Title, sub.ID.String()))
	}
	slices.Sort(titles)
	return titles
}

// stepResetSession clears every workspace and the dialogue history.
func stepResetSession(ctx context.Context, t *Turn) (Outcome, error) {
	t.Session.Reset()

	t.Runtime.Logger.InfoContext(ctx, "session reset", "session", t.Session.ID)

	return Complete("Cleared the session. Paste or point me at an email thread to start fresh."), nil
}

// stepHandleUnclear replies with the options the current state supports.
func stepHandleUnclear(_ context.Context, t *Turn) (Outcome, error) {
	var sb strings.Builder

	sb.WriteString("I'm not sure what you'd like me to do. Right now I can:\n")
	for _, action := range Candidates(t.Session) {
		if action == ActionUnclear {
			continue
		}
		fmt.Fprintf(&sb, "- %s\n", actionHelp[action])
	}

	return Complete(strings.TrimSpace(sb.String())), nil
}

var actionHelp = map[string]string{
	ActionProcessNewEmail:  "start on a new email thread (paste it, or give a file path or storage key)",
	ActionRefineDraft:      "revise the current draft from your feedback",
	ActionShowInfo:         "show what I know about the active thread",
	ActionSaveDraft:        "save the current draft locally or to blob storage",
	ActionSwitchSubsession: "switch to another thread you've started",
	ActionResetSession:     "clear the session and start over",
}

package workflow

import (
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/epistle/internal/sessions"
)

// ContextDigest is the compact view of session state included in model
// prompts. It is rebuilt from the aggregate on every turn rather than
// accumulated, so it never drifts from persisted state.
type ContextDigest struct {
	Recent        []sessions.DialogueEntry
	ThreadTitle   string
	ThreadSummary string
	Rolling       string
	Threads       []string
	HasThread     bool
	HasDraft      bool
	DraftTone     string
	Config        sessions.DraftConfig
	Awaiting      string
}

// BuildDigest assembles a digest from the session, windowing dialogue
// history to the most recent k entries.
func BuildDigest(s *sessions.Session, k int) ContextDigest {
	d := ContextDigest{
		Recent: s.Recent(k),
	}

	for _, sub := range s.Subsessions {
		if sub.Title != "" {
			d.Threads = append(d.Threads, sub.Title)
		}
	}
	slices.Sort(d.Threads)

	active := s.Active()
	if active == nil {
		return d
	}

	d.ThreadTitle = active.Title
	d.ThreadSummary = active.Summary
	d.Rolling = active.RollingSummary
	d.HasThread = active.RawText != "" || active.Summary != ""
	d.Config = active.Config

	if draft := active.CurrentDraft(); draft != nil {
		d.HasDraft = true
		d.DraftTone = draft.Tone
	}

	if active.Suspended() {
		d.Awaiting = active.Suspension.ExpectedField
	}

	return d
}

// Render formats the digest as prompt text.
func (d ContextDigest) Render() string {
	var sb strings.Builder

	sb.WriteString("Conversation state:\n")
	fmt.Fprintf(&sb, "- active thread: %s\n", valueOr(d.ThreadTitle, "none"))
	fmt.Fprintf(&sb, "- thread ingested: %t\n", d.HasThread)
	fmt.Fprintf(&sb, "- draft exists: %t\n", d.HasDraft)

	if d.DraftTone != "" {
		fmt.Fprintf(&sb, "- current draft tone: %s\n", d.DraftTone)
	}
	if d.Config.Tone != "" || d.Config.Length != "" || d.Config.Language != "" {
		fmt.Fprintf(
			&sb, "- draft preferences: tone=%s length=%s language=%s\n",
			valueOr(d.Config.Tone, "unset"),
			valueOr(d.Config.Length, "unset"),
			valueOr(d.Config.Language, "unset"),
		)
	}
	if d.Awaiting != "" {
		fmt.Fprintf(&sb, "- awaiting user input for: %s\n", d.Awaiting)
	}
	if len(d.Threads) > 0 {
		fmt.Fprintf(&sb, "- known threads: %s\n", strings.Join(d.Threads, "; "))
	}

	if d.Rolling != "" {
		sb.WriteString("\nActive thread summary:\n")
		sb.WriteString(d.Rolling)
		sb.WriteString("\n")
	} else if d.ThreadSummary != "" {
		sb.WriteString("\nActive thread summary:\n")
		sb.WriteString(d.ThreadSummary)
		sb.WriteString("\n")
	}

	if len(d.Recent) > 0 {
		sb.WriteString("\nRecent dialogue:\n")
		for _, entry := range d.Recent {
			fmt.Fprintf(&sb, "%s: %s\n", entry.Role, entry.Text)
		}
	}

	return sb.String()
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

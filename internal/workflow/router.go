package workflow

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/epistle/internal/sessions"
	"github.com/JaimeStill/epistle/pkg/formatting"
)

// Router actions. The classifier chooses among these; the candidate set
// offered on each turn depends on session state, so the model can never
// select an action the state cannot support.
const (
	ActionProcessNewEmail  = "process_new_email"
	ActionRefineDraft      = "refine_draft"
	ActionShowInfo         = "show_info"
	ActionSaveDraft        = "save_draft"
	ActionSwitchSubsession = "switch_subsession"
	ActionResetSession     = "reset_session"
	ActionUnclear          = "unclear"
)

// RouteDecision is the structured output of the routing classifier.
// Empty fields mean the user did not state that value.
type RouteDecision struct {
	Action     string `json:"action"`
	Feedback   string `json:"feedback"`
	Tone       string `json:"tone"`
	Length     string `json:"length"`
	Language   string `json:"language"`
	SaveTarget string `json:"save_target"`
	SourceKind string `json:"source_kind"`
	SourceRef  string `json:"source_ref"`
	Subsession string `json:"subsession"`
}

var actionSteps = map[string]string{
	ActionProcessNewEmail:  StepParseInput,
	ActionRefineDraft:      StepRefineDraft,
	ActionShowInfo:         StepShowInfo,
	ActionSaveDraft:        StepSaveDraft,
	ActionSwitchSubsession: StepSwitchSubsession,
	ActionResetSession:     StepResetSession,
	ActionUnclear:          StepHandleUnclear,
}

// Candidates computes the actions valid for the session's current state.
// process_new_email and unclear are always available; draft actions need a
// current draft, thread actions need ingested content, and switching needs
// more than one workspace.
func Candidates(s *sessions.Session) []string {
	actions := []string{ActionProcessNewEmail}

	active := s.Active()
	if active != nil && (active.RawText != "" || active.Summary != "") {
		actions = append(actions, ActionShowInfo)
	}
	if active != nil && active.CurrentDraft() != nil {
		actions = append(actions, ActionRefineDraft, ActionSaveDraft)
	}
	if len(s.Subsessions) > 1 {
		actions = append(actions, ActionSwitchSubsession)
	}
	if len(s.Subsessions) > 0 {
		actions = append(actions, ActionResetSession)
	}

	return append(actions, ActionUnclear)
}

// stepRouteAction classifies the user's input against the state-dependent
// candidate set and routes to the matching step. An action outside the
// candidate set is coerced to unclear rather than trusted.
func stepRouteAction(ctx context.Context, t *Turn) (Outcome, error) {
	rt := t.Runtime
	candidates := Candidates(t.Session)
	digest := BuildDigest(t.Session, rt.Config.RecentTurns)

	prompt, err := composeRoutePrompt(ctx, rt, candidates, digest, t.Input)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}

	content, err := rt.Classifier.Classify(ctx, prompt)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}

	decision, err := formatting.Parse[RouteDecision](content)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrClassificationFailed, err)
	}

	decision.Action = strings.TrimSpace(decision.Action)
	if !slices.Contains(candidates, decision.Action) {
		rt.Logger.WarnContext(
			ctx, "classifier chose action outside candidate set",
			"action", decision.Action,
			"candidates", candidates,
		)
		decision.Action = ActionUnclear
	}

	t.Decision = &decision

	// Preferences stated alongside a new-email request belong to the
	// workspace parse_input is about to create, not the current one.
	if decision.Action != ActionProcessNewEmail {
		applyPreferences(t.Active(), &decision)
	}

	rt.Logger.InfoContext(
		ctx, "routed turn",
		"session", t.Session.ID,
		"action", decision.Action,
	)

	return Continue(actionSteps[decision.Action]), nil
}

// applyPreferences folds stated draft preferences into the active
// workspace. Preferences stated before any workspace exists are applied
// by parse_input when it creates one.
func applyPreferences(sub *sessions.Subsession, d *RouteDecision) {
	if sub == nil {
		return
	}
	if d.Tone != "" {
		sub.Config.Tone = d.Tone
	}
	if d.Length != "" {
		sub.Config.Length = d.Length
	}
	if d.Language != "" {
		sub.Config.Language = d.Language
	}
	if d.SaveTarget != "" {
		sub.SaveTarget = d.SaveTarget
	}
}

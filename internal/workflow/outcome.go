package workflow

import "github.com/JaimeStill/epistle/internal/sessions"

// Outcome is the result a step hands back to the executor. Exactly one of
// three shapes applies: continuation to a named step, suspension awaiting
// user input, or completion with a reply. Failures are ordinary error
// returns from the step function.
type Outcome struct {
	next   string
	marker *sessions.SuspendMarker
	reply  string
}

// Continue routes execution to the named step within the same turn.
func Continue(next string) Outcome {
	return Outcome{next: next}
}

// Suspend ends the turn awaiting user input. The marker records where to
// resume and what to ask.
func Suspend(marker sessions.SuspendMarker) Outcome {
	return Outcome{marker: &marker}
}

// Complete ends the turn with a reply to the user.
func Complete(reply string) Outcome {
	return Outcome{reply: reply}
}

// Terminal reports whether the outcome ends the turn.
func (o Outcome) Terminal() bool {
	return o.next == ""
}

// Suspended returns the suspend marker, or nil for other outcomes.
func (o Outcome) Suspended() *sessions.SuspendMarker {
	return o.marker
}

// Reply returns the completion reply text.
func (o Outcome) Reply() string {
	return o.reply
}

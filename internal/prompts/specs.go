package prompts

const routeSpec = `Respond with a JSON object matching this exact structure:

{
  "action": "<candidate action>",
  "feedback": "",
  "tone": "",
  "length": "",
  "language": "",
  "save_target": "",
  "source_kind": "",
  "source_ref": "",
  "subsession": ""
}

Field constraints:
- action: Exactly one of the candidate actions listed in the prompt.
- feedback: The user's draft feedback verbatim, only when action is
  refine_draft. Empty otherwise.
- tone / length / language: Draft preferences the user stated in this
  message (e.g. "professional", "short", "German"). Empty when unstated.
- save_target: "local" or "blob" when the user named a save destination.
- source_kind: "inline", "file", or "blob" when action is
  process_new_email. inline = email text pasted into the chat,
  file = a local path was given, blob = a storage key was given.
- source_ref: The path or key for file/blob sources. Empty for inline.
- subsession: The thread title or id the user referenced, only when
  action is switch_subsession.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never select an action that is not in the candidate list
- Leave fields empty rather than guessing values the user did not state`

const summarizeSpec = `Respond with a JSON object matching this exact structure:

{
  "title": "<short thread title>",
  "participants": ["<name or address>"],
  "subjects": ["<subject line>"],
  "messages": [{"from": "<sender>", "subject": "<subject>", "body": "<body>"}],
  "latest_at": "<RFC 3339 timestamp>",
  "key_points": ["<point>"],
  "summary": "<running summary>"
}

Field constraints:
- title: A short label for this thread (subject line or a concise
  paraphrase), suitable for listing workspaces.
- participants: Every distinct sender and recipient found in the thread.
- subjects: Each distinct subject line, without Re:/Fwd: prefixes.
- messages: The individual messages in thread order, each normalized to
  sender, subject, and body.
- latest_at: The timestamp of the newest message in RFC 3339 form.
  Empty when the thread carries no usable dates.
- key_points: The facts, questions, and requests a reply must address,
  most recent message weighted highest.
- summary: A compact prose summary of the whole thread.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Preserve names, dates, and amounts exactly as written in the thread`

const draftSpec = `Respond with the reply body as plain text.

Behavioral constraints:
- No JSON, no markdown fencing, no subject line
- Honor the tone, length, and language stated in the prompt
- Use [TBD] for genuinely missing information instead of inventing it`

const refineSpec = `Respond with the revised reply body as plain text.

Behavioral constraints:
- No JSON, no markdown fencing, no subject line
- Apply only the changes the feedback asks for
- Return the complete revised draft, not a diff or commentary`

var specs = map[Stage]string{
	StageRoute:     routeSpec,
	StageSummarize: summarizeSpec,
	StageDraft:     draftSpec,
	StageRefine:    refineSpec,
}

// Spec returns the hardcoded specification for a workflow stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}

// Package sessions implements the conversation session domain for Epistle.
// It provides the persisted Session/Subsession aggregate, the Store port
// with optimistic versioning, and HTTP handlers for session management.
package sessions

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a dialogue entry.
type Role string

// Dialogue roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DialogueEntry is a single utterance in a session's append-only history.
type DialogueEntry struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SourceDescriptor identifies where a subsession's thread content came from.
// Kind is one of "inline", "file", or "blob". Ref holds the pasted text,
// local path(s), or blob key depending on kind.
type SourceDescriptor struct {
	Kind string   `json:"kind"`
	Ref  string   `json:"ref,omitempty"`
	Refs []string `json:"refs,omitempty"`
}

// ThreadMessage is a normalized message extracted from ingested thread content.
type ThreadMessage struct {
	From    string `json:"from"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// ThreadMetadata holds structured information extracted from an email thread.
type ThreadMetadata struct {
	Participants []string   `json:"participants"`
	Subjects     []string   `json:"subjects"`
	LatestAt     *time.Time `json:"latest_at,omitempty"`
	KeyPoints    []string   `json:"key_points"`
}

// Draft is one generated reply draft. Drafts accumulate append-only;
// the current draft is the last element.
type Draft struct {
	Content   string    `json:"content"`
	Tone      string    `json:"tone"`
	CreatedAt time.Time `json:"created_at"`
}

// DraftConfig carries the generation parameters for reply drafts.
type DraftConfig struct {
	Tone     string `json:"tone,omitempty"`
	Length   string `json:"length,omitempty"`
	Language string `json:"language,omitempty"`
}

// SuspendMarker records the step at which a workflow paused awaiting user
// input, plus the step-local data needed to resume. Prompt and ExpectedField
// surface to the caller in the awaiting_input response.
type SuspendMarker struct {
	Step          string         `json:"step"`
	Resume        map[string]any `json:"resume,omitempty"`
	Prompt        string         `json:"prompt"`
	ExpectedField string         `json:"expected_field"`
}

// Subsession is one email-thread workspace within a session.
type Subsession struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title,omitempty"`
	Source         *SourceDescriptor `json:"source,omitempty"`
	RawText        string            `json:"raw_text,omitempty"`
	PageCount      *int              `json:"page_count,omitempty"`
	Messages       []ThreadMessage   `json:"messages,omitempty"`
	Metadata       *ThreadMetadata   `json:"metadata,omitempty"`
	Summary        string            `json:"summary,omitempty"`
	Drafts         []Draft           `json:"drafts,omitempty"`
	LastFeedback   string            `json:"last_feedback,omitempty"`
	Config         DraftConfig       `json:"config"`
	SaveTarget     string            `json:"save_target,omitempty"`
	RollingSummary string            `json:"rolling_summary,omitempty"`
	Suspension     *SuspendMarker    `json:"suspension,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// CurrentDraft returns the latest draft, or nil when none exists.
func (s *Subsession) CurrentDraft() *Draft {
	if len(s.Drafts) == 0 {
		return nil
	}
	return &s.Drafts[len(s.Drafts)-1]
}

// AppendDraft adds a draft to the append-only draft history.
func (s *Subsession) AppendDraft(content, tone string) {
	s.Drafts = append(s.Drafts, Draft{
		Content:   content,
		Tone:      tone,
		CreatedAt: time.Now().UTC(),
	})
}

// Suspended reports whether the subsession carries a pending suspend marker.
func (s *Subsession) Suspended() bool {
	return s.Suspension != nil
}

// Session is the top-level conversation container. Version supports the
// Store's optimistic concurrency check; a zero version marks an unsaved
// session.
type Session struct {
	ID          uuid.UUID                 `json:"id"`
	Version     int                       `json:"version"`
	History     []DialogueEntry           `json:"history"`
	ActiveID    uuid.UUID                 `json:"active_id"`
	Subsessions map[uuid.UUID]*Subsession `json:"subsessions"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// NewSession creates an empty unsaved session.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:          uuid.New(),
		Subsessions: make(map[uuid.UUID]*Subsession),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewSubsession creates a subsession, registers it, and makes it active.
func (s *Session) NewSubsession() *Subsession {
	sub := &Subsession{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	if s.Subsessions == nil {
		s.Subsessions = make(map[uuid.UUID]*Subsession)
	}
	s.Subsessions[sub.ID] = sub
	s.ActiveID = sub.ID
	return sub
}

// Active returns the active subsession, or nil when none exists.
func (s *Session) Active() *Subsession {
	if s.ActiveID == uuid.Nil {
		return nil
	}
	return s.Subsessions[s.ActiveID]
}

// Activate switches the active subsession pointer.
// Returns false when the id is not a registered subsession.
func (s *Session) Activate(id uuid.UUID) bool {
	if _, ok := s.Subsessions[id]; !ok {
		return false
	}
	s.ActiveID = id
	return true
}

// Append records a dialogue entry in the session history.
func (s *Session) Append(role Role, text string) {
	s.History = append(s.History, DialogueEntry{
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})
}

// Recent returns up to k of the most recent dialogue entries, oldest first.
func (s *Session) Recent(k int) []DialogueEntry {
	if k <= 0 || len(s.History) == 0 {
		return nil
	}
	if len(s.History) <= k {
		return s.History
	}
	return s.History[len(s.History)-k:]
}

// Reset clears all subsessions and dialogue history, returning the session
// to its initial empty state. The session id and version are preserved.
func (s *Session) Reset() {
	s.History = nil
	s.ActiveID = uuid.Nil
	s.Subsessions = make(map[uuid.UUID]*Subsession)
}

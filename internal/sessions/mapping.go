package sessions

import (
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/epistle/pkg/query"
	"github.com/JaimeStill/epistle/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "sessions", "s").
	Project("id", "ID").
	Project("version", "Version").
	Project("turn_count", "Turns").
	Project("subsession_count", "Subsessions").
	Project("active_title", "ActiveTitle").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Summary is the projection of a session row returned by list queries.
// The full dialogue and subsession state stays in the JSONB column and is
// only materialized by Load.
type Summary struct {
	ID          uuid.UUID `json:"id"`
	Version     int       `json:"version"`
	Turns       int       `json:"turns"`
	Subsessions int       `json:"subsessions"`
	ActiveTitle *string   `json:"active_title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filters contains optional filtering criteria for session queries.
// Nil fields are ignored. ActiveTitle uses case-insensitive contains matching.
type Filters struct {
	ActiveTitle *string `json:"active_title,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereContains("ActiveTitle", f.ActiveTitle)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("active_title"); t != "" {
		f.ActiveTitle = &t
	}

	return f
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var sm Summary
	err := s.Scan(
		&sm.ID,
		&sm.Version,
		&sm.Turns,
		&sm.Subsessions,
		&sm.ActiveTitle,
		&sm.CreatedAt,
		&sm.UpdatedAt,
	)
	return sm, err
}

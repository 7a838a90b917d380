package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/epistle/pkg/pagination"
	"github.com/JaimeStill/epistle/pkg/query"
	"github.com/JaimeStill/epistle/pkg/repository"
)

// System defines the public contract for session domain operations.
// It embeds the Store port consumed by the workflow coordinator and adds
// the query surface used by the HTTP handler.
type System interface {
	Store

	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Summary], error)

	Find(ctx context.Context, id uuid.UUID) (*Session, error)
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a session repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "sessions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Summary], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ActiveTitle")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	summaries, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	result := pagination.NewPageResult(summaries, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Session, error) {
	return r.Load(ctx, id)
}

func (r *repo) Load(ctx context.Context, id uuid.UUID) (*Session, error) {
	q := "SELECT state, version FROM sessions WHERE id = $1"

	var (
		state   []byte
		version int
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&state, &version); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrVersionConflict)
	}

	var session Session
	if err := json.Unmarshal(state, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	// The version column is authoritative; the copy inside the JSONB
	// snapshot may lag when rows are touched by migrations.
	session.Version = version
	return &session, nil
}

func (r *repo) Save(ctx context.Context, session *Session) error {
	next := session.Version + 1
	snapshot := *session
	snapshot.Version = next

	state, err := json.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}

	var activeTitle *string
	if sub := session.Active(); sub != nil && sub.Title != "" {
		activeTitle = &sub.Title
	}

	if session.Version == 0 {
		return r.insert(ctx, session, state, activeTitle)
	}
	return r.update(ctx, session, state, activeTitle)
}

func (r *repo) insert(ctx context.Context, session *Session, state []byte, activeTitle *string) error {
	q := `
		INSERT INTO sessions(id, version, state, turn_count, subsession_count, active_title)
		VALUES ($1, 1, $2, $3, $4, $5)`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx, q,
			session.ID, state, len(session.History), len(session.Subsessions), activeTitle,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrVersionConflict)
	}

	session.Version = 1
	r.logger.Info("session created", "id", session.ID)
	return nil
}

func (r *repo) update(ctx context.Context, session *Session, state []byte, activeTitle *string) error {
	q := `
		UPDATE sessions
		SET version = $1,
			state = $2,
			turn_count = $3,
			subsession_count = $4,
			active_title = $5,
			updated_at = now()
		WHERE id = $6 AND version = $7`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx, q,
			session.Version+1, state,
			len(session.History), len(session.Subsessions), activeTitle,
			session.ID, session.Version,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		// Zero rows means the version predicate missed: either another
		// writer advanced it or the session was deleted. Both surface as
		// a conflict the coordinator may retry once.
		return repository.MapError(err, ErrVersionConflict, ErrVersionConflict)
	}

	session.Version++
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM sessions WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrVersionConflict)
	}

	r.logger.Info("session deleted", "id", id)
	return nil
}

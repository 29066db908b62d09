// Package session_repo provides the PostgreSQL implementation of the session store.
package session_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"tabkeeper/internal/core/apperror"
	"tabkeeper/internal/domain/auth"
	"tabkeeper/internal/infrastructure/storage/postgres"
)

const sessionsTable = "sessions"

// SessionRepo implements auth.SessionStore.
type SessionRepo struct {
	txm *postgres.TxManager
}

// Ensure compile-time interface compliance.
var _ auth.SessionStore = (*SessionRepo)(nil)

// NewSessionRepo creates a new session repository.
func NewSessionRepo(txm *postgres.TxManager) *SessionRepo {
	return &SessionRepo{txm: txm}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *SessionRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Save writes a session record.
func (r *SessionRepo) Save(ctx context.Context, session *auth.Session) error {
	q := r.Builder().
		Insert(sessionsTable).
		Columns("id", "subject_id", "display_name", "email", "created_at", "expires_at").
		Values(session.ID, session.SubjectID, session.DisplayName, session.Email, session.CreatedAt, session.ExpiresAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// Load retrieves a session by id.
func (r *SessionRepo) Load(ctx context.Context, id uuid.UUID) (*auth.Session, error) {
	q := r.Builder().
		Select("id", "subject_id", "display_name", "email", "created_at", "expires_at").
		From(sessionsTable).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var session auth.Session
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &session, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("session", id.String())
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	return &session, nil
}

// Delete removes a session by id.
func (r *SessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	q := r.Builder().
		Delete(sessionsTable).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteExpired removes all expired session rows.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	q := r.Builder().
		Delete(sessionsTable).
		Where(squirrel.Expr("expires_at < NOW()"))

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}

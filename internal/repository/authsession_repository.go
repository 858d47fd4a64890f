package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jesseglab/postduck/internal/model"
)

type authSessionRepository struct {
	db *sql.DB
}

func NewAuthSessionRepository(db *sql.DB) IAuthSessionRepository {
	return &authSessionRepository{db: db}
}

func (r *authSessionRepository) Create(ctx context.Context, session *model.AuthSession) (string, error) {
	session.ID = uuid.New().String()
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `
		INSERT INTO auth_sessions (id, workspace_id, name, request_id, token_type, token_value, expires_at, login_response_history_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.WorkspaceID,
		session.Name,
		session.RequestID,
		string(session.TokenType),
		session.TokenValue,
		session.ExpiresAt,
		session.LoginResponseHistoryID,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return session.ID, err
}

func (r *authSessionRepository) Update(ctx context.Context, session *model.AuthSession) error {
	query := `
		UPDATE auth_sessions
		SET token_value = $2, expires_at = $3, login_response_history_id = $4, updated_at = $5
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.TokenValue,
		session.ExpiresAt,
		session.LoginResponseHistoryID,
		session.UpdatedAt,
	)
	return err
}

func (r *authSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE id = $1`, id)
	return err
}

func (r *authSessionRepository) GetByRequestID(ctx context.Context, requestID string) (*model.AuthSession, error) {
	query := `
		SELECT id, workspace_id, name, request_id, token_type, token_value, expires_at, login_response_history_id, created_at, updated_at
		FROM auth_sessions
		WHERE request_id = $1
		LIMIT 1`

	return scanAuthSession(r.db.QueryRowContext(ctx, query, requestID))
}

func (r *authSessionRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]model.AuthSession, error) {
	query := `
		SELECT id, workspace_id, name, request_id, token_type, token_value, expires_at, login_response_history_id, created_at, updated_at
		FROM auth_sessions
		WHERE workspace_id = $1
		ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.AuthSession
	for rows.Next() {
		session, err := scanAuthSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func scanAuthSession(row rowScanner) (*model.AuthSession, error) {
	var (
		s         model.AuthSession
		tokenType string
	)

	err := row.Scan(
		&s.ID,
		&s.WorkspaceID,
		&s.Name,
		&s.RequestID,
		&tokenType,
		&s.TokenValue,
		&s.ExpiresAt,
		&s.LoginResponseHistoryID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.TokenType = model.TokenType(tokenType)
	return &s, nil
}

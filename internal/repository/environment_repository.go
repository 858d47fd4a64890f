package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jesseglab/postduck/internal/model"
)

// environmentRepository stores variable sets as a JSONB column; the
// variable list is replaced as a whole on update, matching how the
// editor submits it.
type environmentRepository struct {
	db *sql.DB
}

func NewEnvironmentRepository(db *sql.DB) IEnvironmentRepository {
	return &environmentRepository{db: db}
}

func (r *environmentRepository) Create(ctx context.Context, env *model.Environment) (string, error) {
	env.ID = uuid.New().String()
	now := time.Now()
	env.CreatedAt = now
	env.UpdatedAt = now

	variables, err := json.Marshal(env.Variables)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO environments (id, workspace_id, name, is_active, variables, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		env.ID, env.WorkspaceID, env.Name, env.IsActive, variables, env.CreatedAt, env.UpdatedAt,
	)
	return env.ID, err
}

func (r *environmentRepository) Get(ctx context.Context, id string) (*model.Environment, error) {
	query := `
		SELECT id, workspace_id, name, is_active, variables, created_at, updated_at
		FROM environments
		WHERE id = $1`

	return scanEnvironment(r.db.QueryRowContext(ctx, query, id))
}

func (r *environmentRepository) Update(ctx context.Context, env *model.Environment) error {
	env.UpdatedAt = time.Now()

	variables, err := json.Marshal(env.Variables)
	if err != nil {
		return err
	}

	query := `
		UPDATE environments
		SET name = $2, variables = $3, updated_at = $4
		WHERE id = $1`

	_, err = r.db.ExecContext(ctx, query, env.ID, env.Name, variables, env.UpdatedAt)
	return err
}

func (r *environmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM environments WHERE id = $1`, id)
	return err
}

func (r *environmentRepository) GetActive(ctx context.Context, workspaceID string) (*model.Environment, error) {
	query := `
		SELECT id, workspace_id, name, is_active, variables, created_at, updated_at
		FROM environments
		WHERE workspace_id = $1 AND is_active = true
		LIMIT 1`

	return scanEnvironment(r.db.QueryRowContext(ctx, query, workspaceID))
}

// SetActive makes one environment active and deactivates its siblings in
// the same transaction; activeness is enforced here, not by a database
// constraint.
func (r *environmentRepository) SetActive(ctx context.Context, workspaceID, environmentID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE environments SET is_active = false WHERE workspace_id = $1`, workspaceID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE environments SET is_active = true, updated_at = $2 WHERE id = $1 AND workspace_id = $3`,
		environmentID, time.Now(), workspaceID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("environment %s not found in workspace %s", environmentID, workspaceID)
	}

	return tx.Commit()
}

// UpsertVariable updates the named variable in place or appends a new
// one. Values written here come from auth extraction and are always
// marked secret by the caller.
func (r *environmentRepository) UpsertVariable(ctx context.Context, environmentID, key, value string, isSecret bool) error {
	env, err := r.Get(ctx, environmentID)
	if err != nil {
		return err
	}
	if env == nil {
		return fmt.Errorf("environment %s not found", environmentID)
	}

	updated := false
	for i := range env.Variables {
		if env.Variables[i].Key == key {
			env.Variables[i].Value = value
			env.Variables[i].IsSecret = isSecret
			updated = true
			break
		}
	}
	if !updated {
		env.Variables = append(env.Variables, model.EnvironmentVariable{
			ID:       uuid.New().String(),
			Key:      key,
			Value:    value,
			IsSecret: isSecret,
		})
	}

	return r.Update(ctx, env)
}

func scanEnvironment(row rowScanner) (*model.Environment, error) {
	var (
		env       model.Environment
		variables []byte
	)

	err := row.Scan(&env.ID, &env.WorkspaceID, &env.Name, &env.IsActive, &variables, &env.CreatedAt, &env.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(variables, &env.Variables); err != nil {
		return nil, err
	}
	return &env, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jesseglab/postduck/internal/model"
)

type collectionRepository struct {
	db *sql.DB
}

func NewCollectionRepository(db *sql.DB) ICollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, collection *model.Collection) (string, error) {
	collection.ID = uuid.New().String()
	now := time.Now()
	collection.CreatedAt = now
	collection.UpdatedAt = now

	query := `
		INSERT INTO collections (id, workspace_id, parent_id, name, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		collection.ID,
		collection.WorkspaceID,
		collection.ParentID,
		collection.Name,
		collection.Order,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	return collection.ID, err
}

func (r *collectionRepository) Get(ctx context.Context, id string) (*model.Collection, error) {
	query := `
		SELECT id, workspace_id, parent_id, name, sort_order, created_at, updated_at
		FROM collections
		WHERE id = $1`

	var c model.Collection
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.WorkspaceID, &c.ParentID, &c.Name, &c.Order, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collectionRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]model.Collection, error) {
	query := `
		SELECT id, workspace_id, parent_id, name, sort_order, created_at, updated_at
		FROM collections
		WHERE workspace_id = $1
		ORDER BY sort_order`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []model.Collection
	for rows.Next() {
		var c model.Collection
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &c.ParentID, &c.Name, &c.Order, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// DeleteTree removes a collection, every descendant folder, and all of
// their requests. The tree is walked with an explicit worklist over the
// parent-id index so arbitrarily deep nesting cannot exhaust the stack.
func (r *collectionRepository) DeleteTree(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ids := []string{id}
	worklist := []string{id}
	for len(worklist) > 0 {
		parent := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		rows, err := tx.QueryContext(ctx, `SELECT id FROM collections WHERE parent_id = $1`, parent)
		if err != nil {
			return err
		}
		for rows.Next() {
			var child string
			if err := rows.Scan(&child); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, child)
			worklist = append(worklist, child)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}

	for _, cid := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM requests WHERE collection_id = $1`, cid); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, cid); err != nil {
			return err
		}
	}

	return tx.Commit()
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jesseglab/postduck/internal/model"
)

// requestRepository is the implementation of IRequestRepository. Header
// maps, bodies, and auth configuration are stored as JSONB so the
// descriptor round-trips exactly as authored; updates replace those
// columns wholesale rather than merging.
type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) IRequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *model.Request) (string, error) {
	request.ID = uuid.New().String()
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now

	headers, body, authConfig, authExtraction, err := marshalRequestColumns(request)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO requests (id, collection_id, name, method, url, headers, body, auth_type, auth_config, auth_extraction, use_auth_session, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.ExecContext(ctx, query,
		request.ID,
		request.CollectionID,
		request.Name,
		request.Method,
		request.URL,
		headers,
		body,
		string(request.AuthType),
		authConfig,
		authExtraction,
		request.UseAuthSession,
		request.Order,
		request.CreatedAt,
		request.UpdatedAt,
	)
	return request.ID, err
}

func (r *requestRepository) Get(ctx context.Context, id string) (*model.Request, error) {
	query := `
		SELECT id, collection_id, name, method, url, headers, body, auth_type, auth_config, auth_extraction, use_auth_session, sort_order, created_at, updated_at
		FROM requests
		WHERE id = $1`

	return scanRequest(r.db.QueryRowContext(ctx, query, id))
}

func (r *requestRepository) Update(ctx context.Context, request *model.Request) error {
	request.UpdatedAt = time.Now()

	headers, body, authConfig, authExtraction, err := marshalRequestColumns(request)
	if err != nil {
		return err
	}

	query := `
		UPDATE requests
		SET name = $2, method = $3, url = $4, headers = $5, body = $6, auth_type = $7, auth_config = $8, auth_extraction = $9, use_auth_session = $10, sort_order = $11, updated_at = $12
		WHERE id = $1`

	_, err = r.db.ExecContext(ctx, query,
		request.ID,
		request.Name,
		request.Method,
		request.URL,
		headers,
		body,
		string(request.AuthType),
		authConfig,
		authExtraction,
		request.UseAuthSession,
		request.Order,
		request.UpdatedAt,
	)
	return err
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, id)
	return err
}

func (r *requestRepository) ListByCollection(ctx context.Context, collectionID string) ([]model.Request, error) {
	query := `
		SELECT id, collection_id, name, method, url, headers, body, auth_type, auth_config, auth_extraction, use_auth_session, sort_order, created_at, updated_at
		FROM requests
		WHERE collection_id = $1
		ORDER BY sort_order`

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []model.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func marshalRequestColumns(request *model.Request) (headers, body, authConfig, authExtraction []byte, err error) {
	if headers, err = json.Marshal(request.Headers); err != nil {
		return
	}
	if body, err = json.Marshal(request.Body); err != nil {
		return
	}
	if authConfig, err = json.Marshal(request.AuthConfig); err != nil {
		return
	}
	if request.AuthExtraction != nil {
		authExtraction, err = json.Marshal(request.AuthExtraction)
	}
	return
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*model.Request, error) {
	var (
		req            model.Request
		authType       string
		headers        []byte
		body           []byte
		authConfig     []byte
		authExtraction []byte
	)

	err := row.Scan(
		&req.ID,
		&req.CollectionID,
		&req.Name,
		&req.Method,
		&req.URL,
		&headers,
		&body,
		&authType,
		&authConfig,
		&authExtraction,
		&req.UseAuthSession,
		&req.Order,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	req.AuthType = model.AuthType(authType)
	if err := json.Unmarshal(headers, &req.Headers); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &req.Body); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(authConfig, &req.AuthConfig); err != nil {
		return nil, err
	}
	if len(authExtraction) > 0 {
		req.AuthExtraction = &model.AuthExtraction{}
		if err := json.Unmarshal(authExtraction, req.AuthExtraction); err != nil {
			return nil, err
		}
	}
	return &req, nil
}

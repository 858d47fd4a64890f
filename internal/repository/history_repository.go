package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jesseglab/postduck/internal/model"
)

type historyRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) IHistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, entry *model.RequestHistory) (string, error) {
	entry.ID = uuid.New().String()
	entry.ExecutedAt = time.Now()

	headers, err := json.Marshal(entry.Headers)
	if err != nil {
		return "", err
	}
	responseHeaders, err := json.Marshal(entry.ResponseHeaders)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO request_history (id, request_id, url, method, status_code, duration_ms, headers, body, response_headers, response_body, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.RequestID,
		entry.URL,
		entry.Method,
		entry.StatusCode,
		entry.Duration,
		headers,
		entry.Body,
		responseHeaders,
		entry.ResponseBody,
		entry.ExecutedAt,
	)
	return entry.ID, err
}

func (r *historyRepository) ListByRequest(ctx context.Context, requestID string) ([]model.RequestHistory, error) {
	query := `
		SELECT id, request_id, url, method, status_code, duration_ms, headers, body, response_headers, response_body, executed_at
		FROM request_history
		WHERE request_id = $1
		ORDER BY executed_at DESC`

	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.RequestHistory
	for rows.Next() {
		var (
			e               model.RequestHistory
			headers         []byte
			responseHeaders []byte
		)
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.URL, &e.Method, &e.StatusCode, &e.Duration,
			&headers, &e.Body, &responseHeaders, &e.ResponseBody, &e.ExecutedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(headers, &e.Headers); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(responseHeaders, &e.ResponseHeaders); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

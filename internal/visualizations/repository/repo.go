// Package repository persists saved visualizations in Postgres.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/algoviz-io/algoviz-backend/internal/visualizations/domain"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Create inserts the record in a single statement, assigning identity and
// creation timestamp. Request and response are stored as jsonb.
func (r *Repo) Create(ctx context.Context, userID string, req domain.VisualizationRequest, resp domain.VisualizationResponse, title, description string) (*domain.SavedVisualization, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}

	const q = `
insert into visualizations (id, user_id, request, response, title, description)
values ($1::uuid, $2::uuid, $3, $4, nullif($5,''), nullif($6,''))
returning created_at;
`
	rec := &domain.SavedVisualization{
		ID:          uuid.NewString(),
		UserID:      userID,
		Request:     req,
		Response:    resp,
		Title:       title,
		Description: description,
	}
	if err := r.db.QueryRow(ctx, q, rec.ID, userID, reqJSON, respJSON, title, description).Scan(&rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert visualization: %w", err)
	}
	return rec, nil
}

// GetByID returns the record only when it exists and belongs to userID.
// Absence and foreign ownership are indistinguishable to the caller.
func (r *Repo) GetByID(ctx context.Context, userID, id string) (*domain.SavedVisualization, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	const q = `
select id::text, user_id::text, request, response,
       coalesce(title, ''), coalesce(description, ''), created_at
from visualizations
where user_id = $1::uuid and id = $2::uuid;
`
	rec, err := scanVisualization(r.db.QueryRow(ctx, q, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns one page of the user's records, newest first, plus the full
// count for the user. page is 1-based.
func (r *Repo) List(ctx context.Context, userID string, page, limit int) ([]domain.SavedVisualization, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	const q = `
select id::text, user_id::text, request, response,
       coalesce(title, ''), coalesce(description, ''), created_at
from visualizations
where user_id = $1::uuid
order by created_at desc, id desc
limit $2 offset $3;
`
	rows, err := r.db.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]domain.SavedVisualization, 0, limit)
	for rows.Next() {
		rec, err := scanVisualization(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	const countQ = `select count(*) from visualizations where user_id = $1::uuid;`
	var total int
	if err := r.db.QueryRow(ctx, countQ, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Delete removes the record under the same ownership rule as GetByID.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}

	const q = `delete from visualizations where user_id = $1::uuid and id = $2::uuid;`
	ct, err := r.db.Exec(ctx, q, userID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanVisualization(row pgx.Row) (*domain.SavedVisualization, error) {
	var (
		rec      domain.SavedVisualization
		reqJSON  []byte
		respJSON []byte
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &reqJSON, &respJSON, &rec.Title, &rec.Description, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reqJSON, &rec.Request); err != nil {
		return nil, fmt.Errorf("unmarshal request: %w", err)
	}
	if err := json.Unmarshal(respJSON, &rec.Response); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &rec, nil
}

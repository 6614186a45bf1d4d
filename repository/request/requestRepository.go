package requestrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shareit/model"
	"shareit/util/database"
)

type Repo interface {
	Create(ctx context.Context, req *model.ItemRequest) error
	GetByID(ctx context.Context, id int64) (*model.ItemRequest, error)
	ListByRequestor(ctx context.Context, userID int64) ([]model.ItemRequest, error)
	ListOthers(ctx context.Context, userID int64, limit, offset int) ([]model.ItemRequest, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, req *model.ItemRequest) error {
	const q = `
		INSERT INTO requests (description, requestor_id, created)
		VALUES ($1, $2, $3)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, req.Description, req.RequestorID, req.Created).Scan(&req.ID)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.ItemRequest, error) {
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE id = $1`
	req := &model.ItemRequest{}
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repo) ListByRequestor(ctx context.Context, userID int64) ([]model.ItemRequest, error) {
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE requestor_id = $1
		ORDER BY created DESC`
	return r.query(ctx, q, userID)
}

func (r *repo) ListOthers(ctx context.Context, userID int64, limit, offset int) ([]model.ItemRequest, error) {
	const q = `
		SELECT id, description, requestor_id, created
		FROM requests
		WHERE requestor_id <> $1
		ORDER BY created DESC
		LIMIT $2 OFFSET $3`
	return r.query(ctx, q, userID, limit, offset)
}

func (r *repo) query(ctx context.Context, q string, args ...any) ([]model.ItemRequest, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ItemRequest
	for rows.Next() {
		var req model.ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

package itemrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"shareit/model"
	"shareit/util/database"
)

type Repo interface {
	Create(ctx context.Context, it *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)

	// Details reads the item together with its nearest finished and
	// upcoming booking and its comments in one snapshot.
	Details(ctx context.Context, id int64, now time.Time) (*model.ItemDetails, error)

	Update(ctx context.Context, it *model.Item) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
	ListByRequest(ctx context.Context, requestID int64) ([]model.ItemRef, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const itemCols = `id, name, description, available, owner_id, request_id`

func (r *repo) Create(ctx context.Context, it *model.Item) error {
	const q = `
		INSERT INTO items (name, description, available, owner_id, request_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q,
		it.Name, it.Description, it.Available, it.OwnerID, it.RequestID,
	).Scan(&it.ID)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	const q = `SELECT ` + itemCols + ` FROM items WHERE id = $1`
	it := &model.Item{}
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

const lastBookingQ = `
	SELECT id, booker_id
	FROM bookings
	WHERE item_id = $1
	AND end_date < $2
	ORDER BY end_date DESC
	LIMIT 1`

const nextBookingQ = `
	SELECT id, booker_id
	FROM bookings
	WHERE item_id = $1
	AND start_date > $2
	ORDER BY start_date ASC
	LIMIT 1`

const itemCommentsQ = `
	SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
	FROM comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.item_id = $1
	ORDER BY c.created DESC`

func (r *repo) Details(ctx context.Context, id int64, now time.Time) (*model.ItemDetails, error) {
	// all reads share one snapshot
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	d := &model.ItemDetails{Comments: []model.Comment{}}
	err = tx.QueryRow(ctx, `SELECT `+itemCols+` FROM items WHERE id = $1`, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.Available, &d.OwnerID, &d.RequestID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if d.LastBooking, err = bookingRef(ctx, tx, lastBookingQ, id, now); err != nil {
		return nil, err
	}
	if d.NextBooking, err = bookingRef(ctx, tx, nextBookingQ, id, now); err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, itemCommentsQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Created); err != nil {
			return nil, err
		}
		d.Comments = append(d.Comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return d, tx.Commit(ctx)
}

func bookingRef(ctx context.Context, tx pgx.Tx, q string, itemID int64, now time.Time) (*model.BookingRef, error) {
	ref := &model.BookingRef{}
	err := tx.QueryRow(ctx, q, itemID, now).Scan(&ref.ID, &ref.BookerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func (r *repo) Update(ctx context.Context, it *model.Item) error {
	const q = `
		UPDATE items
		SET name = $2, description = $3, available = $4
		WHERE id = $1`
	_, err := r.db.Pool.Exec(ctx, q, it.ID, it.Name, it.Description, it.Available)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM items WHERE id = $1`
	_, err := r.db.Pool.Exec(ctx, q, id)
	return err
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error) {
	const q = `
		SELECT ` + itemCols + `
		FROM items
		WHERE owner_id = $1
		ORDER BY id`
	return r.queryItems(ctx, q, ownerID)
}

// ILIKE gives % and _ wildcard meaning; search text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func searchPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

func (r *repo) Search(ctx context.Context, text string) ([]model.Item, error) {
	const q = `
		SELECT ` + itemCols + `
		FROM items
		WHERE available
		AND (name ILIKE $1 OR description ILIKE $1)
		ORDER BY id`
	return r.queryItems(ctx, q, searchPattern(text))
}

func (r *repo) ListByRequest(ctx context.Context, requestID int64) ([]model.ItemRef, error) {
	const q = `
		SELECT id, name, owner_id, available, request_id
		FROM items
		WHERE request_id = $1
		ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ItemRef
	for rows.Next() {
		var ref model.ItemRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.OwnerID, &ref.Available, &ref.RequestID); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *repo) queryItems(ctx context.Context, q string, args ...any) ([]model.Item, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

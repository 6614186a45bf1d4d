package bookingrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"shareit/model"
	"shareit/util/database"
)

type Repo interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)

	// UpdateStatusIfWaiting transitions the booking only when its stored
	// status is still WAITING; reports whether a row was updated. Closes
	// the race between two concurrent approvals.
	UpdateStatusIfWaiting(ctx context.Context, id int64, status model.BookingStatus) (bool, error)

	ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error)

	ExistsCompleted(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const selectBooking = `
	SELECT b.id, b.start_date, b.end_date, b.status,
	       i.id, i.name, i.owner_id,
	       u.id, u.name
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id`

func (r *repo) Create(ctx context.Context, b *model.Booking) error {
	const q = `
		INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q,
		b.Start, b.End, b.Item.ID, b.Booker.ID, b.Status,
	).Scan(&b.ID)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	q := selectBooking + ` WHERE b.id = $1`
	b := &model.Booking{}
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.Start, &b.End, &b.Status,
		&b.Item.ID, &b.Item.Name, &b.Item.OwnerID,
		&b.Booker.ID, &b.Booker.Name,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) UpdateStatusIfWaiting(ctx context.Context, id int64, status model.BookingStatus) (bool, error) {
	const q = `
		UPDATE bookings
		SET status = $2
		WHERE id = $1
		AND status = 'WAITING'`
	tag, err := r.db.Pool.Exec(ctx, q, id, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
	return r.list(ctx, `b.booker_id = $1`, bookerID, state, now, limit, offset)
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
	return r.list(ctx, `i.owner_id = $1`, ownerID, state, now, limit, offset)
}

func (r *repo) list(ctx context.Context, scope string, scopeID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
	args := []any{scopeID}
	cond := ""
	switch state {
	case model.StateCurrent:
		cond = ` AND b.start_date <= $2 AND b.end_date > $2`
		args = append(args, now)
	case model.StatePast:
		cond = ` AND b.end_date < $2`
		args = append(args, now)
	case model.StateFuture:
		cond = ` AND b.start_date > $2`
		args = append(args, now)
	case model.StateWaiting, model.StateRejected:
		cond = ` AND b.status = $2`
		args = append(args, string(state))
	}
	args = append(args, limit, offset)

	q := selectBooking + ` WHERE ` + scope + cond +
		fmt.Sprintf(` ORDER BY b.start_date DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.Start, &b.End, &b.Status,
			&b.Item.ID, &b.Item.Name, &b.Item.OwnerID,
			&b.Booker.ID, &b.Booker.Name,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) ExistsCompleted(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE booker_id = $1
			AND item_id = $2
			AND end_date < $3
		)`
	var ok bool
	err := r.db.Pool.QueryRow(ctx, q, bookerID, itemID, now).Scan(&ok)
	return ok, err
}

package bookingsvc

import (
	"context"
	"strings"
	"time"

	"shareit/model"
	"shareit/util/apperr"
)

type BookingRepo interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	UpdateStatusIfWaiting(ctx context.Context, id int64, status model.BookingStatus) (bool, error)
	ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error)
}

type ItemRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Item, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type Service interface {
	Create(ctx context.Context, userID, itemID int64, start, end time.Time) (*model.Booking, error)

	// Approve moves a WAITING booking to APPROVED or REJECTED. Only the
	// item's owner may do this; a booking that already left WAITING
	// fails validation and stays unchanged.
	Approve(ctx context.Context, userID, bookingID int64, approved bool) (*model.Booking, error)

	Get(ctx context.Context, userID, bookingID int64) (*model.Booking, error)
	ListByBooker(ctx context.Context, userID int64, state string, from, size int) ([]model.Booking, error)
	ListByOwner(ctx context.Context, userID int64, state string, from, size int) ([]model.Booking, error)
}

type service struct {
	br BookingRepo
	ir ItemRepo
	ur UserRepo
}

func New(br BookingRepo, ir ItemRepo, ur UserRepo) Service {
	return &service{br: br, ir: ir, ur: ur}
}

func (s *service) Create(ctx context.Context, userID, itemID int64, start, end time.Time) (*model.Booking, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperr.Validation("start and end dates are required")
	}
	if !end.After(start) {
		return nil, apperr.Validation("end date must be after start date")
	}
	if start.Before(time.Now()) {
		return nil, apperr.Validation("start date cannot be in the past")
	}

	item, err := s.ir.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}

	user, err := s.ur.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user %d not found", userID)
	}

	if !item.Available {
		return nil, apperr.Validation("item is not available for booking")
	}
	if item.OwnerID == userID {
		return nil, apperr.Validation("cannot book own item")
	}

	b := &model.Booking{
		Start:  start,
		End:    end,
		Status: model.BookingWaiting,
		Item:   model.ItemRef{ID: item.ID, Name: item.Name, OwnerID: item.OwnerID},
		Booker: model.UserRef{ID: user.ID, Name: user.Name},
	}
	if err := s.br.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Approve(ctx context.Context, userID, bookingID int64, approved bool) (*model.Booking, error) {
	b, err := s.br.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}
	// ownership violations report not-found so a non-owner cannot
	// learn that the booking exists
	if b.Item.OwnerID != userID {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}
	if b.Status != model.BookingWaiting {
		return nil, apperr.Validation("booking already processed")
	}

	status := model.BookingRejected
	if approved {
		status = model.BookingApproved
	}
	// conditioned on the stored status still being WAITING; of two
	// racing approvals exactly one wins
	ok, err := s.br.UpdateStatusIfWaiting(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Validation("booking already processed")
	}

	b.Status = status
	return b, nil
}

func (s *service) Get(ctx context.Context, userID, bookingID int64) (*model.Booking, error) {
	b, err := s.br.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil || (b.Booker.ID != userID && b.Item.OwnerID != userID) {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, userID int64, state string, from, size int) ([]model.Booking, error) {
	st, err := parseState(state)
	if err != nil {
		return nil, err
	}
	limit, offset, err := pageBounds(from, size)
	if err != nil {
		return nil, err
	}
	return s.br.ListByBooker(ctx, userID, st, time.Now(), limit, offset)
}

func (s *service) ListByOwner(ctx context.Context, userID int64, state string, from, size int) ([]model.Booking, error) {
	st, err := parseState(state)
	if err != nil {
		return nil, err
	}
	limit, offset, err := pageBounds(from, size)
	if err != nil {
		return nil, err
	}
	user, err := s.ur.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	return s.br.ListByOwner(ctx, userID, st, time.Now(), limit, offset)
}

func parseState(state string) (model.BookingState, error) {
	switch st := model.BookingState(strings.ToUpper(state)); st {
	case model.StateAll, model.StateCurrent, model.StatePast,
		model.StateFuture, model.StateWaiting, model.StateRejected:
		return st, nil
	default:
		return "", apperr.Validation("unknown booking state: %s", state)
	}
}

// pageBounds turns from/size into limit/offset; the page index is
// from/size, zero-based.
func pageBounds(from, size int) (limit, offset int, err error) {
	if from < 0 || size <= 0 {
		return 0, 0, apperr.Validation("invalid pagination: from=%d size=%d", from, size)
	}
	return size, from / size * size, nil
}

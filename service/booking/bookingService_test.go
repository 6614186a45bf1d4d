package bookingsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shareit/model"
	bookingsvc "shareit/service/booking"
	"shareit/util/apperr"
)

type bookingRepoMock struct {
	createFn     func(ctx context.Context, b *model.Booking) error
	getFn        func(ctx context.Context, id int64) (*model.Booking, error)
	casFn        func(ctx context.Context, id int64, status model.BookingStatus) (bool, error)
	listBookerFn func(ctx context.Context, bookerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error)
	listOwnerFn  func(ctx context.Context, ownerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error)
}

var _ bookingsvc.BookingRepo = (*bookingRepoMock)(nil)

func (m *bookingRepoMock) Create(ctx context.Context, b *model.Booking) error {
	if m.createFn == nil {
		b.ID = 1
		return nil
	}
	return m.createFn(ctx, b)
}

func (m *bookingRepoMock) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	if m.getFn == nil {
		return nil, nil
	}
	return m.getFn(ctx, id)
}

func (m *bookingRepoMock) UpdateStatusIfWaiting(ctx context.Context, id int64, status model.BookingStatus) (bool, error) {
	if m.casFn == nil {
		return true, nil
	}
	return m.casFn(ctx, id, status)
}

func (m *bookingRepoMock) ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
	return m.listBookerFn(ctx, bookerID, state, now, limit, offset)
}

func (m *bookingRepoMock) ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
	return m.listOwnerFn(ctx, ownerID, state, now, limit, offset)
}

type itemRepoMock struct {
	getFn func(ctx context.Context, id int64) (*model.Item, error)
}

func (m *itemRepoMock) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	if m.getFn == nil {
		return nil, nil
	}
	return m.getFn(ctx, id)
}

type userRepoMock struct {
	getFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getFn == nil {
		return nil, nil
	}
	return m.getFn(ctx, id)
}

const (
	ownerID  = int64(1)
	bookerID = int64(2)
	itemID   = int64(10)
)

func fixedItem(available bool) *model.Item {
	return &model.Item{ID: itemID, Name: "drill", Description: "cordless", Available: available, OwnerID: ownerID}
}

func fixedUser(id int64) *model.User {
	return &model.User{ID: id, Name: "Alice", Email: "a@x.com"}
}

func newService(br *bookingRepoMock, available bool) bookingsvc.Service {
	ir := &itemRepoMock{getFn: func(ctx context.Context, id int64) (*model.Item, error) {
		return fixedItem(available), nil
	}}
	ur := &userRepoMock{getFn: func(ctx context.Context, id int64) (*model.User, error) {
		return fixedUser(id), nil
	}}
	return bookingsvc.New(br, ir, ur)
}

func TestCreate_DateValidation(t *testing.T) {
	ctx := context.Background()
	s := newService(&bookingRepoMock{}, true)
	now := time.Now()

	cases := []struct {
		name       string
		start, end time.Time
		wantMsg    string
	}{
		{"missing dates", time.Time{}, time.Time{}, "required"},
		{"missing end", now.Add(time.Hour), time.Time{}, "required"},
		{"end equals start", now.Add(time.Hour), now.Add(time.Hour), "after"},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour), "after"},
		{"start in past", now.Add(-time.Hour), now.Add(time.Hour), "past"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(ctx, bookerID, itemID, tc.start, tc.end)
			require.Error(t, err)
			require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			require.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestCreate_ItemNotFound(t *testing.T) {
	ir := &itemRepoMock{getFn: func(ctx context.Context, id int64) (*model.Item, error) { return nil, nil }}
	ur := &userRepoMock{getFn: func(ctx context.Context, id int64) (*model.User, error) { return fixedUser(bookerID), nil }}
	s := bookingsvc.New(&bookingRepoMock{}, ir, ur)

	now := time.Now()
	_, err := s.Create(context.Background(), bookerID, itemID, now.Add(time.Hour), now.Add(2*time.Hour))
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreate_UserNotFound(t *testing.T) {
	ir := &itemRepoMock{getFn: func(ctx context.Context, id int64) (*model.Item, error) { return fixedItem(true), nil }}
	ur := &userRepoMock{getFn: func(ctx context.Context, id int64) (*model.User, error) { return nil, nil }}
	s := bookingsvc.New(&bookingRepoMock{}, ir, ur)

	now := time.Now()
	_, err := s.Create(context.Background(), bookerID, itemID, now.Add(time.Hour), now.Add(2*time.Hour))
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreate_ItemUnavailable(t *testing.T) {
	s := newService(&bookingRepoMock{}, false)

	now := time.Now()
	_, err := s.Create(context.Background(), bookerID, itemID, now.Add(time.Hour), now.Add(2*time.Hour))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Contains(t, err.Error(), "not available")
}

func TestCreate_OwnItem(t *testing.T) {
	s := newService(&bookingRepoMock{}, true)

	now := time.Now()
	_, err := s.Create(context.Background(), ownerID, itemID, now.Add(time.Hour), now.Add(2*time.Hour))
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Contains(t, err.Error(), "own item")
}

func TestCreate_Success(t *testing.T) {
	var saved *model.Booking
	br := &bookingRepoMock{createFn: func(ctx context.Context, b *model.Booking) error {
		b.ID = 77
		saved = b
		return nil
	}}
	s := newService(br, true)

	now := time.Now()
	b, err := s.Create(context.Background(), bookerID, itemID, now.Add(time.Hour), now.Add(24*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, int64(77), b.ID)
	require.Equal(t, model.BookingWaiting, b.Status)
	require.Equal(t, itemID, b.Item.ID)
	require.Equal(t, ownerID, b.Item.OwnerID)
	require.Equal(t, bookerID, b.Booker.ID)
}

func waitingBooking() *model.Booking {
	return &model.Booking{
		ID:     5,
		Start:  time.Now().Add(time.Hour),
		End:    time.Now().Add(2 * time.Hour),
		Status: model.BookingWaiting,
		Item:   model.ItemRef{ID: itemID, Name: "drill", OwnerID: ownerID},
		Booker: model.UserRef{ID: bookerID, Name: "Bob"},
	}
}

func TestApprove_Success(t *testing.T) {
	br := &bookingRepoMock{
		getFn: func(ctx context.Context, id int64) (*model.Booking, error) { return waitingBooking(), nil },
	}
	s := newService(br, true)

	b, err := s.Approve(context.Background(), ownerID, 5, true)
	require.NoError(t, err)
	require.Equal(t, model.BookingApproved, b.Status)

	b, err = s.Approve(context.Background(), ownerID, 5, false)
	require.NoError(t, err)
	require.Equal(t, model.BookingRejected, b.Status)
}

func TestApprove_NotOwner(t *testing.T) {
	br := &bookingRepoMock{
		getFn: func(ctx context.Context, id int64) (*model.Booking, error) { return waitingBooking(), nil },
	}
	s := newService(br, true)

	_, err := s.Approve(context.Background(), bookerID, 5, true)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestApprove_AlreadyProcessed(t *testing.T) {
	b := waitingBooking()
	b.Status = model.BookingApproved
	br := &bookingRepoMock{
		getFn: func(ctx context.Context, id int64) (*model.Booking, error) { return b, nil },
	}
	s := newService(br, true)

	_, err := s.Approve(context.Background(), ownerID, 5, false)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Contains(t, err.Error(), "already processed")
}

func TestApprove_LosesRace(t *testing.T) {
	// the read sees WAITING but the guarded update finds the status
	// already changed
	br := &bookingRepoMock{
		getFn: func(ctx context.Context, id int64) (*model.Booking, error) { return waitingBooking(), nil },
		casFn: func(ctx context.Context, id int64, status model.BookingStatus) (bool, error) { return false, nil },
	}
	s := newService(br, true)

	_, err := s.Approve(context.Background(), ownerID, 5, true)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Contains(t, err.Error(), "already processed")
}

func TestGet_Visibility(t *testing.T) {
	br := &bookingRepoMock{
		getFn: func(ctx context.Context, id int64) (*model.Booking, error) { return waitingBooking(), nil },
	}
	s := newService(br, true)
	ctx := context.Background()

	_, err := s.Get(ctx, bookerID, 5)
	require.NoError(t, err)

	_, err = s.Get(ctx, ownerID, 5)
	require.NoError(t, err)

	// a stranger sees the same answer as for an absent booking
	_, err = s.Get(ctx, 99, 5)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListByBooker_StateParsing(t *testing.T) {
	var gotState model.BookingState
	br := &bookingRepoMock{
		listBookerFn: func(ctx context.Context, bookerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
			gotState = state
			return nil, nil
		},
	}
	s := newService(br, true)
	ctx := context.Background()

	for in, want := range map[string]model.BookingState{
		"ALL":      model.StateAll,
		"past":     model.StatePast,
		"Future":   model.StateFuture,
		"current":  model.StateCurrent,
		"WAITING":  model.StateWaiting,
		"rejected": model.StateRejected,
	} {
		_, err := s.ListByBooker(ctx, bookerID, in, 0, 10)
		require.NoError(t, err)
		require.Equal(t, want, gotState)
	}

	_, err := s.ListByBooker(ctx, bookerID, "INVALID", 0, 10)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Contains(t, err.Error(), "INVALID")
}

func TestListByBooker_Pagination(t *testing.T) {
	var gotLimit, gotOffset int
	br := &bookingRepoMock{
		listBookerFn: func(ctx context.Context, bookerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	}
	s := newService(br, true)
	ctx := context.Background()

	_, err := s.ListByBooker(ctx, bookerID, "ALL", 0, 10)
	require.NoError(t, err)
	require.Equal(t, 10, gotLimit)
	require.Equal(t, 0, gotOffset)

	// from=5 size=3 lands on page 1, offset 3
	_, err = s.ListByBooker(ctx, bookerID, "ALL", 5, 3)
	require.NoError(t, err)
	require.Equal(t, 3, gotLimit)
	require.Equal(t, 3, gotOffset)

	_, err = s.ListByBooker(ctx, bookerID, "ALL", -1, 10)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = s.ListByBooker(ctx, bookerID, "ALL", 0, 0)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestListByOwner_UserMustExist(t *testing.T) {
	br := &bookingRepoMock{
		listOwnerFn: func(ctx context.Context, ownerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
			return nil, nil
		},
	}
	ir := &itemRepoMock{}
	ur := &userRepoMock{getFn: func(ctx context.Context, id int64) (*model.User, error) { return nil, nil }}
	s := bookingsvc.New(br, ir, ur)

	_, err := s.ListByOwner(context.Background(), 42, "ALL", 0, 10)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

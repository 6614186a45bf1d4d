package memoryrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shareit/model"
	"shareit/util/apperr"
)

func TestUsers_EmailUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Users().Create(ctx, &model.User{Name: "Alice", Email: "a@x.com"}))

	err := s.Users().Create(ctx, &model.User{Name: "Mallory", Email: "A@X.com"})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// updating onto a taken email conflicts too
	u2 := &model.User{Name: "Bob", Email: "b@x.com"}
	require.NoError(t, s.Users().Create(ctx, u2))
	u2.Email = "a@X.com"
	err = s.Users().Update(ctx, u2)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestBookings_GuardedStatusUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	b := &model.Booking{Status: model.BookingWaiting}
	require.NoError(t, s.Bookings().Create(ctx, b))

	ok, err := s.Bookings().UpdateStatusIfWaiting(ctx, b.ID, model.BookingApproved)
	require.NoError(t, err)
	require.True(t, ok)

	// the second writer loses
	ok, err = s.Bookings().UpdateStatusIfWaiting(ctx, b.ID, model.BookingRejected)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := s.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, model.BookingApproved, got.Status)
}

func TestBookings_ListOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	for i := 0; i < 5; i++ {
		b := &model.Booking{
			Start:  now.Add(time.Duration(i+1) * time.Hour),
			End:    now.Add(time.Duration(i+2) * time.Hour),
			Status: model.BookingWaiting,
			Item:   model.ItemRef{ID: 1, OwnerID: 9},
			Booker: model.UserRef{ID: 2},
		}
		require.NoError(t, s.Bookings().Create(ctx, b))
	}

	all, err := s.Bookings().ListByBooker(ctx, 2, model.StateAll, now, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		require.True(t, all[i-1].Start.After(all[i].Start), "descending by start")
	}

	pg, err := s.Bookings().ListByBooker(ctx, 2, model.StateAll, now, 2, 2)
	require.NoError(t, err)
	require.Len(t, pg, 2)
	require.Equal(t, all[2].ID, pg[0].ID)

	owned, err := s.Bookings().ListByOwner(ctx, 9, model.StateFuture, now, 10, 0)
	require.NoError(t, err)
	require.Len(t, owned, 5)
}

func TestItems_Search(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Items().Create(ctx, &model.Item{Name: "Cordless Drill", Description: "power tool", Available: true, OwnerID: 1}))
	require.NoError(t, s.Items().Create(ctx, &model.Item{Name: "Hammer", Description: "drilling companion", Available: true, OwnerID: 1}))
	require.NoError(t, s.Items().Create(ctx, &model.Item{Name: "Broken Drill", Description: "do not rent", Available: false, OwnerID: 1}))
	require.NoError(t, s.Items().Create(ctx, &model.Item{Name: "100% cotton rope", Description: "climbing", Available: true, OwnerID: 1}))

	found, err := s.Items().Search(ctx, "DRILL")
	require.NoError(t, err)
	require.Len(t, found, 2, "matches name or description, available only")

	// search text carries no wildcard meaning
	found, err = s.Items().Search(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = s.Items().Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestItems_DetailsNearestBookings(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	it := &model.Item{Name: "drill", Description: "cordless", Available: true, OwnerID: 1}
	require.NoError(t, s.Items().Create(ctx, it))
	other := &model.Item{Name: "saw", Description: "circular", Available: true, OwnerID: 1}
	require.NoError(t, s.Items().Create(ctx, other))

	mk := func(itemID int64, start, end time.Time) *model.Booking {
		b := &model.Booking{
			Start:  start,
			End:    end,
			Status: model.BookingApproved,
			Item:   model.ItemRef{ID: itemID, OwnerID: 1},
			Booker: model.UserRef{ID: 2},
		}
		require.NoError(t, s.Bookings().Create(ctx, b))
		return b
	}

	mk(it.ID, now.Add(-4*time.Hour), now.Add(-3*time.Hour))
	last := mk(it.ID, now.Add(-2*time.Hour), now.Add(-time.Hour))
	mk(it.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	next := mk(it.ID, now.Add(time.Hour), now.Add(2*time.Hour))
	mk(it.ID, now.Add(2*time.Hour), now.Add(3*time.Hour))
	// another item's booking ends closer to now but must not leak in
	mk(other.ID, now.Add(-30*time.Minute), now.Add(-10*time.Minute))

	d, err := s.Items().Details(ctx, it.ID, now)
	require.NoError(t, err)
	require.NotNil(t, d.LastBooking)
	require.Equal(t, last.ID, d.LastBooking.ID, "latest finished booking wins")
	require.NotNil(t, d.NextBooking)
	require.Equal(t, next.ID, d.NextBooking.ID, "earliest upcoming booking wins")
}

func TestRequests_OwnOthersPartition(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	mine := &model.ItemRequest{Description: "need a drill", RequestorID: 1, Created: now.Add(-time.Hour)}
	require.NoError(t, s.Requests().Create(ctx, mine))
	theirs := &model.ItemRequest{Description: "need a saw", RequestorID: 2, Created: now}
	require.NoError(t, s.Requests().Create(ctx, theirs))

	own, err := s.Requests().ListByRequestor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, own, 1)
	require.Equal(t, mine.ID, own[0].ID)

	others, err := s.Requests().ListOthers(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, others, 1)
	require.Equal(t, theirs.ID, others[0].ID)
}

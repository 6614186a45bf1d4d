// Package memoryrepo backs the repository contracts with in-process maps.
// It enforces the same constraints as the SQL schema (email uniqueness,
// WAITING-guarded status updates) so services behave identically against
// either store.
package memoryrepo

import (
	"sort"
	"strings"
	"sync"
	"time"

	"shareit/model"
)

type Store struct {
	mu     sync.Mutex
	nextID int64

	users    map[int64]model.User
	items    map[int64]model.Item
	bookings map[int64]model.Booking
	comments map[int64]model.Comment
	requests map[int64]model.ItemRequest
}

func NewStore() *Store {
	return &Store{
		users:    make(map[int64]model.User),
		items:    make(map[int64]model.Item),
		bookings: make(map[int64]model.Booking),
		comments: make(map[int64]model.Comment),
		requests: make(map[int64]model.ItemRequest),
	}
}

func (s *Store) Users() *Users       { return &Users{s} }
func (s *Store) Items() *Items       { return &Items{s} }
func (s *Store) Bookings() *Bookings { return &Bookings{s} }
func (s *Store) Comments() *Comments { return &Comments{s} }
func (s *Store) Requests() *Requests { return &Requests{s} }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// hydrate fills the item/booker projections the SQL layer gets from joins.
func (s *Store) hydrate(b model.Booking) model.Booking {
	if it, ok := s.items[b.Item.ID]; ok {
		b.Item.Name = it.Name
		b.Item.OwnerID = it.OwnerID
	}
	if u, ok := s.users[b.Booker.ID]; ok {
		b.Booker.Name = u.Name
	}
	return b
}

func sortByStartDesc(bs []model.Booking) {
	sort.Slice(bs, func(i, j int) bool { return bs[i].Start.After(bs[j].Start) })
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit < len(in) {
		in = in[:limit]
	}
	return in
}

func matchesState(b model.Booking, state model.BookingState, now time.Time) bool {
	switch state {
	case model.StateCurrent:
		return !b.Start.After(now) && b.End.After(now)
	case model.StatePast:
		return b.End.Before(now)
	case model.StateFuture:
		return b.Start.After(now)
	case model.StateWaiting, model.StateRejected:
		return string(b.Status) == string(state)
	default:
		return true
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

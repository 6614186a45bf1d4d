package memoryrepo

import (
	"context"
	"sort"
	"strings"
	"time"

	"shareit/model"
	"shareit/util/apperr"
)

type Users struct{ s *Store }

func (r *Users) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return apperr.Conflict("email already in use")
		}
	}
	u.ID = r.s.id()
	r.s.users[u.ID] = *u
	return nil
}

func (r *Users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *Users) List(ctx context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Users) Update(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.users {
		if ex.ID != u.ID && strings.EqualFold(ex.Email, u.Email) {
			return apperr.Conflict("email already in use")
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *Users) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

type Items struct{ s *Store }

func (r *Items) Create(ctx context.Context, it *model.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it.ID = r.s.id()
	r.s.items[it.ID] = *it
	return nil
}

func (r *Items) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// Details assembles the item view under one lock hold, the in-process
// analog of a single read transaction.
func (r *Items) Details(ctx context.Context, id int64, now time.Time) (*model.ItemDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}

	d := &model.ItemDetails{Item: it, Comments: []model.Comment{}}
	var last, next *model.Booking
	for _, b := range r.s.bookings {
		b := b
		if b.Item.ID != id {
			continue
		}
		if b.End.Before(now) && (last == nil || b.End.After(last.End)) {
			last = &b
		}
		if b.Start.After(now) && (next == nil || b.Start.Before(next.Start)) {
			next = &b
		}
	}
	d.LastBooking = toRef(last)
	d.NextBooking = toRef(next)

	for _, c := range r.s.comments {
		if c.ItemID == id {
			if u, ok := r.s.users[c.AuthorID]; ok {
				c.AuthorName = u.Name
			}
			d.Comments = append(d.Comments, c)
		}
	}
	sort.Slice(d.Comments, func(i, j int) bool { return d.Comments[i].Created.After(d.Comments[j].Created) })
	return d, nil
}

func (r *Items) Update(ctx context.Context, it *model.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[it.ID] = *it
	return nil
}

func (r *Items) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.items, id)
	return nil
}

func (r *Items) ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Item
	for _, it := range r.s.items {
		if it.OwnerID == ownerID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Items) Search(ctx context.Context, text string) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Item
	for _, it := range r.s.items {
		if it.Available && (containsFold(it.Name, text) || containsFold(it.Description, text)) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Items) ListByRequest(ctx context.Context, requestID int64) ([]model.ItemRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.ItemRef
	for _, it := range r.s.items {
		if it.RequestID != nil && *it.RequestID == requestID {
			out = append(out, model.ItemRef{
				ID:        it.ID,
				Name:      it.Name,
				OwnerID:   it.OwnerID,
				Available: it.Available,
				RequestID: it.RequestID,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type Bookings struct{ s *Store }

func (r *Bookings) Create(ctx context.Context, b *model.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = r.s.id()
	r.s.bookings[b.ID] = *b
	return nil
}

func (r *Bookings) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	b = r.s.hydrate(b)
	return &b, nil
}

func (r *Bookings) UpdateStatusIfWaiting(ctx context.Context, id int64, status model.BookingStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Status != model.BookingWaiting {
		return false, nil
	}
	b.Status = status
	r.s.bookings[id] = b
	return true, nil
}

func (r *Bookings) ListByBooker(ctx context.Context, bookerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
	return r.list(func(b model.Booking) bool { return b.Booker.ID == bookerID }, state, now, limit, offset)
}

func (r *Bookings) ListByOwner(ctx context.Context, ownerID int64, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
	return r.list(func(b model.Booking) bool { return b.Item.OwnerID == ownerID }, state, now, limit, offset)
}

func (r *Bookings) list(scope func(model.Booking) bool, state model.BookingState, now time.Time, limit, offset int) ([]model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Booking
	for _, b := range r.s.bookings {
		b = r.s.hydrate(b)
		if scope(b) && matchesState(b, state, now) {
			out = append(out, b)
		}
	}
	sortByStartDesc(out)
	return page(out, limit, offset), nil
}

func toRef(b *model.Booking) *model.BookingRef {
	if b == nil {
		return nil
	}
	return &model.BookingRef{ID: b.ID, BookerID: b.Booker.ID}
}

func (r *Bookings) ExistsCompleted(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.Booker.ID == bookerID && b.Item.ID == itemID && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

type Comments struct{ s *Store }

func (r *Comments) Create(ctx context.Context, c *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	r.s.comments[c.ID] = *c
	return nil
}

type Requests struct{ s *Store }

func (r *Requests) Create(ctx context.Context, req *model.ItemRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req.ID = r.s.id()
	r.s.requests[req.ID] = *req
	return nil
}

func (r *Requests) GetByID(ctx context.Context, id int64) (*model.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *Requests) ListByRequestor(ctx context.Context, userID int64) ([]model.ItemRequest, error) {
	return r.list(func(req model.ItemRequest) bool { return req.RequestorID == userID }, -1, 0)
}

func (r *Requests) ListOthers(ctx context.Context, userID int64, limit, offset int) ([]model.ItemRequest, error) {
	return r.list(func(req model.ItemRequest) bool { return req.RequestorID != userID }, limit, offset)
}

func (r *Requests) list(keep func(model.ItemRequest) bool, limit, offset int) ([]model.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.ItemRequest
	for _, req := range r.s.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	if limit < 0 {
		return out, nil
	}
	return page(out, limit, offset), nil
}

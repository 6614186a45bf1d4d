package itemsvc

import (
	"context"
	"strings"
	"time"

	"shareit/model"
	"shareit/util/apperr"
)

type ItemRepo interface {
	Create(ctx context.Context, it *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)

	// Details delivers the item, its nearest finished and upcoming
	// booking, and its comments from one consistent snapshot.
	Details(ctx context.Context, id int64, now time.Time) (*model.ItemDetails, error)

	Update(ctx context.Context, it *model.Item) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type BookingRepo interface {
	ExistsCompleted(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

type CommentRepo interface {
	Create(ctx context.Context, c *model.Comment) error
}

type Service interface {
	Create(ctx context.Context, ownerID int64, name, description string, available *bool, requestID *int64) (*model.Item, error)
	Update(ctx context.Context, userID, itemID int64, patch model.ItemPatch) (*model.Item, error)

	// Get returns the item enriched with its nearest past and future
	// booking and its comments, newest first.
	Get(ctx context.Context, itemID int64) (*model.ItemDetails, error)

	ListByUser(ctx context.Context, ownerID int64) ([]model.ItemDetails, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
	Delete(ctx context.Context, userID, itemID int64) error
	AddComment(ctx context.Context, userID, itemID int64, text string) (*model.Comment, error)
}

type service struct {
	ir ItemRepo
	ur UserRepo
	br BookingRepo
	cr CommentRepo
}

func New(ir ItemRepo, ur UserRepo, br BookingRepo, cr CommentRepo) Service {
	return &service{ir: ir, ur: ur, br: br, cr: cr}
}

func (s *service) Create(ctx context.Context, ownerID int64, name, description string, available *bool, requestID *int64) (*model.Item, error) {
	owner, err := s.ur.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d not found", ownerID)
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("item name cannot be blank")
	}
	if strings.TrimSpace(description) == "" {
		return nil, apperr.Validation("item description cannot be blank")
	}
	if available == nil {
		return nil, apperr.Validation("item availability must be set")
	}

	it := &model.Item{
		Name:        name,
		Description: description,
		Available:   *available,
		OwnerID:     ownerID,
		RequestID:   requestID,
	}
	if err := s.ir.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, userID, itemID int64, patch model.ItemPatch) (*model.Item, error) {
	it, err := s.ir.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	// a non-owner gets the same answer as for an absent item
	if it == nil || it.OwnerID != userID {
		return nil, apperr.NotFound("item %d not found", itemID)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		it.Name = *patch.Name
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) != "" {
		it.Description = *patch.Description
	}
	if patch.Available != nil {
		it.Available = *patch.Available
	}

	if err := s.ir.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Get(ctx context.Context, itemID int64) (*model.ItemDetails, error) {
	d, err := s.ir.Details(ctx, itemID, time.Now())
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}
	return d, nil
}

func (s *service) ListByUser(ctx context.Context, ownerID int64) ([]model.ItemDetails, error) {
	owner, err := s.ur.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("user %d not found", ownerID)
	}

	items, err := s.ir.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]model.ItemDetails, 0, len(items))
	for _, it := range items {
		d, err := s.ir.Details(ctx, it.ID, now)
		if err != nil {
			return nil, err
		}
		if d == nil {
			// deleted between the listing and the detail read
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *service) Search(ctx context.Context, text string) ([]model.Item, error) {
	// blank queries short-circuit without touching the store
	if strings.TrimSpace(text) == "" {
		return []model.Item{}, nil
	}
	items, err := s.ir.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (s *service) Delete(ctx context.Context, userID, itemID int64) error {
	it, err := s.ir.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if it == nil || it.OwnerID != userID {
		return apperr.NotFound("item %d not found", itemID)
	}
	return s.ir.Delete(ctx, itemID)
}

func (s *service) AddComment(ctx context.Context, userID, itemID int64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("comment text cannot be blank")
	}

	user, err := s.ur.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	it, err := s.ir.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}

	now := time.Now()
	// temporal eligibility, not authorization: the author must have a
	// booking on this item that ended before now
	completed, err := s.br.ExistsCompleted(ctx, userID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, apperr.Validation("user has not completed a booking of this item")
	}

	c := &model.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   userID,
		AuthorName: user.Name,
		Created:    now,
	}
	if err := s.cr.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

package requestsvc

import (
	"context"
	"time"

	"shareit/model"
	"shareit/util/apperr"
)

type RequestRepo interface {
	Create(ctx context.Context, req *model.ItemRequest) error
	GetByID(ctx context.Context, id int64) (*model.ItemRequest, error)
	ListByRequestor(ctx context.Context, userID int64) ([]model.ItemRequest, error)
	ListOthers(ctx context.Context, userID int64, limit, offset int) ([]model.ItemRequest, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type ItemRepo interface {
	ListByRequest(ctx context.Context, requestID int64) ([]model.ItemRef, error)
}

type Service interface {
	Add(ctx context.Context, userID int64, description string) (*model.ItemRequestDetails, error)
	Own(ctx context.Context, userID int64) ([]model.ItemRequestDetails, error)
	Others(ctx context.Context, userID int64, from, size int) ([]model.ItemRequestDetails, error)
	ByID(ctx context.Context, userID, requestID int64) (*model.ItemRequestDetails, error)
}

type service struct {
	rr RequestRepo
	ur UserRepo
	ir ItemRepo
}

func New(rr RequestRepo, ur UserRepo, ir ItemRepo) Service {
	return &service{rr: rr, ur: ur, ir: ir}
}

func (s *service) Add(ctx context.Context, userID int64, description string) (*model.ItemRequestDetails, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	req := &model.ItemRequest{
		Description: description,
		RequestorID: userID,
		Created:     time.Now(),
	}
	if err := s.rr.Create(ctx, req); err != nil {
		return nil, err
	}
	// a fresh request has no fulfilling items yet
	return &model.ItemRequestDetails{ItemRequest: *req, Items: []model.ItemRef{}}, nil
}

func (s *service) Own(ctx context.Context, userID int64) ([]model.ItemRequestDetails, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.rr.ListByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, reqs)
}

func (s *service) Others(ctx context.Context, userID int64, from, size int) ([]model.ItemRequestDetails, error) {
	if from < 0 || size <= 0 {
		return nil, apperr.Validation("invalid pagination: from=%d size=%d", from, size)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.rr.ListOthers(ctx, userID, size, from/size*size)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, reqs)
}

func (s *service) ByID(ctx context.Context, userID, requestID int64) (*model.ItemRequestDetails, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	req, err := s.rr.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apperr.NotFound("request %d not found", requestID)
	}
	return s.enrich(ctx, *req)
}

func (s *service) requireUser(ctx context.Context, userID int64) error {
	u, err := s.ur.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.NotFound("user %d not found", userID)
	}
	return nil
}

func (s *service) enrich(ctx context.Context, req model.ItemRequest) (*model.ItemRequestDetails, error) {
	items, err := s.ir.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ItemRef{}
	}
	return &model.ItemRequestDetails{ItemRequest: req, Items: items}, nil
}

func (s *service) enrichAll(ctx context.Context, reqs []model.ItemRequest) ([]model.ItemRequestDetails, error) {
	out := make([]model.ItemRequestDetails, 0, len(reqs))
	for _, req := range reqs {
		d, err := s.enrich(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

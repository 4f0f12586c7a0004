package service

import (
	"context"
	"errors"

	"github.com/agristock/agristock-api/internal/core"
	"github.com/agristock/agristock-api/internal/domain/model"
)

// SupplyServiceOptions groups dependencies for SupplyService.
type SupplyServiceOptions struct {
	Repo core.SupplyRepository
}

// SupplyService orchestrates supply CRUD. Every operation is scoped to the
// calling user; ownership enforcement lives in the repository queries.
type SupplyService struct {
	supplies core.SupplyRepository
}

// NewSupplyService constructs a new SupplyService.
func NewSupplyService(opts SupplyServiceOptions) *SupplyService {
	if opts.Repo == nil {
		panic("supply service requires a repository")
	}
	return &SupplyService{supplies: opts.Repo}
}

// Create creates a supply for the user. Stock status is derived from quantity
// and threshold, never taken from the request.
func (s *SupplyService) Create(ctx context.Context, userID string, req *model.CreateSupplyRequest) (*model.Supply, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	return s.supplies.Create(ctx, userID, req)
}

// GetByID retrieves one of the user's supplies.
func (s *SupplyService) GetByID(ctx context.Context, userID, id string) (*model.Supply, error) {
	return s.supplies.GetByID(ctx, userID, id)
}

// List returns a page of the user's supplies.
func (s *SupplyService) List(ctx context.Context, userID string, opts model.SuppliesListOptions) ([]*model.Supply, error) {
	return s.supplies.List(ctx, userID, normalizeSuppliesListOptions(opts))
}

// Update updates one of the user's supplies.
func (s *SupplyService) Update(ctx context.Context, userID, id string, req model.UpdateSupplyRequest) (*model.Supply, error) {
	return s.supplies.Update(ctx, userID, id, req)
}

// Delete removes one of the user's supplies. Returns false when nothing was
// deleted.
func (s *SupplyService) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.supplies.Delete(ctx, userID, id)
}

func normalizeSuppliesListOptions(opts model.SuppliesListOptions) model.SuppliesListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}

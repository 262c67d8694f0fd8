package sellers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/pagination"
)

// Service exposes seller reads used by the admin commission screens.
type Service interface {
	Get(ctx context.Context, sellerID uuid.UUID) (*models.Seller, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type service struct {
	repo Repository
}

// ListParams configures seller pagination.
type ListParams struct {
	ActiveOnly bool
	Limit      int
	Cursor     string
}

// ListResult wraps returned sellers and the cursor for the next page.
type ListResult struct {
	Items  []models.Seller `json:"items"`
	Cursor string          `json:"cursor"`
}

// NewService wires seller dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sellers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, sellerID uuid.UUID) (*models.Seller, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	seller, err := s.repo.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get seller")
	}
	return seller, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listSellersParams{
		ActiveOnly: params.ActiveOnly,
		Limit:      params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sellers")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repo.ListActiveIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active seller ids")
	}
	return ids, nil
}

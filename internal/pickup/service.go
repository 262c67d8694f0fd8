package pickup

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/pagination"
)

// Service manages the pickup point directory used by retail checkout.
// Points are never deleted, only deactivated, so past orders keep a valid
// reference.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.PickupPoint, error)
	Get(ctx context.Context, pointID uuid.UUID) (*models.PickupPoint, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, pointID uuid.UUID, params UpdateParams) (*models.PickupPoint, error)
	Deactivate(ctx context.Context, pointID uuid.UUID) error
}

type service struct {
	repo Repository
}

// CreateParams carries the fields for a new pickup point.
type CreateParams struct {
	Name    string
	Address string
	City    string
	Country string
	Phone   string
}

// UpdateParams carries optional edits. Nil fields keep their current value.
type UpdateParams struct {
	Name    *string
	Address *string
	City    *string
	Country *string
	Phone   *string
	Active  *bool
}

// ListParams configures pickup point pagination and filters.
type ListParams struct {
	ActiveOnly bool
	City       string
	Limit      int
	Cursor     string
}

// ListResult wraps returned pickup points and the cursor for the next page.
type ListResult struct {
	Items  []models.PickupPoint `json:"items"`
	Cursor string               `json:"cursor"`
}

// NewService wires pickup point dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pickup repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.PickupPoint, error) {
	name := strings.TrimSpace(params.Name)
	address := strings.TrimSpace(params.Address)
	city := strings.TrimSpace(params.City)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if city == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}

	country := strings.TrimSpace(params.Country)
	if country == "" {
		country = "MX"
	}

	point := &models.PickupPoint{
		Name:    name,
		Address: address,
		City:    city,
		Country: country,
		Phone:   strings.TrimSpace(params.Phone),
		Active:  true,
	}
	if err := s.repo.Create(ctx, point); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pickup point")
	}
	return point, nil
}

func (s *service) Get(ctx context.Context, pointID uuid.UUID) (*models.PickupPoint, error) {
	if pointID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup point id required")
	}
	point, err := s.repo.GetByID(ctx, pointID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pickup point not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get pickup point")
	}
	return point, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listPointsParams{
		ActiveOnly: params.ActiveOnly,
		City:       strings.TrimSpace(params.City),
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pickup points")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Update(ctx context.Context, pointID uuid.UUID, params UpdateParams) (*models.PickupPoint, error) {
	point, err := s.Get(ctx, pointID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		point.Name = strings.TrimSpace(*params.Name)
	}
	if params.Address != nil {
		if strings.TrimSpace(*params.Address) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address cannot be empty")
		}
		point.Address = strings.TrimSpace(*params.Address)
	}
	if params.City != nil {
		if strings.TrimSpace(*params.City) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "city cannot be empty")
		}
		point.City = strings.TrimSpace(*params.City)
	}
	if params.Country != nil && strings.TrimSpace(*params.Country) != "" {
		point.Country = strings.TrimSpace(*params.Country)
	}
	if params.Phone != nil {
		point.Phone = strings.TrimSpace(*params.Phone)
	}
	if params.Active != nil {
		point.Active = *params.Active
	}

	if err := s.repo.Update(ctx, point); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pickup point")
	}
	return point, nil
}

func (s *service) Deactivate(ctx context.Context, pointID uuid.UUID) error {
	if pointID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pickup point id required")
	}
	found, err := s.repo.Deactivate(ctx, pointID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate pickup point")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pickup point not found or already inactive")
	}
	return nil
}

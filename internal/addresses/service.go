package addresses

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages a buyer's delivery addresses. At most one address per user
// carries the default flag; the partial unique index backs that invariant.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*models.Address, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, params UpdateParams) (*models.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// CreateParams carries the fields for a new address.
type CreateParams struct {
	Label         string
	FullName      string
	Phone         *string
	StreetAddress string
	City          string
	State         *string
	PostalCode    *string
	Country       string
	Notes         *string
	IsDefault     bool
}

// UpdateParams carries optional edits. Nil fields keep their current value.
type UpdateParams struct {
	Label         *string
	FullName      *string
	Phone         *string
	StreetAddress *string
	City          *string
	State         *string
	PostalCode    *string
	Country       *string
	Notes         *string
	IsDefault     *bool
}

// NewService wires address dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "addresses repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	fullName := strings.TrimSpace(params.FullName)
	street := strings.TrimSpace(params.StreetAddress)
	city := strings.TrimSpace(params.City)
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if street == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "street address is required")
	}
	if city == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}

	country := strings.TrimSpace(params.Country)
	if country == "" {
		country = "MX"
	}

	address := &models.Address{
		UserID:        userID,
		Label:         strings.TrimSpace(params.Label),
		FullName:      fullName,
		Phone:         params.Phone,
		StreetAddress: street,
		City:          city,
		State:         params.State,
		PostalCode:    params.PostalCode,
		Country:       country,
		Notes:         params.Notes,
		IsDefault:     params.IsDefault,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if address.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, address)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return address, nil
}

func (s *service) Get(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and address id required")
	}
	address, err := s.repo.GetByID(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get address")
	}
	return address, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, params UpdateParams) (*models.Address, error) {
	address, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if params.Label != nil {
		address.Label = strings.TrimSpace(*params.Label)
	}
	if params.FullName != nil {
		if strings.TrimSpace(*params.FullName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		address.FullName = strings.TrimSpace(*params.FullName)
	}
	if params.Phone != nil {
		address.Phone = params.Phone
	}
	if params.StreetAddress != nil {
		if strings.TrimSpace(*params.StreetAddress) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "street address cannot be empty")
		}
		address.StreetAddress = strings.TrimSpace(*params.StreetAddress)
	}
	if params.City != nil {
		if strings.TrimSpace(*params.City) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "city cannot be empty")
		}
		address.City = strings.TrimSpace(*params.City)
	}
	if params.State != nil {
		address.State = params.State
	}
	if params.PostalCode != nil {
		address.PostalCode = params.PostalCode
	}
	if params.Country != nil && strings.TrimSpace(*params.Country) != "" {
		address.Country = strings.TrimSpace(*params.Country)
	}
	if params.Notes != nil {
		address.Notes = params.Notes
	}

	makeDefault := params.IsDefault != nil && *params.IsDefault && !address.IsDefault
	if params.IsDefault != nil {
		address.IsDefault = *params.IsDefault
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if makeDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return repo.Update(ctx, address)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return address, nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and address id required")
	}
	found, err := s.repo.Delete(ctx, userID, addressID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and address id required")
	}

	var found bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearDefault(ctx, userID); err != nil {
			return err
		}
		var err error
		found, err = repo.SetDefault(ctx, userID, addressID)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

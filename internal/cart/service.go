package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/mercaditoapp/mercadito-backend/internal/catalog"
	"github.com/mercaditoapp/mercadito-backend/internal/notify"
	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
)

// Session identifies the shopper. The JWT token id keys the Redis cart
// document and the role selects the cart strategy.
type Session struct {
	ID     string
	UserID uuid.UUID
	Role   enums.UserRole
}

// AddResult reports an add attempt. Added is false when the purchase rules
// reject the product; the toast carries the user-facing explanation either way.
type AddResult struct {
	Added bool  `json:"added"`
	Toast Toast `json:"toast"`
	Cart  *Cart `json:"cart"`
}

// Info is the normalized cart summary shared by both cart types.
type Info struct {
	TotalItems    int            `json:"total_items"`
	TotalQuantity int            `json:"total_quantity"`
	SubtotalCents int64          `json:"subtotal_cents"`
	Items         []Item         `json:"items"`
	CartType      enums.CartType `json:"cart_type"`
	CartLink      string         `json:"cart_link"`
}

const (
	retailCartLink    = "/carrito"
	wholesaleCartLink = "/seller/carrito"
)

// Service exposes role-aware cart operations.
type Service interface {
	AddToCart(ctx context.Context, session Session, productID uuid.UUID) (*AddResult, error)
	UpdateQuantity(ctx context.Context, session Session, productID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, session Session, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, session Session) error
	GetCartInfo(ctx context.Context, session Session) (*Info, error)
	GetBusinessSummary(ctx context.Context, session Session, productID uuid.UUID, quantity int) (*BusinessSummary, error)
}

type service struct {
	store   Store
	catalog catalog.Service
	notify  notify.Service
	logg    *logger.Logger
}

// NewService wires the cart service dependencies.
func NewService(store Store, catalogSvc catalog.Service, notifySvc notify.Service, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart store is required")
	}
	if catalogSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog service is required")
	}
	if notifySvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger is required")
	}
	return &service{store: store, catalog: catalogSvc, notify: notifySvc, logg: logg}, nil
}

func validateSession(session Session) error {
	if session.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "cart session is required")
	}
	if !session.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown account role")
	}
	return nil
}

func (s *service) AddToCart(ctx context.Context, session Session, productID uuid.UUID) (*AddResult, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")
	}

	strategy := StrategyForRole(session.Role)
	current, err := s.store.Get(ctx, session.ID, strategy.Type())
	if err != nil {
		return nil, err
	}

	outcome := strategy.Add(current, product)
	if outcome.Added {
		if err := s.store.Save(ctx, current); err != nil {
			return nil, err
		}
	}
	s.emitToast(ctx, session.UserID, outcome.Toast)

	return &AddResult{Added: outcome.Added, Toast: outcome.Toast, Cart: current}, nil
}

func (s *service) UpdateQuantity(ctx context.Context, session Session, productID uuid.UUID, quantity int) (*Cart, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	strategy := StrategyForRole(session.Role)
	current, err := s.store.Get(ctx, session.ID, strategy.Type())
	if err != nil {
		return nil, err
	}

	item := current.find(productID)
	if item == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}
	if err := strategy.ValidateQuantity(item, quantity); err != nil {
		return nil, err
	}

	item.Quantity = quantity
	current.recompute()
	if err := s.store.Save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *service) RemoveItem(ctx context.Context, session Session, productID uuid.UUID) (*Cart, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}

	strategy := StrategyForRole(session.Role)
	current, err := s.store.Get(ctx, session.ID, strategy.Type())
	if err != nil {
		return nil, err
	}

	if !current.remove(productID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}
	if err := s.store.Save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *service) Clear(ctx context.Context, session Session) error {
	if err := validateSession(session); err != nil {
		return err
	}
	strategy := StrategyForRole(session.Role)
	return s.store.Delete(ctx, session.ID, strategy.Type())
}

func (s *service) GetCartInfo(ctx context.Context, session Session) (*Info, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}

	strategy := StrategyForRole(session.Role)
	current, err := s.store.Get(ctx, session.ID, strategy.Type())
	if err != nil {
		return nil, err
	}

	link := retailCartLink
	if strategy.Type() == enums.CartTypeB2B {
		link = wholesaleCartLink
	}

	return &Info{
		TotalItems:    len(current.Items),
		TotalQuantity: current.TotalQuantity(),
		SubtotalCents: current.SubtotalCents(),
		Items:         current.Items,
		CartType:      strategy.Type(),
		CartLink:      link,
	}, nil
}

func (s *service) GetBusinessSummary(ctx context.Context, session Session, productID uuid.UUID, quantity int) (*BusinessSummary, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}
	if !session.Role.IsBusiness() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "business summary is only available to business accounts")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ComputeBusinessSummary(product, quantity), nil
}

func (s *service) emitToast(ctx context.Context, userID uuid.UUID, toast Toast) {
	switch toast.Level {
	case enums.NotificationLevelSuccess:
		s.notify.Success(ctx, userID, toast.Message, toast.Detail)
	case enums.NotificationLevelError:
		s.notify.Error(ctx, userID, toast.Message, toast.Detail)
	case enums.NotificationLevelWarning:
		s.notify.Warning(ctx, userID, toast.Message, toast.Detail)
	default:
		s.notify.Info(ctx, userID, toast.Message, toast.Detail)
	}
}

package cart

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mercaditoapp/mercadito-backend/internal/catalog"
	"github.com/mercaditoapp/mercadito-backend/internal/notify"
	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
)

type fakeCartStore struct {
	carts   map[string]*Cart
	saveErr error
	saved   int
	deleted int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*Cart{}}
}

func (f *fakeCartStore) key(sessionID string, cartType enums.CartType) string {
	return cartType.String() + ":" + sessionID
}

func (f *fakeCartStore) Get(_ context.Context, sessionID string, cartType enums.CartType) (*Cart, error) {
	if cart, ok := f.carts[f.key(sessionID, cartType)]; ok {
		return cart, nil
	}
	return NewCart(sessionID, cartType), nil
}

func (f *fakeCartStore) Save(_ context.Context, cart *Cart) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.carts[f.key(cart.SessionID, cart.Type)] = cart
	f.saved++
	return nil
}

func (f *fakeCartStore) Delete(_ context.Context, sessionID string, cartType enums.CartType) error {
	delete(f.carts, f.key(sessionID, cartType))
	f.deleted++
	return nil
}

type fakeCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeCatalog) Get(_ context.Context, productID uuid.UUID) (*models.Product, error) {
	if product, ok := f.products[productID]; ok {
		return product, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (f *fakeCatalog) List(_ context.Context, _ catalog.ListParams) (*catalog.ListResult, error) {
	return &catalog.ListResult{}, nil
}

type recordedToast struct {
	userID  uuid.UUID
	level   enums.NotificationLevel
	message string
	detail  string
}

type fakeNotify struct {
	toasts []recordedToast
}

func (f *fakeNotify) push(userID uuid.UUID, level enums.NotificationLevel, message, detail string) {
	f.toasts = append(f.toasts, recordedToast{userID: userID, level: level, message: message, detail: detail})
}

func (f *fakeNotify) Success(_ context.Context, userID uuid.UUID, message, detail string) {
	f.push(userID, enums.NotificationLevelSuccess, message, detail)
}

func (f *fakeNotify) Error(_ context.Context, userID uuid.UUID, message, detail string) {
	f.push(userID, enums.NotificationLevelError, message, detail)
}

func (f *fakeNotify) Info(_ context.Context, userID uuid.UUID, message, detail string) {
	f.push(userID, enums.NotificationLevelInfo, message, detail)
}

func (f *fakeNotify) Warning(_ context.Context, userID uuid.UUID, message, detail string) {
	f.push(userID, enums.NotificationLevelWarning, message, detail)
}

func (f *fakeNotify) List(_ context.Context, _ notify.ListParams) (*notify.ListResult, error) {
	return &notify.ListResult{}, nil
}

func (f *fakeNotify) MarkRead(_ context.Context, _, _ uuid.UUID) error { return nil }

func (f *fakeNotify) MarkAllRead(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil }

func (f *fakeNotify) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

type cartFixture struct {
	svc     Service
	store   *fakeCartStore
	catalog *fakeCatalog
	notify  *fakeNotify
}

func newCartFixture(t *testing.T, products ...*models.Product) *cartFixture {
	t.Helper()
	index := map[uuid.UUID]*models.Product{}
	for _, product := range products {
		index[product.ID] = product
	}
	store := newFakeCartStore()
	cat := &fakeCatalog{products: index}
	notifier := &fakeNotify{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(store, cat, notifier, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &cartFixture{svc: svc, store: store, catalog: cat, notify: notifier}
}

func buyerSession() Session {
	return Session{ID: "sess-buyer", UserID: uuid.New(), Role: enums.UserRoleBuyer}
}

func sellerSession() Session {
	return Session{ID: "sess-seller", UserID: uuid.New(), Role: enums.UserRoleSeller}
}

func TestAddToCartRetail(t *testing.T) {
	product := testProduct()
	fx := newCartFixture(t, product)
	session := buyerSession()

	result, err := fx.svc.AddToCart(context.Background(), session, product.ID)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if !result.Added {
		t.Fatalf("expected Added=true")
	}
	if result.Cart.Type != enums.CartTypeB2C {
		t.Fatalf("cart type = %s, want b2c", result.Cart.Type)
	}
	if fx.store.saved != 1 {
		t.Fatalf("saved %d times, want 1", fx.store.saved)
	}
	if len(fx.notify.toasts) != 1 || fx.notify.toasts[0].message != "Añadido al carrito" {
		t.Fatalf("unexpected toasts: %+v", fx.notify.toasts)
	}
	if fx.notify.toasts[0].userID != session.UserID {
		t.Fatalf("toast recorded for wrong user")
	}
}

func TestAddToCartWholesalePersistsToastDetail(t *testing.T) {
	product := testProduct()
	fx := newCartFixture(t, product)
	session := sellerSession()

	result, err := fx.svc.AddToCart(context.Background(), session, product.ID)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if !result.Added {
		t.Fatalf("expected Added=true")
	}
	if len(fx.notify.toasts) != 1 {
		t.Fatalf("unexpected toasts: %+v", fx.notify.toasts)
	}
	toast := fx.notify.toasts[0]
	if toast.message != "Agregado al carrito B2B" {
		t.Fatalf("toast message = %q", toast.message)
	}
	if toast.detail != "Playera básica x 10 unidades (MOQ)" {
		t.Fatalf("toast detail = %q, want the product and MOQ quantity", toast.detail)
	}
}

func TestAddToCartWholesaleInsufficientStock(t *testing.T) {
	product := testProduct()
	product.Stock = 3
	fx := newCartFixture(t, product)

	result, err := fx.svc.AddToCart(context.Background(), sellerSession(), product.ID)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if result.Added {
		t.Fatalf("expected Added=false when stock is below MOQ")
	}
	if fx.store.saved != 0 {
		t.Fatalf("rejected add must not persist the cart")
	}
	if len(fx.notify.toasts) != 1 || fx.notify.toasts[0].level != enums.NotificationLevelError {
		t.Fatalf("unexpected toasts: %+v", fx.notify.toasts)
	}
	if fx.notify.toasts[0].message != "Stock insuficiente. Disponible: 3, MOQ: 10" {
		t.Fatalf("toast message = %q", fx.notify.toasts[0].message)
	}
}

func TestAddToCartInactiveProduct(t *testing.T) {
	product := testProduct()
	product.Active = false
	fx := newCartFixture(t, product)

	_, err := fx.svc.AddToCart(context.Background(), buyerSession(), product.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	fx := newCartFixture(t)

	_, err := fx.svc.AddToCart(context.Background(), buyerSession(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRolesGetSeparateCarts(t *testing.T) {
	product := testProduct()
	fx := newCartFixture(t, product)
	ctx := context.Background()

	session := Session{ID: "same-session", UserID: uuid.New(), Role: enums.UserRoleBuyer}
	if _, err := fx.svc.AddToCart(ctx, session, product.ID); err != nil {
		t.Fatalf("retail add: %v", err)
	}

	session.Role = enums.UserRoleSeller
	if _, err := fx.svc.AddToCart(ctx, session, product.ID); err != nil {
		t.Fatalf("wholesale add: %v", err)
	}

	if len(fx.store.carts) != 2 {
		t.Fatalf("expected two separate carts, got %d", len(fx.store.carts))
	}
}

func TestUpdateQuantityWholesaleEnforcesBounds(t *testing.T) {
	product := testProduct()
	fx := newCartFixture(t, product)
	ctx := context.Background()
	session := sellerSession()

	if _, err := fx.svc.AddToCart(ctx, session, product.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	if _, err := fx.svc.UpdateQuantity(ctx, session, product.ID, 5); err == nil {
		t.Fatalf("expected below-MOQ update to be rejected")
	}
	if _, err := fx.svc.UpdateQuantity(ctx, session, product.ID, 500); err == nil {
		t.Fatalf("expected over-stock update to be rejected")
	}

	updated, err := fx.svc.UpdateQuantity(ctx, session, product.ID, 40)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if updated.Items[0].Quantity != 40 {
		t.Fatalf("quantity = %d, want 40", updated.Items[0].Quantity)
	}
	if updated.Items[0].SubtotalCents != 40*product.PriceB2BCents {
		t.Fatalf("subtotal = %d", updated.Items[0].SubtotalCents)
	}
}

func TestUpdateQuantityMissingItem(t *testing.T) {
	fx := newCartFixture(t)

	_, err := fx.svc.UpdateQuantity(context.Background(), buyerSession(), uuid.New(), 2)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	product := testProduct()
	fx := newCartFixture(t, product)
	ctx := context.Background()
	session := buyerSession()

	if _, err := fx.svc.AddToCart(ctx, session, product.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	updated, err := fx.svc.RemoveItem(ctx, session, product.ID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(updated.Items) != 0 {
		t.Fatalf("expected empty cart after removal")
	}

	if _, err := fx.svc.RemoveItem(ctx, session, product.ID); err == nil {
		t.Fatalf("expected second removal to fail")
	}

	if err := fx.svc.Clear(ctx, session); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if fx.store.deleted != 1 {
		t.Fatalf("deleted %d times, want 1", fx.store.deleted)
	}
}

func TestGetCartInfoLinks(t *testing.T) {
	product := testProduct()
	fx := newCartFixture(t, product)
	ctx := context.Background()

	buyer := buyerSession()
	if _, err := fx.svc.AddToCart(ctx, buyer, product.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	info, err := fx.svc.GetCartInfo(ctx, buyer)
	if err != nil {
		t.Fatalf("GetCartInfo: %v", err)
	}
	if info.CartLink != "/carrito" || info.CartType != enums.CartTypeB2C {
		t.Fatalf("retail info = %+v", info)
	}
	if info.TotalItems != 1 || info.TotalQuantity != 1 {
		t.Fatalf("retail totals = %d items, %d units", info.TotalItems, info.TotalQuantity)
	}

	seller := sellerSession()
	if _, err := fx.svc.AddToCart(ctx, seller, product.ID); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	info, err = fx.svc.GetCartInfo(ctx, seller)
	if err != nil {
		t.Fatalf("GetCartInfo: %v", err)
	}
	if info.CartLink != "/seller/carrito" || info.CartType != enums.CartTypeB2B {
		t.Fatalf("wholesale info = %+v", info)
	}
	if info.TotalQuantity != 10 {
		t.Fatalf("wholesale quantity = %d, want MOQ 10", info.TotalQuantity)
	}
	if info.SubtotalCents != 10*product.PriceB2BCents {
		t.Fatalf("wholesale subtotal = %d", info.SubtotalCents)
	}
}

func TestGetBusinessSummaryRequiresBusinessRole(t *testing.T) {
	product := testProduct()
	fx := newCartFixture(t, product)

	_, err := fx.svc.GetBusinessSummary(context.Background(), buyerSession(), product.ID, 10)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	summary, err := fx.svc.GetBusinessSummary(context.Background(), sellerSession(), product.ID, 10)
	if err != nil {
		t.Fatalf("GetBusinessSummary: %v", err)
	}
	if summary.TotalInvestmentCents != 10*product.CostB2BCents {
		t.Fatalf("investment = %d", summary.TotalInvestmentCents)
	}
}

func TestSessionValidation(t *testing.T) {
	fx := newCartFixture(t)

	_, err := fx.svc.GetCartInfo(context.Background(), Session{Role: enums.UserRoleBuyer})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for empty session id, got %v", err)
	}

	_, err = fx.svc.GetCartInfo(context.Background(), Session{ID: "sess", Role: enums.UserRole("ghost")})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown role, got %v", err)
	}
}

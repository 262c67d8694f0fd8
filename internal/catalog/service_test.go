package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	paginationpkg "github.com/mercaditoapp/mercadito-backend/pkg/pagination"
)

type fakeRepository struct {
	getFn  func(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	listFn func(ctx context.Context, params listProductsParams) ([]models.Product, *paginationpkg.Cursor, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) GetByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if f.getFn != nil {
		return f.getFn(ctx, productID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context, params listProductsParams) ([]models.Product, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestService_GetProduct(t *testing.T) {
	product := models.Product{ID: uuid.New(), Name: "Cafe de olla 1kg", MOQ: 5, Stock: 40}
	repo := &fakeRepository{
		getFn: func(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
			if productID != product.ID {
				t.Fatalf("unexpected product id %s", productID)
			}
			return &product, nil
		},
	}

	got, err := newServiceWithRepo(repo).Get(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != product.Name {
		t.Fatalf("unexpected product %+v", got)
	}
}

func TestService_GetProductNotFound(t *testing.T) {
	repo := &fakeRepository{
		getFn: func(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	_, err := newServiceWithRepo(repo).Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_GetProductRequiresID(t *testing.T) {
	_, err := newServiceWithRepo(&fakeRepository{}).Get(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ListProducts(t *testing.T) {
	first := models.Product{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)}
	next := models.Product{ID: uuid.New(), CreatedAt: time.Now()}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listProductsParams) ([]models.Product, *paginationpkg.Cursor, error) {
			if !params.ActiveOnly {
				t.Fatal("expected active-only filter to propagate")
			}
			return []models.Product{first}, &paginationpkg.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
		},
	}

	result, err := newServiceWithRepo(repo).List(context.Background(), ListParams{ActiveOnly: true, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 product, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected cursor for next page")
	}
}

func TestService_ListProductsInvalidCursor(t *testing.T) {
	_, err := newServiceWithRepo(&fakeRepository{}).List(context.Background(), ListParams{Cursor: "garbage"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ListProductsRepoError(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listProductsParams) ([]models.Product, *paginationpkg.Cursor, error) {
			return nil, nil, errors.New("db down")
		},
	}
	_, err := newServiceWithRepo(repo).List(context.Background(), ListParams{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

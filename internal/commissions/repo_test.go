package commissions

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
)

func mustCreateTestSeller(t *testing.T, tx *gorm.DB) *models.Seller {
	t.Helper()
	seller := &models.Seller{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		BusinessName: "Abarrotes La Esquina",
		ContactEmail: fmt.Sprintf("mc_test_%s@example.com", uuid.NewString()),
		Active:       true,
	}
	if err := tx.Create(seller).Error; err != nil {
		t.Fatalf("create seller: %v", err)
	}
	return seller
}

func TestRepositoryOverrideFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	seller := mustCreateTestSeller(t, tx)

	first := &models.CommissionOverride{
		SellerID:   seller.ID,
		Percentage: dec("12.00"),
		Active:     true,
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create override: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatal("expected override id to be generated")
	}

	active, err := repo.GetActiveBySeller(ctx, seller.ID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.ID != first.ID {
		t.Fatalf("expected active override %s, got %s", first.ID, active.ID)
	}

	flipped, err := repo.DeactivateBySeller(ctx, seller.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if flipped != 1 {
		t.Fatalf("expected 1 deactivated row, got %d", flipped)
	}

	second := &models.CommissionOverride{
		SellerID:    seller.ID,
		FixedAmount: dec("2.50"),
		Active:      true,
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create replacement: %v", err)
	}

	rows, _, err := repo.List(ctx, listOverridesParams{SellerID: &seller.ID})
	if err != nil {
		t.Fatalf("list overrides: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 overrides, got %d", len(rows))
	}

	deleted, err := repo.Delete(ctx, second.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to remove the override")
	}
}

func TestRepositoryActiveUniqueIndex(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	seller := mustCreateTestSeller(t, tx)

	if err := repo.Create(ctx, &models.CommissionOverride{
		SellerID:   seller.ID,
		Percentage: dec("10.00"),
		Active:     true,
	}); err != nil {
		t.Fatalf("create first: %v", err)
	}

	err := repo.Create(ctx, &models.CommissionOverride{
		SellerID:   seller.ID,
		Percentage: dec("11.00"),
		Active:     true,
	})
	if err == nil {
		t.Fatal("expected second active override to violate the partial unique index")
	}
}

package cart

import (
	"fmt"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
)

// B2BStrategy implements the wholesale flow: lines start at the product MOQ,
// priced at the wholesale price, and never exceed the physical stock.
type B2BStrategy struct{}

func (B2BStrategy) Type() enums.CartType {
	return enums.CartTypeB2B
}

func (B2BStrategy) Add(cart *Cart, product *models.Product) AddOutcome {
	moq := product.MOQ
	if moq < 1 {
		moq = 1
	}
	price := product.PriceB2BCents
	if price == 0 {
		price = product.PriceB2CCents
	}
	stock := product.Stock
	if stock == 0 {
		stock = moq
	}

	if stock < moq {
		return AddOutcome{
			Added: false,
			Toast: Toast{
				Level:   enums.NotificationLevelError,
				Message: fmt.Sprintf("Stock insuficiente. Disponible: %d, MOQ: %d", stock, moq),
			},
		}
	}

	quantity := moq
	if item := cart.find(product.ID); item != nil {
		// Re-adding a lot bumps the line by one MOQ, capped at stock.
		next := item.Quantity + moq
		if next > stock {
			next = stock
		}
		item.Quantity = next
		item.Stock = stock
		quantity = next
	} else {
		cart.Items = append(cart.Items, Item{
			ProductID:      product.ID,
			SKU:            product.SKU,
			Name:           product.Name,
			ImageURL:       product.ImageURL,
			SellerID:       product.SellerID,
			UnitPriceCents: price,
			Quantity:       moq,
			MOQ:            moq,
			Stock:          stock,
		})
	}
	cart.recompute()

	return AddOutcome{
		Added: true,
		Toast: Toast{
			Level:   enums.NotificationLevelSuccess,
			Message: "Agregado al carrito B2B",
			Detail:  fmt.Sprintf("%s x %d unidades (MOQ)", product.Name, quantity),
		},
	}
}

func (B2BStrategy) ValidateQuantity(item *Item, quantity int) error {
	moq := item.MOQ
	if moq < 1 {
		moq = 1
	}
	if quantity < moq {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "quantity below minimum order quantity").
			WithDetails(map[string]any{"moq": moq, "requested": quantity})
	}
	if item.Stock > 0 && quantity > item.Stock {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "quantity exceeds available stock").
			WithDetails(map[string]any{"stock": item.Stock, "requested": quantity})
	}
	return nil
}

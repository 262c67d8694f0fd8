package cart

import (
	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
)

// B2CStrategy implements the retail flow: unit increments at the retail price.
type B2CStrategy struct{}

func (B2CStrategy) Type() enums.CartType {
	return enums.CartTypeB2C
}

func (B2CStrategy) Add(cart *Cart, product *models.Product) AddOutcome {
	if item := cart.find(product.ID); item != nil {
		item.Quantity++
	} else {
		cart.Items = append(cart.Items, Item{
			ProductID:      product.ID,
			SKU:            product.SKU,
			Name:           product.Name,
			ImageURL:       product.ImageURL,
			SellerID:       product.SellerID,
			UnitPriceCents: product.PriceB2CCents,
			Quantity:       1,
		})
	}
	cart.recompute()

	return AddOutcome{
		Added: true,
		Toast: Toast{
			Level:   enums.NotificationLevelSuccess,
			Message: "Añadido al carrito",
			Detail:  product.Name,
		},
	}
}

func (B2CStrategy) ValidateQuantity(item *Item, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return nil
}

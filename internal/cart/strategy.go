package cart

import (
	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
)

// Toast is the user-facing feedback produced by a cart operation.
type Toast struct {
	Level   enums.NotificationLevel `json:"level"`
	Message string                  `json:"message"`
	Detail  string                  `json:"detail,omitempty"`
}

// AddOutcome reports whether an add attempt changed the cart and which toast
// to surface.
type AddOutcome struct {
	Added bool
	Toast Toast
}

// Strategy encapsulates the purchase rules of one cart type. The retail and
// wholesale flows price and validate lines differently.
type Strategy interface {
	Type() enums.CartType
	Add(cart *Cart, product *models.Product) AddOutcome
	ValidateQuantity(item *Item, quantity int) error
}

// StrategyForRole picks the cart strategy an account role shops with.
func StrategyForRole(role enums.UserRole) Strategy {
	if role.IsBusiness() {
		return B2BStrategy{}
	}
	return B2CStrategy{}
}

package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
)

// Item is one cart line. Monetary amounts are integer cents.
type Item struct {
	ProductID      uuid.UUID `json:"product_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	ImageURL       string    `json:"image_url"`
	SellerID       uuid.UUID `json:"seller_id"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	MOQ            int       `json:"moq,omitempty"`
	Stock          int       `json:"stock,omitempty"`
	SubtotalCents  int64     `json:"subtotal_cents"`
}

// Cart is a session-scoped shopping cart stored as a Redis document.
type Cart struct {
	SessionID string         `json:"session_id"`
	Type      enums.CartType `json:"type"`
	Items     []Item         `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewCart returns an empty cart for the given session and type.
func NewCart(sessionID string, cartType enums.CartType) *Cart {
	return &Cart{
		SessionID: sessionID,
		Type:      cartType,
		Items:     []Item{},
	}
}

func (c *Cart) find(productID uuid.UUID) *Item {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) remove(productID uuid.UUID) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) recompute() {
	for i := range c.Items {
		c.Items[i].SubtotalCents = c.Items[i].UnitPriceCents * int64(c.Items[i].Quantity)
	}
}

// TotalQuantity sums the quantities across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// SubtotalCents sums the line subtotals.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.SubtotalCents
	}
	return total
}

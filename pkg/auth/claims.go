package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	SellerID *uuid.UUID
	Role     enums.UserRole
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. The token id
// (jti) doubles as the cart session key in Redis.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	SellerID *uuid.UUID     `json:"seller_id,omitempty"`
	Role     enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the cart session key derived from the token id.
func (c *AccessTokenClaims) SessionID() string {
	return c.ID
}

// CartType resolves which cart the authenticated account shops with.
func (c *AccessTokenClaims) CartType() enums.CartType {
	return enums.CartTypeForRole(c.Role)
}

package enums

import "fmt"

// CartType distinguishes the retail cart from the wholesale cart.
type CartType string

const (
	CartTypeB2C CartType = "b2c"
	CartTypeB2B CartType = "b2b"
)

var validCartTypes = []CartType{
	CartTypeB2C,
	CartTypeB2B,
}

// String implements fmt.Stringer.
func (c CartType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartType.
func (c CartType) IsValid() bool {
	for _, candidate := range validCartTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// CartTypeForRole maps an account role to the cart it shops with.
func CartTypeForRole(role UserRole) CartType {
	if role.IsBusiness() {
		return CartTypeB2B
	}
	return CartTypeB2C
}

// ParseCartType converts raw input into a CartType.
func ParseCartType(value string) (CartType, error) {
	for _, candidate := range validCartTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart type %q", value)
}

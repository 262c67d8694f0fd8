package enums

import "fmt"

// CommissionSource tells where an effective commission field came from.
type CommissionSource string

const (
	CommissionSourceGlobal   CommissionSource = "global"
	CommissionSourceOverride CommissionSource = "override"
)

var validCommissionSources = []CommissionSource{
	CommissionSourceGlobal,
	CommissionSourceOverride,
}

// IsValid reports whether the value is a known CommissionSource.
func (c CommissionSource) IsValid() bool {
	for _, candidate := range validCommissionSources {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCommissionSource converts raw input into a CommissionSource.
func ParseCommissionSource(value string) (CommissionSource, error) {
	for _, candidate := range validCommissionSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid commission source %q", value)
}

package enums

import "fmt"

// AuthScope separates the customer and admin token namespaces. Tokens
// minted for one scope are never accepted by surfaces of the other.
type AuthScope string

const (
	AuthScopeCustomer AuthScope = "customer"
	AuthScopeAdmin    AuthScope = "admin"
)

var validAuthScopes = []AuthScope{
	AuthScopeCustomer,
	AuthScopeAdmin,
}

// String implements fmt.Stringer.
func (a AuthScope) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuthScope.
func (a AuthScope) IsValid() bool {
	for _, candidate := range validAuthScopes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuthScope converts raw input into an AuthScope.
func ParseAuthScope(value string) (AuthScope, error) {
	for _, candidate := range validAuthScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid auth scope %q", value)
}

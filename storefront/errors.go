package storefront

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by operations that need a signed-in
// customer before any network round-trip is attempted.
var ErrNotAuthenticated = errors.New("storefront: not signed in")

// ErrScriptLoad reports that the hosted checkout script could not be
// loaded; the payment flow never started.
var ErrScriptLoad = errors.New("storefront: checkout script failed to load")

// APIError is a decoded backend error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: api error %d %s: %s", e.Status, e.Code, e.Message)
}

// IsCode reports whether err is an APIError carrying the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

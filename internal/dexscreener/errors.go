// internal/dexscreener/errors.go
package dexscreener

import (
	"errors"
	"fmt"
)

// ErrNoPairs is returned when a lookup succeeds but carries zero pairs
var ErrNoPairs = errors.New("response contained zero pairs")

// ProviderError represents a non-2xx answer from the price provider
type ProviderError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s lookup: unexpected status code %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// InvalidPriceError marks a price that did not parse to a finite
// positive number. It is a hard failure and is never retried.
type InvalidPriceError struct {
	Raw string
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid priceUsd: %q", e.Raw)
}

// IsInvalidPrice reports whether err is an InvalidPriceError
func IsInvalidPrice(err error) bool {
	var target *InvalidPriceError
	return errors.As(err, &target)
}

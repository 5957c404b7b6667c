package cartclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrProductNotFound is reported when the server does not know the
	// product (or cart line) a mutation referred to.
	ErrProductNotFound = errors.New("product not found")

	// ErrOutOfStock is reported when the server refuses to add a product
	// that is not currently purchasable.
	ErrOutOfStock = errors.New("product out of stock")

	// ErrSuperseded is returned to a mutation caller whose request was
	// cancelled because a newer mutation for the same product started
	// before it finished. The newer call owns the outcome.
	ErrSuperseded = errors.New("mutation superseded by a newer request")

	// ErrCircuitOpen is returned while the circuit breaker is rejecting
	// requests after repeated infrastructure failures.
	ErrCircuitOpen = gobreaker.ErrOpenState
)

// NetworkError wraps a transport-level failure: the request never produced
// an HTTP response the client could interpret.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cart api: network failure calling %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response from the cart API. Status and Message
// carry what the server said; for the well-known rejections the error also
// unwraps to ErrProductNotFound or ErrOutOfStock so callers can errors.Is.
type ServerError struct {
	Status  int
	Message string
	kind    error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("cart api: server rejected request (%d): %s", e.Status, e.Message)
}

func (e *ServerError) Unwrap() error { return e.kind }

// ParseError means the server answered but the body was not the expected
// envelope. Malformed payloads are rejected rather than half-applied to
// the cached cart.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cart api: malformed response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func mapServerError(status int, message string) error {
	se := &ServerError{Status: status, Message: message}
	switch status {
	case http.StatusNotFound:
		se.kind = ErrProductNotFound
	case http.StatusConflict:
		se.kind = ErrOutOfStock
	}
	return se
}

// countsAsFailure decides what the circuit breaker treats as an
// infrastructure failure. Business rejections (4xx) and cancelled requests
// must not trip the breaker.
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.Status >= 500
	}
	var ne *NetworkError
	var pe *ParseError
	return errors.As(err, &ne) || errors.As(err, &pe)
}

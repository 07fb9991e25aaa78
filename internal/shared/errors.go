package shared

import (
	"fmt"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

var (
	// ErrInvalidCredentials indicates login failure. Unknown users and wrong
	// passwords are reported identically.
	ErrInvalidCredentials = fmt.Errorf("%w: usuario o contraseña incorrectos", httpx.ErrUnauthorized)
	// ErrIdempotencyConflict indicates a duplicate idempotency key.
	ErrIdempotencyConflict = fmt.Errorf("%w: la solicitud ya fue procesada", httpx.ErrConflict)
)

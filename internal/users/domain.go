package users

import (
	"fmt"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

// User is the public view of an account. Password hashes never leave the repository.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// CreateUserInput is the body accepted by the create endpoint.
type CreateUserInput struct {
	Username string `json:"username" validate:"required,max=64"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

var (
	// ErrUserNotFound indicates the account id does not exist.
	ErrUserNotFound = fmt.Errorf("%w: usuario no encontrado", httpx.ErrNotFound)
	// ErrDuplicateUsername indicates the username is taken.
	ErrDuplicateUsername = fmt.Errorf("%w: el nombre de usuario ya existe", httpx.ErrDuplicate)
	// ErrProtectedUser indicates an attempt to delete the administrator account.
	ErrProtectedUser = fmt.Errorf("%w: no se puede eliminar al usuario administrador", httpx.ErrForbidden)
)

package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// clientMessages holds the text shown when a sentinel reaches a client bare.
var clientMessages = []struct {
	err error
	msg string
}{
	{ErrNotFound, "Recurso no encontrado."},
	{ErrDuplicate, "Registro duplicado."},
	{ErrConflict, "Conflicto con el estado actual."},
	{ErrValidation, "Datos inválidos."},
	{ErrForbidden, "Acceso denegado."},
	{ErrUnauthorized, "No autorizado."},
}

// ClientMessage strips the internal sentinel text from err so that only the
// domain detail reaches API clients.
func ClientMessage(err error) string {
	msg := err.Error()
	for _, c := range clientMessages {
		if !errors.Is(err, c.err) {
			continue
		}
		sentinel := c.err.Error()
		if msg == sentinel {
			return c.msg
		}
		if rest, ok := strings.CutPrefix(msg, sentinel+": "); ok {
			return rest
		}
		if rest, ok := strings.CutSuffix(msg, ": "+sentinel); ok {
			return rest + ": " + c.msg
		}
		return strings.Replace(msg, ": "+sentinel+": ", ": ", 1)
	}
	return msg
}

// StatusFor maps a domain error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the failure envelope for err. Internal errors never leak
// their cause; the caller-provided fallback message is used instead.
func RespondError(w http.ResponseWriter, err error, fallback string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		Fail(w, status, fallback)
		return
	}
	Fail(w, status, ClientMessage(err))
}

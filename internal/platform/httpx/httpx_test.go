package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorHidesInternalCause(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("pq: connection refused"), "Error interno.")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body Failure
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, StatusError, body.Status)
	require.Equal(t, "Error interno.", body.Message)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: sale AS9", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: sku X1", ErrDuplicate), http.StatusConflict},
		{fmt.Errorf("%w: id taken", ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: items", ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: admin", ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: login", ErrUnauthorized), http.StatusUnauthorized},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

type sample struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"cantidad" validate:"gte=0"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	err := Validate(NewValidator(), sample{Count: -1})
	require.ErrorIs(t, err, ErrValidation)
	require.Contains(t, err.Error(), "name es obligatorio")
	require.Contains(t, err.Error(), "cantidad debe ser mayor o igual a 0")
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	var dst sample
	err := DecodeJSON(httptest.NewRecorder(), req, &dst)
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "cuerpo JSON mal formado", ClientMessage(err))
}

func TestClientMessageDropsSentinelText(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: venta no encontrada: AS9", ErrNotFound), "venta no encontrada: AS9"},
		{fmt.Errorf("%w: AS9", fmt.Errorf("%w: venta no encontrada", ErrNotFound)), "venta no encontrada: AS9"},
		{fmt.Errorf("adjust stock: %w", fmt.Errorf("%w: stock insuficiente", ErrConflict)), "adjust stock: stock insuficiente"},
		{ErrNotFound, "Recurso no encontrado."},
		{fmt.Errorf("login: %w", ErrUnauthorized), "login: No autorizado."},
		{errors.New("sin sentinela"), "sin sentinela"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ClientMessage(tc.err), tc.err.Error())
	}
}

func TestRespondErrorWritesDomainDetailOnly(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, fmt.Errorf("%w: la venta ya está anulada: AS1", ErrConflict), "Error interno.")

	require.Equal(t, http.StatusConflict, rr.Code)
	var body Failure
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "la venta ya está anulada: AS1", body.Message)
	require.NotContains(t, body.Message, "conflict")
}

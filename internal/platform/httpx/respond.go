// Package httpx provides HTTP response utilities using the status/message envelope.
package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	// StatusSuccess marks a successful envelope.
	StatusSuccess = "success"
	// StatusError marks a failed envelope.
	StatusError = "error"

	maxBodyBytes = 1 << 20
)

// Failure is the body of every failed response.
type Failure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DataResponse wraps list and detail payloads.
type DataResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Fail sends the failure envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Failure{Status: StatusError, Message: message})
}

// Data sends a success envelope holding data.
func Data(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, DataResponse{Status: StatusSuccess, Data: data})
}

// Message sends a success envelope holding a message.
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, MessageResponse{Status: StatusSuccess, Message: message})
}

// DecodeJSON decodes JSON request body into the target struct.
// Malformed bodies are reported as validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: cuerpo JSON mal formado", ErrValidation)
	}
	return nil
}

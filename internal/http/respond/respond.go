package respond

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/hongminglow/brewerybook/internal/apperror"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// JSON encodes payload as the response body.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}

// Raw writes an already encoded JSON body unchanged.
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("respond: write body failed: %v", err)
	}
}

// Error writes an error response.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorBody{Error: message, Code: code})
}

// AppError writes err using its status, code and user-facing message.
func AppError(w http.ResponseWriter, err *apperror.AppError) {
	Error(w, err.StatusCode(), err.Code(), err.Message)
}

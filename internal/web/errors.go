package web

// errors.go provides unified error response handling for the web layer.
// Technical errors are logged server-side with the request ID for
// correlation; clients get the mapped user-friendly message and support
// code as JSON.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookshophere/bookshop/internal/core"
	"github.com/bookshophere/bookshop/internal/logging"
)

// ErrorResponse is the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	respondErrorJSON(w, userMsg, statusCode)
}

// respondErrorMessage is respondError for plain message strings.
func respondErrorMessage(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	respondErrorJSON(w, core.MapError(errors.New(message)), statusCode)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondJSON encodes v as JSON with the given status code.
// Encoding errors are logged since headers are already sent.
func respondJSON(w http.ResponseWriter, r *http.Request, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

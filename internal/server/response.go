package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/leslieo2/lanc-compliance/internal/constants"
)

// ServiceStatus is the /api/status payload.
type ServiceStatus struct {
	Service     string   `json:"service"`
	Status      string   `json:"status"`
	Timestamp   string   `json:"timestamp"`
	Environment string   `json:"environment"`
	Version     string   `json:"version"`
	Features    Features `json:"features"`
}

type Features struct {
	HealthChecks string `json:"healthChecks"`
	Logging      string `json:"logging"`
	Security     string `json:"security"`
}

// Greeting is the /api/hello payload.
type Greeting struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Method    string `json:"method"`
}

// DebugErrorResponse adds the stack trace; it is never sent in production.
type DebugErrorResponse struct {
	ErrorResponse
	Stack string `json:"stack"`
}

// writeJSON encodes v before touching w, so an encoding failure can still be
// reported as a proper error response.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize response: %w", err)
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSONUTF8)
	w.WriteHeader(status)
	_, _ = w.Write(buf)
	return nil
}

// backend/src/utils/http.go
package utils

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/openaudit/backend/src/logger"
)

// JSONErrorResponse is the standard error envelope returned by all handlers.
type JSONErrorResponse struct {
	Error string `json:"error"`
}

// SendJSONError writes a JSON error response with the given status code.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(JSONErrorResponse{Error: message}); err != nil {
		logger.L.Error("failed to encode JSON error response", "error", err)
	}
}

// SendJSON writes an arbitrary payload as a JSON response.
func SendJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("failed to encode JSON response", "error", err)
	}
}

// RoundFloat rounds a float to the given number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// Package response holds the JSON envelope shared by the auth, donation and
// notification services. Handlers never write raw JSON bodies; they go
// through Success or Error so every Seva endpoint answers in the same shape.
package response

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope on every Seva API reply. Status is either
// "success" or "error". Data carries the payload (a user, an NGO, a donation
// list) and Error carries failure detail; each side leaves the other empty.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON writes an arbitrary payload with the given status code. Health and
// metrics endpoints use it directly; API handlers go through Success/Error.
func JSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Success writes a success envelope with an optional payload.
func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error writes an error envelope. errDetail may be empty when the message
// already says everything the client needs.
func Error(w http.ResponseWriter, statusCode int, message string, errDetail string) {
	JSON(w, statusCode, APIResponse{
		Status:  "error",
		Message: message,
		Error:   errDetail,
	})
}

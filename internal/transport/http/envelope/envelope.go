// Package envelope implements the response contract shared by every
// endpoint: {"success":true,"data":...} on success and
// {"success":false,"message":"..."} on failure.
package envelope

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type successBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RetryAfterSec int64  `json:"retry_after_sec,omitempty"`
}

func WriteData(w http.ResponseWriter, status int, data any) {
	write(w, status, successBody{Success: true, Data: data})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	write(w, status, errorBody{Success: false, Message: message})
}

func WriteRateLimited(w http.ResponseWriter, retryAfterSec int64) {
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}
	w.Header().Set("Retry-After", strconv.FormatInt(retryAfterSec, 10))
	write(w, http.StatusTooManyRequests, errorBody{
		Success:       false,
		Message:       "too many attempts, slow down",
		RetryAfterSec: retryAfterSec,
	})
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

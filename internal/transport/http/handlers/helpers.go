package handlers

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/envelope"
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt64 reads an optional numeric query parameter; absent means 0.
func queryInt64(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func queryInt(r *http.Request, name string) (int, bool) {
	v, ok := queryInt64(r, name)
	return int(v), ok
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeBadRequest(w http.ResponseWriter, message string) {
	envelope.WriteError(w, http.StatusBadRequest, message)
}

func writeUnauthorized(w http.ResponseWriter) {
	envelope.WriteError(w, http.StatusUnauthorized, "authentication required")
}

func writeNotFound(w http.ResponseWriter, message string) {
	envelope.WriteError(w, http.StatusNotFound, message)
}

func writeInternal(w http.ResponseWriter) {
	envelope.WriteError(w, http.StatusInternalServerError, "internal server error")
}

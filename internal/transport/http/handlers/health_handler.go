package handlers

import (
	"net/http"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/envelope"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	envelope.WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/dto"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/envelope"

	userssvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/users"
)

type UsersHandler struct {
	service *userssvc.Service
}

func NewUsersHandler(service *userssvc.Service) *UsersHandler {
	return &UsersHandler{service: service}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	users, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w)
		return
	}
	envelope.WriteData(w, http.StatusOK, users)
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user, err := h.service.Create(r.Context(), req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		h.handleUsersError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, user)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid user id")
		return
	}

	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user, err := h.service.Update(r.Context(), id, req.FullName, req.Role, req.IsActive)
	if err != nil {
		h.handleUsersError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, user)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid user id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleUsersError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *UsersHandler) handleUsersError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userssvc.ErrValidation):
		writeBadRequest(w, "invalid input")
	case errors.Is(err, userssvc.ErrNotFound):
		writeNotFound(w, "user not found")
	case errors.Is(err, userssvc.ErrEmailTaken):
		writeBadRequest(w, "email already registered")
	case errors.Is(err, userssvc.ErrLastAdmin):
		writeBadRequest(w, "cannot remove the last active admin")
	default:
		writeInternal(w)
	}
}

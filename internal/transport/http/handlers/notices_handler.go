package handlers

import (
	"errors"
	"net/http"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/enums"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/dto"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/envelope"

	authsvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/auth"
	noticessvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/notices"
)

type NoticesHandler struct {
	service *noticessvc.Service
}

func NewNoticesHandler(service *noticessvc.Service) *NoticesHandler {
	return &NoticesHandler{service: service}
}

func (h *NoticesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeInternal(w)
		return
	}
	envelope.WriteData(w, http.StatusOK, categories)
}

func (h *NoticesHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	var req dto.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		h.handleNoticesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, category)
}

func (h *NoticesHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid category id")
		return
	}

	var req dto.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		h.handleNoticesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, category)
}

func (h *NoticesHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid category id")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.handleNoticesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}

// List hides drafts from viewers; editors and admins see everything.
func (h *NoticesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	categoryID, ok := queryInt64(r, "category_id")
	if !ok {
		writeBadRequest(w, "invalid category_id filter")
		return
	}

	publishedOnly := true
	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok && identity.Role.AtLeast(enums.RoleEditor) {
		publishedOnly = false
	}

	notices, err := h.service.ListNotices(r.Context(), categoryID, publishedOnly)
	if err != nil {
		writeInternal(w)
		return
	}
	envelope.WriteData(w, http.StatusOK, notices)
}

func (h *NoticesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid notice id")
		return
	}

	notice, err := h.service.GetNotice(r.Context(), id)
	if err != nil {
		h.handleNoticesError(w, err)
		return
	}

	if notice.PublishedAt == nil {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok || !identity.Role.AtLeast(enums.RoleEditor) {
			writeNotFound(w, "notice or category not found")
			return
		}
	}
	envelope.WriteData(w, http.StatusOK, notice)
}

func (h *NoticesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	var req dto.NoticeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	notice, err := h.service.CreateNotice(r.Context(), model.Notice{
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Body:       req.Body,
	}, req.Publish)
	if err != nil {
		h.handleNoticesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, notice)
}

func (h *NoticesHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid notice id")
		return
	}

	var req dto.NoticeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	notice, err := h.service.UpdateNotice(r.Context(), model.Notice{
		ID:         id,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Body:       req.Body,
	}, req.Publish)
	if err != nil {
		h.handleNoticesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, notice)
}

func (h *NoticesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid notice id")
		return
	}

	if err := h.service.DeleteNotice(r.Context(), id); err != nil {
		h.handleNoticesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *NoticesHandler) handleNoticesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, noticessvc.ErrValidation):
		writeBadRequest(w, "invalid input")
	case errors.Is(err, noticessvc.ErrNotFound):
		writeNotFound(w, "notice or category not found")
	case errors.Is(err, noticessvc.ErrConflict):
		writeBadRequest(w, "category still has notices")
	default:
		writeInternal(w)
	}
}
